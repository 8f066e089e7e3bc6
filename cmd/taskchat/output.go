package main

import (
	"fmt"
	"io"
	"os"

	"taskchat/internal/format"
)

var outputFormatter format.Formatter = format.TextFormatter{}

func setOutputFormat(jsonOutput bool) {
	if jsonOutput {
		outputFormatter = format.JSONFormatter{}
		return
	}
	outputFormatter = format.TextFormatter{}
}

func writeOutput(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

// openOutput returns stdout for an empty path or "-".
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
