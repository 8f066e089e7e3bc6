// Package export writes task rows as CSV or XLSX files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"taskchat/internal/models"
)

// Format is an export file format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// SheetName is the worksheet XLSX exports write to.
const SheetName = "Tasks"

const fileBaseName = "taskchat_export"

// ErrUnknownFormat is returned for formats other than csv, xlsx and excel.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts csv, xlsx and the alias excel.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "csv":
		return CSV, nil
	case "xlsx", "excel":
		return XLSX, nil
	default:
		return "", fmt.Errorf("%w: %q (use csv or xlsx)", ErrUnknownFormat, raw)
	}
}

// FileName is the attachment name served for the format.
func (f Format) FileName() string {
	return fileBaseName + "." + string(f)
}

func (f Format) ContentType() string {
	switch f {
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Write serializes tasks to w with a header row and returns the number of task
// rows written.
func Write(w io.Writer, format Format, tasks []models.Task) (int, error) {
	switch format {
	case CSV:
		return writeCSV(w, tasks)
	case XLSX:
		return writeXLSX(w, tasks)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeCSV(w io.Writer, tasks []models.Task) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.ExportColumns); err != nil {
		return 0, err
	}
	for i, task := range tasks {
		if err := cw.Write(task.Fields(models.ExportColumns)); err != nil {
			return i, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(tasks), nil
}

func writeXLSX(w io.Writer, tasks []models.Task) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return 0, err
	}

	if err := setRow(f, 1, models.ExportColumns); err != nil {
		return 0, err
	}
	for i, task := range tasks {
		if err := setRow(f, i+2, task.Fields(models.ExportColumns)); err != nil {
			return i, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return 0, err
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return len(tasks), nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, value := range values {
		cells[i] = value
	}
	return f.SetSheetRow(SheetName, cell, &cells)
}
