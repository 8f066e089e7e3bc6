// Package format renders API responses for the command line.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"taskchat/internal/api"
)

// Formatter abstracts output formatting.
type Formatter interface {
	Write(w io.Writer, payload any) error
}

// JSONFormatter writes JSON output.
type JSONFormatter struct{}

// Write writes JSON payload to a writer.
func (f JSONFormatter) Write(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(payload)
}

// TextFormatter writes human-readable output. Types it does not know are
// written as JSON.
type TextFormatter struct{}

func (f TextFormatter) Write(w io.Writer, payload any) error {
	switch v := payload.(type) {
	case api.Payload:
		return writePayload(w, v)
	case api.StatsResponse:
		return writeStats(w, v)
	case api.RefreshResponse:
		_, err := fmt.Fprintln(w, v.Message)
		return err
	default:
		return JSONFormatter{}.Write(w, payload)
	}
}

func writePayload(w io.Writer, p api.Payload) error {
	switch p.Type {
	case api.PayloadTable:
		return writeTable(w, p)
	case api.PayloadSummary:
		return writeSummary(w, p)
	case api.PayloadExport:
		_, err := fmt.Fprintf(w, "%s\nformat: %s\nurl: %s\n", p.Message, p.Format, p.URL)
		return err
	case api.PayloadHelp:
		lines := []string{p.Message}
		for _, s := range p.Suggestions {
			lines = append(lines, "  - "+s)
		}
		_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
		return err
	default:
		_, err := fmt.Fprintf(w, "error: %s\n", p.Message)
		return err
	}
}

func writeTable(w io.Writer, p api.Payload) error {
	if p.Title != "" {
		if _, err := fmt.Fprintln(w, p.Title); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(p.Columns, "\t"))
	for _, row := range p.Data {
		cells := make([]string, len(p.Columns))
		for i, column := range p.Columns {
			cells[i] = cell(row[column])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if p.Summary != "" {
		_, err := fmt.Fprintln(w, p.Summary)
		return err
	}
	return nil
}

func writeSummary(w io.Writer, p api.Payload) error {
	if p.Stats == nil {
		_, err := fmt.Fprintln(w, p.Title)
		return err
	}
	s := p.Stats
	lines := []string{
		p.Title,
		fmt.Sprintf("total_tasks: %d", s.TotalTasks),
		fmt.Sprintf("folders: %d", s.Folders),
		fmt.Sprintf("overdue: %d", s.Overdue),
		fmt.Sprintf("unassigned: %d", s.Unassigned),
		"statuses:",
	}
	lines = append(lines, sortedCounts(s.Statuses)...)
	lines = append(lines, "priorities:")
	lines = append(lines, sortedCounts(s.Priorities)...)
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func writeStats(w io.Writer, s api.StatsResponse) error {
	lines := []string{
		fmt.Sprintf("loaded: %t", s.Loaded),
		fmt.Sprintf("count: %d", s.Count),
	}
	if s.FetchedAt != nil {
		lines = append(lines, fmt.Sprintf("fetched_at: %s", s.FetchedAt.UTC().Format(time.RFC3339)))
	}
	if s.Fingerprint != "" {
		lines = append(lines, fmt.Sprintf("fingerprint: %s", s.Fingerprint))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func sortedCounts(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, fmt.Sprintf("  %s: %d", key, counts[key]))
	}
	return out
}

// cell renders JSON-decoded values; counts arrive as float64.
func cell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}
