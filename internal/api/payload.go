package api

import "encoding/json"

// Payload kinds.
const (
	PayloadTable   = "table"
	PayloadSummary = "summary"
	PayloadExport  = "export"
	PayloadHelp    = "help"
	PayloadError   = "error"
)

// Row is one table row keyed by column name.
type Row map[string]any

// SummaryStats is the body of a summary payload.
type SummaryStats struct {
	TotalTasks int            `json:"total_tasks"`
	Folders    int            `json:"folders"`
	Overdue    int            `json:"overdue"`
	Unassigned int            `json:"unassigned"`
	Statuses   map[string]int `json:"statuses"`
	Priorities map[string]int `json:"priorities"`
}

// Payload is the chat response, a union tagged by Type. Only the fields of
// the active kind are encoded.
type Payload struct {
	Type string

	// table, summary
	Title string

	// table
	Columns   []string
	Data      []Row
	Summary   string
	Total     int
	Truncated bool

	// summary
	Stats *SummaryStats

	// export, help, error
	Message string

	// export
	Format string
	URL    string

	// help
	Suggestions []string

	// error
	Code      string
	ErrorCode int
}

type tableJSON struct {
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Columns   []string `json:"columns"`
	Data      []Row    `json:"data"`
	Summary   string   `json:"summary"`
	Total     int      `json:"total"`
	Truncated bool     `json:"truncated"`
}

type summaryJSON struct {
	Type  string       `json:"type"`
	Title string       `json:"title"`
	Stats SummaryStats `json:"stats"`
}

type exportJSON struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Format  string `json:"format"`
	URL     string `json:"url"`
}

type helpJSON struct {
	Type        string   `json:"type"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

type errorJSON struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// payloadJSON accepts any kind when decoding.
type payloadJSON struct {
	Type        string        `json:"type"`
	Title       string        `json:"title"`
	Columns     []string      `json:"columns"`
	Data        []Row         `json:"data"`
	Summary     string        `json:"summary"`
	Total       int           `json:"total"`
	Truncated   bool          `json:"truncated"`
	Stats       *SummaryStats `json:"stats"`
	Message     string        `json:"message"`
	Format      string        `json:"format"`
	URL         string        `json:"url"`
	Suggestions []string      `json:"suggestions"`
	Code        string        `json:"code"`
	ErrorCode   int           `json:"error_code"`
}

func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case PayloadTable:
		columns := p.Columns
		if columns == nil {
			columns = []string{}
		}
		data := p.Data
		if data == nil {
			data = []Row{}
		}
		return json.Marshal(tableJSON{
			Type:      p.Type,
			Title:     p.Title,
			Columns:   columns,
			Data:      data,
			Summary:   p.Summary,
			Total:     p.Total,
			Truncated: p.Truncated,
		})
	case PayloadSummary:
		var stats SummaryStats
		if p.Stats != nil {
			stats = *p.Stats
		}
		if stats.Statuses == nil {
			stats.Statuses = map[string]int{}
		}
		if stats.Priorities == nil {
			stats.Priorities = map[string]int{}
		}
		return json.Marshal(summaryJSON{Type: p.Type, Title: p.Title, Stats: stats})
	case PayloadExport:
		return json.Marshal(exportJSON{Type: p.Type, Message: p.Message, Format: p.Format, URL: p.URL})
	case PayloadHelp:
		suggestions := p.Suggestions
		if suggestions == nil {
			suggestions = []string{}
		}
		return json.Marshal(helpJSON{Type: p.Type, Message: p.Message, Suggestions: suggestions})
	default:
		return json.Marshal(errorJSON{Type: PayloadError, Message: p.Message, Code: p.Code, ErrorCode: p.ErrorCode})
	}
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw payloadJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Payload(raw)
	return nil
}

// ErrorPayload builds an error payload.
func ErrorPayload(message string) Payload {
	return Payload{Type: PayloadError, Message: message}
}
