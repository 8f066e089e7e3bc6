// Package respond turns an interpreted chat intent into a JSON payload over
// the current snapshot.
package respond

import (
	"fmt"
	"strings"
	"time"

	"taskchat/internal/api"
	"taskchat/internal/dataset"
	"taskchat/internal/models"
	"taskchat/internal/query"
)

const (
	NoDataMessage = "No data available. Please refresh the data first."
	HelpMessage   = "I can help you with:"
	ExportMessage = "Click the export button below to download your data."

	defaultTableLimit    = 15
	defaultAllTasksLimit = 50
)

var helpSuggestions = []string{
	"Show task distribution by status",
	"List all high priority tasks",
	"Who has the most tasks?",
	"Show overdue tasks",
	"Show tasks by folder",
	"Show all tasks",
	"Give me a summary",
	"Export to CSV",
}

var (
	priorityColumns = []string{models.ColumnName, models.ColumnStatus, models.ColumnAssignees, models.ColumnFolder, models.ColumnDueDate}
	overdueColumns  = []string{models.ColumnName, models.ColumnStatus, models.ColumnAssignees, models.ColumnPriority, models.ColumnDueDate}
	folderColumns   = []string{models.ColumnName, models.ColumnStatus, models.ColumnAssignees, models.ColumnPriority, models.ColumnList}
	allTaskColumns  = []string{models.ColumnName, models.ColumnStatus, models.ColumnAssignees, models.ColumnFolder, models.ColumnPriority}
)

// Options tunes a Formatter. Zero limits fall back to the defaults.
type Options struct {
	TableLimit    int
	AllTasksLimit int
	Now           func() time.Time
}

// Formatter builds payloads.
type Formatter struct {
	tableLimit    int
	allTasksLimit int
	now           func() time.Time
}

func New(opts Options) *Formatter {
	f := &Formatter{
		tableLimit:    opts.TableLimit,
		allTasksLimit: opts.AllTasksLimit,
		now:           opts.Now,
	}
	if f.tableLimit <= 0 {
		f.tableLimit = defaultTableLimit
	}
	if f.allTasksLimit <= 0 {
		f.allTasksLimit = defaultAllTasksLimit
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// Help returns the fallback payload with example queries.
func Help() api.Payload {
	suggestions := make([]string, len(helpSuggestions))
	copy(suggestions, helpSuggestions)
	return api.Payload{Type: api.PayloadHelp, Message: HelpMessage, Suggestions: suggestions}
}

// Respond builds the payload for intent. Without data every intent other
// than Help yields the no-data error payload.
func (f *Formatter) Respond(intent query.Intent, snap *dataset.Snapshot) api.Payload {
	if intent.Kind == query.Help {
		return Help()
	}
	if snap.Empty() {
		return api.ErrorPayload(NoDataMessage)
	}

	total := snap.Len()
	switch intent.Kind {
	case query.StatusBreakdown:
		counts := snap.CountByStatus()
		return countTable("Task Distribution by Status", models.ColumnStatus, "Count", counts,
			fmt.Sprintf("Total: %d tasks across %d statuses", total, len(counts)))
	case query.PriorityBreakdown:
		return countTable("Tasks by Priority", models.ColumnPriority, "Count", snap.CountByPriority(),
			fmt.Sprintf("Priority breakdown for %d tasks", total))
	case query.PriorityFilter:
		label := titleCase(string(intent.Priority))
		rows := snap.WithPriority(intent.Priority)
		return f.rowTable(label+" Priority Tasks", priorityColumns, rows, f.tableLimit,
			fmt.Sprintf("Found %d %s priority tasks", len(rows), intent.Priority))
	case query.Workload:
		counts := snap.Workload()
		return countTable("Workload by Assignee", "Assignee", "Tasks", counts,
			fmt.Sprintf("%d team members with assigned tasks", len(counts)))
	case query.Overdue:
		rows := snap.Overdue(f.now())
		return f.rowTable("Overdue Tasks", overdueColumns, rows, f.tableLimit,
			fmt.Sprintf("Found %d overdue tasks that need attention", len(rows)))
	case query.FolderFilter:
		rows := snap.InFolder(intent.Folder)
		return f.rowTable("Tasks in "+intent.Folder, folderColumns, rows, f.tableLimit,
			fmt.Sprintf("Found %d tasks in %s", len(rows), intent.Folder))
	case query.FolderList:
		counts := snap.CountByFolder()
		return countTable("All Folders", models.ColumnFolder, "Tasks", counts,
			fmt.Sprintf("%d folders in your workspace", len(counts)))
	case query.AllTasks:
		return f.rowTable("All Tasks", allTaskColumns, snap.Tasks(), f.allTasksLimit,
			fmt.Sprintf("%d total tasks", total))
	case query.Export:
		format := intent.Format
		if format == "" {
			format = query.FormatCSV
		}
		return api.Payload{
			Type:    api.PayloadExport,
			Message: ExportMessage,
			Format:  format,
			URL:     "/api/export/" + format,
		}
	case query.Summary:
		return summaryPayload(snap.Summarize(f.now()))
	default:
		return Help()
	}
}

// Rows returns the complete row subset behind intent, ignoring display caps.
// Intents that do not select rows yield the whole snapshot.
func (f *Formatter) Rows(intent query.Intent, snap *dataset.Snapshot) []models.Task {
	switch intent.Kind {
	case query.PriorityFilter:
		return snap.WithPriority(intent.Priority)
	case query.Overdue:
		return snap.Overdue(f.now())
	case query.FolderFilter:
		return snap.InFolder(intent.Folder)
	default:
		return snap.Tasks()
	}
}

func (f *Formatter) rowTable(title string, columns []string, tasks []models.Task, limit int, summary string) api.Payload {
	shown := tasks
	truncated := false
	if len(shown) > limit {
		shown = shown[:limit]
		truncated = true
		summary = fmt.Sprintf("%s (showing first %d)", summary, limit)
	}

	data := make([]api.Row, 0, len(shown))
	for _, task := range shown {
		row := make(api.Row, len(columns))
		for _, column := range columns {
			row[column] = task.Field(column)
		}
		data = append(data, row)
	}

	return api.Payload{
		Type:      api.PayloadTable,
		Title:     title,
		Columns:   columns,
		Data:      data,
		Summary:   summary,
		Total:     len(tasks),
		Truncated: truncated,
	}
}

func countTable(title, keyColumn, countColumn string, counts []dataset.Count, summary string) api.Payload {
	data := make([]api.Row, 0, len(counts))
	for _, c := range counts {
		data = append(data, api.Row{keyColumn: c.Key, countColumn: c.Count})
	}
	return api.Payload{
		Type:    api.PayloadTable,
		Title:   title,
		Columns: []string{keyColumn, countColumn},
		Data:    data,
		Summary: summary,
		Total:   len(counts),
	}
}

func summaryPayload(s dataset.Summary) api.Payload {
	return api.Payload{
		Type:  api.PayloadSummary,
		Title: "Workspace Overview",
		Stats: &api.SummaryStats{
			TotalTasks: s.TotalTasks,
			Folders:    s.Folders,
			Overdue:    s.Overdue,
			Unassigned: s.Unassigned,
			Statuses:   s.Statuses,
			Priorities: s.Priorities,
		},
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
