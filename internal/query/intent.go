// Package query maps chat text to an intent drawn from a fixed set.
package query

import "taskchat/internal/models"

// Kind identifies what a chat message asks for.
type Kind int

const (
	Help Kind = iota
	StatusBreakdown
	PriorityBreakdown
	PriorityFilter
	Workload
	Overdue
	FolderList
	FolderFilter
	AllTasks
	Export
	Summary
)

var kindNames = map[Kind]string{
	Help:              "help",
	StatusBreakdown:   "status_breakdown",
	PriorityBreakdown: "priority_breakdown",
	PriorityFilter:    "priority_filter",
	Workload:          "workload",
	Overdue:           "overdue",
	FolderList:        "folder_list",
	FolderFilter:      "folder_filter",
	AllTasks:          "all_tasks",
	Export:            "export",
	Summary:           "summary",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Export formats an intent can carry.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Intent is the interpreted purpose of one chat message. Priority is set only
// for PriorityFilter, Folder only for FolderFilter and Format only for Export.
type Intent struct {
	Kind     Kind
	Priority models.PriorityLevel
	Folder   string
	Format   string
}

// SelectsRows reports whether the intent picks a subset of task rows rather
// than an aggregate.
func (i Intent) SelectsRows() bool {
	switch i.Kind {
	case PriorityFilter, Overdue, FolderFilter, AllTasks:
		return true
	default:
		return false
	}
}
