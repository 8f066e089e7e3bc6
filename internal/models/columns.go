package models

import "time"

// Column names used for tables and exports.
const (
	ColumnID          = "Task ID"
	ColumnName        = "Task Name"
	ColumnStatus      = "Status"
	ColumnAssignees   = "Assignees"
	ColumnList        = "List"
	ColumnFolder      = "Folder"
	ColumnPriority    = "Priority"
	ColumnDueDate     = "Due Date"
	ColumnDateCreated = "Date Created"
	ColumnDateUpdated = "Date Updated"
	ColumnURL         = "URL"
	ColumnDescription = "Description"
)

// TimeLayout is how task timestamps are rendered in tables and exports.
const TimeLayout = "2006-01-02 15:04:05"

// ExportColumns is the full column order of an export.
var ExportColumns = []string{
	ColumnID,
	ColumnName,
	ColumnStatus,
	ColumnAssignees,
	ColumnList,
	ColumnFolder,
	ColumnPriority,
	ColumnDueDate,
	ColumnDateCreated,
	ColumnDateUpdated,
	ColumnURL,
	ColumnDescription,
}

// Field renders one column of the task as text. Unknown columns and unset
// values are empty.
func (t Task) Field(column string) string {
	switch column {
	case ColumnID:
		return t.ID
	case ColumnName:
		return t.Name
	case ColumnStatus:
		return t.Status
	case ColumnAssignees:
		return t.AssigneeLabel()
	case ColumnList:
		return t.List
	case ColumnFolder:
		return t.Folder
	case ColumnPriority:
		return t.Priority
	case ColumnDueDate:
		return formatTime(t.DueDate)
	case ColumnDateCreated:
		return formatTime(t.DateCreated)
	case ColumnDateUpdated:
		return formatTime(t.DateUpdated)
	case ColumnURL:
		return t.URL
	case ColumnDescription:
		return t.Description
	default:
		return ""
	}
}

// Fields renders the given columns in order.
func (t Task) Fields(columns []string) []string {
	out := make([]string, len(columns))
	for i, column := range columns {
		out[i] = t.Field(column)
	}
	return out
}

func formatTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(TimeLayout)
}
