package models

import (
	"strings"
	"time"
)

// NoPriority is the grouping key used for tasks without a priority.
const NoPriority = "none"

// Task is a single ClickUp task flattened into a row.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority,omitempty"`
	Assignees   []string   `json:"assignees"`
	List        string     `json:"list"`
	Folder      string     `json:"folder"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	DateCreated *time.Time `json:"date_created,omitempty"`
	DateUpdated *time.Time `json:"date_updated,omitempty"`
	URL         string     `json:"url,omitempty"`
	Description string     `json:"description,omitempty"`
}

// AssigneeLabel joins assignee usernames the way the provider UI lists them.
func (t Task) AssigneeLabel() string {
	return strings.Join(t.Assignees, ", ")
}

// PriorityKey returns the priority used for grouping.
func (t Task) PriorityKey() string {
	if strings.TrimSpace(t.Priority) == "" {
		return NoPriority
	}
	return t.Priority
}

// IsOverdue reports whether the task has a due date strictly before now.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}
