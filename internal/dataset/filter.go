package dataset

import (
	"sort"
	"strings"
	"time"

	"taskchat/internal/models"
)

// Count is one row of a grouped count table.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Summary is the workspace overview.
type Summary struct {
	TotalTasks int            `json:"total_tasks"`
	Folders    int            `json:"folders"`
	Overdue    int            `json:"overdue"`
	Unassigned int            `json:"unassigned"`
	Statuses   map[string]int `json:"statuses"`
	Priorities map[string]int `json:"priorities"`
}

// Overdue returns tasks whose due date is strictly before now. Tasks without
// a due date are never overdue.
func (s *Snapshot) Overdue(now time.Time) []models.Task {
	return s.Filter(func(t models.Task) bool { return t.IsOverdue(now) })
}

// WithPriority returns tasks at the given priority level.
func (s *Snapshot) WithPriority(level models.PriorityLevel) []models.Task {
	return s.Filter(func(t models.Task) bool {
		return strings.EqualFold(strings.TrimSpace(t.Priority), string(level))
	})
}

// InFolder returns tasks whose folder matches name, ignoring case.
func (s *Snapshot) InFolder(name string) []models.Task {
	name = strings.TrimSpace(name)
	return s.Filter(func(t models.Task) bool { return strings.EqualFold(t.Folder, name) })
}

// Filter returns the tasks matching keep, in snapshot order.
func (s *Snapshot) Filter(keep func(models.Task) bool) []models.Task {
	if s == nil {
		return nil
	}
	out := make([]models.Task, 0)
	for _, task := range s.tasks {
		if keep(task) {
			out = append(out, task)
		}
	}
	return out
}

func (s *Snapshot) CountByStatus() []Count {
	return s.countBy(func(t models.Task) []string { return []string{t.Status} })
}

// CountByPriority groups tasks without a priority under models.NoPriority.
func (s *Snapshot) CountByPriority() []Count {
	return s.countBy(func(t models.Task) []string { return []string{t.PriorityKey()} })
}

func (s *Snapshot) CountByFolder() []Count {
	return s.countBy(func(t models.Task) []string { return []string{t.Folder} })
}

// Workload counts tasks per individual assignee. Unassigned tasks are skipped.
func (s *Snapshot) Workload() []Count {
	return s.countBy(func(t models.Task) []string { return t.Assignees })
}

// FolderNames returns the distinct folder names in first-seen order.
func (s *Snapshot) FolderNames() []string {
	if s == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, task := range s.tasks {
		if _, ok := seen[task.Folder]; ok || task.Folder == "" {
			continue
		}
		seen[task.Folder] = struct{}{}
		out = append(out, task.Folder)
	}
	return out
}

func (s *Snapshot) Summarize(now time.Time) Summary {
	summary := Summary{
		Statuses:   map[string]int{},
		Priorities: map[string]int{},
	}
	if s == nil {
		return summary
	}

	folders := map[string]struct{}{}
	for _, task := range s.tasks {
		summary.TotalTasks++
		summary.Statuses[task.Status]++
		summary.Priorities[task.PriorityKey()]++
		folders[task.Folder] = struct{}{}
		if task.IsOverdue(now) {
			summary.Overdue++
		}
		if len(task.Assignees) == 0 {
			summary.Unassigned++
		}
	}
	summary.Folders = len(folders)
	return summary
}

// countBy sorts by count descending, then key ascending.
func (s *Snapshot) countBy(keys func(models.Task) []string) []Count {
	if s == nil {
		return []Count{}
	}
	counts := map[string]int{}
	for _, task := range s.tasks {
		for _, key := range keys(task) {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			counts[key]++
		}
	}

	out := make([]Count, 0, len(counts))
	for key, count := range counts {
		out = append(out, Count{Key: key, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
