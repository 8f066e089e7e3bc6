package dataset

import (
	"time"

	"taskchat/internal/models"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time {
	return &t
}

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "1", Name: "Fix login", Status: "in progress", Priority: "high", Assignees: []string{"ana", "bo"}, Folder: "Engineering", List: "Backend", DueDate: at(testNow.Add(-48 * time.Hour))},
		{ID: "2", Name: "Add cache", Status: "open", Priority: "urgent", Assignees: []string{"ana"}, Folder: "Engineering", List: "Backend", DueDate: at(testNow.Add(24 * time.Hour))},
		{ID: "3", Name: "Write post", Status: "open", Priority: "", Folder: "Marketing", List: "Blog"},
		{ID: "4", Name: "Launch", Status: "done", Priority: "HIGH", Assignees: []string{"cy"}, Folder: "Marketing", List: "Campaigns", DueDate: at(testNow)},
		{ID: "5", Name: "Old bug", Status: "open", Priority: "low", Assignees: []string{"bo"}, Folder: "engineering", List: "Backend", DueDate: at(testNow.Add(-time.Second))},
	}
}
