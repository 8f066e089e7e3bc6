package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"taskchat/internal/dataset"
	"taskchat/internal/models"
	"taskchat/internal/query"
	"taskchat/internal/respond"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type stubFetcher struct {
	mu    sync.Mutex
	tasks []models.Task
	err   error
	calls int
}

func (f *stubFetcher) FetchTasks(ctx context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func at(t time.Time) *time.Time {
	return &t
}

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "1", Name: "Fix login", Status: "in progress", Priority: "high", Assignees: []string{"ana"}, Folder: "Engineering", List: "Backend", DueDate: at(testNow.Add(-48 * time.Hour))},
		{ID: "2", Name: "Add cache", Status: "open", Priority: "urgent", Assignees: []string{"ana", "bo"}, Folder: "Engineering", List: "Backend", DueDate: at(testNow.Add(24 * time.Hour))},
		{ID: "3", Name: "Write post", Status: "open", Folder: "Marketing", List: "Blog"},
	}
}

func overdueTasks(n int) []models.Task {
	tasks := make([]models.Task, n)
	for i := range tasks {
		tasks[i] = models.Task{
			ID:      fmt.Sprintf("t%d", i),
			Name:    fmt.Sprintf("Late %d", i),
			Status:  "open",
			Folder:  "Engineering",
			DueDate: at(testNow.Add(-time.Hour)),
		}
	}
	return tasks
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer returns a server whose snapshot holds loaded; a nil slice
// leaves the cache empty.
func newTestServer(t *testing.T, fetcher *stubFetcher, loaded []models.Task) *Server {
	t.Helper()
	if fetcher == nil {
		fetcher = &stubFetcher{}
	}
	cache := dataset.NewCache(fetcher, nil, quietLogger())
	if loaded != nil {
		cache.Replace(loaded, testNow)
	}
	formatter := respond.New(respond.Options{Now: func() time.Time { return testNow }})
	return New("127.0.0.1:0", cache, query.New(query.DefaultVocabulary()), formatter, quietLogger())
}
