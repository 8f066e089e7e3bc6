package respond

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskchat/internal/api"
	"taskchat/internal/dataset"
	"taskchat/internal/models"
	"taskchat/internal/query"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time {
	return &t
}

func testSnapshot() *dataset.Snapshot {
	return dataset.NewSnapshot([]models.Task{
		{ID: "1", Name: "Fix login", Status: "in progress", Priority: "high", Assignees: []string{"ana", "bo"}, Folder: "Engineering", List: "Backend", DueDate: at(testNow.Add(-48 * time.Hour))},
		{ID: "2", Name: "Add cache", Status: "open", Priority: "urgent", Assignees: []string{"ana"}, Folder: "Engineering", List: "Backend", DueDate: at(testNow.Add(24 * time.Hour))},
		{ID: "3", Name: "Write post", Status: "open", Folder: "Marketing", List: "Blog"},
		{ID: "4", Name: "Launch", Status: "done", Priority: "high", Assignees: []string{"cy"}, Folder: "Marketing", List: "Campaigns", DueDate: at(testNow)},
	}, testNow)
}

func bigSnapshot(n int) *dataset.Snapshot {
	tasks := make([]models.Task, n)
	for i := range tasks {
		tasks[i] = models.Task{
			ID:       fmt.Sprintf("t%d", i),
			Name:     fmt.Sprintf("Task %d", i),
			Status:   "open",
			Priority: "high",
			Folder:   "Engineering",
			DueDate:  at(testNow.Add(-time.Hour)),
		}
	}
	return dataset.NewSnapshot(tasks, testNow)
}

func newFormatter() *Formatter {
	return New(Options{Now: func() time.Time { return testNow }})
}

func TestHelpWithoutData(t *testing.T) {
	p := newFormatter().Respond(query.Intent{Kind: query.Help}, nil)
	assert.Equal(t, api.PayloadHelp, p.Type)
	assert.Equal(t, HelpMessage, p.Message)
	assert.NotEmpty(t, p.Suggestions)
}

func TestNoDataYieldsError(t *testing.T) {
	f := newFormatter()
	empty := dataset.NewSnapshot(nil, testNow)
	for _, kind := range []query.Kind{query.StatusBreakdown, query.Overdue, query.Summary, query.Export, query.AllTasks} {
		for _, snap := range []*dataset.Snapshot{nil, empty} {
			p := f.Respond(query.Intent{Kind: kind}, snap)
			assert.Equal(t, api.PayloadError, p.Type, kind.String())
			assert.Equal(t, NoDataMessage, p.Message, kind.String())
		}
	}
}

func TestOverdueTable(t *testing.T) {
	p := newFormatter().Respond(query.Intent{Kind: query.Overdue}, testSnapshot())
	require.Equal(t, api.PayloadTable, p.Type)
	assert.Equal(t, "Overdue Tasks", p.Title)
	require.Len(t, p.Data, 1, "only the task due strictly before now")
	assert.Equal(t, "Fix login", p.Data[0][models.ColumnName])
	assert.Equal(t, "2025-03-08 09:00:00", p.Data[0][models.ColumnDueDate])
	assert.Equal(t, 1, p.Total)
	assert.False(t, p.Truncated)
	assert.Equal(t, "Found 1 overdue tasks that need attention", p.Summary)
}

func TestStatusBreakdown(t *testing.T) {
	p := newFormatter().Respond(query.Intent{Kind: query.StatusBreakdown}, testSnapshot())
	require.Equal(t, api.PayloadTable, p.Type)
	assert.Equal(t, []string{models.ColumnStatus, "Count"}, p.Columns)
	require.Len(t, p.Data, 3)
	assert.Equal(t, api.Row{models.ColumnStatus: "open", "Count": 2}, p.Data[0])
	assert.Equal(t, "Total: 4 tasks across 3 statuses", p.Summary)
}

func TestPriorityBreakdownGroupsUnset(t *testing.T) {
	p := newFormatter().Respond(query.Intent{Kind: query.PriorityBreakdown}, testSnapshot())
	keys := make([]any, 0, len(p.Data))
	for _, row := range p.Data {
		keys = append(keys, row[models.ColumnPriority])
	}
	assert.Equal(t, []any{"high", models.NoPriority, "urgent"}, keys)
}

func TestPriorityFilter(t *testing.T) {
	p := newFormatter().Respond(query.Intent{Kind: query.PriorityFilter, Priority: models.PriorityHigh}, testSnapshot())
	assert.Equal(t, "High Priority Tasks", p.Title)
	assert.Len(t, p.Data, 2)
	assert.Equal(t, "Found 2 high priority tasks", p.Summary)
}

func TestWorkloadSplitsAssignees(t *testing.T) {
	p := newFormatter().Respond(query.Intent{Kind: query.Workload}, testSnapshot())
	require.Len(t, p.Data, 3)
	assert.Equal(t, api.Row{"Assignee": "ana", "Tasks": 2}, p.Data[0])
	assert.Equal(t, "3 team members with assigned tasks", p.Summary)
}

func TestFolderPayloads(t *testing.T) {
	f := newFormatter()

	p := f.Respond(query.Intent{Kind: query.FolderFilter, Folder: "Marketing"}, testSnapshot())
	assert.Equal(t, "Tasks in Marketing", p.Title)
	assert.Len(t, p.Data, 2)

	p = f.Respond(query.Intent{Kind: query.FolderList}, testSnapshot())
	assert.Equal(t, "All Folders", p.Title)
	assert.Len(t, p.Data, 2)
	assert.Equal(t, "2 folders in your workspace", p.Summary)
}

func TestRowTablesAreCapped(t *testing.T) {
	f := newFormatter()
	snap := bigSnapshot(60)

	p := f.Respond(query.Intent{Kind: query.Overdue}, snap)
	assert.Len(t, p.Data, defaultTableLimit)
	assert.Equal(t, 60, p.Total)
	assert.True(t, p.Truncated)
	assert.Contains(t, p.Summary, "showing first 15")

	p = f.Respond(query.Intent{Kind: query.AllTasks}, snap)
	assert.Len(t, p.Data, defaultAllTasksLimit)
	assert.Equal(t, 60, p.Total)
	assert.True(t, p.Truncated)

	rows := f.Rows(query.Intent{Kind: query.Overdue}, snap)
	assert.Len(t, rows, 60, "export rows ignore the display cap")
}

func TestCustomLimits(t *testing.T) {
	f := New(Options{TableLimit: 3, AllTasksLimit: 5, Now: func() time.Time { return testNow }})
	snap := bigSnapshot(10)

	assert.Len(t, f.Respond(query.Intent{Kind: query.Overdue}, snap).Data, 3)
	assert.Len(t, f.Respond(query.Intent{Kind: query.AllTasks}, snap).Data, 5)
}

func TestExportPayload(t *testing.T) {
	f := newFormatter()

	p := f.Respond(query.Intent{Kind: query.Export, Format: query.FormatXLSX}, testSnapshot())
	assert.Equal(t, api.PayloadExport, p.Type)
	assert.Equal(t, "xlsx", p.Format)
	assert.Equal(t, "/api/export/xlsx", p.URL)

	p = f.Respond(query.Intent{Kind: query.Export}, testSnapshot())
	assert.Equal(t, "csv", p.Format)
}

func TestSummaryPayload(t *testing.T) {
	p := newFormatter().Respond(query.Intent{Kind: query.Summary}, testSnapshot())
	require.Equal(t, api.PayloadSummary, p.Type)
	require.NotNil(t, p.Stats)
	assert.Equal(t, 4, p.Stats.TotalTasks)
	assert.Equal(t, 2, p.Stats.Folders)
	assert.Equal(t, 1, p.Stats.Overdue)
	assert.Equal(t, 1, p.Stats.Unassigned)
	assert.Equal(t, 2, p.Stats.Priorities["high"])
	assert.Equal(t, 1, p.Stats.Priorities[models.NoPriority])
}

func TestRowsForAggregateIntentIsWholeSnapshot(t *testing.T) {
	rows := newFormatter().Rows(query.Intent{Kind: query.StatusBreakdown}, testSnapshot())
	assert.Len(t, rows, 4)
}
