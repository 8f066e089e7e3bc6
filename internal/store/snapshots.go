package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"taskchat/internal/models"
)

const insertTaskSQL = `INSERT INTO snapshot_tasks (
  position, id, name, status, priority, assignees, list_name, folder_name,
  due_date, date_created, date_updated, url, description
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SaveSnapshot replaces the stored snapshot with tasks in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, tasks []models.Task, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshot_tasks"); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertTaskSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, task := range tasks {
		assignees, err := json.Marshal(task.Assignees)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			i,
			task.ID,
			task.Name,
			task.Status,
			task.Priority,
			string(assignees),
			task.List,
			task.Folder,
			formatTime(task.DueDate),
			formatTime(task.DateCreated),
			formatTime(task.DateUpdated),
			task.URL,
			task.Description,
		); err != nil {
			return fmt.Errorf("insert task %s: %w", task.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot_meta (id, fetched_at, row_count) VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET fetched_at = excluded.fetched_at, row_count = excluded.row_count`,
		fetchedAt.UTC().Format(time.RFC3339Nano), len(tasks)); err != nil {
		return fmt.Errorf("write snapshot meta: %w", err)
	}

	return tx.Commit()
}

// LoadSnapshot returns the stored rows in their original order. A store that
// never saved a snapshot returns no rows and a zero time.
func (s *Store) LoadSnapshot(ctx context.Context) ([]models.Task, time.Time, error) {
	var fetchedRaw string
	var rowCount int
	err := s.db.QueryRowContext(ctx, "SELECT fetched_at, row_count FROM snapshot_meta WHERE id = 1").Scan(&fetchedRaw, &rowCount)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	fetchedAt, err := time.Parse(time.RFC3339Nano, fetchedRaw)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parse fetched_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, status, priority, assignees, list_name, folder_name,
  due_date, date_created, date_updated, url, description
FROM snapshot_tasks ORDER BY position`)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0, rowCount)
	for rows.Next() {
		var task models.Task
		var assignees string
		var due, created, updated sql.NullString
		if err := rows.Scan(
			&task.ID,
			&task.Name,
			&task.Status,
			&task.Priority,
			&assignees,
			&task.List,
			&task.Folder,
			&due,
			&created,
			&updated,
			&task.URL,
			&task.Description,
		); err != nil {
			return nil, time.Time{}, err
		}
		if err := json.Unmarshal([]byte(assignees), &task.Assignees); err != nil {
			return nil, time.Time{}, fmt.Errorf("decode assignees for %s: %w", task.ID, err)
		}
		if task.Assignees == nil {
			task.Assignees = []string{}
		}
		if task.DueDate, err = parseTime(due); err != nil {
			return nil, time.Time{}, err
		}
		if task.DateCreated, err = parseTime(created); err != nil {
			return nil, time.Time{}, err
		}
		if task.DateUpdated, err = parseTime(updated); err != nil {
			return nil, time.Time{}, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}

	return tasks, fetchedAt, nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return nil, fmt.Errorf("parse time %q: %w", value.String, err)
	}
	return &t, nil
}
