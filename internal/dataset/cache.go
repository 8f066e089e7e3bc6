package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"taskchat/internal/metrics"
	"taskchat/internal/models"
)

// Fetcher produces a complete set of task rows.
type Fetcher interface {
	FetchTasks(ctx context.Context) ([]models.Task, error)
}

// Persister stores and restores snapshots across restarts.
type Persister interface {
	SaveSnapshot(ctx context.Context, tasks []models.Task, fetchedAt time.Time) error
	LoadSnapshot(ctx context.Context) ([]models.Task, time.Time, error)
}

// Cache owns the current snapshot. Readers get a complete snapshot; Refresh
// builds the replacement off to the side and swaps it in atomically.
type Cache struct {
	fetcher   Fetcher
	persister Persister
	logger    *slog.Logger
	now       func() time.Time

	current atomic.Pointer[Snapshot]
	group   singleflight.Group
}

// NewCache creates an empty cache. persister may be nil.
func NewCache(fetcher Fetcher, persister Persister, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		fetcher:   fetcher,
		persister: persister,
		logger:    logger.With("component", "dataset"),
		now:       time.Now,
	}
}

// Snapshot returns the current snapshot, or nil before the first load.
func (c *Cache) Snapshot() *Snapshot {
	return c.current.Load()
}

// Replace installs tasks as the current snapshot.
func (c *Cache) Replace(tasks []models.Task, fetchedAt time.Time) *Snapshot {
	snap := NewSnapshot(tasks, fetchedAt)
	c.current.Store(snap)
	metrics.SetSnapshotRows(snap.Len())
	return snap
}

// Refresh fetches a new snapshot and replaces the current one wholesale.
// Concurrent callers share a single in-flight fetch. On failure the previous
// snapshot stays in place.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	if c.fetcher == nil {
		return nil, fmt.Errorf("no task source configured")
	}

	result, err, shared := c.group.Do("refresh", func() (any, error) {
		start := c.now()
		tasks, err := c.fetcher.FetchTasks(ctx)
		elapsed := c.now().Sub(start).Seconds()
		if err != nil {
			metrics.RecordRefresh(false, 0, elapsed)
			return nil, err
		}

		snap := c.Replace(tasks, c.now())
		metrics.RecordRefresh(true, snap.Len(), elapsed)
		c.logger.Info("snapshot refreshed", "rows", snap.Len(), "fingerprint", snap.Fingerprint())

		if c.persister != nil {
			if err := c.persister.SaveSnapshot(ctx, snap.tasks, snap.FetchedAt()); err != nil {
				c.logger.Warn("persist snapshot", "error", err)
			}
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("refresh shared with concurrent caller")
	}
	return result.(*Snapshot), nil
}

// Warm tries a live refresh and falls back to the persisted snapshot. It
// returns the refresh error, if any, even when the fallback succeeded.
func (c *Cache) Warm(ctx context.Context) (*Snapshot, error) {
	snap, err := c.Refresh(ctx)
	if err == nil {
		return snap, nil
	}
	if c.persister == nil {
		return nil, err
	}

	tasks, fetchedAt, loadErr := c.persister.LoadSnapshot(ctx)
	if loadErr != nil {
		c.logger.Warn("load persisted snapshot", "error", loadErr)
		return nil, err
	}
	if fetchedAt.IsZero() {
		return nil, err
	}
	restored := c.Replace(tasks, fetchedAt)
	c.logger.Info("restored persisted snapshot", "rows", restored.Len(), "fetched_at", fetchedAt)
	return restored, err
}
