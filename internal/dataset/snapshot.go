// Package dataset holds the in-memory task snapshot and the filters and
// aggregates computed over it.
package dataset

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"golang.org/x/crypto/blake2b"

	"taskchat/internal/models"
)

// Snapshot is an immutable, ordered copy of the task rows at one fetch.
type Snapshot struct {
	tasks       []models.Task
	fetchedAt   time.Time
	fingerprint string
}

// NewSnapshot copies tasks into a new snapshot.
func NewSnapshot(tasks []models.Task, fetchedAt time.Time) *Snapshot {
	copied := make([]models.Task, len(tasks))
	copy(copied, tasks)
	return &Snapshot{
		tasks:       copied,
		fetchedAt:   fetchedAt.UTC(),
		fingerprint: fingerprint(copied),
	}
}

// Tasks returns a copy of the rows in fetch order.
func (s *Snapshot) Tasks() []models.Task {
	if s == nil {
		return nil
	}
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of rows; a nil snapshot has none.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tasks)
}

func (s *Snapshot) Empty() bool {
	return s.Len() == 0
}

func (s *Snapshot) FetchedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.fetchedAt
}

// Fingerprint is a BLAKE2b-256 digest of the rows; equal data yields equal digests.
func (s *Snapshot) Fingerprint() string {
	if s == nil {
		return ""
	}
	return s.fingerprint
}

func fingerprint(tasks []models.Task) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		return ""
	}
	enc := json.NewEncoder(h)
	for _, task := range tasks {
		if err := enc.Encode(task); err != nil {
			return ""
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
