package history

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultCapacity is the number of analyses kept per session.
const DefaultCapacity = 5

// Entry is one analyzed video in the recent-items list.
type Entry struct {
	VideoID      string    `db:"video_id" json:"video_id"`
	Title        string    `db:"title" json:"title"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail_url"`
	Score        float64   `db:"score" json:"score"`
	AnalyzedAt   time.Time `db:"analyzed_at" json:"analyzed_at"`
}

// Store is a bounded, most-recent-first list of analyzed videos without
// duplicate identifiers.
type Store interface {
	// AppendIfAbsent adds e at the front unless its VideoID is already
	// present, in which case the list is left untouched and false is returned.
	AppendIfAbsent(ctx context.Context, e Entry) (bool, error)
	// Recent returns up to n entries, most recent first. n <= 0 means all.
	Recent(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Open creates a store for the named backend.
func Open(backend string, capacity int) (Store, error) {
	switch strings.ToLower(backend) {
	case "", BackendMemory:
		return NewMemory(capacity), nil
	case BackendSQLite:
		return NewSQLite(capacity)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}

func normalizeCapacity(capacity int) int {
	if capacity <= 0 {
		return DefaultCapacity
	}
	return capacity
}

func limitFor(n, capacity int) int {
	if n <= 0 || n > capacity {
		return capacity
	}
	return n
}
