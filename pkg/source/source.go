package source

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/elonfeng/shortsradar/pkg/video"
)

// ErrNotFound is returned when a provider has no video for an identifier.
var ErrNotFound = errors.New("video not found")

const (
	DefaultWindow   = 14 * 24 * time.Hour
	DefaultLanguage = "en"
	DefaultLimit    = 10
)

// VideoSource fetches the metadata of a single video.
type VideoSource interface {
	Video(ctx context.Context, id string) (*video.RawRecord, error)
}

// PeerSource lists currently trending shorts to compare against.
type PeerSource interface {
	Trending(ctx context.Context, filter TrendingFilter) ([]video.RawRecord, error)
}

// TrendingFilter narrows a peer-set request.
type TrendingFilter struct {
	Window   time.Duration `json:"window"`
	Language string        `json:"language"`
	Limit    int           `json:"limit"`
	Keywords []string      `json:"keywords,omitempty"`
	Exclude  []string      `json:"exclude,omitempty"`
}

// WithDefaults fills unset fields.
func (f TrendingFilter) WithDefaults() TrendingFilter {
	if f.Window <= 0 {
		f.Window = DefaultWindow
	}
	if f.Language == "" {
		f.Language = DefaultLanguage
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	return f
}

// topByViews sorts records by view count, highest first, and keeps at most limit.
func topByViews(records []video.RawRecord, limit int) []video.RawRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ViewCount > records[j].ViewCount
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}
