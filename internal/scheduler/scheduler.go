package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/elonfeng/shortsradar/pkg/source"
	"github.com/elonfeng/shortsradar/pkg/video"
)

// DefaultSchedule refreshes the peer set every half hour.
const DefaultSchedule = "@every 30m"

// ErrNoPeers is returned by the cache before the first successful refresh.
var ErrNoPeers = errors.New("peer set not loaded yet")

// Cache holds the most recently fetched peer set. It implements
// source.PeerSource so callers can use it in place of a live provider.
type Cache struct {
	mu          sync.RWMutex
	peers       []video.RawRecord
	refreshedAt time.Time
	loaded      bool
}

// Trending returns the cached peers, capped at filter.Limit when set.
func (c *Cache) Trending(_ context.Context, filter source.TrendingFilter) ([]video.RawRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.loaded {
		return nil, ErrNoPeers
	}

	n := len(c.peers)
	if filter.Limit > 0 && filter.Limit < n {
		n = filter.Limit
	}
	out := make([]video.RawRecord, n)
	copy(out, c.peers[:n])
	return out, nil
}

// RefreshedAt reports when the cache was last filled.
func (c *Cache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}

func (c *Cache) store(peers []video.RawRecord, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peers = peers
	c.refreshedAt = at
	c.loaded = true
}

// Refresher periodically reloads the peer cache from a live source.
type Refresher struct {
	source   source.PeerSource
	filter   source.TrendingFilter
	schedule string
	cache    *Cache
	cron     *cron.Cron
	logger   *zap.Logger
}

// New creates a refresher. schedule uses the standard cron syntax, including
// descriptors such as "@every 30m".
func New(src source.PeerSource, filter source.TrendingFilter, schedule string, logger *zap.Logger) (*Refresher, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parse refresh schedule %q: %w", schedule, err)
	}

	cronLog := newCronLogger(logger)
	return &Refresher{
		source:   src,
		filter:   filter.WithDefaults(),
		schedule: schedule,
		cache:    &Cache{},
		// Prevent overlapping refreshes.
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.SkipIfStillRunning(cronLog)),
		),
		logger: logger,
	}, nil
}

// Cache returns the peer cache fed by this refresher.
func (r *Refresher) Cache() *Cache {
	return r.cache
}

// RefreshOnce fetches the peer set and replaces the cache. On failure the
// previous peer set is kept.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	start := time.Now()

	peers, err := r.source.Trending(ctx, r.filter)
	if err != nil {
		return fmt.Errorf("refresh peers: %w", err)
	}

	r.cache.store(peers, time.Now().UTC())
	r.logger.Info("peer set refreshed",
		zap.Int("peers", len(peers)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Run refreshes immediately and then on the schedule. Blocks until ctx is
// cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	if err := r.RefreshOnce(ctx); err != nil {
		r.logger.Warn("initial peer refresh failed", zap.Error(err))
	}

	_, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.RefreshOnce(ctx); err != nil {
			r.logger.Warn("scheduled peer refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}

	r.logger.Info("peer refresher started", zap.String("schedule", r.schedule))
	r.cron.Start()

	<-ctx.Done()
	<-r.cron.Stop().Done()
	r.logger.Info("peer refresher stopped")
	return ctx.Err()
}
