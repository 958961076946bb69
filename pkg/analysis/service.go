// Package analysis runs the full pipeline for one shorts link: resolve,
// fetch, normalize, score, compare against peers, record in history and
// alert on high scores.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/elonfeng/shortsradar/internal/history"
	"github.com/elonfeng/shortsradar/pkg/alert"
	"github.com/elonfeng/shortsradar/pkg/link"
	"github.com/elonfeng/shortsradar/pkg/source"
	"github.com/elonfeng/shortsradar/pkg/trend"
	"github.com/elonfeng/shortsradar/pkg/video"
)

// DefaultAlertThreshold is the lowest score that triggers an alert.
const DefaultAlertThreshold = 0.7

// Options configures optional collaborators. Zero values disable or default
// each one.
type Options struct {
	Peers          source.PeerSource
	PeerFilter     source.TrendingFilter
	Scorer         trend.Scorer
	History        history.Store
	Alerts         *alert.Manager
	AlertThreshold float64
	Logger         *zap.Logger
	Now            func() time.Time
}

// Service analyzes shorts.
type Service struct {
	videos         source.VideoSource
	peers          source.PeerSource
	peerFilter     source.TrendingFilter
	scorer         trend.Scorer
	history        history.Store
	alerts         *alert.Manager
	alertThreshold float64
	logger         *zap.Logger
	now            func() time.Time
}

// New creates a service fetching video metadata from videos.
func New(videos source.VideoSource, opts Options) *Service {
	s := &Service{
		videos:         videos,
		peers:          opts.Peers,
		peerFilter:     opts.PeerFilter.WithDefaults(),
		scorer:         opts.Scorer,
		history:        opts.History,
		alerts:         opts.Alerts,
		alertThreshold: opts.AlertThreshold,
		logger:         opts.Logger,
		now:            opts.Now,
	}
	if s.scorer == nil {
		s.scorer = trend.NewRuleScorer()
	}
	if s.history == nil {
		s.history = history.NewMemory(history.DefaultCapacity)
	}
	if s.alertThreshold <= 0 {
		s.alertThreshold = DefaultAlertThreshold
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// History returns the store analyses are recorded in.
func (s *Service) History() history.Store {
	return s.history
}

// Analyze scores the short behind rawLink. Errors match ErrInvalidLink,
// ErrVideoNotFound or ErrAnalysisFailed.
func (s *Service) Analyze(ctx context.Context, rawLink string) (*Report, error) {
	id, ok := link.ExtractID(rawLink)
	if !ok {
		return nil, ErrInvalidLink
	}

	log := s.logger.With(zap.String("video_id", id))

	raw, err := s.videos.Video(ctx, id)
	switch {
	case errors.Is(err, source.ErrNotFound):
		log.Info("video not found")
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	case err != nil:
		log.Error("fetch video failed", zap.Error(err))
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrAnalysisFailed, id, err)
	case raw == nil:
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}

	now := s.now().UTC()
	rec := video.Normalize(*raw, now)
	features := trend.Extract(rec)
	result := s.scorer.Score(features)

	report := &Report{
		Video:           rec,
		Features:        features,
		Result:          result,
		Recommendations: trend.Recommend(rec, result),
		AnalyzedAt:      now,
	}

	s.compare(ctx, log, report)

	added, err := s.history.AppendIfAbsent(ctx, history.Entry{
		VideoID:      rec.ID,
		Title:        rec.Title,
		ThumbnailURL: rec.ThumbnailURL,
		Score:        result.Score,
		AnalyzedAt:   now,
	})
	if err != nil {
		log.Warn("record history failed", zap.Error(err))
	}

	log.Info("video analyzed",
		zap.Float64("score", result.Score),
		zap.String("tier", string(result.Tier)),
		zap.Bool("new_in_history", added),
	)

	s.alert(ctx, log, report)
	return report, nil
}

// Trending returns the current peer set and its averages. ok is false when
// no peers are available.
func (s *Service) Trending(ctx context.Context, limit int) ([]video.RawRecord, trend.PeerAverages, bool, error) {
	if s.peers == nil {
		return nil, trend.PeerAverages{}, false, nil
	}

	filter := s.peerFilter
	if limit > 0 {
		filter.Limit = limit
	}

	peers, err := s.peers.Trending(ctx, filter)
	if err != nil {
		s.logger.Error("fetch trending failed", zap.Error(err))
		return nil, trend.PeerAverages{}, false, fmt.Errorf("%w: trending: %w", ErrAnalysisFailed, err)
	}

	avg, ok := trend.Averages(peers)
	return peers, avg, ok, nil
}

func (s *Service) compare(ctx context.Context, log *zap.Logger, report *Report) {
	report.ComparisonNote = trend.NoComparisonMessage
	if s.peers == nil {
		return
	}

	peers, err := s.peers.Trending(ctx, s.peerFilter)
	if err != nil {
		log.Warn("fetch peers failed, skipping comparison", zap.Error(err))
		return
	}

	cmp, ok := trend.Compare(report.Video, peers)
	if !ok {
		return
	}
	report.Comparison = &cmp
	report.Framing = cmp.Frame()
	report.ComparisonNote = report.Framing.Message()
}

func (s *Service) alert(ctx context.Context, log *zap.Logger, report *Report) {
	if !s.alerts.HasNotifiers() || report.Result.Score < s.alertThreshold {
		return
	}

	n := &alert.Notification{
		VideoID:      report.Video.ID,
		Title:        report.Video.Title,
		URL:          link.ShortsURL(report.Video.ID),
		ThumbnailURL: report.Video.ThumbnailURL,
		Score:        report.Result.Score,
		Tier:         string(report.Result.Tier),
		Explanation:  report.Result.Explanation,
		KeyFactors:   report.Result.KeyFactors,
		AnalyzedAt:   report.AnalyzedAt,
	}
	if err := s.alerts.Broadcast(ctx, n); err != nil {
		log.Warn("alert failed", zap.Error(err))
	}
}
