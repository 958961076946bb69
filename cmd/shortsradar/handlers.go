package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elonfeng/shortsradar/internal/config"
	"github.com/elonfeng/shortsradar/internal/history"
	"github.com/elonfeng/shortsradar/internal/logger"
	"github.com/elonfeng/shortsradar/internal/scheduler"
	"github.com/elonfeng/shortsradar/pkg/alert"
	"github.com/elonfeng/shortsradar/pkg/analysis"
	"github.com/elonfeng/shortsradar/pkg/link"
	"github.com/elonfeng/shortsradar/pkg/server"
	"github.com/elonfeng/shortsradar/pkg/source"
	"github.com/elonfeng/shortsradar/pkg/video"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	videos  *source.YouTube
	peers   source.PeerSource
	filter  source.TrendingFilter
	history history.Store
	alerts  *alert.Manager
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	videos, err := source.NewYouTube(ctx, cfg.YouTube.APIKey)
	if err != nil {
		return nil, err
	}

	store, err := history.Open(cfg.History.Backend, cfg.History.Size)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  log,
		videos:  videos,
		filter:  peerFilter(cfg.Peers),
		history: store,
		alerts:  buildAlertManager(cfg),
	}
	a.peers = buildPeerSource(cfg.Peers, videos, log)
	return a, nil
}

func (a *app) Close() {
	if err := a.history.Close(); err != nil {
		a.logger.Warn("close history", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *app) service(peers source.PeerSource) *analysis.Service {
	return analysis.New(a.videos, analysis.Options{
		Peers:          peers,
		PeerFilter:     a.filter,
		History:        a.history,
		Alerts:         a.alerts,
		AlertThreshold: a.cfg.Alerts.MinScore,
		Logger:         a.logger,
	})
}

func peerFilter(p config.PeersConfig) source.TrendingFilter {
	return source.TrendingFilter{
		Window:   p.ParseWindow(),
		Language: p.Language,
		Limit:    p.Limit,
		Keywords: p.Keywords,
		Exclude:  p.Exclude,
	}
}

func buildPeerSource(p config.PeersConfig, yt *source.YouTube, log *zap.Logger) source.PeerSource {
	if p.Source == config.PeerSourceFeeds {
		return source.NewFeeds(p.Channels, log)
	}
	return yt
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func runAnalyze(ctx context.Context, links []string, jsonOutput bool) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	svc := a.service(a.peers)

	var (
		reports []*analysis.Report
		failed  int
	)
	for _, l := range links {
		report, err := svc.Analyze(ctx, l)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %s\n", l, analysis.UserMessage(err))
			continue
		}
		if jsonOutput {
			reports = append(reports, report)
			continue
		}
		printReport(os.Stdout, report)
	}

	if jsonOutput {
		if err := writeJSON(os.Stdout, reports); err != nil {
			return err
		}
	} else {
		recent, err := svc.History().Recent(ctx, 0)
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}
		if err := printHistory(os.Stdout, recent); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(links))
	}
	return nil
}

func runTrending(ctx context.Context, limit int, jsonOutput bool) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	peers, avg, ok, err := a.service(a.peers).Trending(ctx, limit)
	if err != nil {
		return errors.New(analysis.UserMessage(err))
	}

	if jsonOutput {
		out := struct {
			Peers    []video.RawRecord `json:"peers"`
			Averages any               `json:"averages"`
		}{Peers: peers}
		if ok {
			out.Averages = avg
		}
		return writeJSON(os.Stdout, out)
	}

	if !ok {
		fmt.Println("no trending shorts found for the configured window")
		return nil
	}
	return printTrending(os.Stdout, peers)
}

func runCheck(w io.Writer, raw string) error {
	id, ok := link.ExtractID(raw)
	if !ok {
		return errors.New(analysis.UserMessage(analysis.ErrInvalidLink))
	}
	fmt.Fprintf(w, "valid shorts link\nid:  %s\nurl: %s\n", id, link.ShortsURL(id))
	return nil
}

func runServe(port int) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if port == 0 {
		port = a.cfg.Server.Port
	}
	gin.SetMode(gin.ReleaseMode)

	refresher, err := scheduler.New(a.peers, a.filter, a.cfg.Peers.RefreshSchedule, a.logger)
	if err != nil {
		return err
	}

	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		_ = refresher.Run(ctx)
	}()

	srv := server.New(a.service(refresher.Cache()), port, a.cfg.Server.AllowedOrigins, a.logger)
	err = srv.ListenAndServe(ctx)
	stop()
	<-refreshDone
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(w io.Writer, r *analysis.Report) {
	v := r.Video

	fmt.Fprintf(w, "%s\n", v.Title)
	fmt.Fprintf(w, "%s  by %s  (%s)\n", link.ShortsURL(v.ID), v.ChannelTitle, humanize.Time(v.PublishedAt))
	fmt.Fprintf(w, "%s\n", link.WatchURL(v.ID))
	fmt.Fprintf(w, "views %s  likes %s  comments %s  duration %ds\n\n",
		humanize.Comma(v.ViewCount), humanize.Comma(v.LikeCount), humanize.Comma(v.CommentCount), v.DurationSeconds)

	fmt.Fprintf(w, "viral potential: %.0f%% (%s)\n", r.Result.Score*100, r.Result.Tier)
	fmt.Fprintf(w, "%s\n", r.Result.Explanation)
	fmt.Fprintf(w, "key factors: %s\n\n", strings.Join(r.Result.KeyFactors, ", "))

	if c := r.Comparison; c != nil {
		fmt.Fprintf(w, "vs %d trending shorts: views %.0f%%  likes %.0f%%  comments %.0f%%  like/view %.0f%%\n",
			c.PeerCount, c.ViewsPct, c.LikesPct, c.CommentsPct, c.LikeViewRatioPct)
	}
	fmt.Fprintf(w, "%s\n\n", r.ComparisonNote)

	fmt.Fprintln(w, "recommendations:")
	for _, rec := range r.RecommendationsOrDefault() {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
	fmt.Fprintln(w)
}

func printHistory(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECENT\tSCORE\tTITLE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%.0f%%\t%s\n", e.VideoID, e.Score*100, e.Title)
	}
	return tw.Flush()
}

func printTrending(w io.Writer, peers []video.RawRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VIEWS\tLIKES\tPUBLISHED\tTITLE")
	for _, p := range peers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			humanize.Comma(p.ViewCount), humanize.Comma(p.LikeCount),
			humanize.Time(p.PublishedAt), p.Title)
	}
	return tw.Flush()
}
