package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"go.uber.org/zap"

	"github.com/elonfeng/shortsradar/pkg/link"
	"github.com/elonfeng/shortsradar/pkg/video"
)

const channelFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// Feeds builds a peer set from YouTube channel Atom feeds. It needs no API
// key, but the feeds carry no duration or comment counts, so shorts are
// recognised by their /shorts/ link or a #shorts tag.
type Feeds struct {
	client   *http.Client
	parser   *gofeed.Parser
	channels []string
	feedURL  string
	logger   *zap.Logger
	now      func() time.Time
}

// NewFeeds creates a feed-backed peer source for the given channel IDs.
func NewFeeds(channels []string, logger *zap.Logger) *Feeds {
	return &Feeds{
		client:   &http.Client{Timeout: 30 * time.Second},
		parser:   gofeed.NewParser(),
		channels: channels,
		feedURL:  channelFeedURL,
		logger:   logger,
		now:      time.Now,
	}
}

// Trending returns the most viewed recent shorts across all channels.
func (f *Feeds) Trending(ctx context.Context, filter TrendingFilter) ([]video.RawRecord, error) {
	filter = filter.WithDefaults()
	cutoff := f.now().Add(-filter.Window)
	kw := NewFilter(filter.Keywords, filter.Exclude)

	seen := make(map[string]bool)
	var (
		records []video.RawRecord
		errs    []error
	)

	for _, channel := range f.channels {
		entries, err := f.fetch(ctx, channel)
		if err != nil {
			f.logger.Warn("channel feed failed", zap.String("channel", channel), zap.Error(err))
			errs = append(errs, err)
			continue
		}

		for _, raw := range entries {
			if seen[raw.ID] || raw.PublishedAt.Before(cutoff) || !kw.MatchesRecord(raw) {
				continue
			}
			seen[raw.ID] = true
			records = append(records, raw)
		}
	}

	if len(errs) > 0 && len(errs) == len(f.channels) {
		return nil, errors.Join(errs...)
	}

	return topByViews(records, filter.Limit), nil
}

func (f *Feeds) fetch(ctx context.Context, channel string) ([]video.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(f.feedURL, channel), nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request %s: %w", channel, err)
	}
	req.Header.Set("User-Agent", "shortsradar/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", channel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s status %d", channel, resp.StatusCode)
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", channel, err)
	}

	var records []video.RawRecord
	for _, item := range parsed.Items {
		raw, ok := feedRecord(parsed, item)
		if ok {
			records = append(records, raw)
		}
	}
	return records, nil
}

// feedRecord converts one feed entry, reporting false when it is not a short.
func feedRecord(feed *gofeed.Feed, item *gofeed.Item) (video.RawRecord, bool) {
	raw := video.RawRecord{
		ID:    extValue(item.Extensions, "yt", "videoId"),
		Title: item.Title,
		Tags:  item.Categories,
	}
	if raw.Tags == nil {
		raw.Tags = []string{}
	}

	isShortsLink := false
	for _, l := range append([]string{item.Link}, item.Links...) {
		id, ok := link.ExtractID(l)
		if !ok {
			continue
		}
		if raw.ID == "" {
			raw.ID = id
		}
		if strings.Contains(l, "/shorts/") {
			isShortsLink = true
		}
	}
	if raw.ID == "" {
		return video.RawRecord{}, false
	}

	switch {
	case item.Author != nil:
		raw.ChannelTitle = item.Author.Name
	case feed.Author != nil:
		raw.ChannelTitle = feed.Author.Name
	default:
		raw.ChannelTitle = feed.Title
	}

	if item.PublishedParsed != nil {
		raw.PublishedAt = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		raw.PublishedAt = item.UpdatedParsed.UTC()
	}

	if group := extChild(item.Extensions, "media", "group"); group != nil {
		raw.Description = childValue(group, "description")
		if thumb := firstChild(group, "thumbnail"); thumb != nil {
			raw.ThumbnailURL = thumb.Attrs["url"]
		}
		if community := firstChild(group, "community"); community != nil {
			if stats := firstChild(community, "statistics"); stats != nil {
				raw.ViewCount = parseCount(stats.Attrs["views"])
			}
			if rating := firstChild(community, "starRating"); rating != nil {
				raw.LikeCount = parseCount(rating.Attrs["count"])
			}
		}
	}

	if !isShortsLink && !video.HasShortsTag(raw.Title) && !video.HasShortsTag(raw.Description) {
		return video.RawRecord{}, false
	}
	return raw, true
}

func extValue(exts ext.Extensions, ns, name string) string {
	if e := extChild(exts, ns, name); e != nil {
		return e.Value
	}
	return ""
}

func extChild(exts ext.Extensions, ns, name string) *ext.Extension {
	if exts == nil {
		return nil
	}
	values := exts[ns][name]
	if len(values) == 0 {
		return nil
	}
	return &values[0]
}

func firstChild(e *ext.Extension, name string) *ext.Extension {
	values := e.Children[name]
	if len(values) == 0 {
		return nil
	}
	return &values[0]
}

func childValue(e *ext.Extension, name string) string {
	if c := firstChild(e, name); c != nil {
		return c.Value
	}
	return ""
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
