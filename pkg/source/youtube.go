package source

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/elonfeng/shortsradar/pkg/video"
)

// ErrMissingAPIKey is returned when the YouTube provider has no key.
var ErrMissingAPIKey = errors.New("youtube: API key required (set YOUTUBE_API_KEY)")

// maxSearchResults is the Data API page limit for search and videos calls.
const maxSearchResults = 50

var videoParts = []string{"snippet", "statistics", "contentDetails"}

// YouTube reads video metadata and trending shorts from the YouTube Data API v3.
type YouTube struct {
	service *youtube.Service
	now     func() time.Time
}

// NewYouTube creates a provider authenticated with an API key. Extra client
// options are passed through to the API client.
func NewYouTube(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTube, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &YouTube{service: service, now: time.Now}, nil
}

// Video fetches one video by identifier.
func (y *YouTube) Video(ctx context.Context, id string) (*video.RawRecord, error) {
	resp, err := y.service.Videos.List(videoParts).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos.list %s: %w", id, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("youtube video %s: %w", id, ErrNotFound)
	}

	raw := toRawRecord(resp.Items[0])
	return &raw, nil
}

// Trending searches for the most viewed recent shorts and returns their full
// metadata, most viewed first.
func (y *YouTube) Trending(ctx context.Context, filter TrendingFilter) ([]video.RawRecord, error) {
	filter = filter.WithDefaults()

	publishedAfter := y.now().Add(-filter.Window).UTC().Format(time.RFC3339)
	maxResults := min(2*filter.Limit, maxSearchResults)

	call := y.service.Search.List([]string{"id"}).
		Type("video").
		VideoDuration("short").
		Order("viewCount").
		PublishedAfter(publishedAfter).
		RelevanceLanguage(filter.Language).
		MaxResults(int64(maxResults))
	if len(filter.Keywords) > 0 {
		call = call.Q(strings.Join(filter.Keywords, "|"))
	}

	search, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search.list: %w", err)
	}

	var ids []string
	for _, item := range search.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, item.Id.VideoId)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	resp, err := y.service.Videos.List(videoParts).Id(ids...).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos.list trending: %w", err)
	}

	kw := NewFilter(filter.Keywords, filter.Exclude)
	var records []video.RawRecord
	for _, item := range resp.Items {
		raw := toRawRecord(item)
		if !video.IsShort(raw) || !kw.MatchesRecord(raw) {
			continue
		}
		records = append(records, raw)
	}

	return topByViews(records, filter.Limit), nil
}

func toRawRecord(item *youtube.Video) video.RawRecord {
	raw := video.RawRecord{ID: item.Id, Tags: []string{}}

	if s := item.Snippet; s != nil {
		raw.Title = s.Title
		raw.Description = s.Description
		raw.ChannelTitle = s.ChannelTitle
		if s.Tags != nil {
			raw.Tags = s.Tags
		}
		if t, err := time.Parse(time.RFC3339, s.PublishedAt); err == nil {
			raw.PublishedAt = t.UTC()
		}
		raw.ThumbnailURL = thumbnailURL(s.Thumbnails)
	}

	if st := item.Statistics; st != nil {
		raw.ViewCount = toInt64(st.ViewCount)
		raw.LikeCount = toInt64(st.LikeCount)
		raw.CommentCount = toInt64(st.CommentCount)
	}

	if cd := item.ContentDetails; cd != nil {
		raw.Duration = cd.Duration
	}

	return raw
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	if t.High != nil && t.High.Url != "" {
		return t.High.Url
	}
	if t.Default != nil {
		return t.Default.Url
	}
	return ""
}

func toInt64(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}
