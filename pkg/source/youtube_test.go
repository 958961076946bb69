package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

const videoItemsJSON = `{
  "items": [
    {
      "id": "shortAAAAAA",
      "snippet": {
        "title": "Is this the BEST trick? 🔥",
        "description": "quick one",
        "channelTitle": "Tricks",
        "publishedAt": "2025-03-08T12:00:00Z",
        "tags": ["trick", "magic"],
        "thumbnails": {
          "default": {"url": "https://i.ytimg.com/vi/shortAAAAAA/default.jpg"},
          "high": {"url": "https://i.ytimg.com/vi/shortAAAAAA/hqdefault.jpg"}
        }
      },
      "statistics": {"viewCount": "100", "likeCount": "12", "commentCount": "3"},
      "contentDetails": {"duration": "PT30S"}
    },
    {
      "id": "longBBBBBBB",
      "snippet": {
        "title": "Full tutorial",
        "publishedAt": "2025-03-08T12:00:00Z",
        "thumbnails": {"default": {"url": "https://i.ytimg.com/vi/longBBBBBBB/default.jpg"}}
      },
      "statistics": {"viewCount": "9000"},
      "contentDetails": {"duration": "PT12M"}
    },
    {
      "id": "shortCCCCCC",
      "snippet": {"title": "Another one #shorts", "publishedAt": "2025-03-09T12:00:00Z"},
      "statistics": {"viewCount": "500", "likeCount": "40"},
      "contentDetails": {"duration": "PT2M"}
    }
  ]
}`

func newTestYouTube(t *testing.T, handler http.Handler) *YouTube {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	yt, err := NewYouTube(context.Background(), "test-key",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	yt.now = func() time.Time { return fixedNow }
	return yt
}

func TestNewYouTubeRequiresKey(t *testing.T) {
	_, err := NewYouTube(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestYouTubeVideo(t *testing.T) {
	yt := newTestYouTube(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/videos", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Query().Get("id") {
		case "shortAAAAAA":
			assert.Equal(t, "snippet,statistics,contentDetails", strings.Join(r.URL.Query()["part"], ","))
			w.Write([]byte(videoItemsJSON))
		case "forbidden00":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": {"code": 403, "message": "quotaExceeded"}}`))
		default:
			w.Write([]byte(`{"items": []}`))
		}
	}))

	t.Run("found", func(t *testing.T) {
		raw, err := yt.Video(context.Background(), "shortAAAAAA")
		require.NoError(t, err)

		assert.Equal(t, "shortAAAAAA", raw.ID)
		assert.Equal(t, "Is this the BEST trick? 🔥", raw.Title)
		assert.Equal(t, "Tricks", raw.ChannelTitle)
		assert.Equal(t, []string{"trick", "magic"}, raw.Tags)
		assert.Equal(t, time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC), raw.PublishedAt)
		assert.Equal(t, "PT30S", raw.Duration)
		assert.Equal(t, int64(100), raw.ViewCount)
		assert.Equal(t, int64(12), raw.LikeCount)
		assert.Equal(t, int64(3), raw.CommentCount)
		assert.Equal(t, "https://i.ytimg.com/vi/shortAAAAAA/hqdefault.jpg", raw.ThumbnailURL)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := yt.Video(context.Background(), "missing0000")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("api error", func(t *testing.T) {
		_, err := yt.Video(context.Background(), "forbidden00")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrNotFound))
	})
}

func TestYouTubeTrending(t *testing.T) {
	var searchQuery map[string]string

	yt := newTestYouTube(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()

		switch r.URL.Path {
		case "/youtube/v3/search":
			searchQuery = map[string]string{
				"type":              q.Get("type"),
				"videoDuration":     q.Get("videoDuration"),
				"order":             q.Get("order"),
				"maxResults":        q.Get("maxResults"),
				"relevanceLanguage": q.Get("relevanceLanguage"),
				"publishedAfter":    q.Get("publishedAfter"),
			}
			w.Write([]byte(`{"items": [
				{"id": {"kind": "youtube#video", "videoId": "shortAAAAAA"}},
				{"id": {"kind": "youtube#video", "videoId": "longBBBBBBB"}},
				{"id": {"kind": "youtube#video", "videoId": "shortCCCCCC"}}
			]}`))
		case "/youtube/v3/videos":
			assert.Equal(t, "shortAAAAAA,longBBBBBBB,shortCCCCCC", strings.Join(q["id"], ","))
			w.Write([]byte(videoItemsJSON))
		default:
			http.NotFound(w, r)
		}
	}))

	peers, err := yt.Trending(context.Background(), TrendingFilter{Limit: 5})
	require.NoError(t, err)

	require.Len(t, peers, 2)
	assert.Equal(t, "shortCCCCCC", peers[0].ID)
	assert.Equal(t, "shortAAAAAA", peers[1].ID)
	assert.Equal(t, "https://i.ytimg.com/vi/shortAAAAAA/hqdefault.jpg", peers[1].ThumbnailURL)
	assert.Empty(t, peers[0].ThumbnailURL)

	assert.Equal(t, map[string]string{
		"type":              "video",
		"videoDuration":     "short",
		"order":             "viewCount",
		"maxResults":        "10",
		"relevanceLanguage": "en",
		"publishedAfter":    "2025-02-24T12:00:00Z",
	}, searchQuery)
}

func TestYouTubeTrendingCapsAndEmpty(t *testing.T) {
	var maxResults string

	yt := newTestYouTube(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/youtube/v3/search" {
			maxResults = r.URL.Query().Get("maxResults")
			w.Write([]byte(`{"items": []}`))
			return
		}
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))

	peers, err := yt.Trending(context.Background(), TrendingFilter{Limit: 40})
	require.NoError(t, err)
	assert.Empty(t, peers)
	assert.Equal(t, "50", maxResults)
}
