package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const channelFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
 <title>Tricks</title>
 <author><name>Tricks</name><uri>https://www.youtube.com/channel/UC1</uri></author>
 <entry>
  <id>yt:video:AAAAAAAAAAA</id>
  <yt:videoId>AAAAAAAAAAA</yt:videoId>
  <title>Quick tip</title>
  <link rel="alternate" href="https://www.youtube.com/shorts/AAAAAAAAAAA"/>
  <author><name>Tricks</name></author>
  <published>2025-03-09T10:00:00+00:00</published>
  <media:group>
   <media:title>Quick tip</media:title>
   <media:thumbnail url="https://i1.ytimg.com/vi/AAAAAAAAAAA/hqdefault.jpg" width="480" height="360"/>
   <media:description>fast and simple</media:description>
   <media:community>
    <media:starRating count="120" average="5.00" min="1" max="5"/>
    <media:statistics views="1000"/>
   </media:community>
  </media:group>
 </entry>
 <entry>
  <id>yt:video:BBBBBBBBBBB</id>
  <yt:videoId>BBBBBBBBBBB</yt:videoId>
  <title>Full tutorial</title>
  <link rel="alternate" href="https://www.youtube.com/watch?v=BBBBBBBBBBB"/>
  <published>2025-03-09T11:00:00+00:00</published>
  <media:group>
   <media:description>forty minutes of detail</media:description>
   <media:community><media:statistics views="90000"/></media:community>
  </media:group>
 </entry>
 <entry>
  <id>yt:video:CCCCCCCCCCC</id>
  <title>Tagged one</title>
  <link rel="alternate" href="https://www.youtube.com/watch?v=CCCCCCCCCCC"/>
  <published>2025-03-08T11:00:00+00:00</published>
  <media:group>
   <media:description>see more #Shorts</media:description>
   <media:community>
    <media:starRating count="300" average="5.00" min="1" max="5"/>
    <media:statistics views="5000"/>
   </media:community>
  </media:group>
 </entry>
 <entry>
  <id>yt:video:DDDDDDDDDDD</id>
  <yt:videoId>DDDDDDDDDDD</yt:videoId>
  <title>Old short</title>
  <link rel="alternate" href="https://www.youtube.com/shorts/DDDDDDDDDDD"/>
  <published>2024-12-01T11:00:00+00:00</published>
  <media:group>
   <media:community><media:statistics views="999999"/></media:community>
  </media:group>
 </entry>
</feed>`

func newTestFeeds(t *testing.T, channels ...string) *Feeds {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("channel_id") {
		case "UC1", "UC2":
			w.Header().Set("Content-Type", "application/atom+xml")
			w.Write([]byte(channelFeed))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	f := NewFeeds(channels, zap.NewNop())
	f.feedURL = srv.URL + "/feeds/videos.xml?channel_id=%s"
	f.now = func() time.Time { return fixedNow }
	return f
}

func TestFeedsTrending(t *testing.T) {
	f := newTestFeeds(t, "UC1", "UC2", "missing")

	peers, err := f.Trending(context.Background(), TrendingFilter{})
	require.NoError(t, err)
	require.Len(t, peers, 2)

	assert.Equal(t, "CCCCCCCCCCC", peers[0].ID)
	assert.Equal(t, int64(5000), peers[0].ViewCount)
	assert.Equal(t, int64(300), peers[0].LikeCount)
	assert.Equal(t, "Tricks", peers[0].ChannelTitle)

	first := peers[1]
	assert.Equal(t, "AAAAAAAAAAA", first.ID)
	assert.Equal(t, "Quick tip", first.Title)
	assert.Equal(t, "fast and simple", first.Description)
	assert.Equal(t, "https://i1.ytimg.com/vi/AAAAAAAAAAA/hqdefault.jpg", first.ThumbnailURL)
	assert.Equal(t, int64(1000), first.ViewCount)
	assert.Equal(t, int64(120), first.LikeCount)
	assert.Equal(t, time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC), first.PublishedAt)
	assert.NotNil(t, first.Tags)
}

func TestFeedsTrendingLimitAndKeywords(t *testing.T) {
	f := newTestFeeds(t, "UC1")

	peers, err := f.Trending(context.Background(), TrendingFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, peers, 1)
	assert.Equal(t, "CCCCCCCCCCC", peers[0].ID)

	peers, err = f.Trending(context.Background(), TrendingFilter{Exclude: []string{"tagged"}})
	require.NoError(t, err)
	require.Len(t, peers, 1)
	assert.Equal(t, "AAAAAAAAAAA", peers[0].ID)

	peers, err = f.Trending(context.Background(), TrendingFilter{Window: 365 * 24 * time.Hour})
	require.NoError(t, err)
	require.Len(t, peers, 3)
	assert.Equal(t, "DDDDDDDDDDD", peers[0].ID)
}

func TestFeedsTrendingAllChannelsFail(t *testing.T) {
	f := newTestFeeds(t, "nope", "gone")

	_, err := f.Trending(context.Background(), TrendingFilter{})
	assert.Error(t, err)
}

func TestFeedsTrendingNoChannels(t *testing.T) {
	f := newTestFeeds(t)

	peers, err := f.Trending(context.Background(), TrendingFilter{})
	require.NoError(t, err)
	assert.Empty(t, peers)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		exclude  []string
		text     string
		want     bool
	}{
		{"no lists", nil, nil, "anything", true},
		{"keyword hit", []string{"Magic"}, nil, "a MAGIC trick", true},
		{"keyword miss", []string{"magic"}, nil, "cooking", false},
		{"excluded", nil, []string{"ad"}, "paid AD inside", false},
		{"exclude beats keyword", []string{"magic"}, []string{"sponsored"}, "sponsored magic", false},
		{"blank entries ignored", []string{" ", ""}, nil, "cooking", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewFilter(tt.keywords, tt.exclude).Matches(tt.text))
		})
	}
}
