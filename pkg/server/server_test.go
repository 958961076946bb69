package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elonfeng/shortsradar/pkg/analysis"
	"github.com/elonfeng/shortsradar/pkg/source"
	"github.com/elonfeng/shortsradar/pkg/video"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var refTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeVideos struct {
	err error
}

func (f *fakeVideos) Video(_ context.Context, id string) (*video.RawRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id != "dQw4w9WgXcQ" {
		return nil, fmt.Errorf("lookup %s: %w", id, source.ErrNotFound)
	}
	return &video.RawRecord{
		ID:           id,
		Title:        "Is this the BEST trick? 🔥",
		Tags:         []string{"a", "b", "c", "d", "e"},
		PublishedAt:  refTime.Add(-48 * time.Hour),
		Duration:     "PT30S",
		ViewCount:    50000,
		LikeCount:    6000,
		CommentCount: 600,
	}, nil
}

type fakePeers struct {
	peers []video.RawRecord
	err   error
}

func (f *fakePeers) Trending(_ context.Context, filter source.TrendingFilter) ([]video.RawRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if filter.Limit > 0 && filter.Limit < len(f.peers) {
		return f.peers[:filter.Limit], nil
	}
	return f.peers, nil
}

func newTestServer(videos source.VideoSource, peers source.PeerSource) *Server {
	svc := analysis.New(videos, analysis.Options{
		Peers: peers,
		Now:   func() time.Time { return refTime },
	})
	return New(svc, 0, nil, zap.NewNop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	h := newTestServer(&fakeVideos{}, nil).Handler()

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	h := newTestServer(&fakeVideos{}, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestAnalyzeEndpoint(t *testing.T) {
	peers := &fakePeers{peers: []video.RawRecord{
		{ViewCount: 10000, LikeCount: 500, CommentCount: 50},
		{ViewCount: 30000, LikeCount: 900, CommentCount: 90},
	}}
	h := newTestServer(&fakeVideos{}, peers).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/analyze", `{"url":"https://youtube.com/shorts/dQw4w9WgXcQ"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report analysis.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "dQw4w9WgXcQ", report.Video.ID)
	assert.InDelta(t, 0.99, report.Result.Score, 1e-9)
	require.NotNil(t, report.Comparison)
	assert.Equal(t, 2, report.Comparison.PeerCount)

	rec = do(t, h, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 1, body["count"])
}

func TestAnalyzeEndpointErrors(t *testing.T) {
	tests := []struct {
		name    string
		videos  *fakeVideos
		body    string
		status  int
		message string
	}{
		{"bad body", &fakeVideos{}, `not json`, http.StatusBadRequest, "request body must be JSON with a url field"},
		{"missing url", &fakeVideos{}, `{}`, http.StatusBadRequest, "request body must be JSON with a url field"},
		{"invalid link", &fakeVideos{}, `{"url":"https://vimeo.com/123"}`, http.StatusBadRequest, analysis.UserMessage(analysis.ErrInvalidLink)},
		{"not found", &fakeVideos{}, `{"url":"https://youtu.be/xxxxxxxxxxx"}`, http.StatusNotFound, analysis.UserMessage(analysis.ErrVideoNotFound)},
		{"provider failure", &fakeVideos{err: errors.New("quota key=AIza-secret")}, `{"url":"https://youtu.be/dQw4w9WgXcQ"}`, http.StatusBadGateway, analysis.UserMessage(analysis.ErrAnalysisFailed)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(tt.videos, nil).Handler()

			rec := do(t, h, http.MethodPost, "/api/v1/analyze", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["error"])
			assert.NotContains(t, rec.Body.String(), "AIza")
		})
	}
}

func TestHistoryLimit(t *testing.T) {
	h := newTestServer(&fakeVideos{}, nil).Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/history?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/history?limit=2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["count"])
}

func TestTrendingEndpoint(t *testing.T) {
	peers := &fakePeers{peers: []video.RawRecord{
		{ID: "a", ViewCount: 300},
		{ID: "b", ViewCount: 200},
		{ID: "c", ViewCount: 100},
	}}

	rec := do(t, newTestServer(&fakeVideos{}, peers).Handler(), http.MethodGet, "/api/v1/trending?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 2, body["count"])
	averages, ok := body["averages"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 250.0, averages["views"], 1e-9)

	rec = do(t, newTestServer(&fakeVideos{}, nil).Handler(), http.MethodGet, "/api/v1/trending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.EqualValues(t, 0, body["count"])
	assert.Nil(t, body["averages"])

	rec = do(t, newTestServer(&fakeVideos{}, &fakePeers{err: errors.New("down")}).Handler(), http.MethodGet, "/api/v1/trending", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCORS(t *testing.T) {
	svc := analysis.New(&fakeVideos{}, analysis.Options{})
	h := New(svc, 0, []string{"https://app.example.com"}, zap.NewNop()).Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := New(analysis.New(&fakeVideos{}, analysis.Options{}), 0, nil, zap.NewNop())
	s.port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
