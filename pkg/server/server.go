package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/elonfeng/shortsradar/internal/history"
	"github.com/elonfeng/shortsradar/pkg/analysis"
	"github.com/elonfeng/shortsradar/pkg/trend"
	"github.com/elonfeng/shortsradar/pkg/video"
)

const shutdownTimeout = 5 * time.Second

// Analyzer is the part of the analysis service exposed over HTTP.
type Analyzer interface {
	Analyze(ctx context.Context, link string) (*analysis.Report, error)
	Trending(ctx context.Context, limit int) ([]video.RawRecord, trend.PeerAverages, bool, error)
	History() history.Store
}

// Server provides the HTTP API.
type Server struct {
	analyzer Analyzer
	port     int
	origins  []string
	logger   *zap.Logger
	handler  http.Handler
}

// New creates a new HTTP server.
func New(a Analyzer, port int, allowedOrigins []string, logger *zap.Logger) *Server {
	if port == 0 {
		port = 8080
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	s := &Server{
		analyzer: a,
		port:     port,
		origins:  allowedOrigins,
		logger:   logger,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(s.logger))

	router.GET("/health", s.handleHealth)

	api := router.Group("/api/v1")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/history", s.handleHistory)
		api.GET("/trending", s.handleTrending)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler(router)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type analyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with a url field"})
		return
	}

	report, err := s.analyzer.Analyze(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": analysis.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, report)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrInvalidLink):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrVideoNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleHistory(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	entries, err := s.analyzer.History().Recent(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("list history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries, "count": len(entries)})
}

func (s *Server) handleTrending(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	peers, avg, available, err := s.analyzer.Trending(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": analysis.UserMessage(err)})
		return
	}
	if peers == nil {
		peers = []video.RawRecord{}
	}

	var averages *trend.PeerAverages
	if available {
		averages = &avg
	}

	c.JSON(http.StatusOK, gin.H{"data": peers, "count": len(peers), "averages": averages})
}

// queryLimit reads ?limit=, writing a 400 response when it is malformed.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return 0, false
	}
	return n, true
}
