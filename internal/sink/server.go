package sink

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the state held by a Latest sink over HTTP:
//
//	GET /summary  the last summary as JSON, 503 before the first poll
//	GET /healthz  "ok", "stale" after a failed poll, or "waiting"
type Server struct {
	echo   *echo.Echo
	latest *Latest
	logger *log.Logger
}

func NewServer(latest *Latest, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		echo:   echo.New(),
		latest: latest,
		logger: logger.WithPrefix("http"),
	}
	s.setupRoutes()
	return s
}

// Handler returns the router, for tests and for embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("status server listening", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("status server shutdown failed", "err", err)
		return err
	}
	s.logger.Info("status server stopped")
	return nil
}

func (s *Server) setupRoutes() {
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status, "took", v.Latency)
			return nil
		},
	}))
	s.echo.Use(middleware.Recover())

	s.echo.GET("/summary", s.getSummary)
	s.echo.GET("/healthz", s.getHealth)
}

func (s *Server) getSummary(c echo.Context) error {
	summary := s.latest.Summary()
	if summary == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "no snapshot received yet",
		})
	}
	return c.JSON(http.StatusOK, NewSummaryView(summary))
}

// HealthView is the /healthz response body.
type HealthView struct {
	Status     string     `json:"status"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
	FailedAt   *time.Time `json:"failed_at,omitempty"`
}

func (s *Server) getHealth(c echo.Context) error {
	h := HealthView{Status: "waiting"}
	if summary := s.latest.Summary(); summary != nil {
		h.Status = "ok"
		at := summary.ReceivedAt
		h.ReceivedAt = &at
	}
	if failedAt, err := s.latest.LastFailure(); err != nil {
		if h.Status == "ok" {
			h.Status = "stale"
		}
		h.LastError = err.Error()
		h.FailedAt = &failedAt
	}
	return c.JSON(http.StatusOK, h)
}
