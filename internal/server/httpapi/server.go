// Package httpapi serves the operational HTTP endpoints of the directory
// server: a health check backed by the storage ping and the Prometheus
// scrape endpoint.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/dmitrijs2005/staffdir/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HTTPServer struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewHTTPServer(address string, l logging.Logger, store Pinger, m *metrics.Metrics) *HTTPServer {
	logger := l.With("module", "http_server")
	return &HTTPServer{
		address: address,
		handler: NewRouter(store, m, logger),
		logger:  logger,
	}
}

// NewRouter returns the gin engine with /healthz and /metrics mounted.
func NewRouter(store Pinger, m *metrics.Metrics, l logging.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(l))

	r.GET("/healthz", Health(store))
	r.GET("/metrics", gin.WrapH(m.Handler()))

	return r
}

// Health answers 200 when the store responds to a ping and 503 otherwise.
func Health(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		storage := "connected"
		if err := store.Ping(ctx); err != nil {
			storage = "error"
		}

		code := http.StatusOK
		if storage != "connected" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"ok":      code == http.StatusOK,
			"storage": storage,
		})
	}
}

func requestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Debug(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
