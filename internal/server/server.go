// Package server exposes tree sessions over HTTP/JSON for a visualizer.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the session API on rg.
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.HandleCreateSession)
		sessions.POST("/import", h.HandleImport)
		sessions.DELETE("/:id", h.HandleDeleteSession)

		// Mutations
		sessions.POST("/:id/insert", h.HandleInsert)
		sessions.POST("/:id/delete", h.HandleDelete)
		sessions.POST("/:id/reset", h.HandleReset)

		// Queries
		sessions.GET("/:id/search/:key", h.HandleSearch)
		sessions.GET("/:id/steps", h.HandleSteps)
		sessions.GET("/:id/steps/:index", h.HandleStep)
		sessions.GET("/:id/validate", h.HandleValidate)
		sessions.GET("/:id/share", h.HandleShare)
	}
}

// NewRouter builds the engine: the session API under /v1, /health, and
// /metrics served from gatherer.
func NewRouter(h *Handlers, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r.Group("/v1"), h)
	r.GET("/health", h.HandleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return r
}

const shutdownTimeout = 5 * time.Second

// Serve runs handler on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
