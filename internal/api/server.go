// Package api exposes the task service over a token-authenticated JSON
// HTTP API.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	DB       *gorm.DB
	Host     string
	Port     int
	Token    string
	Location *time.Location
	Out      io.Writer
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("api: db is required")
	}
	if opts.Token == "" {
		return fmt.Errorf("api: auth token is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(opts.DB, opts.Token, opts.Location)

	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Todoki API listening on %s\n", addr)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with all routes registered. Exposed for
// tests, which drive it through httptest without a listener.
func NewRouter(db *gorm.DB, token string, loc *time.Location) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, db, token, loc)
	return router
}
