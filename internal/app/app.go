// Package app assembles the service from its parts and runs the HTTP
// server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/vibechat/service/internal/config"
	"github.com/vibechat/service/internal/db"
	"github.com/vibechat/service/internal/http/api"
	"github.com/vibechat/service/internal/ratelimit"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// stop signal.
const shutdownTimeout = 10 * time.Second

// NewEngine builds the gin engine with all routes registered.
func NewEngine(conn *gorm.DB, cfg config.Config) *gin.Engine {
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	limiter := ratelimit.NewManager(cfg.RateLimit, cfg.Cache)
	api.RegisterRoutes(r, conn, cfg, limiter)
	return r
}

// Run opens the database, migrates the schema, and serves HTTP until
// ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return fmt.Errorf("open database: %w", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return fmt.Errorf("migrate database: %w", errMigrate)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: NewEngine(conn, cfg),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case errServe := <-serveErr:
		if errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			return errServe
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if errStop := srv.Shutdown(stopCtx); errStop != nil {
		return fmt.Errorf("shutdown: %w", errStop)
	}
	if sqlDB, errDB := conn.DB(); errDB == nil {
		_ = sqlDB.Close()
	}
	return nil
}
