// Package database opens the PostgreSQL pool through pgx and ties its
// availability to the lifecycle coordinator.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/mandate/pkg/lifecycle"
)

// System owns the connection pool.
type System interface {
	lifecycle.ReadinessChecker
	Connection() *sql.DB
	// Ping checks the pool on demand, outside the startup check.
	Ping(ctx context.Context) error
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
	ready       atomic.Bool
}

// New builds the pool from cfg. Connections are opened lazily; the first
// one is attempted by the startup hook registered in Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	cc, err := cfg.ConnConfig()
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*cc)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		logger:      logger.With("system", "database", "host", cc.Host, "name", cc.Database),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ready() bool {
	return d.ready.Load()
}

func (d *database) Ping(ctx context.Context) error {
	if err := d.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.Check("database", d)

	// The startup ping retries until conn_timeout elapses.
	lc.OnStartup(func() {
		attempts := 0
		_, err := backoff.Retry(lc.Context(),
			func() (struct{}, error) {
				attempts++
				return struct{}{}, d.Ping(lc.Context())
			},
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxElapsedTime(d.connTimeout),
		)
		if err != nil {
			d.logger.Error("database ping failed",
				"attempts", attempts,
				"error", fmt.Errorf("%w: %w", ErrNotReady, err),
			)
			return
		}

		d.ready.Store(true)
		d.logger.Info("database connection established", "attempts", attempts)
	})

	lc.OnShutdown(func() {
		<-lc.Released()
		d.ready.Store(false)

		stats := d.conn.Stats()
		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database connection closed",
			"open", stats.OpenConnections,
			"wait_count", stats.WaitCount,
		)
	})

	return nil
}
