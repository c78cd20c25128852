// Package cache provides a Redis client with lifecycle coordination.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/mandate/pkg/lifecycle"
)

// ErrNotReady indicates the Redis connection has not been verified.
var ErrNotReady = errors.New("cache not ready")

// System manages a Redis client and its lifecycle.
type System interface {
	lifecycle.ReadinessChecker
	// Client returns the underlying Redis client.
	Client() redis.UniversalClient
	// Key namespaces name with the configured key prefix.
	Key(name string) string
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type cache struct {
	client      redis.UniversalClient
	prefix      string
	logger      *slog.Logger
	dialTimeout time.Duration
	ready       atomic.Bool
}

// New creates a cache system from cfg. No connection is made until Start is called.
func New(cfg *Config, logger *slog.Logger) System {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeoutDuration(),
	})

	return &cache{
		client:      client,
		prefix:      cfg.KeyPrefix,
		logger:      logger.With("system", "cache"),
		dialTimeout: cfg.DialTimeoutDuration(),
	}
}

func (c *cache) Client() redis.UniversalClient {
	return c.client
}

func (c *cache) Key(name string) string {
	return c.prefix + name
}

// Ready reports whether the startup ping succeeded.
func (c *cache) Ready() bool {
	return c.ready.Load()
}

func (c *cache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting cache connection")
	lc.Check("cache", c)

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), c.dialTimeout)
		defer cancel()

		if err := c.client.Ping(ctx).Err(); err != nil {
			c.logger.Error("cache ping failed", "error", fmt.Errorf("%w: %w", ErrNotReady, err))
			return
		}

		c.ready.Store(true)
		c.logger.Info("cache connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Released()
		c.ready.Store(false)
		c.logger.Info("closing cache connection")

		if err := c.client.Close(); err != nil {
			c.logger.Error("cache close failed", "error", err)
			return
		}

		c.logger.Info("cache connection closed")
	})

	return nil
}
