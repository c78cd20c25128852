// Package lifecycle coordinates startup, readiness, and shutdown of long-lived systems.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// ErrShutdownTimeout is returned when shutdown hooks outlive the deadline.
var ErrShutdownTimeout = errors.New("shutdown timed out")

// ReadinessChecker is implemented by systems that gate /readyz.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup hooks, tracks readiness, and stops systems in two
// stages. When Shutdown begins, Context is cancelled and the drain hooks run.
// Released closes once every drain hook has returned, and only then do the
// shutdown hooks release their resources.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	startup  sync.WaitGroup
	shutdown sync.WaitGroup
	released chan struct{}
	stopping sync.Once

	mu       sync.RWMutex
	started  bool
	drains   []func()
	checkers map[string]ReadinessChecker
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:      ctx,
		cancel:   cancel,
		released: make(chan struct{}),
		checkers: make(map[string]ReadinessChecker),
	}
}

// Context outlives every request. Background work such as comparison jobs
// runs under it.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup starts fn immediately. WaitForStartup waits for it.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnDrain registers fn to run once Shutdown has cancelled Context. Drain
// hooks finish work that still needs shared resources, such as in-flight
// requests and background jobs.
func (c *Coordinator) OnDrain(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drains = append(c.drains, fn)
}

// Released is closed after every drain hook has returned.
func (c *Coordinator) Released() <-chan struct{} {
	return c.released
}

// OnShutdown starts fn immediately. fn must block on <-Released() before
// releasing anything; Shutdown waits for it to return.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

// Check registers rc under name. A later call with the same name replaces it.
func (c *Coordinator) Check(name string, rc ReadinessChecker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkers[name] = rc
}

// Ready is false until WaitForStartup returns and while any checker is not ready.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.started && len(c.pending()) == 0
}

// NotReady lists the checkers currently not ready, sorted by name.
func (c *Coordinator) NotReady() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending()
}

func (c *Coordinator) pending() []string {
	var names []string
	for _, name := range slices.Sorted(maps.Keys(c.checkers)) {
		if !c.checkers[name].Ready() {
			names = append(names, name)
		}
	}
	return names
}

func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()

	c.mu.Lock()
	c.started = true
	c.mu.Unlock()
}

// Shutdown cancels Context, runs the drain hooks, then waits up to timeout
// for the shutdown hooks. It is safe to call more than once.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.stopping.Do(func() {
		c.cancel()

		c.mu.RLock()
		drains := slices.Clone(c.drains)
		c.mu.RUnlock()

		go func() {
			var wg sync.WaitGroup
			for _, fn := range drains {
				wg.Go(fn)
			}
			wg.Wait()
			close(c.released)
		}()
	})

	done := make(chan struct{})
	go func() {
		<-c.released
		c.shutdown.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w after %s", ErrShutdownTimeout, timeout)
	}
}
