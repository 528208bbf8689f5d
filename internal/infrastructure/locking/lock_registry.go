// Package locking provides per-object read/write locks with bounded waiting.
package locking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/logger"
	"github.com/d1s-utils/hole/internal/pkg/metrics"
	"golang.org/x/sync/semaphore"
)

// DefaultTimeout bounds how long an operation waits for an object's lock.
const DefaultTimeout = 10 * time.Second

// writerWeight is the semaphore capacity; a writer takes all of it, a reader one unit.
const writerWeight = 1 << 20

// Registry keeps one weighted semaphore per object. semaphore.Weighted serves
// waiters in FIFO order, so a waiting writer holds back later readers.
type Registry struct {
	mu      sync.Mutex
	locks   map[string]*entry
	timeout time.Duration
	logger  logger.Logger
}

// NewRegistry creates a lock registry. A non-positive timeout selects DefaultTimeout.
func NewRegistry(timeout time.Duration, logger logger.Logger) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Registry{
		locks:   make(map[string]*entry),
		timeout: timeout,
		logger:  logger,
	}
}

var _ objects.LockService = (*Registry)(nil)

// RLock acquires a shared lock on id.
func (r *Registry) RLock(ctx context.Context, id string) (func(), error) {
	return r.acquire(ctx, id, 1, "read")
}

// Lock acquires an exclusive lock on id.
func (r *Registry) Lock(ctx context.Context, id string) (func(), error) {
	return r.acquire(ctx, id, writerWeight, "write")
}

// Remove forgets the lock of id unless it is still held or awaited; such locks are left to Sweep.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.locks[id]; ok && e.refs == 0 {
		delete(r.locks, id)
	}
}

// Sweep drops the locks nobody holds or waits for and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	swept := 0
	for id, e := range r.locks {
		if e.refs == 0 {
			delete(r.locks, id)
			swept++
		}
	}

	if swept > 0 {
		r.logger.Debug("swept idle object locks", "count", swept, "remaining", len(r.locks))
	}
	return swept
}

// Len returns the number of tracked locks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}

// entry is a lock with the number of goroutines holding or waiting for it.
type entry struct {
	sem  *semaphore.Weighted
	refs int
}

func (r *Registry) ref(id string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.locks[id]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(writerWeight)}
		r.locks[id] = e
	}
	e.refs++
	return e
}

func (r *Registry) unref(e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.refs--
}

func (r *Registry) acquire(ctx context.Context, id string, weight int64, mode string) (func(), error) {
	e := r.ref(id)
	sem := e.sem

	waitCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	err := sem.Acquire(waitCtx, weight)
	metrics.LockWaitSeconds.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		r.unref(e)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			r.logger.Warn("timed out waiting for object lock", "id", id, "mode", mode)
			return nil, fmt.Errorf("%w (%s)", objects.ErrObjectLocked, id)
		}
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			sem.Release(weight)
			r.unref(e)
		})
	}, nil
}
