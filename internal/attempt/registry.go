package attempt

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/logger"
)

type entry struct {
	shell  *Shell
	runner *Runner
}

// Registry keeps the live attempts of this process.
type Registry struct {
	mu       sync.RWMutex
	attempts map[string]*entry

	interval    time.Duration
	idleTimeout time.Duration
	newTicker   TickerFactory
	clock       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// RegistryOption customizes a Registry.
type RegistryOption func(*Registry)

// WithTickerFactory replaces the ticker used by attempt runners and the reaper.
func WithTickerFactory(f TickerFactory) RegistryOption {
	return func(r *Registry) { r.newTicker = f }
}

// WithClock replaces time.Now for idle checks.
func WithClock(clock func() time.Time) RegistryOption {
	return func(r *Registry) { r.clock = clock }
}

func NewRegistry(tickInterval, idleTimeout time.Duration, opts ...RegistryOption) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		attempts:    make(map[string]*entry),
		interval:    tickInterval,
		idleTimeout: idleTimeout,
		newTicker:   NewTimeTicker,
		clock:       time.Now,
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers shell and starts its runner. Ticks before Start are ignored.
func (r *Registry) Add(shell *Shell) {
	runner := NewRunner(shell, r.interval, r.newTicker)

	r.mu.Lock()
	r.attempts[shell.ID()] = &entry{shell: shell, runner: runner}
	r.mu.Unlock()

	runner.Start(r.ctx)
}

// Get returns the attempt owned by userID. Attempts of other users are reported as not found.
func (r *Registry) Get(id, userID string) (*Shell, error) {
	r.mu.RLock()
	e, ok := r.attempts[id]
	r.mu.RUnlock()
	if !ok || e.shell.UserID() != userID {
		return nil, domain.NewAttemptNotFoundError(id)
	}
	return e.shell, nil
}

// Abandon ends the attempt, stops its runner and forgets it.
func (r *Registry) Abandon(id, userID string) error {
	if _, err := r.Get(id, userID); err != nil {
		return err
	}
	r.remove(id)
	return nil
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	e, ok := r.attempts[id]
	delete(r.attempts, id)
	r.mu.Unlock()
	if !ok {
		return
	}
	e.shell.End()
	e.runner.Stop()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attempts)
}

// Reap removes attempts without client activity for longer than the idle timeout.
// Finished attempts are kept for the same period so their results stay readable.
func (r *Registry) Reap() int {
	cutoff := r.clock().Add(-r.idleTimeout)

	r.mu.RLock()
	var stale []string
	for id, e := range r.attempts {
		if e.shell.LastActivity().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range stale {
		r.remove(id)
	}
	if len(stale) > 0 {
		logger.Get().Info("Reaped idle attempts", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// StartReaper calls Reap every interval until Close.
func (r *Registry) StartReaper(interval time.Duration) {
	go func() {
		t := r.newTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C():
				r.Reap()
			}
		}
	}()
}

// Close abandons every live attempt and stops all runners.
func (r *Registry) Close() {
	r.mu.RLock()
	ids := make([]string, 0, len(r.attempts))
	for id := range r.attempts {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		r.remove(id)
	}
	r.cancel()
}
