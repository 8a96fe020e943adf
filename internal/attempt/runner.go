package attempt

import (
	"context"
	"sync"
	"time"
)

// Ticker is the clock source driving a Runner.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds a Ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

// Runner drives a Shell's Tick from its own goroutine until the attempt finishes,
// the context is cancelled or Stop is called.
type Runner struct {
	shell     *Shell
	interval  time.Duration
	newTicker TickerFactory

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewRunner(shell *Shell, interval time.Duration, newTicker TickerFactory) *Runner {
	if newTicker == nil {
		newTicker = NewTimeTicker
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{
		shell:     shell,
		interval:  interval,
		newTicker: newTicker,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (r *Runner) Start(ctx context.Context) {
	go r.loop(ctx)
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)

	t := r.newTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-t.C():
			r.shell.Tick(ctx)
			if r.shell.Finished() {
				return
			}
		}
	}
}

// Stop ends the loop and waits for it. Safe to call more than once, but not
// from inside Tick.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

// Done is closed once the loop has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}
