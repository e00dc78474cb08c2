package simulation

import (
	"context"
	"errors"
	"time"
)

// DefaultTick is the update period of the dashboard.
const DefaultTick = 2 * time.Second

// ErrLoopStopped is returned by Do once Run has returned.
var ErrLoopStopped = errors.New("simulation loop stopped")

type command struct {
	fn   func(*Engine)
	done chan struct{}
}

// Loop owns an Engine and serializes every access to it on one goroutine:
// timer ticks and operator commands alike.
type Loop struct {
	engine  *Engine
	cmds    chan command
	stopped chan struct{}
}

// NewLoop wraps e. Run must be started before Do can make progress.
func NewLoop(e *Engine) *Loop {
	return &Loop{engine: e, cmds: make(chan command), stopped: make(chan struct{})}
}

// Run ticks at the given interval and executes commands until ctx is canceled.
// It must be called at most once.
func (l *Loop) Run(ctx context.Context, tick time.Duration) {
	defer close(l.stopped)
	if tick <= 0 {
		tick = DefaultTick
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.engine.Tick()
		case c := <-l.cmds:
			c.fn(l.engine)
			close(c.done)
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
// fn must not retain the engine after returning.
func (l *Loop) Do(ctx context.Context, fn func(*Engine)) error {
	c := command{fn: fn, done: make(chan struct{})}
	select {
	case l.cmds <- c:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	// an accepted command always runs to completion
	<-c.done
	return nil
}
