package host

import (
	"context"
	"errors"
	"time"
)

var ErrLoopStopped = errors.New("event loop stopped")

// Loop is a single execution context: every posted func runs on the goroutine
// that called Run, one at a time, so state touched only from posted funcs
// needs no locking.
type Loop struct {
	ctx    context.Context
	events chan func()
	after  func()
}

func NewLoop(ctx context.Context, size int) *Loop {
	return &Loop{
		ctx:    ctx,
		events: make(chan func(), size),
	}
}

// AfterEach sets a hook run after every event, e.g. a repaint.
func (l *Loop) AfterEach(fn func()) {
	l.after = fn
}

func (l *Loop) Post(fn func()) error {
	if l.ctx.Err() != nil {
		return ErrLoopStopped
	}
	select {
	case l.events <- fn:
		return nil
	case <-l.ctx.Done():
		return ErrLoopStopped
	}
}

func (l *Loop) Go(work func(ctx context.Context), done func()) {
	go func() {
		work(l.ctx)
		_ = l.Post(done)
	}()
}

func (l *Loop) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		_ = l.Post(fn)
	})
}

func (l *Loop) Run() error {
	for {
		select {
		case <-l.ctx.Done():
			return l.ctx.Err()
		case fn := <-l.events:
			fn()
			if l.after != nil {
				l.after()
			}
		}
	}
}
