// Package loop provides the host side of a frame-driven animation: a
// scheduler that runs frame callbacks once per tick and a task queue that
// runs graph mutations on the same goroutine between ticks.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrStopped is returned by Post once the loop has finished
	ErrStopped = errors.New("loop: stopped")
	// ErrRunning is returned by Run when another Run is in progress
	ErrRunning = errors.New("loop: already running")
)

// Loop runs frame callbacks at a fixed rate on a single goroutine.
type Loop struct {
	interval time.Duration

	mu      sync.Mutex
	frames  []func()
	tasks   chan func()
	done    chan struct{}
	ticks   int
	running bool
	stopped bool
}

// New creates a loop ticking fps times per second
func New(fps int) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		tasks:    make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

// RequestFrame schedules fn for the next tick. Callbacks requested during a
// tick run on the following one.
func (l *Loop) RequestFrame(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, fn)
}

// Pending returns the number of callbacks waiting for the next tick
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

// Ticks returns the number of ticks run so far
func (l *Loop) Ticks() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ticks
}

// Post queues fn to run on the loop goroutine between ticks. It blocks while
// the queue is full.
func (l *Loop) Post(ctx context.Context, fn func()) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick runs every callback requested before the call
func (l *Loop) Tick() {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.ticks++
	l.mu.Unlock()

	for _, fn := range frames {
		fn()
	}
}

// Run ticks until the context is done. Queued tasks run as they arrive. A
// loop runs once; later calls return ErrStopped.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	switch {
	case l.stopped:
		l.mu.Unlock()
		return ErrStopped
	case l.running:
		l.mu.Unlock()
		return ErrRunning
	}
	l.running = true
	l.mu.Unlock()

	ticker := time.NewTicker(l.interval)
	defer func() {
		ticker.Stop()
		l.mu.Lock()
		l.stopped = true
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			l.Tick()
		}
	}
}
