// Package poll turns a fetch function into a recurring subscription: one
// result immediately, then one per interval, with at-most-one fetch in
// flight at a time. It replaces hand-rolled per-view timers with a single
// lifecycle tied to a context.
package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Result is one delivery from a subscription: a value or the error the
// fetch returned for that round.
type Result[T any] struct {
	Value T
	Err   error
}

// Poller re-runs fetch on a fixed interval. Start may be called again after
// a previous subscription's context ends.
type Poller[T any] struct {
	interval time.Duration
	fetch    func(context.Context) (T, error)
	inFlight atomic.Bool
}

// New builds a poller. A non-positive interval panics: the caller owns the
// cadence and zero would spin.
func New[T any](interval time.Duration, fetch func(context.Context) (T, error)) *Poller[T] {
	if interval <= 0 {
		panic("poll: interval must be positive")
	}
	return &Poller[T]{interval: interval, fetch: fetch}
}

// Start begins polling and returns the subscription's result stream. The
// stream is closed once ctx ends and any in-flight fetch has finished.
// A tick that fires while a fetch is still running is skipped, so one slow
// endpoint never piles up duplicate requests.
func (p *Poller[T]) Start(ctx context.Context) <-chan Result[T] {
	updates := make(chan Result[T], 1)
	go p.run(ctx, updates)
	return updates
}

func (p *Poller[T]) run(ctx context.Context, updates chan<- Result[T]) {
	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		close(updates)
	}()

	p.dispatch(ctx, &wg, updates)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.dispatch(ctx, &wg, updates)
		}
	}
}

func (p *Poller[T]) dispatch(ctx context.Context, wg *sync.WaitGroup, updates chan<- Result[T]) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return // previous fetch still running
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer p.inFlight.Store(false)

		value, err := p.fetch(ctx)
		select {
		case updates <- Result[T]{Value: value, Err: err}:
		case <-ctx.Done():
		}
	}()
}
