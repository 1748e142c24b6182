// Package flight coordinates a single shared resource across many
// concurrent consumers: one in-flight fetch at a time, a cached result, and
// synchronous change notification to subscribers.
package flight

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the resource
type FetchFunc[T any] func(ctx context.Context) (T, error)

// State is a point-in-time copy of the coordinator state
type State[T any] struct {
	Data     T
	HasData  bool
	Loading  bool
	Err      error
	InFlight bool
}

// Listener receives state changes
type Listener[T any] func(State[T])

type subscription[T any] struct {
	id uint64
	fn Listener[T]
}

// Coordinator owns one resource. Request serves cached data when present,
// otherwise joins the in-flight fetch or starts one. Refetch discards the
// cached data and the in-flight marker.
type Coordinator[T any] struct {
	key    string
	fetch  FetchFunc[T]
	group  singleflight.Group
	logger *zap.Logger
	shared func(shared bool)

	mu         sync.Mutex
	data       T
	hasData    bool
	err        error
	active     int
	generation uint64

	subMu  sync.Mutex
	subs   []subscription[T]
	nextID uint64
}

// Option is a functional option for configuring a Coordinator
type Option func(*options)

type options struct {
	logger *zap.Logger
	shared func(bool)
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSharedObserver is called once per Request that waited on a fetch,
// with shared=true when the result was delivered to more than one caller.
func WithSharedObserver(fn func(shared bool)) Option {
	return func(o *options) {
		o.shared = fn
	}
}

// New creates a coordinator for the resource identified by key
func New[T any](key string, fetch FetchFunc[T], opts ...Option) *Coordinator[T] {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return &Coordinator[T]{
		key:    key,
		fetch:  fetch,
		logger: o.logger,
		shared: o.shared,
	}
}

// Request returns the cached resource or waits for the shared fetch.
// Cancelling ctx stops this caller from waiting but does not abort the
// fetch other callers are sharing.
func (c *Coordinator[T]) Request(ctx context.Context) (T, error) {
	c.mu.Lock()
	if c.hasData {
		data := c.data
		c.mu.Unlock()
		return data, nil
	}
	c.mu.Unlock()

	return c.await(ctx)
}

// Refetch drops cached data and any in-flight marker, then fetches anew
func (c *Coordinator[T]) Refetch(ctx context.Context) (T, error) {
	c.mu.Lock()
	var zero T
	c.data = zero
	c.hasData = false
	c.generation++
	c.mu.Unlock()

	c.group.Forget(c.key)
	return c.await(ctx)
}

// Invalidate drops cached data without fetching. The next Request fetches.
func (c *Coordinator[T]) Invalidate() {
	c.mu.Lock()
	var zero T
	c.data = zero
	c.hasData = false
	c.generation++
	c.mu.Unlock()

	c.group.Forget(c.key)
}

// Snapshot returns the current state
func (c *Coordinator[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn for state changes. Listeners run synchronously in
// subscription order. The returned func removes the listener.
func (c *Coordinator[T]) Subscribe(fn Listener[T]) func() {
	c.subMu.Lock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription[T]{id: id, fn: fn})
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of registered listeners
func (c *Coordinator[T]) Subscribers() int {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return len(c.subs)
}

func (c *Coordinator[T]) await(ctx context.Context) (T, error) {
	ch := c.group.DoChan(c.key, func() (any, error) {
		return c.run(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if c.shared != nil {
			c.shared(res.Shared)
		}
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// run performs one fetch. A result whose generation was superseded by
// Refetch or Invalidate is returned to its waiters but not stored.
func (c *Coordinator[T]) run(ctx context.Context) (T, error) {
	c.mu.Lock()
	gen := c.generation
	c.active++
	c.err = nil
	state := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(state)

	c.logger.Debug("single-flight fetch started", zap.String("resource", c.key))
	data, err := c.fetch(ctx)

	c.mu.Lock()
	c.active--
	if gen != c.generation {
		state = c.snapshotLocked()
		c.mu.Unlock()
		c.notify(state)
		c.logger.Debug("single-flight result superseded", zap.String("resource", c.key))
		return data, err
	}
	if err != nil {
		var zero T
		c.data = zero
		c.hasData = false
		c.err = err
	} else {
		c.data = data
		c.hasData = true
		c.err = nil
	}
	state = c.snapshotLocked()
	c.mu.Unlock()
	c.notify(state)

	if err != nil {
		c.logger.Warn("single-flight fetch failed", zap.String("resource", c.key), zap.Error(err))
	}
	return data, err
}

func (c *Coordinator[T]) snapshotLocked() State[T] {
	return State[T]{
		Data:     c.data,
		HasData:  c.hasData,
		Loading:  c.active > 0,
		Err:      c.err,
		InFlight: c.active > 0,
	}
}

func (c *Coordinator[T]) notify(state State[T]) {
	c.subMu.Lock()
	subs := make([]subscription[T], len(c.subs))
	copy(subs, c.subs)
	c.subMu.Unlock()

	for _, s := range subs {
		s.fn(state)
	}
}
