// Package observe provides a small observer registry that remembers the last
// published value. New subscribers receive that value first, then every
// later publication, until they cancel.
package observe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Listener receives published values.
type Listener[T any] func(ctx context.Context, v T)

type subscription[T any] struct {
	id        uint64
	fn        Listener[T]
	cancelled atomic.Bool
}

type delivery[T any] struct {
	ctx   context.Context
	value T
	subs  []*subscription[T]
}

// Subject holds a current value and the listeners interested in it.
// It is safe for concurrent use.
//
// Deliveries are serialised: one goroutine at a time runs listeners, outside
// the internal lock, in publication order. A Publish or Subscribe made while
// another delivery is running (from a listener, or from another goroutine) is
// queued and run by the goroutine already delivering, so it may return
// before its listeners have been called. Every listener therefore sees values
// in the order they were published, and the replay on Subscribe is never
// newer than what follows it.
type Subject[T any] struct {
	mu       sync.Mutex
	value    T
	nextID   uint64
	subs     []*subscription[T]
	queue    []delivery[T]
	draining bool
}

// NewSubject returns a Subject whose current value is initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial}
}

// Value returns the last published value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Subscribe registers fn, delivers the current value to it and returns a
// cancel func. Cancel is idempotent; a cancelled listener receives nothing
// further, including queued deliveries.
func (s *Subject[T]) Subscribe(ctx context.Context, fn Listener[T]) (cancel func()) {
	s.mu.Lock()
	s.nextID++
	sub := &subscription[T]{id: s.nextID, fn: fn}
	s.subs = append(s.subs, sub)
	start := s.enqueueLocked(delivery[T]{ctx: ctx, value: s.value, subs: []*subscription[T]{sub}})
	s.mu.Unlock()

	if start {
		s.drain()
	}

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(sub) })
	}
}

func (s *Subject[T]) unsubscribe(sub *subscription[T]) {
	sub.cancelled.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.subs {
		if cur == sub {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Publish stores v as the current value and delivers it to every listener
// registered at the time of the call.
func (s *Subject[T]) Publish(ctx context.Context, v T) {
	s.mu.Lock()
	s.value = v
	subs := make([]*subscription[T], len(s.subs))
	copy(subs, s.subs)
	start := s.enqueueLocked(delivery[T]{ctx: ctx, value: v, subs: subs})
	s.mu.Unlock()

	if start {
		s.drain()
	}
}

// enqueueLocked queues d and reports whether the caller must drain the queue.
func (s *Subject[T]) enqueueLocked(d delivery[T]) bool {
	s.queue = append(s.queue, d)
	if s.draining {
		return false
	}
	s.draining = true
	return true
}

func (s *Subject[T]) drain() {
	done := false
	defer func() {
		// A panicking listener must not wedge the subject.
		if !done {
			s.mu.Lock()
			s.draining = false
			s.queue = nil
			s.mu.Unlock()
		}
	}()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			done = true
			return
		}
		d := s.queue[0]
		s.queue[0] = delivery[T]{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		for _, sub := range d.subs {
			if !sub.cancelled.Load() {
				sub.fn(d.ctx, d.value)
			}
		}
	}
}

// Len reports the number of active listeners.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
