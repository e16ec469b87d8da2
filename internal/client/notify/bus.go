// Package notify provides a small synchronous publish/subscribe bus.
//
// Listeners are called on the publishing goroutine in registration order.
// Nothing is buffered or replayed: a listener registered after a publish
// never sees that value.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

type subscription[T any] struct {
	id uint64
	fn func(T)
}

// Bus delivers values of type T to the currently registered listeners.
// The zero value is not usable; call New.
type Bus[T any] struct {
	name string
	log  logging.Logger

	mu     sync.Mutex
	nextID uint64
	subs   []subscription[T]
}

func New[T any](name string, log logging.Logger) *Bus[T] {
	return &Bus[T]{name: name, log: log}
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once has no further effect.
func (b *Bus[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription[T]{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			// copy so a Publish iterating the old slice is unaffected
			next := make([]subscription[T], 0, len(b.subs)-1)
			next = append(next, b.subs[:i]...)
			b.subs = append(next, b.subs[i+1:]...)
			return
		}
	}
}

// Len reports the number of registered listeners.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish calls every listener registered at the time of the call. A panic in
// one listener is logged and does not stop delivery to the others.
func (b *Bus[T]) Publish(ctx context.Context, v T) {
	b.mu.Lock()
	subs := make([]subscription[T], len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(ctx, s, v)
	}
}

func (b *Bus[T]) deliver(ctx context.Context, s subscription[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error(ctx, "listener panicked", "bus", b.name, "listener", s.id, "panic", fmt.Sprint(r))
		}
	}()
	s.fn(v)
}
