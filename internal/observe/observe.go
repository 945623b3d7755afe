// Package observe provides a minimal latest-value observable.
//
// A Value holds the most recent item and fans it out to any number of
// subscribers. Subscribing delivers the current value immediately, then every
// subsequent Set. The returned function detaches the subscriber.
//
//	books := observe.NewValue([]entities.Book{})
//	stop := books.Subscribe(func(bs []entities.Book) { render(bs) })
//	defer stop()
package observe

import "sync"

// Value is a thread-safe latest-value producer.
type Value[T any] struct {
	mu          sync.Mutex
	current     T
	nextID      int
	subscribers map[int]func(T)
}

// NewValue creates a Value seeded with an initial value.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		current:     initial,
		subscribers: make(map[int]func(T)),
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set stores a new value and notifies every subscriber.
// Callbacks run synchronously on the calling goroutine.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.current = val
	fns := make([]func(T), 0, len(v.subscribers))
	for _, fn := range v.subscribers {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(val)
	}
}

// Subscribe attaches a callback. The callback receives the current value
// before Subscribe returns, then every later Set until the returned
// unsubscribe function is called. Unsubscribing twice is harmless.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subscribers[id] = fn
	current := v.current
	v.mu.Unlock()

	fn(current)

	return func() {
		v.mu.Lock()
		delete(v.subscribers, id)
		v.mu.Unlock()
	}
}

// SubscriberCount reports how many subscribers are attached.
func (v *Value[T]) SubscriberCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subscribers)
}
