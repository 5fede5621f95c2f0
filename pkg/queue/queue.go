// Package queue provides an unbounded, thread-safe FIFO used to hand log
// records from request goroutines to listener goroutines. Push never blocks;
// Pop blocks until an item arrives or the queue is closed and drained.
package queue

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Push after Close has been called.
var ErrClosed = errors.New("queue: closed")

// compactThreshold is the minimum number of consumed slots before Pop
// considers shifting live items back to the front of the backing array.
const compactThreshold = 32

// Queue is an unbounded FIFO safe for concurrent use.
// Items pushed from a single goroutine are popped in push order.
type Queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	head   int
	closed bool
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends v to the tail of the queue. It never blocks.
// Returns ErrClosed if the queue has been closed.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	q.items = append(q.items, v)
	q.cond.Signal()
	return nil
}

// Pop removes and returns the head of the queue, blocking until an item is
// available. Once the queue is closed, Pop keeps returning queued items until
// the queue is empty, then returns the zero value and false.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head == len(q.items) && !q.closed {
		q.cond.Wait()
	}

	if q.head == len(q.items) {
		var zero T
		return zero, false
	}

	v := q.items[q.head]
	q.items[q.head] = *new(T) // consumed items must not pin the backing array
	q.head++

	// Amortized O(1): instead of shifting on every pop, reclaim consumed
	// slots once they make up at least half the backing array.
	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactThreshold && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return v, true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Close marks the queue as closed and wakes all blocked consumers.
// Queued items remain poppable; Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}
