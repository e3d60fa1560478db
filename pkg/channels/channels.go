// Package channels holds channel helpers for producers that must never block,
// such as audio driver callbacks.
package channels

import (
	"sync"
	"sync/atomic"
)

// Lossy is a buffered channel whose sends never block: when the buffer is
// full the value is dropped and counted. Sends after Close are dropped too.
type Lossy[T any] struct {
	mu      sync.RWMutex
	ch      chan T
	closed  bool
	dropped atomic.Int64
}

// NewLossy creates a lossy channel with the given buffer size.
func NewLossy[T any](size int) *Lossy[T] {
	return &Lossy[T]{ch: make(chan T, size)} //nolint:exhaustruct // counters start zeroed
}

// Send offers v and reports whether it was queued.
func (l *Lossy[T]) Send(v T) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.closed {
		select {
		case l.ch <- v:
			return true
		default:
		}
	}

	l.dropped.Add(1)

	return false
}

// C is the receiving side. It is closed by Close once buffered values drain.
func (l *Lossy[T]) C() <-chan T {
	return l.ch
}

// Close stops accepting values. It is safe to call more than once.
func (l *Lossy[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.closed {
		l.closed = true
		close(l.ch)
	}
}

// Dropped returns how many values were discarded.
func (l *Lossy[T]) Dropped() int64 {
	return l.dropped.Load()
}
