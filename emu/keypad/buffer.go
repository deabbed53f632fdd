// Package keypad provides the input devices of the machine: a buffer of
// timestamped key presses fed by a frontend, and a dummy keypad.
package keypad

import (
	"errors"
	"sync"
	"time"
)

const (
	// DefaultTimeout is how long a key press stays fresh.
	DefaultTimeout = 250 * time.Millisecond
	// DefaultCapacity is the number of presses a Buffer queues for waiters.
	DefaultCapacity = 16
)

// ErrClosed is returned by WaitKey once the buffer is closed.
var ErrClosed = errors.New("keypad closed")

type press struct {
	key uint8
	at  time.Time
}

// Buffer collects key presses from a producer goroutine and hands them to the
// machine. Presses older than the timeout are treated as absent, both when
// queueing new presses and when taking them out.
type Buffer struct {
	timeout time.Duration
	presses chan press
	done    chan struct{}
	once    sync.Once
	now     func() time.Time

	mu      sync.Mutex // serializes producers and guards last
	last    press
	hasLast bool
}

// NewBuffer returns a buffer keeping presses fresh for timeout and queueing
// at most capacity of them. Non-positive values select the defaults.
func NewBuffer(timeout time.Duration, capacity int) *Buffer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		timeout: timeout,
		presses: make(chan press, capacity),
		done:    make(chan struct{}),
		now:     time.Now,
	}
}

// Push records a press of key 0x0-0xF. Other values and pushes after Close
// are ignored. If the queue is full of fresh presses the oldest is dropped.
func (b *Buffer) Push(key uint8) {
	if key > 0xF {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return
	default:
	}

	now := b.now()
	p := press{key: key, at: now}
	b.last = p
	b.hasLast = true

	b.expire(now)

	select {
	case b.presses <- p:
		return
	default:
	}

	select {
	case <-b.presses:
	default:
	}
	select {
	case b.presses <- p:
	default:
	}
}

// expire rotates the queue once, dropping the presses that went stale.
// Must be called with mu held.
func (b *Buffer) expire(now time.Time) {
	for n := len(b.presses); n > 0; n-- {
		select {
		case p := <-b.presses:
			if !b.fresh(p, now) {
				continue
			}
			select {
			case b.presses <- p:
			default:
			}
		default:
			return
		}
	}
}

func (b *Buffer) fresh(p press, now time.Time) bool {
	return now.Sub(p.at) < b.timeout
}

// Key returns the most recently pressed key if it is still fresh.
func (b *Buffer) Key() (uint8, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasLast || !b.fresh(b.last, b.now()) {
		return 0, false
	}
	return b.last.key, true
}

// WaitKey blocks until a fresh press is queued and returns it. It returns
// ErrClosed when the buffer is closed while waiting.
func (b *Buffer) WaitKey() (uint8, error) {
	for {
		select {
		case <-b.done:
			return 0, ErrClosed
		case p := <-b.presses:
			if b.fresh(p, b.now()) {
				return p.key, nil
			}
		}
	}
}

// Close wakes up any waiter and stops accepting presses. It is safe to call
// more than once.
func (b *Buffer) Close() {
	b.once.Do(func() {
		close(b.done)
	})
}

// Done returns a channel closed once the buffer is closed.
func (b *Buffer) Done() <-chan struct{} {
	return b.done
}
