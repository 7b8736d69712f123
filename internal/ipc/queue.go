package ipc

import (
	"context"
	"errors"
	"sync"
)

// DefaultQueueCapacity is the number of samples buffered between the
// reader and the render tick.
const DefaultQueueCapacity = 100

// ErrConsumerGone is returned by Send once the receiving side has closed
// the queue.
var ErrConsumerGone = errors.New("sample consumer gone")

// Queue is a bounded single-producer/single-consumer sample queue.
//
// Backpressure: a full queue blocks the producer. Send waits until the
// consumer drains a slot, the consumer closes the queue, or ctx is done.
type Queue struct {
	ch        chan Sample
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a queue holding up to capacity samples.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		ch:   make(chan Sample, capacity),
		done: make(chan struct{}),
	}
}

// Send enqueues s. It returns ErrConsumerGone if the queue was closed and
// ctx.Err() if ctx ends first.
func (q *Queue) Send(ctx context.Context, s Sample) error {
	select {
	case <-q.done:
		return ErrConsumerGone
	default:
	}

	select {
	case q.ch <- s:
		return nil
	case <-q.done:
		return ErrConsumerGone
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryRecv returns the next queued sample without blocking.
func (q *Queue) TryRecv() (Sample, bool) {
	select {
	case s := <-q.ch:
		return s, true
	default:
		return Sample{}, false
	}
}

// Drain hands every sample queued at the time of the call to fn and
// returns how many there were. It never waits for more.
func (q *Queue) Drain(fn func(Sample)) int {
	n := len(q.ch)
	for i := 0; i < n; i++ {
		s, ok := q.TryRecv()
		if !ok {
			return i
		}
		fn(s)
	}
	return n
}

// Len returns the number of queued samples.
func (q *Queue) Len() int { return len(q.ch) }

// Cap returns the queue capacity.
func (q *Queue) Cap() int { return cap(q.ch) }

// Close marks the consumer as gone. Pending and later sends fail with
// ErrConsumerGone. Idempotent.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}
