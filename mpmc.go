// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPMC is a multi-producer multi-consumer bounded queue with ticketed
// slots.
//
// Producers race on tail and consumers race on head. Each side first
// reads the ticket of the slot at its counter position and only when
// that generation is ready for it claims the index with a CAS on the
// counter. The signed difference between the ticket and the expected
// value (pos for producers, pos+1 for consumers) distinguishes three
// cases:
//
//	diff == 0  slot is ready for this side in this generation: CAS-claim it
//	diff <  0  the opposite side has not advanced this slot yet: full/empty
//	diff >  0  a peer already moved past pos: reload the counter and retry
//
// The CAS loop is lock-free: at least one contending goroutine makes
// progress per round, and a loser's failed CAS refreshes its view of
// the counter without blocking.
//
// Memory: n slots (64+ bytes per slot: ticket, payload and padding)
type MPMC[T any] struct {
	_        pad
	tail     atomix.Uint64 // Producer index
	_        pad
	head     atomix.Uint64 // Consumer index
	_        pad
	buffer   []slot[T]
	mask     uint64
	capacity uint64
}

// NewMPMC creates a new MPMC queue.
// Capacity rounds up to the next power of 2.
func NewMPMC[T any](capacity int) *MPMC[T] {
	if capacity < 2 {
		panic("ring: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &MPMC[T]{
		buffer:   make([]slot[T], n),
		mask:     n - 1,
		capacity: n,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}

	return q
}

// Enqueue adds an element to the queue (multiple producers safe).
// Returns ErrWouldBlock if the queue is full.
func (q *MPMC[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	pos := q.tail.LoadRelaxed()
	for {
		s := &q.buffer[pos&q.mask]
		seq := s.seq.LoadAcquire()
		diff := int64(seq) - int64(pos)

		if diff == 0 {
			if q.tail.CompareAndSwapAcqRel(pos, pos+1) {
				s.data = *elem
				s.seq.StoreRelease(pos + 1)
				return nil
			}
			sw.Once()
		} else if diff < 0 {
			return ErrWouldBlock
		} else {
			sw.Once()
		}
		pos = q.tail.LoadRelaxed()
	}
}

// Dequeue removes and returns an element (multiple consumers safe).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *MPMC[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	pos := q.head.LoadRelaxed()
	for {
		s := &q.buffer[pos&q.mask]
		seq := s.seq.LoadAcquire()
		diff := int64(seq) - int64(pos+1)

		if diff == 0 {
			if q.head.CompareAndSwapAcqRel(pos, pos+1) {
				elem := s.data
				var zero T
				s.data = zero
				s.seq.StoreRelease(pos + q.capacity)
				return elem, nil
			}
			sw.Once()
		} else if diff < 0 {
			var zero T
			return zero, ErrWouldBlock
		} else {
			sw.Once()
		}
		pos = q.head.LoadRelaxed()
	}
}

// EnqueueUntil retries Enqueue until it succeeds or deadline passes.
// Returns ErrDeadlineExceeded on timeout; elem is left intact.
func (q *MPMC[T]) EnqueueUntil(elem *T, deadline time.Time) error {
	w := waiter{}
	for {
		if err := q.Enqueue(elem); err == nil {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrDeadlineExceeded
		}
		w.once()
	}
}

// DequeueUntil retries Dequeue until it succeeds or deadline passes.
// Returns (zero-value, ErrDeadlineExceeded) on timeout.
func (q *MPMC[T]) DequeueUntil(deadline time.Time) (T, error) {
	w := waiter{}
	for {
		if elem, err := q.Dequeue(); err == nil {
			return elem, nil
		}
		if !time.Now().Before(deadline) {
			var zero T
			return zero, ErrDeadlineExceeded
		}
		w.once()
	}
}

// Size returns the approximate number of queued elements.
//
// The counters are sampled with relaxed loads, so under concurrent
// mutation the result may differ from any consistent instant's true
// occupancy and may transiently exceed Cap() while an EnqueueMany
// reservation is outstanding. Diagnostics and coarse pacing only.
func (q *MPMC[T]) Size() int {
	head := q.head.LoadRelaxed()
	tail := q.tail.LoadRelaxed()
	return int(int64(tail) - int64(head))
}

// Cap returns the queue capacity.
func (q *MPMC[T]) Cap() int {
	return int(q.capacity)
}
