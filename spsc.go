// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"time"
	"unsafe"

	"code.hybscloud.com/atomix"
)

// SPSC is a single-producer single-consumer bounded queue with ticketed
// slots.
//
// The counters need no cross-thread claim protocol: each side owns its
// counter exclusively, so head and tail advance with relaxed stores.
// All synchronization flows through the per-slot sequence ticket: the
// producer's release store of seq publishes the payload, the consumer's
// acquire load observes it, and the consumer's release store of
// seq = i + capacity hands the slot back for its next generation.
//
// Memory: n slots, one ticket word per slot
type SPSC[T any] struct {
	_        pad
	head     atomix.Uint64 // Consumer index
	_        pad
	tail     atomix.Uint64 // Producer index
	_        pad
	buffer   []slot[T]
	mask     uint64
	capacity uint64
}

// slot pairs a payload with its sequence ticket. The ticket is the
// single source of truth for whether data holds a valid element:
// seq == i means empty for generation i, seq == i+1 means written.
type slot[T any] struct {
	seq  atomix.Uint64
	data T
	_    padShort // Pad slot to at least a cache line
}

// NewSPSC creates a new SPSC queue.
// Capacity rounds up to the next power of 2.
func NewSPSC[T any](capacity int) *SPSC[T] {
	if capacity < 2 {
		panic("ring: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &SPSC[T]{
		buffer:   make([]slot[T], n),
		mask:     n - 1,
		capacity: n,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}

	return q
}

// Enqueue adds an element to the queue (producer only).
// Returns ErrWouldBlock if the queue is full.
func (q *SPSC[T]) Enqueue(elem *T) error {
	tail := q.tail.LoadRelaxed()
	s := &q.buffer[tail&q.mask]
	if s.seq.LoadAcquire() != tail {
		return ErrWouldBlock
	}

	s.data = *elem
	s.seq.StoreRelease(tail + 1)
	q.tail.StoreRelaxed(tail + 1)
	return nil
}

// Dequeue removes and returns an element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *SPSC[T]) Dequeue() (T, error) {
	head := q.head.LoadRelaxed()
	s := &q.buffer[head&q.mask]
	if s.seq.LoadAcquire() != head+1 {
		var zero T
		return zero, ErrWouldBlock
	}

	elem := s.data
	var zero T
	s.data = zero
	s.seq.StoreRelease(head + q.capacity)
	q.head.StoreRelaxed(head + 1)
	return elem, nil
}

// EnqueueUntil retries Enqueue until it succeeds or deadline passes.
// Returns ErrDeadlineExceeded on timeout; elem is left intact.
func (q *SPSC[T]) EnqueueUntil(elem *T, deadline time.Time) error {
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
func (q *SPSC[T]) DequeueUntil(deadline time.Time) (T, error) {
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
// The value is a relaxed snapshot for diagnostics and coarse pacing
// only; it must not be used for correctness decisions.
func (q *SPSC[T]) Size() int {
	head := q.head.LoadRelaxed()
	tail := q.tail.LoadRelaxed()
	return int(int64(tail) - int64(head))
}

// Cap returns the queue capacity.
func (q *SPSC[T]) Cap() int {
	return int(q.capacity)
}

// SPSCIndirect is a SPSC queue for uintptr values.
type SPSCIndirect struct {
	_        pad
	head     atomix.Uint64
	_        pad
	tail     atomix.Uint64
	_        pad
	buffer   []slotIndirect
	mask     uint64
	capacity uint64
}

type slotIndirect struct {
	seq  atomix.Uint64
	data uintptr
	_    padShort
}

// NewSPSCIndirect creates a new SPSC queue for uintptr values.
// Capacity rounds up to the next power of 2.
func NewSPSCIndirect(capacity int) *SPSCIndirect {
	if capacity < 2 {
		panic("ring: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &SPSCIndirect{
		buffer:   make([]slotIndirect, n),
		mask:     n - 1,
		capacity: n,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}

	return q
}

// Enqueue adds an element (producer only).
func (q *SPSCIndirect) Enqueue(elem uintptr) error {
	tail := q.tail.LoadRelaxed()
	s := &q.buffer[tail&q.mask]
	if s.seq.LoadAcquire() != tail {
		return ErrWouldBlock
	}

	s.data = elem
	s.seq.StoreRelease(tail + 1)
	q.tail.StoreRelaxed(tail + 1)
	return nil
}

// Dequeue removes and returns an element (consumer only).
func (q *SPSCIndirect) Dequeue() (uintptr, error) {
	head := q.head.LoadRelaxed()
	s := &q.buffer[head&q.mask]
	if s.seq.LoadAcquire() != head+1 {
		return 0, ErrWouldBlock
	}

	elem := s.data
	s.seq.StoreRelease(head + q.capacity)
	q.head.StoreRelaxed(head + 1)
	return elem, nil
}

// Size returns the approximate number of queued elements.
func (q *SPSCIndirect) Size() int {
	head := q.head.LoadRelaxed()
	tail := q.tail.LoadRelaxed()
	return int(int64(tail) - int64(head))
}

// Cap returns the queue capacity.
func (q *SPSCIndirect) Cap() int {
	return int(q.capacity)
}

// SPSCPtr is a SPSC queue for unsafe.Pointer values.
// Useful for zero-copy pointer passing between goroutines.
type SPSCPtr struct {
	_        pad
	head     atomix.Uint64
	_        pad
	tail     atomix.Uint64
	_        pad
	buffer   []slotPtr
	mask     uint64
	capacity uint64
}

type slotPtr struct {
	seq  atomix.Uint64
	data unsafe.Pointer
	_    padShort
}

// NewSPSCPtr creates a new SPSC queue for unsafe.Pointer values.
// Capacity rounds up to the next power of 2.
func NewSPSCPtr(capacity int) *SPSCPtr {
	if capacity < 2 {
		panic("ring: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &SPSCPtr{
		buffer:   make([]slotPtr, n),
		mask:     n - 1,
		capacity: n,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}

	return q
}

// Enqueue adds an element (producer only).
func (q *SPSCPtr) Enqueue(elem unsafe.Pointer) error {
	tail := q.tail.LoadRelaxed()
	s := &q.buffer[tail&q.mask]
	if s.seq.LoadAcquire() != tail {
		return ErrWouldBlock
	}

	s.data = elem
	s.seq.StoreRelease(tail + 1)
	q.tail.StoreRelaxed(tail + 1)
	return nil
}

// Dequeue removes and returns an element (consumer only).
func (q *SPSCPtr) Dequeue() (unsafe.Pointer, error) {
	head := q.head.LoadRelaxed()
	s := &q.buffer[head&q.mask]
	if s.seq.LoadAcquire() != head+1 {
		return nil, ErrWouldBlock
	}

	elem := s.data
	s.data = nil
	s.seq.StoreRelease(head + q.capacity)
	q.head.StoreRelaxed(head + 1)
	return elem, nil
}

// Size returns the approximate number of queued elements.
func (q *SPSCPtr) Size() int {
	head := q.head.LoadRelaxed()
	tail := q.tail.LoadRelaxed()
	return int(int64(tail) - int64(head))
}

// Cap returns the queue capacity.
func (q *SPSCPtr) Cap() int {
	return int(q.capacity)
}
