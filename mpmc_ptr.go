// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPMCPtr is an MPMC queue for unsafe.Pointer values.
//
// Same ticket protocol as MPMC with zero-copy pointer handoff: the
// producer transfers ownership of the pointed-to object to whichever
// consumer claims the slot.
type MPMCPtr struct {
	_        pad
	tail     atomix.Uint64
	_        pad
	head     atomix.Uint64
	_        pad
	buffer   []slotPtr
	mask     uint64
	capacity uint64
}

// NewMPMCPtr creates a new MPMC queue for unsafe.Pointer values.
// Capacity rounds up to the next power of 2.
func NewMPMCPtr(capacity int) *MPMCPtr {
	if capacity < 2 {
		panic("ring: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &MPMCPtr{
		buffer:   make([]slotPtr, n),
		mask:     n - 1,
		capacity: n,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}

	return q
}

// Enqueue adds an element to the queue.
// Returns ErrWouldBlock if the queue is full.
func (q *MPMCPtr) Enqueue(elem unsafe.Pointer) error {
	sw := spin.Wait{}
	pos := q.tail.LoadRelaxed()
	for {
		s := &q.buffer[pos&q.mask]
		seq := s.seq.LoadAcquire()
		diff := int64(seq) - int64(pos)

		if diff == 0 {
			if q.tail.CompareAndSwapAcqRel(pos, pos+1) {
				s.data = elem
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

// Dequeue removes and returns an element from the queue.
// Returns (nil, ErrWouldBlock) if the queue is empty.
func (q *MPMCPtr) Dequeue() (unsafe.Pointer, error) {
	sw := spin.Wait{}
	pos := q.head.LoadRelaxed()
	for {
		s := &q.buffer[pos&q.mask]
		seq := s.seq.LoadAcquire()
		diff := int64(seq) - int64(pos+1)

		if diff == 0 {
			if q.head.CompareAndSwapAcqRel(pos, pos+1) {
				elem := s.data
				s.data = nil
				s.seq.StoreRelease(pos + q.capacity)
				return elem, nil
			}
			sw.Once()
		} else if diff < 0 {
			return nil, ErrWouldBlock
		} else {
			sw.Once()
		}
		pos = q.head.LoadRelaxed()
	}
}

// Size returns the approximate number of queued elements.
func (q *MPMCPtr) Size() int {
	head := q.head.LoadRelaxed()
	tail := q.tail.LoadRelaxed()
	return int(int64(tail) - int64(head))
}

// Cap returns the queue capacity.
func (q *MPMCPtr) Cap() int {
	return int(q.capacity)
}
