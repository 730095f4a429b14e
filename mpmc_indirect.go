// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPMCIndirect is an MPMC queue for uintptr values.
//
// Same ticket protocol as MPMC with a uintptr payload. Useful for
// pool indices and handles when a generic instantiation per element
// type is unwanted.
type MPMCIndirect struct {
	_        pad
	tail     atomix.Uint64
	_        pad
	head     atomix.Uint64
	_        pad
	buffer   []slotIndirect
	mask     uint64
	capacity uint64
}

// NewMPMCIndirect creates a new MPMC queue for uintptr values.
// Capacity rounds up to the next power of 2.
func NewMPMCIndirect(capacity int) *MPMCIndirect {
	if capacity < 2 {
		panic("ring: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &MPMCIndirect{
		buffer:   make([]slotIndirect, n),
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
func (q *MPMCIndirect) Enqueue(elem uintptr) error {
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
// Returns (0, ErrWouldBlock) if the queue is empty.
func (q *MPMCIndirect) Dequeue() (uintptr, error) {
	sw := spin.Wait{}
	pos := q.head.LoadRelaxed()
	for {
		s := &q.buffer[pos&q.mask]
		seq := s.seq.LoadAcquire()
		diff := int64(seq) - int64(pos+1)

		if diff == 0 {
			if q.head.CompareAndSwapAcqRel(pos, pos+1) {
				elem := s.data
				s.seq.StoreRelease(pos + q.capacity)
				return elem, nil
			}
			sw.Once()
		} else if diff < 0 {
			return 0, ErrWouldBlock
		} else {
			sw.Once()
		}
		pos = q.head.LoadRelaxed()
	}
}

// Size returns the approximate number of queued elements.
func (q *MPMCIndirect) Size() int {
	head := q.head.LoadRelaxed()
	tail := q.tail.LoadRelaxed()
	return int(int64(tail) - int64(head))
}

// Cap returns the queue capacity.
func (q *MPMCIndirect) Cap() int {
	return int(q.capacity)
}
