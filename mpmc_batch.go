// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import "code.hybscloud.com/spin"

// EnqueueMany enqueues up to min(len(items), Cap()) items as a single
// reserved block and returns that count.
//
// One fetch-add on tail reserves the whole block, amortizing the
// counter contention over the batch. The reservation is irrevocable:
// after tail has advanced the producer is committed to publishing
// exactly that many slots, waiting for each reserved slot to be drained
// of its previous generation. The wait is bounded by the slowest
// consumer; if the consumer side stops forever the call never returns.
// Shutdown orchestration belongs to the caller.
//
// Items beyond Cap() are not transferred; callers wanting bounded
// latency should size batches against drain rate or use Enqueue.
func (q *MPMC[T]) EnqueueMany(items []T) int {
	if len(items) == 0 {
		return 0
	}
	want := uint64(len(items))
	if want > q.capacity {
		want = q.capacity
	}

	start := q.tail.AddAcqRel(want) - want
	for i := uint64(0); i < want; i++ {
		idx := start + i
		s := &q.buffer[idx&q.mask]

		w := waiter{}
		for s.seq.LoadAcquire() != idx {
			w.once()
		}

		s.data = items[i]
		s.seq.StoreRelease(idx + 1)
	}
	return int(want)
}

// DequeueMany fills out with up to min(len(out), Cap()) items from the
// contiguous ready run at the head and returns how many were
// transferred. Never blocks; returns 0 when no item is ready.
//
// Unlike EnqueueMany this claims nothing up front: it scans the ready
// prefix, then CAS-claims exactly that many. A reservation here would
// wait on slots that no producer will ever publish at end-of-stream;
// consumers can always drain what exists and return.
func (q *MPMC[T]) DequeueMany(out []T) int {
	if len(out) == 0 {
		return 0
	}
	want := uint64(len(out))
	if want > q.capacity {
		want = q.capacity
	}

	sw := spin.Wait{}
	for {
		start := q.head.LoadRelaxed()

		// Count the consecutive items that are actually published.
		ready := uint64(0)
		for ready < want {
			idx := start + ready
			s := &q.buffer[idx&q.mask]
			if s.seq.LoadAcquire() != idx+1 {
				break
			}
			ready++
		}

		if ready == 0 {
			return 0
		}

		if q.head.CompareAndSwapAcqRel(start, start+ready) {
			// [start, start+ready) is exclusively ours now.
			for i := uint64(0); i < ready; i++ {
				idx := start + i
				s := &q.buffer[idx&q.mask]
				out[i] = s.data
				var zero T
				s.data = zero
				s.seq.StoreRelease(idx + q.capacity)
			}
			return int(ready)
		}

		// Another consumer moved head; rescan from the new position.
		sw.Once()
	}
}
