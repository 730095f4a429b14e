// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring provides bounded lock-free FIFO queues with ticketed slots.
//
// Two variants share one memory layout, a fixed power-of-two circular
// array of slots, each carrying a monotonically advancing sequence
// ticket:
//
//   - SPSC: exactly one producer goroutine, one consumer goroutine
//   - MPMC: any number of concurrent producers and consumers
//
// # Quick Start
//
// Direct constructors (recommended for most cases):
//
//	q := ring.NewSPSC[Event](1024)
//	q := ring.NewMPMC[*Request](4096)
//
// Builder API auto-selects the variant based on constraints:
//
//	q := ring.Build[Event](ring.New(1024).SingleProducer().SingleConsumer()) // → SPSC
//	q := ring.Build[Event](ring.New(1024))                                   // → MPMC
//
// # Basic Usage
//
// Both variants share the same interface for enqueueing and dequeueing:
//
//	q := ring.NewMPMC[int](1024)
//
//	// Enqueue (non-blocking)
//	value := 42
//	err := q.Enqueue(&value)
//	if ring.IsWouldBlock(err) {
//	    // Queue is full - handle backpressure
//	}
//
//	// Dequeue (non-blocking)
//	elem, err := q.Dequeue()
//	if ring.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// # The Ticket Protocol
//
// Each slot carries a 64-bit sequence ticket that encodes both lifecycle
// state and generation. For the slot at logical index i (the raw
// monotonic sequence, not the masked array position):
//
//	seq == i            empty for this generation; a producer may claim
//	seq == i + 1        written; a consumer may claim
//	seq == i + capacity empty again, for the next use of the same physical slot
//
// Embedding the logical index into the ticket makes each generation's
// empty and written states globally unique, so index wrap-around cannot
// cause an ABA hazard. Producers publish with a release store of seq and
// consumers observe it with an acquire load, which is what makes the
// payload write visible across goroutines without locks.
//
// # Batch Operations (MPMC)
//
// MPMC additionally offers batch endpoints with deliberately asymmetric
// semantics:
//
//	n := q.EnqueueMany(items) // reserves a block up front; waits for reserved slots
//	n := q.DequeueMany(out)   // claims only the contiguous ready run; returns 0 instead of blocking
//
// EnqueueMany amortizes one fetch-add over the whole batch. The
// reservation is irrevocable: once tail has advanced, the producer is
// committed and waits for the slowest consumer to drain prior
// generations. It assumes a live consumer side; orchestration of
// shutdown belongs to the caller.
//
// DequeueMany never over-claims. At end-of-stream no new items arrive,
// so a reservation-based dequeue would wait on a publisher that never
// comes; scanning the contiguous ready prefix lets consumers drain
// whatever is available and return, supporting shutdown. Do not
// symmetrize the two.
//
// # Deadline-Bounded Operations
//
// EnqueueUntil and DequeueUntil retry the single-item operation until it
// succeeds or the wall-clock deadline passes, spinning briefly with a
// CPU pause hint between attempts and yielding the scheduler
// periodically:
//
//	elem, err := q.DequeueUntil(time.Now().Add(10 * time.Millisecond))
//	if errors.Is(err, ring.ErrDeadlineExceeded) {
//	    // nothing arrived in time
//	}
//
// # Queue Flavors
//
// Three flavors are available per variant:
//
//	Build[T]        - Generic type-safe queue for any type
//	BuildIndirect() - Queue for uintptr values (pool indices, handles)
//	BuildPtr()      - Queue for unsafe.Pointer (zero-copy pointer passing)
//
// When to use Indirect:
//
//	// Buffer pool with index-based access
//	pool := make([][]byte, 1024)
//	freeList := ring.NewSPSCIndirect(1024)
//
//	for i := range pool {
//	    pool[i] = make([]byte, 4096)
//	    freeList.Enqueue(uintptr(i))
//	}
//
//	// Allocate: get index from free list
//	idx, err := freeList.Dequeue()
//	buf := pool[idx]
//
//	// Free: return index to free list
//	freeList.Enqueue(idx)
//
// When to use Ptr:
//
//	// Zero-copy object passing between goroutines
//	q := ring.NewMPMCPtr(1024)
//
//	msg := &Message{Data: largePayload}
//	q.Enqueue(unsafe.Pointer(msg))
//
//	// Consumer receives the same pointer - no copy
//	ptr, _ := q.Dequeue()
//	msg := (*Message)(ptr)
//
// # Size and Capacity
//
// Capacity rounds up to the next power of 2:
//
//	q := ring.NewMPMC[int](3)     // Actual capacity: 4
//	q := ring.NewMPMC[int](1000)  // Actual capacity: 1024
//
// Minimum capacity is 2 (already a power of 2). Panic if capacity < 2.
//
// Size reports tail-head sampled with relaxed loads of each counter. It
// is an approximate snapshot only: under concurrent mutation it may be
// transiently larger or smaller than any consistent instant's true
// occupancy, and may momentarily exceed the capacity while an
// EnqueueMany reservation is outstanding. Use it for diagnostics or
// coarse pacing, never for correctness.
//
// # Thread Safety
//
// All queue operations are safe within their access pattern constraints:
//
//   - SPSC: one producer goroutine, one consumer goroutine
//   - MPMC: multiple producer and consumer goroutines
//
// Violating these constraints (e.g., two producers on SPSC) causes
// undefined behavior including data corruption and races.
//
// # Error Handling
//
// Queues return [ErrWouldBlock] when operations cannot proceed and
// [ErrDeadlineExceeded] when a deadline wrapper times out. Both are
// control flow signals, not failures.
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !ring.IsWouldBlock(err) {
//	        return err // Unexpected error
//	    }
//	    backoff.Wait()
//	}
//
// For semantic error classification (delegates to iox):
//
//	ring.IsWouldBlock(err)  // true if queue full/empty
//	ring.IsSemantic(err)    // true if control flow signal
//	ring.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// # Race Detection
//
// Go's race detector is not designed for lock-free algorithm
// verification. It tracks explicit synchronization primitives (mutex,
// channels, WaitGroup) but cannot observe happens-before relationships
// established through atomic memory orderings on separate variables.
// The ticket protocol is correct, but the detector may report false
// positives on the non-atomic payload fields. Concurrent tests skip
// themselves when [RaceEnabled] is set, and the examples file is
// excluded via //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions.
package ring
