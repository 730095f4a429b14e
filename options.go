// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import "unsafe"

// Options configures queue creation and variant selection.
type Options struct {
	// Producer/Consumer constraints (determines queue variant)
	singleProducer bool
	singleConsumer bool

	// Capacity (rounds up to next power of 2)
	capacity int
}

// Builder creates queues with fluent configuration.
//
// The builder selects the SPSC variant when both the single-producer and
// single-consumer constraints are declared, and the MPMC variant
// otherwise. A partially constrained queue (single producer with many
// consumers, or the reverse) is served by MPMC: the ticket protocol is
// safe for any number of claimants on either side.
//
// Example:
//
//	// SPSC queue (optimal for single producer/consumer)
//	q := ring.BuildSPSC[Event](ring.New(1024).SingleProducer().SingleConsumer())
//
//	// MPMC queue (default, general purpose)
//	q := ring.BuildMPMC[Request](ring.New(4096))
//
//	// Indirect queue for pool handles
//	q := ring.New(8192).BuildIndirect()
type Builder struct {
	opts Options
}

// New creates a queue builder with the given capacity.
//
// Capacity rounds up to the next power of 2.
// For example, capacity=4 results in actual capacity=4, capacity=1000
// results in actual capacity=1024.
//
// Panics if capacity < 2.
//
// Example:
//
//	// Create builder, then configure and build
//	b := ring.New(1024)
//	q := ring.BuildSPSC[int](b.SingleProducer().SingleConsumer())
//
//	// Or chain directly
//	q := ring.BuildMPMC[int](ring.New(1024))
func New(capacity int) *Builder {
	if capacity < 2 {
		panic("ring: capacity must be >= 2")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// SingleProducer declares that only one goroutine will enqueue.
func (b *Builder) SingleProducer() *Builder {
	b.opts.singleProducer = true
	return b
}

// SingleConsumer declares that only one goroutine will dequeue.
func (b *Builder) SingleConsumer() *Builder {
	b.opts.singleConsumer = true
	return b
}

// Build creates a Queue[T] with automatic variant selection.
//
// Variant selection:
//
//	SingleProducer + SingleConsumer → SPSC
//	Anything else                   → MPMC
func Build[T any](b *Builder) Queue[T] {
	if b.opts.singleProducer && b.opts.singleConsumer {
		return NewSPSC[T](b.opts.capacity)
	}
	return NewMPMC[T](b.opts.capacity)
}

// BuildSPSC creates an SPSC queue with compile-time type safety.
// Panics if builder is not configured with SingleProducer().SingleConsumer().
func BuildSPSC[T any](b *Builder) *SPSC[T] {
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("ring: BuildSPSC requires SingleProducer().SingleConsumer()")
	}
	return NewSPSC[T](b.opts.capacity)
}

// BuildMPMC creates an MPMC queue with compile-time type safety.
// Panics if builder has any single-side constraints set.
func BuildMPMC[T any](b *Builder) *MPMC[T] {
	if b.opts.singleProducer || b.opts.singleConsumer {
		panic("ring: BuildMPMC requires no constraints")
	}
	return NewMPMC[T](b.opts.capacity)
}

// BuildIndirect creates a QueueIndirect for uintptr values.
func (b *Builder) BuildIndirect() QueueIndirect {
	if b.opts.singleProducer && b.opts.singleConsumer {
		return NewSPSCIndirect(b.opts.capacity)
	}
	return NewMPMCIndirect(b.opts.capacity)
}

// BuildIndirectSPSC creates an SPSC queue for uintptr values.
// Panics if builder is not configured with SingleProducer().SingleConsumer().
func (b *Builder) BuildIndirectSPSC() *SPSCIndirect {
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("ring: BuildIndirectSPSC requires SingleProducer().SingleConsumer()")
	}
	return NewSPSCIndirect(b.opts.capacity)
}

// BuildIndirectMPMC creates an MPMC queue for uintptr values.
// Panics if builder has any single-side constraints set.
func (b *Builder) BuildIndirectMPMC() *MPMCIndirect {
	if b.opts.singleProducer || b.opts.singleConsumer {
		panic("ring: BuildIndirectMPMC requires no constraints")
	}
	return NewMPMCIndirect(b.opts.capacity)
}

// BuildPtr creates a QueuePtr for unsafe.Pointer values.
func (b *Builder) BuildPtr() QueuePtr {
	if b.opts.singleProducer && b.opts.singleConsumer {
		return NewSPSCPtr(b.opts.capacity)
	}
	return NewMPMCPtr(b.opts.capacity)
}

// BuildPtrSPSC creates an SPSC queue for unsafe.Pointer values.
// Panics if builder is not configured with SingleProducer().SingleConsumer().
func (b *Builder) BuildPtrSPSC() *SPSCPtr {
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("ring: BuildPtrSPSC requires SingleProducer().SingleConsumer()")
	}
	return NewSPSCPtr(b.opts.capacity)
}

// BuildPtrMPMC creates an MPMC queue for unsafe.Pointer values.
// Panics if builder has any single-side constraints set.
func (b *Builder) BuildPtrMPMC() *MPMCPtr {
	if b.opts.singleProducer || b.opts.singleConsumer {
		panic("ring: BuildPtrMPMC requires no constraints")
	}
	return NewMPMCPtr(b.opts.capacity)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte

// padPtr is padding to fill cache line after pointer-sized field.
type padPtr [64 - ptrSize]byte
