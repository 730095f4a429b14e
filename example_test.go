// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// This file contains examples that use atomix concurrency primitives.
// These trigger false positives with Go's race detector because atomix
// atomic operations appear as regular memory accesses to the detector.
// The examples are correct; they're excluded from race testing.

package ring_test

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/ring"
)

// ExampleNewSPSC demonstrates a basic SPSC queue for pipeline stages.
func ExampleNewSPSC() {
	// Create a single-producer single-consumer queue
	q := ring.NewSPSC[int](8)

	// Producer sends 5 values
	for i := 1; i <= 5; i++ {
		v := i * 10
		q.Enqueue(&v)
	}

	// Consumer receives values
	for range 5 {
		v, _ := q.Dequeue()
		fmt.Println(v)
	}

	// Output:
	// 10
	// 20
	// 30
	// 40
	// 50
}

// ExampleNewMPMC demonstrates a multi-producer multi-consumer queue.
func ExampleNewMPMC() {
	q := ring.NewMPMC[string](16)

	// Producers
	var wg sync.WaitGroup
	for p := range 3 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			msg := fmt.Sprintf("msg from producer %d", id)
			for q.Enqueue(&msg) != nil {
				backoff.Wait()
			}
		}(p)
	}

	// Wait for producers then consume
	wg.Wait()

	var msgs []string
	for range 3 {
		msg, _ := q.Dequeue()
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	for _, m := range msgs {
		fmt.Println(m)
	}

	// Output:
	// msg from producer 0
	// msg from producer 1
	// msg from producer 2
}

// ExampleMPMC_EnqueueMany demonstrates batch transfer: the producer
// commits whole blocks, the consumer drains whatever is ready.
func ExampleMPMC_EnqueueMany() {
	q := ring.NewMPMC[int](64)

	q.EnqueueMany([]int{1, 2, 3, 4, 5})

	out := make([]int, 8)
	n := q.DequeueMany(out)
	fmt.Println(out[:n])

	// DequeueMany never waits: an empty ring yields 0.
	fmt.Println(q.DequeueMany(out))

	// Output:
	// [1 2 3 4 5]
	// 0
}

// ExampleMPMC_DequeueUntil demonstrates a bounded wait on an empty
// queue.
func ExampleMPMC_DequeueUntil() {
	q := ring.NewMPMC[int](8)

	go func() {
		v := 42
		q.Enqueue(&v)
	}()

	v, err := q.DequeueUntil(time.Now().Add(time.Second))
	fmt.Println(v, err)

	// Output:
	// 42 <nil>
}

// ExampleBuild demonstrates builder-based variant selection.
func ExampleBuild() {
	// SPSC when both sides are single
	spsc := ring.Build[int](ring.New(1024).SingleProducer().SingleConsumer())

	// MPMC otherwise
	mpmc := ring.Build[int](ring.New(1024))

	fmt.Println(spsc.Cap(), mpmc.Cap())

	// Output:
	// 1024 1024
}
