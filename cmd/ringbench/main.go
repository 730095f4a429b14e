// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command ringbench measures MPMC ring throughput with batch producers
// and consumers. Every produced value is accounted for exactly once;
// the run fails loudly on duplicates or losses.
//
// Usage:
//
//	ringbench -items 1000000 -producers 4 -consumers 4 -capacity 16384 -batch 32 [-pin]
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"

	"code.hybscloud.com/ring"
	"code.hybscloud.com/ring/internal/affinity"
)

func main() {
	var (
		items     = flag.Uint64("items", 1_000_000, "items per producer")
		producers = flag.Int("producers", 2, "number of producer goroutines")
		consumers = flag.Int("consumers", 2, "number of consumer goroutines")
		capacity  = flag.Int("capacity", 1<<14, "queue capacity (rounded up to a power of 2)")
		batch     = flag.Int("batch", 32, "batch size for EnqueueMany/DequeueMany")
		pin       = flag.Bool("pin", false, "pin each worker thread to a CPU")
	)
	flag.Parse()

	if *producers < 1 || *consumers < 1 || *batch < 1 {
		fmt.Fprintln(os.Stderr, "ringbench: producers, consumers and batch must be >= 1")
		os.Exit(2)
	}

	fmt.Printf("Benchmark config:\n")
	fmt.Printf("  items_per_producer = %d\n", *items)
	fmt.Printf("  producers          = %d\n", *producers)
	fmt.Printf("  consumers          = %d\n", *consumers)
	fmt.Printf("  queue_capacity     = %d\n", *capacity)
	fmt.Printf("  batch              = %d\n", *batch)

	q := ring.NewMPMC[uint64](*capacity)
	total := *items * uint64(*producers)

	var (
		begin    atomix.Bool
		consumed atomix.Int64
		seen     = make([]atomix.Int32, total)
		prodWg   sync.WaitGroup
		consWg   sync.WaitGroup
	)

	for p := 0; p < *producers; p++ {
		prodWg.Add(1)
		go func(id int) {
			defer prodWg.Done()
			if *pin {
				if err := affinity.Pin(id); err != nil {
					fmt.Fprintf(os.Stderr, "ringbench: pin producer %d: %v\n", id, err)
				}
			}
			for !begin.Load() {
			}

			base := uint64(id) * *items
			buf := make([]uint64, 0, *batch)
			flush := func() {
				placed := 0
				for placed < len(buf) {
					placed += q.EnqueueMany(buf[placed:])
				}
				buf = buf[:0]
			}
			for i := uint64(0); i < *items; i++ {
				buf = append(buf, base+i)
				if len(buf) == *batch {
					flush()
				}
			}
			flush()
		}(p)
	}

	for c := 0; c < *consumers; c++ {
		consWg.Add(1)
		go func(id int) {
			defer consWg.Done()
			if *pin {
				if err := affinity.Pin(*producers + id); err != nil {
					fmt.Fprintf(os.Stderr, "ringbench: pin consumer %d: %v\n", id, err)
				}
			}
			for !begin.Load() {
			}

			out := make([]uint64, *batch)
			sw := spin.Wait{}
			for {
				got := q.DequeueMany(out)
				if got == 0 {
					if consumed.Load() >= int64(total) {
						return
					}
					sw.Once()
					continue
				}
				for _, v := range out[:got] {
					seen[v].Add(1)
				}
				consumed.Add(int64(got))
			}
		}(c)
	}

	start := time.Now()
	begin.Store(true)
	prodWg.Wait()
	consWg.Wait()
	elapsed := time.Since(start)

	var missing, duplicates uint64
	for i := range seen {
		switch n := seen[i].Load(); {
		case n == 0:
			missing++
		case n > 1:
			duplicates++
		}
	}
	if missing > 0 || duplicates > 0 {
		fmt.Fprintf(os.Stderr, "ringbench: accounting FAILED: missing=%d duplicates=%d\n", missing, duplicates)
		os.Exit(1)
	}

	rate := float64(total) / elapsed.Seconds()
	fmt.Printf("Moved %d items in %v (%.0f items/sec), residual size=%d\n",
		total, elapsed.Round(time.Millisecond), rate, q.Size())
}
