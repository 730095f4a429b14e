// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/ring"
)

// =============================================================================
// Deadline-Bounded Operations
// =============================================================================

// TestDequeueUntilTimeout checks the timeout path: an empty ring makes
// DequeueUntil return ErrDeadlineExceeded no earlier than the deadline.
func TestDequeueUntilTimeout(t *testing.T) {
	q := ring.NewMPMC[int](8)

	const wait = 10 * time.Millisecond
	start := time.Now()
	_, err := q.DequeueUntil(start.Add(wait))
	elapsed := time.Since(start)

	if !errors.Is(err, ring.ErrDeadlineExceeded) {
		t.Fatalf("DequeueUntil: got %v, want ErrDeadlineExceeded", err)
	}
	if elapsed < wait {
		t.Fatalf("returned after %v, before the %v deadline", elapsed, wait)
	}
	// Scheduler slack is tolerated, runaway spinning is not.
	if elapsed > wait+2*time.Second {
		t.Fatalf("returned after %v, far past the %v deadline", elapsed, wait)
	}
}

// TestEnqueueUntilTimeout checks the symmetric path on a full ring and
// that the rejected element stays usable by the caller.
func TestEnqueueUntilTimeout(t *testing.T) {
	q := ring.NewMPMC[int](2)
	for i := range 2 {
		q.Enqueue(&i)
	}

	v := 42
	start := time.Now()
	err := q.EnqueueUntil(&v, start.Add(10*time.Millisecond))
	if !errors.Is(err, ring.ErrDeadlineExceeded) {
		t.Fatalf("EnqueueUntil: got %v, want ErrDeadlineExceeded", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatal("returned before the deadline")
	}
	if v != 42 {
		t.Fatalf("element clobbered on timeout: %d", v)
	}
}

// TestUntilImmediateSuccess checks that a satisfiable operation returns
// promptly without consuming the deadline.
func TestUntilImmediateSuccess(t *testing.T) {
	q := ring.NewMPMC[int](8)

	v := 7
	if err := q.EnqueueUntil(&v, time.Now().Add(time.Second)); err != nil {
		t.Fatalf("EnqueueUntil: %v", err)
	}
	got, err := q.DequeueUntil(time.Now().Add(time.Second))
	if err != nil || got != 7 {
		t.Fatalf("DequeueUntil: got (%d, %v), want (7, nil)", got, err)
	}
}

// TestUntilCrossGoroutine has a consumer wait on an empty ring while a
// delayed producer publishes; the wait must succeed within deadline.
func TestUntilCrossGoroutine(t *testing.T) {
	if ring.RaceEnabled {
		t.Skip("skip: ticket synchronization is invisible to the race detector")
	}

	q := ring.NewMPMC[int](8)

	go func() {
		time.Sleep(5 * time.Millisecond)
		v := 99
		q.Enqueue(&v)
	}()

	got, err := q.DequeueUntil(time.Now().Add(5 * time.Second))
	if err != nil || got != 99 {
		t.Fatalf("DequeueUntil: got (%d, %v), want (99, nil)", got, err)
	}
}

// TestSPSCUntil exercises the deadline wrappers on the SPSC variant.
func TestSPSCUntil(t *testing.T) {
	q := ring.NewSPSC[int](2)

	if _, err := q.DequeueUntil(time.Now().Add(5 * time.Millisecond)); !errors.Is(err, ring.ErrDeadlineExceeded) {
		t.Fatalf("DequeueUntil on empty: got %v, want ErrDeadlineExceeded", err)
	}

	for i := range 2 {
		q.Enqueue(&i)
	}
	v := 3
	if err := q.EnqueueUntil(&v, time.Now().Add(5*time.Millisecond)); !errors.Is(err, ring.ErrDeadlineExceeded) {
		t.Fatalf("EnqueueUntil on full: got %v, want ErrDeadlineExceeded", err)
	}

	got, err := q.DequeueUntil(time.Now().Add(time.Second))
	if err != nil || got != 0 {
		t.Fatalf("DequeueUntil: got (%d, %v), want (0, nil)", got, err)
	}
}

// TestUntilExpiredDeadline verifies a deadline already in the past
// still permits the immediate attempt before timing out.
func TestUntilExpiredDeadline(t *testing.T) {
	q := ring.NewMPMC[int](8)
	v := 1
	if err := q.EnqueueUntil(&v, time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("EnqueueUntil with past deadline on free ring: %v", err)
	}
	if _, err := q.DequeueUntil(time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("DequeueUntil with past deadline on non-empty ring: %v", err)
	}
	if _, err := q.DequeueUntil(time.Now().Add(-time.Second)); !errors.Is(err, ring.ErrDeadlineExceeded) {
		t.Fatalf("DequeueUntil with past deadline on empty ring: got %v", err)
	}
}
