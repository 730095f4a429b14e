// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"runtime"

	"code.hybscloud.com/spin"
)

// spinLimit is how many pause-hinted spins a waiter performs before
// yielding the scheduler and starting over.
const spinLimit = 200

// waiter paces the bounded waits in this package: spin with a CPU pause
// hint for up to spinLimit iterations, then yield the scheduler and
// reset. Used by the batch-enqueue slot wait and the deadline wrappers.
type waiter struct {
	sw    spin.Wait
	spins int
}

func (w *waiter) once() {
	w.spins++
	if w.spins <= spinLimit {
		w.sw.Once()
		return
	}
	runtime.Gosched()
	w.spins = 0
	w.sw = spin.Wait{}
}
