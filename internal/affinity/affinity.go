// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package affinity pins OS threads to logical CPUs on supported
// platforms. Platform-specific implementations live in separate files
// guarded by build tags.
package affinity

import "runtime"

// Pin locks the calling goroutine to its OS thread and binds that
// thread to the given logical CPU. On unsupported platforms the thread
// stays locked but unpinned and an error is returned.
//
// Callers should pair Pin with a deferred runtime.UnlockOSThread when
// the pinned section ends with the goroutine still running.
func Pin(cpu int) error {
	runtime.LockOSThread()
	return setAffinity(cpu)
}
