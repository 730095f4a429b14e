// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package affinity

import "errors"

// ErrUnsupported is returned on platforms without an affinity syscall.
var ErrUnsupported = errors.New("affinity: not supported on this platform")

func setAffinity(cpu int) error {
	return ErrUnsupported
}
