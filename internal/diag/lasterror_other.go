//go:build !windows

package diag

import "sync/atomic"

// Non-Windows platforms have no per-thread error slot, so backends record the
// codes they observe (X protocol errors on Linux) here.
var recorded atomic.Int64

func lastError() int {
	return int(recorded.Load())
}

// SetLastError records code as the most recent platform error.
func SetLastError(code int) {
	recorded.Store(int64(code))
}
