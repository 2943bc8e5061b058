//go:build windows

package diag

import "golang.org/x/sys/windows"

var procSetLastError = windows.NewLazySystemDLL("kernel32.dll").NewProc("SetLastError")

func lastError() int {
	if errno, ok := windows.GetLastError().(windows.Errno); ok {
		return int(errno)
	}
	return 0
}

// SetLastError overwrites the thread's last error code.
func SetLastError(code int) {
	procSetLastError.Call(uintptr(code))
}
