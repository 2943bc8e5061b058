//go:build linux && (amd64 || arm64)

package window

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/tinyrange/piko/internal/diag"
)

type xErrorEvent struct {
	Type        int32
	Display     uintptr
	ResourceID  uintptr
	Serial      uint64
	ErrorCode   uint8
	RequestCode uint8
	MinorCode   uint8
}

var errorHandlerOnce sync.Once

// installErrorHandler replaces Xlib's default handler, which exits the
// process, with one that records the error code as the last error.
func installErrorHandler() {
	errorHandlerOnce.Do(func() {
		cb := purego.NewCallback(func(display, event uintptr) uintptr {
			ev := (*xErrorEvent)(unsafe.Pointer(event))
			diag.SetLastError(int(ev.ErrorCode))
			return 0
		})
		xSetErrorHandler(cb)
	})
}
