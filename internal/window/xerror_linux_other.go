//go:build linux && !amd64 && !arm64

package window

// purego callbacks are unavailable here; Xlib keeps its default handler.
func installErrorHandler() {}
