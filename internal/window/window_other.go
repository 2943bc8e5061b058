//go:build !windows && !linux

package window

func newNativeBackend() (Backend, error) {
	return nil, ErrUnsupported
}
