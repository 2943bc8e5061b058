package window

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

// fakeBackend mimics the Win32 contract: Destroy delivers the destroy
// notification synchronously, and unconsumed close requests are turned into a
// Destroy by default handling.
type fakeBackend struct {
	d   Dispatcher
	log *slog.Logger

	screenW, screenH int

	failRegister error
	failCreate   error
	failUnreg    error

	classes map[string]bool
	alive   map[Handle]bool
	titles  map[Handle]string
	next    Handle

	registerCalls   int
	unregisterCalls int
	createCalls     int
	showCalls       int
	destroyCalls    int
	enterCalls      int
	leaveCalls      int
	defaultCalls    int
	lastUserData    uintptr
	lastCreateW     int
	lastCreateH     int
	lastEnter       [3]int
	lastLeave       [2]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		screenW: 1920,
		screenH: 1080,
		classes: make(map[string]bool),
		alive:   make(map[Handle]bool),
		titles:  make(map[Handle]string),
		next:    0x100,
	}
}

func (f *fakeBackend) Bind(d Dispatcher)          { f.d = d }
func (f *fakeBackend) SetLogger(log *slog.Logger) { f.log = log }

func (f *fakeBackend) ScreenSize() (int, int) { return f.screenW, f.screenH }

func (f *fakeBackend) RegisterClass(name string) error {
	f.registerCalls++
	if f.failRegister != nil {
		return f.failRegister
	}
	if f.classes[name] {
		return errors.New("class already exists")
	}
	f.classes[name] = true
	return nil
}

func (f *fakeBackend) UnregisterClass(name string) error {
	f.unregisterCalls++
	if f.failUnreg != nil {
		return f.failUnreg
	}
	if !f.classes[name] {
		return errors.New("class does not exist")
	}
	delete(f.classes, name)
	return nil
}

func (f *fakeBackend) CreateWindow(class, title string, width, height int, userData uintptr) (Handle, error) {
	f.createCalls++
	if f.failCreate != nil {
		return 0, f.failCreate
	}
	if !f.classes[class] {
		return 0, errors.New("unknown class")
	}
	f.next++
	h := f.next
	f.alive[h] = true
	f.titles[h] = title
	f.lastUserData = userData
	f.lastCreateW, f.lastCreateH = width, height

	// Creation-time messages arrive before the caller can register h.
	f.deliver(h, Event{Kind: EventOther, Code: 0x0081})
	return h, nil
}

func (f *fakeBackend) Show(h Handle) { f.showCalls++ }

func (f *fakeBackend) Destroy(h Handle) {
	f.destroyCalls++
	if !f.alive[h] {
		return
	}
	f.alive[h] = false
	f.deliver(h, Event{Kind: EventDestroy, Code: wmDestroy})
}

func (f *fakeBackend) SetTitle(h Handle, title string) { f.titles[h] = title }

func (f *fakeBackend) ClientSize(h Handle) (int, int) { return 640, 480 }

func (f *fakeBackend) EnterFullscreen(h Handle, width, height, depth int) {
	f.enterCalls++
	f.lastEnter = [3]int{width, height, depth}
}

func (f *fakeBackend) LeaveFullscreen(h Handle, width, height int) {
	f.leaveCalls++
	f.lastLeave = [2]int{width, height}
}

func (f *fakeBackend) Pump() bool { return true }

func (f *fakeBackend) Close() error { return nil }

// deliver routes ev the way a native window procedure would.
func (f *fakeBackend) deliver(h Handle, ev Event) bool {
	if f.d != nil && f.d.Dispatch(h, ev) {
		return true
	}
	f.defaultCalls++
	if ev.Kind == EventCloseRequest {
		f.Destroy(h)
	}
	return false
}

func (f *fakeBackend) modeSwitches() int {
	return f.enterCalls + f.leaveCalls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSystem(t *testing.T) (*System, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend()
	sys := NewSystem(fb, WithLogger(quietLogger()))
	t.Cleanup(sys.Close)
	return sys, fb
}

func newTestWindow(t *testing.T, sys *System, opts ...Option) *Window {
	t.Helper()
	w, err := New(sys, "test", opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}
