package window

import "testing"

func TestKeyFromVirtualKey(t *testing.T) {
	tests := []struct {
		vk   uint32
		want Key
	}{
		{'A', KeyA},
		{'Q', KeyQ},
		{'Z', KeyZ},
		{'0', Key0},
		{'9', Key9},
		{0x70, KeyF1},
		{0x71, KeyF2},
		{0x7B, KeyF12},
		{0x1B, KeyEscape},
		{0x0D, KeyEnter},
		{0x20, KeySpace},
		{0x08, KeyBackspace},
		{0x09, KeyTab},
		{0x25, KeyLeft},
		{0x28, KeyDown},
		{0x7C, KeyUnknown},
		{0x10, KeyUnknown},
	}
	for _, tt := range tests {
		if got := keyFromVirtualKey(tt.vk); got != tt.want {
			t.Errorf("keyFromVirtualKey(%#x) = %v, want %v", tt.vk, got, tt.want)
		}
	}
}

func TestKeyFromKeysym(t *testing.T) {
	tests := []struct {
		sym  uint64
		want Key
	}{
		{'a', KeyA},
		{'A', KeyA},
		{'z', KeyZ},
		{'5', Key5},
		{0xffbe, KeyF1},
		{0xffc9, KeyF12},
		{0xff1b, KeyEscape},
		{0xff0d, KeyEnter},
		{' ', KeySpace},
		{0xff52, KeyUp},
		{0xff53, KeyRight},
		{0xffe1, KeyUnknown},
	}
	for _, tt := range tests {
		if got := keyFromKeysym(tt.sym); got != tt.want {
			t.Errorf("keyFromKeysym(%#x) = %v, want %v", tt.sym, got, tt.want)
		}
	}
}

func TestTranslateMessage(t *testing.T) {
	if ev := translateMessage(wmDestroy, 0, 0); ev.Kind != EventDestroy {
		t.Errorf("WM_DESTROY -> %v", ev.Kind)
	}
	if ev := translateMessage(wmClose, 0, 0); ev.Kind != EventCloseRequest {
		t.Errorf("WM_CLOSE -> %v", ev.Kind)
	}

	ev := translateMessage(wmKeyDown, 0x70, 0x003b0001)
	if ev.Kind != EventKeyDown || ev.Key != KeyF1 {
		t.Errorf("WM_KEYDOWN(VK_F1) -> %v %v", ev.Kind, ev.Key)
	}
	if ev.Code != wmKeyDown || ev.WParam != 0x70 || ev.LParam != 0x003b0001 {
		t.Errorf("raw message not preserved: %+v", ev)
	}

	if ev := translateMessage(0x000F, 0, 0); ev.Kind != EventOther {
		t.Errorf("WM_PAINT -> %v", ev.Kind)
	}
}

func TestTranslateXEvent(t *testing.T) {
	if ev := translateXEvent(xDestroyNotify, 0, false); ev.Kind != EventDestroy {
		t.Errorf("DestroyNotify -> %v", ev.Kind)
	}

	ev := translateXEvent(xKeyPress, 0xff1b, false)
	if ev.Kind != EventKeyDown || ev.Key != KeyEscape || ev.WParam != 0xff1b {
		t.Errorf("KeyPress(Escape) -> %+v", ev)
	}

	if ev := translateXEvent(xClientMessage, 0, true); ev.Kind != EventCloseRequest {
		t.Errorf("WM_DELETE_WINDOW -> %v", ev.Kind)
	}
	if ev := translateXEvent(xClientMessage, 0, false); ev.Kind != EventOther {
		t.Errorf("other client message -> %v", ev.Kind)
	}
	if ev := translateXEvent(12, 0, false); ev.Kind != EventOther || ev.Code != 12 {
		t.Errorf("Expose -> %+v", ev)
	}
}

func TestKeyString(t *testing.T) {
	tests := map[Key]string{
		KeyA:       "A",
		Key7:       "7",
		KeyF1:      "F1",
		KeyF12:     "F12",
		KeyUnknown: "Unknown",
	}
	for key, want := range tests {
		if got := key.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(key), got, want)
		}
	}
}
