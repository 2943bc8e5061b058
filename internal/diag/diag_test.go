package diag

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"syscall"
	"testing"
)

func withLastError(t *testing.T, code int) {
	t.Helper()
	prev := LastError
	LastError = func() int { return code }
	t.Cleanup(func() { LastError = prev })
}

func TestWithCodeReportsUserCode(t *testing.T) {
	got := WithCode("disk full", 42).Error()
	if !strings.Contains(got, "disk full") {
		t.Fatalf("missing message in %q", got)
	}
	if !strings.Contains(got, "User error code: 42") {
		t.Fatalf("missing user code in %q", got)
	}
}

func TestNewReportsSystemCode(t *testing.T) {
	withLastError(t, 1410)

	got := New("disk full").Error()
	if !regexp.MustCompile(`^disk full System error code: -?\d+$`).MatchString(got) {
		t.Fatalf("unexpected format %q", got)
	}
	if !strings.HasSuffix(got, "1410") {
		t.Fatalf("expected mocked last error in %q", got)
	}
}

func TestNewWithRealLastError(t *testing.T) {
	got := New("disk full").Error()
	if !regexp.MustCompile(`System error code: -?\d+$`).MatchString(got) {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestUserCodeDoesNotCollideWithSentinel(t *testing.T) {
	// Any integer is a legitimate user code, including ones a magic default
	// would have reserved.
	for _, code := range []int{0, -1, -987654321} {
		e := WithCode("x", code)
		if !e.User {
			t.Fatalf("code %d: expected user code", code)
		}
		want := fmt.Sprintf("x User error code: %d", code)
		if e.Error() != want {
			t.Fatalf("got %q, want %q", e.Error(), want)
		}
	}
}

func TestStreaming(t *testing.T) {
	e := WithCode("bad", 7)
	if got := fmt.Sprint(e); got != "bad User error code: 7" {
		t.Fatalf("fmt.Sprint = %q", got)
	}
	if got := fmt.Sprintf("%v", e); got != e.String() {
		t.Fatalf("%%v = %q, String = %q", got, e.String())
	}
}

func TestUnwrap(t *testing.T) {
	sys := System("could not register window class", 5)
	if !errors.Is(sys, syscall.Errno(5)) {
		t.Fatalf("expected system error to unwrap to errno 5")
	}
	if WithCode("user", 5).Unwrap() != nil {
		t.Fatalf("user codes must not unwrap")
	}
	if System("zero", 0).Unwrap() != nil {
		t.Fatalf("zero code must not unwrap")
	}
}

func TestFromErr(t *testing.T) {
	withLastError(t, 99)

	if got := FromErr("call", syscall.Errno(8)); got.Code != 8 || got.User {
		t.Fatalf("FromErr(errno) = %+v", got)
	}
	if got := FromErr("call", errors.New("opaque")); got.Code != 99 {
		t.Fatalf("FromErr(opaque) = %+v, want last error fallback", got)
	}
	if got := FromErr("call", nil); got.Code != 99 {
		t.Fatalf("FromErr(nil) = %+v, want last error fallback", got)
	}
}
