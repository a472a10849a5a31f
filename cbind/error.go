package cbind

import (
	"fmt"
	"unsafe"
)

// NativeError is a failure reported by the wrapped library: a negative
// return code plus the last-error text captured at the moment of failure.
type NativeError struct {
	Code    int
	Message string
}

func (e *NativeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (native code %d)", e.Message, e.Code)
	}
	return fmt.Sprintf("native call failed (code %d)", e.Code)
}

// ErrorSource binds the wrapped library's last-error fetch. The fetch
// function must read the library's thread-local error state and return a
// fully copied Go string; it is called immediately after a failing return
// code, before any other native call can overwrite the state. Because the
// state is thread-local, callers must keep the failing call and the Check
// on the same OS thread (runtime.LockOSThread around the pair).
type ErrorSource struct {
	lastError func() string
}

// NewErrorSource returns an ErrorSource backed by fetch. A nil fetch is
// allowed; errors then carry only the code.
func NewErrorSource(fetch func() string) ErrorSource {
	return ErrorSource{lastError: fetch}
}

// Check translates an integer return code. Negative codes become a
// *NativeError carrying the code and the captured last-error message.
// Zero and positive codes return nil: many native calls use 1 as a
// meaningful boolean true, so "nonzero is failure" would be wrong. Call
// sites that need the positive value read it from the code themselves.
func (s ErrorSource) Check(code int) error {
	if code >= 0 {
		return nil
	}
	return &NativeError{Code: code, Message: s.fetch()}
}

// CheckPtr translates the null-sentinel call shape: functions that return
// a pointer directly and signal failure with NULL instead of a code. The
// what argument names the operation for the error message when the
// library left no last-error text.
func (s ErrorSource) CheckPtr(ptr unsafe.Pointer, what string) (unsafe.Pointer, error) {
	if ptr != nil {
		return ptr, nil
	}
	msg := s.fetch()
	if msg == "" {
		msg = what + " returned null"
	}
	return nil, &NativeError{Code: -1, Message: msg}
}

func (s ErrorSource) fetch() string {
	if s.lastError == nil {
		return ""
	}
	return s.lastError()
}
