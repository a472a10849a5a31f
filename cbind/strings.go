package cbind

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"
import (
	"fmt"
	"strings"
	"unsafe"
)

// MarshalError reports input that cannot be encoded for the native call.
// It is a contract violation by the caller, not a native failure.
type MarshalError struct {
	Reason string
}

func (e *MarshalError) Error() string {
	return "cbind: cannot marshal: " + e.Reason
}

// CString encodes s as a NUL-terminated C string in arena memory. Strings
// with embedded NUL bytes are rejected: the native side would silently
// truncate them, so this is a *MarshalError instead. Use CBytes for
// binary payloads.
func (a *Arena) CString(s string) (unsafe.Pointer, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return nil, &MarshalError{Reason: fmt.Sprintf("embedded NUL at byte %d in C string argument", i)}
	}
	a.ensureLive("CString")
	return a.track(unsafe.Pointer(C.CString(s))), nil
}

// CBytes copies b into arena memory with no terminator. The native side
// must receive the length separately; embedded NUL bytes are preserved.
func (a *Arena) CBytes(b []byte) unsafe.Pointer {
	a.ensureLive("CBytes")
	if len(b) == 0 {
		return a.Malloc(0)
	}
	return a.track(C.CBytes(b))
}

// GoString decodes a NUL-terminated native string into a fully owned Go
// string. The result never aliases native memory, so it stays valid after
// the handle owning ptr is freed. Stops at the first NUL; byte sequences
// that may embed NUL need GoStringN with an explicit length.
func GoString(ptr unsafe.Pointer) string {
	if ptr == nil {
		return ""
	}
	return C.GoString((*C.char)(ptr))
}

// GoStringN copies exactly length bytes from ptr into a Go string,
// regardless of embedded NUL bytes. This is the binary-safe decode for
// buffers the native side sizes explicitly.
func GoStringN(ptr unsafe.Pointer, length int) string {
	return string(GoBytes(ptr, length))
}

// GoBytes copies exactly length bytes from ptr into a fresh Go slice.
func GoBytes(ptr unsafe.Pointer, length int) []byte {
	if ptr == nil || length == 0 {
		return nil
	}
	return C.GoBytes(ptr, C.int(length))
}
