// Package shimlib is a miniature handle-based C library compiled by cgo.
// It reproduces the ABI conventions of the real libraries this module
// binds — allocating calls with out-parameters, borrowed interior
// pointers, thread-local last-error text, versioned options structs,
// sized owner-disposed buffers, and synchronous callback dispatch — so
// the binding protocol can be exercised hermetically, with nothing but a
// C compiler.
package shimlib

/*
#include "shimlib.h"
*/
import "C"

// LastError copies the thread-local last-error text into a Go string.
// Call it immediately after a failing shimlib return, on the same OS
// thread, before any other shimlib call can overwrite it.
func LastError() string {
	return C.GoString(C.shim_last_error())
}

// LiveObjects reports the number of objects allocated and not yet freed.
// Leak assertions in tests compare it before and after a scenario.
func LiveObjects() int {
	return int(C.shim_live_objects())
}
