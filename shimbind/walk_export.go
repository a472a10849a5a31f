package shimbind

/*
#include "shimlib.h"
*/
import "C"
import (
	"unsafe"

	"github.com/cbind-io/cbind-go/cbind"
)

// shimbindWalkTrampoline is the managed half of the walk trampoline. The
// C half (helpers.c) forwards every shim_walk_cb invocation here with the
// opaque payload, which resolves back to the plugged slot. Errors and
// panics never cross into the native frames below us; they are recorded
// in the slot and the native walk is told to stop.
//
//export shimbindWalkTrampoline
func shimbindWalkTrampoline(label *C.char, payload unsafe.Pointer) C.int {
	slot := cbind.Dispatch(payload)
	fn := slot.Closure().(WalkFunc)
	name := C.GoString(label)
	if slot.Invoke(func() error { return fn(name) }) {
		return 1
	}
	return 0
}
