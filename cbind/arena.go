package cbind

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"
import (
	"unsafe"
)

// Arena owns the transient native memory of a single binding call:
// argument strings, small option structs, out-parameter slots. Open one at
// the top of the call, defer Free, and every allocation is released on
// every exit path, panics included.
//
// An arena belongs to one call frame. Pointers obtained from it must not
// be returned past the function that opened it, and the arena itself must
// never be shared across goroutines. Nesting is fine as long as an inner
// arena is freed before its enclosing frame returns.
type Arena struct {
	allocs []unsafe.Pointer
	freed  bool
}

// NewArena opens an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Malloc returns size bytes of uninitialized native memory valid until
// Free. Allocation failure aborts the process (cgo's malloc wrapper
// crashes on exhaustion), matching the wrapped library's own assumption
// that allocation always succeeds.
func (a *Arena) Malloc(size int) unsafe.Pointer {
	a.ensureLive("Malloc")
	p := C.malloc(C.size_t(size))
	a.allocs = append(a.allocs, p)
	return p
}

// Calloc returns size bytes of zeroed native memory valid until Free.
func (a *Arena) Calloc(size int) unsafe.Pointer {
	p := a.Malloc(size)
	C.memset(p, 0, C.size_t(size))
	return p
}

// OutPtr returns a zeroed pointer-sized slot for the `T **out` parameter
// of an allocating native call. Read the written pointer back with Deref
// before the arena closes.
func (a *Arena) OutPtr() unsafe.Pointer {
	return a.Calloc(int(unsafe.Sizeof(uintptr(0))))
}

// Deref reads the native pointer an allocating call wrote through an
// OutPtr slot.
func Deref(slot unsafe.Pointer) unsafe.Pointer {
	return *(*unsafe.Pointer)(slot)
}

// Live reports the number of allocations not yet released. After Free it
// is always zero; tests use it to prove alloc/free parity on both the
// success and the panic path.
func (a *Arena) Live() int {
	if a.freed {
		return 0
	}
	return len(a.allocs)
}

// Free releases every allocation made through the arena, newest first.
// Idempotent, so it is safe both deferred and called explicitly before an
// early return.
func (a *Arena) Free() {
	if a.freed {
		return
	}
	a.freed = true
	for i := len(a.allocs) - 1; i >= 0; i-- {
		C.free(a.allocs[i])
	}
	a.allocs = nil
}

func (a *Arena) ensureLive(op string) {
	if a.freed {
		panic(&UseAfterFreeError{Kind: "arena", Op: op})
	}
}

// track adopts memory that a marshaling helper already allocated on the C
// heap, so it is released with the rest of the arena.
func (a *Arena) track(p unsafe.Pointer) unsafe.Pointer {
	a.ensureLive("track")
	a.allocs = append(a.allocs, p)
	return p
}
