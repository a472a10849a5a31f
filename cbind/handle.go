package cbind

import (
	"fmt"
	"runtime"
	"unsafe"

	"go.uber.org/zap"
)

// UseAfterFreeError is the panic value raised when a released resource is
// touched. This is a programming error in the binding's caller; failing
// fast here is the alternative to letting the native side corrupt memory.
type UseAfterFreeError struct {
	Kind string // resource kind, e.g. "shim_object" or "arena"
	Op   string // the operation attempted on the dead resource
}

func (e *UseAfterFreeError) Error() string {
	return fmt.Sprintf("cbind: %s on released %s", e.Op, e.Kind)
}

// Handle wraps exactly one native pointer. Ownership is decided at the
// construction site, not by the pointed-to type: the same native type can
// come back owned from a lookup and borrowed from an accessor, so every
// wrap site states which one it got.
//
// Owned handles carry the matching native free function and a finalizer
// backstop. The finalizer exists only to stop a leak when the caller
// forgot Free; it runs at an undefined time on the finalizer goroutine
// and must never be the primary release path.
//
// Handles are not thread-safe, mirroring the native objects they wrap.
type Handle struct {
	ptr      unsafe.Pointer
	kind     string
	free     func(unsafe.Pointer)
	owner    *Handle // non-nil for borrowed views
	borrowed bool
	released bool
}

// Own wraps a pointer returned by an allocating native call. free is the
// library's matching free function and is invoked exactly once, by Free
// or by the finalizer backstop.
func Own(ptr unsafe.Pointer, kind string, free func(unsafe.Pointer)) *Handle {
	if free == nil {
		panic("cbind: Own requires a free function; use Borrow for non-owned pointers")
	}
	h := &Handle{ptr: ptr, kind: kind, free: free}
	runtime.SetFinalizer(h, (*Handle).finalize)
	return h
}

// Borrow wraps an interior pointer owned by another handle (owner may be
// nil for library-static memory). The view is never independently freed;
// it dies with its owner, and Ptr checks the owner's liveness on every
// access.
func Borrow(ptr unsafe.Pointer, kind string, owner *Handle) *Handle {
	return &Handle{ptr: ptr, kind: kind, owner: owner, borrowed: true}
}

// Ptr returns the wrapped native pointer. Panics with *UseAfterFreeError
// once the handle, or the owner of a borrowed view, has been released.
//
// Pair uses of the returned pointer with runtime.KeepAlive(h) when the
// handle itself is otherwise dead to the compiler, or the finalizer
// backstop can fire mid-call.
func (h *Handle) Ptr() unsafe.Pointer {
	if h.released {
		panic(&UseAfterFreeError{Kind: h.kind, Op: "Ptr"})
	}
	if h.owner != nil && h.owner.released {
		panic(&UseAfterFreeError{Kind: h.kind, Op: "Ptr through released owner"})
	}
	return h.ptr
}

// Kind returns the resource kind label given at construction.
func (h *Handle) Kind() string { return h.kind }

// Released reports whether Free has run.
func (h *Handle) Released() bool { return h.released }

// Free releases the native object. Safe to call twice: the second call is
// a no-op. On a borrowed view it only marks the view dead and never
// touches the native side, which still owns the memory.
func (h *Handle) Free() {
	if h.released {
		return
	}
	h.released = true
	if h.borrowed {
		return
	}
	runtime.SetFinalizer(h, nil)
	h.free(h.ptr)
	h.ptr = nil
}

// finalize is the GC backstop for owned handles. It must stay safe to run
// with no arena or callback slot in scope, since it fires on the
// finalizer goroutine.
func (h *Handle) finalize() {
	if h.released {
		return
	}
	logger().Warn("native handle reclaimed by finalizer, missing explicit Free",
		zap.String("kind", h.kind))
	h.released = true
	h.free(h.ptr)
	h.ptr = nil
}
