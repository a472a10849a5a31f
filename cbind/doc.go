// Package cbind implements the calling protocol shared by Go bindings to
// handle-based C libraries: libraries whose functions hand back opaque
// pointers the caller must free, report failure through negative return
// codes plus thread-local last-error text, and invoke caller-supplied
// function pointers during a call.
//
// The package deliberately knows nothing about any particular library. A
// binding package composes the pieces per native entry point:
//
//	arena := cbind.NewArena()
//	defer arena.Free()
//	cname, err := arena.CString(name)
//	...
//	rc := C.lib_thing_new(&ptr, (*C.char)(cname))
//	if err := errSource.Check(int(rc)); err != nil {
//		return nil, err
//	}
//	h := cbind.Own(unsafe.Pointer(ptr), "lib_thing", freeThing)
//
// Four allocation lifetimes are modeled, and they do not mix:
//
//   - Arena: transient native memory valid for one call frame.
//   - Handle: a long-lived native object with an explicit free function,
//     plus a finalizer backstop.
//   - DisposableBuffer: a sized buffer the library fills and pairs with its
//     own dispose entry point.
//   - Borrowed pointers: interior pointers owned by some other handle,
//     never freed through this layer.
//
// Native handles are not thread-safe; use a handle only on the goroutine
// that created it unless the wrapped library documents otherwise. Arenas
// are frame-scoped and must never be shared across goroutines or retained
// past the call that opened them.
package cbind
