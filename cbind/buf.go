package cbind

import (
	"unsafe"
)

// DisposableBuffer models the sized, owner-disposed buffer convention: an
// output struct of {pointer, size} the native call populates, paired with
// a dispose entry point the caller must hit exactly once after copying
// the bytes out. This is a third allocation lifetime, separate from both
// Arena (the caller allocated it) and Handle (it is not an object with a
// free function of its own type).
//
// Typical use in a binding function:
//
//	var cbuf C.lib_buf
//	rc := C.lib_describe(&cbuf, ptr)
//	if err := errSource.Check(int(rc)); err != nil {
//		return "", err
//	}
//	buf := cbind.NewDisposable(unsafe.Pointer(cbuf.ptr), int(cbuf.size), func() {
//		C.lib_buf_dispose(&cbuf)
//	})
//	defer buf.Dispose()
//	return buf.String(), nil
type DisposableBuffer struct {
	ptr      unsafe.Pointer
	size     int
	dispose  func()
	disposed bool
}

// NewDisposable wraps a native-populated sized buffer. dispose is the
// library's companion dispose call and runs exactly once.
func NewDisposable(ptr unsafe.Pointer, size int, dispose func()) *DisposableBuffer {
	return &DisposableBuffer{ptr: ptr, size: size, dispose: dispose}
}

// Len returns the native-reported byte length.
func (b *DisposableBuffer) Len() int { return b.size }

// Bytes copies the native bytes into a fresh Go slice. Binary-safe: the
// copy honors the native length, embedded NUL bytes included.
func (b *DisposableBuffer) Bytes() []byte {
	if b.disposed {
		panic(&UseAfterFreeError{Kind: "disposable buffer", Op: "Bytes"})
	}
	return GoBytes(b.ptr, b.size)
}

// String copies the native bytes into a Go string.
func (b *DisposableBuffer) String() string {
	if b.disposed {
		panic(&UseAfterFreeError{Kind: "disposable buffer", Op: "String"})
	}
	return GoStringN(b.ptr, b.size)
}

// Dispose invokes the native dispose call. Idempotent, defer-friendly.
func (b *DisposableBuffer) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	if b.dispose != nil {
		b.dispose()
	}
}
