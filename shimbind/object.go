package shimbind

/*
#include "shimlib.h"
*/
import "C"
import (
	"runtime"
	"unsafe"

	pkgerrors "github.com/pkg/errors"

	"github.com/cbind-io/cbind-go/cbind"
)

// Object wraps one shim_object handle. Free it explicitly when done; the
// finalizer backstop only covers forgotten handles and fires at an
// undefined time.
type Object struct {
	h *cbind.Handle
}

func freeObject(p unsafe.Pointer) {
	C.shim_object_free((*C.shim_object)(p))
}

// Open creates a new object with nentries generated entries. The name
// must be a valid C string; shimlib rejects an empty one.
func Open(name string, nentries int) (*Object, error) {
	if nentries < 0 {
		return nil, &cbind.MarshalError{Reason: "negative entry count"}
	}

	arena := cbind.NewArena()
	defer arena.Free()

	cname, err := arena.CString(name)
	if err != nil {
		return nil, err
	}

	var ptr *C.shim_object

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	rc := C.shim_object_new(&ptr, (*C.char)(cname), C.size_t(nentries))
	if err := errSource.Check(int(rc)); err != nil {
		return nil, pkgerrors.Wrapf(err, "open object %q", name)
	}

	return &Object{h: cbind.Own(unsafe.Pointer(ptr), "shim_object", freeObject)}, nil
}

// Name returns the object's name. The native accessor hands back a
// borrowed pointer into the object, so the result is copied before it is
// returned.
func (o *Object) Name() string {
	s := cbind.GoString(unsafe.Pointer(C.shim_object_name((*C.shim_object)(o.h.Ptr()))))
	runtime.KeepAlive(o)
	return s
}

// Note returns the note set by SetNote, or "" when none was set.
func (o *Object) Note() string {
	s := cbind.GoString(unsafe.Pointer(C.shim_object_note((*C.shim_object)(o.h.Ptr()))))
	runtime.KeepAlive(o)
	return s
}

// SetNote attaches a note to the object. Notes are C strings; an embedded
// NUL is a *cbind.MarshalError, not a silent truncation.
func (o *Object) SetNote(note string) error {
	arena := cbind.NewArena()
	defer arena.Free()

	cnote, err := arena.CString(note)
	if err != nil {
		return err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	rc := C.shim_object_set_note((*C.shim_object)(o.h.Ptr()), (*C.char)(cnote))
	runtime.KeepAlive(o)
	return errSource.Check(int(rc))
}

// EntryCount returns the number of entries.
func (o *Object) EntryCount() int {
	n := int(C.shim_object_entry_count((*C.shim_object)(o.h.Ptr())))
	runtime.KeepAlive(o)
	return n
}

// Entry is a borrowed view into an object's entry table. It is never
// freed on its own and becomes unusable the moment the owning Object is
// freed.
type Entry struct {
	h *cbind.Handle
}

// Entry looks up the entry at idx. shimlib returns an interior pointer it
// keeps ownership of, so the wrapper is a borrow tied to o's handle.
func (o *Object) Entry(idx int) (*Entry, error) {
	var ptr *C.shim_entry

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	rc := C.shim_object_entry(&ptr, (*C.shim_object)(o.h.Ptr()), C.size_t(idx))
	runtime.KeepAlive(o)
	if err := errSource.Check(int(rc)); err != nil {
		return nil, pkgerrors.Wrapf(err, "entry %d", idx)
	}

	return &Entry{h: cbind.Borrow(unsafe.Pointer(ptr), "shim_entry", o.h)}, nil
}

// Label returns the entry's label, copied out of native memory.
func (e *Entry) Label() string {
	ent := (*C.shim_entry)(e.h.Ptr())
	s := cbind.GoString(unsafe.Pointer(ent.label))
	runtime.KeepAlive(e)
	return s
}

// Index returns the entry's position in its object.
func (e *Entry) Index() int {
	ent := (*C.shim_entry)(e.h.Ptr())
	n := int(ent.index)
	runtime.KeepAlive(e)
	return n
}

// Fail makes shimlib fail with the given last-error text and returns the
// resulting *cbind.NativeError. It exists so consumers and tests can
// exercise the full failure path against the real native error state.
func (o *Object) Fail(message string) error {
	arena := cbind.NewArena()
	defer arena.Free()

	cmsg, err := arena.CString(message)
	if err != nil {
		return err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	rc := C.shim_object_fail((*C.shim_object)(o.h.Ptr()), (*C.char)(cmsg))
	runtime.KeepAlive(o)
	return errSource.Check(int(rc))
}

// Free releases the native object. Idempotent; any later use of the
// object or of entries borrowed from it panics with *cbind.UseAfterFreeError.
func (o *Object) Free() {
	o.h.Free()
}
