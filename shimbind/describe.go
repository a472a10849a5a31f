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

// DescribeOptions configures Describe. The zero value asks for the plain
// description.
type DescribeOptions struct {
	// IncludeNote appends the object's note when one is set.
	IncludeNote bool
	// Prefix is prepended verbatim to the description.
	Prefix string
}

// Describe renders the object through shimlib's sized-buffer convention:
// the native call fills a {ptr, size} struct that must be disposed with
// its companion call after the bytes are copied out. The options struct
// is version-initialized natively before any field is set, per the ABI's
// compatibility rule.
func (o *Object) Describe(opts *DescribeOptions) (string, error) {
	arena := cbind.NewArena()
	defer arena.Free()

	var copts C.shim_describe_options
	if err := errSource.Check(int(C.shim_describe_options_init(&copts, C.SHIM_DESCRIBE_OPTIONS_VERSION))); err != nil {
		return "", pkgerrors.Wrap(err, "init describe options")
	}
	if opts != nil {
		if opts.IncludeNote {
			copts.include_note = 1
		}
		if opts.Prefix != "" {
			cprefix, err := arena.CString(opts.Prefix)
			if err != nil {
				return "", err
			}
			copts.prefix = (*C.char)(cprefix)
		}
	}

	var cbuf C.shim_buf

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	rc := C.shim_object_describe(&cbuf, (*C.shim_object)(o.h.Ptr()), &copts)
	runtime.KeepAlive(o)
	if err := errSource.Check(int(rc)); err != nil {
		return "", pkgerrors.Wrap(err, "describe object")
	}

	buf := cbind.NewDisposable(unsafe.Pointer(cbuf.ptr), int(cbuf.size), func() {
		C.shim_buf_dispose(&cbuf)
	})
	defer buf.Dispose()

	return buf.String(), nil
}
