package shimbind

/*
#include "helpers.h"
*/
import "C"
import (
	"context"
	"errors"
	"runtime"

	pkgerrors "github.com/pkg/errors"
)

// ErrStop stops a walk early from inside the callback without reporting
// an error to the caller.
var ErrStop = errors.New("stop walk")

// WalkFunc is invoked once per entry label, synchronously, from inside
// the native walk. Returning an error aborts the walk and propagates the
// error out of Walk; returning ErrStop aborts quietly. A panic in the
// callback is caught at the native boundary and surfaces from Walk as a
// *cbind.CallbackFault.
type WalkFunc func(label string) error

// Walk iterates the object's entries through shimlib's callback
// convention. Walks sharing KindWalk are serialized; ctx bounds only the
// wait for the slot, not the native call, which has no cancellation
// primitive.
func (o *Object) Walk(ctx context.Context, fn WalkFunc) error {
	slot, err := callbacks.Plug(ctx, KindWalk, fn)
	if err != nil {
		return pkgerrors.Wrap(err, "acquire walk slot")
	}
	defer slot.Reset()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	rc := C.shimbind_object_walk((*C.shim_object)(o.h.Ptr()), slot.Payload())
	runtime.KeepAlive(o)

	if rc == C.SHIMLIB_EUSER {
		// The native side stopped because our trampoline asked it to;
		// the recorded fault, not the native code, is the real outcome.
		if fault := slot.Fault(); fault != nil {
			if errors.Is(fault, ErrStop) {
				return nil
			}
			return fault
		}
	}
	return errSource.Check(int(rc))
}
