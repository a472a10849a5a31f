// Package shimbind binds the shimlib C library through the cbind
// protocol. Each exported function is one binding entry point: it opens
// an arena for transient native memory, marshals its arguments, makes the
// native call on a locked OS thread, translates the return code, wraps
// any returned pointer, and tears everything down on every exit path.
//
// The package doubles as the reference consumer of cbind: external
// bindings to real libraries follow the same composition, call for call.
package shimbind

/*
#cgo CFLAGS: -I${SRCDIR}/../internal/shimlib
#include "shimlib.h"
*/
import "C"
import (
	"github.com/cbind-io/cbind-go/cbind"
	"github.com/cbind-io/cbind-go/internal/shimlib"
)

// Callback kinds. Walk is the only callback-bearing operation shimlib
// has; walks are serialized process-wide because the native ABI gives
// them a single shared payload slot.
const KindWalk = cbind.Kind("shimlib.walk")

var (
	// errSource reads shimlib's thread-local last-error text. Every
	// Check must run on the OS thread that made the failing call.
	errSource = cbind.NewErrorSource(shimlib.LastError)

	// callbacks serializes callback-bearing operations per kind.
	callbacks = cbind.NewRegistry()
)
