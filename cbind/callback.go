package cbind

/*
#include <stdlib.h>
*/
import "C"
import (
	"context"
	"fmt"
	"runtime/cgo"
	"sync"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Kind names one callback shape of the wrapped library ("walk",
// "progress", "credentials", ...). Operations sharing a kind are
// serialized: the ABI gives the native side one payload slot per call,
// and two in-flight calls of the same kind would collide in it.
type Kind string

// CallbackFault records a panic that escaped a managed callback while
// native frames were on the stack. The trampoline swallows it at the
// boundary (a panic crossing into C is undefined behavior), asks the
// native call to stop early, and hands it back through Slot.Fault once
// the native call has returned.
type CallbackFault struct {
	Kind      Kind
	Recovered any
}

func (e *CallbackFault) Error() string {
	return fmt.Sprintf("cbind: callback %q panicked: %v", e.Kind, e.Recovered)
}

// Registry hands out single-flight callback slots per kind. A zero
// Registry is not usable; create one with NewRegistry and share it across
// the binding functions of one library.
type Registry struct {
	mu    sync.Mutex
	kinds map[Kind]*semaphore.Weighted
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[Kind]*semaphore.Weighted)}
}

func (r *Registry) sem(kind Kind) *semaphore.Weighted {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.kinds[kind]
	if !ok {
		s = semaphore.NewWeighted(1)
		r.kinds[kind] = s
	}
	return s
}

// Plug installs closure as the in-flight callback for kind and returns
// the slot for the duration of one native call. It blocks while another
// call of the same kind is in flight; ctx bounds only that wait, never
// the native call itself (the ABI has no cancellation primitive).
//
// The caller must Reset the slot after the native call returns, success
// or failure — defer it next to the Plug.
func (r *Registry) Plug(ctx context.Context, kind Kind, closure any) (*Slot, error) {
	sem := r.sem(kind)
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	s := &Slot{kind: kind, sem: sem, closure: closure}
	s.self = cgo.NewHandle(s)

	// The payload lives on the C heap: the native side stores it in its
	// callback struct, and Go pointers must not be visible there.
	s.payload = C.malloc(C.size_t(unsafe.Sizeof(uintptr(0))))
	*(*uintptr)(s.payload) = uintptr(s.self)

	logger().Debug("callback slot plugged", zap.String("kind", string(kind)))
	return s, nil
}

// Slot is one plugged callback: the managed closure, the C-heap payload
// pointer the native call carries, and the fault recorded if the closure
// panicked mid-call.
type Slot struct {
	kind    Kind
	sem     *semaphore.Weighted
	closure any
	self    cgo.Handle
	payload unsafe.Pointer
	fault   error
	reset   bool
}

// Payload returns the opaque pointer to hand the native call as its
// `void *payload`. Valid only until Reset.
func (s *Slot) Payload() unsafe.Pointer {
	if s.reset {
		panic(&UseAfterFreeError{Kind: "callback slot", Op: "Payload"})
	}
	return s.payload
}

// Dispatch recovers the slot inside an exported trampoline from the
// payload pointer the native side passed back.
func Dispatch(payload unsafe.Pointer) *Slot {
	return cgo.Handle(*(*uintptr)(payload)).Value().(*Slot)
}

// Closure returns the plugged closure; the trampoline type-asserts it to
// the concrete callback signature.
func (s *Slot) Closure() any {
	if s.reset {
		panic(&UseAfterFreeError{Kind: "callback slot", Op: "Closure"})
	}
	return s.closure
}

// Invoke runs one trampoline invocation. A panic inside fn is caught at
// the boundary and recorded as a *CallbackFault; a returned error is
// recorded as-is. Either way Invoke reports abort=true, telling the
// trampoline to return the library's early-termination sentinel. Once a
// fault is recorded, later invocations abort immediately without calling
// fn, so a native loop that ignores the sentinel still cannot re-enter a
// failed closure.
func (s *Slot) Invoke(fn func() error) (abort bool) {
	if s.fault != nil {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			s.fault = &CallbackFault{Kind: s.kind, Recovered: r}
			abort = true
		}
	}()
	if err := fn(); err != nil {
		s.fault = err
		return true
	}
	return false
}

// Fault returns the error or panic recorded during the native call, nil
// if the closure completed normally. Read it after the native call
// returns; a native early-termination code paired with a non-nil Fault
// means the closure, not the library, ended the operation.
func (s *Slot) Fault() error {
	return s.fault
}

// Reset empties the slot: frees the payload, drops the closure reference,
// and releases the kind for the next caller. Unconditional and
// idempotent; run it deferred so it covers every exit path.
func (s *Slot) Reset() {
	if s.reset {
		return
	}
	s.reset = true
	C.free(s.payload)
	s.payload = nil
	s.self.Delete()
	s.closure = nil
	s.sem.Release(1)
	logger().Debug("callback slot reset", zap.String("kind", string(s.kind)))
}
