package cbind

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const kindProgress = Kind("test.progress")

func TestSlotRoundTrip(t *testing.T) {
	reg := NewRegistry()

	called := 0
	slot, err := reg.Plug(context.Background(), kindProgress, func() { called++ })
	require.NoError(t, err)

	// The native side hands the payload back; Dispatch resolves the slot.
	got := Dispatch(slot.Payload())
	require.Same(t, slot, got)

	got.Closure().(func())()
	require.Equal(t, 1, called)

	abort := slot.Invoke(func() error { return nil })
	require.False(t, abort)
	require.NoError(t, slot.Fault())

	slot.Reset()
}

func TestSlotInvokeRecordsError(t *testing.T) {
	reg := NewRegistry()
	slot, err := reg.Plug(context.Background(), kindProgress, nil)
	require.NoError(t, err)
	defer slot.Reset()

	boom := errors.New("transfer refused")
	require.True(t, slot.Invoke(func() error { return boom }))
	require.ErrorIs(t, slot.Fault(), boom)

	// Once faulted, the closure is never re-entered even if the native
	// loop keeps calling.
	ran := false
	require.True(t, slot.Invoke(func() error { ran = true; return nil }))
	require.False(t, ran)
}

func TestSlotInvokeCatchesPanic(t *testing.T) {
	reg := NewRegistry()
	slot, err := reg.Plug(context.Background(), kindProgress, nil)
	require.NoError(t, err)
	defer slot.Reset()

	abort := slot.Invoke(func() error { panic("managed callback blew up") })
	require.True(t, abort, "a panic must become a native abort sentinel, never cross the boundary")

	var fault *CallbackFault
	require.ErrorAs(t, slot.Fault(), &fault)
	require.Equal(t, kindProgress, fault.Kind)
	require.Equal(t, "managed callback blew up", fault.Recovered)
}

func TestPlugSerializesPerKind(t *testing.T) {
	reg := NewRegistry()

	first, err := reg.Plug(context.Background(), kindProgress, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = reg.Plug(ctx, kindProgress, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// A different kind is an independent slot.
	other, err := reg.Plug(context.Background(), Kind("test.credentials"), nil)
	require.NoError(t, err)
	other.Reset()

	first.Reset()

	second, err := reg.Plug(context.Background(), kindProgress, nil)
	require.NoError(t, err)
	second.Reset()
}

func TestResetLeavesNoStaleClosure(t *testing.T) {
	reg := NewRegistry()

	slot1, err := reg.Plug(context.Background(), kindProgress, "closure one")
	require.NoError(t, err)
	slot1.Reset()

	slot2, err := reg.Plug(context.Background(), kindProgress, "closure two")
	require.NoError(t, err)
	defer slot2.Reset()

	require.Equal(t, "closure two", Dispatch(slot2.Payload()).Closure())
}

func TestResetIdempotent(t *testing.T) {
	reg := NewRegistry()
	slot, err := reg.Plug(context.Background(), kindProgress, nil)
	require.NoError(t, err)

	slot.Reset()
	slot.Reset()

	require.PanicsWithError(t, "cbind: Payload on released callback slot", func() {
		slot.Payload()
	})
	require.PanicsWithError(t, "cbind: Closure on released callback slot", func() {
		slot.Closure()
	})
}
