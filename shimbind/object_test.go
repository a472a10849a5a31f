package shimbind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cbind-io/cbind-go/cbind"
	"github.com/cbind-io/cbind-go/internal/shimlib"
)

func TestOpenFreeNoLeak(t *testing.T) {
	before := shimlib.LiveObjects()

	obj, err := Open("alpha", 3)
	require.NoError(t, err)
	require.Equal(t, before+1, shimlib.LiveObjects())

	require.Equal(t, "alpha", obj.Name())
	require.Equal(t, 3, obj.EntryCount())

	obj.Free()
	require.Equal(t, before, shimlib.LiveObjects())

	// Release is idempotent.
	obj.Free()
	require.Equal(t, before, shimlib.LiveObjects())
}

func TestOpenInvalidName(t *testing.T) {
	before := shimlib.LiveObjects()

	_, err := Open("", 0)

	var nerr *cbind.NativeError
	require.ErrorAs(t, err, &nerr)
	require.Equal(t, "invalid object name", nerr.Message)
	require.Equal(t, before, shimlib.LiveObjects(), "failed open must not leak")
}

func TestFailCapturesLastError(t *testing.T) {
	obj, err := Open("failing", 0)
	require.NoError(t, err)
	defer obj.Free()

	ferr := obj.Fail("not found")

	var nerr *cbind.NativeError
	require.ErrorAs(t, ferr, &nerr)
	require.Equal(t, -1, nerr.Code)
	require.Equal(t, "not found", nerr.Message)
}

func TestNotes(t *testing.T) {
	obj, err := Open("annotated", 0)
	require.NoError(t, err)
	defer obj.Free()

	require.Equal(t, "", obj.Note())
	require.NoError(t, obj.SetNote("héllo nöte"))
	require.Equal(t, "héllo nöte", obj.Note())
}

func TestSetNoteRejectsEmbeddedNUL(t *testing.T) {
	obj, err := Open("annotated", 0)
	require.NoError(t, err)
	defer obj.Free()

	err = obj.SetNote("bad\x00note")

	var merr *cbind.MarshalError
	require.ErrorAs(t, err, &merr)
}

func TestUseAfterFreePanics(t *testing.T) {
	obj, err := Open("doomed", 0)
	require.NoError(t, err)
	obj.Free()

	require.PanicsWithError(t, "cbind: Ptr on released shim_object", func() {
		obj.Name()
	})
}

func TestEntryIsBorrowed(t *testing.T) {
	before := shimlib.LiveObjects()

	obj, err := Open("parent", 2)
	require.NoError(t, err)

	entry, err := obj.Entry(1)
	require.NoError(t, err)
	require.Equal(t, "parent#1", entry.Label())
	require.Equal(t, 1, entry.Index())

	// The entry is a view; the object stays the only native allocation.
	require.Equal(t, before+1, shimlib.LiveObjects())

	obj.Free()
	require.Equal(t, before, shimlib.LiveObjects())

	// The view died with its owner.
	require.PanicsWithError(t, "cbind: Ptr through released owner on released shim_entry", func() {
		entry.Label()
	})
}

func TestEntryOutOfRange(t *testing.T) {
	obj, err := Open("short", 1)
	require.NoError(t, err)
	defer obj.Free()

	_, err = obj.Entry(5)

	var nerr *cbind.NativeError
	require.ErrorAs(t, err, &nerr)
	require.Equal(t, -3, nerr.Code)
	require.Contains(t, nerr.Message, "entry 5 not found")
}
