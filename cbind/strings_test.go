package cbind

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCStringRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"hello",
		"héllo wörld",
		"日本語のテキスト",
		strings.Repeat("x", 4096),
	}

	for _, want := range cases {
		a := NewArena()
		p, err := a.CString(want)
		require.NoError(t, err)
		require.Equal(t, want, GoString(p))
		a.Free()
	}
}

func TestCStringRejectsEmbeddedNUL(t *testing.T) {
	a := NewArena()
	defer a.Free()

	_, err := a.CString("ab\x00cd")

	var merr *MarshalError
	require.ErrorAs(t, err, &merr)
	require.Contains(t, merr.Reason, "embedded NUL at byte 2")
	require.Equal(t, 0, a.Live(), "failed marshal must not leak arena memory")
}

func TestSizedRoundTripIsBinarySafe(t *testing.T) {
	a := NewArena()
	defer a.Free()

	want := []byte("bin\x00ary\x00payload\xff")
	p := a.CBytes(want)

	got := GoBytes(p, len(want))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sized round trip mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, string(want), GoStringN(p, len(want)))
}

func TestUnsizedDecodeStopsAtNUL(t *testing.T) {
	a := NewArena()
	defer a.Free()

	// Documented boundary: without an explicit length, decoding stops at
	// the first NUL.
	p := a.CBytes([]byte("head\x00tail\x00"))
	require.Equal(t, "head", GoString(p))
}

func TestArenaHelloScenario(t *testing.T) {
	// Allocate a native buffer for "hello", decode it back with length 5.
	a := NewArena()
	defer a.Free()

	p, err := a.CString("hello")
	require.NoError(t, err)
	require.Equal(t, "hello", GoStringN(p, 5))
}

func TestGoDecodeNilPointer(t *testing.T) {
	require.Equal(t, "", GoString(nil))
	require.Equal(t, "", GoStringN(nil, 5))
	require.Nil(t, GoBytes(nil, 5))
}
