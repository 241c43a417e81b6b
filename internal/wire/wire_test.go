package wire

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wl_surface.attach(object=7, int=0, int=0) sent on object id 5, opcode 1.
// The encoded frame is 20 bytes and decodes back to the same arguments
// with no attached descriptors.
func TestScenarioA_SurfaceAttachRoundTrip(t *testing.T) {
	msg := Message{
		ObjectID: 5,
		Opcode:   1,
		Args:     []Arg{Object(7), Int(0), Int(0)},
	}

	encoded, fds, err := Encode(msg)
	require.NoError(t, err)
	assert.Empty(t, fds)
	assert.Len(t, encoded, 20)

	kinds := []Kind{KindObject, KindInt, KindInt}
	decoded, consumed, err := Decode(encoded, kinds, NewFDQueue(nil))
	require.NoError(t, err)
	assert.Equal(t, 20, consumed)
	assert.Equal(t, uint32(5), decoded.ObjectID)
	assert.Equal(t, uint16(1), decoded.Opcode)
	require.Len(t, decoded.Args, 3)
	assert.Equal(t, uint32(7), decoded.Args[0].Uint)
	assert.Equal(t, int32(0), decoded.Args[1].Int)
	assert.Equal(t, int32(0), decoded.Args[2].Int)
}

func TestRoundTrip_AllKinds(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	msg := Message{
		ObjectID: 42,
		Opcode:   3,
		Args: []Arg{
			Int(-7),
			Uint(9001),
			Object(2),
			NewID(3),
			FixedArg(FixedFromFloat64(1.5)),
			String("hello wayland"),
			String(""),
			Array([]byte{1, 2, 3, 4, 5}),
			FD(w),
		},
	}
	kinds := []Kind{KindInt, KindUint, KindObject, KindNewID, KindFixed, KindString, KindString, KindArray, KindFD}

	encoded, fds, err := Encode(msg)
	require.NoError(t, err)
	require.Len(t, fds, 1)
	assert.Same(t, w, fds[0])
	assert.Equal(t, 0, len(encoded)%4, "encoded length must be 4-byte aligned")

	_, _, length, ok := decodeHeaderT(t, encoded)
	require.True(t, ok)
	assert.Equal(t, length, len(encoded), "header length field must equal bytes written")

	decoded, consumed, err := Decode(encoded, kinds, NewFDQueue(fds))
	require.NoError(t, err)
	assert.Equal(t, len(encoded), consumed)

	require.Len(t, decoded.Args, len(msg.Args))
	assert.Equal(t, int32(-7), decoded.Args[0].Int)
	assert.Equal(t, uint32(9001), decoded.Args[1].Uint)
	assert.Equal(t, uint32(2), decoded.Args[2].Uint)
	assert.Equal(t, uint32(3), decoded.Args[3].Uint)
	assert.InDelta(t, 1.5, decoded.Args[4].Fixed.Float64(), 0.01)
	assert.Equal(t, "hello wayland", decoded.Args[5].String)
	assert.Equal(t, "", decoded.Args[6].String)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, decoded.Args[7].Array)
	assert.Same(t, w, decoded.Args[8].FD) // the fd Encode captured pulled off the queue in order
}

func decodeHeaderT(t *testing.T, buf []byte) (uint32, uint16, int, bool) {
	t.Helper()
	id, op, length, ok := DecodeHeader(buf)
	return id, op, length, ok
}

func TestDecode_NeedMore(t *testing.T) {
	_, _, err := Decode([]byte{1, 2, 3}, nil, NewFDQueue(nil))
	assert.ErrorIs(t, err, ErrNeedMore)

	full := []byte{0, 0, 0, 0, 0, 0, 24, 0} // claims 24-byte frame, only header present
	_, _, err = Decode(full, nil, NewFDQueue(nil))
	assert.ErrorIs(t, err, ErrNeedMore)
}

func TestDecode_MalformedFrame(t *testing.T) {
	// length field 6 is smaller than the 8-byte header itself.
	buf := []byte{0, 0, 0, 0, 0, 0, 6, 0}
	_, _, err := Decode(buf, nil, NewFDQueue(nil))
	assert.ErrorIs(t, err, ErrMalformedFrame)

	// length field 9 is not a multiple of 4.
	buf2 := []byte{0, 0, 0, 0, 0, 0, 9, 0}
	_, _, err = Decode(buf2, nil, NewFDQueue(nil))
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestFixedRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, -1, 0.5, -0.5, 123.25, -400.75} {
		f := FixedFromFloat64(v)
		assert.InDelta(t, v, f.Float64(), 1.0/256)
	}
}
