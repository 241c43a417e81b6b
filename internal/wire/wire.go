// Package wire implements the Wayland wire protocol codec: message framing,
// argument encoding and decoding, and the fixed-point helpers the wire
// format requires. It has no knowledge of interfaces or opcodes beyond the
// argument-kind schema it is handed by the caller.
package wire

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/pkg/errors"
)

// hostByteOrder mirrors the runtime's native byte order, since the wire
// format specifies host order rather than a fixed endianness.
var hostByteOrder binary.ByteOrder

func init() {
	var check uint16 = 1
	b := [2]byte{}
	binary.NativeEndian.PutUint16(b[:], check)
	if b[0] == 1 {
		hostByteOrder = binary.LittleEndian
	} else {
		hostByteOrder = binary.BigEndian
	}
}

// ErrNeedMore is returned by Decode when buf does not yet hold a complete
// message; the caller should read more bytes and retry.
var ErrNeedMore = errors.New("wire: incomplete message")

// ErrMalformedFrame is returned by Decode when the header or an argument
// cannot be parsed according to the wire format. It is fatal for the
// connection.
var ErrMalformedFrame = errors.New("wire: malformed frame")

// Kind identifies the wire representation of a single argument.
type Kind uint8

const (
	KindInt Kind = iota
	KindUint
	KindObject
	KindNewID
	KindFixed
	KindString
	KindArray
	KindFD
)

// Fixed is a 24.8 signed fixed-point number, wire-encoded as a plain int32.
type Fixed int32

// FixedFromFloat64 converts a float64 into its nearest 24.8 fixed-point
// representation.
func FixedFromFloat64(v float64) Fixed {
	return Fixed(int32(math.Round(v * 256)))
}

// Float64 converts back to a float64.
func (f Fixed) Float64() float64 {
	return float64(f) / 256
}

// Arg is a single self-describing wire argument. Exactly one of the value
// fields is meaningful, selected by Kind.
type Arg struct {
	Kind   Kind
	Int    int32
	Uint   uint32 // uint, object, new_id
	Fixed  Fixed
	String string
	Array  []byte
	FD     *os.File
}

func Int(v int32) Arg        { return Arg{Kind: KindInt, Int: v} }
func Uint(v uint32) Arg      { return Arg{Kind: KindUint, Uint: v} }
func Object(id uint32) Arg   { return Arg{Kind: KindObject, Uint: id} }
func NewID(id uint32) Arg    { return Arg{Kind: KindNewID, Uint: id} }
func FixedArg(v Fixed) Arg   { return Arg{Kind: KindFixed, Fixed: v} }
func String(s string) Arg    { return Arg{Kind: KindString, String: s} }
func Array(b []byte) Arg     { return Arg{Kind: KindArray, Array: b} }
func FD(f *os.File) Arg      { return Arg{Kind: KindFD, FD: f} }

// Message is a single decoded or to-be-encoded Wayland wire message.
type Message struct {
	ObjectID uint32
	Opcode   uint16
	Args     []Arg
}

// pad4 returns n rounded up to the next multiple of 4.
func pad4(n int) int {
	return (n + 3) &^ 3
}

// Encode serializes m into a wire frame plus the ordered list of file
// descriptors that must be transmitted as ancillary SCM_RIGHTS data
// alongside it. The header's length field always equals len(returned bytes).
func Encode(m Message) ([]byte, []*os.File, error) {
	body := make([]byte, 0, 32)
	var fds []*os.File

	for _, a := range m.Args {
		switch a.Kind {
		case KindInt:
			body = appendUint32(body, uint32(a.Int))
		case KindUint, KindObject, KindNewID:
			body = appendUint32(body, a.Uint)
		case KindFixed:
			body = appendUint32(body, uint32(a.Fixed))
		case KindString:
			body = appendString(body, a.String)
		case KindArray:
			body = appendArray(body, a.Array)
		case KindFD:
			if a.FD == nil {
				return nil, nil, errors.New("wire: nil file descriptor argument")
			}
			fds = append(fds, a.FD)
		default:
			return nil, nil, errors.Errorf("wire: unknown argument kind %d", a.Kind)
		}
	}

	total := 8 + len(body)
	if total%4 != 0 {
		return nil, nil, errors.Errorf("wire: encoded length %d not 4-byte aligned", total)
	}

	frame := make([]byte, 8, total)
	hostByteOrder.PutUint32(frame[0:4], m.ObjectID)
	hostByteOrder.PutUint32(frame[4:8], uint32(total)<<16|uint32(m.Opcode))
	frame = append(frame, body...)

	return frame, fds, nil
}

func appendUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	hostByteOrder.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func appendString(dst []byte, s string) []byte {
	if s == "" {
		return appendUint32(dst, 0)
	}
	raw := append([]byte(s), 0)
	dst = appendUint32(dst, uint32(len(raw)))
	dst = append(dst, raw...)
	for len(dst)%4 != 0 {
		dst = append(dst, 0)
	}
	return dst
}

func appendArray(dst []byte, b []byte) []byte {
	dst = appendUint32(dst, uint32(len(b)))
	dst = append(dst, b...)
	for len(dst)%4 != 0 {
		dst = append(dst, 0)
	}
	return dst
}

// DecodeHeader parses the 8-byte message header. ok is false if buf is too
// short or the encoded length is invalid (not a multiple of 4, or smaller
// than the header itself).
func DecodeHeader(buf []byte) (objectID uint32, opcode uint16, length int, ok bool) {
	if len(buf) < 8 {
		return 0, 0, 0, false
	}
	objectID = hostByteOrder.Uint32(buf[0:4])
	word2 := hostByteOrder.Uint32(buf[4:8])
	opcode = uint16(word2)
	length = int(word2 >> 16)
	if length < 8 || length%4 != 0 {
		return 0, 0, 0, false
	}
	return objectID, opcode, length, true
}

// FDSource yields file descriptors received out-of-band, in the order the
// peer attached them. A connection feeds every descriptor read off the
// socket into one FDSource per read, and Decode drains it in argument
// order.
type FDSource interface {
	Next() (*os.File, bool)
}

// FDQueue is a simple in-order FDSource backed by a slice.
type FDQueue struct {
	fds []*os.File
}

func NewFDQueue(fds []*os.File) *FDQueue {
	return &FDQueue{fds: fds}
}

func (q *FDQueue) Next() (*os.File, bool) {
	if len(q.fds) == 0 {
		return nil, false
	}
	f := q.fds[0]
	q.fds = q.fds[1:]
	return f, true
}

// Decode parses one message out of the front of buf according to kinds,
// the ordered argument-kind schema for (ObjectID, Opcode). It returns the
// number of bytes consumed from buf, which is always header.length on
// success. FDs required by KindFD arguments are pulled from fdq in order;
// a starved fdq is a malformed frame, since the peer promised the
// descriptor on this message boundary.
func Decode(buf []byte, kinds []Kind, fdq FDSource) (Message, int, error) {
	objectID, opcode, length, ok := DecodeHeader(buf)
	if !ok {
		if len(buf) < 8 {
			return Message{}, 0, ErrNeedMore
		}
		return Message{}, 0, ErrMalformedFrame
	}
	if len(buf) < length {
		return Message{}, 0, ErrNeedMore
	}

	payload := buf[8:length]
	args := make([]Arg, 0, len(kinds))
	off := 0
	for _, k := range kinds {
		switch k {
		case KindInt, KindUint, KindObject, KindNewID, KindFixed:
			if off+4 > len(payload) {
				return Message{}, 0, ErrMalformedFrame
			}
			v := hostByteOrder.Uint32(payload[off : off+4])
			off += 4
			switch k {
			case KindInt:
				args = append(args, Int(int32(v)))
			case KindFixed:
				args = append(args, FixedArg(Fixed(v)))
			default:
				args = append(args, Arg{Kind: k, Uint: v})
			}
		case KindString:
			if off+4 > len(payload) {
				return Message{}, 0, ErrMalformedFrame
			}
			slen := int(hostByteOrder.Uint32(payload[off : off+4]))
			off += 4
			if slen == 0 {
				args = append(args, String(""))
				continue
			}
			if off+slen > len(payload) {
				return Message{}, 0, ErrMalformedFrame
			}
			s := string(payload[off : off+slen-1])
			off += pad4(slen)
			args = append(args, String(s))
		case KindArray:
			if off+4 > len(payload) {
				return Message{}, 0, ErrMalformedFrame
			}
			alen := int(hostByteOrder.Uint32(payload[off : off+4]))
			off += 4
			if off+alen > len(payload) {
				return Message{}, 0, ErrMalformedFrame
			}
			a := make([]byte, alen)
			copy(a, payload[off:off+alen])
			off += pad4(alen)
			args = append(args, Array(a))
		case KindFD:
			f, ok := fdq.Next()
			if !ok {
				return Message{}, 0, ErrMalformedFrame
			}
			args = append(args, FD(f))
		default:
			return Message{}, 0, errors.Errorf("wire: unknown argument kind %d", k)
		}
	}

	return Message{ObjectID: objectID, Opcode: opcode, Args: args}, length, nil
}
