package sigma

// Register ids and the typed constant values they hold (spec §3/§4.D).
// The real script collaborator (ErgoTree-equivalent) owns the full value
// type system; this package only needs enough of it to round-trip the
// non-mandatory registers R4..R9, so Constant below is a deliberately
// small stand-in (integer and byte-string values only) rather than a hand-rolled
// reimplementation of a type system that belongs to another subsystem.

import (
	"encoding/binary"
	"fmt"
)

// RegisterId names a slot inside a box. R0..R3 are mandatory and derived
// from the box's other fields; R4..R9 are user-defined.
type RegisterId uint8

const (
	R0 RegisterId = 0
	R1 RegisterId = 1
	R2 RegisterId = 2
	R3 RegisterId = 3
	R4 RegisterId = 4
	R5 RegisterId = 5
	R6 RegisterId = 6
	R7 RegisterId = 7
	R8 RegisterId = 8
	R9 RegisterId = 9
)

const maxNonMandatoryRegisters = 6 // R4..R9

// ConstantKind tags the shape of a Constant's payload.
type ConstantKind byte

const (
	ConstantInt   ConstantKind = 0x00
	ConstantBytes ConstantKind = 0x01
)

// Constant is a minimal typed value for non-mandatory registers.
type Constant struct {
	Kind  ConstantKind
	Int   int64
	Bytes []byte
}

// IntConstant builds an integer-valued register constant.
func IntConstant(v int64) Constant {
	return Constant{Kind: ConstantInt, Int: v}
}

// BytesConstant builds a byte-string-valued register constant.
func BytesConstant(v []byte) Constant {
	return Constant{Kind: ConstantBytes, Bytes: v}
}

// Encode renders the constant as tag byte + payload.
func (c Constant) Encode() []byte {
	switch c.Kind {
	case ConstantInt:
		buf := make([]byte, 1+binary.MaxVarintLen64)
		buf[0] = byte(ConstantInt)
		n := binary.PutVarint(buf[1:], c.Int)
		return buf[:1+n]
	case ConstantBytes:
		lenBuf := make([]byte, binary.MaxVarintLen64)
		n := binary.PutUvarint(lenBuf, uint64(len(c.Bytes)))
		out := make([]byte, 0, 1+n+len(c.Bytes))
		out = append(out, byte(ConstantBytes))
		out = append(out, lenBuf[:n]...)
		out = append(out, c.Bytes...)
		return out
	default:
		panic(fmt.Sprintf("sigma: unknown constant kind %d", c.Kind))
	}
}

// DecodeConstant parses a Constant from buf, returning the number of
// bytes consumed.
func DecodeConstant(buf []byte) (Constant, int, error) {
	if len(buf) < 1 {
		return Constant{}, 0, wrapf(ErrMalformedProof, "constant: empty buffer")
	}
	switch ConstantKind(buf[0]) {
	case ConstantInt:
		v, n := binary.Varint(buf[1:])
		if n <= 0 {
			return Constant{}, 0, wrapf(ErrMalformedProof, "constant: truncated int")
		}
		return IntConstant(v), 1 + n, nil
	case ConstantBytes:
		l, n := binary.Uvarint(buf[1:])
		if n <= 0 {
			return Constant{}, 0, wrapf(ErrMalformedProof, "constant: truncated bytes length")
		}
		start := 1 + n
		end := start + int(l)
		if end > len(buf) {
			return Constant{}, 0, wrapf(ErrMalformedProof, "constant: truncated bytes payload")
		}
		return BytesConstant(append([]byte(nil), buf[start:end]...)), end, nil
	default:
		return Constant{}, 0, wrapf(ErrMalformedProof, "constant: unknown tag 0x%02x", buf[0])
	}
}
