package scale

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// An Encoder appends SCALE-encoded values to a byte slice.
// Multi-byte integers are little-endian; there is no alignment
// padding.
type Encoder struct {
	// Out is the encoded output.
	Out []byte
}

// Write writes bs as-is to the output.
func (e *Encoder) Write(bs []byte) {
	e.Out = append(e.Out, bs...)
}

// Uint8 writes a uint8.
func (e *Encoder) Uint8(u8 uint8) {
	e.Out = append(e.Out, u8)
}

// Uint16 writes a uint16.
func (e *Encoder) Uint16(u16 uint16) {
	e.Out = binary.LittleEndian.AppendUint16(e.Out, u16)
}

// Uint32 writes a uint32.
func (e *Encoder) Uint32(u32 uint32) {
	e.Out = binary.LittleEndian.AppendUint32(e.Out, u32)
}

// Uint64 writes a uint64.
func (e *Encoder) Uint64(u64 uint64) {
	e.Out = binary.LittleEndian.AppendUint64(e.Out, u64)
}

// Uint128 writes v as a 16-byte unsigned integer. A nil v writes
// zero. v must be non-negative and fit in 128 bits.
func (e *Encoder) Uint128(v *big.Int) error {
	var limbs [16]byte
	if v != nil {
		if v.Sign() < 0 || v.BitLen() > 128 {
			return fmt.Errorf("%s does not fit in an unsigned 128-bit integer", v)
		}
		v.FillBytes(limbs[:])
	}
	e.Out = append(e.Out, reverse(limbs[:])...)
	return nil
}

// Bool writes a boolean byte.
func (e *Encoder) Bool(b bool) {
	if b {
		e.Uint8(1)
	} else {
		e.Uint8(0)
	}
}

// Compact writes u in compact encoding.
func (e *Encoder) Compact(u uint64) {
	switch {
	case u < 1<<6:
		e.Uint8(uint8(u) << 2)
	case u < 1<<14:
		e.Uint16(uint16(u)<<2 | 0b01)
	case u < 1<<30:
		e.Uint32(uint32(u)<<2 | 0b10)
	default:
		n := 8
		for n > 4 && u>>(8*(n-1)) == 0 {
			n--
		}
		e.Uint8(uint8(n-4)<<2 | 0b11)
		for i := 0; i < n; i++ {
			e.Uint8(uint8(u >> (8 * i)))
		}
	}
}

// CompactBig writes v in compact encoding. A nil v writes zero. v
// must be non-negative.
func (e *Encoder) CompactBig(v *big.Int) error {
	if v == nil {
		e.Compact(0)
		return nil
	}
	if v.Sign() < 0 {
		return fmt.Errorf("cannot compact-encode negative value %s", v)
	}
	if v.IsUint64() {
		e.Compact(v.Uint64())
		return nil
	}
	bs := v.Bytes()
	if len(bs) > 67 {
		return fmt.Errorf("%s does not fit in a compact integer", v)
	}
	e.Uint8(uint8(len(bs)-4)<<2 | 0b11)
	e.Write(reverse(bs))
	return nil
}

// Bytes writes a compact-length-prefixed byte sequence.
func (e *Encoder) Bytes(bs []byte) {
	e.Compact(uint64(len(bs)))
	e.Out = append(e.Out, bs...)
}

// String writes a compact-length-prefixed string.
func (e *Encoder) String(s string) {
	e.Compact(uint64(len(s)))
	e.Out = append(e.Out, s...)
}

// Value writes v to the output using the reflection codec.
func (e *Encoder) Value(v any) error {
	return marshalValue(e, v)
}
