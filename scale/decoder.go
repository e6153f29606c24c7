package scale

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// A DecodeError reports a disagreement between a byte buffer and the
// type it was decoded as. Because encoded buffers come from the same
// trusted metadata source as the type information, a DecodeError
// means the metadata itself is inconsistent.
type DecodeError struct {
	// Offset is the byte offset in the input at which decoding
	// failed.
	Offset int
	// Reason is an explanation of what went wrong.
	Reason error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("decode error at byte %d: %v", e.Offset, e.Reason)
}

func (e DecodeError) Unwrap() error {
	return e.Reason
}

// A Decoder reads SCALE-encoded values off the front of a byte
// slice. Multi-byte integers are little-endian; there is no
// alignment padding.
type Decoder struct {
	in     []byte
	offset int
}

// NewDecoder returns a Decoder that consumes bs.
func NewDecoder(bs []byte) *Decoder {
	return &Decoder{in: bs}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int { return d.offset }

// Remaining returns the number of unconsumed bytes.
func (d *Decoder) Remaining() int { return len(d.in) - d.offset }

// Errorf returns a DecodeError at the decoder's current offset.
func (d *Decoder) Errorf(format string, args ...any) error {
	return DecodeError{d.offset, fmt.Errorf(format, args...)}
}

// Done verifies that the input was consumed exactly.
func (d *Decoder) Done() error {
	if n := d.Remaining(); n > 0 {
		return d.Errorf("%d trailing bytes after value", n)
	}
	return nil
}

// Read consumes n bytes verbatim.
func (d *Decoder) Read(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, d.Errorf("read of %d bytes overruns buffer (%d remaining)", n, d.Remaining())
	}
	ret := d.in[d.offset : d.offset+n]
	d.offset += n
	return ret, nil
}

// Uint8 reads a uint8.
func (d *Decoder) Uint8() (uint8, error) {
	bs, err := d.Read(1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

// Uint16 reads a uint16.
func (d *Decoder) Uint16() (uint16, error) {
	bs, err := d.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(bs), nil
}

// Uint32 reads a uint32.
func (d *Decoder) Uint32() (uint32, error) {
	bs, err := d.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(bs), nil
}

// Uint64 reads a uint64.
func (d *Decoder) Uint64() (uint64, error) {
	bs, err := d.Read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(bs), nil
}

// Uint128 reads a 16-byte unsigned integer.
func (d *Decoder) Uint128() (*big.Int, error) {
	bs, err := d.Read(16)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(reverse(bs)), nil
}

// Bool reads a boolean. Any byte other than 0 or 1 is an error.
func (d *Decoder) Bool() (bool, error) {
	b, err := d.Uint8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, d.Errorf("invalid boolean byte 0x%02x", b)
	}
}

// Compact reads a compact-encoded unsigned integer of at most 64
// bits. Use CompactBig for wider values.
func (d *Decoder) Compact() (uint64, error) {
	b, err := d.Uint8()
	if err != nil {
		return 0, err
	}
	switch b & 0b11 {
	case 0:
		return uint64(b >> 2), nil
	case 1:
		b2, err := d.Uint8()
		if err != nil {
			return 0, err
		}
		return (uint64(b) | uint64(b2)<<8) >> 2, nil
	case 2:
		bs, err := d.Read(3)
		if err != nil {
			return 0, err
		}
		return (uint64(b) | uint64(bs[0])<<8 | uint64(bs[1])<<16 | uint64(bs[2])<<24) >> 2, nil
	default:
		n := int(b>>2) + 4
		if n > 8 {
			return 0, d.Errorf("compact value of %d bytes overflows uint64", n)
		}
		bs, err := d.Read(n)
		if err != nil {
			return 0, err
		}
		var ret uint64
		for i, v := range bs {
			ret |= uint64(v) << (8 * i)
		}
		return ret, nil
	}
}

// CompactBig reads a compact-encoded unsigned integer of any
// supported width.
func (d *Decoder) CompactBig() (*big.Int, error) {
	b, err := d.Uint8()
	if err != nil {
		return nil, err
	}
	if b&0b11 != 0b11 {
		d.offset--
		u, err := d.Compact()
		if err != nil {
			return nil, err
		}
		return new(big.Int).SetUint64(u), nil
	}
	n := int(b>>2) + 4
	bs, err := d.Read(n)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(reverse(bs)), nil
}

// Bytes reads a compact-length-prefixed byte sequence.
func (d *Decoder) Bytes() ([]byte, error) {
	ln, err := d.Compact()
	if err != nil {
		return nil, err
	}
	if ln > uint64(d.Remaining()) {
		return nil, d.Errorf("byte sequence length %d overruns buffer (%d remaining)", ln, d.Remaining())
	}
	return d.Read(int(ln))
}

// String reads a compact-length-prefixed UTF-8 string.
func (d *Decoder) String() (string, error) {
	bs, err := d.Bytes()
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// Value reads a SCALE value into v using the reflection codec. v
// must be a non-nil pointer.
func (d *Decoder) Value(v any) error {
	return unmarshalValue(d, v)
}

// reverse returns a copy of bs in reverse order, converting a
// little-endian limb buffer to big.Int's big-endian input.
func reverse(bs []byte) []byte {
	ret := make([]byte, len(bs))
	for i, b := range bs {
		ret[len(bs)-1-i] = b
	}
	return ret
}
