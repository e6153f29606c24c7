package scale_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/substrate-tools/palletgen/scale"
)

func ptr[T any](v T) *T { return &v }

var cmpBig = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

// roundTrip checks the encoding of val against raw, then decodes raw
// back and compares.
func roundTrip[T any](t *testing.T, val T, raw []byte) {
	t.Helper()

	got, err := scale.Marshal(val)
	if err != nil {
		t.Errorf("Marshal(%#v): %v", val, err)
		return
	}
	if diff := cmp.Diff(got, raw, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Marshal(%#v) encoding diff (-got+want):\n%s", val, diff)
		return
	}

	var back T
	if err := scale.Unmarshal(raw, &back); err != nil {
		t.Errorf("Unmarshal(%x): %v", raw, err)
		return
	}
	if diff := cmp.Diff(back, val, cmpBig); diff != "" {
		t.Errorf("Unmarshal(%x) diff (-got+want):\n%s", raw, diff)
	}
}

type account struct {
	Nonce    uint32
	Free     *big.Int
	Reserved *big.Int
}

type ticket struct {
	Who    [4]byte
	Note   string
	Amount *uint64
}

type node struct {
	Value uint8
	Next  *node
}

func TestRoundTrip(t *testing.T) {
	t.Run("fixed ints", func(t *testing.T) {
		roundTrip(t, uint8(0x42), []byte{0x42})
		roundTrip(t, uint16(0x4241), []byte{0x41, 0x42})
		roundTrip(t, uint32(7), []byte{7, 0, 0, 0})
		roundTrip(t, int32(-1), []byte{0xff, 0xff, 0xff, 0xff})
		roundTrip(t, int8(-2), []byte{0xfe})
		roundTrip(t, uint64(1), []byte{1, 0, 0, 0, 0, 0, 0, 0})
	})

	t.Run("big", func(t *testing.T) {
		roundTrip(t, big.NewInt(258), []byte{2, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	})

	t.Run("strings and bytes", func(t *testing.T) {
		roundTrip(t, "go", []byte{0x08, 'g', 'o'})
		roundTrip(t, []byte{9, 8}, []byte{0x08, 9, 8})
		roundTrip(t, [3]byte{1, 2, 3}, []byte{1, 2, 3})
	})

	t.Run("sequences", func(t *testing.T) {
		roundTrip(t, []uint16{513, 514}, []byte{0x08, 1, 2, 2, 2})
		roundTrip(t, []uint16{}, []byte{0x00})
		roundTrip(t, [2]uint16{513, 514}, []byte{1, 2, 2, 2})
	})

	t.Run("options", func(t *testing.T) {
		roundTrip(t, (*uint32)(nil), []byte{0})
		roundTrip(t, ptr(uint32(7)), []byte{1, 7, 0, 0, 0})
		roundTrip(t, []*bool{nil, ptr(true)}, []byte{0x08, 0, 1, 1})
	})

	t.Run("structs", func(t *testing.T) {
		roundTrip(t, struct{}{}, []byte{})
		roundTrip(t, account{
			Nonce:    1,
			Free:     big.NewInt(5),
			Reserved: big.NewInt(0),
		}, []byte{
			1, 0, 0, 0,
			5, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		})
		roundTrip(t, ticket{
			Who:    [4]byte{0xaa, 0xbb, 0xcc, 0xdd},
			Note:   "hi",
			Amount: nil,
		}, []byte{0xaa, 0xbb, 0xcc, 0xdd, 0x08, 'h', 'i', 0})
	})

	t.Run("recursive", func(t *testing.T) {
		roundTrip(t, node{1, &node{2, nil}}, []byte{1, 1, 2, 0})
	})
}

func TestMarshalErrors(t *testing.T) {
	for _, v := range []any{
		int(1),
		uint(1),
		float64(3.5),
		map[string]uint8{"a": 1},
		make(chan int),
	} {
		_, err := scale.Marshal(v)
		var terr scale.TypeError
		if !errors.As(err, &terr) {
			t.Errorf("Marshal(%T) err = %v, want TypeError", v, err)
		}
	}

	if _, err := scale.Marshal(nil); err == nil {
		t.Error("Marshal(nil) succeeded, want error")
	}
}

func TestUnmarshalErrors(t *testing.T) {
	var u32 uint32
	if err := scale.Unmarshal([]byte{1, 0, 0, 0, 0}, &u32); err == nil {
		t.Error("Unmarshal with a trailing byte succeeded, want error")
	}
	if err := scale.Unmarshal([]byte{1, 0}, &u32); err == nil {
		t.Error("Unmarshal of a truncated buffer succeeded, want error")
	}
	if err := scale.Unmarshal([]byte{1, 0, 0, 0}, u32); err == nil {
		t.Error("Unmarshal into a non-pointer succeeded, want error")
	}
	if err := scale.Unmarshal([]byte{1, 0, 0, 0}, nil); err == nil {
		t.Error("Unmarshal into nil succeeded, want error")
	}

	// A declared sequence length far beyond the buffer must fail
	// before allocating.
	var seq []uint64
	if err := scale.Unmarshal([]byte{0xfe, 0xff, 0xff, 0xff}, &seq); err == nil {
		t.Error("Unmarshal of an overlong sequence succeeded, want error")
	}
}

// result is a hand-written tagged union in the shape the code
// generator emits: one pointer field per case, discriminant mapping
// in the codec methods.
type result struct {
	Ok  *resultOk
	Err *resultErr
}

type resultOk struct {
	F0 uint32
}

type resultErr struct{}

func (v result) MarshalSCALE(e *scale.Encoder) error {
	switch {
	case v.Ok != nil:
		e.Uint8(0)
		return e.Value(*v.Ok)
	case v.Err != nil:
		e.Uint8(1)
		return e.Value(*v.Err)
	}
	return errors.New("result: no case set")
}

func (v *result) UnmarshalSCALE(d *scale.Decoder) error {
	*v = result{}
	tag, err := d.Uint8()
	if err != nil {
		return err
	}
	switch tag {
	case 0:
		v.Ok = new(resultOk)
		return d.Value(v.Ok)
	case 1:
		v.Err = new(resultErr)
		return d.Value(v.Err)
	}
	return d.Errorf("result: unknown discriminant %d", tag)
}

func TestUnionCodec(t *testing.T) {
	roundTrip(t, result{Ok: &resultOk{7}}, []byte{0, 7, 0, 0, 0})
	roundTrip(t, result{Err: &resultErr{}}, []byte{1})

	// Unions nest through the reflection codec like any other value.
	type holder struct {
		R result
		N uint8
	}
	roundTrip(t, holder{result{Err: &resultErr{}}, 9}, []byte{1, 9})

	var r result
	if err := scale.Unmarshal([]byte{2}, &r); err == nil {
		t.Error("Unmarshal of unknown discriminant succeeded, want error")
	}
	if _, err := scale.Marshal(result{}); err == nil {
		t.Error("Marshal of empty union succeeded, want error")
	}
}
