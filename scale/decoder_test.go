package scale_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/substrate-tools/palletgen/scale"
)

func TestCompact(t *testing.T) {
	tests := []struct {
		val uint64
		raw []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x04}},
		{42, []byte{0xa8}},
		{63, []byte{0xfc}},
		{64, []byte{0x01, 0x01}},
		{16383, []byte{0xfd, 0xff}},
		{16384, []byte{0x02, 0x00, 0x01, 0x00}},
		{1<<30 - 1, []byte{0xfe, 0xff, 0xff, 0xff}},
		{1 << 30, []byte{0x03, 0x00, 0x00, 0x00, 0x40}},
		{1 << 32, []byte{0x07, 0x00, 0x00, 0x00, 0x00, 0x01}},
		{1 << 40, []byte{0x0b, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}},
		{1<<64 - 1, []byte{0x13, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, tc := range tests {
		var e scale.Encoder
		e.Compact(tc.val)
		if diff := cmp.Diff(e.Out, tc.raw); diff != "" {
			t.Errorf("Compact(%d) encoding diff (-got+want):\n%s", tc.val, diff)
		}

		d := scale.NewDecoder(tc.raw)
		got, err := d.Compact()
		if err != nil {
			t.Errorf("Compact() decode of %x: %v", tc.raw, err)
		} else if got != tc.val {
			t.Errorf("Compact() decode of %x: got %d, want %d", tc.raw, got, tc.val)
		}
		if err := d.Done(); err != nil {
			t.Errorf("Compact() decode of %x left input: %v", tc.raw, err)
		}

		// The wide decoder must accept narrow encodings too.
		gotBig, err := scale.NewDecoder(tc.raw).CompactBig()
		if err != nil {
			t.Errorf("CompactBig() decode of %x: %v", tc.raw, err)
		} else if !gotBig.IsUint64() || gotBig.Uint64() != tc.val {
			t.Errorf("CompactBig() decode of %x: got %s, want %d", tc.raw, gotBig, tc.val)
		}
	}
}

func TestCompactBig(t *testing.T) {
	val := new(big.Int).Lsh(big.NewInt(1), 64) // 2^64, needs 9 value bytes
	want := []byte{0x17, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}

	var e scale.Encoder
	if err := e.CompactBig(val); err != nil {
		t.Fatalf("CompactBig(%s): %v", val, err)
	}
	if diff := cmp.Diff(e.Out, want); diff != "" {
		t.Errorf("CompactBig(%s) encoding diff (-got+want):\n%s", val, diff)
	}

	d := scale.NewDecoder(want)
	got, err := d.CompactBig()
	if err != nil {
		t.Fatalf("CompactBig() decode: %v", err)
	}
	if got.Cmp(val) != 0 {
		t.Errorf("CompactBig() decode: got %s, want %s", got, val)
	}

	if _, err := scale.NewDecoder(want).Compact(); err == nil {
		t.Error("Compact() decoded a 9-byte value, want overflow error")
	}
}

func TestUint128(t *testing.T) {
	tests := []struct {
		val string
		raw []byte
	}{
		{"0", []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{"1", []byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{"258", []byte{2, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{
			"340282366920938463463374607431768211455", // 2^128-1
			[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		},
	}

	for _, tc := range tests {
		val := scale.MustBig(tc.val)
		var e scale.Encoder
		if err := e.Uint128(val); err != nil {
			t.Errorf("Uint128(%s): %v", tc.val, err)
			continue
		}
		if diff := cmp.Diff(e.Out, tc.raw); diff != "" {
			t.Errorf("Uint128(%s) encoding diff (-got+want):\n%s", tc.val, diff)
		}

		got, err := scale.NewDecoder(tc.raw).Uint128()
		if err != nil {
			t.Errorf("Uint128() decode of %x: %v", tc.raw, err)
		} else if got.Cmp(val) != 0 {
			t.Errorf("Uint128() decode of %x: got %s, want %s", tc.raw, got, tc.val)
		}
	}

	var e scale.Encoder
	if err := e.Uint128(big.NewInt(-1)); err == nil {
		t.Error("Uint128(-1) succeeded, want error")
	}
	too := new(big.Int).Lsh(big.NewInt(1), 128)
	if err := e.Uint128(too); err == nil {
		t.Error("Uint128(2^128) succeeded, want error")
	}
}

func TestBool(t *testing.T) {
	for _, tc := range []struct {
		raw  []byte
		want bool
		ok   bool
	}{
		{[]byte{0}, false, true},
		{[]byte{1}, true, true},
		{[]byte{2}, false, false},
		{[]byte{0xff}, false, false},
		{nil, false, false},
	} {
		got, err := scale.NewDecoder(tc.raw).Bool()
		if tc.ok != (err == nil) {
			t.Errorf("Bool() decode of %x: err=%v, want ok=%v", tc.raw, err, tc.ok)
		} else if tc.ok && got != tc.want {
			t.Errorf("Bool() decode of %x: got %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	raw := []byte{0x10, 'g', 'o', 'g', 'o'}
	var e scale.Encoder
	e.String("gogo")
	if diff := cmp.Diff(e.Out, raw); diff != "" {
		t.Errorf("String encoding diff (-got+want):\n%s", diff)
	}
	got, err := scale.NewDecoder(raw).String()
	if err != nil {
		t.Fatalf("String() decode: %v", err)
	}
	if got != "gogo" {
		t.Errorf("String() decode: got %q, want %q", got, "gogo")
	}

	// Length prefix pointing past the end of the buffer.
	if _, err := scale.NewDecoder([]byte{0x10, 'g'}).String(); err == nil {
		t.Error("String() decoded a truncated buffer, want error")
	}
}

func TestDone(t *testing.T) {
	d := scale.NewDecoder([]byte{0x2a, 0x00})
	if _, err := d.Uint8(); err != nil {
		t.Fatalf("Uint8: %v", err)
	}
	err := d.Done()
	if err == nil {
		t.Fatal("Done() with a trailing byte succeeded, want error")
	}
	var derr scale.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("Done() error is %T, want DecodeError", err)
	}
	if derr.Offset != 1 {
		t.Errorf("Done() error offset = %d, want 1", derr.Offset)
	}
}
