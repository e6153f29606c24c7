// Package hasher implements the key hashers used to address storage
// entries: the blake2 and twox (xxHash64) families, with and without
// the original key concatenated, plus the identity transform.
package hasher

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// A Kind classifies the transform applied to one encoded key
// component to form its storage-address fragment.
type Kind int

const (
	Identity Kind = iota
	Blake2_128
	Blake2_128Concat
	Blake2_256
	Twox64
	Twox64Concat
	Twox128
	Twox128Concat
	Twox256
	Twox256Concat
)

var kindNames = map[Kind]string{
	Identity:         "Identity",
	Blake2_128:       "Blake2_128",
	Blake2_128Concat: "Blake2_128Concat",
	Blake2_256:       "Blake2_256",
	Twox64:           "Twox64",
	Twox64Concat:     "Twox64Concat",
	Twox128:          "Twox128",
	Twox128Concat:    "Twox128Concat",
	Twox256:          "Twox256",
	Twox256Concat:    "Twox256Concat",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Concat reports whether the fragment includes the encoded key after
// the digest, making the key recoverable from the fragment.
func (k Kind) Concat() bool {
	switch k {
	case Identity, Blake2_128Concat, Twox64Concat, Twox128Concat, Twox256Concat:
		return true
	}
	return false
}

// Append appends the storage-address fragment for the encoded key to
// dst.
func (k Kind) Append(dst, key []byte) []byte {
	switch k {
	case Identity:
		return append(dst, key...)
	case Blake2_128:
		return append(dst, Blake2128(key)...)
	case Blake2_128Concat:
		return append(append(dst, Blake2128(key)...), key...)
	case Blake2_256:
		return append(dst, Blake2256(key)...)
	case Twox64:
		return append(dst, Twox64Sum(key)...)
	case Twox64Concat:
		return append(append(dst, Twox64Sum(key)...), key...)
	case Twox128:
		return append(dst, Twox128Sum(key)...)
	case Twox128Concat:
		return append(append(dst, Twox128Sum(key)...), key...)
	case Twox256:
		return append(dst, Twox256Sum(key)...)
	case Twox256Concat:
		return append(append(dst, Twox256Sum(key)...), key...)
	}
	panic(fmt.Sprintf("unknown hasher kind %d", int(k)))
}

// Blake2128 returns the 16-byte blake2b digest of bs.
func Blake2128(bs []byte) []byte {
	h, err := blake2b.New(16, nil)
	if err != nil {
		panic(err)
	}
	h.Write(bs)
	return h.Sum(nil)
}

// Blake2256 returns the 32-byte blake2b digest of bs.
func Blake2256(bs []byte) []byte {
	sum := blake2b.Sum256(bs)
	return sum[:]
}

// Twox64Sum returns the xxHash64 digest of bs in little-endian byte
// order.
func Twox64Sum(bs []byte) []byte {
	return twox(bs, 1)
}

// Twox128Sum returns the 16-byte twox digest of bs: the xxHash64
// digests with seeds 0 and 1, each in little-endian byte order,
// concatenated.
func Twox128Sum(bs []byte) []byte {
	return twox(bs, 2)
}

// Twox256Sum returns the 32-byte twox digest of bs, using seeds 0
// through 3.
func Twox256Sum(bs []byte) []byte {
	return twox(bs, 4)
}

func twox(bs []byte, rounds uint64) []byte {
	ret := make([]byte, 0, 8*rounds)
	d := xxhash.New()
	for seed := uint64(0); seed < rounds; seed++ {
		d.ResetWithSeed(seed)
		d.Write(bs)
		ret = binary.LittleEndian.AppendUint64(ret, d.Sum64())
	}
	return ret
}
