package pallet

import (
	"github.com/substrate-tools/palletgen/hasher"
	"github.com/substrate-tools/palletgen/scale"
)

// Prefix returns the 32-byte address prefix of one storage entry:
// the 128-bit twox digest of the pallet name followed by that of the
// entry name.
func Prefix(pallet, entry string) []byte {
	ret := hasher.Twox128Sum([]byte(pallet))
	return append(ret, hasher.Twox128Sum([]byte(entry))...)
}

// appendKey encodes one key component and appends its hashed
// address fragment to dst.
func appendKey(dst []byte, kind hasher.Kind, key any) ([]byte, error) {
	bs, err := scale.Marshal(key)
	if err != nil {
		return nil, err
	}
	return kind.Append(dst, bs), nil
}
