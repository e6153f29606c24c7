package scale

import "math/big"

// Ptr returns a pointer to v. Generated bindings use it to construct
// present option values in literal expressions.
func Ptr[T any](v T) *T { return &v }

// MustBig returns the big.Int encoded in the decimal string s,
// panicking if s is malformed. Generated bindings use it for 128-bit
// literal values.
func MustBig(s string) *big.Int {
	ret, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("malformed big integer literal " + s)
	}
	return ret
}
