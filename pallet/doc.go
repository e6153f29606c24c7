// Package pallet is the runtime support layer for generated storage
// bindings. It computes storage addresses from typed keys, reads raw
// state through a caller-supplied [StateReader], and decodes the
// result, falling back to a declared default when the entry is
// absent.
//
// Generated code instantiates [Cell] for plain entries and [Map]
// through [Map6] for keyed entries; nothing here is specific to one
// chain.
package pallet
