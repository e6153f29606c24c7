// Package scale implements the SCALE binary encoding used by
// substrate-based chains: little-endian fixed-width integers, compact
// variable-length integers, length-prefixed collections, and
// presence-byte options.
//
// The package provides both low-level cursor types ([Decoder],
// [Encoder]) and a reflection-driven codec ([Marshal], [Unmarshal])
// for whole Go values. Generated bindings use the reflection codec to
// encode storage keys and decode fetched values; types with
// non-structural encodings (tagged unions) implement [Marshaler] and
// [Unmarshaler] instead.
package scale
