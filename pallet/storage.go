package pallet

import (
	"context"
	"slices"

	"github.com/creachadair/mds/value"
	"github.com/substrate-tools/palletgen/hasher"
	"github.com/substrate-tools/palletgen/scale"
)

// lookup performs one raw read at key and decodes the result.
// Absence passes through undisturbed; decoding failures are reported,
// not swallowed into absence.
func lookup[V any](ctx context.Context, r StateReader, key []byte, opts []ReadOption) (value.Maybe[V], error) {
	o := resolveOpts(opts)
	raw, err := r.Read(ctx, key, o.at)
	if err != nil {
		return value.Absent[V](), err
	}
	bs, ok := raw.GetOK()
	if !ok {
		return value.Absent[V](), nil
	}
	var v V
	if err := scale.Unmarshal(bs, &v); err != nil {
		return value.Absent[V](), err
	}
	return value.Just(v), nil
}

func getOr[V any](mv, def value.Maybe[V]) V {
	if v, ok := mv.GetOK(); ok {
		return v
	}
	if v, ok := def.GetOK(); ok {
		return v
	}
	var zero V
	return zero
}

// buildKey assembles a full storage address: the entry prefix
// followed by one hashed fragment per key component.
func buildKey(prefix []byte, hs []hasher.Kind, keys ...any) ([]byte, error) {
	dst := slices.Clone(prefix)
	for i, k := range keys {
		var err error
		dst, err = appendKey(dst, hs[i], k)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// A Cell is a storage entry with no key: one value at a fixed
// address.
type Cell[V any] struct {
	prefix []byte
	def    value.Maybe[V]
}

// NewCell describes the entry named entry in pallet. An optional
// final argument supplies the value that absent reads fall back to.
func NewCell[V any](pallet, entry string, def ...V) Cell[V] {
	c := Cell[V]{prefix: Prefix(pallet, entry)}
	if len(def) > 0 {
		c.def = value.Just(def[0])
	}
	return c
}

// Key returns the entry's storage address.
func (c Cell[V]) Key() []byte { return slices.Clone(c.prefix) }

// Lookup reads the entry, reporting absence explicitly and never
// substituting the default.
func (c Cell[V]) Lookup(ctx context.Context, r StateReader, opts ...ReadOption) (value.Maybe[V], error) {
	return lookup[V](ctx, r, c.prefix, opts)
}

// Get reads the entry, returning the declared default if it is
// absent.
func (c Cell[V]) Get(ctx context.Context, r StateReader, opts ...ReadOption) (V, error) {
	mv, err := c.Lookup(ctx, r, opts...)
	if err != nil {
		var zero V
		return zero, err
	}
	return getOr(mv, c.def), nil
}

// A Map is a storage entry keyed by one value.
type Map[K1, V any] struct {
	prefix []byte
	hs     [1]hasher.Kind
	def    value.Maybe[V]
}

func NewMap[K1, V any](pallet, entry string, h1 hasher.Kind, def ...V) Map[K1, V] {
	m := Map[K1, V]{prefix: Prefix(pallet, entry), hs: [1]hasher.Kind{h1}}
	if len(def) > 0 {
		m.def = value.Just(def[0])
	}
	return m
}

// Key returns the storage address of the entry under k1.
func (m Map[K1, V]) Key(k1 K1) ([]byte, error) {
	return buildKey(m.prefix, m.hs[:], k1)
}

func (m Map[K1, V]) Lookup(ctx context.Context, r StateReader, k1 K1, opts ...ReadOption) (value.Maybe[V], error) {
	key, err := m.Key(k1)
	if err != nil {
		return value.Absent[V](), err
	}
	return lookup[V](ctx, r, key, opts)
}

func (m Map[K1, V]) Get(ctx context.Context, r StateReader, k1 K1, opts ...ReadOption) (V, error) {
	mv, err := m.Lookup(ctx, r, k1, opts...)
	if err != nil {
		var zero V
		return zero, err
	}
	return getOr(mv, m.def), nil
}

// A Map2 is a storage entry keyed by two values, each hashed
// independently.
type Map2[K1, K2, V any] struct {
	prefix []byte
	hs     [2]hasher.Kind
	def    value.Maybe[V]
}

func NewMap2[K1, K2, V any](pallet, entry string, h1, h2 hasher.Kind, def ...V) Map2[K1, K2, V] {
	m := Map2[K1, K2, V]{prefix: Prefix(pallet, entry), hs: [2]hasher.Kind{h1, h2}}
	if len(def) > 0 {
		m.def = value.Just(def[0])
	}
	return m
}

func (m Map2[K1, K2, V]) Key(k1 K1, k2 K2) ([]byte, error) {
	return buildKey(m.prefix, m.hs[:], k1, k2)
}

func (m Map2[K1, K2, V]) Lookup(ctx context.Context, r StateReader, k1 K1, k2 K2, opts ...ReadOption) (value.Maybe[V], error) {
	key, err := m.Key(k1, k2)
	if err != nil {
		return value.Absent[V](), err
	}
	return lookup[V](ctx, r, key, opts)
}

func (m Map2[K1, K2, V]) Get(ctx context.Context, r StateReader, k1 K1, k2 K2, opts ...ReadOption) (V, error) {
	mv, err := m.Lookup(ctx, r, k1, k2, opts...)
	if err != nil {
		var zero V
		return zero, err
	}
	return getOr(mv, m.def), nil
}

// A Map3 is a storage entry keyed by three values.
type Map3[K1, K2, K3, V any] struct {
	prefix []byte
	hs     [3]hasher.Kind
	def    value.Maybe[V]
}

func NewMap3[K1, K2, K3, V any](pallet, entry string, h1, h2, h3 hasher.Kind, def ...V) Map3[K1, K2, K3, V] {
	m := Map3[K1, K2, K3, V]{prefix: Prefix(pallet, entry), hs: [3]hasher.Kind{h1, h2, h3}}
	if len(def) > 0 {
		m.def = value.Just(def[0])
	}
	return m
}

func (m Map3[K1, K2, K3, V]) Key(k1 K1, k2 K2, k3 K3) ([]byte, error) {
	return buildKey(m.prefix, m.hs[:], k1, k2, k3)
}

func (m Map3[K1, K2, K3, V]) Lookup(ctx context.Context, r StateReader, k1 K1, k2 K2, k3 K3, opts ...ReadOption) (value.Maybe[V], error) {
	key, err := m.Key(k1, k2, k3)
	if err != nil {
		return value.Absent[V](), err
	}
	return lookup[V](ctx, r, key, opts)
}

func (m Map3[K1, K2, K3, V]) Get(ctx context.Context, r StateReader, k1 K1, k2 K2, k3 K3, opts ...ReadOption) (V, error) {
	mv, err := m.Lookup(ctx, r, k1, k2, k3, opts...)
	if err != nil {
		var zero V
		return zero, err
	}
	return getOr(mv, m.def), nil
}

// A Map4 is a storage entry keyed by four values.
type Map4[K1, K2, K3, K4, V any] struct {
	prefix []byte
	hs     [4]hasher.Kind
	def    value.Maybe[V]
}

func NewMap4[K1, K2, K3, K4, V any](pallet, entry string, h1, h2, h3, h4 hasher.Kind, def ...V) Map4[K1, K2, K3, K4, V] {
	m := Map4[K1, K2, K3, K4, V]{prefix: Prefix(pallet, entry), hs: [4]hasher.Kind{h1, h2, h3, h4}}
	if len(def) > 0 {
		m.def = value.Just(def[0])
	}
	return m
}

func (m Map4[K1, K2, K3, K4, V]) Key(k1 K1, k2 K2, k3 K3, k4 K4) ([]byte, error) {
	return buildKey(m.prefix, m.hs[:], k1, k2, k3, k4)
}

func (m Map4[K1, K2, K3, K4, V]) Lookup(ctx context.Context, r StateReader, k1 K1, k2 K2, k3 K3, k4 K4, opts ...ReadOption) (value.Maybe[V], error) {
	key, err := m.Key(k1, k2, k3, k4)
	if err != nil {
		return value.Absent[V](), err
	}
	return lookup[V](ctx, r, key, opts)
}

func (m Map4[K1, K2, K3, K4, V]) Get(ctx context.Context, r StateReader, k1 K1, k2 K2, k3 K3, k4 K4, opts ...ReadOption) (V, error) {
	mv, err := m.Lookup(ctx, r, k1, k2, k3, k4, opts...)
	if err != nil {
		var zero V
		return zero, err
	}
	return getOr(mv, m.def), nil
}

// A Map5 is a storage entry keyed by five values.
type Map5[K1, K2, K3, K4, K5, V any] struct {
	prefix []byte
	hs     [5]hasher.Kind
	def    value.Maybe[V]
}

func NewMap5[K1, K2, K3, K4, K5, V any](pallet, entry string, h1, h2, h3, h4, h5 hasher.Kind, def ...V) Map5[K1, K2, K3, K4, K5, V] {
	m := Map5[K1, K2, K3, K4, K5, V]{prefix: Prefix(pallet, entry), hs: [5]hasher.Kind{h1, h2, h3, h4, h5}}
	if len(def) > 0 {
		m.def = value.Just(def[0])
	}
	return m
}

func (m Map5[K1, K2, K3, K4, K5, V]) Key(k1 K1, k2 K2, k3 K3, k4 K4, k5 K5) ([]byte, error) {
	return buildKey(m.prefix, m.hs[:], k1, k2, k3, k4, k5)
}

func (m Map5[K1, K2, K3, K4, K5, V]) Lookup(ctx context.Context, r StateReader, k1 K1, k2 K2, k3 K3, k4 K4, k5 K5, opts ...ReadOption) (value.Maybe[V], error) {
	key, err := m.Key(k1, k2, k3, k4, k5)
	if err != nil {
		return value.Absent[V](), err
	}
	return lookup[V](ctx, r, key, opts)
}

func (m Map5[K1, K2, K3, K4, K5, V]) Get(ctx context.Context, r StateReader, k1 K1, k2 K2, k3 K3, k4 K4, k5 K5, opts ...ReadOption) (V, error) {
	mv, err := m.Lookup(ctx, r, k1, k2, k3, k4, k5, opts...)
	if err != nil {
		var zero V
		return zero, err
	}
	return getOr(mv, m.def), nil
}

// A Map6 is a storage entry keyed by six values, the largest arity
// with a defined container shape.
type Map6[K1, K2, K3, K4, K5, K6, V any] struct {
	prefix []byte
	hs     [6]hasher.Kind
	def    value.Maybe[V]
}

func NewMap6[K1, K2, K3, K4, K5, K6, V any](pallet, entry string, h1, h2, h3, h4, h5, h6 hasher.Kind, def ...V) Map6[K1, K2, K3, K4, K5, K6, V] {
	m := Map6[K1, K2, K3, K4, K5, K6, V]{prefix: Prefix(pallet, entry), hs: [6]hasher.Kind{h1, h2, h3, h4, h5, h6}}
	if len(def) > 0 {
		m.def = value.Just(def[0])
	}
	return m
}

func (m Map6[K1, K2, K3, K4, K5, K6, V]) Key(k1 K1, k2 K2, k3 K3, k4 K4, k5 K5, k6 K6) ([]byte, error) {
	return buildKey(m.prefix, m.hs[:], k1, k2, k3, k4, k5, k6)
}

func (m Map6[K1, K2, K3, K4, K5, K6, V]) Lookup(ctx context.Context, r StateReader, k1 K1, k2 K2, k3 K3, k4 K4, k5 K5, k6 K6, opts ...ReadOption) (value.Maybe[V], error) {
	key, err := m.Key(k1, k2, k3, k4, k5, k6)
	if err != nil {
		return value.Absent[V](), err
	}
	return lookup[V](ctx, r, key, opts)
}

func (m Map6[K1, K2, K3, K4, K5, K6, V]) Get(ctx context.Context, r StateReader, k1 K1, k2 K2, k3 K3, k4 K4, k5 K5, k6 K6, opts ...ReadOption) (V, error) {
	mv, err := m.Lookup(ctx, r, k1, k2, k3, k4, k5, k6, opts...)
	if err != nil {
		var zero V
		return zero, err
	}
	return getOr(mv, m.def), nil
}
