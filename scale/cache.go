package scale

import (
	"fmt"
	"reflect"
	"sync"
)

// A codecCache memoizes derived codec funcs by type. Recursive types
// are legal in SCALE (a composite may contain an option of itself),
// so a lookup that re-enters a type currently being derived gets the
// onPending trampoline instead of deadlocking or erroring.
type codecCache[V any] struct {
	onPending func(reflect.Type) V
	m         sync.Map
}

// deriving marks a cache slot whose codec is still being built.
var deriving = new(int)

// Get returns the cached codec for t, deriving and publishing it
// with build on first use.
func (c *codecCache[V]) Get(t reflect.Type, build func(reflect.Type) V) V {
	ent, loaded := c.m.LoadOrStore(t, deriving)
	if loaded {
		if ent == any(deriving) {
			return c.onPending(t)
		}
		if val, ok := ent.(V); ok {
			return val
		}
		panic(fmt.Sprintf("mystery value %v (%T) in codec cache", ent, ent))
	}
	ret := build(t)
	c.m.CompareAndSwap(t, deriving, ret)
	return ret
}

// lookup returns the published codec for t, if derivation has
// completed.
func (c *codecCache[V]) lookup(t reflect.Type) (val V, ok bool) {
	ent, loaded := c.m.Load(t)
	if !loaded || ent == any(deriving) {
		var zero V
		return zero, false
	}
	return ent.(V), true
}
