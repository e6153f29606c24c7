package palletgen

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/creachadair/mds/mapset"
)

// A Registry resolves numeric type ids from one metadata document
// into [Type] descriptors. Resolution is lazy and shallow: resolving
// an id records its member references by id without expanding them,
// which is what keeps cyclic definitions finite.
//
// Registries from different loads never share state.
type Registry struct {
	defs  map[uint32]*TypeEntry
	types map[uint32]*Type
}

func newRegistry(doc *Document) *Registry {
	defs := make(map[uint32]*TypeEntry, len(doc.Types))
	for i := range doc.Types {
		ent := &doc.Types[i]
		defs[ent.ID] = ent
	}
	return &Registry{
		defs:  defs,
		types: make(map[uint32]*Type),
	}
}

// Lookup resolves id to its descriptor, returning
// [UnresolvedTypeError] for ids absent from the type table.
func (r *Registry) Lookup(id uint32) (*Type, error) {
	if t, ok := r.types[id]; ok {
		return t, nil
	}
	ent, ok := r.defs[id]
	if !ok {
		return nil, UnresolvedTypeError{id}
	}
	t := &Type{ID: id, reg: r}
	// Publish before filling, so a definition that references itself
	// resolves to this same descriptor.
	r.types[id] = t
	if err := t.fill(ent); err != nil {
		delete(r.types, id)
		return nil, err
	}
	return t, nil
}

// walk resolves id and everything reachable from it. The visited set
// bounds the walk on cyclic graphs.
func (r *Registry) walk(id uint32, visited mapset.Set[uint32]) error {
	if visited.Has(id) {
		return nil
	}
	visited.Add(id)
	t, err := r.Lookup(id)
	if err != nil {
		return err
	}
	for _, ref := range t.refs() {
		if err := r.walk(ref, visited); err != nil {
			return fmt.Errorf("in type %d: %w", id, err)
		}
	}
	return nil
}

// Types returns the resolved descriptors in id order.
func (r *Registry) Types() []*Type {
	ids := slices.Sorted(maps.Keys(r.types))
	ret := make([]*Type, 0, len(ids))
	for _, id := range ids {
		ret = append(ret, r.types[id])
	}
	return ret
}

// assignNames gives every named composite and every variant a unique
// Go type name, derived from the last path segment. Iteration is in
// id order so two loads of the same document name identically.
func (r *Registry) assignNames() {
	taken := mapset.New[string]()
	for _, t := range r.Types() {
		switch t.Kind {
		case KindComposite, KindVariant:
		default:
			continue
		}
		var cand string
		if len(t.Path) > 0 {
			cand = publicIdentifier(t.Path[len(t.Path)-1])
		}
		if cand == "" {
			if t.Kind == KindComposite {
				continue // anonymous composites render inline
			}
			// Variants need a name for their case payload types.
			cand = "Type" + strconv.FormatUint(uint64(t.ID), 10)
		}
		if taken.Has(cand) {
			cand += strconv.FormatUint(uint64(t.ID), 10)
		}
		taken.Add(cand)
		t.Name = cand
	}
}

// checkInlineCycles rejects reference cycles made only of unnamed
// shapes. Named types render as their name, which is what makes a
// recursive rendering terminate; a cycle with no named member has no
// finite Go type expression.
func (r *Registry) checkInlineCycles() error {
	const (
		rendering = 1
		done      = 2
	)
	state := make(map[uint32]int)
	var visit func(id uint32) error
	visit = func(id uint32) error {
		switch state[id] {
		case rendering:
			return fmt.Errorf("type %d is part of a reference cycle with no named type", id)
		case done:
			return nil
		}
		state[id] = rendering
		for _, ref := range r.types[id].refs() {
			m, ok := r.types[ref]
			if !ok || m.Name != "" {
				continue
			}
			if err := visit(ref); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for _, t := range r.Types() {
		if err := visit(t.ID); err != nil {
			return err
		}
	}
	return nil
}
