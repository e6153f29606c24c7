package palletgen

import (
	"fmt"

	"github.com/creachadair/mds/mapset"
)

// A Pallet groups the storage entries and constants of one named
// module, in declaration order.
type Pallet struct {
	Name      string
	Storage   []*Storage
	Constants []*Constant
}

// A Graph is one fully resolved metadata document: the type
// registry plus the per-pallet descriptors. It is immutable and is
// the unit handed to a code renderer.
type Graph struct {
	Registry *Registry
	Pallets  []*Pallet
}

// Load resolves doc into a descriptor graph. Every type reachable
// from a storage entry or constant is resolved, storage declarations
// are validated against their key types, and constant values and
// storage defaults are decoded into Go literal expressions.
//
// Any failure aborts the whole load: there is no partial graph.
func Load(doc *Document) (*Graph, error) {
	reg := newRegistry(doc)
	g := &Graph{Registry: reg}

	for _, pd := range doc.Pallets {
		p := &Pallet{Name: pd.Name}
		for _, sd := range pd.Storage {
			st, err := newStorage(reg, pd.Name, sd)
			if err != nil {
				return nil, err
			}
			p.Storage = append(p.Storage, st)
		}
		for _, cd := range pd.Constants {
			c, err := newConstant(reg, pd.Name, cd)
			if err != nil {
				return nil, err
			}
			p.Constants = append(p.Constants, c)
		}
		g.Pallets = append(g.Pallets, p)
	}

	// Force-resolve everything reachable before any literal is
	// decoded, so decoding never encounters a half-resolved graph.
	visited := mapset.New[uint32]()
	for _, p := range g.Pallets {
		for _, st := range p.Storage {
			for _, k := range st.Keys {
				if err := reg.walk(k.Type.ID, visited); err != nil {
					return nil, fmt.Errorf("pallet %s storage %s: %w", p.Name, st.Name, err)
				}
			}
			if err := reg.walk(st.Value.ID, visited); err != nil {
				return nil, fmt.Errorf("pallet %s storage %s: %w", p.Name, st.Name, err)
			}
		}
		for _, c := range p.Constants {
			if err := reg.walk(c.Type.ID, visited); err != nil {
				return nil, fmt.Errorf("pallet %s constant %s: %w", p.Name, c.Name, err)
			}
		}
	}

	reg.assignNames()
	if err := reg.checkInlineCycles(); err != nil {
		return nil, err
	}

	for _, p := range g.Pallets {
		for _, st := range p.Storage {
			if st.Optional {
				continue
			}
			lit, err := st.Value.DecodeLiteral(st.Default)
			if err != nil {
				return nil, fmt.Errorf("pallet %s storage %s default: %w", p.Name, st.Name, err)
			}
			st.DefaultLiteral = lit
		}
		for _, c := range p.Constants {
			lit, err := c.Type.DecodeLiteral(c.Value)
			if err != nil {
				return nil, fmt.Errorf("pallet %s constant %s: %w", p.Name, c.Name, err)
			}
			c.Literal = lit
		}
	}

	return g, nil
}
