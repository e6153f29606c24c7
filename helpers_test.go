package palletgen_test

import (
	"testing"

	"github.com/substrate-tools/palletgen"
)

// Builders for type table fixtures.

func prim(id uint32, token string) palletgen.TypeEntry {
	return palletgen.TypeEntry{ID: id, Def: palletgen.TypeDef{Primitive: token}}
}

func tuple(id uint32, elems ...uint32) palletgen.TypeEntry {
	if elems == nil {
		elems = []uint32{}
	}
	return palletgen.TypeEntry{ID: id, Def: palletgen.TypeDef{Tuple: &elems}}
}

func composite(id uint32, path []string, fields ...palletgen.FieldDef) palletgen.TypeEntry {
	if fields == nil {
		fields = []palletgen.FieldDef{}
	}
	return palletgen.TypeEntry{ID: id, Path: path, Def: palletgen.TypeDef{Composite: fields}}
}

func variant(id uint32, path []string, cases ...palletgen.CaseDef) palletgen.TypeEntry {
	if cases == nil {
		cases = []palletgen.CaseDef{}
	}
	return palletgen.TypeEntry{ID: id, Path: path, Def: palletgen.TypeDef{Variant: cases}}
}

func seq(id, elem uint32) palletgen.TypeEntry {
	return palletgen.TypeEntry{ID: id, Def: palletgen.TypeDef{Sequence: &palletgen.ElemDef{Elem: elem}}}
}

func array(id, ln, elem uint32) palletgen.TypeEntry {
	return palletgen.TypeEntry{ID: id, Def: palletgen.TypeDef{Array: &palletgen.ArrayDef{Len: ln, Elem: elem}}}
}

func option(id, elem uint32) palletgen.TypeEntry {
	return palletgen.TypeEntry{ID: id, Def: palletgen.TypeDef{Option: &palletgen.ElemDef{Elem: elem}}}
}

func compact(id uint32, bits int) palletgen.TypeEntry {
	return palletgen.TypeEntry{ID: id, Def: palletgen.TypeDef{Compact: &palletgen.CompactDef{Bits: bits}}}
}

func field(name string, typ uint32) palletgen.FieldDef {
	return palletgen.FieldDef{Name: name, Type: typ}
}

func loadDoc(t *testing.T, doc *palletgen.Document) *palletgen.Graph {
	t.Helper()
	g, err := palletgen.Load(doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return g
}

func mustType(t *testing.T, g *palletgen.Graph, id uint32) *palletgen.Type {
	t.Helper()
	typ, err := g.Registry.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup(%d): %v", id, err)
	}
	return typ
}
