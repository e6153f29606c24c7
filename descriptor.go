package palletgen

import (
	"fmt"
	"strings"
)

// A TypeKind discriminates the structural shape of a [Type].
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindTuple
	KindComposite
	KindVariant
	KindSequence
	KindArray
	KindOption
	KindCompact
)

// A Primitive identifies one of the leaf wire types.
type Primitive int

const (
	Bool Primitive = iota
	U8
	U16
	U32
	U64
	U128
	I8
	I16
	I32
	I64
	I128
	Str
)

var primFromToken = map[string]Primitive{
	"bool": Bool,
	"u8":   U8,
	"u16":  U16,
	"u32":  U32,
	"u64":  U64,
	"u128": U128,
	"i8":   I8,
	"i16":  I16,
	"i32":  I32,
	"i64":  I64,
	"i128": I128,
	"str":  Str,
}

var primGoType = map[Primitive]string{
	Bool: "bool",
	U8:   "uint8",
	U16:  "uint16",
	U32:  "uint32",
	U64:  "uint64",
	U128: "*big.Int",
	I8:   "int8",
	I16:  "int16",
	I32:  "int32",
	I64:  "int64",
	I128: "*big.Int",
	Str:  "string",
}

// A Field is one named component of a composite type or variant
// payload. Name may be empty for tuple-style components.
type Field struct {
	Name string
	Type uint32
}

// A Case is one case of a tagged union, selected on the wire by its
// Index byte.
type Case struct {
	Index  uint8
	Name   string
	Fields []Field
}

// A Type is one resolved descriptor of the type graph. Member types
// are referenced by id and resolved through the owning [Registry],
// never embedded, so recursive definitions stay finite.
//
// Types are immutable once [Load] returns.
type Type struct {
	ID   uint32
	Kind TypeKind
	// Path is the declared path of a named type, verbatim from the
	// document.
	Path []string
	// Name is the Go type name assigned to named composites and to
	// every variant. Empty for anonymous composites, which render
	// inline.
	Name string

	Prim   Primitive // KindPrimitive
	Elems  []uint32  // KindTuple
	Fields []Field   // KindComposite
	Cases  []Case    // KindVariant
	Elem   uint32    // KindSequence, KindArray, KindOption
	Len    uint32    // KindArray
	Bits   int       // KindCompact

	reg *Registry
}

// fill populates t from its raw definition. References to other
// types are recorded by id and not resolved here.
func (t *Type) fill(ent *TypeEntry) error {
	t.Path = ent.Path
	def := ent.Def
	set := 0
	if def.Primitive != "" {
		prim, ok := primFromToken[def.Primitive]
		if !ok {
			return fmt.Errorf("type %d: unknown primitive %q", t.ID, def.Primitive)
		}
		t.Kind, t.Prim = KindPrimitive, prim
		set++
	}
	if def.Tuple != nil {
		t.Kind, t.Elems = KindTuple, *def.Tuple
		set++
	}
	if def.Composite != nil {
		t.Kind = KindComposite
		for _, f := range def.Composite {
			t.Fields = append(t.Fields, Field{f.Name, f.Type})
		}
		set++
	}
	if def.Variant != nil {
		t.Kind = KindVariant
		for _, c := range def.Variant {
			fields := make([]Field, 0, len(c.Fields))
			for _, f := range c.Fields {
				fields = append(fields, Field{f.Name, f.Type})
			}
			t.Cases = append(t.Cases, Case{c.Index, c.Name, fields})
		}
		set++
	}
	if def.Sequence != nil {
		t.Kind, t.Elem = KindSequence, def.Sequence.Elem
		set++
	}
	if def.Array != nil {
		t.Kind, t.Elem, t.Len = KindArray, def.Array.Elem, def.Array.Len
		set++
	}
	if def.Option != nil {
		t.Kind, t.Elem = KindOption, def.Option.Elem
		set++
	}
	if def.Compact != nil {
		t.Kind, t.Bits = KindCompact, def.Compact.Bits
		set++
	}
	if set != 1 {
		return fmt.Errorf("type %d: definition must have exactly one shape, got %d", t.ID, set)
	}
	return nil
}

// refs returns the ids of the types t references directly.
func (t *Type) refs() []uint32 {
	switch t.Kind {
	case KindTuple:
		return t.Elems
	case KindComposite:
		ret := make([]uint32, 0, len(t.Fields))
		for _, f := range t.Fields {
			ret = append(ret, f.Type)
		}
		return ret
	case KindVariant:
		var ret []uint32
		for _, c := range t.Cases {
			for _, f := range c.Fields {
				ret = append(ret, f.Type)
			}
		}
		return ret
	case KindSequence, KindArray, KindOption:
		return []uint32{t.Elem}
	}
	return nil
}

// member resolves a referenced type id. It panics on a dangling id:
// Load walks the whole reachable graph before descriptors are handed
// out, so a miss here is a bug, not bad input.
func (t *Type) member(id uint32) *Type {
	m, ok := t.reg.types[id]
	if !ok {
		panic(UnresolvedTypeError{id})
	}
	return m
}

// isByte reports whether the type with the given id is the u8
// primitive, which makes sequences and arrays of it render as byte
// strings.
func (t *Type) isByte(id uint32) bool {
	m := t.member(id)
	return m.Kind == KindPrimitive && m.Prim == U8
}

// GoType returns the Go type that represents values of t in
// generated bindings: named types for named composites and variants,
// inline structs for tuples and anonymous composites, slices and
// arrays for the ordered containers, a pointer for options, and the
// smallest Go integer that can hold a compact of t's width.
func (t *Type) GoType() string {
	switch t.Kind {
	case KindPrimitive:
		return primGoType[t.Prim]
	case KindCompact:
		switch {
		case t.Bits <= 8:
			return "uint8"
		case t.Bits <= 16:
			return "uint16"
		case t.Bits <= 32:
			return "uint32"
		case t.Bits <= 64:
			return "uint64"
		default:
			return "*big.Int"
		}
	case KindTuple:
		var ret strings.Builder
		ret.WriteString("struct {")
		for i, id := range t.Elems {
			if i > 0 {
				ret.WriteString(";")
			}
			fmt.Fprintf(&ret, " F%d %s", i, t.member(id).GoType())
		}
		ret.WriteString(" }")
		if len(t.Elems) == 0 {
			return "struct{}"
		}
		return ret.String()
	case KindComposite:
		if t.Name != "" {
			return t.Name
		}
		var ret strings.Builder
		ret.WriteString("struct {")
		for i, f := range t.Fields {
			if i > 0 {
				ret.WriteString(";")
			}
			fmt.Fprintf(&ret, " %s %s", goFieldName(f.Name, i), t.member(f.Type).GoType())
		}
		ret.WriteString(" }")
		if len(t.Fields) == 0 {
			return "struct{}"
		}
		return ret.String()
	case KindVariant:
		return t.Name
	case KindSequence:
		if t.isByte(t.Elem) {
			return "[]byte"
		}
		return "[]" + t.member(t.Elem).GoType()
	case KindArray:
		if t.isByte(t.Elem) {
			return fmt.Sprintf("[%d]byte", t.Len)
		}
		return fmt.Sprintf("[%d]%s", t.Len, t.member(t.Elem).GoType())
	case KindOption:
		return "*" + t.member(t.Elem).GoType()
	}
	panic(fmt.Sprintf("unknown type kind %d", int(t.Kind)))
}

// CaseType returns the Go type name of a variant case's payload
// struct.
func (t *Type) CaseType(c Case) string {
	return t.Name + publicIdentifier(c.Name)
}

// CaseField returns the name of the union struct field holding case
// c's payload pointer.
func (t *Type) CaseField(c Case) string {
	return publicIdentifier(c.Name)
}

// FieldName returns the Go name of the i-th composite field.
func (t *Type) FieldName(i int) string {
	return goFieldName(t.Fields[i].Name, i)
}

// FieldType returns the resolved type of the i-th composite field.
func (t *Type) FieldType(i int) *Type {
	return t.member(t.Fields[i].Type)
}

// CaseFieldType returns the resolved type of the i-th field of case
// c's payload.
func (t *Type) CaseFieldType(c Case, i int) *Type {
	return t.member(c.Fields[i].Type)
}

// FieldName returns the Go name of the i-th payload field.
func (c Case) FieldName(i int) string {
	return goFieldName(c.Fields[i].Name, i)
}
