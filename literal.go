package palletgen

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/substrate-tools/palletgen/scale"
)

// An Expr is a self-contained Go source fragment that constructs one
// decoded value. Expressions reference only generated types and the
// scale package's constructor helpers, never decoding machinery.
type Expr interface {
	// Go returns the expression as Go source text.
	Go() string
}

// litRaw is a verbatim token: integer and boolean literals, quoted
// strings, nil.
type litRaw struct {
	text string
}

func (l litRaw) Go() string { return l.text }

// litBig is a 128-bit integer, constructed from its decimal text.
type litBig struct {
	dec string
}

func (l litBig) Go() string { return fmt.Sprintf("scale.MustBig(%q)", l.dec) }

// litBytes is a byte slice or byte array literal.
type litBytes struct {
	typ string
	bs  []byte
}

func (l litBytes) Go() string {
	var ret strings.Builder
	ret.WriteString(l.typ)
	ret.WriteString("{")
	for i, b := range l.bs {
		if i > 0 {
			ret.WriteString(", ")
		}
		fmt.Fprintf(&ret, "0x%02x", b)
	}
	ret.WriteString("}")
	return ret.String()
}

type litField struct {
	name string
	val  Expr
}

// litCompound is a struct literal with named fields: tuples,
// composites, and variant constructions.
type litCompound struct {
	typ    string
	fields []litField
}

func (l litCompound) Go() string {
	var ret strings.Builder
	ret.WriteString(l.typ)
	ret.WriteString("{")
	for i, f := range l.fields {
		if i > 0 {
			ret.WriteString(", ")
		}
		ret.WriteString(f.name)
		ret.WriteString(": ")
		ret.WriteString(f.val.Go())
	}
	ret.WriteString("}")
	return ret.String()
}

// litSeq is a slice or array literal of non-byte elements.
type litSeq struct {
	typ   string
	elems []Expr
}

func (l litSeq) Go() string {
	var ret strings.Builder
	ret.WriteString(l.typ)
	ret.WriteString("{")
	for i, e := range l.elems {
		if i > 0 {
			ret.WriteString(", ")
		}
		ret.WriteString(e.Go())
	}
	ret.WriteString("}")
	return ret.String()
}

// litAddr takes the address of a composite literal, for present
// options and variant case payloads.
type litAddr struct {
	inner Expr
}

func (l litAddr) Go() string { return "&" + l.inner.Go() }

// litPtr wraps a non-addressable expression in scale.Ptr, with an
// explicit type argument since bare numeric literals carry no type.
type litPtr struct {
	typ   string
	inner Expr
}

func (l litPtr) Go() string { return fmt.Sprintf("scale.Ptr[%s](%s)", l.typ, l.inner.Go()) }

// DecodeLiteral decodes bs, which must be byte-exactly the SCALE
// encoding of one value of type t, into a Go literal expression. The
// buffer must be consumed exactly; leftover or missing bytes mean
// the type graph and the buffer disagree, and fail the decode.
func (t *Type) DecodeLiteral(bs []byte) (Expr, error) {
	d := scale.NewDecoder(bs)
	e, err := t.decodeLiteral(d)
	if err != nil {
		return nil, err
	}
	if err := d.Done(); err != nil {
		return nil, err
	}
	return e, nil
}

// decodeLiteral recurses over the descriptor shape, consuming the
// matching encoding. Recursion depth is bounded by the buffer's
// content, not the type graph's shape, so cyclic types are safe.
func (t *Type) decodeLiteral(d *scale.Decoder) (Expr, error) {
	switch t.Kind {
	case KindPrimitive:
		return t.decodePrimLiteral(d)

	case KindCompact:
		if t.Bits > 64 {
			v, err := d.CompactBig()
			if err != nil {
				return nil, err
			}
			return litBig{v.String()}, nil
		}
		u, err := d.Compact()
		if err != nil {
			return nil, err
		}
		return litRaw{strconv.FormatUint(u, 10)}, nil

	case KindTuple:
		fields := make([]litField, 0, len(t.Elems))
		for i, id := range t.Elems {
			e, err := t.member(id).decodeLiteral(d)
			if err != nil {
				return nil, err
			}
			fields = append(fields, litField{"F" + strconv.Itoa(i), e})
		}
		return litCompound{t.GoType(), fields}, nil

	case KindComposite:
		fields := make([]litField, 0, len(t.Fields))
		for i, f := range t.Fields {
			e, err := t.member(f.Type).decodeLiteral(d)
			if err != nil {
				return nil, err
			}
			fields = append(fields, litField{goFieldName(f.Name, i), e})
		}
		return litCompound{t.GoType(), fields}, nil

	case KindVariant:
		tag, err := d.Uint8()
		if err != nil {
			return nil, err
		}
		for _, c := range t.Cases {
			if c.Index != tag {
				continue
			}
			fields := make([]litField, 0, len(c.Fields))
			for i, f := range c.Fields {
				e, err := t.member(f.Type).decodeLiteral(d)
				if err != nil {
					return nil, err
				}
				fields = append(fields, litField{goFieldName(f.Name, i), e})
			}
			payload := litCompound{t.CaseType(c), fields}
			return litCompound{t.Name, []litField{
				{publicIdentifier(c.Name), litAddr{payload}},
			}}, nil
		}
		return nil, d.Errorf("type %d has no variant with discriminant %d", t.ID, tag)

	case KindSequence:
		if t.isByte(t.Elem) {
			bs, err := d.Bytes()
			if err != nil {
				return nil, err
			}
			return litBytes{"[]byte", bs}, nil
		}
		n, err := d.Compact()
		if err != nil {
			return nil, err
		}
		if n > uint64(d.Remaining()) {
			return nil, d.Errorf("sequence length %d overruns buffer (%d bytes remaining)", n, d.Remaining())
		}
		elem := t.member(t.Elem)
		elems := make([]Expr, 0, n)
		for i := uint64(0); i < n; i++ {
			e, err := elem.decodeLiteral(d)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return litSeq{t.GoType(), elems}, nil

	case KindArray:
		if t.isByte(t.Elem) {
			bs, err := d.Read(int(t.Len))
			if err != nil {
				return nil, err
			}
			return litBytes{t.GoType(), bs}, nil
		}
		elem := t.member(t.Elem)
		elems := make([]Expr, 0, t.Len)
		for i := uint32(0); i < t.Len; i++ {
			e, err := elem.decodeLiteral(d)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return litSeq{t.GoType(), elems}, nil

	case KindOption:
		present, err := d.Bool()
		if err != nil {
			return nil, err
		}
		if !present {
			return litRaw{"nil"}, nil
		}
		inner := t.member(t.Elem)
		e, err := inner.decodeLiteral(d)
		if err != nil {
			return nil, err
		}
		switch inner.Kind {
		case KindTuple, KindComposite, KindVariant, KindSequence, KindArray:
			// Composite literals are addressable directly.
			return litAddr{e}, nil
		default:
			return litPtr{inner.GoType(), e}, nil
		}
	}
	panic(fmt.Sprintf("unknown type kind %d", int(t.Kind)))
}

func (t *Type) decodePrimLiteral(d *scale.Decoder) (Expr, error) {
	switch t.Prim {
	case Bool:
		b, err := d.Bool()
		if err != nil {
			return nil, err
		}
		return litRaw{strconv.FormatBool(b)}, nil
	case U8:
		u, err := d.Uint8()
		if err != nil {
			return nil, err
		}
		return litRaw{strconv.FormatUint(uint64(u), 10)}, nil
	case U16:
		u, err := d.Uint16()
		if err != nil {
			return nil, err
		}
		return litRaw{strconv.FormatUint(uint64(u), 10)}, nil
	case U32:
		u, err := d.Uint32()
		if err != nil {
			return nil, err
		}
		return litRaw{strconv.FormatUint(uint64(u), 10)}, nil
	case U64:
		u, err := d.Uint64()
		if err != nil {
			return nil, err
		}
		return litRaw{strconv.FormatUint(u, 10)}, nil
	case U128:
		v, err := d.Uint128()
		if err != nil {
			return nil, err
		}
		return litBig{v.String()}, nil
	case I8:
		u, err := d.Uint8()
		if err != nil {
			return nil, err
		}
		return litRaw{strconv.FormatInt(int64(int8(u)), 10)}, nil
	case I16:
		u, err := d.Uint16()
		if err != nil {
			return nil, err
		}
		return litRaw{strconv.FormatInt(int64(int16(u)), 10)}, nil
	case I32:
		u, err := d.Uint32()
		if err != nil {
			return nil, err
		}
		return litRaw{strconv.FormatInt(int64(int32(u)), 10)}, nil
	case I64:
		u, err := d.Uint64()
		if err != nil {
			return nil, err
		}
		return litRaw{strconv.FormatInt(int64(u), 10)}, nil
	case I128:
		v, err := d.Uint128()
		if err != nil {
			return nil, err
		}
		// Two's complement: the top bit of the 16-byte value is the
		// sign.
		if v.Bit(127) == 1 {
			v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 128))
		}
		return litBig{v.String()}, nil
	case Str:
		s, err := d.String()
		if err != nil {
			return nil, err
		}
		return litRaw{strconv.Quote(s)}, nil
	}
	panic(fmt.Sprintf("unknown primitive %d", int(t.Prim)))
}
