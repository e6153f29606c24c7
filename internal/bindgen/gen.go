// Package bindgen renders a resolved descriptor graph as Go source:
// one file of shared type declarations, and one file of storage and
// constant bindings per pallet.
package bindgen

import (
	"bytes"
	"fmt"
	"go/format"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/creachadair/mds/mapset"
	"github.com/substrate-tools/palletgen"
)

// Import paths of the packages generated code can reference.
const (
	pkgValue  = "github.com/creachadair/mds/value"
	pkgHasher = "github.com/substrate-tools/palletgen/hasher"
	pkgPallet = "github.com/substrate-tools/palletgen/pallet"
	pkgScale  = "github.com/substrate-tools/palletgen/scale"
)

type generator struct {
	out     bytes.Buffer
	imports mapset.Set[string]
}

func newGenerator() *generator {
	return &generator{imports: mapset.New[string]()}
}

// need records an import the emitted code references. Imports are
// tracked at the emission site, never inferred from the output text,
// which may quote arbitrary document strings.
func (g *generator) need(path string) { g.imports.Add(path) }

// typeRef records the imports a rendered type reference requires and
// returns it unchanged.
func (g *generator) typeRef(typ string) string {
	if strings.Contains(typ, "big.Int") {
		g.need("math/big")
	}
	return typ
}

// literal records the imports a literal expression requires and
// returns its source text. Constructor helpers are the only package
// references a literal can carry.
func (g *generator) literal(e palletgen.Expr) string {
	src := e.Go()
	if refsOutsideStrings(src, "scale.") {
		g.need(pkgScale)
	}
	return src
}

// refsOutsideStrings reports whether token occurs in src outside of
// double-quoted string literals, whose contents come from the
// document and prove nothing about the code around them.
func refsOutsideStrings(src, token string) bool {
	var code strings.Builder
	inStr := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case inStr && c == '\\':
			i++
		case c == '"':
			inStr = !inStr
		case !inStr:
			code.WriteByte(c)
		}
	}
	return strings.Contains(code.String(), token)
}

func (g *generator) s(s string) {
	g.out.WriteString(s)
}

func (g *generator) f(msg string, args ...any) {
	fmt.Fprintf(&g.out, msg, args...)
}

// docs writes lines as a doc comment, or the formatted fallback when
// the source declared none.
func (g *generator) docs(lines []string, fallback string, args ...any) {
	if len(lines) == 0 {
		g.f("// "+fallback+"\n", args...)
		return
	}
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			g.s("//\n")
		} else {
			g.f("// %s\n", ln)
		}
	}
}

// finish prepends the file header and the imports recorded during
// emission, then formats the whole file. On a formatting failure the
// unformatted text is returned alongside the error, for diagnosis.
func (g *generator) finish(pkg string) (string, error) {
	var out bytes.Buffer
	fmt.Fprintf(&out, "// Code generated by palletgen. DO NOT EDIT.\n\npackage %s\n\n", pkg)

	var std, dep []string
	for p := range g.imports {
		if strings.Contains(p, ".") {
			dep = append(dep, p)
		} else {
			std = append(std, p)
		}
	}
	slices.Sort(std)
	slices.Sort(dep)

	if len(std)+len(dep) > 0 {
		out.WriteString("import (\n")
		for _, p := range std {
			fmt.Fprintf(&out, "%q\n", p)
		}
		if len(std) > 0 && len(dep) > 0 {
			out.WriteString("\n")
		}
		for _, p := range dep {
			fmt.Fprintf(&out, "%q\n", p)
		}
		out.WriteString(")\n\n")
	}
	out.Write(g.out.Bytes())

	ret, err := format.Source(out.Bytes())
	if err != nil {
		return out.String(), err
	}
	return string(ret), nil
}

// Types renders the declarations of every named type in the graph:
// struct declarations for named composites, and for each variant the
// union struct, its per-case payload structs, and the codec methods
// that map the discriminant byte to the case fields.
func Types(graph *palletgen.Graph, pkg string) (string, error) {
	g := newGenerator()
	for _, t := range graph.Registry.Types() {
		switch t.Kind {
		case palletgen.KindComposite:
			if t.Name != "" {
				g.composite(t)
			}
		case palletgen.KindVariant:
			g.variant(t)
		}
	}
	return g.finish(pkg)
}

func (g *generator) composite(t *palletgen.Type) {
	if len(t.Path) > 0 {
		g.f("// %s corresponds to %s.\n", t.Name, strings.Join(t.Path, "::"))
	}
	g.f("type %s struct {\n", t.Name)
	for i := range t.Fields {
		g.f("%s %s\n", t.FieldName(i), g.typeRef(t.FieldType(i).GoType()))
	}
	g.s("}\n\n")
}

func (g *generator) variant(t *palletgen.Type) {
	g.need("fmt")
	g.need(pkgScale)
	g.f("// %s is a tagged union. Exactly one case field is non-nil.\n", t.Name)
	g.f("type %s struct {\n", t.Name)
	for _, c := range t.Cases {
		g.f("%s *%s\n", t.CaseField(c), t.CaseType(c))
	}
	g.s("}\n\n")

	for _, c := range t.Cases {
		g.f("// %s is the payload of the %s case of %s.\n", t.CaseType(c), c.Name, t.Name)
		g.f("type %s struct {\n", t.CaseType(c))
		for i := range c.Fields {
			g.f("%s %s\n", c.FieldName(i), g.typeRef(t.CaseFieldType(c, i).GoType()))
		}
		g.s("}\n\n")
	}

	g.f("func (v %s) MarshalSCALE(e *scale.Encoder) error {\nswitch {\n", t.Name)
	for _, c := range t.Cases {
		g.f("case v.%s != nil:\ne.Uint8(%d)\nreturn e.Value(*v.%s)\n", t.CaseField(c), c.Index, t.CaseField(c))
	}
	g.f("}\nreturn fmt.Errorf(\"%s: no case set\")\n}\n\n", t.Name)

	g.f("func (v *%s) UnmarshalSCALE(d *scale.Decoder) error {\n*v = %s{}\ntag, err := d.Uint8()\nif err != nil {\nreturn err\n}\nswitch tag {\n", t.Name, t.Name)
	for _, c := range t.Cases {
		g.f("case %d:\nv.%s = new(%s)\nreturn d.Value(v.%s)\n", c.Index, t.CaseField(c), t.CaseType(c), t.CaseField(c))
	}
	g.f("}\nreturn d.Errorf(\"%s: unknown discriminant %%d\", tag)\n}\n\n", t.Name)
}

// Pallet renders the bindings for one pallet: an access struct over a
// [pallet.StateReader], one descriptor var and read method per
// storage entry, and one package var per constant.
func Pallet(graph *palletgen.Graph, p *palletgen.Pallet, pkg string) (string, error) {
	g := newGenerator()
	g.need(pkgPallet)
	name := publicIdentifier(p.Name)

	g.f(`// %[1]s provides typed reads of the %[2]s pallet's storage and
// constants.
type %[1]s struct {
	r pallet.StateReader
}

// New%[1]s returns %[2]s bindings that read state through r.
func New%[1]s(r pallet.StateReader) %[1]s {
	return %[1]s{r: r}
}

`, name, p.Name)

	if len(p.Storage) > 0 {
		g.s("var (\n")
		for _, st := range p.Storage {
			g.storageVar(p, st)
		}
		g.s(")\n\n")
	}
	for _, st := range p.Storage {
		g.storageMethod(p, st, name)
	}
	for _, c := range p.Constants {
		g.constant(p, c, name)
	}

	return g.finish(pkg)
}

// storageVarName is the package-private descriptor var for one entry.
func storageVarName(p *palletgen.Pallet, st *palletgen.Storage) string {
	return privateIdentifier(p.Name) + publicIdentifier(st.Name)
}

func (g *generator) storageVar(p *palletgen.Pallet, st *palletgen.Storage) {
	def := ""
	if !st.Optional {
		def = ", " + g.literal(st.DefaultLiteral)
	}
	if st.Arity() == 0 {
		g.f("%s = pallet.NewCell[%s](%q, %q%s)\n",
			storageVarName(p, st), g.typeRef(st.Value.GoType()), p.Name, st.Name, def)
		return
	}

	g.need(pkgHasher)
	ctor := "NewMap"
	if st.Arity() > 1 {
		ctor = fmt.Sprintf("NewMap%d", st.Arity())
	}
	var params, kinds []string
	for _, k := range st.Keys {
		params = append(params, g.typeRef(k.Type.GoType()))
		kinds = append(kinds, "hasher."+k.Hasher.String())
	}
	params = append(params, g.typeRef(st.Value.GoType()))
	g.f("%s = pallet.%s[%s](%q, %q, %s%s)\n",
		storageVarName(p, st), ctor, strings.Join(params, ", "),
		p.Name, st.Name, strings.Join(kinds, ", "), def)
}

func (g *generator) storageMethod(p *palletgen.Pallet, st *palletgen.Storage, name string) {
	g.need("context")
	mname := publicIdentifier(st.Name)
	var params, args []string
	for i, k := range st.Keys {
		params = append(params, fmt.Sprintf("k%d %s", i+1, g.typeRef(k.Type.GoType())))
		args = append(args, fmt.Sprintf("k%d", i+1))
	}
	paramText := ""
	if len(params) > 0 {
		paramText = strings.Join(params, ", ") + ", "
	}
	argText := ""
	if len(args) > 0 {
		argText = strings.Join(args, ", ") + ", "
	}

	g.docs(st.Docs, "%s reads the %s storage entry.", mname, st.Name)
	if st.Optional {
		g.need(pkgValue)
		g.f("func (p %s) %s(ctx context.Context, %sopts ...pallet.ReadOption) (value.Maybe[%s], error) {\n",
			name, mname, paramText, g.typeRef(st.Value.GoType()))
		g.f("return %s.Lookup(ctx, p.r, %sopts...)\n}\n\n", storageVarName(p, st), argText)
	} else {
		g.f("func (p %s) %s(ctx context.Context, %sopts ...pallet.ReadOption) (%s, error) {\n",
			name, mname, paramText, g.typeRef(st.Value.GoType()))
		g.f("return %s.Get(ctx, p.r, %sopts...)\n}\n\n", storageVarName(p, st), argText)
	}
}

func (g *generator) constant(p *palletgen.Pallet, c *palletgen.Constant, name string) {
	cname := name + publicIdentifier(c.Name)
	g.docs(c.Docs, "%s is the %s constant of the %s pallet.", cname, c.Name, p.Name)
	g.f("var %s %s = %s\n\n", cname, g.typeRef(c.Type.GoType()), g.literal(c.Literal))
}

func identifier(s string) string {
	fs := strings.Split(s, "_")
	for i := range fs {
		switch fs[i] {
		case "id":
			fs[i] = "ID"
		case "":
		default:
			if i > 0 {
				fs[i] = strings.Title(fs[i])
			}
		}
	}
	return strings.Join(fs, "")
}

func publicIdentifier(s string) string {
	return strings.Title(identifier(s))
}

func privateIdentifier(s string) string {
	s = identifier(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
