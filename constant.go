package palletgen

import "fmt"

// A Constant is one named constant with its precomputed value,
// decoded once at load time. Reading it through generated bindings
// involves no runtime work.
type Constant struct {
	Name  string
	Type  *Type
	Value []byte
	// Literal is Value decoded as a Go expression.
	Literal Expr
	Docs    []string
}

func newConstant(reg *Registry, pallet string, def ConstantDef) (*Constant, error) {
	t, err := reg.Lookup(def.Type)
	if err != nil {
		return nil, fmt.Errorf("pallet %s constant %s: %w", pallet, def.Name, err)
	}
	return &Constant{
		Name:  def.Name,
		Type:  t,
		Value: def.Value,
		Docs:  def.Docs,
	}, nil
}
