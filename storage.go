package palletgen

import (
	"github.com/substrate-tools/palletgen/hasher"
)

// maxStorageKeys is the largest key arity with a defined container
// shape. Entries beyond it are rejected rather than bound to some
// generic variadic shape.
const maxStorageKeys = 6

// hasherKinds maps the hasher tokens a metadata document may declare
// to their classification. hasher.Twox64 and hasher.Twox256Concat
// are legal classifications with no producing token; they stay
// constructible for forward compatibility but never appear here.
var hasherKinds = map[string]hasher.Kind{
	"Identity":         hasher.Identity,
	"Blake2_128":       hasher.Blake2_128,
	"Blake2_128Concat": hasher.Blake2_128Concat,
	"Blake2_256":       hasher.Blake2_256,
	"Twox64Concat":     hasher.Twox64Concat,
	"Twox128":          hasher.Twox128,
	"Twox128Concat":    hasher.Twox128Concat,
	"Twox256":          hasher.Twox256,
}

func hasherForToken(tok string) (hasher.Kind, error) {
	kind, ok := hasherKinds[tok]
	if !ok {
		return 0, UnknownHasherError{tok}
	}
	return kind, nil
}

// A StorageKey pairs one key component's type with the hasher that
// turns its encoding into a storage-address fragment.
type StorageKey struct {
	Hasher hasher.Kind
	Type   *Type
}

// A Storage describes one addressable storage entry: its key
// components in declaration order, its value type, and what an
// absent value reads as.
type Storage struct {
	Name string
	// Keys has one entry per key component; its length is the
	// entry's arity, at most 6.
	Keys  []StorageKey
	Value *Type
	// Default is the raw encoded fallback value. Reads of an absent
	// non-optional entry return it instead of failing.
	Default []byte
	// DefaultLiteral is Default decoded as a Go expression. Nil for
	// optional entries.
	DefaultLiteral Expr
	// Optional marks entries whose absence reads as explicitly
	// empty rather than as Default.
	Optional bool
	Docs     []string
}

// Arity returns the entry's key count.
func (s *Storage) Arity() int { return len(s.Keys) }

// newStorage validates and assembles one storage entry. The declared
// hasher count must agree with the key type: no key type means no
// hashers, one hasher keys directly, and several hashers require a
// tuple key whose components pair positionally with the hashers.
func newStorage(reg *Registry, pallet string, def StorageDef) (*Storage, error) {
	kinds := make([]hasher.Kind, 0, len(def.Hashers))
	for _, tok := range def.Hashers {
		kind, err := hasherForToken(tok)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	if len(kinds) > maxStorageKeys {
		return nil, UnsupportedArityError{len(kinds)}
	}

	var keys []StorageKey
	switch {
	case def.Key == nil:
		if len(kinds) > 0 {
			return nil, invalidStorage(pallet, def.Name, "%d hashers declared without a key type", len(kinds))
		}
	case len(kinds) == 0:
		return nil, invalidStorage(pallet, def.Name, "key type %d declared without hashers", *def.Key)
	case len(kinds) == 1:
		kt, err := reg.Lookup(*def.Key)
		if err != nil {
			return nil, invalidStorage(pallet, def.Name, "resolving key type: %w", err)
		}
		keys = []StorageKey{{kinds[0], kt}}
	default:
		kt, err := reg.Lookup(*def.Key)
		if err != nil {
			return nil, invalidStorage(pallet, def.Name, "resolving key type: %w", err)
		}
		if kt.Kind != KindTuple {
			return nil, invalidStorage(pallet, def.Name, "%d hashers declared but key type %d is not a tuple", len(kinds), kt.ID)
		}
		if len(kt.Elems) != len(kinds) {
			return nil, invalidStorage(pallet, def.Name, "%d hashers declared but key tuple has %d components", len(kinds), len(kt.Elems))
		}
		keys = make([]StorageKey, 0, len(kinds))
		for i, id := range kt.Elems {
			ct, err := reg.Lookup(id)
			if err != nil {
				return nil, invalidStorage(pallet, def.Name, "resolving key component %d: %w", i, err)
			}
			keys = append(keys, StorageKey{kinds[i], ct})
		}
	}

	value, err := reg.Lookup(def.Value)
	if err != nil {
		return nil, invalidStorage(pallet, def.Name, "resolving value type: %w", err)
	}

	return &Storage{
		Name:     def.Name,
		Keys:     keys,
		Value:    value,
		Default:  def.Default,
		Optional: def.Modifier == "optional",
		Docs:     def.Docs,
	}, nil
}
