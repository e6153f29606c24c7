package palletgen_test

import (
	"errors"
	"testing"

	"github.com/substrate-tools/palletgen"
	"github.com/substrate-tools/palletgen/hasher"
)

func storageTypes() []palletgen.TypeEntry {
	return []palletgen.TypeEntry{
		prim(0, "u32"),
		prim(1, "bool"),
		tuple(2, 0, 1),
		tuple(3, 0, 0, 0, 0, 0, 0, 0), // arity 7
		prim(4, "u128"),
	}
}

func storageDoc(entries ...palletgen.StorageDef) *palletgen.Document {
	return &palletgen.Document{
		Version: 1,
		Types:   storageTypes(),
		Pallets: []palletgen.PalletDef{{Name: "Demo", Storage: entries}},
	}
}

func u32p(v uint32) *uint32 { return &v }

func TestStorageAssembly(t *testing.T) {
	g := loadDoc(t, storageDoc(
		palletgen.StorageDef{
			Name:     "Plain",
			Modifier: "default",
			Value:    0,
			Default:  []byte{7, 0, 0, 0},
		},
		palletgen.StorageDef{
			Name:     "Single",
			Modifier: "optional",
			Key:      u32p(0),
			Hashers:  []string{"Blake2_128Concat"},
			Value:    4,
		},
		palletgen.StorageDef{
			Name:     "Double",
			Modifier: "default",
			Key:      u32p(2),
			Hashers:  []string{"Twox64Concat", "Identity"},
			Value:    1,
			Default:  []byte{0},
		},
	))

	entries := g.Pallets[0].Storage

	plain := entries[0]
	if plain.Arity() != 0 {
		t.Errorf("Plain arity = %d, want 0", plain.Arity())
	}
	if plain.Optional {
		t.Error("Plain is optional, want default")
	}
	if got := plain.DefaultLiteral.Go(); got != "7" {
		t.Errorf("Plain default literal = %s, want 7", got)
	}

	single := entries[1]
	if single.Arity() != 1 {
		t.Errorf("Single arity = %d, want 1", single.Arity())
	}
	if !single.Optional {
		t.Error("Single is not optional")
	}
	if single.DefaultLiteral != nil {
		t.Error("optional entry has a default literal")
	}
	if single.Keys[0].Hasher != hasher.Blake2_128Concat {
		t.Errorf("Single hasher = %v, want Blake2_128Concat", single.Keys[0].Hasher)
	}
	if got := single.Keys[0].Type.GoType(); got != "uint32" {
		t.Errorf("Single key type = %s, want uint32", got)
	}

	// Multiple hashers pair positionally with the key tuple's
	// components.
	double := entries[2]
	if double.Arity() != 2 {
		t.Fatalf("Double arity = %d, want 2", double.Arity())
	}
	if double.Keys[0].Hasher != hasher.Twox64Concat || double.Keys[1].Hasher != hasher.Identity {
		t.Errorf("Double hashers = %v, %v", double.Keys[0].Hasher, double.Keys[1].Hasher)
	}
	if got := double.Keys[1].Type.GoType(); got != "bool" {
		t.Errorf("Double second key type = %s, want bool", got)
	}
}

func TestStorageErrors(t *testing.T) {
	t.Run("unknown hasher", func(t *testing.T) {
		_, err := palletgen.Load(storageDoc(palletgen.StorageDef{
			Name: "E", Modifier: "default", Key: u32p(0),
			Hashers: []string{"Murmur3"}, Value: 0, Default: []byte{0, 0, 0, 0},
		}))
		var herr palletgen.UnknownHasherError
		if !errors.As(err, &herr) {
			t.Fatalf("Load error %v, want UnknownHasherError", err)
		}
		if herr.Token != "Murmur3" {
			t.Errorf("token = %q, want Murmur3", herr.Token)
		}
	})

	t.Run("dead hasher token", func(t *testing.T) {
		// Twox64 without concat is a legal classification but not a
		// declarable token.
		_, err := palletgen.Load(storageDoc(palletgen.StorageDef{
			Name: "E", Modifier: "default", Key: u32p(0),
			Hashers: []string{"Twox64"}, Value: 0, Default: []byte{0, 0, 0, 0},
		}))
		var herr palletgen.UnknownHasherError
		if !errors.As(err, &herr) {
			t.Fatalf("Load error %v, want UnknownHasherError", err)
		}
	})

	t.Run("arity seven", func(t *testing.T) {
		hs := []string{"Identity", "Identity", "Identity", "Identity", "Identity", "Identity", "Identity"}
		_, err := palletgen.Load(storageDoc(palletgen.StorageDef{
			Name: "E", Modifier: "default", Key: u32p(3),
			Hashers: hs, Value: 0, Default: []byte{0, 0, 0, 0},
		}))
		var aerr palletgen.UnsupportedArityError
		if !errors.As(err, &aerr) {
			t.Fatalf("Load error %v, want UnsupportedArityError", err)
		}
		if aerr.Arity != 7 {
			t.Errorf("arity = %d, want 7", aerr.Arity)
		}
	})

	invalid := []struct {
		name string
		def  palletgen.StorageDef
	}{
		{"hashers without key", palletgen.StorageDef{
			Name: "E", Modifier: "default",
			Hashers: []string{"Identity"}, Value: 0, Default: []byte{0, 0, 0, 0},
		}},
		{"key without hashers", palletgen.StorageDef{
			Name: "E", Modifier: "default", Key: u32p(0),
			Value: 0, Default: []byte{0, 0, 0, 0},
		}},
		{"two hashers non-tuple key", palletgen.StorageDef{
			Name: "E", Modifier: "default", Key: u32p(0),
			Hashers: []string{"Identity", "Identity"}, Value: 0, Default: []byte{0, 0, 0, 0},
		}},
		{"hasher count vs tuple arity", palletgen.StorageDef{
			Name: "E", Modifier: "default", Key: u32p(2),
			Hashers: []string{"Identity", "Identity", "Identity"}, Value: 0, Default: []byte{0, 0, 0, 0},
		}},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := palletgen.Load(storageDoc(tc.def))
			var serr palletgen.InvalidStorageDescriptorError
			if !errors.As(err, &serr) {
				t.Fatalf("Load error %v, want InvalidStorageDescriptorError", err)
			}
			if serr.Pallet != "Demo" || serr.Entry != "E" {
				t.Errorf("error names %s.%s, want Demo.E", serr.Pallet, serr.Entry)
			}
		})
	}
}
