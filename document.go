package palletgen

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// A Document is the parsed form of one chain metadata document: a
// type table plus per-pallet storage and constant declarations. It
// is the raw input to [Load]; how the document reaches this process
// (file, RPC, embedded) is the caller's concern.
type Document struct {
	Version int         `json:"version"`
	Types   []TypeEntry `json:"types"`
	Pallets []PalletDef `json:"pallets"`
}

// A TypeEntry declares one entry of the type table.
type TypeEntry struct {
	ID   uint32   `json:"id"`
	Path []string `json:"path,omitempty"`
	Def  TypeDef  `json:"def"`
}

// A TypeDef is a one-of over the supported type shapes. Exactly one
// arm must be set.
type TypeDef struct {
	Primitive string      `json:"primitive,omitempty"`
	Tuple     *[]uint32   `json:"tuple,omitempty"`
	Composite []FieldDef  `json:"composite,omitempty"`
	Variant   []CaseDef   `json:"variant,omitempty"`
	Sequence  *ElemDef    `json:"sequence,omitempty"`
	Array     *ArrayDef   `json:"array,omitempty"`
	Option    *ElemDef    `json:"option,omitempty"`
	Compact   *CompactDef `json:"compact,omitempty"`
}

// A FieldDef declares one field of a composite or variant payload.
// Name may be empty for tuple-style fields.
type FieldDef struct {
	Name string `json:"name,omitempty"`
	Type uint32 `json:"type"`
}

// A CaseDef declares one case of a tagged union, selected on the
// wire by its Index byte.
type CaseDef struct {
	Index  uint8      `json:"index"`
	Name   string     `json:"name"`
	Fields []FieldDef `json:"fields,omitempty"`
}

// An ElemDef names the element type of a sequence or the inner type
// of an option.
type ElemDef struct {
	Elem uint32 `json:"elem"`
}

// An ArrayDef declares a fixed-length array type.
type ArrayDef struct {
	Len  uint32 `json:"len"`
	Elem uint32 `json:"elem"`
}

// A CompactDef declares a compact integer type of the given bit
// width.
type CompactDef struct {
	Bits int `json:"bits"`
}

// A PalletDef declares one pallet's storage entries and constants.
type PalletDef struct {
	Name      string        `json:"name"`
	Storage   []StorageDef  `json:"storage,omitempty"`
	Constants []ConstantDef `json:"constants,omitempty"`
}

// A StorageDef declares one addressable storage entry.
type StorageDef struct {
	Name string `json:"name"`
	// Modifier is "default" or "optional". An absent optional entry
	// reads as explicitly empty; an absent default entry reads as
	// the precomputed Default value.
	Modifier string `json:"modifier"`
	// Key is the id of the key type, absent for plain (arity 0)
	// values. With more than one hasher it must name a tuple whose
	// components pair positionally with Hashers.
	Key     *uint32  `json:"key,omitempty"`
	Hashers []string `json:"hashers,omitempty"`
	Value   uint32   `json:"value"`
	Default HexBytes `json:"default,omitempty"`
	Docs    []string `json:"docs,omitempty"`
}

// A ConstantDef declares one named constant with its precomputed
// encoded value.
type ConstantDef struct {
	Name  string   `json:"name"`
	Type  uint32   `json:"type"`
	Value HexBytes `json:"value,omitempty"`
	Docs  []string `json:"docs,omitempty"`
}

// HexBytes is a byte slice carried in JSON as a 0x-prefixed hex
// string, the convention chain tooling uses for encoded values.
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(h))
}

func (h *HexBytes) UnmarshalJSON(bs []byte) error {
	var s string
	if err := json.Unmarshal(bs, &s); err != nil {
		return err
	}
	s = strings.TrimPrefix(s, "0x")
	ret, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex value %q: %w", s, err)
	}
	*h = ret
	return nil
}

// ParseDocument parses the JSON encoding of a metadata document.
func ParseDocument(bs []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(bs, &doc); err != nil {
		return nil, fmt.Errorf("parsing metadata document: %w", err)
	}
	return &doc, nil
}
