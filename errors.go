package palletgen

import "fmt"

// UnresolvedTypeError is the error returned when a type definition,
// storage entry, or constant references a type id absent from the
// document's type table.
type UnresolvedTypeError struct {
	// ID is the dangling type id.
	ID uint32
}

func (e UnresolvedTypeError) Error() string {
	return fmt.Sprintf("no type with id %d in the type table", e.ID)
}

// UnknownHasherError is the error returned when a storage entry
// declares a hasher token with no known classification.
type UnknownHasherError struct {
	// Token is the unrecognized hasher token.
	Token string
}

func (e UnknownHasherError) Error() string {
	return fmt.Sprintf("unknown storage hasher %q", e.Token)
}

// UnsupportedArityError is the error returned when a storage entry
// declares more keys than any map shape supports. No container shape
// is defined beyond six keys; such an entry cannot be bound.
type UnsupportedArityError struct {
	// Arity is the declared key count.
	Arity int
}

func (e UnsupportedArityError) Error() string {
	return fmt.Sprintf("storage entries support at most 6 keys, got %d", e.Arity)
}

// InvalidStorageDescriptorError is the error returned when a storage
// entry's declared hashers disagree with its key type: a missing or
// superfluous key type, or a multi-hasher entry whose key type is
// not a tuple of matching arity.
type InvalidStorageDescriptorError struct {
	// Pallet and Entry name the offending storage declaration.
	Pallet, Entry string
	// Reason is an explanation of the disagreement.
	Reason error
}

func (e InvalidStorageDescriptorError) Error() string {
	return fmt.Sprintf("invalid storage entry %s.%s: %v", e.Pallet, e.Entry, e.Reason)
}

func (e InvalidStorageDescriptorError) Unwrap() error {
	return e.Reason
}

func invalidStorage(pallet, entry, reason string, args ...any) error {
	return InvalidStorageDescriptorError{pallet, entry, fmt.Errorf(reason, args...)}
}
