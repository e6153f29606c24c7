// Package palletgen resolves a chain metadata document into an
// immutable descriptor graph and decodes the document's precomputed
// constant and default values into Go literal expressions.
//
// A metadata document carries a type table (numeric id to type
// definition) and, per pallet, a list of addressable storage entries
// and named constants. [Load] resolves every type reachable from a
// storage entry or constant into a [Type] descriptor, validates each
// storage entry's key hashers against its key type's arity, and
// decodes constant values and storage defaults into source
// expressions ready for a code renderer.
//
// Type references inside descriptors are held as numeric ids and
// looked up through the [Registry], never inlined, so
// self-referential and mutually-recursive definitions stay finite.
//
// All resolution errors are fatal to the load: a partially resolved
// graph would silently misrepresent the remote chain's interface, so
// none is ever returned.
package palletgen
