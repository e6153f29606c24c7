package pallet

import (
	"context"

	"github.com/creachadair/mds/value"
)

// A Hash identifies one block of chain state.
type Hash [32]byte

// A StateReader fetches the raw value stored at one storage key.
// Implementations typically wrap an RPC client or a state snapshot.
//
// Read reports an absent value, as distinct from an empty one, by
// returning an absent Maybe. The at parameter selects the block to
// read against; absent means the latest block.
type StateReader interface {
	Read(ctx context.Context, key []byte, at value.Maybe[Hash]) (value.Maybe[[]byte], error)
}

type readOpts struct {
	at value.Maybe[Hash]
}

// A ReadOption adjusts a single storage read.
type ReadOption func(*readOpts)

// At pins the read to the state as of block h, instead of the latest
// block.
func At(h Hash) ReadOption {
	return func(o *readOpts) { o.at = value.Just(h) }
}

func resolveOpts(opts []ReadOption) readOpts {
	var o readOpts
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
