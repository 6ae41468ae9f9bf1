package builder

import "github.com/ethereum/go-ethereum/core/types"

// PayloadConfig bundles the parent block and the requested attributes for one
// build attempt.
type PayloadConfig[A PayloadAttributes] struct {
	// Parent is the header of the block being built on.
	Parent *types.Header

	// Attributes describe the requested block. Their variant tag, if any,
	// selects the builder for the entire lifetime of the attempt.
	Attributes A

	// ExtraData to embed in the built block header.
	ExtraData []byte
}

// BuildArguments is the per-attempt value bundle handed to a builder.
// Client and Pool are shared handles; CachedReads and BestPayload are owned by
// the attempt chain and threaded forward from one retry to the next.
type BuildArguments[A PayloadAttributes, P BuiltPayload] struct {
	Client StateClient
	Pool   TransactionPool

	// CachedReads from a previous attempt for the same request, if any.
	// A builder that runs to completion hands the cache back through the
	// outcome for reuse.
	CachedReads *CachedReads

	Config PayloadConfig[A]

	// BestPayload is the best payload produced by previous attempts for this
	// request, if any. Repeated attempts must never regress below it.
	BestPayload *P
}
