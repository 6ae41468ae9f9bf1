package builder

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// PayloadAttributes is the capability set of a requested-block description.
// Implementations are immutable once constructed, and are owned by the
// BuildArguments of a single build attempt.
type PayloadAttributes interface {
	// PayloadID returns the content-addressed identifier of the requested
	// payload. It is a pure function of the attribute fields: recomputing it
	// from the same inputs yields the same ID.
	PayloadID() engine.PayloadID
	Parent() common.Hash
	Timestamp() uint64
	ParentBeaconBlockRoot() *common.Hash
	SuggestedFeeRecipient() common.Address
	PrevRandao() common.Hash
	Withdrawals() types.Withdrawals
}

// BuiltPayload is the capability set of a finalized build result: the sealed
// block and the total fees it captures. It has no failure modes.
type BuiltPayload interface {
	Block() *types.Block
	Fees() *uint256.Int
}

// PayloadBuilder is one payload-construction strategy.
// Builders may be composed with the stack package; a composed stack is itself
// a PayloadBuilder, so arrangements like Stack(Stack(A, B), C) nest freely.
//
// The ctx passed to TryBuild doubles as the build cancellation signal: the
// same ctx is forwarded to whichever builder a stack dispatches to, and a
// builder observing ctx cancellation must return a Cancelled outcome promptly
// rather than an error.
type PayloadBuilder[A PayloadAttributes, P BuiltPayload] interface {
	// TryBuild attempts to build a payload for the given arguments.
	// If args.BestPayload is set, the builder must only return a Better
	// outcome for a payload that improves on it by total fees.
	TryBuild(ctx context.Context, args BuildArguments[A, P]) (BuildOutcome[P], error)

	// OnMissingPayload is invoked when a payload is requested for a job that
	// has not produced one yet. The builder either hands out a substitute
	// payload right away, or tells the caller how to proceed.
	OnMissingPayload(ctx context.Context, args BuildArguments[A, P]) MissingPayloadBehaviour[P]

	// BuildEmptyPayload constructs a minimal valid payload without any pool
	// transactions. This is the correctness fallback of the node: it must
	// succeed whenever the parent and its state are valid.
	BuildEmptyPayload(ctx context.Context, client StateClient, config PayloadConfig[A]) (P, error)
}

// Account is the subset of execution-state account data builders read.
type Account struct {
	Nonce   uint64
	Balance *uint256.Int
}

// StateClient provides read access to parent blocks and execution state.
// Handles are cheap to share; concurrent use across build attempts is safe.
type StateClient interface {
	HeaderByHash(ctx context.Context, hash common.Hash) (*types.Header, error)
	AccountAt(ctx context.Context, stateRoot common.Hash, addr common.Address) (*Account, error)
}

// TransactionPool provides candidate transactions, ordered by effective tip
// at the given base fee, ready for inclusion on top of the given parent.
type TransactionPool interface {
	BestTransactions(ctx context.Context, parent common.Hash, baseFee *big.Int) (types.Transactions, error)
}

// FallbackPolicy names the composition semantics of a builder stack, so that
// callers do not have to infer them from the types involved.
type FallbackPolicy uint8

const (
	// FallbackTryBoth runs the left builder and falls back to the right one
	// when the left returns an error. Used when both sides share one
	// attribute/payload type.
	FallbackTryBoth FallbackPolicy = iota

	// FallbackExclusiveByTag dispatches to exactly one side, selected by the
	// variant tag of the attributes. There is no cross-side fallback: the two
	// sides may address logically distinct chains, and falling back would
	// silently build the wrong kind of block.
	FallbackExclusiveByTag
)

func (p FallbackPolicy) String() string {
	switch p {
	case FallbackTryBoth:
		return "try-both"
	case FallbackExclusiveByTag:
		return "exclusive-by-tag"
	default:
		return "unknown"
	}
}
