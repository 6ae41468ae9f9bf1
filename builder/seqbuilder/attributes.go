package seqbuilder

import (
	"fmt"

	"github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mantlenetworkio/op-payload-builder/bldrtypes"
	"github.com/mantlenetworkio/op-payload-builder/builder"
)

// Attributes describe one sequencer block request: forced transactions to
// include ahead of everything else, optionally with the pool excluded and the
// gas limit overridden. Immutable once constructed.
type Attributes struct {
	payloadID    engine.PayloadID
	parent       common.Hash
	timestamp    uint64
	prevRandao   common.Hash
	feeRecipient common.Address
	withdrawals  types.Withdrawals
	beaconRoot   *common.Hash

	forcedTxs types.Transactions
	noTxPool  bool
	gasLimit  uint64
}

var _ builder.PayloadAttributes = Attributes{}

// NewAttributes validates the raw attributes for sequencer use. Requests
// without any sequencer directive are rejected, as are forced transactions
// that do not decode: malformed request data must fail here, before a build
// is ever attempted.
func NewAttributes(parent *types.Header, raw *builder.RawAttributes) (Attributes, error) {
	if !raw.NoTxPool && len(raw.Transactions) == 0 {
		return Attributes{}, fmt.Errorf("%w: no sequencer directives in attributes", bldrtypes.ErrInvalidAttributes)
	}
	if uint64(raw.Timestamp) <= parent.Time {
		return Attributes{}, fmt.Errorf("%w: timestamp %d, parent time %d",
			bldrtypes.ErrStaleTimestamp, raw.Timestamp, parent.Time)
	}
	forced := make(types.Transactions, 0, len(raw.Transactions))
	for i, data := range raw.Transactions {
		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(data); err != nil {
			return Attributes{}, fmt.Errorf("%w: forced transaction %d: %v", bldrtypes.ErrInvalidAttributes, i, err)
		}
		forced = append(forced, tx)
	}
	gasLimit := parent.GasLimit
	if raw.GasLimit != nil {
		gasLimit = uint64(*raw.GasLimit)
	}
	parentHash := parent.Hash()
	return Attributes{
		payloadID:    builder.ComputePayloadID(parentHash, raw),
		parent:       parentHash,
		timestamp:    uint64(raw.Timestamp),
		prevRandao:   raw.PrevRandao,
		feeRecipient: raw.SuggestedFeeRecipient,
		withdrawals:  raw.Withdrawals,
		beaconRoot:   raw.ParentBeaconBlockRoot,
		forcedTxs:    forced,
		noTxPool:     raw.NoTxPool,
		gasLimit:     gasLimit,
	}, nil
}

func (a Attributes) PayloadID() engine.PayloadID {
	return a.payloadID
}

func (a Attributes) Parent() common.Hash {
	return a.parent
}

func (a Attributes) Timestamp() uint64 {
	return a.timestamp
}

func (a Attributes) ParentBeaconBlockRoot() *common.Hash {
	return a.beaconRoot
}

func (a Attributes) SuggestedFeeRecipient() common.Address {
	return a.feeRecipient
}

func (a Attributes) PrevRandao() common.Hash {
	return a.prevRandao
}

func (a Attributes) Withdrawals() types.Withdrawals {
	return a.withdrawals
}

// ForcedTransactions are included first, in order, in every payload built
// from these attributes.
func (a Attributes) ForcedTransactions() types.Transactions {
	return a.forcedTxs
}

// NoTxPool reports whether pool transactions are excluded.
func (a Attributes) NoTxPool() bool {
	return a.noTxPool
}

func (a Attributes) GasLimit() uint64 {
	return a.gasLimit
}
