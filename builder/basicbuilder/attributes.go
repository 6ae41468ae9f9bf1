package basicbuilder

import (
	"fmt"

	"github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mantlenetworkio/op-payload-builder/bldrtypes"
	"github.com/mantlenetworkio/op-payload-builder/builder"
)

// Attributes describe one block requested from the basic builder.
// Immutable once constructed.
type Attributes struct {
	payloadID    engine.PayloadID
	parent       common.Hash
	timestamp    uint64
	prevRandao   common.Hash
	feeRecipient common.Address
	withdrawals  types.Withdrawals
	beaconRoot   *common.Hash
}

var _ builder.PayloadAttributes = Attributes{}

// NewAttributes validates the raw attributes against the parent and derives
// the payload ID. Sequencer-only fields are rejected: this builder serves
// plain engine-API requests.
func NewAttributes(parent *types.Header, raw *builder.RawAttributes) (Attributes, error) {
	if raw.HasSequencerFields() {
		return Attributes{}, fmt.Errorf("%w: sequencer-only fields set", bldrtypes.ErrInvalidAttributes)
	}
	if uint64(raw.Timestamp) <= parent.Time {
		return Attributes{}, fmt.Errorf("%w: timestamp %d, parent time %d",
			bldrtypes.ErrStaleTimestamp, raw.Timestamp, parent.Time)
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
