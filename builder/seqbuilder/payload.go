package seqbuilder

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/mantlenetworkio/op-payload-builder/builder"
)

// Payload is a sealed sequencer block, its fee total, and how many of its
// transactions were forced by the attributes.
type Payload struct {
	block       *types.Block
	fees        *uint256.Int
	forcedCount int
}

var _ builder.BuiltPayload = Payload{}

func NewPayload(block *types.Block, fees *uint256.Int, forcedCount int) Payload {
	return Payload{block: block, fees: fees, forcedCount: forcedCount}
}

func (p Payload) Block() *types.Block {
	return p.block
}

func (p Payload) Fees() *uint256.Int {
	return p.fees
}

// ForcedCount is the number of leading transactions forced by the attributes.
func (p Payload) ForcedCount() int {
	return p.forcedCount
}
