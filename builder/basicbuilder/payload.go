package basicbuilder

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/mantlenetworkio/op-payload-builder/builder"
)

// Payload is a sealed block plus the fee total it captures.
type Payload struct {
	block *types.Block
	fees  *uint256.Int
}

var _ builder.BuiltPayload = Payload{}

func NewPayload(block *types.Block, fees *uint256.Int) Payload {
	return Payload{block: block, fees: fees}
}

func (p Payload) Block() *types.Block {
	return p.block
}

func (p Payload) Fees() *uint256.Int {
	return p.fees
}
