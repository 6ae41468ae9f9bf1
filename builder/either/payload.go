package either

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/mantlenetworkio/op-payload-builder/builder"
)

// Payload combines two built-payload types under one BuiltPayload
// implementation, forwarding to the active variant.
type Payload[L, R builder.BuiltPayload] struct {
	inner Either[L, R]
}

func LeftPayload[L, R builder.BuiltPayload](v L) Payload[L, R] {
	return Payload[L, R]{inner: Left[L, R](v)}
}

func RightPayload[L, R builder.BuiltPayload](v R) Payload[L, R] {
	return Payload[L, R]{inner: Right[L, R](v)}
}

// Unwrap exposes the tagged value for dispatch.
func (p Payload[L, R]) Unwrap() Either[L, R] {
	return p.inner
}

func (p Payload[L, R]) Block() *types.Block {
	if l, ok := p.inner.Left(); ok {
		return l.Block()
	}
	r, _ := p.inner.Right()
	return r.Block()
}

func (p Payload[L, R]) Fees() *uint256.Int {
	if l, ok := p.inner.Left(); ok {
		return l.Fees()
	}
	r, _ := p.inner.Right()
	return r.Fees()
}
