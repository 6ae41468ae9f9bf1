package either

import (
	"github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mantlenetworkio/op-payload-builder/builder"
)

// Attributes combines two attribute types under one PayloadAttributes
// implementation. Every accessor forwards to the active variant.
type Attributes[L, R builder.PayloadAttributes] struct {
	inner Either[L, R]
}

func LeftAttributes[L, R builder.PayloadAttributes](v L) Attributes[L, R] {
	return Attributes[L, R]{inner: Left[L, R](v)}
}

func RightAttributes[L, R builder.PayloadAttributes](v R) Attributes[L, R] {
	return Attributes[L, R]{inner: Right[L, R](v)}
}

// NewAttributes is the fallible combined-attributes constructor. It dispatches
// on the tag of the raw union: a left-tagged raw value goes through newLeft
// and yields left-tagged attributes, and likewise for the right. Construction
// failures come back tagged with the side that rejected the raw value.
func NewAttributes[LRaw, RRaw any, L, R builder.PayloadAttributes](
	parent *types.Header,
	raw Either[LRaw, RRaw],
	newLeft func(*types.Header, LRaw) (L, error),
	newRight func(*types.Header, RRaw) (R, error),
) (Attributes[L, R], error) {
	if lraw, ok := raw.Left(); ok {
		attrs, err := newLeft(parent, lraw)
		if err != nil {
			return Attributes[L, R]{}, LeftErr(err)
		}
		return LeftAttributes[L, R](attrs), nil
	}
	rraw, _ := raw.Right()
	attrs, err := newRight(parent, rraw)
	if err != nil {
		return Attributes[L, R]{}, RightErr(err)
	}
	return RightAttributes[L, R](attrs), nil
}

// Unwrap exposes the tagged value for dispatch.
func (a Attributes[L, R]) Unwrap() Either[L, R] {
	return a.inner
}

func (a Attributes[L, R]) PayloadID() engine.PayloadID {
	if l, ok := a.inner.Left(); ok {
		return l.PayloadID()
	}
	r, _ := a.inner.Right()
	return r.PayloadID()
}

func (a Attributes[L, R]) Parent() common.Hash {
	if l, ok := a.inner.Left(); ok {
		return l.Parent()
	}
	r, _ := a.inner.Right()
	return r.Parent()
}

func (a Attributes[L, R]) Timestamp() uint64 {
	if l, ok := a.inner.Left(); ok {
		return l.Timestamp()
	}
	r, _ := a.inner.Right()
	return r.Timestamp()
}

func (a Attributes[L, R]) ParentBeaconBlockRoot() *common.Hash {
	if l, ok := a.inner.Left(); ok {
		return l.ParentBeaconBlockRoot()
	}
	r, _ := a.inner.Right()
	return r.ParentBeaconBlockRoot()
}

func (a Attributes[L, R]) SuggestedFeeRecipient() common.Address {
	if l, ok := a.inner.Left(); ok {
		return l.SuggestedFeeRecipient()
	}
	r, _ := a.inner.Right()
	return r.SuggestedFeeRecipient()
}

func (a Attributes[L, R]) PrevRandao() common.Hash {
	if l, ok := a.inner.Left(); ok {
		return l.PrevRandao()
	}
	r, _ := a.inner.Right()
	return r.PrevRandao()
}

func (a Attributes[L, R]) Withdrawals() types.Withdrawals {
	if l, ok := a.inner.Left(); ok {
		return l.Withdrawals()
	}
	r, _ := a.inner.Right()
	return r.Withdrawals()
}
