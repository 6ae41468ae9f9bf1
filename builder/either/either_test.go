package either_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/mantlenetworkio/op-payload-builder/builder"
	"github.com/mantlenetworkio/op-payload-builder/builder/buildertest"
	"github.com/mantlenetworkio/op-payload-builder/builder/either"
)

// rightAttributes is deliberately distinct from buildertest.Attributes so the
// combined type really spans two attribute types.
type rightAttributes struct {
	id   engine.PayloadID
	time uint64
}

var _ builder.PayloadAttributes = rightAttributes{}

func (a rightAttributes) PayloadID() engine.PayloadID           { return a.id }
func (a rightAttributes) Parent() common.Hash                   { return common.Hash{} }
func (a rightAttributes) Timestamp() uint64                     { return a.time }
func (a rightAttributes) ParentBeaconBlockRoot() *common.Hash   { return nil }
func (a rightAttributes) SuggestedFeeRecipient() common.Address { return common.Address{} }
func (a rightAttributes) PrevRandao() common.Hash               { return common.Hash{} }
func (a rightAttributes) Withdrawals() types.Withdrawals        { return nil }

type rightPayload struct {
	fees *big.Int
}

var _ builder.BuiltPayload = rightPayload{}

func (p rightPayload) Block() *types.Block { return nil }
func (p rightPayload) Fees() *uint256.Int  { return uint256.MustFromBig(p.fees) }

func TestEitherTag(t *testing.T) {
	l := either.Left[int, string](7)
	require.Equal(t, either.SideLeft, l.Side())
	require.True(t, l.IsLeft())
	v, ok := l.Left()
	require.True(t, ok)
	require.Equal(t, 7, v)
	_, ok = l.Right()
	require.False(t, ok)

	r := either.Right[int, string]("x")
	require.Equal(t, either.SideRight, r.Side())
	s, ok := r.Right()
	require.True(t, ok)
	require.Equal(t, "x", s)
}

func TestAttributesForwarding(t *testing.T) {
	left := buildertest.Attributes{ID: engine.PayloadID{0x1}, Time: 42}
	attrs := either.LeftAttributes[buildertest.Attributes, rightAttributes](left)
	require.Equal(t, uint64(42), attrs.Timestamp())
	require.Equal(t, engine.PayloadID{0x1}, attrs.PayloadID())

	right := rightAttributes{id: engine.PayloadID{0x2}, time: 99}
	attrs = either.RightAttributes[buildertest.Attributes, rightAttributes](right)
	require.Equal(t, uint64(99), attrs.Timestamp())
	require.Equal(t, engine.PayloadID{0x2}, attrs.PayloadID())
}

func TestNewAttributesDispatch(t *testing.T) {
	newLeft := func(parent *types.Header, raw int) (buildertest.Attributes, error) {
		return buildertest.Attributes{Time: uint64(raw)}, nil
	}
	newRight := func(parent *types.Header, raw string) (rightAttributes, error) {
		return rightAttributes{time: uint64(len(raw))}, nil
	}

	attrs, err := either.NewAttributes(nil, either.Left[int, string](5), newLeft, newRight)
	require.NoError(t, err)
	require.True(t, attrs.Unwrap().IsLeft())
	require.Equal(t, uint64(5), attrs.Timestamp())

	attrs, err = either.NewAttributes(nil, either.Right[int, string]("abc"), newLeft, newRight)
	require.NoError(t, err)
	require.False(t, attrs.Unwrap().IsLeft())
	require.Equal(t, uint64(3), attrs.Timestamp())
}

func TestNewAttributesTaggedErrors(t *testing.T) {
	leftRejects := errors.New("left rejects")
	rightRejects := errors.New("right rejects")
	newLeft := func(parent *types.Header, raw int) (buildertest.Attributes, error) {
		return buildertest.Attributes{}, leftRejects
	}
	newRight := func(parent *types.Header, raw string) (rightAttributes, error) {
		return rightAttributes{}, rightRejects
	}

	_, err := either.NewAttributes(nil, either.Left[int, string](1), newLeft, newRight)
	require.ErrorIs(t, err, leftRejects)
	var tagged *either.Error
	require.ErrorAs(t, err, &tagged)
	require.Equal(t, either.SideLeft, tagged.Side())

	_, err = either.NewAttributes(nil, either.Right[int, string]("r"), newLeft, newRight)
	require.ErrorIs(t, err, rightRejects)
	require.ErrorAs(t, err, &tagged)
	require.Equal(t, either.SideRight, tagged.Side())
}

func TestPayloadForwarding(t *testing.T) {
	p := either.LeftPayload[buildertest.Payload, rightPayload](buildertest.PayloadWithFees(10))
	require.Equal(t, uint256.NewInt(10), p.Fees())

	p = either.RightPayload[buildertest.Payload, rightPayload](rightPayload{fees: big.NewInt(20)})
	require.Equal(t, uint256.NewInt(20), p.Fees())
}

func TestErrNil(t *testing.T) {
	require.NoError(t, either.LeftErr(nil))
	require.NoError(t, either.RightErr(nil))
}
