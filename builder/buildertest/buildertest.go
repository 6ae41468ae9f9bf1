// Package buildertest provides fake builders and collaborators for tests.
package buildertest

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/mantlenetworkio/op-payload-builder/builder"
)

// Attributes is a minimal PayloadAttributes implementation.
type Attributes struct {
	ID         engine.PayloadID
	ParentHash common.Hash
	Time       uint64
}

var _ builder.PayloadAttributes = Attributes{}

func (a Attributes) PayloadID() engine.PayloadID            { return a.ID }
func (a Attributes) Parent() common.Hash                    { return a.ParentHash }
func (a Attributes) Timestamp() uint64                      { return a.Time }
func (a Attributes) ParentBeaconBlockRoot() *common.Hash    { return nil }
func (a Attributes) SuggestedFeeRecipient() common.Address  { return common.Address{} }
func (a Attributes) PrevRandao() common.Hash                { return common.Hash{} }
func (a Attributes) Withdrawals() types.Withdrawals         { return nil }

// Payload is a minimal BuiltPayload implementation.
type Payload struct {
	BlockVal *types.Block
	FeesVal  *uint256.Int
}

var _ builder.BuiltPayload = Payload{}

func (p Payload) Block() *types.Block { return p.BlockVal }
func (p Payload) Fees() *uint256.Int  { return p.FeesVal }

func PayloadWithFees(fees uint64) Payload {
	return Payload{FeesVal: uint256.NewInt(fees)}
}

// Builder is a scripted PayloadBuilder. Unset funcs panic when called, which
// doubles as a must-not-be-invoked assertion.
type Builder[A builder.PayloadAttributes, P builder.BuiltPayload] struct {
	TryBuildFn         func(ctx context.Context, args builder.BuildArguments[A, P]) (builder.BuildOutcome[P], error)
	OnMissingPayloadFn func(ctx context.Context, args builder.BuildArguments[A, P]) builder.MissingPayloadBehaviour[P]
	BuildEmptyFn       func(ctx context.Context, client builder.StateClient, config builder.PayloadConfig[A]) (P, error)
}

func (b *Builder[A, P]) TryBuild(ctx context.Context, args builder.BuildArguments[A, P]) (builder.BuildOutcome[P], error) {
	if b.TryBuildFn == nil {
		panic("unexpected TryBuild call")
	}
	return b.TryBuildFn(ctx, args)
}

func (b *Builder[A, P]) OnMissingPayload(ctx context.Context, args builder.BuildArguments[A, P]) builder.MissingPayloadBehaviour[P] {
	if b.OnMissingPayloadFn == nil {
		panic("unexpected OnMissingPayload call")
	}
	return b.OnMissingPayloadFn(ctx, args)
}

func (b *Builder[A, P]) BuildEmptyPayload(ctx context.Context, client builder.StateClient, config builder.PayloadConfig[A]) (P, error) {
	if b.BuildEmptyFn == nil {
		panic("unexpected BuildEmptyPayload call")
	}
	return b.BuildEmptyFn(ctx, client, config)
}

// Client is a fake StateClient backed by maps. AccountReads counts state
// fetches, to observe read-cache effectiveness.
type Client struct {
	Headers  map[common.Hash]*types.Header
	Accounts map[common.Address]*builder.Account

	AccountReads int
}

var _ builder.StateClient = (*Client)(nil)

func (c *Client) HeaderByHash(ctx context.Context, hash common.Hash) (*types.Header, error) {
	header, ok := c.Headers[hash]
	if !ok {
		return nil, &NotFoundError{What: "header", Key: hash.String()}
	}
	return header, nil
}

func (c *Client) AccountAt(ctx context.Context, stateRoot common.Hash, addr common.Address) (*builder.Account, error) {
	c.AccountReads++
	acct, ok := c.Accounts[addr]
	if !ok {
		return &builder.Account{Balance: uint256.NewInt(0)}, nil
	}
	return acct, nil
}

type NotFoundError struct {
	What string
	Key  string
}

func (e *NotFoundError) Error() string {
	return e.What + " not found: " + e.Key
}

// Pool is a fake TransactionPool returning a fixed transaction list.
type Pool struct {
	Txs types.Transactions
	Err error
}

var _ builder.TransactionPool = (*Pool)(nil)

func (p *Pool) BestTransactions(ctx context.Context, parent common.Hash, baseFee *big.Int) (types.Transactions, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Txs, nil
}

// SignedTx returns a signed dynamic-fee transaction for tests.
func SignedTx(key *ecdsa.PrivateKey, chainID *big.Int, nonce uint64, gas uint64, tip, feeCap *big.Int) (*types.Transaction, error) {
	return types.SignNewTx(key, types.LatestSignerForChainID(chainID), &types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &common.Address{},
		Value:     big.NewInt(0),
	})
}
