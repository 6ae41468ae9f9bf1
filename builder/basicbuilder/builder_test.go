package basicbuilder_test

import (
	"context"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/mantlenetworkio/op-payload-builder/bldrtypes"
	"github.com/mantlenetworkio/op-payload-builder/builder"
	"github.com/mantlenetworkio/op-payload-builder/builder/basicbuilder"
	"github.com/mantlenetworkio/op-payload-builder/builder/buildertest"
	"github.com/mantlenetworkio/op-payload-builder/metrics"
	"github.com/mantlenetworkio/op-payload-builder/testlog"
)

var chainID = big.NewInt(901)

func newParent() *types.Header {
	return &types.Header{
		Number:   big.NewInt(10),
		GasLimit: 30_000_000,
		BaseFee:  big.NewInt(100),
		Time:     1000,
		Root:     common.Hash{0x5},
	}
}

func newBuilder(t *testing.T) *basicbuilder.Builder {
	return basicbuilder.NewBuilder("basic", testlog.Logger(t, slog.LevelDebug), metrics.NoopMetrics{})
}

func mustAttrs(t *testing.T, parent *types.Header, raw *builder.RawAttributes) basicbuilder.Attributes {
	t.Helper()
	attrs, err := basicbuilder.NewAttributes(parent, raw)
	require.NoError(t, err)
	return attrs
}

func TestNewAttributesRejectsSequencerFields(t *testing.T) {
	parent := newParent()
	_, err := basicbuilder.NewAttributes(parent, &builder.RawAttributes{
		Timestamp: 1002,
		NoTxPool:  true,
	})
	require.ErrorIs(t, err, bldrtypes.ErrInvalidAttributes)

	_, err = basicbuilder.NewAttributes(parent, &builder.RawAttributes{
		Timestamp:    1002,
		Transactions: []hexutil.Bytes{{0x01}},
	})
	require.ErrorIs(t, err, bldrtypes.ErrInvalidAttributes)
}

func TestNewAttributesRejectsStaleTimestamp(t *testing.T) {
	parent := newParent()
	_, err := basicbuilder.NewAttributes(parent, &builder.RawAttributes{Timestamp: hexutil.Uint64(parent.Time)})
	require.ErrorIs(t, err, bldrtypes.ErrStaleTimestamp)
}

func TestNewAttributesDerivesPayloadID(t *testing.T) {
	parent := newParent()
	raw := &builder.RawAttributes{
		Timestamp:             1002,
		PrevRandao:            common.HexToHash("0x7"),
		SuggestedFeeRecipient: common.HexToAddress("0x8"),
	}
	attrs := mustAttrs(t, parent, raw)
	require.Equal(t, builder.ComputePayloadID(parent.Hash(), raw), attrs.PayloadID())
	require.Equal(t, parent.Hash(), attrs.Parent())
	require.Equal(t, uint64(1002), attrs.Timestamp())
}

func TestTryBuildIncludesAffordableTransactions(t *testing.T) {
	parent := newParent()
	attrs := mustAttrs(t, parent, &builder.RawAttributes{Timestamp: 1002})

	fundedKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	brokeKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	fundedTx, err := buildertest.SignedTx(fundedKey, chainID, 0, 21_000, big.NewInt(2), big.NewInt(1000))
	require.NoError(t, err)
	brokeTx, err := buildertest.SignedTx(brokeKey, chainID, 0, 21_000, big.NewInt(2), big.NewInt(1000))
	require.NoError(t, err)

	client := &buildertest.Client{Accounts: map[common.Address]*builder.Account{
		crypto.PubkeyToAddress(fundedKey.PublicKey): {Balance: uint256.NewInt(1_000_000_000)},
	}}
	pool := &buildertest.Pool{Txs: types.Transactions{fundedTx, brokeTx}}

	b := newBuilder(t)
	outcome, err := b.TryBuild(context.Background(), builder.BuildArguments[basicbuilder.Attributes, basicbuilder.Payload]{
		Client: client,
		Pool:   pool,
		Config: builder.PayloadConfig[basicbuilder.Attributes]{Parent: parent, Attributes: attrs},
	})
	require.NoError(t, err)
	require.Equal(t, builder.OutcomeBetter, outcome.Kind())

	payload, ok := outcome.Payload()
	require.True(t, ok)
	require.Len(t, payload.Block().Transactions(), 1)
	require.Equal(t, fundedTx.Hash(), payload.Block().Transactions()[0].Hash())
	// effective tip 2 wei over 21000 gas
	require.Equal(t, uint256.NewInt(42_000), payload.Fees())
	require.NotNil(t, outcome.CachedReads())
}

func TestTryBuildRespectsGasLimit(t *testing.T) {
	parent := newParent()
	parent.GasLimit = 30_000
	attrs := mustAttrs(t, parent, &builder.RawAttributes{Timestamp: 1002})

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	tx1, err := buildertest.SignedTx(key, chainID, 0, 21_000, big.NewInt(2), big.NewInt(1000))
	require.NoError(t, err)
	tx2, err := buildertest.SignedTx(key, chainID, 1, 21_000, big.NewInt(2), big.NewInt(1000))
	require.NoError(t, err)

	client := &buildertest.Client{Accounts: map[common.Address]*builder.Account{
		crypto.PubkeyToAddress(key.PublicKey): {Balance: uint256.NewInt(1_000_000_000)},
	}}

	b := newBuilder(t)
	outcome, err := b.TryBuild(context.Background(), builder.BuildArguments[basicbuilder.Attributes, basicbuilder.Payload]{
		Client: client,
		Pool:   &buildertest.Pool{Txs: types.Transactions{tx1, tx2}},
		Config: builder.PayloadConfig[basicbuilder.Attributes]{Parent: parent, Attributes: attrs},
	})
	require.NoError(t, err)
	payload, ok := outcome.Payload()
	require.True(t, ok)
	require.Len(t, payload.Block().Transactions(), 1)
	require.Equal(t, uint64(21_000), payload.Block().GasUsed())
}

func TestTryBuildAbortsWhenNotImproving(t *testing.T) {
	parent := newParent()
	attrs := mustAttrs(t, parent, &builder.RawAttributes{Timestamp: 1002})

	best := basicbuilder.NewPayload(nil, uint256.NewInt(50))
	cached := builder.NewCachedReads()

	b := newBuilder(t)
	outcome, err := b.TryBuild(context.Background(), builder.BuildArguments[basicbuilder.Attributes, basicbuilder.Payload]{
		Client:      &buildertest.Client{},
		Pool:        &buildertest.Pool{},
		CachedReads: cached,
		Config:      builder.PayloadConfig[basicbuilder.Attributes]{Parent: parent, Attributes: attrs},
		BestPayload: &best,
	})
	require.NoError(t, err)
	require.Equal(t, builder.OutcomeAborted, outcome.Kind())
	require.Equal(t, uint256.NewInt(50), outcome.Fees())
	require.Same(t, cached, outcome.CachedReads())
}

func TestTryBuildCancelled(t *testing.T) {
	parent := newParent()
	attrs := mustAttrs(t, parent, &builder.RawAttributes{Timestamp: 1002})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := newBuilder(t)
	outcome, err := b.TryBuild(ctx, builder.BuildArguments[basicbuilder.Attributes, basicbuilder.Payload]{
		Client: &buildertest.Client{},
		Pool:   &buildertest.Pool{},
		Config: builder.PayloadConfig[basicbuilder.Attributes]{Parent: parent, Attributes: attrs},
	})
	require.NoError(t, err)
	require.Equal(t, builder.OutcomeCancelled, outcome.Kind())
	require.Nil(t, outcome.CachedReads())
}

func TestTryBuildParentMismatch(t *testing.T) {
	parent := newParent()
	attrs := mustAttrs(t, parent, &builder.RawAttributes{Timestamp: 1002})

	other := newParent()
	other.Number = big.NewInt(11)

	b := newBuilder(t)
	_, err := b.TryBuild(context.Background(), builder.BuildArguments[basicbuilder.Attributes, basicbuilder.Payload]{
		Client: &buildertest.Client{},
		Pool:   &buildertest.Pool{},
		Config: builder.PayloadConfig[basicbuilder.Attributes]{Parent: other, Attributes: attrs},
	})
	require.ErrorIs(t, err, bldrtypes.ErrInvalidAttributes)
}

func TestOnMissingPayload(t *testing.T) {
	b := newBuilder(t)
	behaviour := b.OnMissingPayload(context.Background(), builder.BuildArguments[basicbuilder.Attributes, basicbuilder.Payload]{})
	require.Equal(t, builder.MissingPayloadRaceEmpty, behaviour.Kind())
}

func TestBuildEmptyPayload(t *testing.T) {
	parent := newParent()
	attrs := mustAttrs(t, parent, &builder.RawAttributes{Timestamp: 1002})

	// Parent not in the config: the builder resolves it through the client.
	client := &buildertest.Client{Headers: map[common.Hash]*types.Header{parent.Hash(): parent}}

	b := newBuilder(t)
	payload, err := b.BuildEmptyPayload(context.Background(), client, builder.PayloadConfig[basicbuilder.Attributes]{Attributes: attrs})
	require.NoError(t, err)
	require.Empty(t, payload.Block().Transactions())
	require.Equal(t, uint256.NewInt(0), payload.Fees())
	require.Equal(t, parent.Number.Uint64()+1, payload.Block().NumberU64())
	require.Equal(t, parent.Hash(), payload.Block().ParentHash())
}

func TestBuildEmptyPayloadUnknownParent(t *testing.T) {
	parent := newParent()
	attrs := mustAttrs(t, parent, &builder.RawAttributes{Timestamp: 1002})

	b := newBuilder(t)
	_, err := b.BuildEmptyPayload(context.Background(), &buildertest.Client{}, builder.PayloadConfig[basicbuilder.Attributes]{Attributes: attrs})
	require.Error(t, err)
	var notFound *buildertest.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
