// Package seqbuilder implements the sequencer-aware payload-construction
// strategy for rollup chains: forced transactions lead the block, pool
// transactions follow unless the attributes exclude the pool.
package seqbuilder

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/holiman/uint256"

	"github.com/mantlenetworkio/op-payload-builder/bldrtypes"
	"github.com/mantlenetworkio/op-payload-builder/builder"
	"github.com/mantlenetworkio/op-payload-builder/metrics"
)

type Builder struct {
	id  bldrtypes.BuilderID
	log log.Logger
	m   metrics.Metricer
}

var _ builder.PayloadBuilder[Attributes, Payload] = (*Builder)(nil)

func NewBuilder(id bldrtypes.BuilderID, logger log.Logger, m metrics.Metricer) *Builder {
	return &Builder{id: id, log: logger, m: m}
}

func (b *Builder) ID() bldrtypes.BuilderID {
	return b.id
}

func (b *Builder) String() string {
	return "seq-builder-" + b.id.String()
}

// TryBuild assembles a payload with the forced transactions first, then the
// best pool transactions unless the attributes exclude the pool.
func (b *Builder) TryBuild(ctx context.Context, args builder.BuildArguments[Attributes, Payload]) (builder.BuildOutcome[Payload], error) {
	var zero builder.BuildOutcome[Payload]
	done := b.m.RecordBuildAttempt(b.id.String())

	attrs := args.Config.Attributes
	parent := args.Config.Parent
	if parent == nil || parent.Hash() != attrs.Parent() {
		done("error")
		return zero, fmt.Errorf("%w: config parent does not match attributes parent %s",
			bldrtypes.ErrInvalidAttributes, attrs.Parent())
	}
	if ctx.Err() != nil {
		done("cancelled")
		return builder.Cancelled[Payload](), nil
	}

	cached := args.CachedReads
	if cached == nil {
		cached = builder.NewCachedReads()
	}

	included := make(types.Transactions, 0, len(attrs.ForcedTransactions()))
	var gasUsed uint64
	for _, tx := range attrs.ForcedTransactions() {
		// Forced transactions are not subject to gas-limit selection or
		// balance checks; the attributes constructor already validated them.
		included = append(included, tx)
		gasUsed += tx.Gas()
	}

	fees := uint256.NewInt(0)
	if !attrs.NoTxPool() {
		state := cached.WithClient(args.Client, parent.Root)
		baseFee := parentBaseFee(parent)
		candidates, err := args.Pool.BestTransactions(ctx, attrs.Parent(), baseFee)
		if err != nil {
			done("error")
			return zero, fmt.Errorf("failed to fetch pool transactions: %w", err)
		}
		for _, tx := range candidates {
			select {
			case <-ctx.Done():
				done("cancelled")
				return builder.Cancelled[Payload](), nil
			default:
			}
			if gasUsed+tx.Gas() > attrs.GasLimit() {
				continue
			}
			tip, _ := tx.EffectiveGasTip(baseFee)
			if tip.Sign() < 0 {
				continue
			}
			from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
			if err != nil {
				b.log.Trace("Skipping unrecoverable pool transaction", "tx", tx.Hash(), "err", err)
				continue
			}
			acct, err := state.Account(ctx, from)
			if err != nil {
				done("error")
				return zero, fmt.Errorf("failed to read account %s: %w", from, err)
			}
			if acct.Balance.ToBig().Cmp(tx.Cost()) < 0 {
				continue
			}
			txFees := new(uint256.Int).Mul(uint256.MustFromBig(tip), uint256.NewInt(tx.Gas()))
			fees.Add(fees, txFees)
			gasUsed += tx.Gas()
			included = append(included, tx)
		}
	}

	if args.BestPayload != nil && fees.Cmp(args.BestPayload.Fees()) <= 0 {
		done("aborted")
		return builder.Aborted[Payload](args.BestPayload.Fees(), cached), nil
	}

	block := sealBlock(parent, attrs, args.Config.ExtraData, included, gasUsed)
	b.log.Debug("Built sequencer payload", "payload_id", attrs.PayloadID(), "hash", block.Hash(),
		"txs", len(included), "forced", len(attrs.ForcedTransactions()), "fees", fees)
	b.m.RecordPayloadFees(b.id.String(), weiFloat(fees))
	done("better")
	return builder.Better(NewPayload(block, fees, len(attrs.ForcedTransactions())), cached), nil
}

// OnMissingPayload hands out a substitute payload carrying only the forced
// transactions: a sequencer block must never omit them, so racing a plain
// empty payload is only the last resort.
func (b *Builder) OnMissingPayload(ctx context.Context, args builder.BuildArguments[Attributes, Payload]) builder.MissingPayloadBehaviour[Payload] {
	payload, err := b.BuildEmptyPayload(ctx, args.Client, args.Config)
	if err != nil {
		b.log.Warn("Failed to build substitute sequencer payload", "err", err)
		return builder.RaceEmptyPayload[Payload]()
	}
	return builder.RacePayload(payload)
}

// BuildEmptyPayload seals a block without pool transactions. The forced
// transactions are still included: for a rollup they are part of block
// validity, not an optimization.
func (b *Builder) BuildEmptyPayload(ctx context.Context, client builder.StateClient, config builder.PayloadConfig[Attributes]) (Payload, error) {
	attrs := config.Attributes
	parent := config.Parent
	if parent == nil {
		header, err := client.HeaderByHash(ctx, attrs.Parent())
		if err != nil {
			return Payload{}, fmt.Errorf("failed to fetch parent %s: %w", attrs.Parent(), err)
		}
		parent = header
	}
	if parent.Hash() != attrs.Parent() {
		return Payload{}, fmt.Errorf("%w: config parent does not match attributes parent %s",
			bldrtypes.ErrInvalidAttributes, attrs.Parent())
	}
	var gasUsed uint64
	for _, tx := range attrs.ForcedTransactions() {
		gasUsed += tx.Gas()
	}
	block := sealBlock(parent, attrs, config.ExtraData, attrs.ForcedTransactions(), gasUsed)
	b.log.Debug("Built empty sequencer payload", "payload_id", attrs.PayloadID(), "hash", block.Hash(),
		"forced", len(attrs.ForcedTransactions()))
	b.m.RecordEmptyPayload(b.id.String())
	return NewPayload(block, uint256.NewInt(0), len(attrs.ForcedTransactions())), nil
}

func sealBlock(parent *types.Header, attrs Attributes, extraData []byte, txs types.Transactions, gasUsed uint64) *types.Block {
	header := &types.Header{
		ParentHash:       attrs.Parent(),
		Coinbase:         attrs.SuggestedFeeRecipient(),
		Number:           new(big.Int).Add(parent.Number, common.Big1),
		GasLimit:         attrs.GasLimit(),
		GasUsed:          gasUsed,
		Time:             attrs.Timestamp(),
		Extra:            extraData,
		MixDigest:        attrs.PrevRandao(),
		BaseFee:          parentBaseFee(parent),
		ParentBeaconRoot: attrs.ParentBeaconBlockRoot(),
	}
	body := &types.Body{Transactions: txs, Withdrawals: attrs.Withdrawals()}
	return types.NewBlock(header, body, nil, trie.NewStackTrie(nil))
}

func parentBaseFee(parent *types.Header) *big.Int {
	if parent.BaseFee == nil {
		return nil
	}
	return new(big.Int).Set(parent.BaseFee)
}

func weiFloat(fees *uint256.Int) float64 {
	f, _ := new(big.Float).SetInt(fees.ToBig()).Float64()
	return f
}
