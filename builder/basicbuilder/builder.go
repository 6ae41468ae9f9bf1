// Package basicbuilder implements the default payload-construction strategy:
// fill the block with the best pool transactions the parent state can afford.
package basicbuilder

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
	return "basic-builder-" + b.id.String()
}

// TryBuild assembles a payload from the best pool transactions. It returns
// Aborted when the result does not improve on args.BestPayload by fees, and
// Cancelled as soon as ctx cancellation is observed.
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
	state := cached.WithClient(args.Client, parent.Root)

	baseFee := parentBaseFee(parent)
	candidates, err := args.Pool.BestTransactions(ctx, attrs.Parent(), baseFee)
	if err != nil {
		done("error")
		return zero, fmt.Errorf("failed to fetch pool transactions: %w", err)
	}

	var (
		included types.Transactions
		gasUsed  uint64
		fees     = uint256.NewInt(0)
	)
	for _, tx := range candidates {
		select {
		case <-ctx.Done():
			done("cancelled")
			return builder.Cancelled[Payload](), nil
		default:
		}
		if gasUsed+tx.Gas() > parent.GasLimit {
			continue
		}
		tip, _ := tx.EffectiveGasTip(baseFee)
		if tip.Sign() < 0 {
			continue // cannot cover the base fee
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
			b.log.Trace("Skipping underfunded pool transaction", "tx", tx.Hash(), "from", from)
			continue
		}
		txFees := new(uint256.Int).Mul(uint256.MustFromBig(tip), uint256.NewInt(tx.Gas()))
		fees.Add(fees, txFees)
		gasUsed += tx.Gas()
		included = append(included, tx)
	}

	if args.BestPayload != nil && fees.Cmp(args.BestPayload.Fees()) <= 0 {
		b.log.Debug("Built payload does not improve on best", "fees", fees, "best_fees", args.BestPayload.Fees())
		done("aborted")
		return builder.Aborted[Payload](args.BestPayload.Fees(), cached), nil
	}

	block := sealBlock(parent, attrs, args.Config.ExtraData, included, gasUsed)
	b.log.Debug("Built payload", "payload_id", attrs.PayloadID(), "hash", block.Hash(),
		"txs", len(included), "fees", fees)
	b.m.RecordPayloadFees(b.id.String(), weiFloat(fees))
	done("better")
	return builder.Better(NewPayload(block, fees), cached), nil
}

// OnMissingPayload lets the caller race an empty payload; this builder keeps
// no substitute payloads around.
func (b *Builder) OnMissingPayload(ctx context.Context, args builder.BuildArguments[Attributes, Payload]) builder.MissingPayloadBehaviour[Payload] {
	return builder.RaceEmptyPayload[Payload]()
}

// BuildEmptyPayload seals a block without any transactions. It succeeds
// whenever the parent is valid, resolving it through the client if the config
// does not carry it.
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
	block := sealBlock(parent, attrs, config.ExtraData, nil, 0)
	b.log.Debug("Built empty payload", "payload_id", attrs.PayloadID(), "hash", block.Hash())
	b.m.RecordEmptyPayload(b.id.String())
	return NewPayload(block, uint256.NewInt(0)), nil
}

func sealBlock(parent *types.Header, attrs Attributes, extraData []byte, txs types.Transactions, gasUsed uint64) *types.Block {
	header := &types.Header{
		ParentHash:       attrs.Parent(),
		Coinbase:         attrs.SuggestedFeeRecipient(),
		Number:           new(big.Int).Add(parent.Number, common.Big1),
		GasLimit:         parent.GasLimit,
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
