package stack

import (
	"context"

	"github.com/ethereum/go-ethereum/log"
	"github.com/hashicorp/go-multierror"

	"github.com/mantlenetworkio/op-payload-builder/bldrtypes"
	"github.com/mantlenetworkio/op-payload-builder/builder"
	"github.com/mantlenetworkio/op-payload-builder/builder/either"
)

// EitherStack composes two builders of unrelated attribute and payload types.
// Its own attribute, payload and error types are the either-tagged unions of
// the two sides.
//
// Dispatch is exclusive by the attribute tag: the tag selects one side for the
// entire attempt, and there is no fallback to the other side on failure. The
// two sides may address logically distinct chains, and cross-side fallback
// would silently build the wrong kind of block.
type EitherStack[LA, RA builder.PayloadAttributes, LP, RP builder.BuiltPayload] struct {
	log   log.Logger
	left  builder.PayloadBuilder[LA, LP]
	right builder.PayloadBuilder[RA, RP]
}

func NewEither[LA, RA builder.PayloadAttributes, LP, RP builder.BuiltPayload](
	logger log.Logger,
	left builder.PayloadBuilder[LA, LP],
	right builder.PayloadBuilder[RA, RP],
) *EitherStack[LA, RA, LP, RP] {
	return &EitherStack[LA, RA, LP, RP]{log: logger, left: left, right: right}
}

func (s *EitherStack[LA, RA, LP, RP]) Policy() builder.FallbackPolicy {
	return builder.FallbackExclusiveByTag
}

// leftArgs narrows combined arguments to the left builder's types. The ctx,
// client, pool and cached reads are handed through as-is; a best payload of
// the non-matching variant is treated as absent, since the other side's
// history does not carry over.
func (s *EitherStack[LA, RA, LP, RP]) leftArgs(args builder.BuildArguments[either.Attributes[LA, RA], either.Payload[LP, RP]], attrs LA) builder.BuildArguments[LA, LP] {
	out := builder.BuildArguments[LA, LP]{
		Client:      args.Client,
		Pool:        args.Pool,
		CachedReads: args.CachedReads,
		Config: builder.PayloadConfig[LA]{
			Parent:     args.Config.Parent,
			Attributes: attrs,
			ExtraData:  args.Config.ExtraData,
		},
	}
	if args.BestPayload != nil {
		if best, ok := args.BestPayload.Unwrap().Left(); ok {
			out.BestPayload = &best
		}
	}
	return out
}

func (s *EitherStack[LA, RA, LP, RP]) rightArgs(args builder.BuildArguments[either.Attributes[LA, RA], either.Payload[LP, RP]], attrs RA) builder.BuildArguments[RA, RP] {
	out := builder.BuildArguments[RA, RP]{
		Client:      args.Client,
		Pool:        args.Pool,
		CachedReads: args.CachedReads,
		Config: builder.PayloadConfig[RA]{
			Parent:     args.Config.Parent,
			Attributes: attrs,
			ExtraData:  args.Config.ExtraData,
		},
	}
	if args.BestPayload != nil {
		if best, ok := args.BestPayload.Unwrap().Right(); ok {
			out.BestPayload = &best
		}
	}
	return out
}

// TryBuild dispatches on the attribute tag, re-tagging the selected side's
// outcome back into the combined payload type. Errors come back tagged with
// the side they originated from.
func (s *EitherStack[LA, RA, LP, RP]) TryBuild(ctx context.Context, args builder.BuildArguments[either.Attributes[LA, RA], either.Payload[LP, RP]]) (builder.BuildOutcome[either.Payload[LP, RP]], error) {
	var zero builder.BuildOutcome[either.Payload[LP, RP]]
	if attrs, ok := args.Config.Attributes.Unwrap().Left(); ok {
		outcome, err := s.left.TryBuild(ctx, s.leftArgs(args, attrs))
		if err != nil {
			return zero, either.LeftErr(err)
		}
		return builder.MapOutcome(outcome, either.LeftPayload[LP, RP]), nil
	}
	attrs, _ := args.Config.Attributes.Unwrap().Right()
	outcome, err := s.right.TryBuild(ctx, s.rightArgs(args, attrs))
	if err != nil {
		return zero, either.RightErr(err)
	}
	return builder.MapOutcome(outcome, either.RightPayload[LP, RP]), nil
}

// OnMissingPayload dispatches on the attribute tag and re-tags any substitute
// payload into the combined type.
func (s *EitherStack[LA, RA, LP, RP]) OnMissingPayload(ctx context.Context, args builder.BuildArguments[either.Attributes[LA, RA], either.Payload[LP, RP]]) builder.MissingPayloadBehaviour[either.Payload[LP, RP]] {
	if attrs, ok := args.Config.Attributes.Unwrap().Left(); ok {
		return builder.MapMissingPayload(s.left.OnMissingPayload(ctx, s.leftArgs(args, attrs)), either.LeftPayload[LP, RP])
	}
	attrs, _ := args.Config.Attributes.Unwrap().Right()
	return builder.MapMissingPayload(s.right.OnMissingPayload(ctx, s.rightArgs(args, attrs)), either.RightPayload[LP, RP])
}

// BuildEmptyPayload dispatches on the attribute tag. A failure of the
// selected side is terminal; the concrete error is surfaced either way, a
// left failure inside the composed no-builder-succeeded error.
func (s *EitherStack[LA, RA, LP, RP]) BuildEmptyPayload(ctx context.Context, client builder.StateClient, config builder.PayloadConfig[either.Attributes[LA, RA]]) (either.Payload[LP, RP], error) {
	var zero either.Payload[LP, RP]
	if attrs, ok := config.Attributes.Unwrap().Left(); ok {
		payload, err := s.left.BuildEmptyPayload(ctx, client, builder.PayloadConfig[LA]{
			Parent:     config.Parent,
			Attributes: attrs,
			ExtraData:  config.ExtraData,
		})
		if err != nil {
			s.log.Warn("Left payload builder failed to build empty payload",
				"payload_id", config.Attributes.PayloadID(), "err", err)
			return zero, multierror.Append(bldrtypes.ErrNoBuilderSucceeded, either.LeftErr(err))
		}
		return either.LeftPayload[LP, RP](payload), nil
	}
	attrs, _ := config.Attributes.Unwrap().Right()
	payload, err := s.right.BuildEmptyPayload(ctx, client, builder.PayloadConfig[RA]{
		Parent:     config.Parent,
		Attributes: attrs,
		ExtraData:  config.ExtraData,
	})
	if err != nil {
		return zero, either.RightErr(err)
	}
	return either.RightPayload[LP, RP](payload), nil
}
