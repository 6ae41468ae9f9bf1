// Package stack composes two payload builders into one.
//
// Stack chains builders that share one attribute/payload type, trying the
// left builder first and falling back to the right one on error.
// EitherStack chains builders of unrelated types under a combined either-typed
// surface, dispatching exclusively on the attribute variant tag.
// Both are themselves PayloadBuilder implementations, so stacks nest:
// New(log, New(log, a, b), c) tries a, then b, then c.
package stack

import (
	"context"

	"github.com/ethereum/go-ethereum/log"
	"github.com/hashicorp/go-multierror"

	"github.com/mantlenetworkio/op-payload-builder/bldrtypes"
	"github.com/mantlenetworkio/op-payload-builder/builder"
)

// Stack composes two builders over one shared attribute/payload type.
// Left always runs first; right only runs when left returns an error, and
// observes the same arguments left was given.
type Stack[A builder.PayloadAttributes, P builder.BuiltPayload] struct {
	log   log.Logger
	left  builder.PayloadBuilder[A, P]
	right builder.PayloadBuilder[A, P]
}

func New[A builder.PayloadAttributes, P builder.BuiltPayload](
	logger log.Logger,
	left builder.PayloadBuilder[A, P],
	right builder.PayloadBuilder[A, P],
) *Stack[A, P] {
	return &Stack[A, P]{log: logger, left: left, right: right}
}

func (s *Stack[A, P]) Policy() builder.FallbackPolicy {
	return builder.FallbackTryBoth
}

// TryBuild attempts the left builder and returns its outcome if it produced
// one. Any defined outcome counts, including Aborted and Cancelled; only an
// error triggers the right builder, whose result is final.
func (s *Stack[A, P]) TryBuild(ctx context.Context, args builder.BuildArguments[A, P]) (builder.BuildOutcome[P], error) {
	outcome, err := s.left.TryBuild(ctx, args)
	if err == nil {
		return outcome, nil
	}
	s.log.Debug("Left payload builder failed, trying right",
		"payload_id", args.Config.Attributes.PayloadID(), "err", err)
	return s.right.TryBuild(ctx, args)
}

// OnMissingPayload asks the left builder first. Only RaceEmptyPayload falls
// through to the right builder; any other behaviour wins outright.
func (s *Stack[A, P]) OnMissingPayload(ctx context.Context, args builder.BuildArguments[A, P]) builder.MissingPayloadBehaviour[P] {
	behaviour := s.left.OnMissingPayload(ctx, args)
	if behaviour.Kind() == builder.MissingPayloadRaceEmpty {
		return s.right.OnMissingPayload(ctx, args)
	}
	return behaviour
}

// BuildEmptyPayload tries left, then right. When both fail, the composed
// error carries both concrete failures: this path has no further fallback in
// the node, so neither error may be dropped.
func (s *Stack[A, P]) BuildEmptyPayload(ctx context.Context, client builder.StateClient, config builder.PayloadConfig[A]) (P, error) {
	payload, leftErr := s.left.BuildEmptyPayload(ctx, client, config)
	if leftErr == nil {
		return payload, nil
	}
	s.log.Debug("Left payload builder failed to build empty payload, trying right",
		"payload_id", config.Attributes.PayloadID(), "err", leftErr)
	payload, rightErr := s.right.BuildEmptyPayload(ctx, client, config)
	if rightErr == nil {
		return payload, nil
	}
	var zero P
	return zero, multierror.Append(bldrtypes.ErrNoBuilderSucceeded, leftErr, rightErr)
}
