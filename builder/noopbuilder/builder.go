// Package noopbuilder provides a builder that never builds. It is useful as a
// stack terminator and as a stand-in in tests.
package noopbuilder

import (
	"context"

	"github.com/mantlenetworkio/op-payload-builder/bldrtypes"
	"github.com/mantlenetworkio/op-payload-builder/builder"
)

type Builder[A builder.PayloadAttributes, P builder.BuiltPayload] struct {
	id bldrtypes.BuilderID
}

func NewBuilder[A builder.PayloadAttributes, P builder.BuiltPayload](id bldrtypes.BuilderID) *Builder[A, P] {
	return &Builder[A, P]{id: id}
}

func (b *Builder[A, P]) ID() bldrtypes.BuilderID {
	return b.id
}

func (b *Builder[A, P]) String() string {
	return "noop-builder-" + b.id.String()
}

func (b *Builder[A, P]) TryBuild(ctx context.Context, args builder.BuildArguments[A, P]) (builder.BuildOutcome[P], error) {
	var zero builder.BuildOutcome[P]
	return zero, bldrtypes.ErrNoBuild
}

func (b *Builder[A, P]) OnMissingPayload(ctx context.Context, args builder.BuildArguments[A, P]) builder.MissingPayloadBehaviour[P] {
	return builder.RaceEmptyPayload[P]()
}

func (b *Builder[A, P]) BuildEmptyPayload(ctx context.Context, client builder.StateClient, config builder.PayloadConfig[A]) (P, error) {
	var zero P
	return zero, bldrtypes.ErrNoBuild
}
