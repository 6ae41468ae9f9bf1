package noopbuilder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mantlenetworkio/op-payload-builder/bldrtypes"
	"github.com/mantlenetworkio/op-payload-builder/builder"
	"github.com/mantlenetworkio/op-payload-builder/builder/buildertest"
	"github.com/mantlenetworkio/op-payload-builder/builder/noopbuilder"
)

func TestNoopBuilder(t *testing.T) {
	b := noopbuilder.NewBuilder[buildertest.Attributes, buildertest.Payload]("noop")
	require.Equal(t, bldrtypes.BuilderID("noop"), b.ID())

	_, err := b.TryBuild(context.Background(), builder.BuildArguments[buildertest.Attributes, buildertest.Payload]{})
	require.ErrorIs(t, err, bldrtypes.ErrNoBuild)

	_, err = b.BuildEmptyPayload(context.Background(), nil, builder.PayloadConfig[buildertest.Attributes]{})
	require.ErrorIs(t, err, bldrtypes.ErrNoBuild)

	behaviour := b.OnMissingPayload(context.Background(), builder.BuildArguments[buildertest.Attributes, buildertest.Payload]{})
	require.Equal(t, builder.MissingPayloadRaceEmpty, behaviour.Kind())
}
