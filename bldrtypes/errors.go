package bldrtypes

import "errors"

var (
	// ErrInvalidAttributes is returned by attribute constructors when the raw
	// payload attributes do not match the shape the addressed builder expects.
	ErrInvalidAttributes = errors.New("invalid payload attributes")

	// ErrStaleTimestamp is returned when requested attributes do not advance
	// the chain time past the parent block.
	ErrStaleTimestamp = errors.New("attributes timestamp not past parent")

	// ErrNoBuild is returned by builders that do not support the requested
	// build operation.
	ErrNoBuild = errors.New("no building supported")

	// ErrNoBuilderSucceeded is returned when every builder in a stack failed
	// to produce an empty payload. This path has no further fallback in the
	// node, so the concrete builder errors are attached to it.
	ErrNoBuilderSucceeded = errors.New("no payload builder succeeded")

	// ErrConflictingJob is returned when registering a build job whose ID is
	// already taken.
	ErrConflictingJob = errors.New("conflicting build job")

	// ErrUnknownJob is returned when looking up a build job that is not
	// registered.
	ErrUnknownJob = errors.New("unknown build job")

	// ErrJobClosed is returned when interacting with a build job that has
	// already been closed.
	ErrJobClosed = errors.New("build job closed")
)
