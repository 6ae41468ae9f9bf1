package bldrtypes

import (
	"errors"

	"github.com/google/uuid"
)

const maxIDLength = 100

var ErrInvalidID = errors.New("invalid ID")

type genericID string

func (id genericID) String() string {
	return string(id)
}

func (id genericID) MarshalText() ([]byte, error) {
	if len(id) > maxIDLength {
		return nil, ErrInvalidID
	}
	return []byte(id), nil
}

func (id *genericID) UnmarshalText(data []byte) error {
	if len(data) > maxIDLength {
		return ErrInvalidID
	}
	*id = genericID(data)
	return nil
}

// BuilderID identifies a payload-builder strategy.
// Stacked builders keep their own IDs; the stack itself has none.
type BuilderID genericID

func (id BuilderID) String() string {
	return genericID(id).String()
}

func (id BuilderID) MarshalText() ([]byte, error) {
	return genericID(id).MarshalText()
}

func (id *BuilderID) UnmarshalText(data []byte) error {
	return (*genericID)(id).UnmarshalText(data)
}

// BuildJobID identifies one payload-building job.
// Multiple alternative payloads may be built in parallel, under different jobs.
type BuildJobID genericID

func (id BuildJobID) String() string {
	return genericID(id).String()
}

func (id BuildJobID) MarshalText() ([]byte, error) {
	return genericID(id).MarshalText()
}

func (id *BuildJobID) UnmarshalText(data []byte) error {
	return (*genericID)(id).UnmarshalText(data)
}

func RandomJobID() BuildJobID {
	return BuildJobID("job-" + uuid.New().String())
}
