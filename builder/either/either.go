// Package either provides the two-variant sum type that lets two payload
// builders with unrelated attribute and payload types be composed under one
// combined type. The variant tag of a value is fixed at construction and is
// never changed afterwards.
package either

type Side uint8

const (
	SideLeft Side = iota + 1
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// Either holds exactly one of L or R, tagged by side.
// The zero value is invalid; construct with Left or Right.
type Either[L, R any] struct {
	side  Side
	left  L
	right R
}

func Left[L, R any](v L) Either[L, R] {
	return Either[L, R]{side: SideLeft, left: v}
}

func Right[L, R any](v R) Either[L, R] {
	return Either[L, R]{side: SideRight, right: v}
}

func (e Either[L, R]) Side() Side {
	return e.side
}

func (e Either[L, R]) IsLeft() bool {
	return e.side == SideLeft
}

// Left returns the left variant, if present.
func (e Either[L, R]) Left() (L, bool) {
	return e.left, e.side == SideLeft
}

// Right returns the right variant, if present.
func (e Either[L, R]) Right() (R, bool) {
	return e.right, e.side == SideRight
}
