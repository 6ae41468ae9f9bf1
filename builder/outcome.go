package builder

import "github.com/holiman/uint256"

type OutcomeKind uint8

const (
	// OutcomeInvalid is the zero value; no defined outcome was produced.
	OutcomeInvalid OutcomeKind = iota

	// OutcomeBetter carries a payload that improves on the best payload the
	// arguments supplied, by total fees.
	OutcomeBetter

	// OutcomeAborted means no improved payload was produced. The cached reads
	// remain valid, and the fee total of the best payload known is reported.
	OutcomeAborted

	// OutcomeCancelled means the cancellation signal fired. No payload, and
	// no cache obligation.
	OutcomeCancelled
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeBetter:
		return "better"
	case OutcomeAborted:
		return "aborted"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// BuildOutcome is the tri-state result of one build attempt.
// Construct with Better, Aborted or Cancelled.
type BuildOutcome[P BuiltPayload] struct {
	kind    OutcomeKind
	payload P
	fees    *uint256.Int
	cached  *CachedReads
}

func Better[P BuiltPayload](payload P, cached *CachedReads) BuildOutcome[P] {
	return BuildOutcome[P]{kind: OutcomeBetter, payload: payload, cached: cached}
}

func Aborted[P BuiltPayload](fees *uint256.Int, cached *CachedReads) BuildOutcome[P] {
	return BuildOutcome[P]{kind: OutcomeAborted, fees: fees, cached: cached}
}

func Cancelled[P BuiltPayload]() BuildOutcome[P] {
	return BuildOutcome[P]{kind: OutcomeCancelled}
}

func (o BuildOutcome[P]) Kind() OutcomeKind {
	return o.kind
}

// Payload returns the improved payload of a Better outcome.
func (o BuildOutcome[P]) Payload() (P, bool) {
	return o.payload, o.kind == OutcomeBetter
}

// Fees reports the fee total of the best payload known after this attempt.
// Nil for Cancelled.
func (o BuildOutcome[P]) Fees() *uint256.Int {
	if o.kind == OutcomeBetter {
		return o.payload.Fees()
	}
	return o.fees
}

// CachedReads returns the state-read cache to thread into the next attempt
// for the same request. Nil for Cancelled.
func (o BuildOutcome[P]) CachedReads() *CachedReads {
	return o.cached
}

// MapOutcome lifts an outcome to another payload type. Better payloads run
// through fn; Aborted and Cancelled pass through with no payload to map.
// The cached reads are carried over untouched.
func MapOutcome[P1, P2 BuiltPayload](o BuildOutcome[P1], fn func(P1) P2) BuildOutcome[P2] {
	switch o.kind {
	case OutcomeBetter:
		return Better(fn(o.payload), o.cached)
	case OutcomeAborted:
		return Aborted[P2](o.fees, o.cached)
	default:
		return Cancelled[P2]()
	}
}

type MissingPayloadKind uint8

const (
	MissingPayloadAwait MissingPayloadKind = iota
	MissingPayloadRaceEmpty
	MissingPayloadRaceBuilt
)

func (k MissingPayloadKind) String() string {
	switch k {
	case MissingPayloadAwait:
		return "await-in-progress"
	case MissingPayloadRaceEmpty:
		return "race-empty-payload"
	case MissingPayloadRaceBuilt:
		return "race-built-payload"
	default:
		return "unknown"
	}
}

// MissingPayloadBehaviour tells the scheduler what to do when a payload is
// requested before any build attempt completed.
type MissingPayloadBehaviour[P BuiltPayload] struct {
	kind    MissingPayloadKind
	payload P
}

// AwaitInProgress tells the caller to keep waiting for the in-progress job.
func AwaitInProgress[P BuiltPayload]() MissingPayloadBehaviour[P] {
	return MissingPayloadBehaviour[P]{kind: MissingPayloadAwait}
}

// RaceEmptyPayload tells the caller to race an empty payload against the
// in-progress job.
func RaceEmptyPayload[P BuiltPayload]() MissingPayloadBehaviour[P] {
	return MissingPayloadBehaviour[P]{kind: MissingPayloadRaceEmpty}
}

// RacePayload hands the caller a substitute payload produced immediately.
func RacePayload[P BuiltPayload](payload P) MissingPayloadBehaviour[P] {
	return MissingPayloadBehaviour[P]{kind: MissingPayloadRaceBuilt, payload: payload}
}

func (b MissingPayloadBehaviour[P]) Kind() MissingPayloadKind {
	return b.kind
}

// Payload returns the substitute payload of a RacePayload behaviour.
func (b MissingPayloadBehaviour[P]) Payload() (P, bool) {
	return b.payload, b.kind == MissingPayloadRaceBuilt
}

// MapMissingPayload lifts a missing-payload behaviour to another payload type.
func MapMissingPayload[P1, P2 BuiltPayload](b MissingPayloadBehaviour[P1], fn func(P1) P2) MissingPayloadBehaviour[P2] {
	if b.kind == MissingPayloadRaceBuilt {
		return RacePayload(fn(b.payload))
	}
	return MissingPayloadBehaviour[P2]{kind: b.kind}
}
