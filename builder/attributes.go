package builder

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

// payloadVersion is the engine-API payload version encoded in the first byte
// of every payload ID.
const payloadVersion byte = 0x03

// RawAttributes is the externally supplied description of a requested block,
// as delivered by the engine API. Attribute constructors validate it and turn
// it into a typed, immutable PayloadAttributes value.
type RawAttributes struct {
	Timestamp             hexutil.Uint64    `json:"timestamp"`
	PrevRandao            common.Hash       `json:"prevRandao"`
	SuggestedFeeRecipient common.Address    `json:"suggestedFeeRecipient"`
	Withdrawals           types.Withdrawals `json:"withdrawals"`
	ParentBeaconBlockRoot *common.Hash      `json:"parentBeaconBlockRoot,omitempty"`

	// Transactions are forced into the block in the given order, ahead of any
	// pool transactions. Sequencer-only.
	Transactions []hexutil.Bytes `json:"transactions,omitempty"`

	// NoTxPool excludes pool transactions entirely. Sequencer-only.
	NoTxPool bool `json:"noTxPool,omitempty"`

	// GasLimit overrides the parent gas limit, when set. Sequencer-only.
	GasLimit *hexutil.Uint64 `json:"gasLimit,omitempty"`
}

// HasSequencerFields reports whether any sequencer-only field is in use.
func (r *RawAttributes) HasSequencerFields() bool {
	return r.NoTxPool || len(r.Transactions) > 0 || r.GasLimit != nil
}

// ComputePayloadID derives the content-addressed payload identifier for the
// given parent and attributes. The ID is a pure function of every field the
// engine-API identification scheme uses, so callers can recompute the same ID
// from the same inputs.
func ComputePayloadID(parent common.Hash, raw *RawAttributes) engine.PayloadID {
	hasher := sha256.New()
	hasher.Write(parent[:])
	_ = binary.Write(hasher, binary.BigEndian, uint64(raw.Timestamp))
	hasher.Write(raw.PrevRandao[:])
	hasher.Write(raw.SuggestedFeeRecipient[:])
	_ = rlp.Encode(hasher, raw.Withdrawals)
	if raw.ParentBeaconBlockRoot != nil {
		hasher.Write(raw.ParentBeaconBlockRoot[:])
	}
	if raw.NoTxPool || len(raw.Transactions) > 0 {
		_ = binary.Write(hasher, binary.BigEndian, raw.NoTxPool)
		_ = binary.Write(hasher, binary.BigEndian, uint64(len(raw.Transactions)))
		for _, tx := range raw.Transactions {
			hasher.Write(tx)
		}
	}
	if raw.GasLimit != nil {
		_ = binary.Write(hasher, binary.BigEndian, uint64(*raw.GasLimit))
	}

	var id engine.PayloadID
	copy(id[:], hasher.Sum(nil)[:8])
	id[0] = payloadVersion
	return id
}
