package weivault

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// InteractionKind classifies an inbound interaction by the shape of its
// payload, mirroring the EVM's receive/function/fallback split.
type InteractionKind uint8

const (
	// KindDirectValue is a plain value transfer with empty calldata.
	KindDirectValue InteractionKind = iota

	// KindMatchedCall is calldata whose selector matches a known operation.
	KindMatchedCall

	// KindUnmatchedCall is any other payload; it still accepts funds.
	KindUnmatchedCall
)

// String returns the kind name.
func (k InteractionKind) String() string {
	switch k {
	case KindDirectValue:
		return "DirectValue"
	case KindMatchedCall:
		return "MatchedCall"
	case KindUnmatchedCall:
		return "UnmatchedCall"
	default:
		return "Unknown"
	}
}

// Interaction is one inbound call as delivered by the transaction layer:
// who sent it, how much value rides along, and the raw calldata.
type Interaction struct {
	Sender  common.Address
	Value   *big.Int // nil is treated as zero
	Payload []byte
}

// value returns the attached value, normalizing nil to zero.
func (ix Interaction) value() *big.Int {
	if ix.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(ix.Value)
}

// InteractionRecord is the append-only log entry created once per accepted
// interaction. Records are never mutated, reordered, or deleted.
type InteractionRecord struct {
	ID      uuid.UUID
	Seq     uint64
	Kind    InteractionKind
	Sender  common.Address
	Value   *big.Int
	Payload []byte
	Time    time.Time
}

// Receipt is the successful outcome of applying an interaction.
type Receipt struct {
	Kind   InteractionKind
	Op     string // matched operation name, empty for the other arms
	Record InteractionRecord
}
