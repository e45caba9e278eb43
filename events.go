package weivault

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventKind names a structured state-transition notification.
type EventKind string

// Event kinds emitted by vault operations.
const (
	EventDeposit               EventKind = "Deposit"
	EventWithdrawal            EventKind = "Withdrawal"
	EventAuthorizationChanged  EventKind = "AuthorizationChanged"
	EventUnmatchedCall         EventKind = "UnmatchedCall"
	EventStatusChanged         EventKind = "StatusChanged"
	EventUserRegistered        EventKind = "UserRegistered"
	EventStatsReset            EventKind = "StatsReset"
	EventMinimumDepositChanged EventKind = "MinimumDepositChanged"
	EventRestrictedAccess      EventKind = "RestrictedAccess"
)

// Event is one structured notification of a committed state transition.
type Event struct {
	ID      uuid.UUID
	Seq     uint64
	Kind    EventKind
	Account common.Address // subject of the transition
	Amount  *big.Int       // nil when no value is involved
	Note    string         // e.g. "granted", a user name, a status label
	Time    time.Time
}

// EventSink holds the append-only interaction log and the structured event
// stream. Entries are never deleted or reordered; consumers read copies.
// Every append is mirrored to the configured logger.
type EventSink struct {
	log     zerolog.Logger
	now     func() time.Time
	events  []Event
	records []InteractionRecord
	nextSeq uint64
}

// newEventSink creates a sink mirroring appends to logger.
func newEventSink(logger zerolog.Logger, now func() time.Time) *EventSink {
	return &EventSink{
		log: logger,
		now: now,
	}
}

// emit appends a structured event and returns it.
func (s *EventSink) emit(kind EventKind, account common.Address, amount *big.Int, note string) Event {
	ev := Event{
		ID:      uuid.New(),
		Seq:     s.nextSeq,
		Kind:    kind,
		Account: account,
		Note:    note,
		Time:    s.now(),
	}
	if amount != nil {
		ev.Amount = new(big.Int).Set(amount)
	}
	s.nextSeq++
	s.events = append(s.events, ev)

	entry := s.log.Info().
		Str("event", string(kind)).
		Uint64("seq", ev.Seq).
		Str("account", account.Hex())
	if ev.Amount != nil {
		entry = entry.Str("amount", ev.Amount.String())
	}
	if note != "" {
		entry = entry.Str("note", note)
	}
	entry.Msg("event emitted")

	return ev
}

// record appends an interaction log entry for an accepted interaction.
func (s *EventSink) record(kind InteractionKind, sender common.Address, value *big.Int, payload []byte) InteractionRecord {
	rec := InteractionRecord{
		ID:     uuid.New(),
		Seq:    s.nextSeq,
		Kind:   kind,
		Sender: sender,
		Value:  new(big.Int).Set(value),
		Time:   s.now(),
	}
	if len(payload) > 0 {
		rec.Payload = append([]byte(nil), payload...)
	}
	s.nextSeq++
	s.records = append(s.records, rec)

	s.log.Debug().
		Str("kind", kind.String()).
		Uint64("seq", rec.Seq).
		Str("sender", sender.Hex()).
		Str("value", rec.Value.String()).
		Int("payloadLen", len(payload)).
		Msg("interaction recorded")

	return rec
}

// Events returns a copy of the structured event stream in append order.
func (s *EventSink) Events() []Event {
	return append([]Event(nil), s.events...)
}

// Records returns a copy of the interaction log in append order.
func (s *EventSink) Records() []InteractionRecord {
	return append([]InteractionRecord(nil), s.records...)
}
