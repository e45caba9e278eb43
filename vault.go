package weivault

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// Status is the lifecycle state of a vault instance. The zero value is
// StatusCreated, the declared default; New moves a fresh instance to
// StatusActive before returning it.
type Status uint8

const (
	// StatusCreated is the declared default before activation.
	StatusCreated Status = iota

	// StatusActive accepts deposits, registrations, and value transfers.
	StatusActive

	// StatusPaused rejects value-moving operations until reactivated.
	StatusPaused

	// StatusClosed is terminal; the status can never change again.
	StatusClosed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "Created"
	case StatusActive:
		return "Active"
	case StatusPaused:
		return "Paused"
	case StatusClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Stats is a counter plus the cumulative value behind it.
type Stats struct {
	Count uint64
	Total *big.Int
}

// Info describes a vault instance.
type Info struct {
	Name      string
	Owner     common.Address
	CreatedAt time.Time
	Status    Status
}

// UserInfo describes a registered user.
type UserInfo struct {
	Name         string
	Balance      *big.Int
	RegisteredAt time.Time
	Exists       bool
}

type userRecord struct {
	name         string
	registeredAt time.Time
}

// arm name used by guards on the direct value-transfer path.
const opReceive = "receive"

var defaultMinimumDepositCap = new(big.Int).Mul(
	big.NewInt(100),
	big.NewInt(1_000_000_000_000_000_000), // 1 ether in wei
)

// Vault is one contract instance: authorization registry, ledger, dispatch
// statistics, lifecycle status, and the append-only interaction log, all
// behind a single mutual-exclusion boundary.
type Vault struct {
	mu sync.RWMutex

	name      string
	auth      *AuthRegistry
	ledger    *Ledger
	ops       *OperationRegistry
	sink      *EventSink
	status    Status
	createdAt time.Time
	users     map[common.Address]userRecord

	minimumDeposit   *big.Int
	minimumDepositLo *big.Int
	minimumDepositHi *big.Int

	// Dispatch statistics, independent of the ledger.
	receiveCount      uint64
	etherFromReceive  *big.Int
	fallbackCount     uint64
	etherFromFallback *big.Int
	lastSender        common.Address
	lastPayload       []byte

	// Construction-only knobs.
	logger         zerolog.Logger
	now            func() time.Time
	initialFunding *big.Int
}

// New creates a vault owned by owner and activates it. The owner identity is
// immutable for the life of the instance.
func New(owner common.Address, opts ...VaultOption) *Vault {
	v := &Vault{
		name:              "weivault",
		ledger:            NewLedger(),
		ops:               NewOperationRegistry(),
		users:             make(map[common.Address]userRecord),
		minimumDeposit:    new(big.Int),
		minimumDepositLo:  new(big.Int),
		minimumDepositHi:  new(big.Int).Set(defaultMinimumDepositCap),
		etherFromReceive:  new(big.Int),
		etherFromFallback: new(big.Int),
		logger:            zerolog.Nop(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.auth = newAuthRegistry(owner)
	v.sink = newEventSink(v.logger, v.now)
	v.createdAt = v.now()
	v.status = StatusActive

	if v.initialFunding != nil && v.initialFunding.Sign() > 0 {
		v.ledger.Credit(owner, v.initialFunding)
		v.sink.emit(EventDeposit, owner, v.initialFunding, "initial funding")
	}

	return v
}

// Operations returns the operation registry, for encoding raw calldata.
func (v *Vault) Operations() *OperationRegistry {
	return v.ops
}

// =========================================================================
// Write operations
// =========================================================================

// Deposit credits amount to the caller's balance. Fails with
// ErrInvalidArgument on a zero amount or one below the configured minimum,
// and with ErrInactive unless the vault is active.
func (v *Vault) Deposit(caller common.Address, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deposit(caller, amount, v.minimumDeposit)
}

// Withdraw debits amount from the caller's balance. Fails with
// ErrInsufficientFunds if the balance cannot cover it. totalReceived is
// unaffected. The external value transfer is the transaction layer's job;
// only the authoritative balance record moves here.
func (v *Vault) Withdraw(caller common.Address, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.withdraw(caller, amount)
}

// Grant adds target to the authorized set. Owner only.
func (v *Vault) Grant(caller, target common.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.grant(caller, target)
}

// Revoke removes target from the authorized set. Owner only; revoking a
// non-member succeeds without effect.
func (v *Vault) Revoke(caller, target common.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.revoke(caller, target)
}

// ResetStats zeroes the four dispatch counters. Owner only. Balances and
// totalReceived are untouched.
func (v *Vault) ResetStats(caller common.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.resetStats(caller)
}

// RegisterUser records a display name for the caller. The name must be
// non-empty; re-registering updates it.
func (v *Vault) RegisterUser(caller common.Address, name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.registerUser(caller, name)
}

// SetStatus moves the lifecycle status. Owner only. Valid targets are
// Active, Paused, and Closed; Closed is terminal.
func (v *Vault) SetStatus(caller common.Address, status Status) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.setStatus(caller, status)
}

// SetMinimumDeposit moves the deposit floor within the configured bounds.
// Owner only.
func (v *Vault) SetMinimumDeposit(caller common.Address, floor *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.setMinimumDeposit(caller, floor)
}

// Restricted is the authorized-tier operation: it succeeds for the owner and
// any granted account, and fails with ErrUnauthorized for everyone else.
func (v *Vault) Restricted(caller common.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.restricted(caller)
}

func (v *Vault) deposit(caller common.Address, amount, floor *big.Int) error {
	err := runGuards(
		func() error { return requireActive(OpDeposit, v.status) },
		func() error { return requirePositiveValue(OpDeposit, amount) },
		func() error { return requireMinimum(OpDeposit, amount, floor) },
	)
	if err != nil {
		return err
	}

	v.ledger.Credit(caller, amount)
	v.sink.emit(EventDeposit, caller, amount, "")
	return nil
}

func (v *Vault) withdraw(caller common.Address, amount *big.Int) error {
	if amount == nil {
		amount = new(big.Int)
	}
	err := runGuards(
		func() error { return requireActive(OpWithdraw, v.status) },
		func() error { return requireSufficientBalance(OpWithdraw, v.ledger, caller, amount) },
	)
	if err != nil {
		return err
	}

	if err := v.ledger.Debit(caller, amount); err != nil {
		return err
	}
	v.sink.emit(EventWithdrawal, caller, amount, "")
	return nil
}

func (v *Vault) grant(caller, target common.Address) error {
	if err := v.auth.Grant(caller, target); err != nil {
		return err
	}
	v.sink.emit(EventAuthorizationChanged, target, nil, "granted")
	return nil
}

func (v *Vault) revoke(caller, target common.Address) error {
	if err := v.auth.Revoke(caller, target); err != nil {
		return err
	}
	v.sink.emit(EventAuthorizationChanged, target, nil, "revoked")
	return nil
}

func (v *Vault) resetStats(caller common.Address) error {
	if err := requireAuthorized(OpResetStats, v.auth, caller, TierOwner); err != nil {
		return err
	}

	v.receiveCount = 0
	v.fallbackCount = 0
	v.etherFromReceive = new(big.Int)
	v.etherFromFallback = new(big.Int)
	v.sink.emit(EventStatsReset, caller, nil, "")
	return nil
}

func (v *Vault) registerUser(caller common.Address, name string) error {
	err := runGuards(
		func() error { return requireActive(OpRegisterUser, v.status) },
		func() error { return requireNonEmpty(OpRegisterUser, "name", name) },
	)
	if err != nil {
		return err
	}

	v.users[caller] = userRecord{name: name, registeredAt: v.now()}
	v.sink.emit(EventUserRegistered, caller, nil, name)
	return nil
}

func (v *Vault) setStatus(caller common.Address, status Status) error {
	err := runGuards(
		func() error { return requireAuthorized(OpSetStatus, v.auth, caller, TierOwner) },
		func() error {
			if v.status == StatusClosed {
				return &GuardError{Op: OpSetStatus, Guard: "lifecycle", Detail: "vault closed", Err: ErrInactive}
			}
			return nil
		},
		func() error { return requireRange(OpSetStatus, int64(status), int64(StatusActive), int64(StatusClosed)) },
	)
	if err != nil {
		return err
	}

	v.status = status
	v.sink.emit(EventStatusChanged, caller, nil, status.String())
	return nil
}

func (v *Vault) setMinimumDeposit(caller common.Address, floor *big.Int) error {
	err := runGuards(
		func() error { return requireAuthorized(OpSetMinimumDeposit, v.auth, caller, TierOwner) },
		func() error {
			if floor == nil {
				return &GuardError{Op: OpSetMinimumDeposit, Guard: "positiveValue", Err: ErrInvalidArgument}
			}
			return nil
		},
		func() error {
			return requireRangeBig(OpSetMinimumDeposit, floor, v.minimumDepositLo, v.minimumDepositHi)
		},
	)
	if err != nil {
		return err
	}

	v.minimumDeposit = new(big.Int).Set(floor)
	v.sink.emit(EventMinimumDepositChanged, caller, floor, "")
	return nil
}

func (v *Vault) restricted(caller common.Address) error {
	if err := requireAuthorized(OpRestricted, v.auth, caller, TierAuthorized); err != nil {
		return err
	}
	v.sink.emit(EventRestrictedAccess, caller, nil, "")
	return nil
}

// =========================================================================
// Dispatch
// =========================================================================

// Apply processes one inbound interaction end to end: classify, validate,
// mutate, log. On any guard or decode failure the interaction is rejected
// atomically; no balance, counter, or log entry changes, and the failure
// kind surfaces to the caller. Counters advance only on acceptance.
func (v *Vault) Apply(ix Interaction) (*Receipt, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	value := ix.value()
	kind, method := v.ops.Classify(ix.Payload)

	switch kind {
	case KindDirectValue:
		err := runGuards(
			func() error { return requireActive(opReceive, v.status) },
			func() error { return requirePositiveValue(opReceive, value) },
		)
		if err != nil {
			return nil, err
		}

		v.ledger.Credit(ix.Sender, value)
		v.receiveCount++
		v.etherFromReceive.Add(v.etherFromReceive, value)
		v.lastSender = ix.Sender
		v.lastPayload = nil
		v.sink.emit(EventDeposit, ix.Sender, value, "")
		rec := v.sink.record(kind, ix.Sender, value, nil)
		return &Receipt{Kind: kind, Record: rec}, nil

	case KindMatchedCall:
		name, args, err := v.ops.DecodeCall(ix.Payload)
		if err != nil {
			return nil, err
		}
		if value.Sign() > 0 && method.StateMutability != "payable" {
			return nil, &GuardError{
				Op:     name,
				Guard:  "payable",
				Detail: "value attached to non-payable operation",
				Err:    ErrInvalidArgument,
			}
		}
		if err := v.invoke(name, ix.Sender, value, args); err != nil {
			return nil, err
		}
		rec := v.sink.record(kind, ix.Sender, value, ix.Payload)
		return &Receipt{Kind: kind, Op: name, Record: rec}, nil

	default: // KindUnmatchedCall accepts any attached value unconditionally.
		v.fallbackCount++
		v.etherFromFallback.Add(v.etherFromFallback, value)
		if value.Sign() > 0 {
			v.ledger.Accrue(value)
		}
		v.lastSender = ix.Sender
		v.lastPayload = append([]byte(nil), ix.Payload...)
		v.sink.emit(EventUnmatchedCall, ix.Sender, value, "")
		rec := v.sink.record(kind, ix.Sender, value, ix.Payload)
		return &Receipt{Kind: kind, Record: rec}, nil
	}
}

// invoke routes a decoded matched call to its bound handler.
func (v *Vault) invoke(name string, sender common.Address, value *big.Int, args []any) error {
	switch name {
	case OpDeposit:
		return v.deposit(sender, value, v.minimumDeposit)

	case OpWithdraw:
		amount, err := argBig(name, 0, args)
		if err != nil {
			return err
		}
		return v.withdraw(sender, amount)

	case OpGrant:
		target, err := argAddress(name, 0, args)
		if err != nil {
			return err
		}
		return v.grant(sender, target)

	case OpRevoke:
		target, err := argAddress(name, 0, args)
		if err != nil {
			return err
		}
		return v.revoke(sender, target)

	case OpResetStats:
		return v.resetStats(sender)

	case OpRegisterUser:
		userName, err := argString(name, 0, args)
		if err != nil {
			return err
		}
		return v.registerUser(sender, userName)

	case OpSetStatus:
		raw, err := argUint8(name, 0, args)
		if err != nil {
			return err
		}
		return v.setStatus(sender, Status(raw))

	case OpSetMinimumDeposit:
		floor, err := argBig(name, 0, args)
		if err != nil {
			return err
		}
		return v.setMinimumDeposit(sender, floor)

	case OpRestricted:
		return v.restricted(sender)

	default:
		return &UnknownOperationError{Name: name}
	}
}

// =========================================================================
// Read operations
// =========================================================================

// BalanceOf returns the account's balance. Never fails.
func (v *Vault) BalanceOf(account common.Address) *big.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.ledger.BalanceOf(account)
}

// TotalReceived returns the lifetime total of accepted inbound value.
func (v *Vault) TotalReceived() *big.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.ledger.TotalReceived()
}

// Owner returns the owner account.
func (v *Vault) Owner() common.Address {
	return v.auth.Owner()
}

// IsOwner reports whether account is the owner.
func (v *Vault) IsOwner(account common.Address) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.auth.IsOwner(account)
}

// IsAuthorized reports whether account is the owner or holds a grant.
func (v *Vault) IsAuthorized(account common.Address) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.auth.IsAuthorized(account)
}

// ReceiveStats returns the direct value-transfer counters.
func (v *Vault) ReceiveStats() Stats {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Stats{Count: v.receiveCount, Total: new(big.Int).Set(v.etherFromReceive)}
}

// FallbackStats returns the unmatched-call counters.
func (v *Vault) FallbackStats() Stats {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Stats{Count: v.fallbackCount, Total: new(big.Int).Set(v.etherFromFallback)}
}

// LastInteraction returns the sender and payload of the most recent
// interaction handled by the receive or fallback arm.
func (v *Vault) LastInteraction() (common.Address, []byte) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastSender, append([]byte(nil), v.lastPayload...)
}

// UserInfo returns the registered user record for account.
func (v *Vault) UserInfo(account common.Address) UserInfo {
	v.mu.RLock()
	defer v.mu.RUnlock()

	info := UserInfo{Balance: v.ledger.BalanceOf(account)}
	if rec, ok := v.users[account]; ok {
		info.Name = rec.name
		info.RegisteredAt = rec.registeredAt
		info.Exists = true
	}
	return info
}

// Info returns the instance metadata.
func (v *Vault) Info() Info {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Info{
		Name:      v.name,
		Owner:     v.auth.Owner(),
		CreatedAt: v.createdAt,
		Status:    v.status,
	}
}

// Status returns the lifecycle status.
func (v *Vault) Status() Status {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.status
}

// MinimumDeposit returns the current deposit floor.
func (v *Vault) MinimumDeposit() *big.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return new(big.Int).Set(v.minimumDeposit)
}

// Events returns a copy of the structured event stream.
func (v *Vault) Events() []Event {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sink.Events()
}

// Records returns a copy of the interaction log.
func (v *Vault) Records() []InteractionRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sink.Records()
}

// =========================================================================
// Decoded-argument accessors
// =========================================================================

func argBig(op string, i int, args []any) (*big.Int, error) {
	if i >= len(args) {
		return nil, &DecodeError{Op: op, Err: ErrInvalidArgument}
	}
	n, ok := args[i].(*big.Int)
	if !ok {
		return nil, &DecodeError{Op: op, Err: ErrInvalidArgument}
	}
	return n, nil
}

func argAddress(op string, i int, args []any) (common.Address, error) {
	if i >= len(args) {
		return common.Address{}, &DecodeError{Op: op, Err: ErrInvalidArgument}
	}
	a, ok := args[i].(common.Address)
	if !ok {
		return common.Address{}, &DecodeError{Op: op, Err: ErrInvalidArgument}
	}
	return a, nil
}

func argString(op string, i int, args []any) (string, error) {
	if i >= len(args) {
		return "", &DecodeError{Op: op, Err: ErrInvalidArgument}
	}
	s, ok := args[i].(string)
	if !ok {
		return "", &DecodeError{Op: op, Err: ErrInvalidArgument}
	}
	return s, nil
}

func argUint8(op string, i int, args []any) (uint8, error) {
	if i >= len(args) {
		return 0, &DecodeError{Op: op, Err: ErrInvalidArgument}
	}
	n, ok := args[i].(uint8)
	if !ok {
		return 0, &DecodeError{Op: op, Err: ErrInvalidArgument}
	}
	return n, nil
}
