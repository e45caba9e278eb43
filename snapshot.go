package weivault

import (
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BalanceEntry is one account's balance in a snapshot.
type BalanceEntry struct {
	Account common.Address `json:"account"`
	Amount  *big.Int       `json:"amount"`
}

// UserEntry is one registered user in a snapshot.
type UserEntry struct {
	Account      common.Address `json:"account"`
	Name         string         `json:"name"`
	RegisteredAt time.Time      `json:"registeredAt"`
}

// Snapshot is the flat persisted layout of a vault instance. The interaction
// log and event stream are observability surfaces, not persisted state, and
// are not part of the layout.
type Snapshot struct {
	Name              string           `json:"name"`
	Owner             common.Address   `json:"owner"`
	Status            Status           `json:"status"`
	CreatedAt         time.Time        `json:"createdAt"`
	Authorized        []common.Address `json:"authorized"`
	Balances          []BalanceEntry   `json:"balances"`
	TotalReceived     *big.Int         `json:"totalReceived"`
	MinimumDeposit    *big.Int         `json:"minimumDeposit"`
	ReceiveCount      uint64           `json:"receiveCount"`
	EtherFromReceive  *big.Int         `json:"etherFromReceive"`
	FallbackCount     uint64           `json:"fallbackCount"`
	EtherFromFallback *big.Int         `json:"etherFromFallback"`
	LastSender        common.Address   `json:"lastSender"`
	LastPayload       hexutil.Bytes    `json:"lastPayload"`
	Users             []UserEntry      `json:"users"`
}

// Snapshot captures the vault's persisted state as a flat record. Balances,
// authorized accounts, and users are listed in deterministic order.
func (v *Vault) Snapshot() *Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	accounts := v.ledger.Accounts()
	balances := make([]BalanceEntry, len(accounts))
	for i, a := range accounts {
		balances[i] = BalanceEntry{Account: a, Amount: v.ledger.BalanceOf(a)}
	}

	users := make([]UserEntry, 0, len(v.users))
	for _, a := range sortedUserAccounts(v.users) {
		rec := v.users[a]
		users = append(users, UserEntry{
			Account:      a,
			Name:         rec.name,
			RegisteredAt: rec.registeredAt,
		})
	}

	return &Snapshot{
		Name:              v.name,
		Owner:             v.auth.Owner(),
		Status:            v.status,
		CreatedAt:         v.createdAt,
		Authorized:        v.auth.Granted(),
		Balances:          balances,
		TotalReceived:     v.ledger.TotalReceived(),
		MinimumDeposit:    new(big.Int).Set(v.minimumDeposit),
		ReceiveCount:      v.receiveCount,
		EtherFromReceive:  new(big.Int).Set(v.etherFromReceive),
		FallbackCount:     v.fallbackCount,
		EtherFromFallback: new(big.Int).Set(v.etherFromFallback),
		LastSender:        v.lastSender,
		LastPayload:       append(hexutil.Bytes(nil), v.lastPayload...),
		Users:             users,
	}
}

// Restore rebuilds a vault from a snapshot. Options apply before the
// snapshot fields, so the snapshot's name, minimum deposit, and status win
// over option defaults; logger and clock options still take effect. The
// rebuilt instance starts with an empty interaction log and event stream.
func Restore(snap *Snapshot, opts ...VaultOption) *Vault {
	v := New(snap.Owner, opts...)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.name = snap.Name
	v.status = snap.Status
	v.createdAt = snap.CreatedAt
	if snap.MinimumDeposit != nil {
		v.minimumDeposit = new(big.Int).Set(snap.MinimumDeposit)
	}

	for _, a := range snap.Authorized {
		v.auth.authorized[a] = true
	}
	for _, entry := range snap.Balances {
		if entry.Amount != nil {
			v.ledger.balances[entry.Account] = new(big.Int).Set(entry.Amount)
		}
	}
	if snap.TotalReceived != nil {
		v.ledger.totalReceived = new(big.Int).Set(snap.TotalReceived)
	}

	v.receiveCount = snap.ReceiveCount
	v.fallbackCount = snap.FallbackCount
	if snap.EtherFromReceive != nil {
		v.etherFromReceive = new(big.Int).Set(snap.EtherFromReceive)
	}
	if snap.EtherFromFallback != nil {
		v.etherFromFallback = new(big.Int).Set(snap.EtherFromFallback)
	}
	v.lastSender = snap.LastSender
	v.lastPayload = append([]byte(nil), snap.LastPayload...)

	for _, u := range snap.Users {
		v.users[u.Account] = userRecord{name: u.Name, registeredAt: u.RegisteredAt}
	}

	return v
}

func sortedUserAccounts(users map[common.Address]userRecord) []common.Address {
	accounts := make([]common.Address, 0, len(users))
	for a := range users {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Cmp(accounts[j]) < 0
	})
	return accounts
}
