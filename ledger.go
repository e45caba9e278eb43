package weivault

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Ledger is the authoritative per-account balance store plus the lifetime
// totalReceived counter. Balances are exact arbitrary-precision unsigned
// integers in wei; no operation ever drives a balance below zero, and
// totalReceived is monotonically non-decreasing.
//
// The Ledger itself performs no authorization and no external value
// transfer; callers run guards first, and actual fund movement belongs to
// the collaborating transaction layer.
type Ledger struct {
	balances      map[common.Address]*big.Int
	totalReceived *big.Int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances:      make(map[common.Address]*big.Int),
		totalReceived: new(big.Int),
	}
}

// BalanceOf returns a copy of the account's balance. Accounts that never
// deposited have a zero balance; the read never fails.
func (l *Ledger) BalanceOf(account common.Address) *big.Int {
	if b, ok := l.balances[account]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// TotalReceived returns a copy of the lifetime total of accepted inbound
// value. Withdrawals never reduce it.
func (l *Ledger) TotalReceived() *big.Int {
	return new(big.Int).Set(l.totalReceived)
}

// Credit adds amount to the account's balance and accrues it into
// totalReceived. Callers are responsible for running deposit guards first.
func (l *Ledger) Credit(account common.Address, amount *big.Int) {
	b, ok := l.balances[account]
	if !ok {
		b = new(big.Int)
		l.balances[account] = b
	}
	b.Add(b, amount)
	l.totalReceived.Add(l.totalReceived, amount)
}

// Accrue raises totalReceived without crediting any account. This is the
// accounting for value accepted by the unmatched-call arm, which raises the
// instance's holdings but never touches an individual balance.
func (l *Ledger) Accrue(amount *big.Int) {
	l.totalReceived.Add(l.totalReceived, amount)
}

// Debit subtracts amount from the account's balance. The caller runs
// requireSufficientBalance first; Debit re-checks so the non-negative
// balance invariant holds even on a misused path.
func (l *Ledger) Debit(account common.Address, amount *big.Int) error {
	if err := requireSufficientBalance(OpWithdraw, l, account, amount); err != nil {
		return err
	}
	b := l.balances[account]
	b.Sub(b, amount)
	return nil
}

// Accounts returns every account with a recorded balance, in deterministic
// address order. Zero balances left behind by full withdrawals are included.
func (l *Ledger) Accounts() []common.Address {
	accounts := make([]common.Address, 0, len(l.balances))
	for a := range l.balances {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Cmp(accounts[j]) < 0
	})
	return accounts
}
