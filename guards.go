package weivault

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Tier is the permission level an operation demands from its caller.
type Tier uint8

const (
	// TierOwner restricts the operation to the owner account.
	TierOwner Tier = iota

	// TierAuthorized admits the owner and every granted account.
	TierAuthorized
)

// A guard is a precondition evaluated before any state mutation. Guards are
// composed per operation and run in a fixed order; the first failure aborts
// the whole operation with no partial effect.
type guard func() error

// runGuards evaluates guards in order and returns the first failure.
func runGuards(guards ...guard) error {
	for _, g := range guards {
		if err := g(); err != nil {
			return err
		}
	}
	return nil
}

// requireAuthorized fails with ErrUnauthorized unless caller meets the tier.
func requireAuthorized(op string, reg *AuthRegistry, caller common.Address, tier Tier) error {
	ok := reg.IsAuthorized(caller)
	guardName := "authorized"
	if tier == TierOwner {
		ok = reg.IsOwner(caller)
		guardName = "owner"
	}
	if !ok {
		return &GuardError{
			Op:     op,
			Guard:  guardName,
			Detail: fmt.Sprintf("caller %s", caller.Hex()),
			Err:    ErrUnauthorized,
		}
	}
	return nil
}

// requireRange fails with ErrOutOfRange if value is outside [min, max].
func requireRange(op string, value, min, max int64) error {
	if value < min || value > max {
		return &GuardError{
			Op:     op,
			Guard:  "range",
			Detail: fmt.Sprintf("%d not in [%d, %d]", value, min, max),
			Err:    ErrOutOfRange,
		}
	}
	return nil
}

// requireRangeBig is requireRange over arbitrary-precision values.
func requireRangeBig(op string, value, min, max *big.Int) error {
	if value.Cmp(min) < 0 || value.Cmp(max) > 0 {
		return &GuardError{
			Op:     op,
			Guard:  "range",
			Detail: fmt.Sprintf("%s not in [%s, %s]", value, min, max),
			Err:    ErrOutOfRange,
		}
	}
	return nil
}

// requireNonEmpty fails with ErrInvalidArgument if the named field is empty.
func requireNonEmpty(op, field, text string) error {
	if text == "" {
		return &GuardError{
			Op:     op,
			Guard:  "nonEmpty",
			Detail: field + " is empty",
			Err:    ErrInvalidArgument,
		}
	}
	return nil
}

// requirePositiveValue fails with ErrInvalidArgument if amount is nil or zero.
func requirePositiveValue(op string, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return &GuardError{
			Op:    op,
			Guard: "positiveValue",
			Err:   ErrInvalidArgument,
		}
	}
	return nil
}

// requireMinimum fails with ErrInvalidArgument if amount is below floor.
// A nil or zero floor disables the check.
func requireMinimum(op string, amount, floor *big.Int) error {
	if floor == nil || floor.Sign() == 0 {
		return nil
	}
	if amount.Cmp(floor) < 0 {
		return &GuardError{
			Op:     op,
			Guard:  "minimum",
			Detail: fmt.Sprintf("amount %s below floor %s", amount, floor),
			Err:    ErrInvalidArgument,
		}
	}
	return nil
}

// requireSufficientBalance fails with ErrInsufficientFunds if the account's
// balance cannot cover amount.
func requireSufficientBalance(op string, l *Ledger, account common.Address, amount *big.Int) error {
	balance := l.BalanceOf(account)
	if balance.Cmp(amount) < 0 {
		return &GuardError{
			Op:     op,
			Guard:  "sufficientBalance",
			Detail: fmt.Sprintf("balance %s, requested %s", balance, amount),
			Err:    ErrInsufficientFunds,
		}
	}
	return nil
}

// requireActive fails with ErrInactive unless the vault status is Active.
func requireActive(op string, status Status) error {
	if status != StatusActive {
		return &GuardError{
			Op:     op,
			Guard:  "active",
			Detail: "status " + status.String(),
			Err:    ErrInactive,
		}
	}
	return nil
}
