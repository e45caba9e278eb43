package weivault

import (
	"math/big"
	"time"

	"github.com/rs/zerolog"
)

// VaultOption configures a Vault at construction.
type VaultOption func(*Vault)

// WithName sets the instance name reported by Info.
func WithName(name string) VaultOption {
	return func(v *Vault) {
		v.name = name
	}
}

// WithMinimumDeposit sets the floor the deposit operation enforces.
// Zero (the default) disables the floor. The direct value-transfer arm is
// never subject to the floor, only to the positive-value guard.
func WithMinimumDeposit(floor *big.Int) VaultOption {
	return func(v *Vault) {
		v.minimumDeposit = new(big.Int).Set(floor)
	}
}

// WithMinimumDepositBounds sets the inclusive range the owner may move the
// deposit floor within via setMinimumDeposit. Default is [0, 100 ether].
func WithMinimumDepositBounds(min, max *big.Int) VaultOption {
	return func(v *Vault) {
		v.minimumDepositLo = new(big.Int).Set(min)
		v.minimumDepositHi = new(big.Int).Set(max)
	}
}

// WithInitialFunding credits the owner with an opening balance at
// construction, as if the instance were deployed with attached value.
// The amount counts toward totalReceived.
func WithInitialFunding(amount *big.Int) VaultOption {
	return func(v *Vault) {
		v.initialFunding = new(big.Int).Set(amount)
	}
}

// WithLogger mirrors every appended event and interaction record to logger.
// Default is a no-op logger.
func WithLogger(logger zerolog.Logger) VaultOption {
	return func(v *Vault) {
		v.logger = logger
	}
}

// WithClock overrides the time source used for record and event timestamps.
func WithClock(now func() time.Time) VaultOption {
	return func(v *Vault) {
		v.now = now
	}
}
