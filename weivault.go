// Package weivault provides an in-memory guarded value ledger with
// Ethereum-style call dispatch.
//
// A Vault models a single deployed contract instance: an owner fixed at
// construction, an authorized set the owner can grow and shrink, per-account
// wei balances, and an append-only log of every accepted interaction.
// Inbound calls are classified the way the EVM classifies them:
//
//   - DirectValue: empty calldata with attached value, the receive() path
//   - MatchedCall: calldata whose 4-byte selector matches a known operation
//   - UnmatchedCall: anything else, the fallback() path
//
// # Basic Usage
//
// Create a vault, then drive it either through the typed write operations or
// through the raw Apply boundary with ABI-encoded calldata:
//
//	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
//	vault := weivault.New(owner, weivault.WithMinimumDeposit(big.NewInt(1e17)))
//
//	// Typed path
//	if err := vault.Deposit(owner, big.NewInt(5e17)); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Raw path: a value transfer with empty calldata hits the receive() arm
//	receipt, err := vault.Apply(weivault.Interaction{
//	    Sender: owner,
//	    Value:  big.NewInt(1e17),
//	})
//
//	// Raw path: encoded calldata hits the matched-call arm
//	data := vault.Operations().MustEncodeCall("withdraw", big.NewInt(2e17))
//	receipt, err = vault.Apply(weivault.Interaction{Sender: owner, Payload: data})
//
// # Guards and Atomicity
//
// Every mutating operation runs an ordered set of guard predicates before any
// state is touched. The first failing guard rejects the whole interaction:
// balances, counters, statistics and the event log are left exactly as they
// were, and the specific failure surfaces as a sentinel error testable with
// errors.Is (ErrUnauthorized, ErrInvalidArgument, ErrOutOfRange,
// ErrInsufficientFunds, ErrInactive).
//
// # Accounting
//
// The ledger keeps two kinds of totals. Per-account balances move with
// deposits and withdrawals. The lifetime totalReceived counter only ever
// grows: it accrues every accepted inbound value, including value accepted by
// the fallback arm, and is never reduced by withdrawals. Receive and fallback
// statistics are independent counters that the owner can reset without
// touching the ledger.
//
// # Concurrency
//
// A Vault is safe for concurrent use. All operations run under a single
// mutual-exclusion boundary per instance, so the log and counters always
// reflect one sequential history of interactions.
package weivault
