package weivault

import (
	"errors"
	"math/big"
	"testing"
)

func TestLedgerCredit(t *testing.T) {
	t.Run("sums sequential deposits", func(t *testing.T) {
		ledger := NewLedger()

		ledger.Credit(testUser, big.NewInt(100))
		ledger.Credit(testUser, big.NewInt(250))
		ledger.Credit(testUser, big.NewInt(650))

		if got := ledger.BalanceOf(testUser); got.Cmp(big.NewInt(1000)) != 0 {
			t.Errorf("BalanceOf = %s, want 1000", got)
		}
		if got := ledger.TotalReceived(); got.Cmp(big.NewInt(1000)) != 0 {
			t.Errorf("TotalReceived = %s, want 1000", got)
		}
	})

	t.Run("accounts are independent", func(t *testing.T) {
		ledger := NewLedger()

		ledger.Credit(testUser, big.NewInt(100))
		ledger.Credit(testOther, big.NewInt(200))

		if got := ledger.BalanceOf(testUser); got.Cmp(big.NewInt(100)) != 0 {
			t.Errorf("BalanceOf(user) = %s, want 100", got)
		}
		if got := ledger.BalanceOf(testOther); got.Cmp(big.NewInt(200)) != 0 {
			t.Errorf("BalanceOf(other) = %s, want 200", got)
		}
		if got := ledger.TotalReceived(); got.Cmp(big.NewInt(300)) != 0 {
			t.Errorf("TotalReceived = %s, want 300", got)
		}
	})

	t.Run("handles wei-scale magnitudes", func(t *testing.T) {
		ledger := NewLedger()

		// Credit 2^200 wei twice; arbitrary precision must not overflow.
		huge := new(big.Int).Lsh(big.NewInt(1), 200)
		ledger.Credit(testUser, huge)
		ledger.Credit(testUser, huge)

		want := new(big.Int).Lsh(big.NewInt(1), 201)
		if got := ledger.BalanceOf(testUser); got.Cmp(want) != 0 {
			t.Errorf("BalanceOf = %s, want %s", got, want)
		}
	})
}

func TestLedgerDebit(t *testing.T) {
	t.Run("reduces balance but not totalReceived", func(t *testing.T) {
		ledger := NewLedger()
		ledger.Credit(testUser, big.NewInt(500))

		if err := ledger.Debit(testUser, big.NewInt(200)); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if got := ledger.BalanceOf(testUser); got.Cmp(big.NewInt(300)) != 0 {
			t.Errorf("BalanceOf = %s, want 300", got)
		}
		if got := ledger.TotalReceived(); got.Cmp(big.NewInt(500)) != 0 {
			t.Errorf("TotalReceived = %s, want 500 (withdrawals never reduce it)", got)
		}
	})

	t.Run("rejects overdraft with no effect", func(t *testing.T) {
		ledger := NewLedger()
		ledger.Credit(testUser, big.NewInt(100))

		err := ledger.Debit(testUser, big.NewInt(101))
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
		}

		if got := ledger.BalanceOf(testUser); got.Cmp(big.NewInt(100)) != 0 {
			t.Errorf("BalanceOf = %s, want 100 (unchanged)", got)
		}
	})

	t.Run("drains balance to exactly zero", func(t *testing.T) {
		ledger := NewLedger()
		ledger.Credit(testUser, big.NewInt(100))

		if err := ledger.Debit(testUser, big.NewInt(100)); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got := ledger.BalanceOf(testUser); got.Sign() != 0 {
			t.Errorf("BalanceOf = %s, want 0", got)
		}
	})
}

func TestLedgerAccrue(t *testing.T) {
	ledger := NewLedger()
	ledger.Accrue(big.NewInt(700))

	if got := ledger.TotalReceived(); got.Cmp(big.NewInt(700)) != 0 {
		t.Errorf("TotalReceived = %s, want 700", got)
	}
	// Accrued value belongs to no account.
	if got := ledger.BalanceOf(testUser); got.Sign() != 0 {
		t.Errorf("BalanceOf = %s, want 0", got)
	}
}

func TestLedgerBalanceOfReturnsCopy(t *testing.T) {
	ledger := NewLedger()
	ledger.Credit(testUser, big.NewInt(100))

	// Mutating the returned value must not touch internal state.
	ledger.BalanceOf(testUser).SetInt64(9999)

	if got := ledger.BalanceOf(testUser); got.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("BalanceOf = %s, want 100", got)
	}
}

func TestLedgerAccounts(t *testing.T) {
	ledger := NewLedger()
	ledger.Credit(testOther, big.NewInt(1))
	ledger.Credit(testUser, big.NewInt(1))

	accounts := ledger.Accounts()
	if len(accounts) != 2 {
		t.Fatalf("Expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0] != testUser || accounts[1] != testOther {
		t.Errorf("Expected sorted order, got [%s, %s]", accounts[0].Hex(), accounts[1].Hex())
	}
}
