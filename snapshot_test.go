package weivault

import (
	"encoding/json"
	"math/big"
	"testing"
)

func populatedVault(t *testing.T) *Vault {
	t.Helper()

	vault := New(testOwner,
		WithName("treasury"),
		WithMinimumDeposit(big.NewInt(100)),
		WithClock(fixedClock()),
	)

	if err := vault.Grant(testOwner, testUser); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if err := vault.Deposit(testUser, big.NewInt(700)); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := vault.RegisterUser(testUser, "Alice"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if _, err := vault.Apply(Interaction{Sender: testOther, Value: big.NewInt(50)}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := vault.Apply(Interaction{Sender: testOther, Value: big.NewInt(5), Payload: []byte{9, 9, 9, 9}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return vault
}

func TestSnapshot(t *testing.T) {
	vault := populatedVault(t)
	snap := vault.Snapshot()

	if snap.Name != "treasury" || snap.Owner != testOwner || snap.Status != StatusActive {
		t.Errorf("Snapshot header = (%q, %s, %s)", snap.Name, snap.Owner.Hex(), snap.Status)
	}
	if len(snap.Authorized) != 1 || snap.Authorized[0] != testUser {
		t.Errorf("Authorized = %v, want [%s]", snap.Authorized, testUser.Hex())
	}
	if len(snap.Balances) != 2 {
		t.Fatalf("Expected 2 balance entries, got %d", len(snap.Balances))
	}
	if snap.TotalReceived.Cmp(big.NewInt(755)) != 0 {
		t.Errorf("TotalReceived = %s, want 755", snap.TotalReceived)
	}
	if snap.ReceiveCount != 1 || snap.FallbackCount != 1 {
		t.Errorf("Counters = (%d, %d), want (1, 1)", snap.ReceiveCount, snap.FallbackCount)
	}
	if snap.LastSender != testOther {
		t.Errorf("LastSender = %s, want %s", snap.LastSender.Hex(), testOther.Hex())
	}
	if len(snap.Users) != 1 || snap.Users[0].Name != "Alice" {
		t.Errorf("Users = %v, want [Alice]", snap.Users)
	}
}

func TestRestore(t *testing.T) {
	vault := populatedVault(t)
	restored := Restore(vault.Snapshot(), WithClock(fixedClock()))

	if got := restored.BalanceOf(testUser); got.Cmp(big.NewInt(700)) != 0 {
		t.Errorf("BalanceOf(user) = %s, want 700", got)
	}
	if got := restored.BalanceOf(testOther); got.Cmp(big.NewInt(50)) != 0 {
		t.Errorf("BalanceOf(other) = %s, want 50", got)
	}
	if got := restored.TotalReceived(); got.Cmp(big.NewInt(755)) != 0 {
		t.Errorf("TotalReceived = %s, want 755", got)
	}
	if !restored.IsAuthorized(testUser) {
		t.Error("Expected authorization to survive restore")
	}
	if got := restored.MinimumDeposit(); got.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("MinimumDeposit = %s, want 100", got)
	}

	receive, fallback := restored.ReceiveStats(), restored.FallbackStats()
	if receive.Count != 1 || receive.Total.Cmp(big.NewInt(50)) != 0 {
		t.Errorf("receive stats = (%d, %s), want (1, 50)", receive.Count, receive.Total)
	}
	if fallback.Count != 1 || fallback.Total.Cmp(big.NewInt(5)) != 0 {
		t.Errorf("fallback stats = (%d, %s), want (1, 5)", fallback.Count, fallback.Total)
	}

	info := restored.UserInfo(testUser)
	if !info.Exists || info.Name != "Alice" {
		t.Errorf("UserInfo = %+v, want Alice", info)
	}

	// The restored instance stays fully operational.
	if err := restored.Withdraw(testUser, big.NewInt(200)); err != nil {
		t.Fatalf("Withdraw on restored vault: %v", err)
	}
	if got := restored.BalanceOf(testUser); got.Cmp(big.NewInt(500)) != 0 {
		t.Errorf("BalanceOf after withdraw = %s, want 500", got)
	}
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	vault := populatedVault(t)
	if err := vault.SetStatus(testOwner, StatusPaused); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	data, err := json.Marshal(vault.Snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	restored := Restore(&decoded)
	if got := restored.Status(); got != StatusPaused {
		t.Errorf("Status = %s, want Paused", got)
	}
	if got := restored.BalanceOf(testUser); got.Cmp(big.NewInt(700)) != 0 {
		t.Errorf("BalanceOf = %s, want 700", got)
	}
	if got := restored.TotalReceived(); got.Cmp(big.NewInt(755)) != 0 {
		t.Errorf("TotalReceived = %s, want 755", got)
	}

	sender, payload := restored.LastInteraction()
	if sender != testOther {
		t.Errorf("LastSender = %s, want %s", sender.Hex(), testOther.Hex())
	}
	if string(payload) != string([]byte{9, 9, 9, 9}) {
		t.Errorf("LastPayload = %x, want 09090909", payload)
	}
}
