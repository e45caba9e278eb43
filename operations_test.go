package weivault

import (
	"testing"
)

func TestNewOperationRegistry(t *testing.T) {
	reg := NewOperationRegistry()

	wantOps := []string{
		OpDeposit, OpWithdraw, OpGrant, OpRevoke, OpResetStats,
		OpRegisterUser, OpSetStatus, OpSetMinimumDeposit, OpRestricted,
	}
	for _, name := range wantOps {
		if _, ok := reg.Lookup(name); !ok {
			t.Errorf("Expected operation %q to be registered", name)
		}
	}

	if got := len(reg.Names()); got != len(wantOps) {
		t.Errorf("Expected %d operations, got %d", len(wantOps), got)
	}
}

func TestSelector(t *testing.T) {
	reg := NewOperationRegistry()

	sel, err := reg.Selector(OpWithdraw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	method, ok := reg.BySelector(sel)
	if !ok {
		t.Fatal("Expected selector to resolve back to a method")
	}
	if method.Name != OpWithdraw {
		t.Errorf("Expected method %q, got %q", OpWithdraw, method.Name)
	}

	if _, err := reg.Selector("nope"); err == nil {
		t.Error("Expected error for unknown operation")
	}
}

func TestClassify(t *testing.T) {
	reg := NewOperationRegistry()

	t.Run("empty payload is DirectValue", func(t *testing.T) {
		kind, method := reg.Classify(nil)
		if kind != KindDirectValue {
			t.Errorf("Classify(nil) = %s, want DirectValue", kind)
		}
		if method != nil {
			t.Error("Expected no method for DirectValue")
		}
	})

	t.Run("known selector is MatchedCall", func(t *testing.T) {
		calldata := reg.MustEncodeCall(OpResetStats)

		kind, method := reg.Classify(calldata)
		if kind != KindMatchedCall {
			t.Fatalf("Classify = %s, want MatchedCall", kind)
		}
		if method.Name != OpResetStats {
			t.Errorf("Expected method %q, got %q", OpResetStats, method.Name)
		}
	})

	t.Run("unknown selector is UnmatchedCall", func(t *testing.T) {
		kind, method := reg.Classify([]byte{0x12, 0x34, 0x56, 0x78})
		if kind != KindUnmatchedCall {
			t.Errorf("Classify = %s, want UnmatchedCall", kind)
		}
		if method != nil {
			t.Error("Expected no method for UnmatchedCall")
		}
	})

	t.Run("payload shorter than a selector is UnmatchedCall", func(t *testing.T) {
		kind, _ := reg.Classify([]byte{0x12, 0x34})
		if kind != KindUnmatchedCall {
			t.Errorf("Classify = %s, want UnmatchedCall", kind)
		}
	})
}

func TestInteractionKindString(t *testing.T) {
	cases := map[InteractionKind]string{
		KindDirectValue:     "DirectValue",
		KindMatchedCall:     "MatchedCall",
		KindUnmatchedCall:   "UnmatchedCall",
		InteractionKind(99): "Unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
