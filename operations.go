package weivault

import (
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Operation names bound in the dispatch table.
const (
	OpDeposit           = "deposit"
	OpWithdraw          = "withdraw"
	OpGrant             = "grant"
	OpRevoke            = "revoke"
	OpResetStats        = "resetStats"
	OpRegisterUser      = "registerUser"
	OpSetStatus         = "setStatus"
	OpSetMinimumDeposit = "setMinimumDeposit"
	OpRestricted        = "restricted"
)

// SelectorSize is the length of the leading function selector in calldata.
const SelectorSize = 4

// vaultABIJSON declares the callable surface of a vault. Selectors derived
// from it drive matched-call classification and argument decoding.
const vaultABIJSON = `[
	{
		"name": "deposit",
		"type": "function",
		"stateMutability": "payable",
		"inputs": [],
		"outputs": []
	},
	{
		"name": "withdraw",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "amount", "type": "uint256"}
		],
		"outputs": []
	},
	{
		"name": "grant",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "target", "type": "address"}
		],
		"outputs": []
	},
	{
		"name": "revoke",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "target", "type": "address"}
		],
		"outputs": []
	},
	{
		"name": "resetStats",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []
	},
	{
		"name": "registerUser",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "name", "type": "string"}
		],
		"outputs": []
	},
	{
		"name": "setStatus",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "status", "type": "uint8"}
		],
		"outputs": []
	},
	{
		"name": "setMinimumDeposit",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "floor", "type": "uint256"}
		],
		"outputs": []
	},
	{
		"name": "restricted",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []
	}
]`

// OperationRegistry is the enum-tagged dispatch table: a selector-keyed view
// of the vault ABI with a default arm for everything that does not match.
type OperationRegistry struct {
	abi        abi.ABI
	bySelector map[[SelectorSize]byte]abi.Method
}

// NewOperationRegistry builds the registry from the vault ABI.
func NewOperationRegistry() *OperationRegistry {
	parsed, err := abi.JSON(strings.NewReader(vaultABIJSON))
	if err != nil {
		// The ABI is a compile-time constant; failing to parse it is a
		// programming error, not a runtime condition.
		panic(err)
	}

	bySelector := make(map[[SelectorSize]byte]abi.Method, len(parsed.Methods))
	for _, method := range parsed.Methods {
		var sel [SelectorSize]byte
		copy(sel[:], method.ID[:SelectorSize])
		bySelector[sel] = method
	}

	return &OperationRegistry{
		abi:        parsed,
		bySelector: bySelector,
	}
}

// Lookup returns the ABI method for an operation name.
func (r *OperationRegistry) Lookup(name string) (abi.Method, bool) {
	method, ok := r.abi.Methods[name]
	return method, ok
}

// BySelector returns the ABI method bound to a 4-byte selector.
func (r *OperationRegistry) BySelector(sel [SelectorSize]byte) (abi.Method, bool) {
	method, ok := r.bySelector[sel]
	return method, ok
}

// Selector returns the 4-byte selector for an operation name.
func (r *OperationRegistry) Selector(name string) ([SelectorSize]byte, error) {
	var sel [SelectorSize]byte
	method, ok := r.abi.Methods[name]
	if !ok {
		return sel, &UnknownOperationError{Name: name}
	}
	copy(sel[:], method.ID[:SelectorSize])
	return sel, nil
}

// Classify maps a payload to its handling arm. An empty payload is a direct
// value transfer; a payload whose leading selector matches a known operation
// is a matched call; everything else, including payloads shorter than a
// selector, falls through to the unmatched arm.
func (r *OperationRegistry) Classify(payload []byte) (InteractionKind, *abi.Method) {
	if len(payload) == 0 {
		return KindDirectValue, nil
	}
	if len(payload) < SelectorSize {
		return KindUnmatchedCall, nil
	}

	var sel [SelectorSize]byte
	copy(sel[:], payload[:SelectorSize])
	if method, ok := r.bySelector[sel]; ok {
		return KindMatchedCall, &method
	}
	return KindUnmatchedCall, nil
}

// Names returns all operation names in deterministic order.
func (r *OperationRegistry) Names() []string {
	names := make([]string, 0, len(r.abi.Methods))
	for name := range r.abi.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
