// Package weivault provides an in-memory guarded value ledger with
// Ethereum-style call dispatch.
package weivault

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the failure taxonomy. Every rejected operation
// unwraps to exactly one of these.
var (
	// ErrUnauthorized indicates the caller lacks the required permission tier.
	ErrUnauthorized = errors.New("weivault: caller not authorized")

	// ErrInvalidArgument indicates a zero, empty, or otherwise malformed input.
	ErrInvalidArgument = errors.New("weivault: invalid argument")

	// ErrOutOfRange indicates a numeric bound violation.
	ErrOutOfRange = errors.New("weivault: value out of range")

	// ErrInsufficientFunds indicates a withdrawal exceeding the account balance.
	ErrInsufficientFunds = errors.New("weivault: insufficient funds")

	// ErrInactive indicates the vault's lifecycle status forbids the operation.
	ErrInactive = errors.New("weivault: vault not active")
)

// GuardError reports which guard rejected which operation.
type GuardError struct {
	Op     string // operation name, e.g. "deposit"
	Guard  string // guard name, e.g. "minimum"
	Detail string // optional context for the rejection
	Err    error  // taxonomy sentinel
}

func (e *GuardError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s guard: %s: %v", e.Op, e.Guard, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s guard: %v", e.Op, e.Guard, e.Err)
}

func (e *GuardError) Unwrap() error {
	return e.Err
}

// UnknownOperationError indicates the operation registry has no operation
// with the requested name.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("weivault: unknown operation %q", e.Name)
}

// ArgumentError indicates an issue with an operation argument.
type ArgumentError struct {
	Op    string
	Index int
	Err   error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("weivault: argument %d for operation %q: %v", e.Index, e.Op, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// DecodeError indicates calldata that matched a known selector but whose
// argument payload could not be decoded.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("weivault: decoding call to %q: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
