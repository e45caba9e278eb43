package weivault

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// EncodeCall builds calldata for a named operation: the 4-byte selector
// followed by the ABI-packed arguments. Arguments are plain Go values and
// are coerced to the parameter's ABI type.
func (r *OperationRegistry) EncodeCall(name string, args ...any) ([]byte, error) {
	method, ok := r.abi.Methods[name]
	if !ok {
		return nil, &UnknownOperationError{Name: name}
	}

	if len(args) != len(method.Inputs) {
		return nil, &ArgumentError{
			Op:    name,
			Index: len(args),
			Err:   fmt.Errorf("weivault: expected %d arguments, got %d", len(method.Inputs), len(args)),
		}
	}

	converted := make([]any, len(args))
	for i, arg := range args {
		val, err := toABIValue(arg, method.Inputs[i].Type)
		if err != nil {
			return nil, &ArgumentError{Op: name, Index: i, Err: err}
		}
		converted[i] = val
	}

	packed, err := method.Inputs.Pack(converted...)
	if err != nil {
		return nil, &ArgumentError{Op: name, Index: 0, Err: err}
	}

	calldata := make([]byte, 0, SelectorSize+len(packed))
	calldata = append(calldata, method.ID[:SelectorSize]...)
	return append(calldata, packed...), nil
}

// MustEncodeCall is like EncodeCall but panics on error.
func (r *OperationRegistry) MustEncodeCall(name string, args ...any) []byte {
	calldata, err := r.EncodeCall(name, args...)
	if err != nil {
		panic(err)
	}
	return calldata
}

// DecodeCall resolves calldata back into an operation name and its decoded
// arguments. Payloads whose selector does not match any operation return an
// UnknownOperationError.
func (r *OperationRegistry) DecodeCall(payload []byte) (string, []any, error) {
	if len(payload) < SelectorSize {
		return "", nil, &DecodeError{Op: "", Err: ErrInvalidArgument}
	}

	var sel [SelectorSize]byte
	copy(sel[:], payload[:SelectorSize])
	method, ok := r.bySelector[sel]
	if !ok {
		return "", nil, &UnknownOperationError{Name: fmt.Sprintf("0x%x", sel)}
	}

	args, err := method.Inputs.Unpack(payload[SelectorSize:])
	if err != nil {
		return method.Name, nil, &DecodeError{Op: method.Name, Err: err}
	}
	return method.Name, args, nil
}

// toABIValue coerces a Go value to the representation abi.Arguments.Pack
// expects for the given parameter type.
func toABIValue(arg any, t abi.Type) (any, error) {
	switch t.T {
	case abi.UintTy:
		n, err := toBig(arg)
		if err != nil {
			return nil, err
		}
		if n.Sign() < 0 {
			return nil, fmt.Errorf("weivault: negative value %s for unsigned type", n)
		}
		if t.Size == 8 {
			if !n.IsUint64() || n.Uint64() > 0xff {
				return nil, fmt.Errorf("weivault: value %s overflows uint8", n)
			}
			return uint8(n.Uint64()), nil
		}
		return n, nil

	case abi.AddressTy:
		switch v := arg.(type) {
		case common.Address:
			return v, nil
		case string:
			if !common.IsHexAddress(v) {
				return nil, fmt.Errorf("weivault: %q is not a hex address", v)
			}
			return common.HexToAddress(v), nil
		default:
			return nil, fmt.Errorf("weivault: cannot use %T as address", arg)
		}

	case abi.StringTy:
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("weivault: cannot use %T as string", arg)
		}
		return s, nil

	case abi.BytesTy:
		b, ok := arg.([]byte)
		if !ok {
			return nil, fmt.Errorf("weivault: cannot use %T as bytes", arg)
		}
		return b, nil

	case abi.BoolTy:
		b, ok := arg.(bool)
		if !ok {
			return nil, fmt.Errorf("weivault: cannot use %T as bool", arg)
		}
		return b, nil

	default:
		return nil, fmt.Errorf("weivault: unsupported parameter type %s", t.String())
	}
}

// toBig converts the integer kinds callers actually pass into a big.Int.
func toBig(arg any) (*big.Int, error) {
	switch v := arg.(type) {
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("weivault: nil *big.Int")
		}
		return v, nil
	case big.Int:
		return &v, nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case uint8:
		return big.NewInt(int64(v)), nil
	case Status:
		return big.NewInt(int64(v)), nil
	default:
		return nil, fmt.Errorf("weivault: cannot use %T as integer", arg)
	}
}
