package abicodec

import (
	"fmt"
	"math/big"
)

// Method describes a contract function.
type Method struct {
	Name    string
	Inputs  []Field
	Outputs []Field
}

// ParseMethod parses a human-readable signature such as
// "transfer(address to,uint256 amount)" or "balanceOf(address)(uint256)".
func ParseMethod(sig string) (*Method, error) {
	name, inputs, outputs, err := ParseSignature(sig)
	if err != nil {
		return nil, err
	}
	return &Method{Name: name, Inputs: inputs, Outputs: outputs}, nil
}

// MustParseMethod is like ParseMethod but panics on error.
func MustParseMethod(sig string) *Method {
	m, err := ParseMethod(sig)
	if err != nil {
		panic(err)
	}
	return m
}

// Signature returns the canonical signature, e.g. "transfer(address,uint256)".
func (m *Method) Signature() string {
	return Signature(m.Name, Types(m.Inputs))
}

// Selector returns the 4-byte function selector.
func (m *Method) Selector() Selector {
	return SelectorOf(m.Signature())
}

// EncodeCall returns the call data selector || Encode(inputs, args).
func (m *Method) EncodeCall(args ...any) ([]byte, error) {
	return encodeWithSelector(m.Selector(), Types(m.Inputs), args)
}

// DecodeCall decodes call data for this method. The selector must match.
func (m *Method) DecodeCall(calldata []byte, opts ...DecodeOption) ([]any, error) {
	return decodeWithSelector(m.Selector(), m.Signature(), Types(m.Inputs), calldata, opts)
}

// EncodeOutput encodes return values.
func (m *Method) EncodeOutput(values ...any) ([]byte, error) {
	return Encode(Types(m.Outputs), values...)
}

// DecodeOutput decodes return data.
func (m *Method) DecodeOutput(data []byte, opts ...DecodeOption) ([]any, error) {
	return Decode(Types(m.Outputs), data, opts...)
}

// ErrorDef describes a custom Solidity error.
type ErrorDef struct {
	Name   string
	Inputs []Field
}

// Signature returns the canonical error signature.
func (e *ErrorDef) Signature() string {
	return Signature(e.Name, Types(e.Inputs))
}

// Selector returns the 4-byte error selector.
func (e *ErrorDef) Selector() Selector {
	return SelectorOf(e.Signature())
}

// EncodeRevert returns the revert data selector || Encode(inputs, args).
func (e *ErrorDef) EncodeRevert(args ...any) ([]byte, error) {
	return encodeWithSelector(e.Selector(), Types(e.Inputs), args)
}

// DecodeRevert decodes revert data for this error. The selector must match.
func (e *ErrorDef) DecodeRevert(data []byte, opts ...DecodeOption) ([]any, error) {
	return decodeWithSelector(e.Selector(), e.Signature(), Types(e.Inputs), data, opts)
}

// Built-in errors raised by require/revert and by compiler checks.
var (
	// RevertError is Error(string), produced by revert("reason").
	RevertError = &ErrorDef{Name: "Error", Inputs: []Field{{Name: "message", Type: String()}}}

	// PanicError is Panic(uint256), produced by assert failures and
	// arithmetic checks.
	PanicError = &ErrorDef{Name: "Panic", Inputs: []Field{{Name: "code", Type: Uint(256)}}}
)

// RevertReason extracts the message of an Error(string) revert.
// ok is false if data is not an Error(string) payload.
func RevertReason(data []byte) (reason string, ok bool) {
	values, err := RevertError.DecodeRevert(data)
	if err != nil {
		return "", false
	}
	return values[0].(string), true
}

// PanicCode extracts the code of a Panic(uint256) revert.
func PanicCode(data []byte) (code *big.Int, ok bool) {
	values, err := PanicError.DecodeRevert(data)
	if err != nil {
		return nil, false
	}
	return values[0].(*big.Int), true
}

func encodeWithSelector(sel Selector, types []Type, args []any) ([]byte, error) {
	enc, err := Encode(types, args...)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, SelectorSize+len(enc))
	out = append(out, sel[:]...)
	return append(out, enc...), nil
}

func decodeWithSelector(sel Selector, sig string, types []Type, data []byte, opts []DecodeOption) ([]any, error) {
	got, args, err := SplitSelector(data)
	if err != nil {
		return nil, err
	}
	if got != sel {
		return nil, &DispatchError{Key: got.Hex(), Err: fmt.Errorf("%w: want %s for %s", ErrUnknownSelector, sel.Hex(), sig)}
	}
	return Decode(types, args, opts...)
}
