package abicodec

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrOutOfRange indicates a value does not fit its declared bit width or byte length.
	ErrOutOfRange = errors.New("abicodec: value out of range")

	// ErrInvalidEncoding indicates a word carries non-zero bytes where the type requires zeros.
	ErrInvalidEncoding = errors.New("abicodec: invalid encoding")

	// ErrMalformed indicates truncated data, a bad offset, or non-zero padding.
	ErrMalformed = errors.New("abicodec: malformed data")

	// ErrInvalidBool indicates a boolean word that is neither 0 nor 1.
	ErrInvalidBool = errors.New("abicodec: invalid boolean")

	// ErrUnknownSelector indicates no dispatch table entry matches the key.
	ErrUnknownSelector = errors.New("abicodec: unknown selector")

	// ErrTypeMismatch indicates a value or token does not have the shape its type requires.
	ErrTypeMismatch = errors.New("abicodec: type mismatch")

	// ErrDuplicateSelector indicates two dispatch entries share a key.
	ErrDuplicateSelector = errors.New("abicodec: duplicate selector")

	// ErrInvalidType indicates a type string or ABI type that cannot be represented.
	ErrInvalidType = errors.New("abicodec: invalid type")

	// ErrLengthLimit indicates a decoded length prefix exceeds the configured maximum.
	ErrLengthLimit = errors.New("abicodec: length exceeds limit")
)

// EncodeError indicates a failure while tokenizing or encoding a value.
// Path locates the failing member inside an aggregate, e.g. "[1].amount".
type EncodeError struct {
	Type  string
	Path  string
	Value any
	Err   error
}

func (e *EncodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("abicodec: encoding %T as %s at %s: %v", e.Value, e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("abicodec: encoding %T as %s: %v", e.Value, e.Type, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// DecodeError indicates a failure while decoding wire data.
// Offset is the absolute byte position in the input where the failure was detected.
type DecodeError struct {
	Type   string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("abicodec: decoding %s at offset %d: %v", e.Type, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TypeError indicates a structural mismatch between a token or value and its type.
type TypeError struct {
	Type string
	Path string
	Got  string
	Err  error
}

func (e *TypeError) Error() string {
	path := e.Path
	if path == "" {
		path = "value"
	}
	return fmt.Sprintf("abicodec: %s: expected %s, got %s", path, e.Type, e.Got)
}

func (e *TypeError) Unwrap() error {
	if e.Err == nil {
		return ErrTypeMismatch
	}
	return e.Err
}

// DispatchError indicates a dispatch lookup or delegated decode failure.
type DispatchError struct {
	Key string
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("abicodec: dispatch %s: %v", e.Key, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// ParseError indicates a type string or signature could not be parsed.
type ParseError struct {
	Input string
	Pos   int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("abicodec: parsing %q at %d: %v", e.Input, e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
