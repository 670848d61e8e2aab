// Package abicodec encodes and decodes Ethereum contract ABI data without
// generated bindings.
//
// The codec converts Go values to and from the ABI v2 wire format, computes
// function and error selectors and event topics from canonical signatures,
// hashes EIP-712 structs, and routes raw call data, revert data, and logs to
// the right decoder through sorted dispatch tables.
//
// # Basic Usage
//
// Describe the types and encode:
//
//	types := []abicodec.Type{abicodec.Address(), abicodec.Uint(256)}
//	data, err := abicodec.Encode(types, recipient, big.NewInt(1000))
//
//	values, err := abicodec.Decode(types, data)
//	// values[0] is a common.Address, values[1] a *big.Int
//
// Or load a JSON ABI and dispatch by selector:
//
//	c := abicodec.MustParseABI(lightClientABI)
//	call, err := c.DecodeCallData(tx.Data())
//	fmt.Println(call.Signature, call.Values)
//
//	reason, err := c.DecodeRevert(revertData)
//	ev, err := c.DecodeEthLog(receipt.Logs[0])
//
// # Types
//
// A Type is built with the constructors Uint, Int, Bool, Address,
// FixedBytes, Bytes, String, Array, Slice, Tuple, and Struct, or parsed from
// a canonical string with ParseType. Types are immutable values.
//
//   - Static types (integers, bool, address, bytesN, and fixed arrays and
//     tuples of static types) are encoded in place.
//   - Dynamic types (bytes, string, T[], and any aggregate containing one)
//     are encoded in the tail and referenced by an offset word in the head.
//
// # Decoding
//
// Decoding is strict: truncated input, offsets that are out of bounds or not
// word aligned, non-zero padding, dirty high bytes, and booleans other than
// 0 and 1 are rejected. Every length prefix is capped (see WithMaxLength) so
// hostile input cannot force large allocations.
//
// # Errors
//
// Failures are reported as *EncodeError, *DecodeError, *TypeError,
// *DispatchError, or *ParseError. Each wraps a sentinel (ErrMalformed,
// ErrOutOfRange, ErrUnknownSelector, ...) that can be tested with errors.Is.
//
// # References
//
//   - https://docs.soliditylang.org/en/latest/abi-spec.html
//   - https://eips.ethereum.org/EIPS/eip-712
package abicodec
