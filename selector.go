package abicodec

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"
)

// SelectorSize is the length of a function or error selector.
const SelectorSize = 4

// Selector is the first four bytes of the Keccak-256 hash of a canonical
// function or error signature.
type Selector [SelectorSize]byte

// Hex returns the 0x-prefixed hex form of the selector.
func (s Selector) Hex() string {
	return hexutil.Encode(s[:])
}

func (s Selector) String() string {
	return s.Hex()
}

// HexToSelector parses a 0x-prefixed (or bare) 8-digit hex selector.
func HexToSelector(s string) (Selector, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return Selector{}, &ParseError{Input: s, Err: err}
	}
	if len(b) != SelectorSize {
		return Selector{}, &ParseError{Input: s, Err: ErrInvalidType}
	}
	var sel Selector
	copy(sel[:], b)
	return sel, nil
}

// keccak256 hashes the concatenation of data.
func keccak256(data ...[]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	var out common.Hash
	h.Sum(out[:0])
	return out
}

// Keccak256 returns the Keccak-256 hash of the concatenation of data.
func Keccak256(data ...[]byte) common.Hash {
	return keccak256(data...)
}

// Signature builds the canonical signature name(type1,type2,...).
func Signature(name string, types []Type) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(t.canonical)
	}
	sb.WriteByte(')')
	return sb.String()
}

// SelectorOf returns the selector of a canonical signature such as
// "transfer(address,uint256)".
func SelectorOf(signature string) Selector {
	h := keccak256([]byte(signature))
	var s Selector
	copy(s[:], h[:SelectorSize])
	return s
}

// EventSignatureHash returns the full Keccak-256 hash of a canonical event
// signature. It is topic[0] of every non-anonymous log of that event.
func EventSignatureHash(signature string) common.Hash {
	return keccak256([]byte(signature))
}

// SplitSelector separates call or revert data into its selector and arguments.
func SplitSelector(data []byte) (Selector, []byte, error) {
	if len(data) < SelectorSize {
		return Selector{}, nil, &DecodeError{
			Type:   "selector",
			Offset: 0,
			Err:    ErrMalformed,
		}
	}
	var sel Selector
	copy(sel[:], data)
	return sel, data[SelectorSize:], nil
}
