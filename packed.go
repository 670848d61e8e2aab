package abicodec

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// EncodePacked implements Solidity's non-standard packed mode
// (abi.encodePacked): elementary types use their minimal width, bytes and
// strings are raw with no length, and array elements are padded to a word.
// Tuples and arrays of dynamic types have no packed form.
func EncodePacked(types []Type, values ...any) ([]byte, error) {
	if len(values) != len(types) {
		return nil, &EncodeError{
			Type:  TupleOf(types...).canonical,
			Value: values,
			Err:   &TypeError{Type: fmt.Sprintf("%d values", len(types)), Got: fmt.Sprintf("%d values", len(values))},
		}
	}
	var out []byte
	for i, v := range values {
		t := types[i]
		tok, err := tokenize(t, v, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		b, err := packToken(t, tok, false)
		if err != nil {
			return nil, &EncodeError{Type: t.canonical, Value: v, Path: fmt.Sprintf("[%d]", i), Err: err}
		}
		out = append(out, b...)
	}
	return out, nil
}

func packToken(t Type, tok Token, inArray bool) ([]byte, error) {
	switch t.kind {
	case UintKind, IntKind:
		if inArray {
			return tok.word.Bytes(), nil
		}
		return append([]byte(nil), tok.word[WordSize-t.size/8:]...), nil
	case BoolKind:
		if inArray {
			return tok.word.Bytes(), nil
		}
		return []byte{tok.word[WordSize-1]}, nil
	case AddressKind:
		if inArray {
			return tok.word.Bytes(), nil
		}
		return append([]byte(nil), tok.word[WordSize-common.AddressLength:]...), nil
	case FixedBytesKind:
		if inArray {
			return tok.word.Bytes(), nil
		}
		return append([]byte(nil), tok.word[:t.size]...), nil
	case BytesKind, StringKind:
		if inArray {
			return nil, ErrInvalidType
		}
		return append([]byte(nil), tok.data...), nil
	case ArrayKind, SliceKind:
		if inArray || !t.elem.IsValueType() {
			return nil, ErrInvalidType
		}
		var out []byte
		for _, el := range tok.elems {
			b, err := packToken(*t.elem, el, true)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil
	}
	return nil, ErrInvalidType
}

// EncodeTopic encodes an indexed event parameter as a log topic. Value types
// use their plain ABI word. Every other type is hashed: the topic is the
// Keccak-256 of its in-place encoding, which is the raw payload for bytes and
// string (no length, no padding) and the concatenation of padded member
// encodings for arrays and structs.
func EncodeTopic(t Type, v any) (common.Hash, error) {
	tok, err := Tokenize(t, v)
	if err != nil {
		return common.Hash{}, err
	}
	return topicFromToken(t, tok), nil
}

func topicFromToken(t Type, tok Token) common.Hash {
	if t.IsValueType() {
		return tok.word.Hash()
	}
	return keccak256(topicData(t, tok, false))
}

// topicData is the in-place encoding hashed for non-value indexed parameters.
// Nested bytes and strings are padded to a word boundary; top-level ones are not.
func topicData(t Type, tok Token, nested bool) []byte {
	switch t.kind {
	case BytesKind, StringKind:
		if nested {
			return rightPad(tok.data)
		}
		return append([]byte(nil), tok.data...)
	case ArrayKind, SliceKind, TupleKind:
		var out []byte
		for i, el := range tok.elems {
			out = append(out, topicData(t.memberAt(i), el, true)...)
		}
		return out
	default:
		return tok.word.Bytes()
	}
}
