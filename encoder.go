package abicodec

import (
	"fmt"
)

// Encode ABI-encodes values as a parameter list of the given types, the
// layout used for function arguments, return values, and log data.
func Encode(types []Type, values ...any) ([]byte, error) {
	if len(values) != len(types) {
		return nil, &EncodeError{
			Type:  TupleOf(types...).canonical,
			Value: values,
			Err:   &TypeError{Type: fmt.Sprintf("%d values", len(types)), Got: fmt.Sprintf("%d values", len(values))},
		}
	}
	elems := make([]Token, len(values))
	for i, v := range values {
		tok, err := tokenize(types[i], v, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		elems[i] = tok
	}
	return encodeSequence(func(i int) Type { return types[i] }, elems), nil
}

// MustEncode is like Encode but panics on error.
// Use only with compile-time constant values.
func MustEncode(types []Type, values ...any) []byte {
	data, err := Encode(types, values...)
	if err != nil {
		panic(err)
	}
	return data
}

// EncodeValue encodes a single value of type t without an enclosing head.
// For a tuple this is the same as encoding its members as a parameter list;
// for bytes it is the length word followed by the padded payload.
func EncodeValue(t Type, v any) ([]byte, error) {
	tok, err := Tokenize(t, v)
	if err != nil {
		return nil, err
	}
	return encodeToken(t, tok), nil
}

// EncodeToken encodes a token after checking it against t.
func EncodeToken(t Type, tok Token) ([]byte, error) {
	if err := TypeCheck(t, tok); err != nil {
		return nil, &EncodeError{Type: t.canonical, Value: tok, Err: err}
	}
	return encodeToken(t, tok), nil
}

// encodeToken applies the head-tail layout. The token must already match t.
func encodeToken(t Type, tok Token) []byte {
	switch t.kind {
	case BytesKind, StringKind:
		length := uintWord(uint64(len(tok.data)))
		out := make([]byte, WordSize+padLen(len(tok.data)))
		copy(out, length[:])
		copy(out[WordSize:], tok.data)
		return out

	case ArrayKind, TupleKind:
		return encodeSequence(t.memberAt, tok.elems)

	case SliceKind:
		length := uintWord(uint64(len(tok.elems)))
		return append(length[:], encodeSequence(t.memberAt, tok.elems)...)

	default:
		return tok.word.Bytes()
	}
}

// encodeSequence lays out members as a head followed by a tail. Static
// members are written in place; each dynamic member gets one head word
// holding the byte offset of its tail data, measured from the start of
// this head.
func encodeSequence(typeAt func(int) Type, elems []Token) []byte {
	headLen := 0
	for i := range elems {
		headLen += typeAt(i).headSize()
	}

	head := make([]byte, 0, headLen)
	var tail []byte
	for i, el := range elems {
		t := typeAt(i)
		if !t.dynamic {
			head = append(head, encodeToken(t, el)...)
			continue
		}
		offset := uintWord(uint64(headLen + len(tail)))
		head = append(head, offset[:]...)
		tail = append(tail, encodeToken(t, el)...)
	}
	return append(head, tail...)
}

// EncodeTuple encodes a tuple value as a parameter list. It is EncodeValue
// restricted to tuple types, which share their layout with argument lists.
func EncodeTuple(t Type, v any) ([]byte, error) {
	if t.kind != TupleKind {
		return nil, &EncodeError{Type: t.canonical, Value: v, Err: ErrInvalidType}
	}
	return EncodeValue(t, v)
}
