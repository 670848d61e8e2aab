package abicodec

import (
	"fmt"
)

// TokenKind is the shape of a Token.
type TokenKind uint8

const (
	// WordToken holds a single encoded word (static elementary types).
	WordToken TokenKind = iota

	// BytesToken holds the raw payload of a bytes or string value.
	BytesToken

	// SequenceToken holds the members of an array, slice, or tuple.
	SequenceToken
)

// Token is the tokenized in-memory form of a value: words for elementary
// types, a payload for bytes and strings, and child tokens for aggregates.
// The head-tail layout is applied when a token is encoded.
type Token struct {
	kind  TokenKind
	word  Word
	data  []byte
	elems []Token
}

// NewWordToken returns a token holding a single word.
func NewWordToken(w Word) Token {
	return Token{kind: WordToken, word: w}
}

// NewBytesToken returns a token holding a dynamic payload.
func NewBytesToken(data []byte) Token {
	return Token{kind: BytesToken, data: data}
}

// NewSequenceToken returns a token holding ordered members.
func NewSequenceToken(elems ...Token) Token {
	return Token{kind: SequenceToken, elems: elems}
}

// Kind returns the token shape.
func (t Token) Kind() TokenKind {
	return t.kind
}

// Word returns the word of a WordToken.
func (t Token) Word() Word {
	return t.word
}

// Data returns the payload of a BytesToken.
func (t Token) Data() []byte {
	return t.data
}

// Elems returns the members of a SequenceToken.
func (t Token) Elems() []Token {
	return t.elems
}

func (k TokenKind) String() string {
	switch k {
	case WordToken:
		return "word"
	case BytesToken:
		return "bytes"
	case SequenceToken:
		return "sequence"
	default:
		return fmt.Sprintf("token(%d)", uint8(k))
	}
}

// Tokenize converts a Go value to a token of type t.
// See value.go for the accepted Go representations.
func Tokenize(t Type, v any) (Token, error) {
	return tokenize(t, v, "")
}

func tokenize(t Type, v any, path string) (Token, error) {
	fail := func(err error) (Token, error) {
		return Token{}, &EncodeError{Type: t.canonical, Value: v, Path: path, Err: err}
	}
	mismatch := func() (Token, error) {
		return fail(&TypeError{Type: t.canonical, Path: path, Got: fmt.Sprintf("%T", v)})
	}

	switch t.kind {
	case UintKind:
		n, ok := toBigInt(v)
		if !ok {
			return mismatch()
		}
		w, err := EncodeUint(n, t.size)
		if err != nil {
			return fail(err)
		}
		return NewWordToken(w), nil

	case IntKind:
		n, ok := toBigInt(v)
		if !ok {
			return mismatch()
		}
		w, err := EncodeInt(n, t.size)
		if err != nil {
			return fail(err)
		}
		return NewWordToken(w), nil

	case BoolKind:
		b, ok := v.(bool)
		if !ok {
			return mismatch()
		}
		return NewWordToken(EncodeBool(b)), nil

	case AddressKind:
		a, ok := toAddress(v)
		if !ok {
			return mismatch()
		}
		return NewWordToken(EncodeAddress(a)), nil

	case FixedBytesKind:
		b, ok := toByteSlice(v)
		if !ok {
			return mismatch()
		}
		w, err := EncodeFixedBytes(b, t.size)
		if err != nil {
			return fail(err)
		}
		return NewWordToken(w), nil

	case BytesKind:
		b, ok := toByteSlice(v)
		if !ok {
			return mismatch()
		}
		return NewBytesToken(append([]byte(nil), b...)), nil

	case StringKind:
		s, ok := v.(string)
		if !ok {
			return mismatch()
		}
		return NewBytesToken([]byte(s)), nil

	case ArrayKind, SliceKind:
		items, ok := toList(v)
		if !ok {
			return mismatch()
		}
		if t.kind == ArrayKind && len(items) != t.size {
			return fail(&TypeError{
				Type: t.canonical,
				Path: path,
				Got:  fmt.Sprintf("%d elements", len(items)),
			})
		}
		return tokenizeMembers(t, items, path)

	case TupleKind:
		items, ok := toMembers(v, len(t.fields))
		if !ok {
			return mismatch()
		}
		if len(items) != len(t.fields) {
			return fail(&TypeError{
				Type: t.canonical,
				Path: path,
				Got:  fmt.Sprintf("%d members", len(items)),
			})
		}
		return tokenizeMembers(t, items, path)
	}
	return fail(ErrInvalidType)
}

func tokenizeMembers(t Type, items []any, path string) (Token, error) {
	elems := make([]Token, len(items))
	for i, item := range items {
		tok, err := tokenize(t.memberAt(i), item, t.memberPath(path, i))
		if err != nil {
			return Token{}, err
		}
		elems[i] = tok
	}
	return NewSequenceToken(elems...), nil
}

// TypeCheck validates that tok has the shape and word contents required by t.
// A token that passes TypeCheck always detokenizes successfully.
func TypeCheck(t Type, tok Token) error {
	_, err := detokenize(t, tok, "", false)
	return err
}

// Detokenize converts a token back into its canonical Go value:
// *big.Int for integers, bool, common.Address, []byte for fixed and dynamic
// bytes, string, and []any for arrays, slices, and tuples.
func Detokenize(t Type, tok Token) (any, error) {
	return detokenize(t, tok, "", false)
}

func detokenize(t Type, tok Token, path string, lenientBool bool) (any, error) {
	expect := func(k TokenKind) error {
		if tok.kind != k {
			return &TypeError{Type: t.canonical, Path: path, Got: tok.kind.String() + " token"}
		}
		return nil
	}
	invalid := func(err error) error {
		return &TypeError{Type: t.canonical, Path: path, Got: tok.word.Hex(), Err: err}
	}

	switch t.kind {
	case UintKind, IntKind, BoolKind, AddressKind, FixedBytesKind:
		if err := expect(WordToken); err != nil {
			return nil, err
		}
		v, err := decodeWord(t, tok.word, lenientBool)
		if err != nil {
			return nil, invalid(err)
		}
		return v, nil

	case BytesKind:
		if err := expect(BytesToken); err != nil {
			return nil, err
		}
		return append([]byte{}, tok.data...), nil

	case StringKind:
		if err := expect(BytesToken); err != nil {
			return nil, err
		}
		return string(tok.data), nil

	case ArrayKind, SliceKind, TupleKind:
		if err := expect(SequenceToken); err != nil {
			return nil, err
		}
		want := -1
		switch t.kind {
		case ArrayKind:
			want = t.size
		case TupleKind:
			want = len(t.fields)
		}
		if want >= 0 && len(tok.elems) != want {
			return nil, &TypeError{Type: t.canonical, Path: path, Got: fmt.Sprintf("%d members", len(tok.elems))}
		}
		out := make([]any, len(tok.elems))
		for i, el := range tok.elems {
			v, err := detokenize(t.memberAt(i), el, t.memberPath(path, i), lenientBool)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, &TypeError{Type: t.canonical, Path: path, Got: "unsupported type", Err: ErrInvalidType}
}

// decodeWord validates and converts a word of an elementary type.
func decodeWord(t Type, w Word, lenientBool bool) (any, error) {
	switch t.kind {
	case UintKind:
		return DecodeUint(w, t.size)
	case IntKind:
		return DecodeInt(w, t.size)
	case BoolKind:
		if lenientBool {
			return !w.IsZero(), nil
		}
		return DecodeBool(w)
	case AddressKind:
		return DecodeAddress(w)
	case FixedBytesKind:
		return DecodeFixedBytes(w, t.size)
	}
	return nil, ErrInvalidType
}
