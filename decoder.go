package abicodec

import (
	"errors"
	"fmt"
)

// Decode decodes a parameter list of the given types and returns one
// canonical Go value per type (see Detokenize).
func Decode(types []Type, data []byte, opts ...DecodeOption) ([]any, error) {
	d := newDecoder(data, opts)
	toks, err := d.sequence(func(i int) Type { return types[i] }, len(types), 0)
	if err != nil {
		return nil, err
	}
	values := make([]any, len(toks))
	for i, tok := range toks {
		v, err := detokenize(types[i], tok, fmt.Sprintf("[%d]", i), d.cfg.lenientBool)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// DecodeTokens decodes a parameter list into tokens without converting them.
func DecodeTokens(types []Type, data []byte, opts ...DecodeOption) ([]Token, error) {
	d := newDecoder(data, opts)
	return d.sequence(func(i int) Type { return types[i] }, len(types), 0)
}

// DecodeValue decodes a single value of type t that starts at the first
// byte of data. It is the inverse of EncodeValue.
func DecodeValue(t Type, data []byte, opts ...DecodeOption) (any, error) {
	d := newDecoder(data, opts)
	var (
		tok Token
		err error
	)
	if t.dynamic {
		tok, err = d.dynamic(t, 0)
	} else {
		tok, err = d.static(t, 0)
	}
	if err != nil {
		return nil, err
	}
	return detokenize(t, tok, "", d.cfg.lenientBool)
}

// decoder reads tokens out of a borrowed input buffer. Every position is an
// absolute index into data so errors can report where decoding failed.
type decoder struct {
	cfg  *decodeConfig
	data []byte

	// spent counts tokens and payload words produced so far. Offsets may
	// alias, so the count is capped by budget rather than by the input.
	spent  int
	budget int
}

func newDecoder(data []byte, opts []DecodeOption) *decoder {
	return &decoder{
		cfg:    newDecodeConfig(opts),
		data:   data,
		budget: 2*len(data) + 64,
	}
}

// charge records n units of work against the budget.
func (d *decoder) charge(t Type, pos int, n int) error {
	if n > d.budget-d.spent {
		return d.fail(t, pos, fmt.Errorf("%w: decode work exceeds %d", ErrLengthLimit, d.budget))
	}
	d.spent += n
	return nil
}

func (d *decoder) fail(t Type, pos int, err error) error {
	return &DecodeError{Type: t.canonical, Offset: pos, Err: err}
}

func (d *decoder) word(t Type, pos int) (Word, error) {
	if pos < 0 || pos+WordSize > len(d.data) {
		return Word{}, d.fail(t, pos, fmt.Errorf("%w: need %d bytes, have %d", ErrMalformed, pos+WordSize, len(d.data)))
	}
	return wordAt(d.data, pos), nil
}

// length reads a length prefix and applies the configured cap.
func (d *decoder) length(t Type, pos int) (uint64, error) {
	w, err := d.word(t, pos)
	if err != nil {
		return 0, err
	}
	n, ok := wordUint64(w)
	if !ok {
		return 0, d.fail(t, pos, fmt.Errorf("%w: length %s", ErrMalformed, w.Hex()))
	}
	if d.cfg.maxLength > 0 && n > d.cfg.maxLength {
		return 0, d.fail(t, pos, fmt.Errorf("%w: %d > %d", ErrLengthLimit, n, d.cfg.maxLength))
	}
	return n, nil
}

// static decodes a static type whose encoding starts at pos.
func (d *decoder) static(t Type, pos int) (Token, error) {
	switch t.kind {
	case ArrayKind, TupleKind:
		if size := t.headSize(); pos < 0 || size > len(d.data)-pos {
			return Token{}, d.fail(t, pos, fmt.Errorf("%w: need %d bytes at %d, have %d", ErrMalformed, size, pos, len(d.data)))
		}
		n := t.size
		if t.kind == TupleKind {
			n = len(t.fields)
		}
		elems, err := d.sequence(t.memberAt, n, pos)
		if err != nil {
			return Token{}, err
		}
		return NewSequenceToken(elems...), nil
	}

	w, err := d.word(t, pos)
	if err != nil {
		return Token{}, err
	}
	if _, err := decodeWord(t, w, d.cfg.lenientBool); err != nil {
		if !errors.Is(err, ErrInvalidBool) {
			err = fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return Token{}, d.fail(t, pos, err)
	}
	return NewWordToken(w), nil
}

// dynamic decodes a dynamic type whose encoding starts at pos.
func (d *decoder) dynamic(t Type, pos int) (Token, error) {
	switch t.kind {
	case BytesKind, StringKind:
		n, err := d.length(t, pos)
		if err != nil {
			return Token{}, err
		}
		start := pos + WordSize
		if n > uint64(len(d.data)-start) {
			return Token{}, d.fail(t, pos, fmt.Errorf("%w: payload of %d bytes exceeds input", ErrMalformed, n))
		}
		end := start + int(n)
		padded := start + padLen(int(n))
		if padded > len(d.data) {
			return Token{}, d.fail(t, end, fmt.Errorf("%w: missing padding", ErrMalformed))
		}
		for i := end; i < padded; i++ {
			if d.data[i] != 0 {
				return Token{}, d.fail(t, i, fmt.Errorf("%w: non-zero padding", ErrMalformed))
			}
		}
		if err := d.charge(t, pos, 1+(padded-start)/WordSize); err != nil {
			return Token{}, err
		}
		payload := make([]byte, n)
		copy(payload, d.data[start:end])
		return NewBytesToken(payload), nil

	case SliceKind:
		n, err := d.length(t, pos)
		if err != nil {
			return Token{}, err
		}
		start := pos + WordSize
		size := uint64(t.elem.headSize())
		if size > 0 && n > uint64(len(d.data)-start)/size || size == 0 && n > uint64(len(d.data)) {
			return Token{}, d.fail(t, pos, fmt.Errorf("%w: %d elements exceed input", ErrMalformed, n))
		}
		elems, err := d.sequence(t.memberAt, int(n), start)
		if err != nil {
			return Token{}, err
		}
		return NewSequenceToken(elems...), nil

	case ArrayKind, TupleKind:
		if size := t.headLen(); size > len(d.data)-pos {
			return Token{}, d.fail(t, pos, fmt.Errorf("%w: need %d bytes at %d, have %d", ErrMalformed, size, pos, len(d.data)))
		}
		n := t.size
		if t.kind == TupleKind {
			n = len(t.fields)
		}
		elems, err := d.sequence(t.memberAt, n, pos)
		if err != nil {
			return Token{}, err
		}
		return NewSequenceToken(elems...), nil
	}
	return Token{}, d.fail(t, pos, ErrInvalidType)
}

// sequence decodes n members whose head starts at base. Offsets of dynamic
// members are relative to base.
func (d *decoder) sequence(typeAt func(int) Type, n int, base int) ([]Token, error) {
	if n > 0 {
		if err := d.charge(typeAt(0), base, n+1); err != nil {
			return nil, err
		}
	}
	elems := make([]Token, n)
	pos := base
	for i := 0; i < n; i++ {
		t := typeAt(i)
		if !t.dynamic {
			tok, err := d.static(t, pos)
			if err != nil {
				return nil, err
			}
			elems[i] = tok
			pos += t.headSize()
			continue
		}

		w, err := d.word(t, pos)
		if err != nil {
			return nil, err
		}
		offset, ok := wordUint64(w)
		switch {
		case !ok || offset > uint64(len(d.data)-base):
			return nil, d.fail(t, pos, fmt.Errorf("%w: offset %s out of bounds", ErrMalformed, w.Hex()))
		case offset%WordSize != 0:
			return nil, d.fail(t, pos, fmt.Errorf("%w: offset %d not word aligned", ErrMalformed, offset))
		}
		tok, err := d.dynamic(t, base+int(offset))
		if err != nil {
			return nil, err
		}
		elems[i] = tok
		pos += WordSize
	}
	return elems, nil
}
