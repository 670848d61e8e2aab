package abicodec

import (
	"errors"
	"strconv"
	"strings"
)

// ParseType parses a canonical type string such as "uint256", "bytes32[]",
// or "(uint64,(uint256,uint256)[2],bytes)". The "tuple" keyword before a
// parenthesised member list, "uint"/"int" aliases, spaces after commas, and
// member names ("(uint256 amount,address to)") are accepted.
func ParseType(s string) (Type, error) {
	p := &typeParser{in: s}
	t, err := p.parseType()
	if err != nil {
		return Type{}, err
	}
	p.skipSpace()
	if !p.done() {
		return Type{}, p.fail("unexpected trailing input")
	}
	return t, nil
}

// MustParseType is like ParseType but panics on error.
func MustParseType(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseSignature splits "name(type1,type2,...)" into the name and parameter
// types. An optional trailing return list "name(...)(type,...)" is returned
// as outputs.
func ParseSignature(sig string) (name string, inputs, outputs []Field, err error) {
	p := &typeParser{in: sig}
	p.skipSpace()
	name = p.ident()
	if name == "" {
		return "", nil, nil, p.fail("missing name")
	}
	p.skipSpace()
	if inputs, err = p.parseMembers(); err != nil {
		return "", nil, nil, err
	}
	p.skipSpace()
	if !p.done() && p.peek() == '(' {
		if outputs, err = p.parseMembers(); err != nil {
			return "", nil, nil, err
		}
		p.skipSpace()
	}
	if !p.done() {
		return "", nil, nil, p.fail("unexpected trailing input")
	}
	return name, inputs, outputs, nil
}

var errSyntax = errors.New("syntax error")

type typeParser struct {
	in  string
	pos int
}

func (p *typeParser) fail(msg string) error {
	return &ParseError{Input: p.in, Pos: p.pos, Err: errors.Join(ErrInvalidType, errors.New(msg))}
}

func (p *typeParser) done() bool {
	return p.pos >= len(p.in)
}

func (p *typeParser) peek() byte {
	return p.in[p.pos]
}

func (p *typeParser) skipSpace() {
	for !p.done() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n') {
		p.pos++
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (p *typeParser) ident() string {
	start := p.pos
	for !p.done() && isIdentByte(p.peek()) {
		p.pos++
	}
	return p.in[start:p.pos]
}

func (p *typeParser) parseType() (Type, error) {
	p.skipSpace()
	if p.done() {
		return Type{}, p.fail("missing type")
	}

	var base Type
	if p.peek() == '(' || strings.HasPrefix(p.in[p.pos:], "tuple(") {
		p.pos += strings.IndexByte(p.in[p.pos:], '(')
		fields, err := p.parseMembers()
		if err != nil {
			return Type{}, err
		}
		if !tupleFits(fields) {
			return Type{}, p.fail("tuple too large")
		}
		base = Tuple(fields...)
	} else {
		start := p.pos
		word := p.ident()
		t, err := elementary(word)
		if err != nil {
			p.pos = start
			return Type{}, p.fail(err.Error())
		}
		base = t
	}

	for !p.done() && p.peek() == '[' {
		end := strings.IndexByte(p.in[p.pos:], ']')
		if end < 0 {
			return Type{}, p.fail("unterminated array suffix")
		}
		digits := p.in[p.pos+1 : p.pos+end]
		if digits == "" {
			base = Slice(base)
		} else {
			n, err := strconv.Atoi(digits)
			if !isDigits(digits) || err != nil || n < 1 {
				return Type{}, p.fail("invalid array length " + strconv.Quote(digits))
			}
			if !arrayFits(base, n) {
				return Type{}, p.fail("array too large")
			}
			base = Array(base, n)
		}
		p.pos += end + 1
	}
	return base, nil
}

// parseMembers parses "(type [name], ...)".
func (p *typeParser) parseMembers() ([]Field, error) {
	if p.done() || p.peek() != '(' {
		return nil, p.fail("expected '('")
	}
	p.pos++
	var fields []Field
	p.skipSpace()
	if !p.done() && p.peek() == ')' {
		p.pos++
		return fields, nil
	}
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		f := Field{Type: t}
		p.skipSpace()
		if !p.done() && isIdentByte(p.peek()) {
			f.Name = p.ident()
			if f.Name == "indexed" || f.Name == "memory" || f.Name == "calldata" {
				p.skipSpace()
				f.Name = p.ident()
			}
			p.skipSpace()
		}
		fields = append(fields, f)
		if p.done() {
			return nil, p.fail("unterminated member list")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return fields, nil
		default:
			return nil, p.fail("expected ',' or ')'")
		}
	}
}

// elementary resolves a non-tuple, non-array type name.
func elementary(name string) (Type, error) {
	switch name {
	case "bool":
		return Bool(), nil
	case "address":
		return Address(), nil
	case "string":
		return String(), nil
	case "bytes":
		return Bytes(), nil
	case "uint":
		return Uint(256), nil
	case "int":
		return Int(256), nil
	case "":
		return Type{}, errSyntax
	}
	for _, prefix := range []string{"uint", "int", "bytes"} {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if !isDigits(rest) || err != nil || strings.HasPrefix(rest, "0") {
			break
		}
		switch {
		case prefix == "bytes" && n >= 1 && n <= WordSize:
			return FixedBytes(n), nil
		case prefix == "uint" && validBits(n):
			return Uint(n), nil
		case prefix == "int" && validBits(n):
			return Int(n), nil
		}
		break
	}
	return Type{}, errors.New("unsupported type " + strconv.Quote(name))
}
