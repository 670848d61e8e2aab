package abicodec

import (
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// DependencyOrder controls how referenced struct types are appended to an
// EIP-712 type string.
type DependencyOrder uint8

const (
	// Alphabetical sorts referenced structs by name, as EIP-712 requires.
	Alphabetical DependencyOrder = iota

	// FirstOccurrence keeps referenced structs in depth-first order of first use.
	FirstOccurrence
)

// EIP712Option configures EIP-712 type encoding.
type EIP712Option func(*eip712Config)

type eip712Config struct {
	order DependencyOrder
}

// WithDependencyOrder selects the order of referenced struct types.
// Default is Alphabetical.
func WithDependencyOrder(o DependencyOrder) EIP712Option {
	return func(c *eip712Config) {
		c.order = o
	}
}

func newEIP712Config(opts []EIP712Option) *eip712Config {
	cfg := &eip712Config{order: Alphabetical}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// eip712TypeName is the name a member type has inside an EIP-712 type string.
func eip712TypeName(t Type) string {
	switch t.kind {
	case TupleKind:
		return t.name
	case ArrayKind:
		return eip712TypeName(*t.elem) + "[" + strconv.Itoa(t.size) + "]"
	case SliceKind:
		return eip712TypeName(*t.elem) + "[]"
	default:
		return t.canonical
	}
}

// structOf returns the struct type an array or slice member bottoms out in.
func structOf(t Type) (Type, bool) {
	for t.kind == ArrayKind || t.kind == SliceKind {
		t = *t.elem
	}
	return t, t.kind == TupleKind
}

func checkStruct(t Type) error {
	if t.kind != TupleKind || t.name == "" {
		return &TypeError{Type: "named struct", Got: t.canonical, Err: ErrInvalidType}
	}
	return nil
}

func encodeStructType(t Type) string {
	var sb strings.Builder
	sb.WriteString(t.name)
	sb.WriteByte('(')
	for i, f := range t.fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(eip712TypeName(f.Type))
		sb.WriteByte(' ')
		sb.WriteString(f.Name)
	}
	sb.WriteByte(')')
	return sb.String()
}

// dependencies collects the struct types referenced by t, transitively,
// excluding t itself, in depth-first order of first occurrence.
func dependencies(t Type) ([]Type, error) {
	seen := map[string]Type{t.name: t}
	var deps []Type
	var walk func(Type) error
	walk = func(s Type) error {
		for _, f := range s.fields {
			ft, ok := structOf(f.Type)
			if !ok {
				continue
			}
			if err := checkStruct(ft); err != nil {
				return err
			}
			if prev, ok := seen[ft.name]; ok {
				if !prev.Equal(ft) {
					return &TypeError{Type: prev.canonical, Path: ft.name, Got: ft.canonical, Err: ErrInvalidType}
				}
				continue
			}
			seen[ft.name] = ft
			deps = append(deps, ft)
			if err := walk(ft); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(t); err != nil {
		return nil, err
	}
	return deps, nil
}

// EIP712TypeString returns encodeType(t): the struct's own definition
// followed by each referenced struct definition exactly once, e.g.
// "Mail(Person from,Person to,string contents)Person(string name,address wallet)".
// Referenced structs are sorted by name; first-occurrence order is opt-in
// via WithDependencyOrder(FirstOccurrence).
func EIP712TypeString(t Type, opts ...EIP712Option) (string, error) {
	if err := checkStruct(t); err != nil {
		return "", err
	}
	cfg := newEIP712Config(opts)
	deps, err := dependencies(t)
	if err != nil {
		return "", err
	}
	if cfg.order == Alphabetical {
		slices.SortFunc(deps, func(a, b Type) int { return strings.Compare(a.name, b.name) })
	}
	var sb strings.Builder
	sb.WriteString(encodeStructType(t))
	for _, d := range deps {
		sb.WriteString(encodeStructType(d))
	}
	return sb.String(), nil
}

// EIP712TypeHash returns keccak256(encodeType(t)).
func EIP712TypeHash(t Type, opts ...EIP712Option) (common.Hash, error) {
	s, err := EIP712TypeString(t, opts...)
	if err != nil {
		return common.Hash{}, err
	}
	return keccak256([]byte(s)), nil
}

// EIP712HashStruct returns hashStruct(v) = keccak256(typeHash || encodeData(v)).
// Atomic members are encoded as their ABI word, bytes and strings as their
// hash, nested structs as their hashStruct, and arrays as the hash of the
// concatenated member encodings.
func EIP712HashStruct(t Type, v any, opts ...EIP712Option) (common.Hash, error) {
	if err := checkStruct(t); err != nil {
		return common.Hash{}, err
	}
	tok, err := Tokenize(t, v)
	if err != nil {
		return common.Hash{}, err
	}
	return hashStructToken(t, tok, opts)
}

func hashStructToken(t Type, tok Token, opts []EIP712Option) (common.Hash, error) {
	typeHash, err := EIP712TypeHash(t, opts...)
	if err != nil {
		return common.Hash{}, err
	}
	buf := make([]byte, 0, WordSize*(len(t.fields)+1))
	buf = append(buf, typeHash[:]...)
	for i, f := range t.fields {
		w, err := encodeDataWord(f.Type, tok.elems[i], opts)
		if err != nil {
			return common.Hash{}, err
		}
		buf = append(buf, w[:]...)
	}
	return keccak256(buf), nil
}

func encodeDataWord(t Type, tok Token, opts []EIP712Option) (common.Hash, error) {
	switch t.kind {
	case TupleKind:
		return hashStructToken(t, tok, opts)
	case BytesKind, StringKind:
		return keccak256(tok.data), nil
	case ArrayKind, SliceKind:
		buf := make([]byte, 0, WordSize*len(tok.elems))
		for _, el := range tok.elems {
			w, err := encodeDataWord(*t.elem, el, opts)
			if err != nil {
				return common.Hash{}, err
			}
			buf = append(buf, w[:]...)
		}
		return keccak256(buf), nil
	default:
		return tok.word.Hash(), nil
	}
}

// Domain is the EIP-712 domain. Empty strings and nil pointers are left out
// of the EIP712Domain type.
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract *common.Address
	Salt              *common.Hash
}

// Type returns the EIP712Domain struct type with only the fields that are set.
func (d Domain) Type() Type {
	t, _ := d.typeAndValues()
	return t
}

func (d Domain) typeAndValues() (Type, []any) {
	var (
		fields []Field
		values []any
	)
	if d.Name != "" {
		fields = append(fields, Field{Name: "name", Type: String()})
		values = append(values, d.Name)
	}
	if d.Version != "" {
		fields = append(fields, Field{Name: "version", Type: String()})
		values = append(values, d.Version)
	}
	if d.ChainID != nil {
		fields = append(fields, Field{Name: "chainId", Type: Uint(256)})
		values = append(values, d.ChainID)
	}
	if d.VerifyingContract != nil {
		fields = append(fields, Field{Name: "verifyingContract", Type: Address()})
		values = append(values, *d.VerifyingContract)
	}
	if d.Salt != nil {
		fields = append(fields, Field{Name: "salt", Type: FixedBytes(32)})
		values = append(values, *d.Salt)
	}
	return Struct("EIP712Domain", fields...), values
}

// Separator returns the domain separator hashStruct(domain).
func (d Domain) Separator() (common.Hash, error) {
	t, values := d.typeAndValues()
	h, err := EIP712HashStruct(t, values)
	if err != nil {
		return common.Hash{}, fmt.Errorf("domain separator: %w", err)
	}
	return h, nil
}

// TypedDataHash returns the signing digest keccak256(0x19 0x01 || domainSeparator || structHash).
func TypedDataHash(domainSeparator, structHash common.Hash) common.Hash {
	return keccak256([]byte{0x19, 0x01}, domainSeparator[:], structHash[:])
}

// HashTypedData hashes v as struct t under domain d.
func HashTypedData(d Domain, t Type, v any, opts ...EIP712Option) (common.Hash, error) {
	sep, err := d.Separator()
	if err != nil {
		return common.Hash{}, err
	}
	h, err := EIP712HashStruct(t, v, opts...)
	if err != nil {
		return common.Hash{}, err
	}
	return TypedDataHash(sep, h), nil
}
