package abicodec

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the variant tag of a Type.
type Kind uint8

const (
	// UintKind is uint8 through uint256.
	UintKind Kind = iota

	// IntKind is int8 through int256.
	IntKind

	// BoolKind is bool.
	BoolKind

	// AddressKind is a 20-byte address.
	AddressKind

	// FixedBytesKind is bytes1 through bytes32.
	FixedBytesKind

	// BytesKind is dynamic bytes.
	BytesKind

	// StringKind is a dynamic UTF-8 string.
	StringKind

	// ArrayKind is a fixed-length array T[N].
	ArrayKind

	// SliceKind is a dynamic-length array T[].
	SliceKind

	// TupleKind is a tuple or named struct.
	TupleKind
)

var kindNames = [...]string{
	UintKind:       "uint",
	IntKind:        "int",
	BoolKind:       "bool",
	AddressKind:    "address",
	FixedBytesKind: "fixed bytes",
	BytesKind:      "bytes",
	StringKind:     "string",
	ArrayKind:      "array",
	SliceKind:      "slice",
	TupleKind:      "tuple",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Field is a named member of a tuple.
type Field struct {
	Name string
	Type Type
}

// Type describes one ABI type. Types are immutable values built with the
// constructors below (or ParseType) and are safe to share between goroutines.
type Type struct {
	kind   Kind
	size   int // bit width, byte length, or array length depending on kind
	elem   *Type
	fields []Field
	name   string // struct name, empty for anonymous tuples

	dynamic   bool
	words     int // static word count, 0 if dynamic
	canonical string
}

// Uint returns the uintN type. It panics unless bits is a multiple of 8 in [8, 256].
func Uint(bits int) Type {
	if !validBits(bits) {
		panic(fmt.Sprintf("abicodec: invalid uint width %d", bits))
	}
	return Type{kind: UintKind, size: bits, words: 1, canonical: "uint" + strconv.Itoa(bits)}
}

// Int returns the intN type. It panics unless bits is a multiple of 8 in [8, 256].
func Int(bits int) Type {
	if !validBits(bits) {
		panic(fmt.Sprintf("abicodec: invalid int width %d", bits))
	}
	return Type{kind: IntKind, size: bits, words: 1, canonical: "int" + strconv.Itoa(bits)}
}

// Bool returns the bool type.
func Bool() Type {
	return Type{kind: BoolKind, words: 1, canonical: "bool"}
}

// Address returns the address type.
func Address() Type {
	return Type{kind: AddressKind, size: 20, words: 1, canonical: "address"}
}

// FixedBytes returns the bytesN type. It panics unless n is in [1, 32].
func FixedBytes(n int) Type {
	if n < 1 || n > WordSize {
		panic(fmt.Sprintf("abicodec: invalid fixed bytes length %d", n))
	}
	return Type{kind: FixedBytesKind, size: n, words: 1, canonical: "bytes" + strconv.Itoa(n)}
}

// Bytes returns the dynamic bytes type.
func Bytes() Type {
	return Type{kind: BytesKind, dynamic: true, canonical: "bytes"}
}

// String returns the string type.
func String() Type {
	return Type{kind: StringKind, dynamic: true, canonical: "string"}
}

// maxStaticWords bounds the head size of any type, in words.
const maxStaticWords = 1 << 24

// arrayFits reports whether elem[n] stays within maxStaticWords.
func arrayFits(elem Type, n int) bool {
	per := elem.words
	if elem.dynamic {
		per = 1
	}
	return per == 0 || n <= maxStaticWords/per
}

// Array returns the fixed-length array type elem[n]. It panics if n < 1 or
// its head would exceed 1<<24 words.
func Array(elem Type, n int) Type {
	if n < 1 {
		panic(fmt.Sprintf("abicodec: invalid array length %d", n))
	}
	if !arrayFits(elem, n) {
		panic(fmt.Sprintf("abicodec: array %s[%d] exceeds %d words", elem.canonical, n, maxStaticWords))
	}
	e := elem
	t := Type{
		kind:      ArrayKind,
		size:      n,
		elem:      &e,
		dynamic:   elem.dynamic,
		canonical: elem.canonical + "[" + strconv.Itoa(n) + "]",
	}
	if !t.dynamic {
		t.words = n * elem.words
	}
	return t
}

// Slice returns the dynamic-length array type elem[].
func Slice(elem Type) Type {
	e := elem
	return Type{
		kind:      SliceKind,
		elem:      &e,
		dynamic:   true,
		canonical: elem.canonical + "[]",
	}
}

// Tuple returns an anonymous tuple of the given members.
func Tuple(fields ...Field) Type {
	return Struct("", fields...)
}

// TupleOf returns an anonymous tuple with unnamed members.
func TupleOf(types ...Type) Type {
	fields := make([]Field, len(types))
	for i, t := range types {
		fields[i] = Field{Type: t}
	}
	return Tuple(fields...)
}

// Struct returns a named tuple. The name only matters for EIP-712 hashing;
// the ABI encoding and canonical name are those of the member tuple.
// It panics if its head would exceed 1<<24 words.
func Struct(name string, fields ...Field) Type {
	if !tupleFits(fields) {
		panic(fmt.Sprintf("abicodec: tuple exceeds %d words", maxStaticWords))
	}
	t := Type{
		kind:   TupleKind,
		fields: append([]Field(nil), fields...),
		name:   name,
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f.Type.canonical)
		if f.Type.dynamic {
			t.dynamic = true
		}
		t.words += f.Type.words
	}
	sb.WriteByte(')')
	t.canonical = sb.String()
	if t.dynamic {
		t.words = 0
	}
	return t
}

// tupleFits reports whether the head of a tuple of fields stays within
// maxStaticWords.
func tupleFits(fields []Field) bool {
	total := 0
	for _, f := range fields {
		if f.Type.dynamic {
			total++
		} else {
			total += f.Type.words
		}
		if total > maxStaticWords {
			return false
		}
	}
	return true
}

// headLen is the number of bytes the members of an array or tuple occupy
// in their own head.
func (t Type) headLen() int {
	switch t.kind {
	case ArrayKind:
		return t.size * t.elem.headSize()
	case TupleKind:
		n := 0
		for _, f := range t.fields {
			n += f.Type.headSize()
		}
		return n
	}
	return t.headSize()
}

// Kind returns the variant tag.
func (t Type) Kind() Kind {
	return t.kind
}

// Size returns the bit width for integers, the byte length for fixed bytes,
// the length for fixed arrays, and zero otherwise.
func (t Type) Size() int {
	return t.size
}

// Elem returns the element type of an array or slice.
func (t Type) Elem() (Type, bool) {
	if t.elem == nil {
		return Type{}, false
	}
	return *t.elem, true
}

// Fields returns a copy of the tuple members.
func (t Type) Fields() []Field {
	return append([]Field(nil), t.fields...)
}

// Name returns the struct name of a named tuple.
func (t Type) Name() string {
	return t.name
}

// IsDynamic reports whether the type has a variable-length encoding.
func (t Type) IsDynamic() bool {
	return t.dynamic
}

// StaticWords returns the number of head words a static type occupies.
// ok is false for dynamic types.
func (t Type) StaticWords() (n int, ok bool) {
	if t.dynamic {
		return 0, false
	}
	return t.words, true
}

// CanonicalName returns the signature form of the type, e.g. "(uint256,bytes)[]".
func (t Type) CanonicalName() string {
	return t.canonical
}

func (t Type) String() string {
	return t.canonical
}

// Equal reports whether two types have the same wire layout and struct names.
func (t Type) Equal(o Type) bool {
	if t.canonical != o.canonical || t.name != o.name {
		return false
	}
	if t.elem != nil {
		return t.elem.Equal(*o.elem)
	}
	for i := range t.fields {
		if !t.fields[i].Type.Equal(o.fields[i].Type) {
			return false
		}
	}
	return true
}

// IsValueType reports whether the type is an elementary type that fits in one word.
func (t Type) IsValueType() bool {
	switch t.kind {
	case UintKind, IntKind, BoolKind, AddressKind, FixedBytesKind:
		return true
	default:
		return false
	}
}

// headSize is the number of bytes the type occupies in an enclosing head.
func (t Type) headSize() int {
	if t.dynamic {
		return WordSize
	}
	return t.words * WordSize
}

// memberAt returns the type of the i-th member of an array, slice, or tuple.
func (t Type) memberAt(i int) Type {
	if t.kind == TupleKind {
		return t.fields[i].Type
	}
	return *t.elem
}

// memberPath names the i-th member for error messages.
func (t Type) memberPath(path string, i int) string {
	if t.kind == TupleKind && t.fields[i].Name != "" {
		return path + "." + t.fields[i].Name
	}
	return path + "[" + strconv.Itoa(i) + "]"
}

// Types returns the member types of fields in order.
func Types(fields []Field) []Type {
	types := make([]Type, len(fields))
	for i, f := range fields {
		types[i] = f.Type
	}
	return types
}

// Fields wraps types as unnamed fields.
func Fields(types ...Type) []Field {
	fields := make([]Field, len(types))
	for i, t := range types {
		fields[i] = Field{Type: t}
	}
	return fields
}
