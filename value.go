package abicodec

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Go values accepted by Tokenize:
//   - integers: *big.Int, big.Int, *uint256.Int, and every Go int/uint kind
//   - address: common.Address, *common.Address, [20]byte
//   - fixed bytes: []byte, common.Hash, or any [N]byte of the exact length
//   - bytes: []byte (and named byte slices such as hexutil.Bytes)
//   - string: string
//   - arrays and slices: []any or any Go slice/array
//   - tuples: []any, any Go slice/array, or a struct whose exported fields
//     line up with the tuple members

var (
	bigIntType     = reflect.TypeOf((*big.Int)(nil))
	uint256Type    = reflect.TypeOf((*uint256.Int)(nil))
	interfaceSlice = reflect.TypeOf([]any(nil))
)

// toBigInt converts any supported integer representation.
func toBigInt(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		return n, n != nil
	case big.Int:
		return &n, true
	case *uint256.Int:
		if n == nil {
			return nil, false
		}
		return n.ToBig(), true
	case uint256.Int:
		return n.ToBig(), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), true
	}
	return nil, false
}

func toAddress(v any) (common.Address, bool) {
	switch a := v.(type) {
	case common.Address:
		return a, true
	case *common.Address:
		if a == nil {
			return common.Address{}, false
		}
		return *a, true
	case [common.AddressLength]byte:
		return common.Address(a), true
	}
	return common.Address{}, false
}

// toByteSlice accepts byte slices and byte arrays of any length.
func toByteSlice(v any) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case common.Hash:
		return b[:], true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes(), true
		}
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			out := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(out), rv)
			return out, true
		}
	}
	return nil, false
}

// toList flattens any Go slice or array into its elements.
func toList(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// toMembers accepts a list or a struct for a tuple of n members.
func toMembers(v any, n int) ([]any, bool) {
	if items, ok := toList(v); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	items := make([]any, 0, n)
	for i := 0; i < rv.NumField(); i++ {
		if !rv.Type().Field(i).IsExported() {
			continue
		}
		items = append(items, rv.Field(i).Interface())
	}
	return items, true
}

// Assign copies a decoded value into dst, which must be a non-nil pointer.
// Lists fill slices, arrays, or structs (exported fields in order); *big.Int
// fills big.Int, *uint256.Int, and sized Go integers when the value fits;
// []byte fills byte slices and byte arrays of the same length.
func Assign(dst any, value any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &TypeError{Type: "pointer", Got: fmt.Sprintf("%T", dst)}
	}
	return assign(rv.Elem(), value, "")
}

func assign(dst reflect.Value, value any, path string) error {
	mismatch := func() error {
		return &TypeError{Type: dst.Type().String(), Path: path, Got: fmt.Sprintf("%T", value)}
	}
	if dst.Kind() == reflect.Interface && dst.NumMethod() == 0 {
		if value == nil {
			dst.Set(reflect.Zero(dst.Type()))
		} else {
			dst.Set(reflect.ValueOf(value))
		}
		return nil
	}

	switch v := value.(type) {
	case *big.Int:
		return assignInt(dst, v, mismatch)

	case []byte:
		switch {
		case dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8:
			dst.SetBytes(append([]byte(nil), v...))
			return nil
		case dst.Kind() == reflect.Array && dst.Type().Elem().Kind() == reflect.Uint8:
			if dst.Len() != len(v) {
				return mismatch()
			}
			reflect.Copy(dst, reflect.ValueOf(v))
			return nil
		}
		return mismatch()

	case []any:
		if dst.Type() == interfaceSlice {
			dst.Set(reflect.ValueOf(v))
			return nil
		}
		switch dst.Kind() {
		case reflect.Slice:
			out := reflect.MakeSlice(dst.Type(), len(v), len(v))
			for i, item := range v {
				if err := assign(out.Index(i), item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
					return err
				}
			}
			dst.Set(out)
			return nil
		case reflect.Array:
			if dst.Len() != len(v) {
				return mismatch()
			}
			for i, item := range v {
				if err := assign(dst.Index(i), item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
					return err
				}
			}
			return nil
		case reflect.Struct:
			return assignStruct(dst, v, path, mismatch)
		case reflect.Pointer:
			if dst.IsNil() {
				dst.Set(reflect.New(dst.Type().Elem()))
			}
			return assign(dst.Elem(), v, path)
		}
		return mismatch()
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return mismatch()
	}
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return nil
	}
	return mismatch()
}

func assignStruct(dst reflect.Value, items []any, path string, mismatch func() error) error {
	var exported []int
	for i := 0; i < dst.NumField(); i++ {
		if dst.Type().Field(i).IsExported() {
			exported = append(exported, i)
		}
	}
	if len(exported) != len(items) {
		return mismatch()
	}
	for i, fi := range exported {
		name := path + "." + dst.Type().Field(fi).Name
		if err := assign(dst.Field(fi), items[i], name); err != nil {
			return err
		}
	}
	return nil
}

func assignInt(dst reflect.Value, v *big.Int, mismatch func() error) error {
	switch {
	case dst.Type() == bigIntType:
		dst.Set(reflect.ValueOf(new(big.Int).Set(v)))
		return nil
	case dst.Type() == bigIntType.Elem():
		dst.Set(reflect.ValueOf(new(big.Int).Set(v)).Elem())
		return nil
	case dst.Type() == uint256Type:
		u, overflow := uint256.FromBig(v)
		if overflow || v.Sign() < 0 {
			return mismatch()
		}
		dst.Set(reflect.ValueOf(u))
		return nil
	}
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !v.IsInt64() || dst.OverflowInt(v.Int64()) {
			return mismatch()
		}
		dst.SetInt(v.Int64())
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !v.IsUint64() || dst.OverflowUint(v.Uint64()) {
			return mismatch()
		}
		dst.SetUint(v.Uint64())
		return nil
	}
	return mismatch()
}
