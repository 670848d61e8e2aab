package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/branched-services/go-abicodec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// parseArgs converts a JSON array into Go values accepted by the encoder.
// Integers may be JSON numbers or decimal/0x-hex strings, bytes are 0x-hex
// strings, and tuples are arrays or objects keyed by member name.
func parseArgs(types []abicodec.Type, raw string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON array: %w", err)
	}
	if len(items) != len(types) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(types), len(items))
	}
	out := make([]any, len(items))
	for i, item := range items {
		v, err := convertArg(types[i], item)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func convertArg(t abicodec.Type, v any) (any, error) {
	switch t.Kind() {
	case abicodec.UintKind, abicodec.IntKind:
		var s string
		switch n := v.(type) {
		case json.Number:
			s = n.String()
		case string:
			s = n
		default:
			return nil, fmt.Errorf("%s: expected number, got %T", t, v)
		}
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("%s: invalid integer %q", t, s)
		}
		return n, nil

	case abicodec.BoolKind:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%s: expected boolean, got %T", t, v)
		}
		return b, nil

	case abicodec.AddressKind:
		s, ok := v.(string)
		if !ok || !common.IsHexAddress(s) {
			return nil, fmt.Errorf("%s: invalid address %v", t, v)
		}
		return common.HexToAddress(s), nil

	case abicodec.FixedBytesKind, abicodec.BytesKind:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected hex string, got %T", t, v)
		}
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		return b, nil

	case abicodec.StringKind:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected string, got %T", t, v)
		}
		return s, nil

	case abicodec.ArrayKind, abicodec.SliceKind:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: expected array, got %T", t, v)
		}
		elem, _ := t.Elem()
		out := make([]any, len(items))
		for i, item := range items {
			c, err := convertArg(elem, item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = c
		}
		return out, nil

	case abicodec.TupleKind:
		fields := t.Fields()
		var items []any
		switch x := v.(type) {
		case []any:
			items = x
		case map[string]any:
			items = make([]any, len(fields))
			for i, f := range fields {
				item, ok := x[f.Name]
				if !ok {
					return nil, fmt.Errorf("%s: missing member %q", t, f.Name)
				}
				items[i] = item
			}
		default:
			return nil, fmt.Errorf("%s: expected array or object, got %T", t, v)
		}
		if len(items) != len(fields) {
			return nil, fmt.Errorf("%s: expected %d members, got %d", t, len(fields), len(items))
		}
		out := make([]any, len(items))
		for i, item := range items {
			c, err := convertArg(fields[i].Type, item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fields[i].Name, err)
			}
			out[i] = c
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type %s", t)
}

// jsonValue maps a decoded value to a JSON-friendly form: integers as
// decimal strings and byte strings as 0x-hex.
func jsonValue(v any) any {
	switch x := v.(type) {
	case *big.Int:
		return x.String()
	case []byte:
		return hexutil.Encode(x)
	case common.Address:
		return x.Hex()
	case common.Hash:
		return x.Hex()
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = jsonValue(el)
		}
		return out
	}
	return v
}

type decodedArg struct {
	Name  string `json:"name,omitempty"`
	Value any    `json:"value"`
}

type decodedOutput struct {
	Name      string       `json:"name"`
	Signature string       `json:"signature"`
	Args      []decodedArg `json:"args"`
}

func writeDecoded(w io.Writer, d abicodec.Decoded) error {
	out := decodedOutput{Name: d.Name, Signature: d.Signature, Args: make([]decodedArg, len(d.Values))}
	for i, v := range d.Values {
		out.Args[i].Value = jsonValue(v)
		if i < len(d.Names) {
			out.Args[i].Name = d.Names[i]
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
