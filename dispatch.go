package abicodec

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Key is a dispatch key: a 4-byte selector for calls and errors, or a
// 32-byte topic hash for events.
type Key interface {
	Selector | common.Hash
}

func keyBytes[K Key](k K) []byte {
	switch k := any(k).(type) {
	case Selector:
		return k[:]
	case common.Hash:
		return k[:]
	}
	return nil
}

func keyHex[K Key](k K) string {
	return hexutil.Encode(keyBytes(k))
}

// Decoded is the result of a successful dispatch.
type Decoded struct {
	Name      string
	Signature string
	// Names holds the parameter names, empty where the ABI leaves them unnamed.
	Names  []string
	Values []any
}

// Value returns the decoded value of the named parameter.
func (d Decoded) Value(name string) (any, bool) {
	for i, n := range d.Names {
		if n == name && i < len(d.Values) {
			return d.Values[i], true
		}
	}
	return nil, false
}

// DecodeFunc decodes the payload routed to one table entry.
type DecodeFunc[P any] func(payload P) (Decoded, error)

// Entry is one row of a dispatch table.
type Entry[K Key, P any] struct {
	Key    K
	Name   string
	Decode DecodeFunc[P]
}

// TableOption configures a Table.
type TableOption func(*tableConfig)

type tableConfig struct {
	logger  *zap.Logger
	metrics *Metrics
}

// WithTableLogger sets the logger used for dispatch misses and failures.
func WithTableLogger(l *zap.Logger) TableOption {
	return func(c *tableConfig) {
		c.logger = l
	}
}

// WithTableMetrics records dispatch outcomes on m.
func WithTableMetrics(m *Metrics) TableOption {
	return func(c *tableConfig) {
		c.metrics = m
	}
}

// Table routes a key to its decoder. Entries are sorted by key bytes and
// looked up by binary search. A Table is immutable after NewTable returns
// and safe for concurrent use.
type Table[K Key, P any] struct {
	name    string
	entries []Entry[K, P]
	cfg     tableConfig
}

// NewTable builds a table named name (used in logs and metrics) from entries.
// Duplicate keys are rejected with ErrDuplicateSelector.
func NewTable[K Key, P any](name string, entries []Entry[K, P], opts ...TableOption) (*Table[K, P], error) {
	cfg := tableConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = Logger()
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry[K, P]) int {
		return bytes.Compare(keyBytes(a.Key), keyBytes(b.Key))
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Key == sorted[i-1].Key {
			return nil, &DispatchError{
				Key: keyHex(sorted[i].Key),
				Err: fmt.Errorf("%w: %s and %s", ErrDuplicateSelector, sorted[i-1].Name, sorted[i].Name),
			}
		}
	}
	return &Table[K, P]{name: name, entries: sorted, cfg: cfg}, nil
}

// Name returns the table name.
func (t *Table[K, P]) Name() string {
	return t.name
}

// Len returns the number of entries.
func (t *Table[K, P]) Len() int {
	return len(t.entries)
}

// Entries returns the entries in ascending key order.
func (t *Table[K, P]) Entries() []Entry[K, P] {
	return slices.Clone(t.entries)
}

// Lookup returns the entry for key.
func (t *Table[K, P]) Lookup(key K) (Entry[K, P], bool) {
	kb := keyBytes(key)
	i, found := slices.BinarySearchFunc(t.entries, kb, func(e Entry[K, P], target []byte) int {
		return bytes.Compare(keyBytes(e.Key), target)
	})
	if !found {
		return Entry[K, P]{}, false
	}
	return t.entries[i], true
}

// Dispatch finds the entry for key and decodes payload with it.
// A missing key yields a *DispatchError wrapping ErrUnknownSelector.
func (t *Table[K, P]) Dispatch(key K, payload P) (Decoded, error) {
	e, ok := t.Lookup(key)
	if !ok {
		t.cfg.metrics.observe(t.name, resultUnknown)
		t.cfg.logger.Debug("dispatch miss",
			zap.String("table", t.name),
			zap.String("selector", keyHex(key)))
		return Decoded{}, &DispatchError{Key: keyHex(key), Err: ErrUnknownSelector}
	}

	d, err := e.Decode(payload)
	if err != nil {
		t.cfg.metrics.observe(t.name, resultError)
		t.cfg.logger.Debug("dispatch decode failed",
			zap.String("table", t.name),
			zap.String("selector", keyHex(key)),
			zap.String("name", e.Name),
			zap.Error(err))
		return Decoded{}, &DispatchError{Key: keyHex(key), Err: err}
	}
	t.cfg.metrics.observe(t.name, resultOK)
	return d, nil
}
