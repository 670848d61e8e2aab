package abicodec

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Table names used in logs and metrics.
const (
	CallsTable  = "calls"
	ErrorsTable = "errors"
	EventsTable = "events"
)

// Contract is the codec view of one contract interface: its functions,
// custom errors, and events, with a dispatch table for each. A Contract is
// read-only after construction and safe for concurrent use.
type Contract struct {
	methods map[string]*Method
	errors  map[string]*ErrorDef
	events  map[string]*Event

	calls   *Table[Selector, []byte]
	reverts *Table[Selector, []byte]
	logs    *Table[common.Hash, *types.Log]

	cfg contractConfig
}

// ContractOption configures a Contract.
type ContractOption func(*contractConfig)

type contractConfig struct {
	logger     *zap.Logger
	metrics    *Metrics
	decodeOpts []DecodeOption
}

// WithLogger sets the logger for dispatch misses and decode failures.
func WithLogger(l *zap.Logger) ContractOption {
	return func(c *contractConfig) {
		c.logger = l
	}
}

// WithMetrics records dispatch outcomes of all three tables on m.
func WithMetrics(m *Metrics) ContractOption {
	return func(c *contractConfig) {
		c.metrics = m
	}
}

// WithDecodeOptions applies opts to every decode performed by the contract.
func WithDecodeOptions(opts ...DecodeOption) ContractOption {
	return func(c *contractConfig) {
		c.decodeOpts = append(c.decodeOpts, opts...)
	}
}

// NewContract builds a contract from explicit schemas. Overloaded function
// names are disambiguated the way ABI JSON loading does it: the second
// "foo" is reachable as "foo0", the third as "foo1".
func NewContract(methods []*Method, errs []*ErrorDef, events []*Event, opts ...ContractOption) (*Contract, error) {
	mm := make(map[string]*Method, len(methods))
	for _, m := range methods {
		mm[overloadedName(m.Name, func(n string) bool { _, ok := mm[n]; return ok })] = m
	}
	em := make(map[string]*ErrorDef, len(errs))
	for _, e := range errs {
		em[overloadedName(e.Name, func(n string) bool { _, ok := em[n]; return ok })] = e
	}
	vm := make(map[string]*Event, len(events))
	for _, ev := range events {
		vm[overloadedName(ev.Name, func(n string) bool { _, ok := vm[n]; return ok })] = ev
	}
	return newContract(mm, em, vm, opts)
}

// ParseABI reads a JSON ABI and builds a Contract from it.
func ParseABI(abiJSON string, opts ...ContractOption) (*Contract, error) {
	return ReadABI(strings.NewReader(abiJSON), opts...)
}

// ReadABI is like ParseABI but reads the JSON ABI from r.
func ReadABI(r io.Reader, opts ...ContractOption) (*Contract, error) {
	parsed, err := abi.JSON(r)
	if err != nil {
		return nil, &ParseError{Input: "abi", Err: err}
	}
	return FromABI(parsed, opts...)
}

// MustParseABI is like ParseABI but panics on error.
func MustParseABI(abiJSON string, opts ...ContractOption) *Contract {
	c, err := ParseABI(abiJSON, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// FromABI converts a parsed go-ethereum ABI. Map keys (including overload
// suffixes) are kept as the lookup names.
func FromABI(parsed abi.ABI, opts ...ContractOption) (*Contract, error) {
	methods := make(map[string]*Method, len(parsed.Methods))
	for key, m := range parsed.Methods {
		inputs, err := convertArguments(m.Inputs)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", key, err)
		}
		outputs, err := convertArguments(m.Outputs)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", key, err)
		}
		methods[key] = &Method{Name: m.RawName, Inputs: inputs, Outputs: outputs}
	}

	errs := make(map[string]*ErrorDef, len(parsed.Errors))
	for key, e := range parsed.Errors {
		inputs, err := convertArguments(e.Inputs)
		if err != nil {
			return nil, fmt.Errorf("error %s: %w", key, err)
		}
		errs[key] = &ErrorDef{Name: e.Name, Inputs: inputs}
	}

	events := make(map[string]*Event, len(parsed.Events))
	for key, ev := range parsed.Events {
		params := make([]EventParam, len(ev.Inputs))
		for i, arg := range ev.Inputs {
			t, err := convertType(arg.Type)
			if err != nil {
				return nil, fmt.Errorf("event %s: %w", key, err)
			}
			params[i] = EventParam{Name: arg.Name, Type: t, Indexed: arg.Indexed}
		}
		events[key] = &Event{Name: ev.RawName, Inputs: params, Anonymous: ev.Anonymous}
	}
	return newContract(methods, errs, events, opts)
}

func newContract(methods map[string]*Method, errs map[string]*ErrorDef, events map[string]*Event, opts []ContractOption) (*Contract, error) {
	c := &Contract{methods: methods, errors: errs, events: events}
	for _, opt := range opts {
		opt(&c.cfg)
	}
	if c.cfg.logger == nil {
		c.cfg.logger = Logger()
	}
	tableOpts := []TableOption{WithTableLogger(c.cfg.logger), WithTableMetrics(c.cfg.metrics)}

	var err error
	calls := make([]Entry[Selector, []byte], 0, len(methods))
	for _, key := range sortedKeys(methods) {
		m := methods[key]
		calls = append(calls, Entry[Selector, []byte]{
			Key:    m.Selector(),
			Name:   key,
			Decode: c.argsDecoder(m.Name, m.Signature(), m.Inputs),
		})
	}
	if c.calls, err = NewTable(CallsTable, calls, tableOpts...); err != nil {
		return nil, err
	}

	reverts := make([]Entry[Selector, []byte], 0, len(errs)+2)
	seen := make(map[Selector]bool, len(errs))
	for _, key := range sortedKeys(errs) {
		e := errs[key]
		seen[e.Selector()] = true
		reverts = append(reverts, Entry[Selector, []byte]{
			Key:    e.Selector(),
			Name:   key,
			Decode: c.argsDecoder(e.Name, e.Signature(), e.Inputs),
		})
	}
	for _, e := range []*ErrorDef{RevertError, PanicError} {
		if seen[e.Selector()] {
			continue
		}
		reverts = append(reverts, Entry[Selector, []byte]{
			Key:    e.Selector(),
			Name:   e.Name,
			Decode: c.argsDecoder(e.Name, e.Signature(), e.Inputs),
		})
	}
	if c.reverts, err = NewTable(ErrorsTable, reverts, tableOpts...); err != nil {
		return nil, err
	}

	logs := make([]Entry[common.Hash, *types.Log], 0, len(events))
	for _, key := range sortedKeys(events) {
		ev := events[key]
		if ev.Anonymous {
			continue
		}
		logs = append(logs, Entry[common.Hash, *types.Log]{
			Key:    ev.ID(),
			Name:   key,
			Decode: c.logDecoder(ev),
		})
	}
	if c.logs, err = NewTable(EventsTable, logs, tableOpts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Contract) argsDecoder(name, sig string, inputs []Field) DecodeFunc[[]byte] {
	argTypes := Types(inputs)
	return func(args []byte) (Decoded, error) {
		values, err := Decode(argTypes, args, c.cfg.decodeOpts...)
		if err != nil {
			return Decoded{}, err
		}
		return Decoded{Name: name, Signature: sig, Names: fieldNames(inputs), Values: values}, nil
	}
}

func (c *Contract) logDecoder(ev *Event) DecodeFunc[*types.Log] {
	names := make([]string, len(ev.Inputs))
	for i, in := range ev.Inputs {
		names[i] = in.Name
	}
	sig := ev.Signature()
	return func(l *types.Log) (Decoded, error) {
		values, err := ev.DecodeLog(l.Topics, l.Data, c.cfg.decodeOpts...)
		if err != nil {
			return Decoded{}, err
		}
		return Decoded{Name: ev.Name, Signature: sig, Names: names, Values: values}, nil
	}
}

// DecodeCallData routes call data to the function its selector names.
func (c *Contract) DecodeCallData(data []byte) (Decoded, error) {
	sel, args, err := SplitSelector(data)
	if err != nil {
		return Decoded{}, err
	}
	return c.calls.Dispatch(sel, args)
}

// DecodeRevert routes revert data to a custom error of the contract or to
// one of the built-in Error(string) and Panic(uint256) errors.
func (c *Contract) DecodeRevert(data []byte) (Decoded, error) {
	sel, args, err := SplitSelector(data)
	if err != nil {
		return Decoded{}, err
	}
	return c.reverts.Dispatch(sel, args)
}

// DecodeLog routes a log to the event named by topic[0]. Anonymous events
// have no topic[0] and cannot be dispatched; decode them with Event.DecodeLog.
func (c *Contract) DecodeLog(topics []common.Hash, data []byte) (Decoded, error) {
	return c.DecodeEthLog(&types.Log{Topics: topics, Data: data})
}

// DecodeEthLog is like DecodeLog for a log returned by an Ethereum client.
func (c *Contract) DecodeEthLog(l *types.Log) (Decoded, error) {
	if len(l.Topics) == 0 {
		return Decoded{}, &DispatchError{Key: "<none>", Err: fmt.Errorf("%w: log has no topics", ErrUnknownSelector)}
	}
	return c.logs.Dispatch(l.Topics[0], l)
}

// Method returns the function with the given name.
func (c *Contract) Method(name string) (*Method, bool) {
	m, ok := c.methods[name]
	return m, ok
}

// Error returns the custom error with the given name.
func (c *Contract) Error(name string) (*ErrorDef, bool) {
	e, ok := c.errors[name]
	return e, ok
}

// Event returns the event with the given name.
func (c *Contract) Event(name string) (*Event, bool) {
	ev, ok := c.events[name]
	return ev, ok
}

// HasMethod returns true if the contract has a function with the given name.
func (c *Contract) HasMethod(name string) bool {
	_, ok := c.methods[name]
	return ok
}

// MethodNames returns all function names in sorted order.
func (c *Contract) MethodNames() []string {
	return sortedKeys(c.methods)
}

// Calls returns the function dispatch table.
func (c *Contract) Calls() *Table[Selector, []byte] {
	return c.calls
}

// Errors returns the revert dispatch table, built-ins included.
func (c *Contract) Errors() *Table[Selector, []byte] {
	return c.reverts
}

// Events returns the event dispatch table. Anonymous events are not in it.
func (c *Contract) Events() *Table[common.Hash, *types.Log] {
	return c.logs
}

// Pack encodes call data for the named function.
func (c *Contract) Pack(name string, args ...any) ([]byte, error) {
	m, ok := c.methods[name]
	if !ok {
		return nil, &NotFoundError{Kind: "method", Name: name}
	}
	return m.EncodeCall(args...)
}

// NotFoundError indicates a name lookup on a Contract failed.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("abicodec: %s %q not found", e.Kind, e.Name)
}

func convertArguments(args abi.Arguments) ([]Field, error) {
	fields := make([]Field, len(args))
	for i, arg := range args {
		t, err := convertType(arg.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = Field{Name: arg.Name, Type: t}
	}
	return fields, nil
}

// convertType maps a go-ethereum ABI type onto a Type.
func convertType(t abi.Type) (Type, error) {
	switch t.T {
	case abi.IntTy:
		return Int(t.Size), nil
	case abi.UintTy:
		return Uint(t.Size), nil
	case abi.BoolTy:
		return Bool(), nil
	case abi.StringTy:
		return String(), nil
	case abi.BytesTy:
		return Bytes(), nil
	case abi.AddressTy:
		return Address(), nil
	case abi.FixedBytesTy:
		return FixedBytes(t.Size), nil
	case abi.HashTy:
		return FixedBytes(common.HashLength), nil
	case abi.SliceTy:
		elem, err := convertType(*t.Elem)
		if err != nil {
			return Type{}, err
		}
		return Slice(elem), nil
	case abi.ArrayTy:
		if t.Size < 1 {
			return Type{}, fmt.Errorf("%w: %s", ErrInvalidType, t.String())
		}
		elem, err := convertType(*t.Elem)
		if err != nil {
			return Type{}, err
		}
		if !arrayFits(elem, t.Size) {
			return Type{}, fmt.Errorf("%w: %s too large", ErrInvalidType, t.String())
		}
		return Array(elem, t.Size), nil
	case abi.TupleTy:
		fields := make([]Field, len(t.TupleElems))
		for i, el := range t.TupleElems {
			ft, err := convertType(*el)
			if err != nil {
				return Type{}, err
			}
			fields[i] = Field{Name: t.TupleRawNames[i], Type: ft}
		}
		if !tupleFits(fields) {
			return Type{}, fmt.Errorf("%w: %s too large", ErrInvalidType, t.String())
		}
		return Struct(t.TupleRawName, fields...), nil
	}
	return Type{}, fmt.Errorf("%w: %s", ErrInvalidType, t.String())
}

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func overloadedName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	for i := 0; ; i++ {
		if n := name + strconv.Itoa(i); !taken(n) {
			return n
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
