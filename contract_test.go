package abicodec

import (
	"bytes"
	"errors"
	"math/big"
	"os"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func lightClientJSON(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/LightClient.abi.json")
	if err != nil {
		t.Fatalf("Failed to read ABI: %v", err)
	}
	return string(data)
}

func lightClient(t *testing.T, opts ...ContractOption) *Contract {
	t.Helper()
	c, err := ParseABI(lightClientJSON(t), opts...)
	if err != nil {
		t.Fatalf("Failed to parse ABI: %v", err)
	}
	return c
}

func genesisState() []any {
	return []any{
		uint64(1), uint64(2),
		big.NewInt(3), big.NewInt(4), big.NewInt(5), big.NewInt(6), big.NewInt(7), big.NewInt(8),
	}
}

func TestParseABI(t *testing.T) {
	c := lightClient(t)

	t.Run("tables", func(t *testing.T) {
		if c.Calls().Len() != 9 {
			t.Errorf("Expected 9 functions, got %d", c.Calls().Len())
		}
		if c.Errors().Len() != 7 {
			t.Errorf("Expected 5 custom and 2 built-in errors, got %d", c.Errors().Len())
		}
		if c.Events().Len() != 4 {
			t.Errorf("Expected 4 events, got %d", c.Events().Len())
		}
	})

	t.Run("method names", func(t *testing.T) {
		names := c.MethodNames()
		if len(names) != 9 || names[0] != "getFinalizedState" {
			t.Errorf("Unexpected method names %v", names)
		}
		if !c.HasMethod("owner") || c.HasMethod("constructor") {
			t.Error("HasMethod mismatch")
		}
	})

	t.Run("struct names", func(t *testing.T) {
		m, ok := c.Method("newFinalizedState")
		if !ok {
			t.Fatal("Expected newFinalizedState")
		}
		state := m.Inputs[0].Type
		if state.Name() != "LightClientLightClientState" {
			t.Errorf("Unexpected struct name %q", state.Name())
		}
		if words, ok := state.StaticWords(); !ok || words != 8 {
			t.Errorf("Expected 8 static words, got %d", words)
		}
		want := "newFinalizedState((uint64,uint64,uint256,uint256,uint256,uint256,uint256,uint256),bytes)"
		if m.Signature() != want {
			t.Errorf("Expected %s, got %s", want, m.Signature())
		}
	})

	t.Run("lookups", func(t *testing.T) {
		if e, ok := c.Error("OwnableInvalidOwner"); !ok || e.Selector().Hex() != "0x1e4fbdf7" {
			t.Error("Expected OwnableInvalidOwner with selector 0x1e4fbdf7")
		}
		if ev, ok := c.Event("Upgraded"); !ok || ev.ID().Hex() != "0xbc7cd75a20ee27fd9adebab32041f755214dbc6bffa90cc0225b39da2e5c2d3b" {
			t.Error("Expected Upgraded event id")
		}
		if _, ok := c.Method("missing"); ok {
			t.Error("Expected missing method")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		var pe *ParseError
		if _, err := ParseABI("{"); !errors.As(err, &pe) {
			t.Errorf("Expected *ParseError, got %v", err)
		}
	})
}

func TestMustParseABIPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic")
		}
	}()
	MustParseABI("not json")
}

func TestContractDecodeCallData(t *testing.T) {
	c := lightClient(t)
	owner := common.HexToAddress("0x4444444444444444444444444444444444444444")

	t.Run("static struct argument", func(t *testing.T) {
		data, err := c.Pack("initialize", genesisState(), uint32(10), owner)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		d, err := c.DecodeCallData(data)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if d.Name != "initialize" {
			t.Errorf("Expected initialize, got %s", d.Name)
		}
		if v, ok := d.Value("owner"); !ok || v != owner {
			t.Errorf("Expected owner %s, got %v", owner.Hex(), v)
		}

		var state struct {
			ViewNum, BlockHeight                           uint64
			BlockCommRoot, FeeLedgerComm                   *big.Int
			StakeTableBlsKeyComm, StakeTableSchnorrKeyComm *big.Int
			StakeTableAmountComm, Threshold                *big.Int
		}
		if err := Assign(&state, d.Values[0]); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if state.BlockHeight != 2 || state.Threshold.Int64() != 8 {
			t.Errorf("Unexpected state %+v", state)
		}
	})

	t.Run("dynamic argument", func(t *testing.T) {
		data, err := c.Pack("newFinalizedState", genesisState(), []byte{0xaa, 0xbb})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		d, err := c.DecodeCallData(data)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !equalValues(d.Values[1], []byte{0xaa, 0xbb}) {
			t.Errorf("Unexpected proof %v", d.Values[1])
		}
	})

	t.Run("unknown selector", func(t *testing.T) {
		_, err := c.DecodeCallData([]byte{0, 0, 0, 0})
		if !errors.Is(err, ErrUnknownSelector) {
			t.Errorf("Expected ErrUnknownSelector, got %v", err)
		}
	})

	t.Run("short data", func(t *testing.T) {
		if _, err := c.DecodeCallData([]byte{0xa9}); !errors.Is(err, ErrMalformed) {
			t.Errorf("Expected ErrMalformed, got %v", err)
		}
	})

	t.Run("pack unknown method", func(t *testing.T) {
		var nf *NotFoundError
		if _, err := c.Pack("missing"); !errors.As(err, &nf) {
			t.Errorf("Expected *NotFoundError, got %v", err)
		}
	})
}

func TestContractMatchesGoEthereumPack(t *testing.T) {
	jsonABI := lightClientJSON(t)
	parsed, err := abi.JSON(strings.NewReader(jsonABI))
	if err != nil {
		t.Fatalf("Failed to parse ABI: %v", err)
	}
	c := lightClient(t)

	impl := common.HexToAddress("0x5555555555555555555555555555555555555555")
	payload := bytes.Repeat([]byte{0x01}, 40)

	want, err := parsed.Pack("upgradeToAndCall", impl, payload)
	if err != nil {
		t.Fatalf("go-ethereum Pack failed: %v", err)
	}
	got, err := c.Pack("upgradeToAndCall", impl, payload)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Expected\n%x\ngot\n%x", want, got)
	}

	out, err := parsed.Methods["getVersion"].Outputs.Pack(uint8(1), uint8(2), uint8(3))
	if err != nil {
		t.Fatalf("go-ethereum Pack failed: %v", err)
	}
	m, _ := c.Method("getVersion")
	values, err := m.DecodeOutput(out)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !equalValues(values, []any{big.NewInt(1), big.NewInt(2), big.NewInt(3)}) {
		t.Errorf("Unexpected values %v", values)
	}
}

func TestContractDecodeRevert(t *testing.T) {
	c := lightClient(t)
	owner := common.HexToAddress("0x01")

	custom, _ := c.Error("OwnableInvalidOwner")
	customData, err := custom.EncodeRevert(owner)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	reasonData, err := RevertError.EncodeRevert("Ownable: caller is not the owner")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	panicData, err := PanicError.EncodeRevert(0x12)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	invalidProof := SelectorOf("InvalidProof()")

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"custom error", customData, "OwnableInvalidOwner"},
		{"no arguments", invalidProof[:], "InvalidProof"},
		{"revert reason", reasonData, "Error"},
		{"panic", panicData, "Panic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := c.DecodeRevert(tt.data)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if d.Name != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, d.Name)
			}
		})
	}

	t.Run("unknown error", func(t *testing.T) {
		sel := SelectorOf("Nope()")
		if _, err := c.DecodeRevert(sel[:]); !errors.Is(err, ErrUnknownSelector) {
			t.Errorf("Expected ErrUnknownSelector, got %v", err)
		}
	})

	t.Run("decode failure", func(t *testing.T) {
		_, err := c.DecodeRevert(customData[:SelectorSize+10])
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("Expected ErrMalformed, got %v", err)
		}
		var de *DispatchError
		if !errors.As(err, &de) || de.Key != "0x1e4fbdf7" {
			t.Errorf("Expected *DispatchError for 0x1e4fbdf7, got %v", err)
		}
	})
}

func TestContractDecodeLog(t *testing.T) {
	c := lightClient(t)
	newStateEvent, _ := c.Event("NewState")
	upgraded, _ := c.Event("Upgraded")

	t.Run("mixed indexed", func(t *testing.T) {
		topics, data, err := newStateEvent.EncodeLog(uint64(7), uint64(42), big.NewInt(99))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		d, err := c.DecodeLog(topics, data)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if d.Signature != "NewState(uint64,uint64,uint256)" {
			t.Errorf("Unexpected signature %s", d.Signature)
		}
		if v, _ := d.Value("blockHeight"); !equalValues(v, big.NewInt(42)) {
			t.Errorf("Expected blockHeight 42, got %v", v)
		}
	})

	t.Run("client log", func(t *testing.T) {
		impl := common.HexToAddress("0x6666666666666666666666666666666666666666")
		topics, data, err := upgraded.EncodeLog(impl)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		d, err := c.DecodeEthLog(&types.Log{Topics: topics, Data: data, BlockNumber: 12})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if d.Values[0] != impl {
			t.Errorf("Expected %s, got %v", impl.Hex(), d.Values[0])
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		if _, err := c.DecodeLog([]common.Hash{{1}}, nil); !errors.Is(err, ErrUnknownSelector) {
			t.Errorf("Expected ErrUnknownSelector, got %v", err)
		}
	})

	t.Run("no topics", func(t *testing.T) {
		if _, err := c.DecodeLog(nil, nil); !errors.Is(err, ErrUnknownSelector) {
			t.Errorf("Expected ErrUnknownSelector, got %v", err)
		}
	})
}

func TestContractOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := MustNewMetrics(reg)
	c := lightClient(t, WithMetrics(metrics), WithDecodeOptions(WithMaxLength(8)))

	data, err := c.Pack("upgradeToAndCall", common.Address{}, make([]byte, 16))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := c.DecodeCallData(data); !errors.Is(err, ErrLengthLimit) {
		t.Errorf("Expected ErrLengthLimit, got %v", err)
	}
	owner, err := c.Pack("owner")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := c.DecodeCallData(owner); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(metrics.dispatchTotal.WithLabelValues(CallsTable, "error")); got != 1 {
		t.Errorf("Expected 1 failed dispatch, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.dispatchTotal.WithLabelValues(CallsTable, "ok")); got != 1 {
		t.Errorf("Expected 1 successful dispatch, got %v", got)
	}
}

func TestNewContractOverloads(t *testing.T) {
	c, err := NewContract([]*Method{
		MustParseMethod("deposit()"),
		MustParseMethod("deposit(uint256)"),
		MustParseMethod("deposit(uint256,address)"),
	}, nil, []*Event{ownershipTransferred})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for name, sig := range map[string]string{
		"deposit":  "deposit()",
		"deposit0": "deposit(uint256)",
		"deposit1": "deposit(uint256,address)",
	} {
		m, ok := c.Method(name)
		if !ok || m.Signature() != sig {
			t.Errorf("Expected %s to be %s", name, sig)
		}
	}

	data, err := c.Pack("deposit0", 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	d, err := c.DecodeCallData(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Signature != "deposit(uint256)" {
		t.Errorf("Unexpected signature %s", d.Signature)
	}
}

func TestNewContractDuplicateSelector(t *testing.T) {
	// Both signatures hash to the same selector.
	_, err := NewContract([]*Method{
		MustParseMethod("transfer(address,uint256)"),
		MustParseMethod("transfer(address,uint256)"),
	}, nil, nil)
	if !errors.Is(err, ErrDuplicateSelector) {
		t.Errorf("Expected ErrDuplicateSelector, got %v", err)
	}
}

func TestConvertTypeUnsupported(t *testing.T) {
	tests := []string{
		"function",
		"uint8[16777217]",
		"uint256[16777216][2]",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			typ, err := abi.NewType(name, "", nil)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if _, err := convertType(typ); !errors.Is(err, ErrInvalidType) {
				t.Errorf("Expected ErrInvalidType, got %v", err)
			}
		})
	}
}
