package abicodec

import (
	"errors"
	"testing"
)

func TestSelectorOf(t *testing.T) {
	tests := []struct {
		signature string
		want      string
	}{
		{"transfer(address,uint256)", "0xa9059cbb"},
		{"owner()", "0x8da5cb5b"},
		{"transferOwnership(address)", "0xf2fde38b"},
		{"renounceOwnership()", "0x715018a6"},
		{"upgradeToAndCall(address,bytes)", "0x4f1ef286"},
		{"proxiableUUID()", "0x52d1902d"},
		{"getVersion()", "0x0d8e6e2c"},
		{"OwnableInvalidOwner(address)", "0x1e4fbdf7"},
		{"AddressEmptyCode(address)", "0x9996b315"},
		{"Error(string)", "0x08c379a0"},
		{"Panic(uint256)", "0x4e487b71"},
	}

	for _, tt := range tests {
		t.Run(tt.signature, func(t *testing.T) {
			got := SelectorOf(tt.signature)
			if got.Hex() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got.Hex())
			}
			if SelectorOf(tt.signature) != got {
				t.Error("Expected selector to be deterministic")
			}
		})
	}
}

func TestEventSignatureHash(t *testing.T) {
	tests := []struct {
		signature string
		want      string
	}{
		{"OwnershipTransferred(address,address)", "0x8be0079c531659141344cd1fd0a4f28419497f9722a3daafe3b4186f6b6457e0"},
		{"Upgraded(address)", "0xbc7cd75a20ee27fd9adebab32041f755214dbc6bffa90cc0225b39da2e5c2d3b"},
		{"Initialized(uint64)", "0xc7f505b2f371ae2175ee4913f4499e1f2633a7b5936321eed1cdaeb6115181d2"},
	}

	for _, tt := range tests {
		t.Run(tt.signature, func(t *testing.T) {
			if got := EventSignatureHash(tt.signature); got.Hex() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got.Hex())
			}
		})
	}
}

func TestSignature(t *testing.T) {
	state := TupleOf(Uint(64), Uint(64), Uint(256))
	got := Signature("newFinalizedState", []Type{state, Slice(FixedBytes(32))})

	want := "newFinalizedState((uint64,uint64,uint256),bytes32[])"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestHexToSelector(t *testing.T) {
	for _, in := range []string{"0xa9059cbb", "a9059cbb", "0XA9059CBB"} {
		t.Run(in, func(t *testing.T) {
			sel, err := HexToSelector(in)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if sel != SelectorOf("transfer(address,uint256)") {
				t.Errorf("Unexpected selector %s", sel)
			}
		})
	}

	for _, in := range []string{"0xa9059c", "0xa9059cbb00", "0xzz059cbb"} {
		t.Run("invalid "+in, func(t *testing.T) {
			var pe *ParseError
			if _, err := HexToSelector(in); !errors.As(err, &pe) {
				t.Errorf("Expected *ParseError, got %v", err)
			}
		})
	}
}

func TestSplitSelector(t *testing.T) {
	sel, args, err := SplitSelector([]byte{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sel != (Selector{1, 2, 3, 4}) || len(args) != 1 {
		t.Errorf("Unexpected split %s %x", sel, args)
	}

	if _, _, err := SplitSelector([]byte{1, 2, 3}); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestKeccak256(t *testing.T) {
	// keccak256("") as used throughout Ethereum for empty code.
	want := "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	if got := Keccak256(); got.Hex() != want {
		t.Errorf("Expected %s, got %s", want, got.Hex())
	}
	if Keccak256([]byte("ab")) != Keccak256([]byte("a"), []byte("b")) {
		t.Error("Expected hashing to be over the concatenation")
	}
}
