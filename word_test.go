package abicodec

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func mustBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		panic("bad big int " + s)
	}
	return n
}

func TestEncodeUint(t *testing.T) {
	tests := []struct {
		name    string
		value   *big.Int
		bits    int
		want    string
		wantErr error
	}{
		{"zero", big.NewInt(0), 256, "0x0000000000000000000000000000000000000000000000000000000000000000", nil},
		{"one", big.NewInt(1), 8, "0x0000000000000000000000000000000000000000000000000000000000000001", nil},
		{"uint8 max", big.NewInt(255), 8, "0x00000000000000000000000000000000000000000000000000000000000000ff", nil},
		{"uint256 max", mustBig("0x" + "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"), 256, "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", nil},
		{"uint8 overflow", big.NewInt(256), 8, "", ErrOutOfRange},
		{"uint256 overflow", new(big.Int).Lsh(big.NewInt(1), 256), 256, "", ErrOutOfRange},
		{"negative", big.NewInt(-1), 256, "", ErrOutOfRange},
		{"nil", nil, 256, "", ErrOutOfRange},
		{"bad width", big.NewInt(1), 7, "", ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := EncodeUint(tt.value, tt.bits)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if w.Hex() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, w.Hex())
			}
		})
	}
}

func TestDecodeUint(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, v := range []int64{0, 1, 255, 1 << 40} {
			w, err := EncodeUint(big.NewInt(v), 64)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			got, err := DecodeUint(w, 64)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Int64() != v {
				t.Errorf("Expected %d, got %s", v, got)
			}
		}
	})

	t.Run("dirty high bits", func(t *testing.T) {
		var w Word
		w[WordSize-2] = 1 // 256 does not fit in uint8
		if _, err := DecodeUint(w, 8); !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("Expected ErrInvalidEncoding, got %v", err)
		}
	})
}

func TestEncodeDecodeInt(t *testing.T) {
	tests := []struct {
		name  string
		value *big.Int
		bits  int
		want  string
	}{
		{"minus one", big.NewInt(-1), 256, "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"int8 min", big.NewInt(-128), 8, "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff80"},
		{"int8 max", big.NewInt(127), 8, "0x000000000000000000000000000000000000000000000000000000000000007f"},
		{"int64 minus two", big.NewInt(-2), 64, "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe"},
		{"int256 min", new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255)), 256, "0x8000000000000000000000000000000000000000000000000000000000000000"},
		{"int256 max", new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1)), 256, "0x7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := EncodeInt(tt.value, tt.bits)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if w.Hex() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, w.Hex())
			}
			got, err := DecodeInt(w, tt.bits)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Cmp(tt.value) != 0 {
				t.Errorf("Expected %s, got %s", tt.value, got)
			}
		})
	}

	t.Run("out of range", func(t *testing.T) {
		for _, v := range []int64{128, -129} {
			if _, err := EncodeInt(big.NewInt(v), 8); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Expected ErrOutOfRange for %d, got %v", v, err)
			}
		}
	})

	t.Run("bad sign extension", func(t *testing.T) {
		var w Word
		w[WordSize-1] = 0x80 // 128 as int8 needs 0xff high bytes
		if _, err := DecodeInt(w, 8); !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("Expected ErrInvalidEncoding, got %v", err)
		}
	})
}

func TestAddressWord(t *testing.T) {
	addr := common.HexToAddress("0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826")
	w := EncodeAddress(addr)

	if !(Word{}).IsZero() || w.IsZero() {
		t.Error("IsZero mismatch")
	}
	got, err := DecodeAddress(w)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != addr {
		t.Errorf("Expected %s, got %s", addr.Hex(), got.Hex())
	}

	w[0] = 1
	if _, err := DecodeAddress(w); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("Expected ErrInvalidEncoding, got %v", err)
	}
}

func TestDecodeBool(t *testing.T) {
	tests := []struct {
		name    string
		last    byte
		high    bool
		want    bool
		wantErr bool
	}{
		{"false", 0, false, false, false},
		{"true", 1, false, true, false},
		{"two", 2, false, false, true},
		{"dirty high byte", 1, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w Word
			w[WordSize-1] = tt.last
			if tt.high {
				w[0] = 1
			}
			got, err := DecodeBool(w)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBool) {
					t.Errorf("Expected ErrInvalidBool, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	if EncodeBool(true)[WordSize-1] != 1 || !EncodeBool(false).IsZero() {
		t.Error("EncodeBool mismatch")
	}
}

func TestFixedBytesWord(t *testing.T) {
	w, err := EncodeFixedBytes([]byte{0xde, 0xad}, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if w[0] != 0xde || w[1] != 0xad || w[2] != 0 {
		t.Errorf("Expected right padding, got %s", w.Hex())
	}

	got, err := DecodeFixedBytes(w, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != 0xde || got[1] != 0xad {
		t.Errorf("Expected dead, got %x", got)
	}

	if _, err := EncodeFixedBytes([]byte{1, 2, 3}, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}

	w[5] = 1
	if _, err := DecodeFixedBytes(w, 2); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("Expected ErrInvalidEncoding, got %v", err)
	}
}
