package abicodec

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
)

// WordSize is the size of one ABI word in bytes.
const WordSize = 32

// Word is a single 32-byte ABI slot. Numeric values are big-endian.
type Word [WordSize]byte

// Bytes returns a copy of the word as a byte slice.
func (w Word) Bytes() []byte {
	b := make([]byte, WordSize)
	copy(b, w[:])
	return b
}

// Hash returns the word as a common.Hash (used for log topics).
func (w Word) Hash() common.Hash {
	return common.Hash(w)
}

// Hex returns the 0x-prefixed hex encoding of the word.
func (w Word) Hex() string {
	return hexutil.Encode(w[:])
}

// IsZero reports whether every byte of the word is zero.
func (w Word) IsZero() bool {
	return w == Word{}
}

// wordAt copies the word starting at data[pos]. Callers check bounds.
func wordAt(data []byte, pos int) Word {
	var w Word
	copy(w[:], data[pos:pos+WordSize])
	return w
}

// uintWord encodes a length or offset.
func uintWord(n uint64) Word {
	var w Word
	binary.BigEndian.PutUint64(w[24:], n)
	return w
}

// wordUint64 reads a length or offset word. ok is false if the value does not fit in 64 bits.
func wordUint64(w Word) (n uint64, ok bool) {
	for _, b := range w[:24] {
		if b != 0 {
			return 0, false
		}
	}
	return binary.BigEndian.Uint64(w[24:]), true
}

func validBits(bits int) bool {
	return bits >= 8 && bits <= 256 && bits%8 == 0
}

// EncodeUint left-pads v to a word. It fails with ErrOutOfRange if v is
// negative or needs more than bits bits.
func EncodeUint(v *big.Int, bits int) (Word, error) {
	if !validBits(bits) {
		return Word{}, ErrInvalidType
	}
	if v == nil || v.Sign() < 0 || v.BitLen() > bits {
		return Word{}, ErrOutOfRange
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return Word{}, ErrOutOfRange
	}
	return Word(u.Bytes32()), nil
}

// DecodeUint interprets w as an unsigned integer of the given width.
// Any set bit above bits is ErrInvalidEncoding.
func DecodeUint(w Word, bits int) (*big.Int, error) {
	if !validBits(bits) {
		return nil, ErrInvalidType
	}
	var u uint256.Int
	u.SetBytes32(w[:])
	if u.BitLen() > bits {
		return nil, ErrInvalidEncoding
	}
	return u.ToBig(), nil
}

var twoTo256 = new(big.Int).Lsh(big.NewInt(1), 256)

func intBounds(bits int) (min, max *big.Int) {
	max = new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	min = new(big.Int).Neg(max)
	max.Sub(max, big.NewInt(1))
	return min, max
}

// EncodeInt encodes v as a two's complement word. It fails with
// ErrOutOfRange if v is outside [-2^(bits-1), 2^(bits-1)-1].
func EncodeInt(v *big.Int, bits int) (Word, error) {
	if !validBits(bits) {
		return Word{}, ErrInvalidType
	}
	if v == nil {
		return Word{}, ErrOutOfRange
	}
	min, max := intBounds(bits)
	if v.Cmp(min) < 0 || v.Cmp(max) > 0 {
		return Word{}, ErrOutOfRange
	}
	var w Word
	copy(w[:], math.U256Bytes(new(big.Int).Set(v)))
	return w, nil
}

// DecodeInt interprets w as a two's complement integer of the given width.
// The bytes above bits must be a proper sign extension.
func DecodeInt(w Word, bits int) (*big.Int, error) {
	if !validBits(bits) {
		return nil, ErrInvalidType
	}
	var u uint256.Int
	u.SetBytes32(w[:])
	v := u.ToBig()
	if w[0]&0x80 != 0 {
		v.Sub(v, twoTo256)
	}
	min, max := intBounds(bits)
	if v.Cmp(min) < 0 || v.Cmp(max) > 0 {
		return nil, ErrInvalidEncoding
	}
	return v, nil
}

// EncodeAddress places a in the low 20 bytes of a word.
func EncodeAddress(a common.Address) Word {
	var w Word
	copy(w[WordSize-common.AddressLength:], a[:])
	return w
}

// DecodeAddress reads the low 20 bytes of w. The high 12 bytes must be zero.
func DecodeAddress(w Word) (common.Address, error) {
	for _, b := range w[:WordSize-common.AddressLength] {
		if b != 0 {
			return common.Address{}, ErrInvalidEncoding
		}
	}
	return common.BytesToAddress(w[WordSize-common.AddressLength:]), nil
}

// EncodeBool encodes b as 0 or 1.
func EncodeBool(b bool) Word {
	var w Word
	if b {
		w[WordSize-1] = 1
	}
	return w
}

// DecodeBool accepts only the words 0 and 1.
func DecodeBool(w Word) (bool, error) {
	for _, b := range w[:WordSize-1] {
		if b != 0 {
			return false, ErrInvalidBool
		}
	}
	switch w[WordSize-1] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

// EncodeFixedBytes right-pads b, which must be exactly n bytes long, to a word.
func EncodeFixedBytes(b []byte, n int) (Word, error) {
	if n < 1 || n > WordSize {
		return Word{}, ErrInvalidType
	}
	if len(b) != n {
		return Word{}, ErrOutOfRange
	}
	var w Word
	copy(w[:], b)
	return w, nil
}

// DecodeFixedBytes returns the first n bytes of w. The remaining bytes must be zero.
func DecodeFixedBytes(w Word, n int) ([]byte, error) {
	if n < 1 || n > WordSize {
		return nil, ErrInvalidType
	}
	for _, b := range w[n:] {
		if b != 0 {
			return nil, ErrInvalidEncoding
		}
	}
	out := make([]byte, n)
	copy(out, w[:n])
	return out, nil
}

// padLen rounds n up to a multiple of WordSize.
func padLen(n int) int {
	return (n + WordSize - 1) / WordSize * WordSize
}

// rightPad returns b zero-padded to a word boundary.
func rightPad(b []byte) []byte {
	out := make([]byte, padLen(len(b)))
	copy(out, b)
	return out
}
