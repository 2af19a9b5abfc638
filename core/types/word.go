package types

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Word is the VM's universal 256-bit data unit. Arithmetic is modulo 2^256
// unless the operation documents otherwise; Word wraps uint256.Int so that
// overflow behavior is fixed-width and branch-free rather than relying on a
// host-language bignum's unbounded-growth default.
type Word struct {
	v uint256.Int
}

// WordFromUint64 builds a Word from a small unsigned value.
func WordFromUint64(n uint64) Word {
	var w Word
	w.v.SetUint64(n)
	return w
}

// Uint64 returns the low 64 bits of the word.
func (w Word) Uint64() uint64 { return w.v.Uint64() }

// IsZero reports whether the word is zero.
func (w Word) IsZero() bool { return w.v.IsZero() }

// Eq reports whether w == other.
func (w Word) Eq(other Word) bool { return w.v.Eq(&other.v) }

// Cmp compares w to other per the usual Cmp contract.
func (w Word) Cmp(other Word) int { return w.v.Cmp(&other.v) }

// Add returns (a + b) mod 2^256.
func Add(a, b Word) Word {
	var r Word
	r.v.Add(&a.v, &b.v)
	return r
}

// Sub returns (a - b) mod 2^256.
func Sub(a, b Word) Word {
	var r Word
	r.v.Sub(&a.v, &b.v)
	return r
}

// Mul returns (a * b) mod 2^256.
func Mul(a, b Word) Word {
	var r Word
	r.v.Mul(&a.v, &b.v)
	return r
}

// Div returns a / b (unsigned), or 0 if b is zero.
func Div(a, b Word) Word {
	var r Word
	r.v.Div(&a.v, &b.v)
	return r
}

// Mod returns a % b (unsigned), or 0 if b is zero.
func Mod(a, b Word) Word {
	var r Word
	r.v.Mod(&a.v, &b.v)
	return r
}

// SDiv returns the signed division of a by b, re-reduced modulo 2^256. 0 if
// b is zero.
func SDiv(a, b Word) Word {
	var r Word
	r.v.SDiv(&a.v, &b.v)
	return r
}

// SMod returns the signed remainder of a by b, re-reduced modulo 2^256. 0 if
// b is zero.
func SMod(a, b Word) Word {
	var r Word
	r.v.SMod(&a.v, &b.v)
	return r
}

// AddMod returns (a + b) mod m, or 0 if m is zero.
func AddMod(a, b, m Word) Word {
	var r Word
	r.v.AddMod(&a.v, &b.v, &m.v)
	return r
}

// MulMod returns (a * b) mod m, or 0 if m is zero.
func MulMod(a, b, m Word) Word {
	var r Word
	r.v.MulMod(&a.v, &b.v, &m.v)
	return r
}

// Exp returns base**exp mod 2^256.
func Exp(base, exp Word) Word {
	var r Word
	r.v.Exp(&base.v, &exp.v)
	return r
}

// Neg returns the two's-complement negation of w modulo 2^256.
func Neg(w Word) Word {
	var zero, r Word
	r.v.Sub(&zero.v, &w.v)
	return r
}

// Lt reports whether a < b (unsigned).
func Lt(a, b Word) bool { return a.v.Lt(&b.v) }

// Gt reports whether a > b (unsigned).
func Gt(a, b Word) bool { return a.v.Gt(&b.v) }

// Slt reports whether a < b under the signed-256 interpretation.
func Slt(a, b Word) bool { return a.v.Slt(&b.v) }

// Sgt reports whether a > b under the signed-256 interpretation.
func Sgt(a, b Word) bool { return a.v.Sgt(&b.v) }

// And returns the bitwise AND of a and b.
func And(a, b Word) Word {
	var r Word
	r.v.And(&a.v, &b.v)
	return r
}

// Or returns the bitwise OR of a and b.
func Or(a, b Word) Word {
	var r Word
	r.v.Or(&a.v, &b.v)
	return r
}

// Xor returns the bitwise XOR of a and b.
func Xor(a, b Word) Word {
	var r Word
	r.v.Xor(&a.v, &b.v)
	return r
}

// Not returns the bitwise complement of w.
func Not(w Word) Word {
	var r Word
	r.v.Not(&w.v)
	return r
}

// Byte returns byte i (0-indexed from the most significant byte, per
// spec.md's big-endian convention) of x, or 0 if i is outside [0, 31].
func Byte(i, x Word) Word {
	if !i.v.IsUint64() {
		return Word{}
	}
	idx := i.v.Uint64()
	if idx > 31 {
		return Word{}
	}
	buf := x.Bytes32()
	return WordFromUint64(uint64(buf[idx]))
}

// Lsh returns x shifted left by n bits, modulo 2^256.
func Lsh(x Word, n uint) Word {
	var r Word
	r.v.Lsh(&x.v, n)
	return r
}

// Rsh returns x shifted right by n bits (logical, unsigned).
func Rsh(x Word, n uint) Word {
	var r Word
	r.v.Rsh(&x.v, n)
	return r
}

// Bytes32 returns the word as a 32-byte big-endian array.
func (w Word) Bytes32() [32]byte {
	return w.v.Bytes32()
}

// Bytes returns the word as a big-endian byte slice.
func (w Word) Bytes() []byte {
	return w.v.Bytes()
}

// IntToBigEndian returns the minimal-length big-endian encoding of w; the
// zero word encodes as an empty slice.
func IntToBigEndian(w Word) []byte {
	if w.IsZero() {
		return []byte{}
	}
	return w.v.Bytes()
}

// BigEndianToInt decodes a big-endian byte slice (of any length up to 32
// bytes) into a Word.
func BigEndianToInt(b []byte) Word {
	var w Word
	w.v.SetBytes(b)
	return w
}

// Zpad left-zero-pads b to length n, truncating from the left if b is
// already longer than n.
func Zpad(b []byte, n int) []byte {
	if len(b) >= n {
		return b[len(b)-n:]
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}

// EncodeInt is IntToBigEndian; kept as a named entry point mirroring the
// source's encode_int, which rejects values outside [0, 2^256) -- a check
// that is structurally impossible to violate once a value is held in a
// Word, so this can never fail.
func EncodeInt(w Word) []byte {
	return IntToBigEndian(w)
}

// signedBoundary is 2^255, the threshold at or above which a word's signed
// view is negative.
var signedBoundary = func() *uint256.Int {
	b := new(uint256.Int).SetOne()
	return b.Lsh(b, 255)
}()

// twoTo256 is 2^256, used to translate an unsigned word at or above
// signedBoundary into its negative two's-complement value.
var twoTo256 = new(big.Int).Lsh(big.NewInt(1), 256)

// ToSigned returns the signed big.Int view of w: w if w < 2^255, else
// w - 2^256.
func ToSigned(w Word) *big.Int {
	if w.v.Lt(signedBoundary) {
		return w.v.ToBig()
	}
	return new(big.Int).Sub(w.v.ToBig(), twoTo256)
}
