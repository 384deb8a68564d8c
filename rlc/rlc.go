// Package rlc implements the random linear combination encoding that maps
// 256-bit machine words into single BN254 scalar field elements. Two values
// encoded under the same challenge are equal iff their integers are equal,
// except with probability negligible in the choice of challenge.
package rlc

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"
)

// WordBytes is the number of little-endian bytes folded into one encoding.
const WordBytes = 32

// Value is a 256-bit integer together with its encoding under a challenge.
// Values are immutable; compare them with Equal.
type Value struct {
	word uint256.Int
	enc  fr.Element
}

// Encode returns the RLC of the 32 little-endian bytes of v under r.
func Encode(v *uint256.Int, r fr.Element) Value {
	be := v.Bytes32()
	le := make([]byte, WordBytes)
	for i := range be {
		le[i] = be[WordBytes-1-i]
	}
	return Value{word: *v, enc: LinearCombine(le, r)}
}

// EncodeUint64 is Encode for a word that fits in 64 bits.
func EncodeUint64(v uint64, r fr.Element) Value {
	return Encode(uint256.NewInt(v), r)
}

// EncodeBytes interprets b as a big-endian integer of at most 32 bytes and
// encodes it. Hashes and addresses are encoded this way.
func EncodeBytes(b []byte, r fr.Element) Value {
	if len(b) > WordBytes {
		panic(fmt.Sprintf("rlc: %d bytes do not fit in a word", len(b)))
	}
	return Encode(new(uint256.Int).SetBytes(b), r)
}

// LinearCombine evaluates sum(le[i] * r^i) with Horner's rule, folding from
// the most significant byte down.
func LinearCombine(le []byte, r fr.Element) fr.Element {
	var acc, b fr.Element
	for i := len(le) - 1; i >= 0; i-- {
		acc.Mul(&acc, &r)
		b.SetUint64(uint64(le[i]))
		acc.Add(&acc, &b)
	}
	return acc
}

// Field embeds a small integer directly into the field. Counters, stack
// slots and table tags use this embedding rather than an RLC.
func Field(u uint64) fr.Element {
	var e fr.Element
	e.SetUint64(u)
	return e
}

// Bool embeds a flag as 0 or 1.
func Bool(b bool) fr.Element {
	if b {
		return Field(1)
	}
	return Field(0)
}

// RandomChallenge draws a uniformly random challenge.
func RandomChallenge() (fr.Element, error) {
	var r fr.Element
	if _, err := r.SetRandom(); err != nil {
		return fr.Element{}, fmt.Errorf("rlc: sample challenge: %w", err)
	}
	return r, nil
}

// Int returns a copy of the decoded integer.
func (v Value) Int() *uint256.Int {
	w := v.word
	return &w
}

// Field returns the encoded field element.
func (v Value) Field() fr.Element { return v.enc }

// Equal reports whether both values carry the same encoding.
func (v Value) Equal(o Value) bool { return v.enc.Equal(&o.enc) }

// Consistent reports whether the carried encoding is the encoding of the
// carried integer under r. A value built under another challenge, or with a
// forged integer, is not consistent.
func (v Value) Consistent(r fr.Element) bool {
	want := Encode(&v.word, r)
	return want.enc.Equal(&v.enc)
}

// IsZero reports whether the decoded integer is zero.
func (v Value) IsZero() bool { return v.word.IsZero() }

// String formats the decoded integer in hex.
func (v Value) String() string { return v.word.Hex() }
