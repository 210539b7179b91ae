// Package bitvec implements the sentinel-encoded, bit-width-compressed
// integer vectors used throughout the distance index (snarl.md §3, §6,
// §9): every stored count is real-value+1 so that 0 can mean
// "unreachable" without a separate presence flag.
//
// In memory a Vector is just a slice of Option values -- cheap random
// access, no bit-twiddling on the hot query path. The bit-compression
// only happens at the serialization boundary, via EncodeTo/DecodeFrom,
// which pack every element of a vector at the minimum width that fits
// its largest stored value.
package bitvec

import (
	"errors"

	"github.com/icza/bitio"
)

// Option is a sentinel-encoded optional, non-negative 64-bit value.
// The zero value, None, means "unreachable" / "absent".
type Option uint64

// None is the unreachable/absent sentinel.
const None Option = 0

// Some wraps a real value for storage. v must fit in 63 bits.
func Some(v uint64) Option { return Option(v + 1) }

// Get unwraps o, reporting whether it held a real value.
func (o Option) Get() (uint64, bool) {
	if o == None {
		return 0, false
	}
	return uint64(o) - 1, true
}

// MustGet unwraps o, panicking if it is None. Used where the caller has
// already established reachability is not in question.
func (o Option) MustGet() uint64 {
	v, ok := o.Get()
	if !ok {
		panic("bitvec: Get on an unreachable Option")
	}
	return v
}

// Min returns whichever of a, b is smaller, treating None as +infinity
// (identity for the min operator -- see spec.md §4.4 tie-break policy).
func Min(a, b Option) Option {
	av, aok := a.Get()
	bv, bok := b.Get()
	switch {
	case !aok:
		return b
	case !bok:
		return a
	case av <= bv:
		return a
	default:
		return b
	}
}

// Add sums two Options, propagating None (unreachable + anything is
// unreachable).
func Add(a, b Option) Option {
	av, aok := a.Get()
	bv, bok := b.Get()
	if !aok || !bok {
		return None
	}
	return Some(av + bv)
}

// Vector is an in-memory sequence of Option-valued integers.
type Vector struct {
	Values []Option
}

// NewVector returns a vector of n unreachable entries.
func NewVector(n int) *Vector {
	return &Vector{Values: make([]Option, n)}
}

// Len returns the number of elements.
func (v *Vector) Len() int { return len(v.Values) }

// Get returns the element at i.
func (v *Vector) Get(i int) Option { return v.Values[i] }

// Set stores o at i.
func (v *Vector) Set(i int, o Option) { v.Values[i] = o }

// maxStoredCount bounds DecodeFrom against corrupt length prefixes; no
// real index needs a vector anywhere near this size.
const maxStoredCount = 1 << 40

// Errors returned by DecodeFrom on malformed input (spec.md §7).
var (
	ErrShortRead       = errors.New("bitvec: short read decoding vector")
	ErrWidthOverflow   = errors.New("bitvec: bit width out of range")
	ErrImpossibleCount = errors.New("bitvec: impossible element count")
)

// bitWidth returns the minimum bit width, 1..64, that fits every stored
// (already +1-shifted) value in v.
func (v *Vector) bitWidth() uint8 {
	var max uint64
	for _, o := range v.Values {
		if uint64(o) > max {
			max = uint64(o)
		}
	}
	var w uint8 = 1
	for w < 64 && (uint64(1)<<w)-1 < max {
		w++
	}
	return w
}

// EncodeTo writes the vector's length, bit width, and packed elements.
func (v *Vector) EncodeTo(w *bitio.Writer) error {
	width := v.bitWidth()
	if err := w.WriteBits(uint64(len(v.Values)), 64); err != nil {
		return err
	}
	if err := w.WriteByte(byte(width)); err != nil {
		return err
	}
	for _, o := range v.Values {
		if err := w.WriteBits(uint64(o), width); err != nil {
			return err
		}
	}
	return nil
}

// DecodeFrom reads a vector previously written by EncodeTo.
func DecodeFrom(r *bitio.Reader) (*Vector, error) {
	n, err := r.ReadBits(64)
	if err != nil {
		return nil, ErrShortRead
	}
	if n > maxStoredCount {
		return nil, ErrImpossibleCount
	}
	widthByte, err := r.ReadByte()
	if err != nil {
		return nil, ErrShortRead
	}
	width := widthByte
	if width == 0 || width > 64 {
		return nil, ErrWidthOverflow
	}

	vec := NewVector(int(n))
	for i := range vec.Values {
		val, err := r.ReadBits(width)
		if err != nil {
			return nil, ErrShortRead
		}
		vec.Values[i] = Option(val)
	}
	return vec, nil
}
