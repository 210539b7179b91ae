// Package distidx is the core distance index: SnarlIndex, ChainIndex,
// NodeLocator, the MinIndexBuilder/MinQuery pair, and the MaxIndex/
// MaxQuery upper-bound estimator (spec.md §2, §4).
package distidx

import (
	"github.com/icza/bitio"

	"github.com/Yufeng98/vg/internal/bitvec"
)

// SnarlIndex is the per-snarl all-pairs distance table over its
// oriented unit slots (spec.md §3, §4.1). Each unit -- a boundary node
// or a collapsed child -- occupies two slots, 2*unit and 2*unit+1,
// standing for its two sides. Unit 0 is always the snarl's start
// boundary and unit NumUnits-1 is always its end boundary.
//
// distances is packed upper-triangular: only pairs (i, j) with i <= j
// are stored; distance(a, b) for a > b is answered via the symmetry
// invariant distance(a,b) = distance(flip(b), flip(a)). A leading block
// of the same vector holds each unit's own traversal length.
type SnarlIndex struct {
	NumUnits int
	table    *bitvec.Vector
}

// NewSnarlIndex allocates a table for a snarl with the given unit count.
func NewSnarlIndex(numUnits int) *SnarlIndex {
	l := 2 * numUnits
	size := l/2 + l*(l+1)/2
	return &SnarlIndex{NumUnits: numUnits, table: bitvec.NewVector(size)}
}

// L returns the number of oriented slots, 2*NumUnits.
func (si *SnarlIndex) L() int { return 2 * si.NumUnits }

// flipSlot returns the other slot belonging to the same unit as slot.
func flipSlot(slot int) int {
	if slot%2 == 0 {
		return slot + 1
	}
	return slot - 1
}

// pairOffset implements the index function from spec.md §4.1: it picks
// the ordered pair with i1 <= i2, flipping to the symmetric pair first
// if the natural order is reversed.
func (si *SnarlIndex) pairOffset(i1, i2 int) int {
	if i1 > i2 {
		i1, i2 = flipSlot(i2), flipSlot(i1)
		if i1 > i2 {
			i1, i2 = i2, i1
		}
	}
	l := si.L()
	return ((l+1)*l)/2 - ((l-i1+1)*(l-i1))/2 + (i2 - i1) + l/2
}

// SetLength stores the traversal length of unit (not slot) u.
func (si *SnarlIndex) SetLength(u int, length bitvec.Option) {
	si.table.Set(u, length)
}

// Length returns the traversal length of unit u.
func (si *SnarlIndex) Length(u int) bitvec.Option {
	return si.table.Get(u)
}

// SetDistance records the distance from the exit of slot i1 to the
// entry of slot i2. Callers should only ever set it with i1 <= i2; it
// is read back symmetrically regardless.
func (si *SnarlIndex) SetDistance(i1, i2 int, d bitvec.Option) {
	si.table.Set(si.pairOffset(i1, i2), d)
}

// Distance returns the minimum distance from the exit of slot a to the
// entry of slot b ("end of unit at a to start of unit at b",
// spec.md §3).
func (si *SnarlIndex) Distance(a, b int) bitvec.Option {
	return si.table.Get(si.pairOffset(a, b))
}

// ThroughDistance is Distance but measured from the *start* of unit a
// (i.e. it also pays for a's own length) -- the "end-to-end through a"
// variant mentioned in spec.md §4.1.
func (si *SnarlIndex) ThroughDistance(a, b int) bitvec.Option {
	return bitvec.Add(si.Length(a/2), si.Distance(a, b))
}

// SnarlLength returns distance(start, end) + length(start) + length(end),
// unreachable if any summand is.
func (si *SnarlIndex) SnarlLength() bitvec.Option {
	start, end := si.StartSlot(), si.EndSlot()
	d := si.Distance(start, end)
	return bitvec.Add(bitvec.Add(si.Length(start/2), d), si.Length(end/2))
}

// StartSlot and EndSlot return the slot a caller should plug into
// Distance as the "a" side when walking out through the snarl's start
// or into it through its end: the outward-facing slot of the start
// boundary (so that "end of node at that slot", per Distance's own
// definition, lands on the inward face) and the inward-facing slot of
// the end boundary (spec.md §4.1's packed layout puts the start
// boundary's inward slot first and the end boundary's inward slot
// last, with the matching outward slot adjacent).
func (si *SnarlIndex) StartSlot() int { return 1 }
func (si *SnarlIndex) EndSlot() int   { return 2*si.NumUnits - 2 }

// EncodeTo writes the unit count and the packed distance table (spec.md
// §6): everything needed to rebuild this SnarlIndex without recomputing
// it.
func (si *SnarlIndex) EncodeTo(w *bitio.Writer) error {
	if err := w.WriteBits(uint64(si.NumUnits), 64); err != nil {
		return err
	}
	return si.table.EncodeTo(w)
}

// DecodeSnarlIndex reads a SnarlIndex previously written by EncodeTo.
func DecodeSnarlIndex(r *bitio.Reader) (*SnarlIndex, error) {
	n, err := r.ReadBits(64)
	if err != nil {
		return nil, bitvec.ErrShortRead
	}
	table, err := bitvec.DecodeFrom(r)
	if err != nil {
		return nil, err
	}
	return &SnarlIndex{NumUnits: int(n), table: table}, nil
}

// DistToEnds computes the distances from a position (given as distances
// distL, distR to unit's two sides) to the snarl's two boundaries. unit
// is a unit index and oriented selects which of unit's two slots the
// position's "forward" direction corresponds to.
//
// Edge cases: if unit is the snarl's start or end unit, the
// corresponding trip collapses to 0 (spec.md §4.1).
func (si *SnarlIndex) DistToEnds(unit int, oriented bool, distL, distR bitvec.Option) (toStart, toEnd bitvec.Option) {
	left, right := 2*unit, 2*unit+1
	if !oriented {
		left, right = right, left
	}

	toStart = bitvec.Min(
		bitvec.Add(distL, si.Distance(flipSlot(left), si.StartSlot())),
		bitvec.Add(distR, si.Distance(flipSlot(right), si.StartSlot())),
	)
	toEnd = bitvec.Min(
		bitvec.Add(distL, si.Distance(left, si.EndSlot())),
		bitvec.Add(distR, si.Distance(right, si.EndSlot())),
	)

	// standing on the boundary unit itself, already facing the slot
	// formulas above measure to: no need to route through the table.
	if unit == 0 {
		if left == si.StartSlot() {
			toStart = bitvec.Min(toStart, distL)
		}
		if right == si.StartSlot() {
			toStart = bitvec.Min(toStart, distR)
		}
	}
	if unit == si.NumUnits-1 {
		if left == si.EndSlot() {
			toEnd = bitvec.Min(toEnd, distL)
		}
		if right == si.EndSlot() {
			toEnd = bitvec.Min(toEnd, distR)
		}
	}
	return toStart, toEnd
}
