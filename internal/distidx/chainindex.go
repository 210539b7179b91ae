package distidx

import (
	"github.com/icza/bitio"

	"github.com/Yufeng98/vg/internal/bitvec"
)

// ChainIndex is the per-chain prefix-sum and loop-closure structure
// (spec.md §3, §4.2) that lets MinQuery/MinIndexBuilder answer
// between-snarl distances within a chain in O(1).
//
// prefixSum[i] is the minimum distance from the chain's own entry side
// to the entry side of the i-th snarl's second boundary; loopFd/loopRev
// are the two same-side loop-closure vectors.
type ChainIndex struct {
	n         int // number of snarls in the chain
	prefixSum *bitvec.Vector // size n+1
	loopFd    *bitvec.Vector // size n+1
	loopRev   *bitvec.Vector // size n+1
	circular  bool
}

// NewChainIndex allocates a ChainIndex for a chain of n snarls.
func NewChainIndex(n int, circular bool) *ChainIndex {
	return &ChainIndex{
		n:         n,
		prefixSum: bitvec.NewVector(n + 1),
		loopFd:    bitvec.NewVector(n + 1),
		loopRev:   bitvec.NewVector(n + 1),
		circular:  circular,
	}
}

// Len returns the number of snarls in the chain.
func (ci *ChainIndex) Len() int { return ci.n }

// Circular reports whether the chain wraps around.
func (ci *ChainIndex) Circular() bool { return ci.circular }

// PrefixSum/SetPrefixSum access prefix_sum[i], 0 <= i <= Len().
func (ci *ChainIndex) PrefixSum(i int) bitvec.Option     { return ci.prefixSum.Get(i) }
func (ci *ChainIndex) SetPrefixSum(i int, v bitvec.Option) { ci.prefixSum.Set(i, v) }

// LoopFd/SetLoopFd and LoopRev/SetLoopRev access the two loop vectors.
func (ci *ChainIndex) LoopFd(i int) bitvec.Option      { return ci.loopFd.Get(i) }
func (ci *ChainIndex) SetLoopFd(i int, v bitvec.Option) { ci.loopFd.Set(i, v) }
func (ci *ChainIndex) LoopRev(i int) bitvec.Option      { return ci.loopRev.Get(i) }
func (ci *ChainIndex) SetLoopRev(i int, v bitvec.Option) { ci.loopRev.Set(i, v) }

// ChainLength returns the chain's total through-length.
func (ci *ChainIndex) ChainLength() bitvec.Option {
	return ci.prefixSum.Get(ci.n)
}

// EncodeTo writes the snarl count, circularity flag, and the three
// packed vectors (spec.md §6).
func (ci *ChainIndex) EncodeTo(w *bitio.Writer) error {
	if err := w.WriteBits(uint64(ci.n), 64); err != nil {
		return err
	}
	if err := w.WriteBool(ci.circular); err != nil {
		return err
	}
	if err := ci.prefixSum.EncodeTo(w); err != nil {
		return err
	}
	if err := ci.loopFd.EncodeTo(w); err != nil {
		return err
	}
	return ci.loopRev.EncodeTo(w)
}

// DecodeChainIndex reads a ChainIndex previously written by EncodeTo.
func DecodeChainIndex(r *bitio.Reader) (*ChainIndex, error) {
	n, err := r.ReadBits(64)
	if err != nil {
		return nil, bitvec.ErrShortRead
	}
	circular, err := r.ReadBool()
	if err != nil {
		return nil, bitvec.ErrShortRead
	}
	prefixSum, err := bitvec.DecodeFrom(r)
	if err != nil {
		return nil, err
	}
	loopFd, err := bitvec.DecodeFrom(r)
	if err != nil {
		return nil, err
	}
	loopRev, err := bitvec.DecodeFrom(r)
	if err != nil {
		return nil, err
	}
	return &ChainIndex{n: int(n), circular: circular, prefixSum: prefixSum, loopFd: loopFd, loopRev: loopRev}, nil
}

// ExtendToEnds takes distances (distL, distR) from a position to the two
// sides of the rank-th snarl in the chain and returns distances to the
// chain's own two overall ends, combining the local snarl distance with
// the prefix sums and loop vectors (spec.md §4.2).
//
// distL is the distance to the snarl's reading-order-left side, distR to
// its right; the caller is responsible for resolving reading
// orientation (XOR of the snarl's stored chain-orientation and the
// traversal orientation, per spec.md §4.2) before calling this.
func (ci *ChainIndex) ExtendToEnds(rank int, distL, distR bitvec.Option) (toChainStart, toChainEnd bitvec.Option) {
	before := ci.PrefixSum(rank)   // distance to this snarl's own start boundary
	through := ci.PrefixSum(rank + 1) // distance to this snarl's own end boundary
	after := bitvec.None
	if total, ok := ci.ChainLength().Get(); ok {
		if t, ok := through.Get(); ok {
			after = bitvec.Some(total - t)
		}
	}

	toChainStart = bitvec.Add(before, distL)
	toChainEnd = bitvec.Add(after, distR)

	if ci.circular {
		// going the other way around the ring is also a candidate.
		toChainStart = bitvec.Min(toChainStart, bitvec.Add(after, distR))
		toChainEnd = bitvec.Min(toChainEnd, bitvec.Add(before, distL))
	}

	// a wrap that leaves and re-enters this snarl's own left/right side
	// without crossing the whole chain: captured by the loop vectors.
	toChainStart = bitvec.Min(toChainStart, bitvec.Add(distR, bitvec.Add(ci.LoopRev(rank), before)))
	toChainEnd = bitvec.Min(toChainEnd, bitvec.Add(distL, bitvec.Add(ci.LoopFd(rank), after)))

	return toChainStart, toChainEnd
}

// Distance is the chain-internal shortest walk between two node sides
// lying on snarls a and b within the chain, given each side's own
// distance to its snarl's two boundaries (distA is (left,right) for
// snarl at rank ra, distB for rank rb). It uses prefix_sum for the walk
// leaving the lower-ranked snarl by its end boundary and entering the
// higher-ranked one by its start boundary, plus, on a circular chain, the
// walk the other way round the circle. It does not read the loop vectors
// and does not consider walks that turn around inside the chain.
func (ci *ChainIndex) Distance(ra int, distAL, distAR bitvec.Option, rb int, distBL, distBR bitvec.Option) bitvec.Option {
	if ra == rb {
		// same snarl: always None here; that case is answered from the
		// snarl's own table.
		return bitvec.None
	}
	lo, hi := ra, rb
	loL, loR, hiL, hiR := distAL, distAR, distBL, distBR
	if ra > rb {
		lo, hi = rb, ra
		loL, loR, hiL, hiR = distBL, distBR, distAL, distAR
	}

	// straight through: exit lo to the right (its end boundary), cross
	// the snarls between, enter hi from the left (its start boundary).
	loEnd, hiStart := ci.PrefixSum(lo+1), ci.PrefixSum(hi)
	between := bitvec.None
	if lb, ok := loEnd.Get(); ok {
		if hb, ok := hiStart.Get(); ok && hb >= lb {
			between = bitvec.Some(hb - lb)
		}
	}
	straight := bitvec.Add(loR, bitvec.Add(between, hiL))

	best := straight
	if ci.circular {
		total := ci.ChainLength()
		if t, ok := total.Get(); ok {
			if b, ok := between.Get(); ok {
				wrap := bitvec.Add(loL, bitvec.Add(bitvec.Some(t-b), hiR))
				best = bitvec.Min(best, wrap)
			}
		}
	}
	return best
}
