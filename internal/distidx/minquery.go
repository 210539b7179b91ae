package distidx

import (
	"github.com/Yufeng98/vg/internal/bitvec"
	"github.com/Yufeng98/vg/internal/decomp"
	"github.com/Yufeng98/vg/internal/graph"
)

// MinQuery answers shortest-distance queries against an already-built
// Index (spec.md §4.4). It finds the lowest snarl containing both
// positions, climbs each position up to that snarl's level through its
// ancestor chain/snarl pairs, and combines the two results with one
// lookup in the LCA's own SnarlIndex.
type MinQuery struct {
	idx *Index
}

// NewMinQuery wraps an already-built Index for querying.
func NewMinQuery(idx *Index) *MinQuery {
	return &MinQuery{idx: idx}
}

// Distance returns the minimum distance from p1 to p2, oriented (a
// walk must leave p1 in its stated orientation and arrive at p2 facing
// its stated orientation), or None if no such walk exists.
func (q *MinQuery) Distance(p1, p2 graph.Position) bitvec.Option {
	best := bitvec.None
	if p1.Node == p2.Node && p1.Orientation == p2.Orientation && p2.Offset >= p1.Offset {
		best = bitvec.Some(p2.Offset - p1.Offset + 1)
	}
	return bitvec.Min(best, q.generalDistance(p1, p2))
}

func (q *MinQuery) generalDistance(p1, p2 graph.Position) bitvec.Option {
	dec := q.idx.Dec
	s1, ok1 := dec.IntoWhichSnarl(p1.Node, p1.Orientation)
	s2, ok2 := dec.IntoWhichSnarl(p2.Node, p2.Orientation)
	if !ok1 || !ok2 {
		return bitvec.None
	}
	lca, ok := findLCA(dec, s1, s2)
	if !ok {
		return bitvec.None
	}
	u1, l1, r1 := q.ascend(p1, lca)
	u2, l2, r2 := q.ascend(p2, lca)
	return combineAtLCA(q.idx.Snarls[lca], u1, l1, r1, u2, l2, r2)
}

// ancestorSnarls lists s and every snarl enclosing it, root last.
func ancestorSnarls(dec *decomp.Decomposition, s decomp.SnarlID) []decomp.SnarlID {
	var out []decomp.SnarlID
	cur := s
	for {
		out = append(out, cur)
		chain, ok := dec.ChainOf(cur)
		if !ok {
			return out
		}
		parent := dec.Chain(chain).Parent
		if parent == decomp.NoSnarl {
			return out
		}
		cur = parent
	}
}

// findLCA returns the lowest snarl that encloses both s1 and s2.
func findLCA(dec *decomp.Decomposition, s1, s2 decomp.SnarlID) (decomp.SnarlID, bool) {
	a1 := ancestorSnarls(dec, s1)
	seen := make(map[decomp.SnarlID]bool, len(a1))
	for _, s := range a1 {
		seen[s] = true
	}
	for _, s := range ancestorSnarls(dec, s2) {
		if seen[s] {
			return s, true
		}
	}
	return decomp.NoSnarl, false
}

// ascend computes, for pos, the unit index it occupies within lca's net
// graph and the distances from pos to that unit's two sides -- climbing
// through pos's own enclosing snarl, up its chain, through any further
// ancestor snarls and chains, until it reaches a unit that sits
// directly inside lca (spec.md §4.4, steps 3 and 6).
func (q *MinQuery) ascend(pos graph.Position, lca decomp.SnarlID) (unit int, distL, distR bitvec.Option) {
	dec := q.idx.Dec
	s, ok := dec.IntoWhichSnarl(pos.Node, pos.Orientation)
	if !ok {
		return 0, bitvec.None, bitvec.None
	}
	unit, distL, distR = q.nodeLevelUnit(s, pos)
	u, dl, dr, _ := q.climb(s, unit, distL, distR, func(cur decomp.SnarlID) bool { return cur == lca })
	return u, dl, dr
}

// climb repeats DistToEnds/ExtendToEnds up the ancestor chain starting
// at (s, unit, distL, distR) until stop(s) holds or the root is
// reached, and returns the unit, its two distances and the snarl it
// stopped at.
func (q *MinQuery) climb(s decomp.SnarlID, unit int, distL, distR bitvec.Option, stop func(decomp.SnarlID) bool) (int, bitvec.Option, bitvec.Option, decomp.SnarlID) {
	dec := q.idx.Dec
	for !stop(s) {
		si := q.idx.Snarls[s]
		distL, distR = si.DistToEnds(unit, true, distL, distR)

		chain, ok := dec.ChainOf(s)
		if !ok {
			return unit, bitvec.None, bitvec.None, s
		}
		_, rank, _ := q.idx.Locator.ChainRank(s)
		distL, distR = q.idx.Chains[chain].ExtendToEnds(rank, distL, distR)

		parent := dec.Chain(chain).Parent
		if parent == decomp.NoSnarl {
			return unit, distL, distR, s
		}
		u, ok := q.idx.unitForChain(parent, chain)
		if !ok {
			return unit, bitvec.None, bitvec.None, s
		}
		unit, s = u, parent
	}
	return unit, distL, distR, s
}

// nodeLevelUnit finds which unit of s's net graph a position's node is,
// and its distances to that unit's two physical sides.
func (q *MinQuery) nodeLevelUnit(s decomp.SnarlID, pos graph.Position) (unit int, distL, distR bitvec.Option) {
	ng := q.idx.NetGraph(s)
	for i := 0; i < ng.NumUnits(); i++ {
		kind, node, _, left, right := ng.UnitAt(i)
		if kind == decomp.ChildNode && node == pos.Node {
			return i, q.distToSide(pos, left), q.distToSide(pos, right)
		}
	}
	return 0, bitvec.None, bitvec.None
}

// distToSide returns the number of bases from pos to side, if side is
// one of pos's node's two sides.
func (q *MinQuery) distToSide(pos graph.Position, side graph.Side) bitvec.Option {
	switch side {
	case pos.Side():
		length := q.idx.Dec.Graph.Length(pos.Node)
		return bitvec.Some(length - pos.Offset)
	case pos.Side().Flip():
		return bitvec.Some(pos.Offset + 1)
	default:
		return bitvec.None
	}
}

// combineAtLCA joins two positions, each expressed as distances to the
// two sides of a unit within the same snarl's net graph, via that
// snarl's own SnarlIndex (spec.md §4.4 step 5).
func combineAtLCA(si *SnarlIndex, u1 int, l1, r1 bitvec.Option, u2 int, l2, r2 bitvec.Option) bitvec.Option {
	slots1 := [2]int{2 * u1, 2*u1 + 1}
	dist1 := [2]bitvec.Option{l1, r1}
	slots2 := [2]int{2 * u2, 2*u2 + 1}
	dist2 := [2]bitvec.Option{l2, r2}

	best := bitvec.None
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			cand := bitvec.Add(dist1[i], bitvec.Add(si.Distance(flipSlot(slots1[i]), slots2[j]), dist2[j]))
			best = bitvec.Min(best, cand)
		}
	}
	return best
}
