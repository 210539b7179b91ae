package distidx

import (
	"github.com/Yufeng98/vg/internal/bitvec"
	"github.com/Yufeng98/vg/internal/decomp"
	"github.com/Yufeng98/vg/internal/graph"
)

// Loop computes the shortest walk that leaves node on one side and
// returns on the other without using node itself (spec.md §4.7): it
// climbs node's unit up to the highest snarl that contains it (reusing
// the same DistToEnds/ExtendToEnds machinery MinQuery.ascend uses), then
// runs a Dijkstra over that snarl's net graph with the unit's own
// traverse edge left out, so the trivial "just cross the unit" route
// can't masquerade as a loop.
func (q *MinQuery) Loop(node int64) bitvec.Option {
	dec := q.idx.Dec
	s, ok := dec.IntoWhichSnarl(node, graph.Forward)
	if !ok {
		return bitvec.None
	}

	ng := q.idx.NetGraph(s)
	unit := -1
	for i := 0; i < ng.NumUnits(); i++ {
		kind, n, _, _, _ := ng.UnitAt(i)
		if kind == decomp.ChildNode && n == node {
			unit = i
			break
		}
	}
	if unit == -1 {
		return bitvec.None
	}

	topmost := func(cur decomp.SnarlID) bool {
		chain, ok := dec.ChainOf(cur)
		return !ok || dec.Chain(chain).Parent == decomp.NoSnarl
	}
	root, distL, distR, at := q.climb(s, unit, bitvec.Some(0), bitvec.Some(0), topmost)

	si := q.idx.Snarls[at]
	ngAt := q.idx.NetGraph(at)
	sideToSlot := buildSideToSlot(ngAt)
	return bitvec.Add(distL, bitvec.Add(selfLoopDistance(q.idx, ngAt, si, sideToSlot, root), distR))
}
