package distidx

import (
	"github.com/Yufeng98/vg/internal/bitvec"
	"github.com/Yufeng98/vg/internal/decomp"
	"github.com/Yufeng98/vg/internal/graph"
)

// MinIndexBuilder fills in an Index's SnarlIndex and ChainIndex tables
// bottom-up: every child snarl or chain is fully built before its
// parent is touched, so a parent's Dijkstra can treat each child as a
// single weighted unit (spec.md §4.3, "MinIndexBuilder").
type MinIndexBuilder struct {
	idx *Index
}

// NewMinIndexBuilder returns a builder that will populate idx in place.
func NewMinIndexBuilder(idx *Index) *MinIndexBuilder {
	return &MinIndexBuilder{idx: idx}
}

// Build walks every top-level chain and fills in the whole index.
func (b *MinIndexBuilder) Build() {
	for _, cid := range b.idx.Dec.TopChains {
		b.buildChain(cid)
	}
}

func (b *MinIndexBuilder) buildChain(cid decomp.ChainID) {
	chain := b.idx.Dec.Chain(cid)
	for _, sid := range chain.Snarls {
		b.buildSnarl(sid)
	}
	b.fillChainIndex(cid)
}

func (b *MinIndexBuilder) buildSnarl(sid decomp.SnarlID) {
	def := b.idx.Dec.Snarl(sid)
	for _, c := range def.Children {
		if c.Kind == decomp.ChildChain {
			b.buildChain(c.Chain)
		}
	}
	b.fillSnarlIndex(sid)
}

// fillSnarlIndex runs one Dijkstra per oriented slot over sid's net
// graph to populate its SnarlIndex's lengths and all-pairs table
// (spec.md §4.1, §4.3.a/c: children are already resolved to a single
// weighted unit by the time their parent is processed here).
func (b *MinIndexBuilder) fillSnarlIndex(sid decomp.SnarlID) {
	idx := b.idx
	ng := idx.NetGraph(sid)
	si := idx.Snarls[sid]
	n := ng.NumUnits()

	sideToSlot := buildSideToSlot(ng)

	for u := 0; u < n; u++ {
		kind, node, chain, _, _ := ng.UnitAt(u)
		switch kind {
		case decomp.ChildNode:
			si.SetLength(u, bitvec.Some(idx.Dec.Graph.Length(node)))
		case decomp.ChildChain:
			si.SetLength(u, idx.Chains[chain].ChainLength())
		}
	}

	l := si.L()
	for a := 0; a < l; a++ {
		dist := dijkstraSlots(idx, ng, si, sideToSlot, flipSlot(a), -1)
		for b := a; b < l; b++ {
			si.SetDistance(a, b, dist[b])
		}
	}
}

// buildSideToSlot maps every net-graph side to its unit's slot index,
// the inverse of NetGraph.UnitAt, so Dijkstra can work in slot space.
func buildSideToSlot(ng *decomp.NetGraph) map[graph.Side]int {
	n := ng.NumUnits()
	sideToSlot := make(map[graph.Side]int, 2*n)
	for u := 0; u < n; u++ {
		_, _, _, left, right := ng.UnitAt(u)
		sideToSlot[left] = 2 * u
		sideToSlot[right] = 2*u + 1
	}
	return sideToSlot
}

const infinity = ^uint64(0)

// dijkstraSlots computes, from the given source slot, the shortest
// distance to every other slot in the net graph. Edges are: a
// zero-weight hop along any real graph edge between two net-graph
// sides, a weight-length(unit) hop from a slot to its own unit's other
// slot (paying to walk across that unit), and, when a child chain unit
// has a same-side loop of its own, a weight-(loop_dist+length(unit))
// hop from a slot to its *own* side's neighbors -- entering the child,
// looping inside it, and coming back out where it went in, then
// continuing on from there (spec.md §4.3.d). exclude's own traverse
// edge is left out entirely; exclude is -1 for the normal all-pairs
// build, and MinQuery.Loop passes a real unit to find the shortest
// walk around it instead of through it.
func dijkstraSlots(idx *Index, ng *decomp.NetGraph, si *SnarlIndex, sideToSlot map[graph.Side]int, source, exclude int) []bitvec.Option {
	l := si.L()
	dist := make([]uint64, l)
	visited := make([]bool, l)
	for i := range dist {
		dist[i] = infinity
	}
	dist[source] = 0

	for iter := 0; iter < l; iter++ {
		u, best := -1, infinity
		for i := 0; i < l; i++ {
			if !visited[i] && dist[i] < best {
				u, best = i, dist[i]
			}
		}
		if u == -1 {
			break
		}
		visited[u] = true

		// traverse edge: pay this unit's length to reach the other side,
		// unless this is the unit a self-loop query asked us to route
		// around instead of through.
		if u/2 != exclude {
			if length, ok := si.Length(u / 2).Get(); ok {
				relax(dist, u, flipSlot(u), length)
			}
		}

		// structural edges: zero-cost hops along the real graph.
		kind, _, chain, left, right := ng.UnitAt(u / 2)
		side, farSide := left, right
		if u%2 == 1 {
			side, farSide = right, left
		}
		ng.FollowEdges(side, func(n graph.Side) bool {
			if v, ok := sideToSlot[n]; ok {
				relax(dist, u, v, 0)
			}
			return true
		})

		// same-side loop edge: a collapsed child chain may have its own
		// loop closure on the side we just entered -- dip into it and
		// come back out this same side, then keep going from there. A
		// plain node has no interior to loop through, so only
		// ChildChain units get this edge.
		if u/2 != exclude && kind == decomp.ChildChain {
			ci := idx.Chains[chain]
			loop := ci.LoopRev(0)
			if u%2 == 1 {
				loop = ci.LoopFd(ci.Len() - 1)
			}
			if loopDist, ok := loop.Get(); ok {
				if length, ok := si.Length(u / 2).Get(); ok {
					weight := loopDist + length
					ng.FollowEdges(farSide, func(n graph.Side) bool {
						if v, ok := sideToSlot[n]; ok {
							relax(dist, u, v, weight)
						}
						return true
					})
				}
			}
		}
	}

	out := make([]bitvec.Option, l)
	for i, d := range dist {
		if d == infinity {
			out[i] = bitvec.None
		} else {
			out[i] = bitvec.Some(d)
		}
	}
	return out
}

func relax(dist []uint64, from, to int, weight uint64) {
	if dist[from] == infinity {
		return
	}
	if nd := dist[from] + weight; nd < dist[to] {
		dist[to] = nd
	}
}

// selfLoopDistance is the shortest walk from unit's left slot to its
// own right slot that never uses unit's own traverse edge -- the
// round trip that leaves a node or child on one side and comes back on
// the other without passing through it (spec.md §4.7, "Loop"; also
// used for loop_fd/loop_rev, §4.3.d).
func selfLoopDistance(idx *Index, ng *decomp.NetGraph, si *SnarlIndex, sideToSlot map[graph.Side]int, unit int) bitvec.Option {
	dist := dijkstraSlots(idx, ng, si, sideToSlot, 2*unit, unit)
	return dist[2*unit+1]
}

// fillChainIndex computes prefix_sum, loop_fd and loop_rev for cid from
// its already-built member SnarlIndexes (spec.md §4.2, §4.3.b). The
// naive decomposition builder never reverses a snarl's reading
// direction within a chain, so every snarl is read Start-to-End.
// ChainDef.IsReversed is not read here: every snarl is treated as read
// Start-to-End whatever that flag says.
func (b *MinIndexBuilder) fillChainIndex(cid decomp.ChainID) {
	idx := b.idx
	chain := idx.Dec.Chain(cid)
	ci := idx.Chains[cid]
	n := len(chain.Snarls)
	if n == 0 {
		ci.SetPrefixSum(0, bitvec.Some(0))
		return
	}

	ci.SetPrefixSum(0, bitvec.Some(0))
	for i, sid := range chain.Snarls {
		si := idx.Snarls[sid]
		before := ci.PrefixSum(i)
		// SnarlLength is symmetric start-to-end, so a reversed snarl
		// (ChainDef.IsReversed) costs the same to read back-to-front.
		through := si.SnarlLength()
		ci.SetPrefixSum(i+1, bitvec.Add(before, through))
	}

	// Local same-side loops: the shortest walk that leaves snarl i
	// through one boundary and comes back through the same boundary
	// without cutting through the snarl itself (spec.md §4.3.d,
	// "same-side loop") -- a self-loop distance computed over the
	// snarl's own net graph, same as MinQuery.Loop. localLoopFd[i] sits
	// at snarl i's right/end side, localLoopRev[i] at its left/start
	// side.
	localLoopFd := make([]bitvec.Option, n)
	localLoopRev := make([]bitvec.Option, n)
	snarlLength := make([]bitvec.Option, n)
	for i, sid := range chain.Snarls {
		si := idx.Snarls[sid]
		ng := idx.NetGraph(sid)
		sideToSlot := buildSideToSlot(ng)
		localLoopFd[i] = selfLoopDistance(idx, ng, si, sideToSlot, si.NumUnits-1)
		localLoopRev[i] = selfLoopDistance(idx, ng, si, sideToSlot, 0)
		snarlLength[i] = si.SnarlLength()
	}

	// loop_rev forward pass, loop_fd reverse pass (spec.md §4.3, step
	// 5): each entry is the minimum of the local same-side loop and the
	// neighboring snarl's own loop plus the round trip across it --
	// snarl i's end boundary is the same node as snarl i+1's start
	// boundary, so a loop anchored at one is reachable from the other
	// by crossing the snarl between them twice.
	loopRev := make([]bitvec.Option, n)
	loopRev[0] = localLoopRev[0]
	for i := 1; i < n; i++ {
		roundTrip := bitvec.Add(snarlLength[i-1], snarlLength[i-1])
		viaPrev := bitvec.Add(loopRev[i-1], roundTrip)
		loopRev[i] = bitvec.Min(localLoopRev[i], viaPrev)
	}

	loopFd := make([]bitvec.Option, n)
	loopFd[n-1] = localLoopFd[n-1]
	for i := n - 2; i >= 0; i-- {
		roundTrip := bitvec.Add(snarlLength[i+1], snarlLength[i+1])
		viaNext := bitvec.Add(loopFd[i+1], roundTrip)
		loopFd[i] = bitvec.Min(localLoopFd[i], viaNext)
	}

	for i := 0; i < n; i++ {
		ci.SetLoopFd(i, loopFd[i])
		ci.SetLoopRev(i, loopRev[i])
	}
}
