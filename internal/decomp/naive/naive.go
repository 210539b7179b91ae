// Package naive builds decomp.Decomposition values directly from a
// described topology instead of inferring one from a raw graph. Finding
// snarls in an arbitrary graph is the decomposition producer's job and
// is out of scope for the distance index (spec.md §1); this package
// exists so tests -- and the CLI's --topology escape hatch -- can
// hand the builder known chain/bubble/nested/cycle shapes without
// standing up a whole snarl-finder.
package naive

import "github.com/Yufeng98/vg/internal/decomp"
import "github.com/Yufeng98/vg/internal/graph"

// Linear builds a decomposition for an unbranched path of nodes: one
// top-level snarl spanning ids[0]..ids[len(ids)-1], with every node in
// between a plain interior child. len(ids) must be >= 2.
func Linear(g graph.Graph, ids []int64) *decomp.Decomposition {
	dec := decomp.New(g)
	cid := buildLinearChain(dec, ids)
	dec.TopChains = []decomp.ChainID{cid}
	return dec
}

// Branch describes one path between a bubble's two boundary nodes: the
// ordered interior node ids on that path (may be empty for a direct
// edge, though the naive builder does not need that case).
type Branch []int64

// Bubble builds a decomposition for a single snarl bounded by start and
// end, with one or more parallel interior branches (spec.md §8's "S,
// branch P/Q, T" scenario, and the "simple cycle" scenario when start
// == end and there is exactly one branch).
func Bubble(g graph.Graph, start, end int64, branches []Branch) *decomp.Decomposition {
	dec := decomp.New(g)
	s := buildBubbleSnarl(dec, g, start, end, branches, decomp.NoSnarl, decomp.NoChain)
	cid := dec.AddChain(decomp.ChainDef{Snarls: []decomp.SnarlID{s}, Parent: decomp.NoSnarl, Circular: start == end})
	dec.TopChains = []decomp.ChainID{cid}
	return dec
}

// Chain builds a decomposition for a genuine multi-snarl top-level
// chain (spec.md §3's basic chain shape, "an ordered sequence of
// snarls s_0,...,s_{k-1}"): boundaries[i] and boundaries[i+1] bound the
// i-th snarl, with branches[i] its parallel branches (same shape as
// Bubble's single snarl). Adjacent snarls share the boundary node
// between them, so len(boundaries) must be len(branches)+1, and there
// must be at least two snarls. The chain is circular when its first
// and last boundary land on the same node.
func Chain(g graph.Graph, boundaries []int64, branches [][]Branch) *decomp.Decomposition {
	if len(branches) < 2 || len(boundaries) != len(branches)+1 {
		panic("naive: chain needs at least 2 snarls, one branch set per snarl")
	}
	dec := decomp.New(g)

	sids := make([]decomp.SnarlID, len(branches))
	for i, b := range branches {
		sids[i] = buildBubbleSnarl(dec, g, boundaries[i], boundaries[i+1], b, decomp.NoSnarl, decomp.NoChain)
	}

	cid := dec.AddChain(decomp.ChainDef{
		Snarls:   sids,
		Parent:   decomp.NoSnarl,
		Circular: boundaries[0] == boundaries[len(boundaries)-1],
	})
	dec.TopChains = []decomp.ChainID{cid}
	return dec
}

// NestedBubble builds the "outer snarl containing an inner bubble"
// scenario from spec.md §8: an outer snarl bounded by outerStart/
// outerEnd whose sole interior child is an inner bubble.
func NestedBubble(g graph.Graph, outerStart, outerEnd, innerStart, innerEnd int64, innerBranches []Branch) *decomp.Decomposition {
	dec := decomp.New(g)

	// the inner bubble's Parent can't be known until the outer snarl is
	// itself added (arena ids are assigned in AddSnarl call order, and
	// the inner bubble is built first); build it with NoSnarl and patch
	// it once the outer id exists.
	inner := buildBubbleSnarl(dec, g, innerStart, innerEnd, innerBranches, decomp.NoSnarl, decomp.NoChain)
	innerChain := dec.AddChain(decomp.ChainDef{Snarls: []decomp.SnarlID{inner}})

	outer := decomp.SnarlDef{
		Start:    graph.Side{Node: outerStart, Orientation: graph.Forward},
		End:      graph.Side{Node: outerEnd, Orientation: graph.Forward},
		Parent:   decomp.NoSnarl,
		Children: []decomp.Child{{Kind: decomp.ChildChain, Chain: innerChain}},
	}
	outerID := dec.AddSnarl(outer)
	dec.Snarls[inner].Parent = outerID
	dec.Chains[innerChain].Parent = outerID

	for _, s := range []int64{outerStart, outerEnd} {
		markBoth(dec, s, outerID)
	}

	cid := dec.AddChain(decomp.ChainDef{Snarls: []decomp.SnarlID{outerID}, Parent: decomp.NoSnarl})
	dec.TopChains = []decomp.ChainID{cid}
	return dec
}

func buildLinearChain(dec *decomp.Decomposition, ids []int64) decomp.ChainID {
	if len(ids) < 2 {
		panic("naive: linear chain needs at least 2 nodes")
	}
	s := decomp.SnarlDef{
		Start:  graph.Side{Node: ids[0], Orientation: graph.Forward},
		End:    graph.Side{Node: ids[len(ids)-1], Orientation: graph.Forward},
		Parent: decomp.NoSnarl,
	}
	for _, mid := range ids[1 : len(ids)-1] {
		s.Children = append(s.Children, decomp.Child{Kind: decomp.ChildNode, Node: mid})
	}
	sid := dec.AddSnarl(s)
	for _, id := range ids {
		markBoth(dec, id, sid)
	}
	return dec.AddChain(decomp.ChainDef{Snarls: []decomp.SnarlID{sid}, Parent: decomp.NoSnarl})
}

// buildBubbleSnarl constructs one snarl with parallel branches between
// start and end, wiring nested multi-node branches to their own child
// chain (with parent set to the returned snarl). Single-node branches
// become plain ChildNode entries; multi-node branches become nested
// linear chains.
func buildBubbleSnarl(dec *decomp.Decomposition, g graph.Graph, start, end int64, branches []Branch, parent decomp.SnarlID, parentChain decomp.ChainID) decomp.SnarlID {
	sid := decomp.SnarlID(len(dec.Snarls))
	s := decomp.SnarlDef{
		Start:       graph.Side{Node: start, Orientation: graph.Forward},
		End:         graph.Side{Node: end, Orientation: graph.Forward},
		Parent:      parent,
		ParentChain: parentChain,
	}
	placeholder := dec.AddSnarl(s)
	if placeholder != sid {
		panic("naive: snarl id mismatch")
	}

	for _, b := range branches {
		switch len(b) {
		case 0:
			// direct edge, no child unit; caller must have wired it in the graph.
		case 1:
			dec.Snarls[sid].Children = append(dec.Snarls[sid].Children, decomp.Child{Kind: decomp.ChildNode, Node: b[0]})
			markBoth(dec, b[0], sid)
		default:
			full := append([]int64{start}, b...)
			full = append(full, end)
			cid := buildLinearChainUnder(dec, full, sid)
			dec.Snarls[sid].Children = append(dec.Snarls[sid].Children, decomp.Child{Kind: decomp.ChildChain, Chain: cid})
		}
	}

	markBoth(dec, start, sid)
	markBoth(dec, end, sid)
	return sid
}

// buildLinearChainUnder is buildLinearChain, but the resulting chain's
// only snarl reports parent as the given snarl rather than none.
func buildLinearChainUnder(dec *decomp.Decomposition, ids []int64, parent decomp.SnarlID) decomp.ChainID {
	s := decomp.SnarlDef{
		Start:  graph.Side{Node: ids[0], Orientation: graph.Forward},
		End:    graph.Side{Node: ids[len(ids)-1], Orientation: graph.Forward},
		Parent: parent,
	}
	for _, mid := range ids[1 : len(ids)-1] {
		s.Children = append(s.Children, decomp.Child{Kind: decomp.ChildNode, Node: mid})
	}
	sid := dec.AddSnarl(s)
	for _, id := range ids[1 : len(ids)-1] {
		markBoth(dec, id, sid)
	}
	return dec.AddChain(decomp.ChainDef{Snarls: []decomp.SnarlID{sid}, Parent: parent})
}

func markBoth(dec *decomp.Decomposition, node int64, sid decomp.SnarlID) {
	dec.SetIntoSnarl(graph.Side{Node: node, Orientation: graph.Forward}, sid)
	dec.SetIntoSnarl(graph.Side{Node: node, Orientation: graph.Reverse}, sid)
}
