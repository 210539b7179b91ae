package distidx

import (
	"testing"

	"github.com/Yufeng98/vg/internal/bitvec"
	"github.com/Yufeng98/vg/internal/decomp/naive"
	"github.com/Yufeng98/vg/internal/graph"
	"github.com/Yufeng98/vg/internal/graph/memgraph"
)

func TestMinQueryLinearChainWorkedExample(t *testing.T) {
	ids := []int64{1, 2, 3, 4}
	g := linearGraph([]uint64{5, 3, 6, 1}, ids)
	dec := naive.Linear(g, ids)
	idx := NewIndex(dec)
	NewMinIndexBuilder(idx).Build()
	q := NewMinQuery(idx)

	p1 := graph.Position{Node: 1, Offset: 0, Orientation: graph.Forward}
	p2 := graph.Position{Node: 4, Offset: 0, Orientation: graph.Forward}
	got, ok := q.Distance(p1, p2).Get()
	if !ok || got != 15 {
		t.Fatalf("Distance(start of node1, start of node4) = %v, want Some(15)", q.Distance(p1, p2))
	}
}

func TestMinQueryWrongOrientationIsUnreachable(t *testing.T) {
	ids := []int64{1, 2, 3, 4}
	g := linearGraph([]uint64{5, 3, 6, 1}, ids)
	dec := naive.Linear(g, ids)
	idx := NewIndex(dec)
	NewMinIndexBuilder(idx).Build()
	q := NewMinQuery(idx)

	p1 := graph.Position{Node: 4, Offset: 0, Orientation: graph.Forward}
	p2 := graph.Position{Node: 1, Offset: 0, Orientation: graph.Forward}
	if got := q.Distance(p1, p2); got != bitvec.None {
		t.Fatalf("Distance(node4, node1) against the grain = %v, want None", got)
	}
}

func TestMinQuerySameNodeIdentity(t *testing.T) {
	ids := []int64{1, 2, 3}
	g := linearGraph([]uint64{10, 5, 10}, ids)
	dec := naive.Linear(g, ids)
	idx := NewIndex(dec)
	NewMinIndexBuilder(idx).Build()
	q := NewMinQuery(idx)

	p1 := graph.Position{Node: 2, Offset: 1, Orientation: graph.Forward}
	p2 := graph.Position{Node: 2, Offset: 3, Orientation: graph.Forward}
	got, ok := q.Distance(p1, p2).Get()
	if !ok || got != 3 {
		t.Fatalf("Distance within node 2 (offset 1 to 3) = %v, want Some(3)", q.Distance(p1, p2))
	}
}

func TestMinQueryBubbleTakesCheaperBranch(t *testing.T) {
	g := memgraph.New()
	for _, n := range []struct {
		id     int64
		length uint64
	}{{1, 2}, {2, 4}, {3, 1}, {4, 3}} {
		g.AddNode(n.id, n.length)
	}
	fwd := func(n int64) graph.Side { return graph.Side{Node: n, Orientation: graph.Forward} }
	rev := func(n int64) graph.Side { return graph.Side{Node: n, Orientation: graph.Reverse} }
	g.AddEdge(fwd(1), fwd(2))
	g.AddEdge(rev(2), rev(4))
	g.AddEdge(fwd(1), fwd(3))
	g.AddEdge(rev(3), rev(4))

	dec := naive.Bubble(g, 1, 4, []naive.Branch{{2}, {3}})
	idx := NewIndex(dec)
	NewMinIndexBuilder(idx).Build()
	q := NewMinQuery(idx)

	p1 := graph.Position{Node: 1, Offset: 0, Orientation: graph.Forward}
	p2 := graph.Position{Node: 4, Offset: 2, Orientation: graph.Forward}
	got, ok := q.Distance(p1, p2).Get()
	if !ok || got != 6 {
		t.Fatalf("Distance through the bubble = %v, want Some(6)", q.Distance(p1, p2))
	}
}

// TestMinQueryReverseStrand re-runs TestMinQueryBubbleTakesCheaperBranch's
// bubble backwards: a walk from p1 to p2 facing forward is the same
// physical walk, read tail to head, as a walk from p2's node/offset to
// p1's node/offset with both orientations flipped (spec.md §8's "same
// bubble, reversed orientation query" scenario).
func TestMinQueryReverseStrand(t *testing.T) {
	g := memgraph.New()
	for _, n := range []struct {
		id     int64
		length uint64
	}{{1, 2}, {2, 4}, {3, 1}, {4, 3}} {
		g.AddNode(n.id, n.length)
	}
	fwd := func(n int64) graph.Side { return graph.Side{Node: n, Orientation: graph.Forward} }
	rev := func(n int64) graph.Side { return graph.Side{Node: n, Orientation: graph.Reverse} }
	g.AddEdge(fwd(1), fwd(2))
	g.AddEdge(rev(2), rev(4))
	g.AddEdge(fwd(1), fwd(3))
	g.AddEdge(rev(3), rev(4))

	dec := naive.Bubble(g, 1, 4, []naive.Branch{{2}, {3}})
	idx := NewIndex(dec)
	NewMinIndexBuilder(idx).Build()
	q := NewMinQuery(idx)

	p1 := graph.Position{Node: 4, Offset: 2, Orientation: graph.Reverse}
	p2 := graph.Position{Node: 1, Offset: 0, Orientation: graph.Reverse}
	got, ok := q.Distance(p1, p2).Get()
	if !ok || got != 6 {
		t.Fatalf("Distance through the bubble, reversed = %v, want Some(6)", q.Distance(p1, p2))
	}
}

// TestMinQuerySimpleCycleShorterArc builds a two-node simple cycle (node
// 1 both entering and exiting the snarl, looping through node 2) and
// checks the min distance around it takes the shorter of the two arcs
// (spec.md §8's "simple cycle" scenario).
func TestMinQuerySimpleCycleShorterArc(t *testing.T) {
	g := memgraph.New()
	g.AddNode(1, 4)
	g.AddNode(2, 2)
	fwd := func(n int64) graph.Side { return graph.Side{Node: n, Orientation: graph.Forward} }
	rev := func(n int64) graph.Side { return graph.Side{Node: n, Orientation: graph.Reverse} }
	g.AddEdge(fwd(1), fwd(2))
	g.AddEdge(rev(1), rev(2))

	dec := naive.Bubble(g, 1, 1, []naive.Branch{{2}})
	idx := NewIndex(dec)
	NewMinIndexBuilder(idx).Build()
	q := NewMinQuery(idx)

	p1 := graph.Position{Node: 1, Offset: 0, Orientation: graph.Forward}
	p2 := graph.Position{Node: 2, Offset: 0, Orientation: graph.Forward}
	got, ok := q.Distance(p1, p2).Get()
	if !ok || got != 5 {
		t.Fatalf("Distance around the cycle = %v, want Some(5)", q.Distance(p1, p2))
	}
}

// TestMinQueryDisconnectedIsUnreachable mirrors
// TestMaxIndexCapsAcrossComponents's graph (a decomposed chain plus two
// raw nodes that were never fed to a decomposition builder) to check the
// min-distance half of spec.md §8's "disconnected" scenario: an
// undecomposed node has no snarl to look up, so the query reports no
// path rather than a wrong number.
func TestMinQueryDisconnectedIsUnreachable(t *testing.T) {
	ids := []int64{1, 2, 3}
	g := linearGraph([]uint64{5, 3, 4}, ids)
	g.AddNode(4, 6)
	g.AddNode(5, 6)
	g.AddEdge(graph.Side{Node: 4, Orientation: graph.Forward}, graph.Side{Node: 5, Orientation: graph.Forward})

	dec := naive.Linear(g, ids)
	idx := NewIndex(dec)
	NewMinIndexBuilder(idx).Build()
	q := NewMinQuery(idx)

	p1 := graph.Position{Node: 1, Offset: 0, Orientation: graph.Forward}
	p2 := graph.Position{Node: 5, Offset: 0, Orientation: graph.Forward}
	if got := q.Distance(p1, p2); got != bitvec.None {
		t.Fatalf("Distance to an undecomposed node = %v, want None", got)
	}
}

func TestMinQueryNestedBubble(t *testing.T) {
	g := memgraph.New()
	for _, n := range []struct {
		id     int64
		length uint64
	}{{1, 1}, {2, 1}, {3, 5}, {4, 2}, {5, 1}} {
		g.AddNode(n.id, n.length)
	}
	fwd := func(n int64) graph.Side { return graph.Side{Node: n, Orientation: graph.Forward} }
	rev := func(n int64) graph.Side { return graph.Side{Node: n, Orientation: graph.Reverse} }
	// outer snarl 1..5, sole interior child is inner bubble 2..4 with
	// branches {3} and {} (direct edge).
	g.AddEdge(fwd(1), fwd(2))
	g.AddEdge(fwd(2), fwd(3))
	g.AddEdge(rev(3), rev(4))
	g.AddEdge(fwd(2), rev(4))
	g.AddEdge(fwd(4), rev(5))

	dec := naive.NestedBubble(g, 1, 5, 2, 4, []naive.Branch{{3}, {}})
	idx := NewIndex(dec)
	NewMinIndexBuilder(idx).Build()
	q := NewMinQuery(idx)

	p1 := graph.Position{Node: 1, Offset: 0, Orientation: graph.Forward}
	p2 := graph.Position{Node: 5, Offset: 0, Orientation: graph.Forward}
	// cheapest inner route is the direct edge 2->4 (cost 0 interior),
	// so total is just the five nodes' own lengths: 1+1+2+1 = 5 (node 3
	// is skipped; its branch costs more).
	got, ok := q.Distance(p1, p2).Get()
	if !ok || got != 5 {
		t.Fatalf("Distance across the nested bubble = %v, want Some(5)", q.Distance(p1, p2))
	}
}
