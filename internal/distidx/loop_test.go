package distidx

import (
	"testing"

	"github.com/Yufeng98/vg/internal/decomp/naive"
	"github.com/Yufeng98/vg/internal/graph"
	"github.com/Yufeng98/vg/internal/graph/memgraph"
)

func TestLoopIsNoneOnALinearChain(t *testing.T) {
	ids := []int64{1, 2, 3, 4}
	g := linearGraph([]uint64{5, 3, 6, 1}, ids)
	dec := naive.Linear(g, ids)
	idx := NewIndex(dec)
	NewMinIndexBuilder(idx).Build()
	q := NewMinQuery(idx)

	for _, id := range ids {
		got := q.Loop(id)
		if _, ok := got.Get(); ok {
			t.Fatalf("Loop(%d) on an unbranched chain = %v, want None", id, got)
		}
	}
}

func TestLoopFindsASelfLoop(t *testing.T) {
	g := memgraph.New()
	g.AddNode(1, 4) // S
	g.AddNode(2, 2) // M, the branch node
	side := func(n int64, o graph.Orientation) graph.Side { return graph.Side{Node: n, Orientation: o} }
	g.AddEdge(side(1, graph.Forward), side(2, graph.Forward))
	g.AddEdge(side(2, graph.Forward), side(1, graph.Forward))

	dec := naive.Bubble(g, 1, 1, []naive.Branch{{2}})
	idx := NewIndex(dec)
	NewMinIndexBuilder(idx).Build()
	q := NewMinQuery(idx)

	if _, ok := q.Loop(2).Get(); !ok {
		t.Fatalf("Loop(2) on a self-looping branch = None, want a reachable round trip")
	}
}
