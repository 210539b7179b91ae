package test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Yufeng98/vg/internal/codec"
	"github.com/Yufeng98/vg/internal/decomp/naive"
	"github.com/Yufeng98/vg/internal/distidx"
	"github.com/Yufeng98/vg/internal/graph"
	"github.com/Yufeng98/vg/internal/graph/memgraph"
)

// wireChain adds the edges connecting a straight run of node ids,
// following the side convention the naive decomposition builder
// assumes: the first id is a snarl-start boundary (its inward side is
// Forward), the last is a snarl-end boundary (its inward side is the
// flip of the literal End value, which naive.go always takes as
// Forward too, so Reverse), and every id between is a plain interior
// node entered on its Forward side and exited on its Reverse side.
func wireChain(g *memgraph.Graph, ids []int64) {
	for i := 0; i < len(ids)-1; i++ {
		src := graph.Reverse
		if i == 0 {
			src = graph.Forward
		}
		dst := graph.Forward
		if i+1 == len(ids)-1 {
			dst = graph.Reverse
		}
		g.AddEdge(graph.Side{Node: ids[i], Orientation: src}, graph.Side{Node: ids[i+1], Orientation: dst})
	}
}

// Test_BuildAndQuery runs a graph through the full pipeline this tool
// ships: build a decomposition, run the min-index builder and the
// max-index estimator, serialize the result, reload it, and check that
// both the exact and upper-bound queries answer consistently off the
// reloaded tables.
func Test_BuildAndQuery(t *testing.T) {
	ids := []int64{1, 2, 3}
	lengths := []uint64{5, 3, 4}
	g := memgraph.New()
	for i, id := range ids {
		g.AddNode(id, lengths[i])
	}
	wireChain(g, ids)

	dec := naive.Linear(g, ids)
	idx := distidx.NewIndex(dec)
	distidx.NewMinIndexBuilder(idx).Build()
	mq := distidx.NewMinQuery(idx)
	mi := distidx.BuildMaxIndex(g, mq, 1000)

	p1 := graph.Position{Node: 1, Offset: 0, Orientation: graph.Forward}
	p2 := graph.Position{Node: 3, Offset: 3, Orientation: graph.Forward}

	got, ok := mq.Distance(p1, p2).Get()
	require.True(t, ok)
	require.EqualValues(t, 12, got)

	maxQ := distidx.NewMaxQuery(g, mi)
	require.EqualValues(t, 12, maxQ.Distance(p1, graph.Position{Node: 3, Offset: 0, Orientation: graph.Forward}))

	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, dec, idx, mi))

	_, reloadedIdx, reloadedMi, err := codec.Decode(&buf, g)
	require.NoError(t, err)

	reloadedMq := distidx.NewMinQuery(reloadedIdx)
	got, ok = reloadedMq.Distance(p1, p2).Get()
	require.True(t, ok)
	require.EqualValues(t, 12, got)

	reloadedMaxQ := distidx.NewMaxQuery(g, reloadedMi)
	require.EqualValues(t, 12, reloadedMaxQ.Distance(p1, graph.Position{Node: 3, Offset: 0, Orientation: graph.Forward}))
}

// Test_UnreachableOrientationHasNoMinDistance checks a query that asks
// to leave p1 facing the wrong way to ever reach p2: the min query must
// report no path rather than a wrong number.
func Test_UnreachableOrientationHasNoMinDistance(t *testing.T) {
	ids := []int64{1, 2, 3}
	lengths := []uint64{5, 3, 4}
	g := memgraph.New()
	for i, id := range ids {
		g.AddNode(id, lengths[i])
	}
	wireChain(g, ids)

	dec := naive.Linear(g, ids)
	idx := distidx.NewIndex(dec)
	distidx.NewMinIndexBuilder(idx).Build()
	mq := distidx.NewMinQuery(idx)

	p1 := graph.Position{Node: 1, Offset: 0, Orientation: graph.Forward}
	p2 := graph.Position{Node: 3, Offset: 0, Orientation: graph.Reverse}

	_, ok := mq.Distance(p1, p2).Get()
	require.False(t, ok)
}
