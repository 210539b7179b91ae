package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func buildLinear(t *testing.T) (*memgraph.Graph, *distidx.Index, *distidx.MaxIndex) {
	g := memgraph.New()
	lengths := []uint64{5, 3, 6, 1}
	ids := []int64{1, 2, 3, 4}
	for i, id := range ids {
		g.AddNode(id, lengths[i])
	}
	wireChain(g, ids)

	dec := naive.Linear(g, ids)
	idx := distidx.NewIndex(dec)
	distidx.NewMinIndexBuilder(idx).Build()
	mq := distidx.NewMinQuery(idx)
	mi := distidx.BuildMaxIndex(g, mq, 1000)

	return g, idx, mi
}

func TestRoundTripPreservesTables(t *testing.T) {
	g, idx, mi := buildLinear(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, idx.Dec, idx, mi))

	gotDec, gotIdx, gotMI, err := Decode(&buf, g)
	require.NoError(t, err)

	require.Equal(t, len(idx.Dec.Snarls), len(gotDec.Snarls))
	for i := range idx.Dec.Snarls {
		want, got := idx.Snarls[i], gotIdx.Snarls[i]
		require.Equal(t, want.NumUnits, got.NumUnits)
		l := want.L()
		for a := 0; a < l; a++ {
			for b := a; b < l; b++ {
				assert.Equal(t, want.Distance(a, b), got.Distance(a, b), "snarl %d slot (%d,%d)", i, a, b)
			}
		}
	}

	require.Equal(t, len(idx.Chains), len(gotIdx.Chains))
	for i := range idx.Chains {
		want, got := idx.Chains[i], gotIdx.Chains[i]
		require.Equal(t, want.Len(), got.Len())
		for j := 0; j <= want.Len(); j++ {
			assert.Equal(t, want.PrefixSum(j), got.PrefixSum(j))
			assert.Equal(t, want.LoopFd(j), got.LoopFd(j))
			assert.Equal(t, want.LoopRev(j), got.LoopRev(j))
		}
	}

	for n := g.MinNodeID(); n <= g.MaxNodeID(); n++ {
		assert.Equal(t, mi.Component(n), gotMI.Component(n))
		assert.Equal(t, mi.MinDist(n), gotMI.MinDist(n))
		assert.Equal(t, mi.MaxDist(n), gotMI.MaxDist(n))
	}

	gotQuery := distidx.NewMinQuery(gotIdx)
	origQuery := distidx.NewMinQuery(idx)
	p1 := graph.Position{Node: 1, Offset: 0, Orientation: graph.Forward}
	p2 := graph.Position{Node: 4, Offset: 0, Orientation: graph.Forward}
	assert.Equal(t, origQuery.Distance(p1, p2), gotQuery.Distance(p1, p2))
}

func TestRoundTripWithoutMaxIndex(t *testing.T) {
	g, idx, _ := buildLinear(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, idx.Dec, idx, nil))

	_, _, mi, err := Decode(&buf, g)
	require.NoError(t, err)
	assert.Nil(t, mi)
}

func TestDecodeRejectsTruncatedStream(t *testing.T) {
	g, idx, mi := buildLinear(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, idx.Dec, idx, mi))

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()/2])
	_, _, _, err := Decode(truncated, g)
	assert.Error(t, err)
}

func TestDecodeRejectsNodeRangeMismatch(t *testing.T) {
	_, idx, mi := buildLinear(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, idx.Dec, idx, mi))

	other := memgraph.New()
	other.AddNode(1, 5)
	other.AddNode(2, 3)

	_, _, _, err := Decode(bytes.NewReader(buf.Bytes()), other)
	assert.ErrorIs(t, err, ErrNodeRangeMismatch)
}
