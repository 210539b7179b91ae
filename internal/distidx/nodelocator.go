package distidx

import (
	"github.com/Yufeng98/vg/internal/decomp"
	"github.com/Yufeng98/vg/internal/graph"
)

// NodeLocator answers "which snarl owns this node" and "where does a
// snarl sit in its chain" in O(1), derived once from a Decomposition
// (spec.md §3, §4.3.b). A node that sits on a chain boundary is shared
// between two neighboring snarls; IntoWhichSnarl already resolves that
// per oriented side, so NodeLocator just caches the chain rank of each
// snarl instead of re-scanning ChainDef.Snarls on every query.
type NodeLocator struct {
	dec  *decomp.Decomposition
	rank map[decomp.SnarlID]int // index within its ParentChain
}

// BuildNodeLocator derives a NodeLocator from dec.
func BuildNodeLocator(dec *decomp.Decomposition) *NodeLocator {
	nl := &NodeLocator{dec: dec, rank: make(map[decomp.SnarlID]int)}
	for cid, c := range dec.Chains {
		for i, sid := range c.Snarls {
			nl.rank[sid] = i
		}
		_ = cid
	}
	return nl
}

// SnarlOf returns the snarl entered by crossing node in orientation o.
func (nl *NodeLocator) SnarlOf(node int64, o graph.Orientation) (decomp.SnarlID, bool) {
	return nl.dec.IntoWhichSnarl(node, o)
}

// ChainRank returns s's chain and its rank (0-based position) within
// that chain's snarl list.
func (nl *NodeLocator) ChainRank(s decomp.SnarlID) (chain decomp.ChainID, rank int, ok bool) {
	c, ok := nl.dec.ChainOf(s)
	if !ok {
		return decomp.NoChain, 0, false
	}
	return c, nl.rank[s], true
}
