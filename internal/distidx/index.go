package distidx

import (
	"github.com/Yufeng98/vg/internal/decomp"
	"github.com/Yufeng98/vg/internal/graph"
)

// Index bundles everything MinQuery needs: one SnarlIndex per snarl, one
// ChainIndex per chain, the NodeLocator, and the net-graph each
// SnarlIndex's units were numbered against (spec.md §3, §4).
//
// Index only holds the *shape* -- allocated tables, no distances filled
// in yet. MinIndexBuilder.Build populates the tables bottom-up.
type Index struct {
	Dec     *decomp.Decomposition
	Locator *NodeLocator
	Snarls  []*SnarlIndex
	Chains  []*ChainIndex
	nets    []*decomp.NetGraph
}

// NewIndex allocates an Index shaped to dec: every snarl gets a
// SnarlIndex sized to its net graph's unit count, every chain a
// ChainIndex sized to its snarl count.
func NewIndex(dec *decomp.Decomposition) *Index {
	idx := &Index{
		Dec:     dec,
		Locator: BuildNodeLocator(dec),
		Snarls:  make([]*SnarlIndex, len(dec.Snarls)),
		Chains:  make([]*ChainIndex, len(dec.Chains)),
		nets:    make([]*decomp.NetGraph, len(dec.Snarls)),
	}
	for i := range dec.Snarls {
		ng := dec.NetGraphView(decomp.SnarlID(i))
		idx.nets[i] = ng
		idx.Snarls[i] = NewSnarlIndex(ng.NumUnits())
	}
	for i, c := range dec.Chains {
		idx.Chains[i] = NewChainIndex(len(c.Snarls), c.Circular)
	}
	return idx
}

// AssembleIndex reconstructs an Index from already-decoded pieces,
// recomputing only the net graphs (cheap, and not worth serializing
// since they're a pure function of dec). Used by the codec to load a
// serialized index without rerunning MinIndexBuilder.
func AssembleIndex(dec *decomp.Decomposition, locator *NodeLocator, snarls []*SnarlIndex, chains []*ChainIndex) *Index {
	idx := &Index{
		Dec:     dec,
		Locator: locator,
		Snarls:  snarls,
		Chains:  chains,
		nets:    make([]*decomp.NetGraph, len(dec.Snarls)),
	}
	for i := range dec.Snarls {
		idx.nets[i] = dec.NetGraphView(decomp.SnarlID(i))
	}
	return idx
}

// NetGraph returns the cached net graph s was numbered against.
func (idx *Index) NetGraph(s decomp.SnarlID) *decomp.NetGraph {
	return idx.nets[s]
}

// unitFor locates the unit index and oriented-slot sense of a node side
// within its enclosing snarl's net graph.
func (idx *Index) unitFor(s decomp.SnarlID, side graph.Side) (unit int, oriented bool, ok bool) {
	ng := idx.nets[s]
	_, _, _, _, ok = ng.UnitFor(side)
	if !ok {
		return 0, false, false
	}
	for i := 0; i < ng.NumUnits(); i++ {
		_, _, _, left, right := ng.UnitAt(i)
		if left == side {
			return i, true, true
		}
		if right == side {
			return i, false, true
		}
	}
	return 0, false, false
}

// unitForChain finds the unit index a child chain occupies within
// parent's net graph.
func (idx *Index) unitForChain(parent decomp.SnarlID, chain decomp.ChainID) (unit int, ok bool) {
	ng := idx.nets[parent]
	for i := 0; i < ng.NumUnits(); i++ {
		kind, _, ch, _, _ := ng.UnitAt(i)
		if kind == decomp.ChildChain && ch == chain {
			return i, true
		}
	}
	return 0, false
}
