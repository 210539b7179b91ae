// Package decomp defines the snarl-decomposition contract consumed by
// the distance index (spec.md §6) and a concrete Decomposition type that
// satisfies it.
//
// The decomposition is an arena, not a pointer tree (spec.md §9,
// "Back-references"): snarls and chains live in contiguous slices and
// refer to each other by slot index. NoSnarl/NoChain stand in for the
// nil parent a top-level snarl or chain has.
package decomp

import "github.com/Yufeng98/vg/internal/graph"

// SnarlID is an arena index into Decomposition.Snarls.
type SnarlID int32

// ChainID is an arena index into Decomposition.Chains.
type ChainID int32

// NoSnarl/NoChain mark an absent parent reference.
const (
	NoSnarl SnarlID = -1
	NoChain ChainID = -1
)

// ChildKind discriminates the two shapes a snarl's interior children can
// take: a bare node with no substructure, or a nested chain (itself one
// or more snarls).
type ChildKind uint8

const (
	ChildNode ChildKind = iota
	ChildChain
)

// Child is one direct interior child of a snarl.
type Child struct {
	Kind  ChildKind
	Node  int64   // valid when Kind == ChildNode
	Chain ChainID // valid when Kind == ChildChain
}

// SnarlDef is one snarl: two boundary sides, a parent reference, and its
// direct interior children. Start points into the interior; End points
// out of it (spec.md §3).
type SnarlDef struct {
	Start, End  graph.Side
	Parent      SnarlID
	ParentChain ChainID
	Children    []Child
}

// Unary reports whether the snarl has no distinct interior path: its
// start and end are the same physical node side reversed.
func (s SnarlDef) Unary() bool { return s.Start == s.End.Flip() }

// Trivial reports whether the snarl has no children at all.
func (s SnarlDef) Trivial() bool { return len(s.Children) == 0 }

// ChainDef is a non-empty ordered sequence of snarls sharing boundary
// nodes. A circular chain's first snarl's Start and last snarl's End
// land on the same node id.
type ChainDef struct {
	Snarls   []SnarlID
	Parent   SnarlID
	Circular bool

	// Reversed marks, per snarl in Snarls, whether that snarl reads
	// back-to-front in the chain's orientation (its End comes before its
	// Start in reading order). A nil or short slice means "not
	// reversed" for the missing entries.
	Reversed []bool
}

// IsReversed reports whether the i-th snarl in the chain reads
// back-to-front.
func (c ChainDef) IsReversed(i int) bool {
	if i < len(c.Reversed) {
		return c.Reversed[i]
	}
	return false
}

// Decomposition is the concrete snarl/chain arena. It implements the
// consumed-by-contract surface from spec.md §6: TopLevelSnarls,
// ParentOf, ChainOf, ChainsOf, InNontrivialChain, IntoWhichSnarl, and
// NetGraphView.
type Decomposition struct {
	Graph  graph.Graph
	Snarls []SnarlDef
	Chains []ChainDef

	// TopChains lists the top-level chains in construction order. Every
	// top-level snarl is wrapped in a chain, even a chain of one.
	TopChains []ChainID

	// intoSnarl maps an oriented entry side to the snarl it enters, for
	// IntoWhichSnarl. Populated by the builder that assembles this
	// Decomposition (see decomp/naive).
	intoSnarl map[graph.Side]SnarlID
}

// New returns an empty Decomposition ready to be filled in by a
// decomposition builder (see decomp/naive for a reference one).
func New(g graph.Graph) *Decomposition {
	return &Decomposition{
		Graph:     g,
		intoSnarl: make(map[graph.Side]SnarlID),
	}
}

// AddSnarl appends a snarl and returns its id.
func (d *Decomposition) AddSnarl(s SnarlDef) SnarlID {
	d.Snarls = append(d.Snarls, s)
	return SnarlID(len(d.Snarls) - 1)
}

// AddChain appends a chain and returns its id, wiring each member
// snarl's ParentChain back to it.
func (d *Decomposition) AddChain(c ChainDef) ChainID {
	id := ChainID(len(d.Chains))
	d.Chains = append(d.Chains, c)
	for _, sid := range c.Snarls {
		d.Snarls[sid].ParentChain = id
	}
	return id
}

// SetIntoSnarl records that entering the graph at side maps to snarl.
func (d *Decomposition) SetIntoSnarl(side graph.Side, snarl SnarlID) {
	d.intoSnarl[side] = snarl
}

// Snarl returns the definition for id.
func (d *Decomposition) Snarl(id SnarlID) SnarlDef { return d.Snarls[id] }

// Chain returns the definition for id.
func (d *Decomposition) Chain(id ChainID) ChainDef { return d.Chains[id] }

// TopLevelSnarls returns the snarls of every top-level chain, in chain
// order.
func (d *Decomposition) TopLevelSnarls() []SnarlID {
	var top []SnarlID
	for _, cid := range d.TopChains {
		top = append(top, d.Chains[cid].Snarls...)
	}
	return top
}

// ParentOf returns s's parent snarl, if any.
func (d *Decomposition) ParentOf(s SnarlID) (SnarlID, bool) {
	p := d.Snarls[s].Parent
	return p, p != NoSnarl
}

// ChainOf returns the chain s belongs to, if any.
func (d *Decomposition) ChainOf(s SnarlID) (ChainID, bool) {
	c := d.Snarls[s].ParentChain
	return c, c != NoChain
}

// ChainsOf returns the child chains nested directly inside s.
func (d *Decomposition) ChainsOf(s SnarlID) []ChainID {
	var out []ChainID
	for _, c := range d.Snarls[s].Children {
		if c.Kind == ChildChain {
			out = append(out, c.Chain)
		}
	}
	return out
}

// InNontrivialChain reports whether s's chain has more than one snarl.
func (d *Decomposition) InNontrivialChain(s SnarlID) bool {
	c, ok := d.ChainOf(s)
	return ok && len(d.Chains[c].Snarls) > 1
}

// IntoWhichSnarl returns the snarl entered by crossing node in
// orientation o, or false if the side enters no tracked snarl (e.g. it
// lies outside the decomposed region).
func (d *Decomposition) IntoWhichSnarl(node int64, o graph.Orientation) (SnarlID, bool) {
	s, ok := d.intoSnarl[graph.Side{Node: node, Orientation: o}]
	return s, ok
}

// NetGraphView returns the net graph for s: its own boundary sides plus
// each direct child's pair of boundary sides, connected by the real
// graph's edges wherever they run directly between two of those sides
// (spec.md §3, "Net graph of a snarl").
func (d *Decomposition) NetGraphView(s SnarlID) *NetGraph {
	def := d.Snarls[s]
	ng := &NetGraph{dec: d, snarl: s}

	addUnit := func(kind ChildKind, node int64, chain ChainID, left, right graph.Side) {
		ng.units = append(ng.units, netUnit{kind: kind, node: node, chain: chain, left: left, right: right})
		ng.sideUnit[left] = len(ng.units) - 1
		ng.sideUnit[right] = len(ng.units) - 1
	}
	ng.sideUnit = make(map[graph.Side]int)

	// unit 0 is always the start boundary, and the last unit is always
	// the end boundary (spec.md §4.1: "index 0 = start inward ...
	// last two = end outward/inward"); children sit in between.
	addUnit(ChildNode, def.Start.Node, NoChain, def.Start, def.Start.Flip())

	for _, c := range def.Children {
		switch c.Kind {
		case ChildNode:
			addUnit(ChildNode, c.Node, NoChain, graph.Side{Node: c.Node, Orientation: graph.Forward}, graph.Side{Node: c.Node, Orientation: graph.Reverse})
		case ChildChain:
			chain := d.Chains[c.Chain]
			first := d.Snarls[chain.Snarls[0]]
			last := d.Snarls[chain.Snarls[len(chain.Snarls)-1]]
			addUnit(ChildChain, 0, c.Chain, first.Start, last.End)
		}
	}

	if def.End.Node != def.Start.Node {
		addUnit(ChildNode, def.End.Node, NoChain, def.End.Flip(), def.End)
	} else {
		ng.sideUnit[def.End.Flip()] = 0
		ng.sideUnit[def.End] = 0
		ng.sameBoundary = true
	}

	return ng
}

// StartUnit and EndUnit return the unit indices of the snarl's two
// boundaries within this net graph: 0 and len(units)-1, unless the
// snarl's two boundaries share a node (a self-looping snarl), in which
// case both land on unit 0.
func (ng *NetGraph) StartUnit() int { return 0 }

// EndUnit returns the index of the snarl's end-boundary unit.
func (ng *NetGraph) EndUnit() int {
	if ng.sameBoundary {
		return 0
	}
	return len(ng.units) - 1
}

// NumUnits returns the number of net-graph units (spec.md §4.1's
// num_nodes).
func (ng *NetGraph) NumUnits() int { return len(ng.units) }

// UnitAt returns the unit at index i.
func (ng *NetGraph) UnitAt(i int) (kind ChildKind, node int64, chain ChainID, left, right graph.Side) {
	u := ng.units[i]
	return u.kind, u.node, u.chain, u.left, u.right
}

// netUnit is one node or collapsed-child entry in a NetGraph.
type netUnit struct {
	kind        ChildKind
	node        int64
	chain       ChainID
	left, right graph.Side
}

// NetGraph is a snarl's children-collapsed view (spec.md §3).
type NetGraph struct {
	dec          *Decomposition
	snarl        SnarlID
	units        []netUnit
	sideUnit     map[graph.Side]int
	sameBoundary bool
}

// Sides returns every net-graph node side: two per unit.
func (ng *NetGraph) Sides() []graph.Side {
	sides := make([]graph.Side, 0, 2*len(ng.units))
	for _, u := range ng.units {
		sides = append(sides, u.left, u.right)
	}
	return sides
}

// UnitFor returns the unit a side belongs to and its other side.
func (ng *NetGraph) UnitFor(side graph.Side) (kind ChildKind, node int64, chain ChainID, otherSide graph.Side, ok bool) {
	idx, ok := ng.sideUnit[side]
	if !ok {
		return 0, 0, 0, graph.Side{}, false
	}
	u := ng.units[idx]
	if u.left == side {
		return u.kind, u.node, u.chain, u.right, true
	}
	return u.kind, u.node, u.chain, u.left, true
}

// FollowEdges calls visit for every net-graph side directly reachable
// from side via a real graph edge (i.e. one that doesn't pass through
// another unit's interior).
func (ng *NetGraph) FollowEdges(side graph.Side, visit func(graph.Side) bool) {
	ng.dec.Graph.FollowEdges(side, func(n graph.Side) bool {
		if _, ok := ng.sideUnit[n]; ok {
			return visit(n)
		}
		return true
	})
}
