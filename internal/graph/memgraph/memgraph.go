// Package memgraph is a small in-memory implementation of graph.Graph,
// used by the CLI's file-backed loader and by the distance index's own
// tests. It is not the variation graph -- production graphs are loaded
// from GFA/xg elsewhere -- it exists so this module is exercisable end
// to end without an external dependency.
package memgraph

import "github.com/Yufeng98/vg/internal/graph"

// Graph is a dense adjacency-list bidirected sequence graph.
type Graph struct {
	lengths map[int64]uint64
	edges   map[graph.Side][]graph.Side
	minID   int64
	maxID   int64
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		lengths: make(map[int64]uint64),
		edges:   make(map[graph.Side][]graph.Side),
	}
}

// AddNode registers a node and its length in bp.
func (g *Graph) AddNode(id int64, length uint64) {
	if _, ok := g.lengths[id]; !ok {
		if len(g.lengths) == 0 || id < g.minID {
			g.minID = id
		}
		if len(g.lengths) == 0 || id > g.maxID {
			g.maxID = id
		}
	}
	g.lengths[id] = length
}

// AddEdge connects side a to side b. The edge is bidirected: crossing a's
// node in a's orientation reaches b, and crossing b's node in b's
// orientation's opposite reaches a, per the standard side-symmetry rule.
func (g *Graph) AddEdge(a, b graph.Side) {
	g.edges[a] = append(g.edges[a], b)
	flipA, flipB := a.Flip(), b.Flip()
	if flipB != a || flipA != b {
		g.edges[flipB] = append(g.edges[flipB], flipA)
	}
}

// Length implements graph.Graph.
func (g *Graph) Length(node int64) uint64 { return g.lengths[node] }

// FollowEdges implements graph.Graph.
func (g *Graph) FollowEdges(side graph.Side, visit func(graph.Side) bool) {
	for _, n := range g.edges[side] {
		if !visit(n) {
			return
		}
	}
}

// MinNodeID implements graph.Graph.
func (g *Graph) MinNodeID() int64 { return g.minID }

// MaxNodeID implements graph.Graph.
func (g *Graph) MaxNodeID() int64 { return g.maxID }

// NodeIDs returns every registered node id in ascending order.
func (g *Graph) NodeIDs() []int64 {
	ids := make([]int64, 0, len(g.lengths))
	for id := range g.lengths {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
