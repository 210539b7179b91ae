package distidx

import (
	"github.com/Yufeng98/vg/internal/bitvec"
	"github.com/Yufeng98/vg/internal/graph"
)

// MaxIndex is the upper-bound companion to Index: every node is
// labeled with the id of the connected component it belongs to (cyclic
// components numbered first, then acyclic DAG components), plus, for
// acyclic components, the min and max number of bases on any walk from
// that node to a component sink (spec.md §4.5).
type MaxIndex struct {
	g   graph.Graph
	Cap uint64

	NumCycles int
	component map[int64]int
	cyclic    map[int]bool
	minDist   map[int64]bitvec.Option
	maxDist   map[int64]bitvec.Option
}

// BuildMaxIndex runs the two-pass construction described in spec.md
// §4.5: cyclic-component labeling via the loop primitive, then
// per-component DAG min/max distances to sinks for everything left
// over. cap bounds excursions through bridging cyclic subgraphs.
func BuildMaxIndex(g graph.Graph, mq *MinQuery, cap uint64) *MaxIndex {
	mi := &MaxIndex{
		g:         g,
		Cap:       cap,
		component: make(map[int64]int),
		cyclic:    make(map[int]bool),
		minDist:   make(map[int64]bitvec.Option),
		maxDist:   make(map[int64]bitvec.Option),
	}
	mi.labelCyclicComponents(g, mq)
	mi.labelAcyclicComponents(g)
	return mi
}

// AssembleMaxIndex reconstructs a MaxIndex from already-decoded fields.
// Used by the codec to load a serialized index without rerunning the
// two-pass construction.
func AssembleMaxIndex(g graph.Graph, cap uint64, numCycles int, component map[int64]int, cyclic map[int]bool, minDist, maxDist map[int64]bitvec.Option) *MaxIndex {
	return &MaxIndex{
		g:         g,
		Cap:       cap,
		NumCycles: numCycles,
		component: component,
		cyclic:    cyclic,
		minDist:   minDist,
		maxDist:   maxDist,
	}
}

func (mi *MaxIndex) onCycle(mq *MinQuery, node int64) bool {
	_, ok := mq.Loop(node).Get()
	return ok
}

// labelCyclicComponents groups every node that lies on some cycle into
// components connected by edges whose both endpoints are themselves on
// a cycle.
func (mi *MaxIndex) labelCyclicComponents(g graph.Graph, mq *MinQuery) {
	onCycle := make(map[int64]bool)
	for n := g.MinNodeID(); n <= g.MaxNodeID(); n++ {
		if mi.onCycle(mq, n) {
			onCycle[n] = true
		}
	}

	next := 1
	for n := range onCycle {
		if _, done := mi.component[n]; done {
			continue
		}
		comp := next
		next++
		mi.cyclic[comp] = true
		queue := []int64{n}
		mi.component[n] = comp
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, o := range []graph.Orientation{graph.Forward, graph.Reverse} {
				g.FollowEdges(graph.Side{Node: cur, Orientation: o}, func(s graph.Side) bool {
					if onCycle[s.Node] {
						if _, done := mi.component[s.Node]; !done {
							mi.component[s.Node] = comp
							queue = append(queue, s.Node)
						}
					}
					return true
				})
			}
		}
	}
	mi.NumCycles = next - 1
}

// labelAcyclicComponents groups remaining nodes by reachability
// (ignoring direction) and computes min/max distance to each
// component's sinks.
func (mi *MaxIndex) labelAcyclicComponents(g graph.Graph) {
	next := mi.NumCycles + 1
	for n := g.MinNodeID(); n <= g.MaxNodeID(); n++ {
		if _, done := mi.component[n]; done {
			continue
		}
		comp := next
		next++
		members := mi.collectComponent(g, n, comp)
		mi.computeDAGDistances(g, comp, members)
	}
}

func (mi *MaxIndex) collectComponent(g graph.Graph, start int64, comp int) []int64 {
	var members []int64
	queue := []int64{start}
	mi.component[start] = comp
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		members = append(members, cur)
		for _, o := range []graph.Orientation{graph.Forward, graph.Reverse} {
			g.FollowEdges(graph.Side{Node: cur, Orientation: o}, func(s graph.Side) bool {
				if mi.cyclic[mi.component[s.Node]] {
					return true // a bridging edge, not part of this component
				}
				if _, done := mi.component[s.Node]; !done {
					mi.component[s.Node] = comp
					queue = append(queue, s.Node)
				}
				return true
			})
		}
	}
	return members
}

// computeDAGDistances fills minDist/maxDist for every node in members
// via memoized postorder recursion over forward edges, per spec.md
// §4.5's reverse-BFS-to-sinks description. visiting guards against a
// cyclic-detection miss turning this into infinite recursion.
func (mi *MaxIndex) computeDAGDistances(g graph.Graph, comp int, members []int64) {
	visiting := make(map[int64]bool)

	var visit func(v int64) (bitvec.Option, bitvec.Option)
	visit = func(v int64) (bitvec.Option, bitvec.Option) {
		if d, ok := mi.minDist[v]; ok {
			return d, mi.maxDist[v]
		}
		if visiting[v] {
			// defensive fallback: treat as an immediate sink.
			l := bitvec.Some(g.Length(v))
			return l, l
		}
		visiting[v] = true
		defer func() { visiting[v] = false }()

		length := g.Length(v)
		var mins, maxs []uint64
		hasMin, hasMax := true, true

		g.FollowEdges(graph.Side{Node: v, Orientation: graph.Forward}, func(s graph.Side) bool {
			if mi.component[s.Node] != comp {
				mins = append(mins, 0)
				maxs = append(maxs, mi.Cap)
				return true
			}
			cmin, cmax := visit(s.Node)
			if v, ok := cmin.Get(); ok {
				mins = append(mins, v)
			} else {
				hasMin = false
			}
			if v, ok := cmax.Get(); ok {
				maxs = append(maxs, v)
			} else {
				hasMax = false
			}
			return true
		})

		minOpt, maxOpt := bitvec.Some(length), bitvec.Some(length)
		if len(mins) > 0 && hasMin {
			minOpt = bitvec.Some(length + minOf(mins))
		}
		if len(maxs) > 0 && hasMax {
			maxOpt = bitvec.Some(length + maxOf(maxs))
		}
		mi.minDist[v], mi.maxDist[v] = minOpt, maxOpt
		return minOpt, maxOpt
	}

	for _, v := range members {
		visit(v)
	}
}

func minOf(xs []uint64) uint64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []uint64) uint64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Component returns the component id a node belongs to.
func (mi *MaxIndex) Component(node int64) int { return mi.component[node] }

// IsCyclic reports whether comp is a cyclic component.
func (mi *MaxIndex) IsCyclic(comp int) bool { return mi.cyclic[comp] }

// MinDist and MaxDist return a node's distance to its component's
// sinks, valid only for acyclic components.
func (mi *MaxIndex) MinDist(node int64) bitvec.Option { return mi.minDist[node] }
func (mi *MaxIndex) MaxDist(node int64) bitvec.Option { return mi.maxDist[node] }
