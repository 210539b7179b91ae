package distidx

import "github.com/Yufeng98/vg/internal/graph"

// MaxQuery answers upper-bound distance queries in O(1) from a
// MaxIndex (spec.md §4.6).
type MaxQuery struct {
	g  graph.Graph
	mi *MaxIndex
}

// NewMaxQuery wraps an already-built MaxIndex for querying.
func NewMaxQuery(g graph.Graph, mi *MaxIndex) *MaxQuery {
	return &MaxQuery{g: g, mi: mi}
}

// Distance returns an upper bound on the distance from p1 to p2. It is
// always defined: positions in different or cyclic components fall
// back to the index's cap.
func (q *MaxQuery) Distance(p1, p2 graph.Position) uint64 {
	c1, c2 := q.mi.Component(p1.Node), q.mi.Component(p2.Node)
	if c1 != c2 || q.mi.IsCyclic(c1) {
		return q.mi.Cap
	}

	len1 := sidewaysLen(q.g, p1)
	len2 := sidewaysLen(q.g, p2)

	max1, okMax1 := q.mi.MaxDist(p1.Node).Get()
	max2, okMax2 := q.mi.MaxDist(p2.Node).Get()
	min1, okMin1 := q.mi.MinDist(p1.Node).Get()
	min2, okMin2 := q.mi.MinDist(p2.Node).Get()
	if !okMax1 || !okMax2 || !okMin1 || !okMin2 {
		return q.mi.Cap
	}

	return len1 + len2 + max(clampSub(max1, min2), clampSub(max2, min1))
}

func sidewaysLen(g graph.Graph, p graph.Position) uint64 {
	length := g.Length(p.Node)
	rest := length - p.Offset
	if p.Offset > rest {
		return p.Offset + 1
	}
	return rest + 1
}

func clampSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}
