// Package codec implements the fixed on-disk layout for a built
// distance index (spec.md §6): a Decomposition's snarl/chain structure,
// each SnarlIndex/ChainIndex's packed tables, the node-to-snarl lookup,
// and an optional MaxIndex, all written and read back through a single
// bitio bitstream so every packed vector lands at its minimum bit
// width.
package codec

import (
	"errors"
	"io"

	"github.com/icza/bitio"

	"github.com/Yufeng98/vg/internal/bitvec"
	"github.com/Yufeng98/vg/internal/decomp"
	"github.com/Yufeng98/vg/internal/distidx"
	"github.com/Yufeng98/vg/internal/graph"
)

// Errors returned by Decode on malformed input (spec.md §7). ErrShortRead,
// ErrWidthOverflow, and ErrImpossibleCount are bitvec's own packed-vector
// errors, surfaced here under the same names since every scalar field in
// this layout fails the same way a packed vector does.
var (
	ErrShortRead       = bitvec.ErrShortRead
	ErrWidthOverflow   = bitvec.ErrWidthOverflow
	ErrImpossibleCount = bitvec.ErrImpossibleCount

	// ErrNodeRangeMismatch means the stream's min/max node id don't match
	// the graph Decode was given.
	ErrNodeRangeMismatch = errors.New("codec: node id range does not match graph")
)

// Encode writes dec and idx, plus mi if non-nil, to w. Decode reverses
// the encoding exactly: Decode(Encode(dec, idx, mi)) reproduces
// bitwise-equal tables (spec.md §8 property 5).
func Encode(w io.Writer, dec *decomp.Decomposition, idx *distidx.Index, mi *distidx.MaxIndex) error {
	bw := bitio.NewWriter(w)

	if err := writeSnarls(bw, dec, idx); err != nil {
		return err
	}
	if err := writeChains(bw, dec, idx); err != nil {
		return err
	}
	if err := writeIDs(bw, dec.TopChains); err != nil {
		return err
	}

	minID, maxID := dec.Graph.MinNodeID(), dec.Graph.MaxNodeID()
	if err := bw.WriteBits(uint64(minID), 64); err != nil {
		return err
	}
	if err := bw.WriteBits(uint64(maxID), 64); err != nil {
		return err
	}
	if err := writeNodeToSnarl(bw, dec, minID, maxID); err != nil {
		return err
	}
	if err := writeMaxIndex(bw, mi, minID, maxID); err != nil {
		return err
	}

	return bw.Close()
}

// Decode reads a stream previously written by Encode, rebuilding an
// Index (and a MaxIndex, if one was written) against g.
func Decode(r io.Reader, g graph.Graph) (*decomp.Decomposition, *distidx.Index, *distidx.MaxIndex, error) {
	br := bitio.NewReader(r)
	dec := decomp.New(g)

	snarlTables, err := readSnarls(br, dec)
	if err != nil {
		return nil, nil, nil, err
	}
	chainTables, err := readChains(br, dec)
	if err != nil {
		return nil, nil, nil, err
	}
	top, err := readIDs(br)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, id := range top {
		dec.TopChains = append(dec.TopChains, decomp.ChainID(id))
	}

	minID, err := readU64(br)
	if err != nil {
		return nil, nil, nil, err
	}
	maxID, err := readU64(br)
	if err != nil {
		return nil, nil, nil, err
	}
	if int64(minID) != g.MinNodeID() || int64(maxID) != g.MaxNodeID() {
		return nil, nil, nil, ErrNodeRangeMismatch
	}
	if err := readNodeToSnarl(br, dec, int64(minID), int64(maxID)); err != nil {
		return nil, nil, nil, err
	}

	locator := distidx.BuildNodeLocator(dec)
	idx := distidx.AssembleIndex(dec, locator, snarlTables, chainTables)

	mi, err := readMaxIndex(br, g, int64(minID), int64(maxID))
	if err != nil {
		return nil, nil, nil, err
	}
	return dec, idx, mi, nil
}

func writeU64(w *bitio.Writer, v uint64) error { return w.WriteBits(v, 64) }

func readU64(r *bitio.Reader) (uint64, error) {
	v, err := r.ReadBits(64)
	if err != nil {
		return 0, ErrShortRead
	}
	return v, nil
}

// writeSignedID writes a possibly-negative arena index (NoSnarl/NoChain
// are -1) as a two's-complement u64.
func writeSignedID(w *bitio.Writer, v int64) error { return w.WriteBits(uint64(v), 64) }

func readSignedID(r *bitio.Reader) (int64, error) {
	v, err := r.ReadBits(64)
	if err != nil {
		return 0, ErrShortRead
	}
	return int64(v), nil
}

// writeSide packs a node side as ±node_id: negative means Reverse.
// Node ids in this domain are always positive, so the sign bit is free.
func writeSide(w *bitio.Writer, s graph.Side) error {
	v := s.Node
	if s.Orientation == graph.Reverse {
		v = -v
	}
	return writeSignedID(w, v)
}

func readSide(r *bitio.Reader) (graph.Side, error) {
	v, err := readSignedID(r)
	if err != nil {
		return graph.Side{}, err
	}
	if v < 0 {
		return graph.Side{Node: -v, Orientation: graph.Reverse}, nil
	}
	return graph.Side{Node: v, Orientation: graph.Forward}, nil
}

// writeIDs writes a length-prefixed list of arena ids (chain ids,
// top-level chain ids, ...) as raw u64s -- not bit-packed, since these
// lists are short and rarely uniform enough to benefit.
func writeIDs[T ~int32](w *bitio.Writer, ids []T) error {
	if err := writeU64(w, uint64(len(ids))); err != nil {
		return err
	}
	for _, id := range ids {
		if err := writeSignedID(w, int64(id)); err != nil {
			return err
		}
	}
	return nil
}

func readIDs(r *bitio.Reader) ([]int64, error) {
	n, err := readU64(r)
	if err != nil {
		return nil, err
	}
	if n > maxListLen {
		return nil, ErrImpossibleCount
	}
	ids := make([]int64, n)
	for i := range ids {
		v, err := readSignedID(r)
		if err != nil {
			return nil, err
		}
		ids[i] = v
	}
	return ids, nil
}

// maxListLen bounds every length-prefixed list against a corrupt
// prefix; no real decomposition has anywhere near this many snarls,
// chains, or children of one snarl.
const maxListLen = 1 << 40

func writeSnarls(w *bitio.Writer, dec *decomp.Decomposition, idx *distidx.Index) error {
	if err := writeU64(w, uint64(len(dec.Snarls))); err != nil {
		return err
	}
	for i, s := range dec.Snarls {
		if err := writeSide(w, s.Start); err != nil {
			return err
		}
		if err := writeSide(w, s.End); err != nil {
			return err
		}
		if err := writeSignedID(w, int64(s.Parent)); err != nil {
			return err
		}
		if err := writeChildren(w, s.Children); err != nil {
			return err
		}
		if err := idx.Snarls[i].EncodeTo(w); err != nil {
			return err
		}
	}
	return nil
}

func writeChildren(w *bitio.Writer, children []decomp.Child) error {
	if err := writeU64(w, uint64(len(children))); err != nil {
		return err
	}
	for _, c := range children {
		isChain := c.Kind == decomp.ChildChain
		if err := w.WriteBool(isChain); err != nil {
			return err
		}
		if isChain {
			if err := writeSignedID(w, int64(c.Chain)); err != nil {
				return err
			}
		} else if err := writeSignedID(w, c.Node); err != nil {
			return err
		}
	}
	return nil
}

func readSnarls(r *bitio.Reader, dec *decomp.Decomposition) ([]*distidx.SnarlIndex, error) {
	n, err := readU64(r)
	if err != nil {
		return nil, err
	}
	if n > maxListLen {
		return nil, ErrImpossibleCount
	}

	tables := make([]*distidx.SnarlIndex, n)
	for i := range tables {
		start, err := readSide(r)
		if err != nil {
			return nil, err
		}
		end, err := readSide(r)
		if err != nil {
			return nil, err
		}
		parent, err := readSignedID(r)
		if err != nil {
			return nil, err
		}
		children, err := readChildren(r)
		if err != nil {
			return nil, err
		}
		dec.AddSnarl(decomp.SnarlDef{
			Start:       start,
			End:         end,
			Parent:      decomp.SnarlID(parent),
			ParentChain: decomp.NoChain,
			Children:    children,
		})

		table, err := distidx.DecodeSnarlIndex(r)
		if err != nil {
			return nil, err
		}
		tables[i] = table
	}
	return tables, nil
}

func readChildren(r *bitio.Reader) ([]decomp.Child, error) {
	n, err := readU64(r)
	if err != nil {
		return nil, err
	}
	if n > maxListLen {
		return nil, ErrImpossibleCount
	}
	if n == 0 {
		return nil, nil
	}
	children := make([]decomp.Child, n)
	for i := range children {
		isChain, err := r.ReadBool()
		if err != nil {
			return nil, ErrShortRead
		}
		id, err := readSignedID(r)
		if err != nil {
			return nil, err
		}
		if isChain {
			children[i] = decomp.Child{Kind: decomp.ChildChain, Chain: decomp.ChainID(id)}
		} else {
			children[i] = decomp.Child{Kind: decomp.ChildNode, Node: id}
		}
	}
	return children, nil
}

func writeChains(w *bitio.Writer, dec *decomp.Decomposition, idx *distidx.Index) error {
	if err := writeU64(w, uint64(len(dec.Chains))); err != nil {
		return err
	}
	for i, c := range dec.Chains {
		if err := writeSignedID(w, int64(c.Parent)); err != nil {
			return err
		}
		if err := w.WriteBool(c.Circular); err != nil {
			return err
		}
		if err := writeIDs(w, c.Snarls); err != nil {
			return err
		}
		if err := writeReversed(w, c); err != nil {
			return err
		}
		if err := idx.Chains[i].EncodeTo(w); err != nil {
			return err
		}
	}
	return nil
}

func writeReversed(w *bitio.Writer, c decomp.ChainDef) error {
	if err := writeU64(w, uint64(len(c.Snarls))); err != nil {
		return err
	}
	for i := range c.Snarls {
		if err := w.WriteBool(c.IsReversed(i)); err != nil {
			return err
		}
	}
	return nil
}

func readChains(r *bitio.Reader, dec *decomp.Decomposition) ([]*distidx.ChainIndex, error) {
	n, err := readU64(r)
	if err != nil {
		return nil, err
	}
	if n > maxListLen {
		return nil, ErrImpossibleCount
	}

	tables := make([]*distidx.ChainIndex, n)
	for i := range tables {
		parent, err := readSignedID(r)
		if err != nil {
			return nil, err
		}
		circular, err := r.ReadBool()
		if err != nil {
			return nil, ErrShortRead
		}
		snarlIDs, err := readIDs(r)
		if err != nil {
			return nil, err
		}
		snarls := make([]decomp.SnarlID, len(snarlIDs))
		for j, id := range snarlIDs {
			snarls[j] = decomp.SnarlID(id)
		}
		reversed, err := readReversed(r)
		if err != nil {
			return nil, err
		}

		dec.AddChain(decomp.ChainDef{
			Snarls:   snarls,
			Parent:   decomp.SnarlID(parent),
			Circular: circular,
			Reversed: reversed,
		})

		table, err := distidx.DecodeChainIndex(r)
		if err != nil {
			return nil, err
		}
		tables[i] = table
	}
	return tables, nil
}

func readReversed(r *bitio.Reader) ([]bool, error) {
	n, err := readU64(r)
	if err != nil {
		return nil, err
	}
	if n > maxListLen {
		return nil, ErrImpossibleCount
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]bool, n)
	for i := range out {
		b, err := r.ReadBool()
		if err != nil {
			return nil, ErrShortRead
		}
		out[i] = b
	}
	return out, nil
}

// writeNodeToSnarl packs, for every (node, orientation) pair in range,
// the snarl IntoWhichSnarl maps it to -- Some(id), shifted by one so
// id 0 (a valid SnarlID) doesn't collide with the vector's own None.
func writeNodeToSnarl(w *bitio.Writer, dec *decomp.Decomposition, minID, maxID int64) error {
	vec := bitvec.NewVector(int(maxID-minID+1) * 2)
	i := 0
	for n := minID; n <= maxID; n++ {
		for _, o := range []graph.Orientation{graph.Forward, graph.Reverse} {
			if s, ok := dec.IntoWhichSnarl(n, o); ok {
				vec.Set(i, bitvec.Some(uint64(s)))
			}
			i++
		}
	}
	return vec.EncodeTo(w)
}

func readNodeToSnarl(r *bitio.Reader, dec *decomp.Decomposition, minID, maxID int64) error {
	vec, err := bitvec.DecodeFrom(r)
	if err != nil {
		return err
	}
	want := int(maxID-minID+1) * 2
	if vec.Len() != want {
		return ErrImpossibleCount
	}
	i := 0
	for n := minID; n <= maxID; n++ {
		for _, o := range []graph.Orientation{graph.Forward, graph.Reverse} {
			if v, ok := vec.Get(i).Get(); ok {
				dec.SetIntoSnarl(graph.Side{Node: n, Orientation: o}, decomp.SnarlID(v))
			}
			i++
		}
	}
	return nil
}

// writeMaxIndex writes a presence flag, then -- if mi is non-nil -- its
// cap, cycle count, and the three per-node vectors (component, min
// distance, max distance), each packed over the same node range used
// for node_to_snarl.
func writeMaxIndex(w *bitio.Writer, mi *distidx.MaxIndex, minID, maxID int64) error {
	if err := w.WriteBool(mi != nil); err != nil {
		return err
	}
	if mi == nil {
		return nil
	}

	if err := writeU64(w, mi.Cap); err != nil {
		return err
	}
	if err := writeU64(w, uint64(mi.NumCycles)); err != nil {
		return err
	}

	n := int(maxID-minID+1)
	comp := bitvec.NewVector(n)
	minV := bitvec.NewVector(n)
	maxV := bitvec.NewVector(n)
	for i, node := 0, minID; node <= maxID; i, node = i+1, node+1 {
		comp.Set(i, bitvec.Some(uint64(mi.Component(node))))
		minV.Set(i, mi.MinDist(node))
		maxV.Set(i, mi.MaxDist(node))
	}
	if err := comp.EncodeTo(w); err != nil {
		return err
	}
	if err := minV.EncodeTo(w); err != nil {
		return err
	}
	return maxV.EncodeTo(w)
}

func readMaxIndex(r *bitio.Reader, g graph.Graph, minID, maxID int64) (*distidx.MaxIndex, error) {
	present, err := r.ReadBool()
	if err != nil {
		return nil, ErrShortRead
	}
	if !present {
		return nil, nil
	}

	capacity, err := readU64(r)
	if err != nil {
		return nil, err
	}
	numCycles, err := readU64(r)
	if err != nil {
		return nil, err
	}

	comp, err := bitvec.DecodeFrom(r)
	if err != nil {
		return nil, err
	}
	minV, err := bitvec.DecodeFrom(r)
	if err != nil {
		return nil, err
	}
	maxV, err := bitvec.DecodeFrom(r)
	if err != nil {
		return nil, err
	}

	want := int(maxID-minID+1)
	if comp.Len() != want || minV.Len() != want || maxV.Len() != want {
		return nil, ErrImpossibleCount
	}

	component := make(map[int64]int, want)
	cyclic := make(map[int]bool)
	minDist := make(map[int64]bitvec.Option, want)
	maxDist := make(map[int64]bitvec.Option, want)
	for i, node := 0, minID; node <= maxID; i, node = i+1, node+1 {
		c, ok := comp.Get(i).Get()
		if !ok {
			continue
		}
		component[node] = int(c)
		minDist[node] = minV.Get(i)
		maxDist[node] = maxV.Get(i)
	}
	for i := 1; i <= int(numCycles); i++ {
		cyclic[i] = true
	}

	return distidx.AssembleMaxIndex(g, capacity, int(numCycles), component, cyclic, minDist, maxDist), nil
}
