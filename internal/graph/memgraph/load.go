package memgraph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Yufeng98/vg/internal/graph"
)

// Load reads a minimal GFA-style text graph: one `S <id> <length>` line
// per node and one `L <id1> <orient1> <id2> <orient2>` line per edge,
// tab- or space-separated, `#`-prefixed lines ignored. It is not a full
// GFA reader (no sequence, tags, or path lines) -- just enough shape to
// exercise the CLI end to end without pulling in a real variation-graph
// toolchain.
func Load(r io.Reader) (*Graph, error) {
	g := New()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		switch fields[0] {
		case "S":
			if len(fields) != 3 {
				return nil, fmt.Errorf("memgraph: line %d: want `S id length`, got %q", line, text)
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("memgraph: line %d: bad node id: %w", line, err)
			}
			length, err := strconv.ParseUint(fields[2], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("memgraph: line %d: bad node length: %w", line, err)
			}
			g.AddNode(id, length)
		case "L":
			if len(fields) != 5 {
				return nil, fmt.Errorf("memgraph: line %d: want `L id1 orient1 id2 orient2`, got %q", line, text)
			}
			a, err := parseSide(fields[1], fields[2])
			if err != nil {
				return nil, fmt.Errorf("memgraph: line %d: %w", line, err)
			}
			b, err := parseSide(fields[3], fields[4])
			if err != nil {
				return nil, fmt.Errorf("memgraph: line %d: %w", line, err)
			}
			g.AddEdge(a, b)
		default:
			return nil, fmt.Errorf("memgraph: line %d: unrecognized record type %q", line, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

func parseSide(idField, orientField string) (graph.Side, error) {
	id, err := strconv.ParseInt(idField, 10, 64)
	if err != nil {
		return graph.Side{}, fmt.Errorf("bad node id: %w", err)
	}
	var o graph.Orientation
	switch orientField {
	case "+":
		o = graph.Forward
	case "-":
		o = graph.Reverse
	default:
		return graph.Side{}, fmt.Errorf("orientation must be + or -, got %q", orientField)
	}
	return graph.Side{Node: id, Orientation: o}, nil
}
