package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Yufeng98/vg/internal/codec"
	"github.com/Yufeng98/vg/internal/distidx"
	"github.com/Yufeng98/vg/internal/graph"
	"github.com/Yufeng98/vg/internal/graph/memgraph"
)

// distanceCmd groups the distance-query subcommands.
var distanceCmd = &cobra.Command{
	Use:                        "distance",
	Short:                      "Query distances against a built index",
	SuggestionsMinimumDistance: 2,
}

// distanceMinCmd answers an exact shortest-distance query.
var distanceMinCmd = &cobra.Command{
	Use:   "min",
	Short: "Compute the minimum distance between two positions",
	Run:   runDistanceMin,
}

// distanceMaxCmd answers an O(1) upper-bound query.
var distanceMaxCmd = &cobra.Command{
	Use:   "max",
	Short: "Compute an upper bound on the distance between two positions",
	Long: `
Requires an index built with --max; the result is a cap, not an exact
distance, whenever the two positions sit in different or cyclic
components of the graph.`,
	Run: runDistanceMax,
}

// distanceSnarlOfCmd looks up which snarl a node belongs to.
var distanceSnarlOfCmd = &cobra.Command{
	Use:   "snarl-of",
	Short: "Report which snarl a node side belongs to",
	Run:   runDistanceSnarlOf,
}

func init() {
	for _, c := range []*cobra.Command{distanceMinCmd, distanceMaxCmd} {
		c.Flags().StringP("index", "i", "", "path to the built index")
		c.Flags().StringP("graph", "g", "", "path to the graph the index was built against")
		c.Flags().String("from", "", "source position, as node,offset,orientation")
		c.Flags().String("to", "", "destination position, as node,offset,orientation")
	}

	distanceSnarlOfCmd.Flags().StringP("index", "i", "", "path to the built index")
	distanceSnarlOfCmd.Flags().StringP("graph", "g", "", "path to the graph the index was built against")
	distanceSnarlOfCmd.Flags().Int64P("node", "n", 0, "node id")
	distanceSnarlOfCmd.Flags().String("orientation", "+", "node orientation, + or -")

	distanceCmd.AddCommand(distanceMinCmd)
	distanceCmd.AddCommand(distanceMaxCmd)
	distanceCmd.AddCommand(distanceSnarlOfCmd)
	rootCmd.AddCommand(distanceCmd)
}

func loadGraphAndIndex(cmd *cobra.Command) (*memgraph.Graph, *distidx.Index, *distidx.MaxIndex) {
	graphPath, _ := cmd.Flags().GetString("graph")
	indexPath, _ := cmd.Flags().GetString("index")
	if graphPath == "" || indexPath == "" {
		log.Fatalf("--graph and --index are required")
	}

	gf, err := os.Open(graphPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	g, err := memgraph.Load(gf)
	gf.Close()
	if err != nil {
		log.Fatalf("%v", err)
	}

	in, err := os.Open(indexPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer in.Close()
	_, idx, mi, err := codec.Decode(in, g)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return g, idx, mi
}

func positionFlag(cmd *cobra.Command, name string) graph.Position {
	s, err := cmd.Flags().GetString(name)
	if err != nil || s == "" {
		log.Fatalf("--%s is required", name)
	}
	p, err := parsePosition(s)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return p
}

func runDistanceMin(cmd *cobra.Command, args []string) {
	_, idx, _ := loadGraphAndIndex(cmd)

	p1 := positionFlag(cmd, "from")
	p2 := positionFlag(cmd, "to")

	mq := distidx.NewMinQuery(idx)
	if d, ok := mq.Distance(p1, p2).Get(); ok {
		fmt.Println(d)
	} else {
		fmt.Println("unreachable")
	}
}

func runDistanceMax(cmd *cobra.Command, args []string) {
	g, _, mi := loadGraphAndIndex(cmd)
	if mi == nil {
		log.Fatalf("distance max: index was not built with --max")
	}

	p1 := positionFlag(cmd, "from")
	p2 := positionFlag(cmd, "to")

	mq := distidx.NewMaxQuery(g, mi)
	fmt.Println(mq.Distance(p1, p2))
}

func runDistanceSnarlOf(cmd *cobra.Command, args []string) {
	_, idx, _ := loadGraphAndIndex(cmd)

	node, _ := cmd.Flags().GetInt64("node")
	orientStr, _ := cmd.Flags().GetString("orientation")
	o, err := parseOrientation(orientStr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	sid, ok := idx.Locator.SnarlOf(node, o)
	if !ok {
		fmt.Println("no enclosing snarl")
		return
	}
	fmt.Println(int32(sid))
}
