package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Yufeng98/vg/config"
	"github.com/Yufeng98/vg/internal/codec"
	"github.com/Yufeng98/vg/internal/decomp"
	"github.com/Yufeng98/vg/internal/decomp/naive"
	"github.com/Yufeng98/vg/internal/distidx"
	"github.com/Yufeng98/vg/internal/graph"
	"github.com/Yufeng98/vg/internal/graph/memgraph"
)

// indexCmd groups the index-building subcommands.
var indexCmd = &cobra.Command{
	Use:                        "index",
	Short:                      "Build or inspect a distance index",
	SuggestionsMinimumDistance: 2,
}

// indexBuildCmd builds a distance index over a graph and writes it to disk.
var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a distance index from a graph and its decomposition",
	Long: `
Build reads a graph and a manually described snarl/chain topology (there is
no snarl finder in this tool), runs MinIndexBuilder over it, optionally
builds a MaxIndex alongside, and writes the result to --out.`,
	Run: runIndexBuild,
}

// indexStatCmd reports summary statistics about a previously built index.
var indexStatCmd = &cobra.Command{
	Use:   "stat",
	Short: "Print summary statistics about a built index",
	Run:   runIndexStat,
}

func init() {
	indexBuildCmd.Flags().StringP("graph", "g", "", "path to the graph file (GFA-subset S/L records)")
	indexBuildCmd.Flags().StringP("topology", "t", "", "path to a JSON manual topology description")
	indexBuildCmd.Flags().StringP("out", "o", "", "path to write the built index to")
	indexBuildCmd.Flags().Bool("max", false, "also build a MaxIndex alongside the min index")
	indexBuildCmd.Flags().Uint64("cap", 0, "MaxIndex cap (0 uses the default of 1000000)")
	viper.BindPFlag("builder.graphpath", indexBuildCmd.Flags().Lookup("graph"))
	viper.BindPFlag("builder.out", indexBuildCmd.Flags().Lookup("out"))
	viper.BindPFlag("builder.max", indexBuildCmd.Flags().Lookup("max"))
	viper.BindPFlag("maxindex.cap", indexBuildCmd.Flags().Lookup("cap"))

	indexStatCmd.Flags().StringP("graph", "g", "", "path to the graph file the index was built against")
	indexStatCmd.Flags().StringP("index", "i", "", "path to the built index")
	viper.BindPFlag("query.graphpath", indexStatCmd.Flags().Lookup("graph"))
	viper.BindPFlag("query.indexpath", indexStatCmd.Flags().Lookup("index"))

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexStatCmd)
	rootCmd.AddCommand(indexCmd)
}

// topologyFile is the JSON shape accepted by --topology: one of the three
// shapes the naive decomposition builder knows how to construct.
type topologyFile struct {
	Kind string `json:"kind"`

	// Linear
	IDs []int64 `json:"ids,omitempty"`

	// Bubble
	Start    int64     `json:"start,omitempty"`
	End      int64     `json:"end,omitempty"`
	Branches [][]int64 `json:"branches,omitempty"`

	// NestedBubble
	OuterStart    int64     `json:"outer_start,omitempty"`
	OuterEnd      int64     `json:"outer_end,omitempty"`
	InnerStart    int64     `json:"inner_start,omitempty"`
	InnerEnd      int64     `json:"inner_end,omitempty"`
	InnerBranches [][]int64 `json:"inner_branches,omitempty"`
}

func loadTopology(g graph.Graph, path string) (*decomp.Decomposition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var t topologyFile
	if err := json.NewDecoder(f).Decode(&t); err != nil {
		return nil, fmt.Errorf("topology %s: %w", path, err)
	}

	switch t.Kind {
	case "linear":
		return naive.Linear(g, t.IDs), nil
	case "bubble":
		return naive.Bubble(g, t.Start, t.End, toBranches(t.Branches)), nil
	case "nested-bubble":
		return naive.NestedBubble(g, t.OuterStart, t.OuterEnd, t.InnerStart, t.InnerEnd, toBranches(t.InnerBranches)), nil
	default:
		return nil, fmt.Errorf("topology %s: unrecognized kind %q", path, t.Kind)
	}
}

func toBranches(raw [][]int64) []naive.Branch {
	branches := make([]naive.Branch, len(raw))
	for i, b := range raw {
		branches[i] = naive.Branch(b)
	}
	return branches
}

func runIndexBuild(cmd *cobra.Command, args []string) {
	c := config.NewConfig()

	if c.Builder.GraphPath == "" || c.Builder.IndexPath == "" {
		log.Fatalf("index build: --graph and --out are required")
	}

	f, err := os.Open(c.Builder.GraphPath)
	if err != nil {
		log.Fatalf("index build: %v", err)
	}
	g, err := memgraph.Load(f)
	f.Close()
	if err != nil {
		log.Fatalf("index build: %v", err)
	}

	topologyPath, _ := cmd.Flags().GetString("topology")
	if topologyPath == "" {
		log.Fatalf("index build: --topology is required")
	}
	dec, err := loadTopology(g, topologyPath)
	if err != nil {
		log.Fatalf("index build: %v", err)
	}

	idx := distidx.NewIndex(dec)
	distidx.NewMinIndexBuilder(idx).Build()

	var mi *distidx.MaxIndex
	if c.Builder.Max {
		mq := distidx.NewMinQuery(idx)
		mi = distidx.BuildMaxIndex(g, mq, c.MaxIndex.Cap)
	}

	out, err := os.Create(c.Builder.IndexPath)
	if err != nil {
		log.Fatalf("index build: %v", err)
	}
	defer out.Close()
	if err := codec.Encode(out, dec, idx, mi); err != nil {
		log.Fatalf("index build: %v", err)
	}

	log.Printf("built index over %d snarls, %d chains -> %s", len(dec.Snarls), len(dec.Chains), c.Builder.IndexPath)
}

func runIndexStat(cmd *cobra.Command, args []string) {
	c := config.NewConfig()
	if c.Query.GraphPath == "" || c.Query.IndexPath == "" {
		log.Fatalf("index stat: --graph and --index are required")
	}

	gf, err := os.Open(c.Query.GraphPath)
	if err != nil {
		log.Fatalf("index stat: %v", err)
	}
	g, err := memgraph.Load(gf)
	gf.Close()
	if err != nil {
		log.Fatalf("index stat: %v", err)
	}

	in, err := os.Open(c.Query.IndexPath)
	if err != nil {
		log.Fatalf("index stat: %v", err)
	}
	defer in.Close()
	dec, _, mi, err := codec.Decode(in, g)
	if err != nil {
		log.Fatalf("index stat: %v", err)
	}

	fmt.Printf("snarls:      %d\n", len(dec.Snarls))
	fmt.Printf("chains:      %d\n", len(dec.Chains))
	fmt.Printf("top chains:  %d\n", len(dec.TopChains))
	fmt.Printf("node range:  %d..%d\n", g.MinNodeID(), g.MaxNodeID())
	fmt.Printf("max index:   %v\n", mi != nil)
}
