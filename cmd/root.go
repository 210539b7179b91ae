// Package cmd is for command line interactions with the vg distance
// index.
package cmd

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yufeng98/vg/internal/graph"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "vg",
	Short:   `Build and query a hierarchical distance index over a variation graph.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to
// happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// parsePosition parses a "node,offset,orientation" triple (orientation
// is "+" or "-") as accepted by the distance subcommands.
func parsePosition(s string) (graph.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return graph.Position{}, fmt.Errorf("position %q: want node,offset,orientation", s)
	}
	node, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return graph.Position{}, fmt.Errorf("position %q: bad node id: %w", s, err)
	}
	offset, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return graph.Position{}, fmt.Errorf("position %q: bad offset: %w", s, err)
	}
	o, err := parseOrientation(parts[2])
	if err != nil {
		return graph.Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	return graph.Position{Node: node, Offset: offset, Orientation: o}, nil
}

// parseOrientation parses "+" or "-" as accepted by the distance
// subcommands' --orientation and position flags.
func parseOrientation(s string) (graph.Orientation, error) {
	switch s {
	case "+":
		return graph.Forward, nil
	case "-":
		return graph.Reverse, nil
	default:
		return false, fmt.Errorf("orientation must be + or -, got %q", s)
	}
}
