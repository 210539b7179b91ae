// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"

	"github.com/spf13/viper"
)

// BuilderFlags are those passed to the index build command.
type BuilderFlags struct {
	// path to the graph file to build an index over
	GraphPath string `mapstructure:"graphpath"`

	// path the built index is written to
	IndexPath string `mapstructure:"out"`

	// whether to also build a MaxIndex alongside the min index
	Max bool `mapstructure:"max"`

	// a limit on the net-graph frontier of a single snarl's Dijkstra
	// pass; NewConfig fills in a default, but MinIndexBuilder does not
	// read it
	MaxFrontier int `mapstructure:"max-frontier"`

	// a chain-of-snarl depth threshold for a recursion warning; NewConfig
	// fills in a default, but MinIndexBuilder does not read it and logs
	// no such warning
	WarnDepth int `mapstructure:"warn-depth"`
}

// MaxIndexConfig bounds the upper-bound estimator.
type MaxIndexConfig struct {
	// the distance reported for any query that can't be bounded
	// precisely: different components, or a walk through a cyclic one
	Cap uint64 `mapstructure:"cap"`
}

// QueryConfig settings read by the `index stat` subcommand.
type QueryConfig struct {
	// path to a previously built, serialized index
	IndexPath string `mapstructure:"indexpath"`

	// path to the graph the index was built against
	GraphPath string `mapstructure:"graphpath"`
}

// Config is the root-level settings struct, filled from the Viper keys
// that the command-line flags in cmd/ are bound to.
type Config struct {
	// index-build settings passed thru CLI
	Builder BuilderFlags

	// MaxIndex settings
	MaxIndex MaxIndexConfig

	// query settings read by `index stat`
	Query QueryConfig
}

// NewConfig returns a new Config struct populated by Viper settings,
// which come from the bound command-line flags; no settings file is read.
func NewConfig() Config {
	var c Config

	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode into struct, %v", err)
	}

	if c.MaxIndex.Cap == 0 {
		c.MaxIndex.Cap = 1_000_000
	}
	if c.Builder.MaxFrontier == 0 {
		c.Builder.MaxFrontier = 100_000
	}
	if c.Builder.WarnDepth == 0 {
		c.Builder.WarnDepth = 64
	}

	return c
}
