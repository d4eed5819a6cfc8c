// Package config defines round parameters, named presets, and YAML loading
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Round holds all parameters for a single simulated Figgie round.
// Pot and Ante are mutually exclusive: with Ante set, the pot is funded
// by the players (pot = ante * num_players, starting cash reduced by
// the ante); with Pot set, the pot injects external value at settlement.
type Round struct {
	Name          string   `mapstructure:"name" yaml:"name" json:"name"`
	Seed          int64    `mapstructure:"seed" yaml:"seed" json:"seed"`
	NumPlayers    int      `mapstructure:"num_players" yaml:"num_players" json:"num_players"`
	DurationTicks int      `mapstructure:"duration_ticks" yaml:"duration_ticks" json:"duration_ticks"`
	Pot           int64    `mapstructure:"pot" yaml:"pot" json:"pot"`
	Ante          int64    `mapstructure:"ante" yaml:"ante" json:"ante"`
	StartingCash  int64    `mapstructure:"starting_cash" yaml:"starting_cash" json:"starting_cash"`
	MaxPrice      int64    `mapstructure:"max_price" yaml:"max_price" json:"max_price"`
	Strategies    []string `mapstructure:"strategies" yaml:"strategies" json:"strategies"`

	// EarlyStopPasses ends trading after this many consecutive full
	// polling passes in which every strategy returned NoOp. 0 disables.
	EarlyStopPasses int `mapstructure:"early_stop_passes" yaml:"early_stop_passes" json:"early_stop_passes"`
}

// TotalPot returns the pot to be distributed at settlement.
func (r *Round) TotalPot() int64 {
	if r.Ante > 0 {
		return r.Ante * int64(r.NumPlayers)
	}
	return r.Pot
}

// Validate checks the configuration. Violations are fatal at SETUP;
// no trading may occur with a malformed round.
func (r *Round) Validate() error {
	if r.NumPlayers < 2 {
		return fmt.Errorf("num_players must be >= 2, got %d", r.NumPlayers)
	}
	if r.DurationTicks <= 0 {
		return fmt.Errorf("duration_ticks must be positive, got %d", r.DurationTicks)
	}
	if r.MaxPrice < 1 {
		return fmt.Errorf("max_price must be >= 1, got %d", r.MaxPrice)
	}
	if r.StartingCash < 0 {
		return fmt.Errorf("starting_cash must be non-negative, got %d", r.StartingCash)
	}
	if r.Pot < 0 || r.Ante < 0 {
		return fmt.Errorf("pot and ante must be non-negative, got pot=%d ante=%d", r.Pot, r.Ante)
	}
	if r.Pot > 0 && r.Ante > 0 {
		return fmt.Errorf("pot and ante are mutually exclusive, got pot=%d ante=%d", r.Pot, r.Ante)
	}
	if r.TotalPot() <= 0 {
		return fmt.Errorf("round needs a pot: set pot or ante")
	}
	if r.Ante > r.StartingCash {
		return fmt.Errorf("ante %d exceeds starting cash %d", r.Ante, r.StartingCash)
	}
	if r.EarlyStopPasses < 0 {
		return fmt.Errorf("early_stop_passes must be non-negative, got %d", r.EarlyStopPasses)
	}
	if len(r.Strategies) != r.NumPlayers {
		return fmt.Errorf("need one strategy per player: %d strategies for %d players",
			len(r.Strategies), r.NumPlayers)
	}
	return nil
}

// Load reads a round configuration from a YAML file. Missing keys fall
// back to the classic preset's defaults before validation.
func Load(path string) (*Round, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Classic(42)
	cfg.Name = "custom"
	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if v.IsSet("strategies") {
		cfg.Strategies = v.GetStringSlice("strategies")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
