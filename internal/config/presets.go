package config

// Classic returns the four-player table: each player antes 50 into a
// 200 pot and trades for a full-length session.
func Classic(seed int64) *Round {
	return &Round{
		Name:          "classic",
		Seed:          seed,
		NumPlayers:    4,
		DurationTicks: 240,
		Ante:          50,
		StartingCash:  350,
		MaxPrice:      100,
		Strategies:    []string{"fundamental", "spread", "noisy", "noisy"},
	}
}

// FivePlayer returns the five-player table with the smaller 8-card deal.
func FivePlayer(seed int64) *Round {
	return &Round{
		Name:          "fiveplayer",
		Seed:          seed,
		NumPlayers:    5,
		DurationTicks: 240,
		Ante:          40,
		StartingCash:  350,
		MaxPrice:      100,
		Strategies:    []string{"fundamental", "spread", "spread", "noisy", "noisy"},
	}
}

// Quick returns a short externally funded round used in examples and
// smoke tests: pot 400, no ante, early stop once the table goes quiet.
func Quick(seed int64) *Round {
	return &Round{
		Name:            "quick",
		Seed:            seed,
		NumPlayers:      4,
		DurationTicks:   60,
		Pot:             400,
		StartingCash:    200,
		MaxPrice:        50,
		EarlyStopPasses: 3,
		Strategies:      []string{"noisy", "noisy", "noisy", "noisy"},
	}
}

// GetPreset returns the named preset, or nil for an unknown name.
func GetPreset(name string, seed int64) *Round {
	switch name {
	case "classic":
		return Classic(seed)
	case "fiveplayer":
		return FivePlayer(seed)
	case "quick":
		return Quick(seed)
	default:
		return nil
	}
}

// PresetNames lists the available presets.
func PresetNames() []string {
	return []string{"classic", "fiveplayer", "quick"}
}
