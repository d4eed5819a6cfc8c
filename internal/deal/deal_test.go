package deal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremiahvuong/figgie/internal/config"
	"github.com/jeremiahvuong/figgie/internal/domain"
)

// TestDeckComposition verifies the asymmetric suit-count rule across seeds.
func TestDeckComposition(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		d, err := New(config.Classic(seed))
		require.NoError(t, err)

		total := 0
		twelves := 0
		for _, s := range domain.Suits {
			total += d.SuitCounts[s]
			if d.SuitCounts[s] == 12 {
				twelves++
			}
			assert.Contains(t, []int{8, 10, 12}, d.SuitCounts[s])
		}
		assert.Equal(t, DeckSize, total)
		assert.Equal(t, 1, twelves)

		// Goal suit shares the 12-card suit's color and never holds 12.
		assert.Equal(t, d.TwelveSuit.Color(), d.GoalSuit.Color())
		assert.NotEqual(t, d.TwelveSuit, d.GoalSuit)
		assert.Contains(t, []int{8, 10}, d.GoalCount())
	}
}

// TestDealEvenness verifies hands carry the whole deck, dealt evenly.
func TestDealEvenness(t *testing.T) {
	for _, cfg := range []*config.Round{config.Classic(7), config.FivePlayer(7)} {
		d, err := New(cfg)
		require.NoError(t, err)
		require.Len(t, d.Hands, cfg.NumPlayers)

		perPlayer := DeckSize / cfg.NumPlayers
		var perSuit [domain.NumSuits]int
		for _, h := range d.Hands {
			assert.Equal(t, perPlayer, h.Total())
			for _, s := range domain.Suits {
				perSuit[s] += h[s]
			}
		}
		for _, s := range domain.Suits {
			assert.Equal(t, d.SuitCounts[s], perSuit[s], "suit %s allocation", s)
		}
	}
}

// TestPotArithmetic verifies the payout math: per-card rounds down and
// the remainder covers the difference exactly.
func TestPotArithmetic(t *testing.T) {
	cfg := config.Quick(3)
	d, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, int64(400), d.Pot)
	assert.Equal(t, d.Pot, d.PerCard*int64(d.GoalCount())+d.Remainder())
	assert.GreaterOrEqual(t, d.Remainder(), int64(0))
	assert.Less(t, d.Remainder(), d.PerCard)
}

// TestAnteFundsPot verifies ante mode deducts cash up front.
func TestAnteFundsPot(t *testing.T) {
	cfg := config.Classic(11)
	d, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.Ante*int64(cfg.NumPlayers), d.Pot)
	for _, c := range d.StartingCash {
		assert.Equal(t, cfg.StartingCash-cfg.Ante, c)
	}
}

// TestDeterministicDeal verifies same seed, same deal; different seed,
// (almost surely) different deal.
func TestDeterministicDeal(t *testing.T) {
	a, err := New(config.Classic(99))
	require.NoError(t, err)
	b, err := New(config.Classic(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestSetupRejectsBadConfig verifies configuration errors are fatal
// before any trading state exists.
func TestSetupRejectsBadConfig(t *testing.T) {
	cases := map[string]func(*config.Round){
		"one player":     func(c *config.Round) { c.NumPlayers = 1; c.Strategies = c.Strategies[:1] },
		"zero duration":  func(c *config.Round) { c.DurationTicks = 0 },
		"no pot":         func(c *config.Round) { c.Ante = 0 },
		"pot and ante":   func(c *config.Round) { c.Pot = 100 },
		"ante over cash": func(c *config.Round) { c.Ante = c.StartingCash + 1 },
		"strategy count": func(c *config.Round) { c.Strategies = c.Strategies[:2] },
		"bad max price":  func(c *config.Round) { c.MaxPrice = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Classic(1)
			mutate(cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}
