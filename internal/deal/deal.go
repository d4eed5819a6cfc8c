// Package deal builds the 40-card Figgie deck, picks the goal suit,
// and deals hands and cash deterministically from a seed
package deal

import (
	"fmt"
	"math/rand"

	"github.com/jeremiahvuong/figgie/internal/config"
	"github.com/jeremiahvuong/figgie/internal/domain"
)

// DeckSize is fixed by the game: the suit counts {12, 10, 10, 8}
// always sum to 40.
const DeckSize = 40

// Deal is the outcome of round setup: hands, cash, goal suit, and the
// pot arithmetic used at settlement.
type Deal struct {
	Hands        []domain.Hand
	StartingCash []int64 // post-ante
	SuitCounts   [domain.NumSuits]int
	TwelveSuit   domain.Suit
	GoalSuit     domain.Suit
	Pot          int64
	PerCard      int64 // pot / goal-suit count, rounded down
}

// New performs round setup. The same seed always produces the same
// deal. Configuration violations are fatal; no partial Deal is returned.
func New(cfg *config.Round) (*Deal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("round setup: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	d := &Deal{
		Hands:        make([]domain.Hand, cfg.NumPlayers),
		StartingCash: make([]int64, cfg.NumPlayers),
	}

	// One suit gets 12 cards; the goal suit is the other suit of the
	// same color. The remaining three suits get {10, 10, 8} in
	// seeded-shuffled order, so the goal suit ends up with 10 or 8
	// cards, never 12.
	d.TwelveSuit = domain.Suits[rng.Intn(domain.NumSuits)]
	d.GoalSuit = d.TwelveSuit.SameColor()

	rest := make([]domain.Suit, 0, domain.NumSuits-1)
	for _, s := range domain.Suits {
		if s != d.TwelveSuit {
			rest = append(rest, s)
		}
	}
	rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	d.SuitCounts[d.TwelveSuit] = 12
	d.SuitCounts[rest[0]] = 10
	d.SuitCounts[rest[1]] = 10
	d.SuitCounts[rest[2]] = 8

	deck := make([]domain.Suit, 0, DeckSize)
	for _, s := range domain.Suits {
		for i := 0; i < d.SuitCounts[s]; i++ {
			deck = append(deck, s)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	// Round-robin deal: with 4 players everyone gets 10 cards, with 5
	// everyone gets 8; for other counts the remainder cards land on the
	// lowest player indices.
	for i, s := range deck {
		d.Hands[i%cfg.NumPlayers][s]++
	}

	d.Pot = cfg.TotalPot()
	for p := range d.StartingCash {
		d.StartingCash[p] = cfg.StartingCash - cfg.Ante
	}

	goalCount := d.SuitCounts[d.GoalSuit]
	d.PerCard = d.Pot / int64(goalCount)
	if d.PerCard <= 0 {
		return nil, fmt.Errorf("round setup: pot %d too small for %d goal-suit cards", d.Pot, goalCount)
	}

	return d, nil
}

// GoalCount returns the number of goal-suit cards in existence.
func (d *Deal) GoalCount() int {
	return d.SuitCounts[d.GoalSuit]
}

// Remainder returns the part of the pot not covered by per-card
// payouts. It is awarded to the majority holder of the goal suit at
// settlement so the pot always balances exactly.
func (d *Deal) Remainder() int64 {
	return d.Pot - d.PerCard*int64(d.GoalCount())
}
