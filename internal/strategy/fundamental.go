package strategy

import (
	"math/rand"

	"github.com/jeremiahvuong/figgie/internal/domain"
	"github.com/jeremiahvuong/figgie/internal/market"
)

// Fundamental trades on a belief about the goal suit. The goal suit is
// the same color as the 12-card suit, and holding many cards of a suit
// is weak evidence that suit is the 12, so the bot guesses the goal is
// the color partner of its deepest suit. It buys the guess below its
// per-card value estimate and liquidates everything else above cost.
type Fundamental struct {
	player int
	rng    *rand.Rand
	tags   tagger
}

// NewFundamental creates a value strategy for the given player.
func NewFundamental(player int, seed int64) *Fundamental {
	return &Fundamental{
		player: player,
		rng:    rand.New(rand.NewSource(seed)),
		tags:   tagger{player: player},
	}
}

func (f *Fundamental) Name() string { return "fundamental" }

func (f *Fundamental) Decide(snap *market.Snapshot) domain.Action {
	goal := f.guessGoal(snap)
	value := snap.Pot / 10 // per-card value if the goal holds 10 cards

	// Lift cheap offers on the guessed goal suit.
	q := snap.Quotes[goal]
	if q.HasAsk && q.Ask < value && snap.Cash >= q.Ask {
		return domain.Submit(goal, domain.Bid, q.Ask, f.tags.tag("f"))
	}

	// Hit rich bids on suits believed worthless.
	for _, suit := range domain.Suits {
		if suit == goal || suit == goal.SameColor() {
			continue
		}
		bq := snap.Quotes[suit]
		if bq.HasBid && snap.Hand[suit] > f.restingAsks(snap, suit) && bq.Bid >= 2 {
			return domain.Submit(suit, domain.Ask, bq.Bid, f.tags.tag("f"))
		}
	}

	// Otherwise advertise: bid under value on the goal, offer the rest.
	if !f.hasResting(snap, goal, domain.Bid) {
		price := value - 1 - f.rng.Int63n(3)
		if price >= 1 && price <= snap.MaxPrice && snap.Cash >= price {
			if !q.HasBid || q.Bid < price {
				return domain.Submit(goal, domain.Bid, price, f.tags.tag("f"))
			}
		}
	}
	for _, suit := range domain.Suits {
		if suit == goal || suit == goal.SameColor() {
			continue
		}
		if snap.Hand[suit] <= f.restingAsks(snap, suit) {
			continue
		}
		if f.hasResting(snap, suit, domain.Ask) {
			continue
		}
		price := 2 + f.rng.Int63n(4)
		if price > snap.MaxPrice {
			price = snap.MaxPrice
		}
		return domain.Submit(suit, domain.Ask, price, f.tags.tag("f"))
	}

	return domain.NoOp()
}

// guessGoal picks the color partner of the player's deepest suit.
func (f *Fundamental) guessGoal(snap *market.Snapshot) domain.Suit {
	deepest := domain.Suits[0]
	for _, suit := range domain.Suits {
		if snap.Hand[suit] > snap.Hand[deepest] {
			deepest = suit
		}
	}
	return deepest.SameColor()
}

func (f *Fundamental) hasResting(snap *market.Snapshot, suit domain.Suit, side domain.Side) bool {
	for _, o := range snap.Resting {
		if o.Suit == suit && o.Side == side {
			return true
		}
	}
	return false
}

func (f *Fundamental) restingAsks(snap *market.Snapshot, suit domain.Suit) int {
	n := 0
	for _, o := range snap.Resting {
		if o.Suit == suit && o.Side == domain.Ask {
			n++
		}
	}
	return n
}
