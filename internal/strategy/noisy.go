package strategy

import (
	"math/rand"

	"github.com/jeremiahvuong/figgie/internal/domain"
	"github.com/jeremiahvuong/figgie/internal/market"
)

// Noisy samples a random suit, side, and price each tick it chooses to
// act. It does not validate its own orders; the market's rejection path
// is expected to absorb the nonsense. Prices hug the current quote when
// one exists so the noise still produces trades.
type Noisy struct {
	player int
	rng    *rand.Rand
	tags   tagger

	// ActProb is the chance of acting at all on a given tick.
	ActProb float64
	// CancelProb is the chance an action is a cancel of a resting order.
	CancelProb float64
}

// NewNoisy creates a noisy strategy for the given player.
func NewNoisy(player int, seed int64) *Noisy {
	return &Noisy{
		player:     player,
		rng:        rand.New(rand.NewSource(seed)),
		tags:       tagger{player: player},
		ActProb:    0.7,
		CancelProb: 0.15,
	}
}

func (n *Noisy) Name() string { return "noisy" }

// Decide returns a random action.
func (n *Noisy) Decide(snap *market.Snapshot) domain.Action {
	if n.rng.Float64() > n.ActProb {
		return domain.NoOp()
	}

	if len(snap.Resting) > 0 && n.rng.Float64() < n.CancelProb {
		victim := snap.Resting[n.rng.Intn(len(snap.Resting))]
		return domain.Cancel(victim.Tag)
	}

	suit := domain.Suits[n.rng.Intn(domain.NumSuits)]
	side := domain.Bid
	if n.rng.Float64() < 0.5 {
		side = domain.Ask
	}

	price := n.price(snap, suit)
	return domain.Submit(suit, side, price, n.tags.tag("n"))
}

// price samples around the suit's mid when a quote exists, otherwise
// uniformly over the lower half of the allowed range.
func (n *Noisy) price(snap *market.Snapshot, suit domain.Suit) int64 {
	if mid, ok := snap.Quotes[suit].Mid(); ok {
		p := mid + n.rng.Int63n(7) - 3
		if p < 1 {
			p = 1
		}
		if p > snap.MaxPrice {
			p = snap.MaxPrice
		}
		return p
	}
	span := snap.MaxPrice/2 + 1
	return 1 + n.rng.Int63n(span)
}
