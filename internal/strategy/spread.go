package strategy

import (
	"github.com/jeremiahvuong/figgie/internal/domain"
	"github.com/jeremiahvuong/figgie/internal/market"
)

// Spread works one suit at a time, keeping a bid and an ask inside the
// current spread to capture it. Only one action is allowed per tick, so
// the pair is built across consecutive ticks and torn down one cancel
// at a time when the mid drifts away from its anchor.
type Spread struct {
	player int
	tags   tagger

	suit      domain.Suit
	anchorMid int64
	haveMid   bool

	// Threshold is how far the mid may drift before re-quoting.
	Threshold int64
}

// NewSpread creates a spread-capture strategy for the given player.
// The strategy is deterministic; the seed is accepted for registry
// uniformity and ignored.
func NewSpread(player int, _ int64) *Spread {
	return &Spread{
		player:    player,
		tags:      tagger{player: player},
		Threshold: 3,
	}
}

func (s *Spread) Name() string { return "spread" }

// Decide maintains the working pair on the chosen suit.
func (s *Spread) Decide(snap *market.Snapshot) domain.Action {
	s.chooseSuit(snap)
	q := snap.Quotes[s.suit]
	mid, ok := q.Mid()

	// Tear down stale orders when the mid has moved too far.
	if s.haveMid && ok && abs64(mid-s.anchorMid) >= s.Threshold {
		if len(snap.Resting) > 0 {
			return domain.Cancel(snap.Resting[0].Tag)
		}
		s.haveMid = false
	}

	var haveBid, haveAsk bool
	for _, o := range snap.Resting {
		if o.Suit != s.suit {
			continue
		}
		if o.Side == domain.Bid {
			haveBid = true
		} else {
			haveAsk = true
		}
	}

	if !ok {
		// No market yet: seed one with a modest two-sided quote.
		if !haveAsk && snap.Hand[s.suit] > 0 {
			return domain.Submit(s.suit, domain.Ask, snap.MaxPrice/4+1, s.tags.tag("s"))
		}
		if !haveBid && snap.Cash >= 2 {
			return domain.Submit(s.suit, domain.Bid, 2, s.tags.tag("s"))
		}
		return domain.NoOp()
	}

	s.anchorMid = mid
	s.haveMid = true

	if !haveBid {
		price := mid - 1
		if q.HasBid && q.Bid >= price {
			price = q.Bid + 1 // step in front of the queue
		}
		if q.HasAsk && price >= q.Ask {
			price = q.Ask - 1 // never cross; capture, don't take
		}
		if price >= 1 && price <= snap.MaxPrice && snap.Cash >= price {
			return domain.Submit(s.suit, domain.Bid, price, s.tags.tag("s"))
		}
	}

	if !haveAsk && snap.Hand[s.suit] > 0 {
		price := mid + 1
		if q.HasAsk && q.Ask <= price {
			price = q.Ask - 1
		}
		if q.HasBid && price <= q.Bid {
			price = q.Bid + 1
		}
		if price >= 1 && price <= snap.MaxPrice {
			return domain.Submit(s.suit, domain.Ask, price, s.tags.tag("s"))
		}
	}

	return domain.NoOp()
}

// chooseSuit targets the suit the player is deepest in, so resting asks
// stay covered; ties break by suit order for determinism.
func (s *Spread) chooseSuit(snap *market.Snapshot) {
	best := domain.Suits[0]
	for _, suit := range domain.Suits {
		if snap.Hand[suit] > snap.Hand[best] {
			best = suit
		}
	}
	if best != s.suit {
		s.suit = best
		s.haveMid = false
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
