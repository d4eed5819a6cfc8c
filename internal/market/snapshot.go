package market

import "github.com/jeremiahvuong/figgie/internal/domain"

// Quote is the per-suit top of book plus the last traded price.
type Quote struct {
	Bid     int64 `json:"bid,omitempty"`
	HasBid  bool  `json:"has_bid"`
	Ask     int64 `json:"ask,omitempty"`
	HasAsk  bool  `json:"has_ask"`
	Last    int64 `json:"last,omitempty"`
	HasLast bool  `json:"has_last"`
}

// Mid returns the midpoint of the quote, falling back to the one-sided
// price or the last trade when the book is thin.
func (q Quote) Mid() (int64, bool) {
	switch {
	case q.HasBid && q.HasAsk:
		return (q.Bid + q.Ask) / 2, true
	case q.HasBid:
		return q.Bid, true
	case q.HasAsk:
		return q.Ask, true
	case q.HasLast:
		return q.Last, true
	default:
		return 0, false
	}
}

// Snapshot is the read-only projection handed to a strategy each tick:
// public top-of-book state plus the strategy's own private position.
// It never exposes the goal suit or any other player's hand or cash.
type Snapshot struct {
	Tick     int                           `json:"tick"`
	Quotes   [domain.NumSuits]Quote        `json:"quotes"`
	Hand     domain.Hand                   `json:"hand"`
	Cash     int64                         `json:"cash"`
	Pot      int64                         `json:"pot"`
	MaxPrice int64                         `json:"max_price"`
	TapeLen  int                           `json:"tape_len"`
	Resting  []domain.Order                `json:"resting,omitempty"`
}

// SnapshotFor derives the trader's view of the market at the given
// tick. The snapshot is a value copy; strategies can hold it across
// ticks without observing later mutation.
func (m *Market) SnapshotFor(trader, tick int) *Snapshot {
	snap := &Snapshot{
		Tick:     tick,
		Hand:     m.hands[trader],
		Cash:     m.cash[trader],
		Pot:      m.pot,
		MaxPrice: m.maxPrice,
		TapeLen:  len(m.tape),
	}
	for _, s := range domain.Suits {
		q := &snap.Quotes[s]
		q.Bid, q.HasBid = m.books[s].BestBid()
		q.Ask, q.HasAsk = m.books[s].BestAsk()
		q.Last, q.HasLast = m.lastTrade[s], m.hasTrade[s]
		snap.Resting = m.books[s].RestingOrders(trader, snap.Resting)
	}
	return snap
}
