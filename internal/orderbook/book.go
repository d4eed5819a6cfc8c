// Package orderbook implements a single-suit limit order book
// with price-time priority matching
package orderbook

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jeremiahvuong/figgie/internal/domain"
)

// ErrSelfTrade is returned when an incoming order would immediately
// cross a resting order from the same trader. The order is neither
// executed nor rested.
var ErrSelfTrade = errors.New("self trade rejected")

// Book holds the resting single-card orders for one suit.
// Bids are sorted by (price descending, seq ascending), asks by
// (price ascending, seq ascending), so index 0 is always best.
type Book struct {
	Suit domain.Suit

	bids []*domain.Order
	asks []*domain.Order

	nextSeq uint64
}

// New creates an empty order book for the given suit.
func New(suit domain.Suit) *Book {
	return &Book{Suit: suit}
}

// Submit assigns the order a sequence number and matches it against the
// opposite side. At most one trade results since orders are single-card.
// Execution is always at the resting order's price. An unmatched order
// rests; a would-be self-trade returns ErrSelfTrade without side effects.
func (b *Book) Submit(o *domain.Order) (*domain.Trade, error) {
	if o.Suit != b.Suit {
		panic(fmt.Sprintf("order for suit %s submitted to %s book", o.Suit, b.Suit))
	}

	var resting *domain.Order
	if o.Side == domain.Bid {
		if len(b.asks) > 0 && b.asks[0].Price <= o.Price {
			resting = b.asks[0]
		}
	} else {
		if len(b.bids) > 0 && b.bids[0].Price >= o.Price {
			resting = b.bids[0]
		}
	}

	if resting != nil && resting.Trader == o.Trader {
		return nil, ErrSelfTrade
	}

	b.nextSeq++
	o.Seq = b.nextSeq

	if resting == nil {
		b.insert(o)
		return nil, nil
	}

	trade := &domain.Trade{
		Suit:  b.Suit,
		Price: resting.Price, // trade at the resting order's price
		Tick:  o.Tick,
	}
	if o.Side == domain.Bid {
		trade.Buyer = o.Trader
		trade.BuyerTag = o.Tag
		trade.Seller = resting.Trader
		trade.SellerTag = resting.Tag
		b.asks = b.asks[1:]
	} else {
		trade.Seller = o.Trader
		trade.SellerTag = o.Tag
		trade.Buyer = resting.Trader
		trade.BuyerTag = resting.Tag
		b.bids = b.bids[1:]
	}
	return trade, nil
}

// insert places a resting order at its price-time position.
func (b *Book) insert(o *domain.Order) {
	if o.Side == domain.Bid {
		idx := sort.Search(len(b.bids), func(i int) bool {
			return b.bids[i].Price < o.Price
		})
		b.bids = append(b.bids, nil)
		copy(b.bids[idx+1:], b.bids[idx:])
		b.bids[idx] = o
		return
	}
	idx := sort.Search(len(b.asks), func(i int) bool {
		return b.asks[i].Price > o.Price
	})
	b.asks = append(b.asks, nil)
	copy(b.asks[idx+1:], b.asks[idx:])
	b.asks[idx] = o
}

// Cancel removes the oldest resting order with the given trader and tag
// and returns it. Returns nil if no such order rests (already matched,
// already canceled, or never accepted).
func (b *Book) Cancel(trader int, tag string) *domain.Order {
	if o := b.removeFrom(&b.bids, trader, tag); o != nil {
		return o
	}
	return b.removeFrom(&b.asks, trader, tag)
}

func (b *Book) removeFrom(side *[]*domain.Order, trader int, tag string) *domain.Order {
	best := -1
	for i, o := range *side {
		if o.Trader == trader && o.Tag == tag {
			if best == -1 || o.Seq < (*side)[best].Seq {
				best = i
			}
		}
	}
	if best == -1 {
		return nil
	}
	o := (*side)[best]
	*side = append((*side)[:best], (*side)[best+1:]...)
	return o
}

// Remove deletes the resting order with the given sequence number,
// regardless of side. Used by the market's unfunded-bid sweep, which
// must target an exact order rather than a (trader, tag) pair.
func (b *Book) Remove(seq uint64) bool {
	for i, o := range b.bids {
		if o.Seq == seq {
			b.bids = append(b.bids[:i], b.bids[i+1:]...)
			return true
		}
	}
	for i, o := range b.asks {
		if o.Seq == seq {
			b.asks = append(b.asks[:i], b.asks[i+1:]...)
			return true
		}
	}
	return false
}

// BestBid returns the highest resting bid price, if any.
func (b *Book) BestBid() (int64, bool) {
	if len(b.bids) == 0 {
		return 0, false
	}
	return b.bids[0].Price, true
}

// BestAsk returns the lowest resting ask price, if any.
func (b *Book) BestAsk() (int64, bool) {
	if len(b.asks) == 0 {
		return 0, false
	}
	return b.asks[0].Price, true
}

// RestingAsks counts the trader's resting asks in this book. Used by
// the market's inventory check: a trader may not promise more cards of
// a suit than they hold.
func (b *Book) RestingAsks(trader int) int {
	n := 0
	for _, o := range b.asks {
		if o.Trader == trader {
			n++
		}
	}
	return n
}

// Bids returns the resting bids in book priority order. Callers must
// not mutate the orders; the market's unfunded-bid sweep iterates this.
func (b *Book) Bids() []*domain.Order {
	return b.bids
}

// RestingOrders appends all of the trader's resting orders to dst, bids
// then asks, each in book priority order.
func (b *Book) RestingOrders(trader int, dst []domain.Order) []domain.Order {
	for _, o := range b.bids {
		if o.Trader == trader {
			dst = append(dst, *o)
		}
	}
	for _, o := range b.asks {
		if o.Trader == trader {
			dst = append(dst, *o)
		}
	}
	return dst
}

// Depth returns the number of resting orders on each side.
func (b *Book) Depth() (bids, asks int) {
	return len(b.bids), len(b.asks)
}

// AssertInvariants checks all book invariants. Panics on violation
func (b *Book) AssertInvariants() {
	// 1. Bids sorted by price descending, seq ascending at equal price
	for i := 1; i < len(b.bids); i++ {
		prev, cur := b.bids[i-1], b.bids[i]
		if cur.Price > prev.Price {
			panic(fmt.Sprintf("%s bids not sorted descending: %d > %d at index %d",
				b.Suit, cur.Price, prev.Price, i))
		}
		if cur.Price == prev.Price && cur.Seq < prev.Seq {
			panic(fmt.Sprintf("%s bids not FIFO at price %d", b.Suit, cur.Price))
		}
	}

	// 2. Asks sorted by price ascending, seq ascending at equal price
	for i := 1; i < len(b.asks); i++ {
		prev, cur := b.asks[i-1], b.asks[i]
		if cur.Price < prev.Price {
			panic(fmt.Sprintf("%s asks not sorted ascending: %d < %d at index %d",
				b.Suit, cur.Price, prev.Price, i))
		}
		if cur.Price == prev.Price && cur.Seq < prev.Seq {
			panic(fmt.Sprintf("%s asks not FIFO at price %d", b.Suit, cur.Price))
		}
	}

	// 3. No crossed book
	if len(b.bids) > 0 && len(b.asks) > 0 {
		if b.bids[0].Price >= b.asks[0].Price {
			panic(fmt.Sprintf("crossed %s book: best bid %d >= best ask %d",
				b.Suit, b.bids[0].Price, b.asks[0].Price))
		}
	}

	// 4. All resting prices positive
	for _, o := range b.bids {
		if o.Price <= 0 {
			panic(fmt.Sprintf("non-positive bid price %d on %s book", o.Price, b.Suit))
		}
	}
	for _, o := range b.asks {
		if o.Price <= 0 {
			panic(fmt.Sprintf("non-positive ask price %d on %s book", o.Price, b.Suit))
		}
	}
}
