// Package market aggregates the four suit books and owns the round's
// ledger: per-player cash and hands. All mutation goes through
// ApplyAction under instruction from the scheduler.
package market

import (
	"fmt"

	"github.com/jeremiahvuong/figgie/internal/deal"
	"github.com/jeremiahvuong/figgie/internal/domain"
	"github.com/jeremiahvuong/figgie/internal/orderbook"
)

// ErrConsistency wraps conservation violations. These indicate a defect
// in the market itself and abort the round.
var ErrConsistency = fmt.Errorf("internal consistency violation")

// Outcome reports what a single applied action did. At most one of
// Trade, Rested, Canceled, and Rejection is set; AutoCanceled lists
// resting bids swept because their owner could no longer fund them
// after the trade.
type Outcome struct {
	Trade        *domain.Trade
	Rested       *domain.Order
	Canceled     *domain.Order
	Rejection    *domain.Rejection
	AutoCanceled []domain.Order
}

// Market routes actions to the per-suit books and keeps the ledger.
type Market struct {
	books [domain.NumSuits]*orderbook.Book

	cash  []int64
	hands []domain.Hand

	lastTrade [domain.NumSuits]int64
	hasTrade  [domain.NumSuits]bool
	tape      []domain.Trade

	pot      int64
	maxPrice int64

	// Fixed at construction, checked every tick.
	suitCounts [domain.NumSuits]int
	totalCash  int64

	nextTradeSeq uint64
}

// New builds a market from a completed deal.
func New(d *deal.Deal, maxPrice int64) *Market {
	m := &Market{
		cash:       append([]int64(nil), d.StartingCash...),
		hands:      append([]domain.Hand(nil), d.Hands...),
		pot:        d.Pot,
		maxPrice:   maxPrice,
		suitCounts: d.SuitCounts,
	}
	for _, s := range domain.Suits {
		m.books[s] = orderbook.New(s)
	}
	for _, c := range m.cash {
		m.totalCash += c
	}
	return m
}

// ApplyAction validates and applies one strategy action. Rejections are
// reported in the Outcome and never returned as errors; a non-nil error
// means the ledger itself is broken and the round must stop.
func (m *Market) ApplyAction(trader, tick int, act domain.Action) (Outcome, error) {
	switch act.Kind {
	case domain.ActNoOp:
		return Outcome{}, nil
	case domain.ActCancel:
		return m.applyCancel(trader, tick, act), nil
	case domain.ActSubmit:
		return m.applySubmit(trader, tick, act)
	default:
		return Outcome{Rejection: m.reject(trader, tick, act, domain.RejectInvalidPrice)}, nil
	}
}

func (m *Market) applyCancel(trader, tick int, act domain.Action) Outcome {
	for _, s := range domain.Suits {
		if o := m.books[s].Cancel(trader, act.Tag); o != nil {
			return Outcome{Canceled: o}
		}
	}
	return Outcome{Rejection: m.reject(trader, tick, act, domain.RejectUnknownOrder)}
}

func (m *Market) applySubmit(trader, tick int, act domain.Action) (Outcome, error) {
	if !act.Suit.Valid() || act.Price < 1 || act.Price > m.maxPrice {
		return Outcome{Rejection: m.reject(trader, tick, act, domain.RejectInvalidPrice)}, nil
	}

	switch act.Side {
	case domain.Bid:
		// No margin: a bid must be coverable at its own price.
		if m.cash[trader] < act.Price {
			return Outcome{Rejection: m.reject(trader, tick, act, domain.RejectInsufficientCash)}, nil
		}
	case domain.Ask:
		// No shorting: held cards minus cards already promised by
		// resting asks in this suit must cover one more sale.
		free := m.hands[trader][act.Suit] - m.books[act.Suit].RestingAsks(trader)
		if free < 1 {
			return Outcome{Rejection: m.reject(trader, tick, act, domain.RejectInsufficientInventory)}, nil
		}
	default:
		return Outcome{Rejection: m.reject(trader, tick, act, domain.RejectInvalidPrice)}, nil
	}

	order := &domain.Order{
		Trader: trader,
		Suit:   act.Suit,
		Side:   act.Side,
		Price:  act.Price,
		Tag:    act.Tag,
		Tick:   tick,
	}
	trade, err := m.books[act.Suit].Submit(order)
	if err == orderbook.ErrSelfTrade {
		return Outcome{Rejection: m.reject(trader, tick, act, domain.RejectSelfTrade)}, nil
	}
	if trade == nil {
		return Outcome{Rested: order}, nil
	}

	if err := m.settleTrade(trade); err != nil {
		return Outcome{}, err
	}
	swept := m.sweepUnfundedBids()
	return Outcome{Trade: trade, AutoCanceled: swept}, nil
}

// settleTrade moves one card and its payment between the two parties.
// Cash and inventory change together; no intermediate state is ever
// observable by strategies.
func (m *Market) settleTrade(t *domain.Trade) error {
	if m.cash[t.Buyer] < t.Price {
		return fmt.Errorf("%w: buyer %d cash %d below trade price %d",
			ErrConsistency, t.Buyer, m.cash[t.Buyer], t.Price)
	}
	if m.hands[t.Seller][t.Suit] < 1 {
		return fmt.Errorf("%w: seller %d holds no %s", ErrConsistency, t.Seller, t.Suit)
	}

	m.cash[t.Buyer] -= t.Price
	m.cash[t.Seller] += t.Price
	m.hands[t.Seller][t.Suit]--
	m.hands[t.Buyer][t.Suit]++

	m.nextTradeSeq++
	t.Seq = m.nextTradeSeq
	m.lastTrade[t.Suit] = t.Price
	m.hasTrade[t.Suit] = true
	m.tape = append(m.tape, *t)
	return nil
}

// sweepUnfundedBids cancels resting bids their owner can no longer
// cover after cash moved. Sweeping keeps every resting bid funded at
// all times, which is what guarantees cash never goes negative even
// when one trader has several bids working at once.
func (m *Market) sweepUnfundedBids() []domain.Order {
	var swept []domain.Order
	for _, s := range domain.Suits {
		for _, o := range m.books[s].Bids() {
			if m.cash[o.Trader] < o.Price {
				swept = append(swept, *o)
			}
		}
		for _, o := range swept {
			if o.Suit == s {
				m.books[s].Remove(o.Seq)
			}
		}
	}
	return swept
}

func (m *Market) reject(trader, tick int, act domain.Action, reason domain.RejectReason) *domain.Rejection {
	return &domain.Rejection{Trader: trader, Tick: tick, Reason: reason, Action: act}
}

// CheckConservation verifies the card and cash invariants against the
// allocations fixed at construction. Any violation is fatal.
func (m *Market) CheckConservation() error {
	var perSuit [domain.NumSuits]int
	for p, h := range m.hands {
		for _, s := range domain.Suits {
			if h[s] < 0 {
				return fmt.Errorf("%w: player %d holds %d %s", ErrConsistency, p, h[s], s)
			}
			perSuit[s] += h[s]
		}
	}
	for _, s := range domain.Suits {
		if perSuit[s] != m.suitCounts[s] {
			return fmt.Errorf("%w: %s count %d, deck allocated %d",
				ErrConsistency, s, perSuit[s], m.suitCounts[s])
		}
	}

	var cash int64
	for p, c := range m.cash {
		if c < 0 {
			return fmt.Errorf("%w: player %d cash %d", ErrConsistency, p, c)
		}
		cash += c
	}
	if cash != m.totalCash {
		return fmt.Errorf("%w: cash sum %d, started with %d", ErrConsistency, cash, m.totalCash)
	}
	return nil
}

// AssertBooks runs the structural book invariants for every suit.
func (m *Market) AssertBooks() {
	for _, s := range domain.Suits {
		m.books[s].AssertInvariants()
	}
}

// Cash returns the trader's current balance.
func (m *Market) Cash(trader int) int64 {
	return m.cash[trader]
}

// Hand returns a copy of the trader's current hand.
func (m *Market) Hand(trader int) domain.Hand {
	return m.hands[trader]
}

// Tape returns the round's trade log in execution order.
func (m *Market) Tape() []domain.Trade {
	return m.tape
}
