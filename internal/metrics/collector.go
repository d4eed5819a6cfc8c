// Package metrics derives per-player activity metrics and the final
// scoreboard from a round's event log. Everything here is computed
// from events alone, which is what makes a log a complete audit trail:
// a replay that disagrees with the logged settlement means the log is
// corrupt.
package metrics

import (
	"fmt"

	"github.com/jeremiahvuong/figgie/internal/domain"
)

// PlayerMetrics holds per-player activity derived from the event log.
type PlayerMetrics struct {
	Player int `json:"player"`

	OrdersRested int `json:"orders_rested"`
	Cancels      int `json:"cancels"`
	Swept        int `json:"swept"` // bids removed by the unfunded sweep
	Rejections   int `json:"rejections"`

	Buys       int   `json:"buys"`
	Sells      int   `json:"sells"`
	CashSpent  int64 `json:"cash_spent"`
	CashEarned int64 `json:"cash_earned"`

	GoalBought int `json:"goal_bought"`
	GoalSold   int `json:"goal_sold"`

	FinalCash int64       `json:"final_cash"`
	FinalHand domain.Hand `json:"final_hand"`
	Payout    int64       `json:"payout"`
}

// RejectionCounts tallies rejections by reason across all players.
type RejectionCounts map[string]int

// Summary is everything recomputed from one round's log.
type Summary struct {
	Players    []PlayerMetrics    `json:"players"`
	TradeCount int                `json:"trade_count"`
	Rejections RejectionCounts    `json:"rejections"`
	GoalSuit   domain.Suit        `json:"goal_suit"`
	Pot        int64              `json:"pot"`
	PerCard    int64              `json:"per_card"`
	Scoreboard *domain.Scoreboard `json:"scoreboard,omitempty"`
}

// ComputeFromEvents replays the event log into a summary. The log must
// begin with a ROUND_START event; its setup payload seeds the replayed
// hands and balances.
func ComputeFromEvents(events []*domain.Event) (*Summary, error) {
	if len(events) == 0 || events[0].Type != domain.EventRoundStart || events[0].Setup == nil {
		return nil, fmt.Errorf("event log does not start with a setup event")
	}
	setup := events[0].Setup
	n := setup.NumPlayers

	s := &Summary{
		Players:    make([]PlayerMetrics, n),
		Rejections: make(RejectionCounts),
		GoalSuit:   setup.GoalSuit,
		Pot:        setup.Pot,
		PerCard:    setup.PerCard,
	}
	hands := make([]domain.Hand, n)
	cash := make([]int64, n)
	copy(hands, setup.Hands)
	copy(cash, setup.StartingCash)
	for p := range s.Players {
		s.Players[p].Player = p
	}

	for _, e := range events[1:] {
		switch e.Type {
		case domain.EventOrderAccepted:
			s.Players[e.Order.Trader].OrdersRested++

		case domain.EventOrderCanceled:
			if e.CancelKind == domain.CancelUnfunded {
				s.Players[e.Order.Trader].Swept++
			} else {
				s.Players[e.Order.Trader].Cancels++
			}

		case domain.EventOrderRejected:
			s.Players[e.Rejection.Trader].Rejections++
			s.Rejections[e.Rejection.Reason.String()]++

		case domain.EventTradeExecuted:
			t := e.Trade
			s.TradeCount++
			buyer, seller := &s.Players[t.Buyer], &s.Players[t.Seller]
			buyer.Buys++
			buyer.CashSpent += t.Price
			seller.Sells++
			seller.CashEarned += t.Price
			if t.Suit == setup.GoalSuit {
				buyer.GoalBought++
				seller.GoalSold++
			}
			cash[t.Buyer] -= t.Price
			cash[t.Seller] += t.Price
			hands[t.Seller][t.Suit]--
			hands[t.Buyer][t.Suit]++

		case domain.EventSettlement:
			s.Scoreboard = e.Scoreboard
		}
	}

	for p := range s.Players {
		s.Players[p].FinalCash = cash[p]
		s.Players[p].FinalHand = hands[p]
		s.Players[p].Payout = cash[p] + int64(hands[p][setup.GoalSuit])*setup.PerCard
	}
	remainder := setup.Pot - setup.PerCard*int64(setup.SuitCounts[setup.GoalSuit])
	if remainder > 0 {
		majority := 0
		for p := 1; p < n; p++ {
			if hands[p][setup.GoalSuit] > hands[majority][setup.GoalSuit] {
				majority = p
			}
		}
		s.Players[majority].Payout += remainder
	}

	return s, nil
}

// Verify recomputes the settlement from the trade stream and compares
// it against the scoreboard recorded in the log. A mismatch means the
// log is not a faithful record of the round.
func Verify(events []*domain.Event) error {
	s, err := ComputeFromEvents(events)
	if err != nil {
		return err
	}
	if s.Scoreboard == nil {
		return fmt.Errorf("event log has no settlement event")
	}
	for p := range s.Players {
		if s.Players[p].Payout != s.Scoreboard.Payouts[p] {
			return fmt.Errorf("replay mismatch: player %d payout %d, log says %d",
				p, s.Players[p].Payout, s.Scoreboard.Payouts[p])
		}
	}
	return nil
}
