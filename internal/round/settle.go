package round

import (
	"fmt"

	"github.com/jeremiahvuong/figgie/internal/deal"
	"github.com/jeremiahvuong/figgie/internal/domain"
	"github.com/jeremiahvuong/figgie/internal/market"
)

// Settle computes the final scoreboard: each player's remaining cash
// plus the per-card pot share for every goal-suit card held. Integer
// division of the pot can leave a remainder; it goes to the player
// holding the most goal cards, ties broken by lowest index, so the pot
// is always paid out in full.
func Settle(d *deal.Deal, m *market.Market) (domain.Scoreboard, error) {
	n := len(d.Hands)
	sb := domain.Scoreboard{
		Payouts:     make([]int64, n),
		GoalSuit:    d.GoalSuit,
		GoalCount:   d.GoalCount(),
		PerCard:     d.PerCard,
		Remainder:   d.Remainder(),
		RemainderTo: -1,
		Pot:         d.Pot,
	}

	majority := -1
	for p := 0; p < n; p++ {
		held := m.Hand(p)[d.GoalSuit]
		sb.Payouts[p] = m.Cash(p) + int64(held)*d.PerCard
		if majority == -1 || held > m.Hand(majority)[d.GoalSuit] {
			majority = p
		}
	}
	if sb.Remainder > 0 {
		sb.RemainderTo = majority
		sb.Payouts[majority] += sb.Remainder
	}

	var want, got int64
	for _, c := range d.StartingCash {
		want += c
	}
	want += d.Pot
	for _, p := range sb.Payouts {
		got += p
	}
	if got != want {
		return domain.Scoreboard{}, fmt.Errorf("%w: payouts sum %d, cash plus pot %d",
			market.ErrConsistency, got, want)
	}
	return sb, nil
}
