package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremiahvuong/figgie/internal/deal"
	"github.com/jeremiahvuong/figgie/internal/domain"
)

// fixedDeal builds a hand-crafted two-player deal so tests control
// every card and dollar exactly.
func fixedDeal(cash int64) *deal.Deal {
	return &deal.Deal{
		Hands: []domain.Hand{
			{10, 4, 4, 2}, // player 0
			{2, 6, 6, 6},  // player 1
		},
		StartingCash: []int64{cash, cash},
		SuitCounts:   [domain.NumSuits]int{12, 10, 10, 8},
		TwelveSuit:   domain.Spades,
		GoalSuit:     domain.Clubs,
		Pot:          200,
		PerCard:      20,
	}
}

func mustApply(t *testing.T, m *Market, trader, tick int, act domain.Action) Outcome {
	t.Helper()
	out, err := m.ApplyAction(trader, tick, act)
	require.NoError(t, err)
	return out
}

// TestTradeSettlesAtomically verifies that cash and the card move
// together at the resting price.
func TestTradeSettlesAtomically(t *testing.T) {
	m := New(fixedDeal(100), 50)

	out := mustApply(t, m, 0, 0, domain.Submit(domain.Spades, domain.Ask, 7, "a"))
	require.Nil(t, out.Trade)
	require.Nil(t, out.Rejection)

	out = mustApply(t, m, 1, 1, domain.Submit(domain.Spades, domain.Bid, 9, "b"))
	require.NotNil(t, out.Trade)
	assert.Equal(t, int64(7), out.Trade.Price, "executes at resting ask")
	assert.Equal(t, 1, out.Trade.Buyer)
	assert.Equal(t, 0, out.Trade.Seller)

	assert.Equal(t, int64(107), m.Cash(0))
	assert.Equal(t, int64(93), m.Cash(1))
	assert.Equal(t, 9, m.Hand(0)[domain.Spades])
	assert.Equal(t, 3, m.Hand(1)[domain.Spades])

	require.NoError(t, m.CheckConservation())
	m.AssertBooks()
	assert.Len(t, m.Tape(), 1)
}

// TestRejectInvalidPrice covers the price bound checks.
func TestRejectInvalidPrice(t *testing.T) {
	m := New(fixedDeal(100), 50)

	for _, price := range []int64{0, -3, 51} {
		out := mustApply(t, m, 0, 0, domain.Submit(domain.Hearts, domain.Bid, price, "x"))
		require.NotNil(t, out.Rejection)
		assert.Equal(t, domain.RejectInvalidPrice, out.Rejection.Reason)
	}
	require.NoError(t, m.CheckConservation())
}

// TestRejectInsufficientCash verifies the no-margin bid check.
func TestRejectInsufficientCash(t *testing.T) {
	m := New(fixedDeal(5), 50)

	out := mustApply(t, m, 0, 0, domain.Submit(domain.Hearts, domain.Bid, 6, "x"))
	require.NotNil(t, out.Rejection)
	assert.Equal(t, domain.RejectInsufficientCash, out.Rejection.Reason)

	out = mustApply(t, m, 0, 0, domain.Submit(domain.Hearts, domain.Bid, 5, "x"))
	assert.Nil(t, out.Rejection, "bid exactly at balance is allowed")
}

// TestRejectInsufficientInventory verifies the no-shorting ask check,
// including cards already promised by resting asks. An ask with no
// free cards behind it is refused and nothing changes.
func TestRejectInsufficientInventory(t *testing.T) {
	m := New(fixedDeal(100), 50)

	// Player 0 holds 2 hearts: two asks rest, the third is refused.
	mustApply(t, m, 0, 0, domain.Submit(domain.Hearts, domain.Ask, 10, "a1"))
	mustApply(t, m, 0, 0, domain.Submit(domain.Hearts, domain.Ask, 11, "a2"))
	out := mustApply(t, m, 0, 0, domain.Submit(domain.Hearts, domain.Ask, 12, "a3"))
	require.NotNil(t, out.Rejection)
	assert.Equal(t, domain.RejectInsufficientInventory, out.Rejection.Reason)

	// Canceling one frees the cover.
	out = mustApply(t, m, 0, 1, domain.Cancel("a2"))
	require.NotNil(t, out.Canceled)
	assert.Equal(t, "a2", out.Canceled.Tag)
	out = mustApply(t, m, 0, 1, domain.Submit(domain.Hearts, domain.Ask, 12, "a3"))
	assert.Nil(t, out.Rejection)

	hand := m.Hand(0)
	cash := m.Cash(0)
	assert.Equal(t, 2, hand[domain.Hearts], "hand unchanged by resting asks")
	assert.Equal(t, int64(100), cash)
	assert.Empty(t, m.Tape())
}

// TestRejectSelfTrade verifies a trader cannot lift their own quote.
func TestRejectSelfTrade(t *testing.T) {
	m := New(fixedDeal(100), 50)

	mustApply(t, m, 0, 0, domain.Submit(domain.Clubs, domain.Ask, 8, "a"))
	out := mustApply(t, m, 0, 0, domain.Submit(domain.Clubs, domain.Bid, 8, "b"))
	require.NotNil(t, out.Rejection)
	assert.Equal(t, domain.RejectSelfTrade, out.Rejection.Reason)
	assert.Empty(t, m.Tape())
}

// TestRejectUnknownCancel verifies cancel failure reporting.
func TestRejectUnknownCancel(t *testing.T) {
	m := New(fixedDeal(100), 50)

	out := mustApply(t, m, 0, 3, domain.Cancel("ghost"))
	require.NotNil(t, out.Rejection)
	assert.Equal(t, domain.RejectUnknownOrder, out.Rejection.Reason)
	assert.Equal(t, 3, out.Rejection.Tick)
}

// TestUnfundedBidsSweptAfterTrade verifies that once a trade drains a
// buyer's cash, their other resting bids they can no longer cover are
// auto-canceled, keeping every resting bid funded.
func TestUnfundedBidsSweptAfterTrade(t *testing.T) {
	m := New(fixedDeal(10), 50)

	// Player 1 rests two bids, each individually funded.
	mustApply(t, m, 1, 0, domain.Submit(domain.Spades, domain.Bid, 10, "b1"))
	mustApply(t, m, 1, 0, domain.Submit(domain.Hearts, domain.Bid, 8, "b2"))

	// Player 0 hits the spades bid; player 1's cash drops to 0.
	out := mustApply(t, m, 0, 1, domain.Submit(domain.Spades, domain.Ask, 10, "a1"))
	require.NotNil(t, out.Trade)
	assert.Equal(t, int64(0), m.Cash(1))

	require.Len(t, out.AutoCanceled, 1)
	assert.Equal(t, "b2", out.AutoCanceled[0].Tag)
	assert.Equal(t, domain.Hearts, out.AutoCanceled[0].Suit)

	// The swept bid can no longer trade.
	out = mustApply(t, m, 0, 2, domain.Submit(domain.Hearts, domain.Ask, 8, "a2"))
	assert.Nil(t, out.Trade)
	require.NoError(t, m.CheckConservation())
}

// TestSnapshotIsPrivateProjection verifies the snapshot carries the
// trader's own position plus public quotes, and that mutating market
// state later does not retroactively change an issued snapshot.
func TestSnapshotIsPrivateProjection(t *testing.T) {
	m := New(fixedDeal(100), 50)

	mustApply(t, m, 0, 0, domain.Submit(domain.Diamonds, domain.Ask, 9, "a"))
	mustApply(t, m, 1, 0, domain.Submit(domain.Diamonds, domain.Bid, 4, "b"))

	snap := m.SnapshotFor(0, 1)
	q := snap.Quotes[domain.Diamonds]
	assert.True(t, q.HasBid)
	assert.True(t, q.HasAsk)
	assert.Equal(t, int64(4), q.Bid)
	assert.Equal(t, int64(9), q.Ask)
	assert.False(t, q.HasLast)

	mid, ok := q.Mid()
	require.True(t, ok)
	assert.Equal(t, int64(6), mid)

	require.Len(t, snap.Resting, 1)
	assert.Equal(t, "a", snap.Resting[0].Tag)
	assert.Equal(t, int64(100), snap.Cash)

	// A later trade must not leak into the already-issued snapshot.
	mustApply(t, m, 1, 1, domain.Submit(domain.Diamonds, domain.Bid, 9, "b2"))
	assert.False(t, snap.Quotes[domain.Diamonds].HasLast)
	assert.Equal(t, 0, snap.TapeLen)

	fresh := m.SnapshotFor(0, 2)
	assert.True(t, fresh.Quotes[domain.Diamonds].HasLast)
	assert.Equal(t, int64(9), fresh.Quotes[domain.Diamonds].Last)
	assert.Equal(t, 1, fresh.TapeLen)
}
