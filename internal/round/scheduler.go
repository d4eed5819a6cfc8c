// Package round runs one complete Figgie round: setup, the trading
// loop, and settlement, emitting the audit event stream along the way.
package round

import (
	"fmt"

	"github.com/jeremiahvuong/figgie/internal/config"
	"github.com/jeremiahvuong/figgie/internal/deal"
	"github.com/jeremiahvuong/figgie/internal/domain"
	"github.com/jeremiahvuong/figgie/internal/market"
	"github.com/jeremiahvuong/figgie/internal/strategy"
)

// EventSink receives the round's events in emission order. A sink
// error aborts the round; losing part of the audit trail makes the
// rest of it worthless.
type EventSink interface {
	Emit(*domain.Event) error
}

type nopSink struct{}

func (nopSink) Emit(*domain.Event) error { return nil }

// EndReason says why the trading phase stopped.
type EndReason string

const (
	EndDuration  EndReason = "duration"
	EndEarlyStop EndReason = "early_stop"
)

// Result is everything a caller needs after a round is done.
type Result struct {
	Scoreboard domain.Scoreboard
	Trades     []domain.Trade
	Rejections []domain.Rejection
	GoalSuit   domain.Suit
	Pot        int64
	PerCard    int64
	Ticks      int
	EndReason  EndReason
}

// Run plays one round to completion. Strategies are polled in player
// index order on every tick, so the same configuration, seed, and
// strategy set always replays the exact same round. Rejections are
// collected as diagnostics; only configuration errors, sink failures,
// and ledger corruption abort the round.
func Run(cfg *config.Round, strats []strategy.Strategy, sink EventSink) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(strats) != cfg.NumPlayers {
		return nil, fmt.Errorf("round needs %d strategies, got %d", cfg.NumPlayers, len(strats))
	}
	if sink == nil {
		sink = nopSink{}
	}

	d, err := deal.New(cfg)
	if err != nil {
		return nil, err
	}
	m := market.New(d, cfg.MaxPrice)

	var seq uint64
	emit := func(tick int, e domain.Event) error {
		seq++
		e.Seq = seq
		e.Tick = tick
		return sink.Emit(&e)
	}

	err = emit(0, domain.Event{Type: domain.EventRoundStart, Setup: &domain.Setup{
		NumPlayers:   cfg.NumPlayers,
		Seed:         cfg.Seed,
		StartingCash: d.StartingCash,
		Ante:         cfg.Ante,
		Pot:          d.Pot,
		PerCard:      d.PerCard,
		GoalSuit:     d.GoalSuit,
		SuitCounts:   d.SuitCounts,
		Hands:        d.Hands,
	}})
	if err != nil {
		return nil, err
	}

	res := &Result{
		GoalSuit:  d.GoalSuit,
		Pot:       d.Pot,
		PerCard:   d.PerCard,
		EndReason: EndDuration,
	}

	idlePasses := 0
	tick := 0
	for ; tick < cfg.DurationTicks; tick++ {
		allNoOp := true
		for player, s := range strats {
			act := s.Decide(m.SnapshotFor(player, tick))
			if act.Kind != domain.ActNoOp {
				allNoOp = false
			}

			out, err := m.ApplyAction(player, tick, act)
			if err != nil {
				return nil, err
			}
			if err := emitOutcome(emit, tick, out); err != nil {
				return nil, err
			}
			if out.Rejection != nil {
				res.Rejections = append(res.Rejections, *out.Rejection)
			}
		}

		if err := m.CheckConservation(); err != nil {
			return nil, err
		}
		m.AssertBooks()

		if allNoOp {
			idlePasses++
		} else {
			idlePasses = 0
		}
		if cfg.EarlyStopPasses > 0 && idlePasses >= cfg.EarlyStopPasses {
			res.EndReason = EndEarlyStop
			tick++
			break
		}
	}
	res.Ticks = tick

	if err := emit(tick, domain.Event{Type: domain.EventRoundEnd}); err != nil {
		return nil, err
	}

	sb, err := Settle(d, m)
	if err != nil {
		return nil, err
	}
	if err := emit(tick, domain.Event{Type: domain.EventSettlement, Scoreboard: &sb}); err != nil {
		return nil, err
	}

	res.Scoreboard = sb
	res.Trades = m.Tape()
	return res, nil
}

func emitOutcome(emit func(int, domain.Event) error, tick int, out market.Outcome) error {
	switch {
	case out.Rejection != nil:
		if err := emit(tick, domain.Event{Type: domain.EventOrderRejected, Rejection: out.Rejection}); err != nil {
			return err
		}
	case out.Rested != nil:
		if err := emit(tick, domain.Event{Type: domain.EventOrderAccepted, Order: out.Rested}); err != nil {
			return err
		}
	case out.Canceled != nil:
		if err := emit(tick, domain.Event{Type: domain.EventOrderCanceled, Order: out.Canceled, CancelKind: domain.CancelByPlayer}); err != nil {
			return err
		}
	case out.Trade != nil:
		if err := emit(tick, domain.Event{Type: domain.EventTradeExecuted, Trade: out.Trade}); err != nil {
			return err
		}
	}
	for i := range out.AutoCanceled {
		o := out.AutoCanceled[i]
		if err := emit(tick, domain.Event{Type: domain.EventOrderCanceled, Order: &o, CancelKind: domain.CancelUnfunded}); err != nil {
			return err
		}
	}
	return nil
}
