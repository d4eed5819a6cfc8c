package round

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremiahvuong/figgie/internal/config"
	"github.com/jeremiahvuong/figgie/internal/deal"
	"github.com/jeremiahvuong/figgie/internal/domain"
	"github.com/jeremiahvuong/figgie/internal/market"
	"github.com/jeremiahvuong/figgie/internal/strategy"
)

// memSink collects emitted events in order.
type memSink struct {
	events []domain.Event
}

func (s *memSink) Emit(e *domain.Event) error {
	s.events = append(s.events, *e)
	return nil
}

// idle always passes.
type idle struct{}

func (idle) Name() string                            { return "idle" }
func (idle) Decide(_ *market.Snapshot) domain.Action { return domain.NoOp() }

func buildStrategies(t *testing.T, cfg *config.Round) []strategy.Strategy {
	t.Helper()
	strats := make([]strategy.Strategy, cfg.NumPlayers)
	for i, kind := range cfg.Strategies {
		s, err := strategy.New(kind, i, cfg.Seed+int64(i)+1)
		require.NoError(t, err)
		strats[i] = s
	}
	return strats
}

func TestSettlePotDividesEvenly(t *testing.T) {
	d := &deal.Deal{
		Hands:        []domain.Hand{{2, 3, 6, 3}, {4, 2, 4, 2}},
		StartingCash: []int64{100, 100},
		SuitCounts:   [domain.NumSuits]int{6, 5, 10, 5},
		GoalSuit:     domain.Diamonds,
		Pot:          400,
		PerCard:      40,
	}
	m := market.New(d, 50)

	sb, err := Settle(d, m)
	require.NoError(t, err)
	assert.Equal(t, []int64{100 + 6*40, 100 + 4*40}, sb.Payouts)
	assert.Equal(t, int64(0), sb.Remainder)
	assert.Equal(t, -1, sb.RemainderTo)
	assert.Equal(t, int64(600), sb.Payouts[0]+sb.Payouts[1])
}

func TestSettleRemainderGoesToMajorityHolder(t *testing.T) {
	d := &deal.Deal{
		Hands:        []domain.Hand{{2, 3, 3, 3}, {4, 2, 5, 2}},
		StartingCash: []int64{100, 100},
		SuitCounts:   [domain.NumSuits]int{6, 5, 8, 5},
		GoalSuit:     domain.Diamonds,
		Pot:          250,
		PerCard:      31, // 250 / 8
	}
	m := market.New(d, 50)

	sb, err := Settle(d, m)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sb.Remainder)
	assert.Equal(t, 1, sb.RemainderTo, "player 1 holds 5 of 8 goal cards")
	assert.Equal(t, int64(100+3*31), sb.Payouts[0])
	assert.Equal(t, int64(100+5*31+2), sb.Payouts[1])
}

func TestSettleRemainderTieBreaksToLowestIndex(t *testing.T) {
	d := &deal.Deal{
		Hands:        []domain.Hand{{2, 3, 4, 3}, {4, 2, 4, 2}},
		StartingCash: []int64{100, 100},
		SuitCounts:   [domain.NumSuits]int{6, 5, 8, 5},
		GoalSuit:     domain.Diamonds,
		Pot:          250,
		PerCard:      31,
	}
	m := market.New(d, 50)

	sb, err := Settle(d, m)
	require.NoError(t, err)
	assert.Equal(t, 0, sb.RemainderTo)
}

func TestRunSameSeedSameRound(t *testing.T) {
	cfg := config.Classic(1234)

	var a, b memSink
	resA, err := Run(cfg, buildStrategies(t, cfg), &a)
	require.NoError(t, err)
	resB, err := Run(cfg, buildStrategies(t, cfg), &b)
	require.NoError(t, err)

	assert.Equal(t, resA.Scoreboard, resB.Scoreboard)
	assert.Equal(t, resA.Trades, resB.Trades)
	assert.Equal(t, resA.Rejections, resB.Rejections)
	assert.Equal(t, resA.Ticks, resB.Ticks)
	assert.Equal(t, a.events, b.events)
}

func TestRunDifferentSeedsDiverge(t *testing.T) {
	cfgA := config.Classic(1)
	cfgB := config.Classic(2)

	resA, err := Run(cfgA, buildStrategies(t, cfgA), nil)
	require.NoError(t, err)
	resB, err := Run(cfgB, buildStrategies(t, cfgB), nil)
	require.NoError(t, err)

	assert.NotEqual(t, resA.Trades, resB.Trades)
}

func TestRunConservesCashPlusPot(t *testing.T) {
	cfg := config.Classic(77)

	res, err := Run(cfg, buildStrategies(t, cfg), nil)
	require.NoError(t, err)

	var total int64
	for _, p := range res.Scoreboard.Payouts {
		total += p
	}
	postAnte := (cfg.StartingCash - cfg.Ante) * int64(cfg.NumPlayers)
	assert.Equal(t, postAnte+cfg.TotalPot(), total)
	assert.Equal(t, res.Pot, res.Scoreboard.Pot)
}

func TestRunEarlyStopOnIdlePasses(t *testing.T) {
	cfg := config.Classic(5)
	cfg.EarlyStopPasses = 2

	strats := make([]strategy.Strategy, cfg.NumPlayers)
	for i := range strats {
		strats[i] = idle{}
	}

	var sink memSink
	res, err := Run(cfg, strats, &sink)
	require.NoError(t, err)
	assert.Equal(t, EndEarlyStop, res.EndReason)
	assert.Equal(t, 2, res.Ticks)
	assert.Empty(t, res.Trades)

	// No trades means every payout is post-ante cash plus card value.
	require.Len(t, sink.events, 3)
	assert.Equal(t, domain.EventRoundStart, sink.events[0].Type)
	assert.Equal(t, domain.EventRoundEnd, sink.events[1].Type)
	assert.Equal(t, domain.EventSettlement, sink.events[2].Type)
}

func TestRunEventStreamIsAuditComplete(t *testing.T) {
	cfg := config.Quick(9)

	var sink memSink
	res, err := Run(cfg, buildStrategies(t, cfg), &sink)
	require.NoError(t, err)

	require.NotEmpty(t, sink.events)
	require.Equal(t, domain.EventRoundStart, sink.events[0].Type)
	require.NotNil(t, sink.events[0].Setup)

	var trades int
	var lastSeq uint64
	for _, e := range sink.events {
		require.Greater(t, e.Seq, lastSeq, "event seq must be strictly increasing")
		lastSeq = e.Seq
		if e.Type == domain.EventTradeExecuted {
			trades++
		}
	}
	assert.Equal(t, len(res.Trades), trades)
	assert.Equal(t, domain.EventSettlement, sink.events[len(sink.events)-1].Type)
	require.NotNil(t, sink.events[len(sink.events)-1].Scoreboard)
	assert.Equal(t, res.Scoreboard, *sink.events[len(sink.events)-1].Scoreboard)
}

func TestRunRejectsMismatchedStrategies(t *testing.T) {
	cfg := config.Classic(3)
	_, err := Run(cfg, []strategy.Strategy{idle{}}, nil)
	assert.Error(t, err)
}
