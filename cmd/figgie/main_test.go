package main

import (
	"path/filepath"
	"testing"

	"github.com/jeremiahvuong/figgie/internal/domain"
	"github.com/jeremiahvuong/figgie/internal/eventlog"
	"github.com/jeremiahvuong/figgie/internal/metrics"
)

func TestReadLogAndSummarize(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "events.jsonl")

	w, err := eventlog.NewWriter(logPath)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	events := []*domain.Event{
		{Seq: 1, Type: domain.EventRoundStart, Setup: &domain.Setup{
			NumPlayers:   2,
			StartingCash: []int64{100, 100},
			Pot:          200,
			PerCard:      25,
			GoalSuit:     domain.Hearts,
			SuitCounts:   [domain.NumSuits]int{12, 10, 10, 8},
			Hands:        []domain.Hand{{6, 5, 5, 5}, {6, 5, 5, 3}},
		}},
		{Seq: 2, Tick: 1, Type: domain.EventTradeExecuted,
			Trade: &domain.Trade{Seq: 1, Suit: domain.Hearts, Price: 10, Buyer: 0, Seller: 1, Tick: 1}},
		{Seq: 3, Tick: 2, Type: domain.EventRoundEnd},
	}
	for _, e := range events {
		if err := w.Emit(e); err != nil {
			t.Fatalf("emit: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := readLog(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("read %d events, wrote %d", len(got), len(events))
	}

	summary, err := metrics.ComputeFromEvents(got)
	if err != nil {
		t.Fatalf("compute metrics: %v", err)
	}
	if summary.TradeCount != 1 {
		t.Errorf("trade count = %d, want 1", summary.TradeCount)
	}
	if summary.Players[0].Payout != 90+6*25 {
		t.Errorf("player 0 payout = %d, want %d", summary.Players[0].Payout, 90+6*25)
	}
}
