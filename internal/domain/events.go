package domain

import (
	"fmt"
	"strings"
)

type EventType int8

const (
	EventRoundStart EventType = iota
	EventOrderAccepted
	EventOrderRejected
	EventOrderCanceled
	EventTradeExecuted
	EventRoundEnd
	EventSettlement
)

func (e EventType) String() string {
	switch e {
	case EventRoundStart:
		return "ROUND_START"
	case EventOrderAccepted:
		return "ORDER_ACCEPTED"
	case EventOrderRejected:
		return "ORDER_REJECTED"
	case EventOrderCanceled:
		return "ORDER_CANCELED"
	case EventTradeExecuted:
		return "TRADE_EXECUTED"
	case EventRoundEnd:
		return "ROUND_END"
	case EventSettlement:
		return "SETTLEMENT"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON serializes EventType as a human-readable string.
func (e EventType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.String() + `"`), nil
}

// UnmarshalJSON deserializes EventType from a string.
func (e *EventType) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "ROUND_START":
		*e = EventRoundStart
	case "ORDER_ACCEPTED":
		*e = EventOrderAccepted
	case "ORDER_REJECTED":
		*e = EventOrderRejected
	case "ORDER_CANCELED":
		*e = EventOrderCanceled
	case "TRADE_EXECUTED":
		*e = EventTradeExecuted
	case "ROUND_END":
		*e = EventRoundEnd
	case "SETTLEMENT":
		*e = EventSettlement
	default:
		return fmt.Errorf("unknown EventType: %s", data)
	}
	return nil
}

// Setup is the ROUND_START payload. Together with the ordered trade and
// cancel events it makes the log a complete audit trail: final hands,
// cash, and the scoreboard can all be re-derived from it.
type Setup struct {
	NumPlayers   int              `json:"num_players"`
	Seed         int64            `json:"seed"`
	StartingCash []int64          `json:"starting_cash"` // post-ante
	Ante         int64            `json:"ante,omitempty"`
	Pot          int64            `json:"pot"`
	PerCard      int64            `json:"per_card"`
	GoalSuit     Suit             `json:"goal_suit"`
	SuitCounts   [NumSuits]int    `json:"suit_counts"`
	Hands        []Hand           `json:"hands"`
}

// CancelKind distinguishes player-requested cancels from the market's
// unfunded-bid sweep after a trade.
type CancelKind int8

const (
	CancelByPlayer CancelKind = iota
	CancelUnfunded
)

func (c CancelKind) String() string {
	if c == CancelUnfunded {
		return "UNFUNDED"
	}
	return "PLAYER"
}

// MarshalJSON serializes CancelKind as a human-readable string.
func (c CancelKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON deserializes CancelKind from a string.
func (c *CancelKind) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "PLAYER":
		*c = CancelByPlayer
	case "UNFUNDED":
		*c = CancelUnfunded
	default:
		return fmt.Errorf("unknown CancelKind: %s", data)
	}
	return nil
}

// Event is the unit of the round-scoped audit log. Exactly one payload
// field is set depending on Type.
type Event struct {
	Seq  uint64    `json:"seq"`
	Tick int       `json:"tick"`
	Type EventType `json:"type"`

	Setup      *Setup      `json:"setup,omitempty"`
	Order      *Order      `json:"order,omitempty"`
	CancelKind CancelKind  `json:"cancel_kind,omitempty"`
	Rejection  *Rejection  `json:"rejection,omitempty"`
	Trade      *Trade      `json:"trade,omitempty"`
	Scoreboard *Scoreboard `json:"scoreboard,omitempty"`
}
