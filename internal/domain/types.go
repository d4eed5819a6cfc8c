// Package domain defines the core types used across a Figgie round:
// suits, orders, trades, actions, events, and rejection reasons
package domain

import (
	"fmt"
	"strings"
)

// --- Suits ---

// Suit identifies one of the four card suits. Prices and hands are
// always indexed by suit; cards within a suit are interchangeable.
type Suit int8

const (
	Spades Suit = iota
	Clubs
	Diamonds
	Hearts

	NumSuits = 4
)

// Suits lists all suits in fixed index order for deterministic iteration.
var Suits = [NumSuits]Suit{Spades, Clubs, Diamonds, Hearts}

func (s Suit) String() string {
	switch s {
	case Spades:
		return "spades"
	case Clubs:
		return "clubs"
	case Diamonds:
		return "diamonds"
	case Hearts:
		return "hearts"
	default:
		return "unknown"
	}
}

// Valid reports whether the suit is one of the four playable suits.
func (s Suit) Valid() bool {
	return s >= Spades && s < NumSuits
}

// Color returns "black" for spades/clubs and "red" for diamonds/hearts.
func (s Suit) Color() string {
	if s == Spades || s == Clubs {
		return "black"
	}
	return "red"
}

// SameColor returns the other suit of the same color. In Figgie the
// goal suit is always the same color as the 12-card suit.
func (s Suit) SameColor() Suit {
	switch s {
	case Spades:
		return Clubs
	case Clubs:
		return Spades
	case Diamonds:
		return Hearts
	default:
		return Diamonds
	}
}

// ParseSuit converts a suit name to a Suit.
func ParseSuit(name string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "spades":
		return Spades, nil
	case "clubs":
		return Clubs, nil
	case "diamonds":
		return Diamonds, nil
	case "hearts":
		return Hearts, nil
	default:
		return 0, fmt.Errorf("unknown suit: %q", name)
	}
}

// MarshalJSON serializes Suit as its name.
func (s Suit) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON deserializes Suit from its name.
func (s *Suit) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSuit(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// --- Sides ---

type Side int8

const (
	Bid Side = 1
	Ask Side = -1
)

func (s Side) String() string {
	if s == Bid {
		return "BID"
	}
	return "ASK"
}

func (s Side) Opposite() Side {
	return -s
}

// MarshalJSON serializes Side as a human-readable string.
func (s Side) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON deserializes Side from a string.
func (s *Side) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "BID", "1":
		*s = Bid
	case "ASK", "-1":
		*s = Ask
	default:
		return fmt.Errorf("unknown Side: %s", data)
	}
	return nil
}

// --- Hands ---

// Hand is a per-suit card count owned by a single player for the
// duration of a round.
type Hand [NumSuits]int

// Total returns the number of cards across all suits.
func (h Hand) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// --- Orders and trades ---

// Order is a single-card bid or ask. Seq is assigned by the order book
// at submission and breaks FIFO ties at equal price. Tag is the
// client-chosen handle used for cancellation.
type Order struct {
	Trader int    `json:"trader"`
	Suit   Suit   `json:"suit"`
	Side   Side   `json:"side"`
	Price  int64  `json:"price"`
	Tag    string `json:"tag,omitempty"`
	Seq    uint64 `json:"seq,omitempty"`
	Tick   int    `json:"tick"`
}

// Trade records a matched execution. Immutable once appended to the tape.
type Trade struct {
	Seq       uint64 `json:"seq"`
	Suit      Suit   `json:"suit"`
	Price     int64  `json:"price"`
	Buyer     int    `json:"buyer"`
	Seller    int    `json:"seller"`
	BuyerTag  string `json:"buyer_tag,omitempty"`
	SellerTag string `json:"seller_tag,omitempty"`
	Tick      int    `json:"tick"`
}

// --- Actions ---

// ActionKind discriminates the three things a strategy can do per tick.
type ActionKind int8

const (
	ActNoOp ActionKind = iota
	ActSubmit
	ActCancel
)

func (k ActionKind) String() string {
	switch k {
	case ActSubmit:
		return "SUBMIT"
	case ActCancel:
		return "CANCEL"
	case ActNoOp:
		return "NOOP"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON serializes ActionKind as a human-readable string.
func (k ActionKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON deserializes ActionKind from a string.
func (k *ActionKind) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "SUBMIT", "1":
		*k = ActSubmit
	case "CANCEL", "2":
		*k = ActCancel
	case "NOOP", "0":
		*k = ActNoOp
	default:
		return fmt.Errorf("unknown ActionKind: %s", data)
	}
	return nil
}

// Action is the single decision a strategy returns when polled.
// Suit/Side/Price are meaningful for submits, Tag for submits and cancels.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Suit  Suit       `json:"suit,omitempty"`
	Side  Side       `json:"side,omitempty"`
	Price int64      `json:"price,omitempty"`
	Tag   string     `json:"tag,omitempty"`
}

// Submit builds an order-submission action.
func Submit(suit Suit, side Side, price int64, tag string) Action {
	return Action{Kind: ActSubmit, Suit: suit, Side: side, Price: price, Tag: tag}
}

// Cancel builds a cancellation action for a previously tagged order.
func Cancel(tag string) Action {
	return Action{Kind: ActCancel, Tag: tag}
}

// NoOp builds the do-nothing action.
func NoOp() Action {
	return Action{Kind: ActNoOp}
}

// --- Rejections ---

// RejectReason classifies why the market refused an action. Rejections
// are never fatal to the round.
type RejectReason int8

const (
	RejectInvalidPrice RejectReason = iota
	RejectInsufficientCash
	RejectInsufficientInventory
	RejectSelfTrade
	RejectUnknownOrder
)

func (r RejectReason) String() string {
	switch r {
	case RejectInvalidPrice:
		return "INVALID_PRICE"
	case RejectInsufficientCash:
		return "INSUFFICIENT_CASH"
	case RejectInsufficientInventory:
		return "INSUFFICIENT_INVENTORY"
	case RejectSelfTrade:
		return "SELF_TRADE_REJECTED"
	case RejectUnknownOrder:
		return "UNKNOWN_ORDER_FOR_CANCEL"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON serializes RejectReason as a human-readable string.
func (r RejectReason) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON deserializes RejectReason from a string.
func (r *RejectReason) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "INVALID_PRICE":
		*r = RejectInvalidPrice
	case "INSUFFICIENT_CASH":
		*r = RejectInsufficientCash
	case "INSUFFICIENT_INVENTORY":
		*r = RejectInsufficientInventory
	case "SELF_TRADE_REJECTED":
		*r = RejectSelfTrade
	case "UNKNOWN_ORDER_FOR_CANCEL":
		*r = RejectUnknownOrder
	default:
		return fmt.Errorf("unknown RejectReason: %s", data)
	}
	return nil
}

// Rejection records a refused action against the offending trader and tick.
type Rejection struct {
	Trader int          `json:"trader"`
	Tick   int          `json:"tick"`
	Reason RejectReason `json:"reason"`
	Action Action       `json:"action"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("trader %d tick %d: %s", r.Trader, r.Tick, r.Reason)
}

// --- Settlement ---

// Scoreboard is the final per-player payout, produced once at settlement.
type Scoreboard struct {
	Payouts     []int64 `json:"payouts"`
	GoalSuit    Suit    `json:"goal_suit"`
	GoalCount   int     `json:"goal_count"`
	PerCard     int64   `json:"per_card"`
	Remainder   int64   `json:"remainder"`
	RemainderTo int     `json:"remainder_to"` // -1 when remainder is zero
	Pot         int64   `json:"pot"`
}
