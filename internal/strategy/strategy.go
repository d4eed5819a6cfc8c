// Package strategy defines the pluggable decision contract polled by
// the round scheduler, and the built-in strategy variants.
package strategy

import (
	"fmt"

	"github.com/jeremiahvuong/figgie/internal/domain"
	"github.com/jeremiahvuong/figgie/internal/market"
)

// Strategy is the sole extension point of the sandbox. Decide is called
// exactly once per scheduled tick and must return exactly one action.
// Implementations may keep private mutable state across ticks; they
// never see game state beyond the snapshot.
type Strategy interface {
	Name() string
	Decide(snap *market.Snapshot) domain.Action
}

// New builds a strategy by kind name. Each instance gets its own seed
// so rounds stay reproducible regardless of how many strategies share
// a kind.
func New(kind string, player int, seed int64) (Strategy, error) {
	switch kind {
	case "noisy":
		return NewNoisy(player, seed), nil
	case "spread":
		return NewSpread(player, seed), nil
	case "fundamental":
		return NewFundamental(player, seed), nil
	default:
		return nil, fmt.Errorf("unknown strategy kind: %q", kind)
	}
}

// Kinds lists the built-in strategy kinds.
func Kinds() []string {
	return []string{"noisy", "spread", "fundamental"}
}

// tagger hands out unique client tags for one player's orders.
type tagger struct {
	player int
	next   uint64
}

func (t *tagger) tag(prefix string) string {
	t.next++
	return fmt.Sprintf("%s%d-%d", prefix, t.player, t.next)
}
