package allowance

import (
	"fmt"
	"sort"

	"github.com/ds8/tip-allowance/internal/domain"
)

// Consumed returns the amount of the ceiling validly spent by tips.
//
// Tips are applied in posting order (stable for equal timestamps). A tip is
// counted only when it fits in what is left of the ceiling; a tip that would
// overflow is rejected outright and never partially applied, while later
// smaller tips may still fit. This mirrors an allowance spent cast by cast
// and is not the same as summing everything and clamping at the ceiling:
// with a ceiling of 100, tips [60, 50, 30] consume 90, not 100.
func Consumed(tips []domain.TipRecord, ceiling int64) int64 {
	if ceiling <= 0 || len(tips) == 0 {
		return 0
	}

	ordered := make([]domain.TipRecord, len(tips))
	copy(ordered, tips)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PostedAt.Before(ordered[j].PostedAt)
	})

	var total int64
	for _, tip := range ordered {
		if tip.Amount <= 0 {
			continue
		}
		if tip.Amount > ceiling-total {
			continue
		}
		total += tip.Amount
	}

	return total
}

// RemainingPolicy selects how the remaining allowance is derived
type RemainingPolicy string

const (
	// RemainingLocal subtracts the locally reconstructed consumption
	RemainingLocal RemainingPolicy = "local"
	// RemainingClamped is RemainingLocal floored at zero
	RemainingClamped RemainingPolicy = "clamped"
	// RemainingUpstream subtracts the consumption reported by the upstream providers
	RemainingUpstream RemainingPolicy = "upstream"
)

// ParseRemainingPolicy validates a configured policy name. Empty selects RemainingLocal.
func ParseRemainingPolicy(s string) (RemainingPolicy, error) {
	switch p := RemainingPolicy(s); p {
	case "":
		return RemainingLocal, nil
	case RemainingLocal, RemainingClamped, RemainingUpstream:
		return p, nil
	default:
		return "", fmt.Errorf("unknown remaining policy %q", s)
	}
}

// Remaining derives the remaining allowance. The result may be negative under
// RemainingUpstream when the upstream consumption exceeds the ceiling.
func Remaining(policy RemainingPolicy, ceiling, consumed, upstreamConsumed int64) int64 {
	switch policy {
	case RemainingClamped:
		return max(ceiling-consumed, 0)
	case RemainingUpstream:
		return ceiling - upstreamConsumed
	default:
		return ceiling - consumed
	}
}
