package upstream

import (
	"context"
	"fmt"
	"strings"

	"github.com/ds8/tip-allowance/internal/domain"
)

// Scope tells the aggregator how often a provider is called per identity
type Scope string

const (
	// ScopeWallet providers are called once per verified wallet
	ScopeWallet Scope = "wallet"
	// ScopeIdentity providers are called once per identity
	ScopeIdentity Scope = "identity"
)

// Mode selects how several allowance providers are combined
type Mode string

const (
	// ModeCombine queries every provider and adds their quotes together
	ModeCombine Mode = "combine"
	// ModeFallback uses the first provider, in configured order, that returns data
	ModeFallback Mode = "fallback"
)

// ParseMode parses a provider mode, defaulting to combine
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeCombine:
		return ModeCombine, nil
	case ModeFallback:
		return ModeFallback, nil
	default:
		return "", fmt.Errorf("unknown provider mode %q", s)
	}
}

// AllowanceProvider reports the ceiling, prior consumption and rank of an allowance
//
//go:generate mockgen -source=provider.go -destination=../mocks/upstream.go -package=mocks -mock_names=AllowanceProvider=MockAllowanceProvider,PointsProvider=MockPointsProvider
type AllowanceProvider interface {
	// Name identifies the provider in logs, metrics and degraded lists
	Name() string

	// Scope is ScopeWallet or ScopeIdentity
	Scope() Scope

	// Fetch returns a quote for fid (identity scope) or wallet (wallet scope).
	// domain.ErrNoData means the provider knows nothing about the subject.
	Fetch(ctx context.Context, fid domain.FID, wallet string) (domain.AllowanceQuote, error)
}

// PointsProvider reports reward points of a wallet
type PointsProvider interface {
	// Name is the key of the points in AllowanceReport.Points
	Name() string

	// Points returns the points of wallet, or domain.ErrNoData
	Points(ctx context.Context, wallet string) (int64, error)
}

// Set is the configured list of allowance providers and how to combine them
type Set struct {
	Providers []AllowanceProvider
	Mode      Mode
}
