package upstream

import (
	"context"
	"fmt"

	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/providers/degentips"
	"github.com/ds8/tip-allowance/internal/providers/edit"
)

// Provider and points names accepted in configuration
const (
	DEGEN_TIPS       = degentips.PROVIDER_NAME
	EDIT             = edit.PROVIDER_NAME
	SEASON_POINTS    = "points"
	LIQUIDITY_POINTS = "liquidity_mining"
)

type degenTipsProvider struct {
	client degentips.Client
}

// NewDegenTipsProvider creates the per-wallet degen.tips allowance provider
func NewDegenTipsProvider(client degentips.Client) AllowanceProvider {
	return &degenTipsProvider{client: client}
}

func (p *degenTipsProvider) Name() string { return DEGEN_TIPS }

func (p *degenTipsProvider) Scope() Scope { return ScopeWallet }

func (p *degenTipsProvider) Fetch(ctx context.Context, _ domain.FID, wallet string) (domain.AllowanceQuote, error) {
	allowance, err := p.client.GetTipAllowance(ctx, wallet)
	if err != nil {
		return domain.NeutralQuote(DEGEN_TIPS), err
	}
	return quote(DEGEN_TIPS, allowance.TipAllowance, allowance.RemainingAllowance, allowance.UserRank), nil
}

type editProvider struct {
	client edit.Client
}

// NewEditProvider creates the per-identity degentip.me allowance provider
func NewEditProvider(client edit.Client) AllowanceProvider {
	return &editProvider{client: client}
}

func (p *editProvider) Name() string { return EDIT }

func (p *editProvider) Scope() Scope { return ScopeIdentity }

func (p *editProvider) Fetch(ctx context.Context, fid domain.FID, _ string) (domain.AllowanceQuote, error) {
	allowance, err := p.client.GetAllowance(ctx, fid)
	if err != nil {
		return domain.NeutralQuote(EDIT), err
	}
	return quote(EDIT, allowance.TipAllowance, allowance.RemainingAllowance, allowance.UserRank), nil
}

// quote turns upstream ceiling and remaining figures into a quote.
// The remaining figure is only used to derive prior consumption;
// without one the provider reports no prior consumption.
func quote(provider string, ceiling int64, remaining *int64, rank domain.Rank) domain.AllowanceQuote {
	q := domain.AllowanceQuote{
		Provider: provider,
		Ceiling:  ceiling,
		Rank:     rank,
	}
	if remaining != nil {
		q.PriorConsumed = ceiling - *remaining
	}
	return q
}

type pointsProvider struct {
	name  string
	fetch func(ctx context.Context, wallet string) (int64, error)
}

func (p *pointsProvider) Name() string { return p.name }

func (p *pointsProvider) Points(ctx context.Context, wallet string) (int64, error) {
	return p.fetch(ctx, wallet)
}

// NewSeasonPointsProvider creates the degen.tips season points provider
func NewSeasonPointsProvider(client degentips.Client) PointsProvider {
	return &pointsProvider{name: SEASON_POINTS, fetch: client.GetSeasonPoints}
}

// NewLiquidityPointsProvider creates the degen.tips liquidity mining points provider
func NewLiquidityPointsProvider(client degentips.Client) PointsProvider {
	return &pointsProvider{name: LIQUIDITY_POINTS, fetch: client.GetLiquidityMiningPoints}
}

// NewSet builds the allowance providers named in configuration, in order
func NewSet(names []string, mode Mode, degenClient degentips.Client, editClient edit.Client) (*Set, error) {
	set := &Set{Mode: mode}
	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("duplicate allowance provider %q", name)
		}
		seen[name] = true

		switch name {
		case DEGEN_TIPS:
			set.Providers = append(set.Providers, NewDegenTipsProvider(degenClient))
		case EDIT:
			set.Providers = append(set.Providers, NewEditProvider(editClient))
		default:
			return nil, fmt.Errorf("unknown allowance provider %q", name)
		}
	}
	return set, nil
}

// NewPointsProviders builds the points providers named in configuration
func NewPointsProviders(names []string, degenClient degentips.Client) ([]PointsProvider, error) {
	providers := make([]PointsProvider, 0, len(names))
	for _, name := range names {
		switch name {
		case SEASON_POINTS:
			providers = append(providers, NewSeasonPointsProvider(degenClient))
		case LIQUIDITY_POINTS:
			providers = append(providers, NewLiquidityPointsProvider(degenClient))
		default:
			return nil, fmt.Errorf("unknown points provider %q", name)
		}
	}
	return providers, nil
}
