package stats

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/allowance"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/metrics"
	"github.com/ds8/tip-allowance/internal/tips"
	"github.com/ds8/tip-allowance/internal/upstream"
)

// Aggregator assembles the allowance report of an identity
//
//go:generate mockgen -source=aggregator.go -destination=../mocks/stats_aggregator.go -package=mocks -mock_names=Aggregator=MockAggregator
type Aggregator interface {
	// Aggregate never fails; failed sources contribute neutral values and are listed in Degraded
	Aggregate(ctx context.Context, fid domain.FID, wallets []string) *domain.AllowanceReport
}

type aggregator struct {
	pool      pond.Pool
	providers *upstream.Set
	points    []upstream.PointsProvider
	fetcher   tips.Fetcher
	window    allowance.Window
	clock     adapter.Clock
	policy    allowance.RemainingPolicy
}

// NewAggregator creates an aggregator that runs its fan-out on pool
func NewAggregator(
	pool pond.Pool,
	providers *upstream.Set,
	points []upstream.PointsProvider,
	fetcher tips.Fetcher,
	window allowance.Window,
	clock adapter.Clock,
	policy allowance.RemainingPolicy,
) Aggregator {
	if providers == nil {
		providers = &upstream.Set{Mode: upstream.ModeCombine}
	}
	return &aggregator{
		pool:      pool,
		providers: providers,
		points:    points,
		fetcher:   fetcher,
		window:    window,
		clock:     clock,
		policy:    policy,
	}
}

// quoteResult is the outcome of one provider call
type quoteResult struct {
	quote domain.AllowanceQuote
	err   error
}

type pointsResult struct {
	name   string
	points int64
	err    error
}

// Aggregate fans out to the allowance providers, the points providers and the tip fetcher
func (a *aggregator) Aggregate(ctx context.Context, fid domain.FID, wallets []string) *domain.AllowanceReport {
	windowStart := a.window.Start(a.clock.Now())
	group := a.pool.NewGroup()

	// Every task owns its slot, so no locking is needed
	var quoteSlots [][]quoteResult
	if a.providers.Mode == upstream.ModeFallback && len(a.providers.Providers) > 0 {
		quoteSlots = make([][]quoteResult, 1)
		group.Submit(func() {
			quoteSlots[0] = a.fetchFallback(ctx, fid, wallets)
		})
	} else {
		type call struct {
			provider upstream.AllowanceProvider
			wallet   string
		}
		var calls []call
		for _, provider := range a.providers.Providers {
			for _, wallet := range subjects(provider, wallets) {
				calls = append(calls, call{provider: provider, wallet: wallet})
			}
		}
		quoteSlots = make([][]quoteResult, len(calls))
		for i, c := range calls {
			group.Submit(func() {
				quoteSlots[i] = []quoteResult{a.fetchQuote(ctx, c.provider, fid, c.wallet)}
			})
		}
	}

	pointsSlots := make([]pointsResult, len(a.points)*len(wallets))
	for i, provider := range a.points {
		for j, wallet := range wallets {
			idx := i*len(wallets) + j
			group.Submit(func() {
				pointsSlots[idx] = a.fetchPoints(ctx, provider, wallet)
			})
		}
	}

	var tipList []domain.TipRecord
	group.Submit(func() {
		tipList = a.fetcher.FetchTips(ctx, fid)
	})

	if err := group.Wait(); err != nil {
		// Tasks recover their own failures; a panic surfaces here
		logger.ErrorCtx(ctx, err, zap.Uint64("fid", uint64(fid)))
	}

	report := &domain.AllowanceReport{
		FID:         fid,
		WindowStart: windowStart,
		Rank:        domain.Unranked,
		Points:      make(map[string]int64, len(a.points)),
	}
	degraded := make(map[string]struct{})

	for _, slot := range quoteSlots {
		for _, result := range slot {
			if result.err != nil {
				if !errors.Is(result.err, domain.ErrNoData) {
					degraded[result.quote.Provider] = struct{}{}
				}
				continue
			}
			report.Ceiling += result.quote.Ceiling
			report.UpstreamConsumed += result.quote.PriorConsumed
			report.Rank = domain.BestRank(report.Rank, result.quote.Rank)
		}
	}

	for _, provider := range a.points {
		report.Points[provider.Name()] = 0
	}
	for _, result := range pointsSlots {
		if result.err != nil {
			if !errors.Is(result.err, domain.ErrNoData) {
				degraded[result.name] = struct{}{}
			}
			continue
		}
		report.Points[result.name] += result.points
	}

	report.TipCount = len(tipList)
	report.Consumed = allowance.Consumed(tipList, report.Ceiling)
	report.Remaining = allowance.Remaining(a.policy, report.Ceiling, report.Consumed, report.UpstreamConsumed)

	for source := range degraded {
		report.Degraded = append(report.Degraded, source)
		metrics.RecordDegraded(source)
	}
	sort.Strings(report.Degraded)

	return report
}

// fetchFallback walks the providers in order and keeps the first one that returned data
func (a *aggregator) fetchFallback(ctx context.Context, fid domain.FID, wallets []string) []quoteResult {
	var failed []quoteResult
	for _, provider := range a.providers.Providers {
		var results []quoteResult
		hasData := false
		for _, wallet := range subjects(provider, wallets) {
			result := a.fetchQuote(ctx, provider, fid, wallet)
			if result.err == nil {
				hasData = true
			}
			results = append(results, result)
		}
		if hasData {
			return append(failed, results...)
		}
		for _, result := range results {
			if result.err != nil && !errors.Is(result.err, domain.ErrNoData) {
				failed = append(failed, result)
			}
		}
	}
	return failed
}

func (a *aggregator) fetchQuote(ctx context.Context, provider upstream.AllowanceProvider, fid domain.FID, wallet string) quoteResult {
	start := time.Now()
	quote, err := provider.Fetch(ctx, fid, wallet)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrNoData) {
			outcome = "no_data"
		} else {
			logger.WarnCtx(ctx, "Allowance provider failed, using neutral quote",
				zap.String("provider", provider.Name()),
				zap.Uint64("fid", uint64(fid)),
				zap.String("wallet", wallet),
				zap.Error(err),
			)
		}
		metrics.RecordUpstream(provider.Name(), outcome, elapsed)
		return quoteResult{quote: domain.NeutralQuote(provider.Name()), err: err}
	}

	metrics.RecordUpstream(provider.Name(), "ok", elapsed)
	quote.Provider = provider.Name()
	if !quote.Rank.IsRanked() {
		quote.Rank = domain.Unranked
	}
	return quoteResult{quote: quote}
}

func (a *aggregator) fetchPoints(ctx context.Context, provider upstream.PointsProvider, wallet string) pointsResult {
	start := time.Now()
	points, err := provider.Points(ctx, wallet)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrNoData) {
			outcome = "no_data"
		} else {
			logger.WarnCtx(ctx, "Points provider failed, using zero points",
				zap.String("provider", provider.Name()),
				zap.String("wallet", wallet),
				zap.Error(err),
			)
		}
		metrics.RecordUpstream(provider.Name(), outcome, elapsed)
		return pointsResult{name: provider.Name(), err: err}
	}

	metrics.RecordUpstream(provider.Name(), "ok", elapsed)
	return pointsResult{name: provider.Name(), points: points}
}

// subjects lists the wallet argument of each call to provider.
// Identity scoped providers are called once with an empty wallet.
func subjects(provider upstream.AllowanceProvider, wallets []string) []string {
	if provider.Scope() == upstream.ScopeIdentity {
		return []string{""}
	}
	return wallets
}
