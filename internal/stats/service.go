package stats

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/allowance"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/metrics"
)

// DEFAULT_REQUEST_TIMEOUT bounds one report computation
const DEFAULT_REQUEST_TIMEOUT = 8 * time.Second

// Degraded reasons added at the request boundary
const (
	REASON_IDENTITY = "identity"
	REASON_TIMEOUT  = "timeout"
)

// IdentityResolver resolves the wallets and profile of an identity
//
//go:generate mockgen -source=service.go -destination=../mocks/stats_service.go -package=mocks -mock_names=IdentityResolver=MockIdentityResolver,Service=MockStatsService
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, fid domain.FID) (*domain.Identity, error)
}

// Result is a report together with the identity it was computed for
type Result struct {
	Identity domain.Identity
	Report   *domain.AllowanceReport
}

// Service computes reports at the request boundary
type Service interface {
	// Report resolves fid and aggregates its report within the request timeout.
	// It never fails. An identity failure aggregates without wallets and marks the
	// report degraded; a timeout returns a fully degraded report.
	Report(ctx context.Context, fid domain.FID) *Result
}

type service struct {
	resolver   IdentityResolver
	aggregator Aggregator
	window     allowance.Window
	clock      adapter.Clock
	timeout    time.Duration
}

// NewService creates a report service
func NewService(resolver IdentityResolver, aggregator Aggregator, window allowance.Window, clock adapter.Clock, timeout time.Duration) Service {
	if timeout <= 0 {
		timeout = DEFAULT_REQUEST_TIMEOUT
	}
	return &service{
		resolver:   resolver,
		aggregator: aggregator,
		window:     window,
		clock:      clock,
		timeout:    timeout,
	}
}

func (s *service) Report(ctx context.Context, fid domain.FID) *Result {
	start := time.Now()
	defer func() {
		metrics.RecordReport(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	windowStart := s.window.Start(s.clock.Now())
	result := &Result{Identity: domain.Identity{FID: fid, Wallets: []string{}}}

	identity, identityErr := s.resolver.ResolveIdentity(ctx, fid)
	wallets := []string{}
	if identityErr != nil {
		// Identity-scoped providers and the tip fetcher only need the fid
		logger.WarnCtx(ctx, "Failed to resolve identity, aggregating without wallets",
			zap.Uint64("fid", uint64(fid)),
			zap.Error(identityErr),
		)
		metrics.RecordDegraded(REASON_IDENTITY)
	} else {
		result.Identity = *identity
		if identity.Wallets != nil {
			wallets = identity.Wallets
		}
	}

	done := make(chan *domain.AllowanceReport, 1)
	go func() {
		done <- s.aggregator.Aggregate(ctx, fid, wallets)
	}()

	select {
	case report := <-done:
		result.Report = report
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Report timed out, returning empty report",
			zap.Uint64("fid", uint64(fid)),
			zap.Duration("timeout", s.timeout),
		)
		metrics.RecordDegraded(REASON_TIMEOUT)
		result.Report = domain.EmptyReport(fid, windowStart, REASON_TIMEOUT)
	}

	if identityErr != nil {
		result.Report.Degraded = append(result.Report.Degraded, REASON_IDENTITY)
		sort.Strings(result.Report.Degraded)
	}

	return result
}
