package raindrop

import (
	"context"
	"math"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/metrics"
	"github.com/ds8/tip-allowance/internal/providers/airstack"
	"github.com/ds8/tip-allowance/internal/store"
)

// Config names the token and wallet deposits are counted for
type Config struct {
	TokenAddress string
	RainWallet   string
	// NetPercent is the share of deposits left after the collection fee
	NetPercent int64
}

// DefaultConfig counts DEGEN deposits to the rain wallet with a 2% fee
var DefaultConfig = Config{
	TokenAddress: domain.DEGEN_CONTRACT_ADDRESS,
	RainWallet:   domain.DEGEN_RAIN_WALLET,
	NetPercent:   domain.RAINDROP_NET_PERCENT,
}

// Service computes raindrop balances
//
//go:generate mockgen -source=service.go -destination=../mocks/raindrop.go -package=mocks -mock_names=Service=MockRaindropService
type Service interface {
	// Balance never fails; each unknown side of the balance is nil
	Balance(ctx context.Context, fid domain.FID, wallets []string) domain.RaindropBalance
}

type service struct {
	pool      pond.Pool
	transfers airstack.Client
	store     store.Store
	config    Config
}

// NewService creates a raindrop balance service
func NewService(pool pond.Pool, transfers airstack.Client, s store.Store, config Config) Service {
	if config.TokenAddress == "" {
		config.TokenAddress = DefaultConfig.TokenAddress
	}
	if config.RainWallet == "" {
		config.RainWallet = DefaultConfig.RainWallet
	}
	if config.NetPercent <= 0 {
		config.NetPercent = DefaultConfig.NetPercent
	}
	return &service{
		pool:      pool,
		transfers: transfers,
		store:     s,
		config:    config,
	}
}

// Balance sums deposits to the rain wallet net of fees and subtracts the raindrops already cast
func (s *service) Balance(ctx context.Context, fid domain.FID, wallets []string) domain.RaindropBalance {
	var deposited, used *float64

	group := s.pool.NewGroup()
	group.Submit(func() {
		deposited = s.deposited(ctx, fid, wallets)
	})
	group.Submit(func() {
		used = s.used(ctx, fid)
	})
	if err := group.Wait(); err != nil {
		logger.ErrorCtx(ctx, err, zap.Uint64("fid", uint64(fid)))
	}

	var balance domain.RaindropBalance
	switch {
	case deposited == nil && used == nil:
	case deposited == nil:
		remaining := -int64(math.Round(*used))
		balance.Remaining = &remaining
	default:
		total := int64(math.Round(*deposited * float64(s.config.NetPercent) / 100))
		balance.Total = &total
		if used != nil {
			remaining := int64(math.Round(float64(total) - *used))
			balance.Remaining = &remaining
		}
	}

	return balance
}

func (s *service) deposited(ctx context.Context, fid domain.FID, wallets []string) *float64 {
	transfers, err := s.transfers.FetchTokenTransfers(ctx, wallets, s.config.RainWallet, s.config.TokenAddress)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to fetch raindrop deposits",
			zap.Uint64("fid", uint64(fid)),
			zap.Int("wallets", len(wallets)),
			zap.Error(err),
		)
		metrics.RecordDegraded("raindrop_deposits")
		return nil
	}

	var total float64
	for _, transfer := range transfers {
		total += transfer.FormattedAmount
	}
	return &total
}

func (s *service) used(ctx context.Context, fid domain.FID) *float64 {
	used, err := s.store.SumRaindropsUsed(ctx, fid.String())
	if err != nil {
		logger.WarnCtx(ctx, "Failed to sum raindrops used",
			zap.Uint64("fid", uint64(fid)),
			zap.Error(err),
		)
		metrics.RecordDegraded("raindrop_used")
		return nil
	}
	return &used
}
