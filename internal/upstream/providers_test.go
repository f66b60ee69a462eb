package upstream_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/mocks"
	"github.com/ds8/tip-allowance/internal/providers/degentips"
	"github.com/ds8/tip-allowance/internal/providers/edit"
	"github.com/ds8/tip-allowance/internal/upstream"
)

const wallet = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    upstream.Mode
		wantErr bool
	}{
		{input: "", want: upstream.ModeCombine},
		{input: "combine", want: upstream.ModeCombine},
		{input: " Fallback ", want: upstream.ModeFallback},
		{input: "race", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := upstream.ParseMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestDegenTipsProvider_Fetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockDegenTipsClient(ctrl)
	provider := upstream.NewDegenTipsProvider(client)

	client.EXPECT().GetTipAllowance(gomock.Any(), wallet).Return(&degentips.TipAllowance{
		TipAllowance:       5000,
		RemainingAllowance: int64Ptr(1200),
		UserRank:           123,
	}, nil)

	quote, err := provider.Fetch(context.Background(), 42, wallet)

	require.NoError(t, err)
	assert.Equal(t, upstream.DEGEN_TIPS, provider.Name())
	assert.Equal(t, upstream.ScopeWallet, provider.Scope())
	assert.Equal(t, domain.AllowanceQuote{
		Provider:      upstream.DEGEN_TIPS,
		Ceiling:       5000,
		PriorConsumed: 3800,
		Rank:          123,
	}, quote)
}

func TestDegenTipsProvider_ErrorIsNeutral(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockDegenTipsClient(ctrl)
	provider := upstream.NewDegenTipsProvider(client)

	client.EXPECT().GetTipAllowance(gomock.Any(), wallet).Return(nil, domain.ErrNoData)

	quote, err := provider.Fetch(context.Background(), 42, wallet)

	assert.ErrorIs(t, err, domain.ErrNoData)
	assert.Equal(t, domain.NeutralQuote(upstream.DEGEN_TIPS), quote)
}

func TestEditProvider_Fetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockEditClient(ctrl)
	provider := upstream.NewEditProvider(client)

	client.EXPECT().GetAllowance(gomock.Any(), domain.FID(42)).Return(&edit.Allowance{
		FID:                42,
		TipAllowance:       8000,
		RemainingAllowance: int64Ptr(8000),
		UserRank:           domain.Unranked,
	}, nil)

	quote, err := provider.Fetch(context.Background(), 42, "")

	require.NoError(t, err)
	assert.Equal(t, upstream.ScopeIdentity, provider.Scope())
	assert.Equal(t, int64(8000), quote.Ceiling)
	assert.Equal(t, int64(0), quote.PriorConsumed)
	assert.Equal(t, domain.Unranked, quote.Rank)
}

func int64Ptr(v int64) *int64 { return &v }

func TestProviders_MissingRemainingMeansNoPriorConsumption(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	degenClient := mocks.NewMockDegenTipsClient(ctrl)
	editClient := mocks.NewMockEditClient(ctrl)

	degenClient.EXPECT().GetTipAllowance(gomock.Any(), wallet).Return(&degentips.TipAllowance{
		TipAllowance: 5000,
		UserRank:     123,
	}, nil)
	editClient.EXPECT().GetAllowance(gomock.Any(), domain.FID(42)).Return(&edit.Allowance{
		FID:          42,
		TipAllowance: 8000,
		UserRank:     domain.Unranked,
	}, nil)

	degenQuote, err := upstream.NewDegenTipsProvider(degenClient).Fetch(context.Background(), 42, wallet)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), degenQuote.Ceiling)
	assert.Equal(t, int64(0), degenQuote.PriorConsumed)

	editQuote, err := upstream.NewEditProvider(editClient).Fetch(context.Background(), 42, "")
	require.NoError(t, err)
	assert.Equal(t, int64(8000), editQuote.Ceiling)
	assert.Equal(t, int64(0), editQuote.PriorConsumed)
}

func TestPointsProviders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockDegenTipsClient(ctrl)
	providers, err := upstream.NewPointsProviders([]string{upstream.SEASON_POINTS, upstream.LIQUIDITY_POINTS}, client)
	require.NoError(t, err)
	require.Len(t, providers, 2)

	client.EXPECT().GetSeasonPoints(gomock.Any(), wallet).Return(int64(4200), nil)
	client.EXPECT().GetLiquidityMiningPoints(gomock.Any(), wallet).Return(int64(0), domain.ErrNoData)

	assert.Equal(t, upstream.SEASON_POINTS, providers[0].Name())
	points, err := providers[0].Points(context.Background(), wallet)
	require.NoError(t, err)
	assert.Equal(t, int64(4200), points)

	assert.Equal(t, upstream.LIQUIDITY_POINTS, providers[1].Name())
	_, err = providers[1].Points(context.Background(), wallet)
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestNewPointsProviders_Unknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := upstream.NewPointsProviders([]string{"karma"}, mocks.NewMockDegenTipsClient(ctrl))
	assert.Error(t, err)
}

func TestNewSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	degenClient := mocks.NewMockDegenTipsClient(ctrl)
	editClient := mocks.NewMockEditClient(ctrl)

	t.Run("keeps configured order", func(t *testing.T) {
		set, err := upstream.NewSet([]string{upstream.EDIT, upstream.DEGEN_TIPS}, upstream.ModeFallback, degenClient, editClient)
		require.NoError(t, err)
		require.Len(t, set.Providers, 2)
		assert.Equal(t, upstream.EDIT, set.Providers[0].Name())
		assert.Equal(t, upstream.DEGEN_TIPS, set.Providers[1].Name())
		assert.Equal(t, upstream.ModeFallback, set.Mode)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := upstream.NewSet([]string{upstream.EDIT, upstream.EDIT}, upstream.ModeCombine, degenClient, editClient)
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := upstream.NewSet([]string{"warpcast"}, upstream.ModeCombine, degenClient, editClient)
		assert.Error(t, err)
	})
}
