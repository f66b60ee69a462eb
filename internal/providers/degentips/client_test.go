package degentips_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/mocks"
	"github.com/ds8/tip-allowance/internal/providers/degentips"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

const (
	baseURL = "https://degen.test"
	wallet  = "0x9b5D2a5C6e5f4B3a2C1d0E9f8A7b6C5d4E3f2A1b"
)

func setupClient(t *testing.T) (degentips.Client, *mocks.MockHTTPClient) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	httpClient := mocks.NewMockHTTPClient(ctrl)
	return degentips.NewClient(httpClient, nil, baseURL), httpClient
}

func TestGetTipAllowance(t *testing.T) {
	client, httpClient := setupClient(t)

	httpClient.EXPECT().
		GetBytes(gomock.Any(), baseURL+"/api/airdrop2/tip-allowance?address="+wallet, gomock.Nil()).
		Return([]byte(`[{"snapshot_date":"2024-04-02T00:00:00.000Z","user_rank":"123","wallet_address":"0x9b5d","avatar_url":"","display_name":"Alice","tip_allowance":"5000","remaining_allowance":"1200"}]`), nil)

	allowance, err := client.GetTipAllowance(context.Background(), wallet)

	require.NoError(t, err)
	assert.Equal(t, &degentips.TipAllowance{
		DisplayName:        "Alice",
		TipAllowance:       5000,
		RemainingAllowance: int64Ptr(1200),
		UserRank:           123,
	}, allowance)
}

func TestGetTipAllowance_NumericFieldsAndMissingRank(t *testing.T) {
	client, httpClient := setupClient(t)

	httpClient.EXPECT().GetBytes(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte(`[{"tip_allowance":300,"remaining_allowance":0}]`), nil)

	allowance, err := client.GetTipAllowance(context.Background(), wallet)

	require.NoError(t, err)
	assert.Equal(t, int64(300), allowance.TipAllowance)
	assert.Equal(t, int64Ptr(0), allowance.RemainingAllowance)
	assert.Equal(t, domain.Unranked, allowance.UserRank)
}

func int64Ptr(v int64) *int64 { return &v }

func TestGetTipAllowance_MissingRemaining(t *testing.T) {
	client, httpClient := setupClient(t)

	httpClient.EXPECT().GetBytes(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte(`[{"user_rank":"5","tip_allowance":"5000"}]`), nil)

	allowance, err := client.GetTipAllowance(context.Background(), wallet)

	require.NoError(t, err)
	assert.Equal(t, int64(5000), allowance.TipAllowance)
	assert.Nil(t, allowance.RemainingAllowance)
}

func TestGetTipAllowance_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    []byte
		err     error
		wantErr error
	}{
		{name: "empty array", body: []byte(`[]`), wantErr: domain.ErrNoData},
		{name: "transport error", err: errors.New("timeout"), wantErr: domain.ErrUpstreamUnavailable},
		{name: "invalid json", body: []byte(`[{`), wantErr: domain.ErrUpstreamUnavailable},
		{name: "object instead of array", body: []byte(`{"error":"nope"}`), wantErr: domain.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, httpClient := setupClient(t)
			httpClient.EXPECT().GetBytes(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.body, tt.err)

			allowance, err := client.GetTipAllowance(context.Background(), wallet)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, allowance)
		})
	}
}

func TestGetSeasonPoints(t *testing.T) {
	client, httpClient := setupClient(t)

	httpClient.EXPECT().
		GetBytes(gomock.Any(), baseURL+"/api/airdrop2/season2/points?address="+wallet, gomock.Nil()).
		Return([]byte(`[{"wallet_address":"0x9b5d","points":"4200"}]`), nil)

	points, err := client.GetSeasonPoints(context.Background(), wallet)

	require.NoError(t, err)
	assert.Equal(t, int64(4200), points)
}

func TestGetLiquidityMiningPoints(t *testing.T) {
	client, httpClient := setupClient(t)

	httpClient.EXPECT().
		GetBytes(gomock.Any(), baseURL+"/api/liquidity-mining/season2/points?address="+wallet, gomock.Nil()).
		Return([]byte(`[]`), nil)

	_, err := client.GetLiquidityMiningPoints(context.Background(), wallet)

	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestNewClient_DefaultEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := degentips.NewClient(httpClient, nil, "")

	httpClient.EXPECT().
		GetBytes(gomock.Any(), degentips.API_ENDPOINT+"/api/airdrop2/season2/points?address="+wallet, gomock.Any()).
		Return([]byte(`[{"points":1}]`), nil)

	points, err := client.GetSeasonPoints(context.Background(), wallet)

	require.NoError(t, err)
	assert.Equal(t, int64(1), points)
}
