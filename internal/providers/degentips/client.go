package degentips

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/ratelimit"
)

const (
	PROVIDER_NAME = "degentips"

	// API_ENDPOINT is the base URL of the degen.tips API
	API_ENDPOINT = "https://www.degen.tips"

	tipAllowancePath    = "/api/airdrop2/tip-allowance"
	seasonPointsPath    = "/api/airdrop2/season2/points"
	liquidityPointsPath = "/api/liquidity-mining/season2/points"
)

// TipAllowance is the allowance of one wallet as reported by degen.tips
type TipAllowance struct {
	DisplayName        string
	TipAllowance       int64
	RemainingAllowance *int64 // nil when degen.tips omits it
	UserRank           domain.Rank
}

// Client defines the interface for degen.tips client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/degentips_client.go -package=mocks -mock_names=Client=MockDegenTipsClient
type Client interface {
	// GetTipAllowance returns the current allowance of a wallet, or domain.ErrNoData
	GetTipAllowance(ctx context.Context, address string) (*TipAllowance, error)

	// GetSeasonPoints returns the airdrop season points of a wallet, or domain.ErrNoData
	GetSeasonPoints(ctx context.Context, address string) (int64, error)

	// GetLiquidityMiningPoints returns the liquidity mining points of a wallet, or domain.ErrNoData
	GetLiquidityMiningPoints(ctx context.Context, address string) (int64, error)
}

// DegenTipsClient implements the degen.tips client
type DegenTipsClient struct {
	httpClient adapter.HTTPClient
	proxy      ratelimit.Proxy
	apiBaseURL string
}

// NewClient creates a new degen.tips client
func NewClient(httpClient adapter.HTTPClient, proxy ratelimit.Proxy, apiBaseURL string) Client {
	if apiBaseURL == "" {
		apiBaseURL = API_ENDPOINT
	}
	return &DegenTipsClient{
		httpClient: httpClient,
		proxy:      proxy,
		apiBaseURL: apiBaseURL,
	}
}

// GetTipAllowance fetches the tip allowance of a wallet
func (c *DegenTipsClient) GetTipAllowance(ctx context.Context, address string) (*TipAllowance, error) {
	item, err := c.firstItem(ctx, tipAllowancePath, address)
	if err != nil {
		return nil, err
	}

	rank := domain.Rank(item.Get("user_rank").Int())
	if !rank.IsRanked() {
		rank = domain.Unranked
	}

	// Numeric fields are encoded as strings; gjson parses both forms
	return &TipAllowance{
		DisplayName:        item.Get("display_name").String(),
		TipAllowance:       item.Get("tip_allowance").Int(),
		RemainingAllowance: optionalInt(item.Get("remaining_allowance")),
		UserRank:           rank,
	}, nil
}

// optionalInt returns nil for an absent or null field
func optionalInt(field gjson.Result) *int64 {
	if !field.Exists() || field.Type == gjson.Null {
		return nil
	}
	v := field.Int()
	return &v
}

// GetSeasonPoints fetches the season points of a wallet
func (c *DegenTipsClient) GetSeasonPoints(ctx context.Context, address string) (int64, error) {
	item, err := c.firstItem(ctx, seasonPointsPath, address)
	if err != nil {
		return 0, err
	}
	return item.Get("points").Int(), nil
}

// GetLiquidityMiningPoints fetches the liquidity mining points of a wallet
func (c *DegenTipsClient) GetLiquidityMiningPoints(ctx context.Context, address string) (int64, error) {
	item, err := c.firstItem(ctx, liquidityPointsPath, address)
	if err != nil {
		return 0, err
	}
	return item.Get("points").Int(), nil
}

// firstItem calls a per-address endpoint and returns the first element of the array response
func (c *DegenTipsClient) firstItem(ctx context.Context, path, address string) (gjson.Result, error) {
	endpoint := fmt.Sprintf("%s%s?address=%s", c.apiBaseURL, path, url.QueryEscape(address))

	body, err := ratelimit.Request(ctx, c.proxy, PROVIDER_NAME, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.GetBytes(ctx, endpoint, nil)
	})
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: failed to call degen.tips API: %w", domain.ErrUpstreamUnavailable, err)
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: invalid degen.tips response for %s", domain.ErrUpstreamUnavailable, path)
	}

	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return gjson.Result{}, fmt.Errorf("%w: unexpected degen.tips response for %s", domain.ErrUpstreamUnavailable, path)
	}

	items := result.Array()
	if len(items) == 0 {
		return gjson.Result{}, domain.ErrNoData
	}

	return items[0], nil
}
