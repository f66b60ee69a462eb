package edit

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/ratelimit"
)

const (
	PROVIDER_NAME = "edit"

	// API_ENDPOINT is the base URL of the degentip.me API
	API_ENDPOINT = "https://www.degentip.me"
)

// Allowance is the allowance snapshot of an identity
type Allowance struct {
	FID                domain.FID
	TipAllowance       int64
	RemainingAllowance *int64 // nil when degentip.me omits it
	UserRank           domain.Rank
	DisplayName        string
	Username           string
	AvatarURL          string
	SnapshotDate       string
}

// Client defines the interface for degentip.me client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/edit_client.go -package=mocks -mock_names=Client=MockEditClient
type Client interface {
	// GetAllowance returns the allowance of an identity, or domain.ErrNoData
	GetAllowance(ctx context.Context, fid domain.FID) (*Allowance, error)
}

// EditClient implements the degentip.me client
type EditClient struct {
	httpClient adapter.HTTPClient
	proxy      ratelimit.Proxy
	apiBaseURL string
}

// NewClient creates a new degentip.me client
func NewClient(httpClient adapter.HTTPClient, proxy ratelimit.Proxy, apiBaseURL string) Client {
	if apiBaseURL == "" {
		apiBaseURL = API_ENDPOINT
	}
	return &EditClient{
		httpClient: httpClient,
		proxy:      proxy,
		apiBaseURL: apiBaseURL,
	}
}

// GetAllowance fetches the allowance of an identity
func (c *EditClient) GetAllowance(ctx context.Context, fid domain.FID) (*Allowance, error) {
	endpoint := fmt.Sprintf("%s/api/get_allowance?fid=%d", c.apiBaseURL, fid)

	body, err := ratelimit.Request(ctx, c.proxy, PROVIDER_NAME, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.GetBytes(ctx, endpoint, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to call degentip.me API: %w", domain.ErrUpstreamUnavailable, err)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid degentip.me response", domain.ErrUpstreamUnavailable)
	}

	result := gjson.ParseBytes(body)
	if msg := result.Get("Error").String(); msg != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoData, msg)
	}

	allowance := result.Get("allowance")
	if !allowance.Exists() || allowance.Type == gjson.Null {
		return nil, domain.ErrNoData
	}

	rank := domain.Rank(allowance.Get("user_rank").Int())
	if !rank.IsRanked() {
		rank = domain.Unranked
	}

	return &Allowance{
		FID:                fid,
		TipAllowance:       allowance.Get("tip_allowance").Int(),
		RemainingAllowance: optionalInt(allowance.Get("remaining_allowance")),
		UserRank:           rank,
		DisplayName:        allowance.Get("display_name").String(),
		Username:           allowance.Get("fname").String(),
		AvatarURL:          allowance.Get("avatar_url").String(),
		SnapshotDate:       allowance.Get("snapshot_date").String(),
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
