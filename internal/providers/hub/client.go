package hub

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/ratelimit"
)

const (
	PROVIDER_NAME = "hub"

	// DEFAULT_HUB_URL is the Airstack hosted Farcaster hub
	DEFAULT_HUB_URL = "https://hubs.airstack.xyz"

	// HUB_API_KEY_HEADER carries the Airstack key on hub requests
	HUB_API_KEY_HEADER = "x-airstack-hubs"
)

// Farcaster user data types
const (
	USER_DATA_TYPE_PFP      = "USER_DATA_TYPE_PFP"
	USER_DATA_TYPE_DISPLAY  = "USER_DATA_TYPE_DISPLAY"
	USER_DATA_TYPE_USERNAME = "USER_DATA_TYPE_USERNAME"
)

// Client defines the interface for Farcaster hub operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/hub_client.go -package=mocks -mock_names=Client=MockHubClient
type Client interface {
	// GetVerifiedAddresses returns the checksummed Ethereum addresses verified by fid
	GetVerifiedAddresses(ctx context.Context, fid domain.FID) ([]string, error)

	// GetProfile returns the latest user data of fid
	GetProfile(ctx context.Context, fid domain.FID) (*domain.Profile, error)

	// ResolveIdentity returns the wallets and profile of fid
	ResolveIdentity(ctx context.Context, fid domain.FID) (*domain.Identity, error)
}

// HubClient implements the hub client over the hub HTTP API
type HubClient struct {
	httpClient adapter.HTTPClient
	proxy      ratelimit.Proxy
	hubURL     string
	apiKey     string
}

// NewClient creates a new hub client
func NewClient(httpClient adapter.HTTPClient, proxy ratelimit.Proxy, hubURL, apiKey string) Client {
	if hubURL == "" {
		hubURL = DEFAULT_HUB_URL
	}
	return &HubClient{
		httpClient: httpClient,
		proxy:      proxy,
		hubURL:     hubURL,
		apiKey:     apiKey,
	}
}

// GetVerifiedAddresses fetches verification messages and keeps the Ethereum ones
func (c *HubClient) GetVerifiedAddresses(ctx context.Context, fid domain.FID) ([]string, error) {
	result, err := c.get(ctx, fmt.Sprintf("%s/v1/verificationsByFid?fid=%d", c.hubURL, fid))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	addresses := []string{}
	for _, message := range result.Get("messages").Array() {
		raw := message.Get("data.verificationAddAddressBody.address").String()
		if raw == "" {
			raw = message.Get("data.verificationAddEthAddressBody.address").String()
		}

		// Non-Ethereum verifications (Solana) are not hex addresses
		address, ok := domain.NormalizeEthereumAddress(raw)
		if !ok {
			continue
		}
		if _, dup := seen[address]; dup {
			continue
		}
		seen[address] = struct{}{}
		addresses = append(addresses, address)
	}

	return addresses, nil
}

// GetProfile fetches user data messages; later messages override earlier ones
func (c *HubClient) GetProfile(ctx context.Context, fid domain.FID) (*domain.Profile, error) {
	result, err := c.get(ctx, fmt.Sprintf("%s/v1/userDataByFid?fid=%d", c.hubURL, fid))
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{}
	for _, message := range result.Get("messages").Array() {
		body := message.Get("data.userDataBody")
		value := body.Get("value").String()
		switch body.Get("type").String() {
		case USER_DATA_TYPE_DISPLAY:
			profile.DisplayName = value
		case USER_DATA_TYPE_PFP:
			profile.AvatarURL = value
		case USER_DATA_TYPE_USERNAME:
			profile.Username = value
		}
	}

	return profile, nil
}

// ResolveIdentity resolves wallets and profile. Wallets are required; a profile failure is logged and left empty.
func (c *HubClient) ResolveIdentity(ctx context.Context, fid domain.FID) (*domain.Identity, error) {
	wallets, err := c.GetVerifiedAddresses(ctx, fid)
	if err != nil {
		return nil, err
	}

	identity := &domain.Identity{
		FID:     fid,
		Wallets: wallets,
	}

	profile, err := c.GetProfile(ctx, fid)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to fetch profile", zap.Uint64("fid", uint64(fid)), zap.Error(err))
	} else {
		identity.Profile = *profile
	}

	return identity, nil
}

func (c *HubClient) get(ctx context.Context, url string) (gjson.Result, error) {
	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{HUB_API_KEY_HEADER: c.apiKey}
	}

	body, err := ratelimit.Request(ctx, c.proxy, PROVIDER_NAME, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.GetBytes(ctx, url, headers)
	})
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: failed to call hub: %w", domain.ErrUpstreamUnavailable, err)
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: invalid hub response", domain.ErrUpstreamUnavailable)
	}

	return gjson.ParseBytes(body), nil
}
