package airstack

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/ratelimit"
)

const (
	PROVIDER_NAME   = "airstack"
	DEFAULT_API_URL = "https://api.airstack.xyz/gql"

	// Page size requested from the API and the page cap per call.
	// Hitting the cap with a cursor left is an error, never a partial result.
	pageLimit = 200
	maxPages  = 10
)

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query         string      `json:"query"`
	Variables     interface{} `json:"variables"`
	OperationName string      `json:"operationName"`
}

// GraphQLError is one entry of the GraphQL errors array
type GraphQLError struct {
	Message string `json:"message"`
}

// PageInfo carries the pagination cursor
type PageInfo struct {
	NextCursor string `json:"nextCursor"`
}

// Cast is a Farcaster cast as returned by the FarcasterCasts query
type Cast struct {
	CastedAtTimestamp string `json:"castedAtTimestamp"`
	URL               string `json:"url"`
	Hash              string `json:"hash"`
	Text              string `json:"text"`
	Channel           *struct {
		ChannelID string `json:"channelId"`
	} `json:"channel"`
	ParentFid string `json:"parentFid"`
}

// CastsResponse represents the FarcasterCasts response
type CastsResponse struct {
	Data struct {
		FarcasterCasts *struct {
			Cast     []Cast   `json:"Cast"`
			PageInfo PageInfo `json:"pageInfo"`
		} `json:"FarcasterCasts"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// TokenTransfer is an ERC20 transfer as returned by the TokenTransfers query
type TokenTransfer struct {
	Amount          string  `json:"amount"`
	FormattedAmount float64 `json:"formattedAmount"`
	BlockTimestamp  string  `json:"blockTimestamp"`
}

// TokenTransfersResponse represents the TokenTransfers response
type TokenTransfersResponse struct {
	Data struct {
		TokenTransfers *struct {
			TokenTransfer []TokenTransfer `json:"TokenTransfer"`
			PageInfo      PageInfo        `json:"pageInfo"`
		} `json:"TokenTransfers"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// Client defines the interface for Airstack client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/airstack_client.go -package=mocks -mock_names=Client=MockAirstackClient
type Client interface {
	// FetchPosts returns casts authored by fid at or after since
	FetchPosts(ctx context.Context, fid domain.FID, since time.Time) ([]domain.Post, error)

	// FetchTokenTransfers returns transfers of token from any of the senders to recipient on Base
	FetchTokenTransfers(ctx context.Context, senders []string, recipient, token string) ([]TokenTransfer, error)
}

// AirstackClient implements the Airstack client
type AirstackClient struct {
	httpClient adapter.HTTPClient
	proxy      ratelimit.Proxy
	apiURL     string
	apiKey     string
	json       adapter.JSON
}

// NewClient creates a new Airstack client
func NewClient(httpClient adapter.HTTPClient, proxy ratelimit.Proxy, apiURL, apiKey string, json adapter.JSON) Client {
	if apiURL == "" {
		apiURL = DEFAULT_API_URL
	}
	return &AirstackClient{
		httpClient: httpClient,
		proxy:      proxy,
		apiURL:     apiURL,
		apiKey:     apiKey,
		json:       json,
	}
}

// FetchPosts pages through FarcasterCasts for fid since the given time
func (c *AirstackClient) FetchPosts(ctx context.Context, fid domain.FID, since time.Time) ([]domain.Post, error) {
	var posts []domain.Post
	cursor := ""

	for page := 0; page < maxPages; page++ {
		query := fmt.Sprintf(`query FetchCasts {
  FarcasterCasts(
    input: {
      filter: {
        castedBy: {_eq: "fc_fid:%d"}
        castedAtTimestamp: {_gte: "%s"}
      }
      blockchain: ALL
      limit: %d
      cursor: %s
    }
  ) {
    Cast {
      castedAtTimestamp
      url
      hash
      text
      channel {
        channelId
      }
      parentFid
    }
    pageInfo {
      nextCursor
    }
  }
}`, fid, since.UTC().Format(time.RFC3339), pageLimit, strconv.Quote(cursor))

		var response CastsResponse
		if err := c.query(ctx, query, "FetchCasts", &response); err != nil {
			return nil, err
		}
		if len(response.Errors) > 0 {
			return nil, fmt.Errorf("%w: airstack casts query: %s", domain.ErrUpstreamUnavailable, response.Errors[0].Message)
		}
		if response.Data.FarcasterCasts == nil {
			cursor = ""
			break
		}

		for _, cast := range response.Data.FarcasterCasts.Cast {
			post, err := castToPost(fid, cast)
			if err != nil {
				return nil, err
			}
			posts = append(posts, post)
		}

		cursor = response.Data.FarcasterCasts.PageInfo.NextCursor
		if cursor == "" {
			break
		}
	}

	// A truncated list must not be cached as the complete window
	if cursor != "" {
		return nil, fmt.Errorf("%w: airstack casts for fid %d exceed %d pages", domain.ErrUpstreamUnavailable, fid, maxPages)
	}

	return posts, nil
}

// FetchTokenTransfers pages through TokenTransfers on Base
func (c *AirstackClient) FetchTokenTransfers(ctx context.Context, senders []string, recipient, token string) ([]TokenTransfer, error) {
	if len(senders) == 0 {
		return nil, nil
	}

	from, err := c.json.Marshal(senders)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal senders: %w", err)
	}

	var transfers []TokenTransfer
	cursor := ""

	for page := 0; page < maxPages; page++ {
		query := fmt.Sprintf(`query FetchTokenTransfers {
  TokenTransfers(
    input: {
      filter: {
        from: {_in: %s}
        to: {_eq: "%s"}
        tokenAddress: {_eq: "%s"}
      }
      blockchain: base
      limit: %d
      cursor: %s
    }
  ) {
    TokenTransfer {
      amount
      formattedAmount
      blockTimestamp
    }
    pageInfo {
      nextCursor
    }
  }
}`, string(from), recipient, token, pageLimit, strconv.Quote(cursor))

		var response TokenTransfersResponse
		if err := c.query(ctx, query, "FetchTokenTransfers", &response); err != nil {
			return nil, err
		}
		if len(response.Errors) > 0 {
			return nil, fmt.Errorf("%w: airstack transfers query: %s", domain.ErrUpstreamUnavailable, response.Errors[0].Message)
		}
		if response.Data.TokenTransfers == nil {
			cursor = ""
			break
		}

		transfers = append(transfers, response.Data.TokenTransfers.TokenTransfer...)

		cursor = response.Data.TokenTransfers.PageInfo.NextCursor
		if cursor == "" {
			break
		}
	}

	if cursor != "" {
		return nil, fmt.Errorf("%w: airstack transfers exceed %d pages", domain.ErrUpstreamUnavailable, maxPages)
	}

	return transfers, nil
}

// query posts a GraphQL query through the rate limit proxy and decodes the response
func (c *AirstackClient) query(ctx context.Context, query, operation string, result interface{}) error {
	requestBody, err := c.json.Marshal(GraphQLRequest{
		Query:         query,
		OperationName: operation,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": c.apiKey,
	}

	responseBody, err := ratelimit.Request(ctx, c.proxy, PROVIDER_NAME, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.PostBytes(ctx, c.apiURL, headers, requestBody)
	})
	if err != nil {
		return fmt.Errorf("%w: failed to call airstack API: %w", domain.ErrUpstreamUnavailable, err)
	}

	if err := c.json.Unmarshal(responseBody, result); err != nil {
		return fmt.Errorf("%w: failed to unmarshal airstack response: %w", domain.ErrUpstreamUnavailable, err)
	}

	return nil
}

func castToPost(fid domain.FID, cast Cast) (domain.Post, error) {
	postedAt, err := time.Parse(time.RFC3339, cast.CastedAtTimestamp)
	if err != nil {
		return domain.Post{}, fmt.Errorf("%w: invalid castedAtTimestamp %q: %w", domain.ErrUpstreamUnavailable, cast.CastedAtTimestamp, err)
	}

	var parent domain.FID
	if p := strings.TrimSpace(cast.ParentFid); p != "" {
		n, err := strconv.ParseUint(p, 10, 64)
		if err == nil {
			parent = domain.FID(n)
		}
	}

	return domain.Post{
		ID:        cast.Hash,
		Text:      cast.Text,
		AuthorFID: fid,
		ParentFID: parent,
		PostedAt:  postedAt.UTC(),
	}, nil
}
