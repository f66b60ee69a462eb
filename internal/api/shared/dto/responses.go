package dto

import (
	"time"

	"github.com/ds8/tip-allowance/internal/domain"
)

// ProfileResponse represents the public profile of an identity
type ProfileResponse struct {
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// AllowanceResponse represents the allowance report of an identity
type AllowanceResponse struct {
	FID              uint64           `json:"fid"`
	Profile          ProfileResponse  `json:"profile"`
	Wallets          []string         `json:"wallets"`
	WindowStart      time.Time        `json:"window_start"`
	WindowEnd        time.Time        `json:"window_end"`
	Ceiling          int64            `json:"ceiling"`
	Consumed         int64            `json:"consumed"`
	Remaining        int64            `json:"remaining"`
	UpstreamConsumed int64            `json:"upstream_consumed"`
	Rank             domain.Rank      `json:"rank"`
	TipCount         int              `json:"tip_count"`
	Points           map[string]int64 `json:"points"`
	Degraded         []string         `json:"degraded,omitempty"`
}

// RaindropResponse represents the raindrop balance of an identity. Null fields are unknown.
type RaindropResponse struct {
	FID       uint64 `json:"fid"`
	Total     *int64 `json:"total"`
	Remaining *int64 `json:"remaining"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// NewAllowanceResponse maps a report and its identity to the response body
func NewAllowanceResponse(identity domain.Identity, report *domain.AllowanceReport, window domain.AllowanceWindow) AllowanceResponse {
	wallets := identity.Wallets
	if wallets == nil {
		wallets = []string{}
	}
	points := report.Points
	if points == nil {
		points = map[string]int64{}
	}

	return AllowanceResponse{
		FID: uint64(report.FID),
		Profile: ProfileResponse{
			Username:    identity.Profile.Username,
			DisplayName: identity.Profile.DisplayName,
			AvatarURL:   identity.Profile.AvatarURL,
		},
		Wallets:          wallets,
		WindowStart:      window.Start,
		WindowEnd:        window.End,
		Ceiling:          report.Ceiling,
		Consumed:         report.Consumed,
		Remaining:        report.Remaining,
		UpstreamConsumed: report.UpstreamConsumed,
		Rank:             report.Rank,
		TipCount:         report.TipCount,
		Points:           points,
		Degraded:         report.Degraded,
	}
}
