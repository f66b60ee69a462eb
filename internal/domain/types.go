package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// FID is a Farcaster identity id
type FID uint64

// ParseFID parses a caller supplied identity id.
// Empty, non-numeric and zero ids are caller contract violations.
func ParseFID(s string) (FID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty fid", ErrInvalidIdentity)
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a positive integer", ErrInvalidIdentity, s)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: fid must be greater than zero", ErrInvalidIdentity)
	}

	return FID(n), nil
}

// String returns the decimal representation of the fid
func (f FID) String() string {
	return strconv.FormatUint(uint64(f), 10)
}

// Post is a raw cast as returned by a post source
type Post struct {
	// ID is the cast hash
	ID string

	// Text is the cast body
	Text string

	// AuthorFID is the fid that published the cast
	AuthorFID FID

	// ParentFID is the author of the cast being replied to, 0 for top-level casts
	ParentFID FID

	// PostedAt is when the cast was published
	PostedAt time.Time
}

// TipRecord is one cast interpreted as a tip. Records are immutable once created.
type TipRecord struct {
	ID           string    `json:"id"`
	SenderFID    FID       `json:"sender_fid"`
	RecipientFID FID       `json:"recipient_fid"`
	Amount       int64     `json:"amount"`
	PostedAt     time.Time `json:"posted_at"`
}

// AllowanceWindow is the half-open interval [Start, End) an allowance applies to
type AllowanceWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window
func (w AllowanceWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// TipCacheEntry is the cached tip state for one identity
type TipCacheEntry struct {
	// WindowStart is the window boundary the cached tips were collected from
	WindowStart time.Time `json:"window_start"`
	// Tips holds records unique by ID
	Tips []TipRecord `json:"tips"`
	// SavedAt is the cache write time
	SavedAt time.Time `json:"saved_at"`
}

// Rank is a relative standing reported by an upstream provider. Lower is better.
type Rank int64

// Unranked marks the absence of a rank
const Unranked Rank = -1

// IsRanked reports whether r carries an actual rank
func (r Rank) IsRanked() bool {
	return r > 0
}

// BestRank returns the better (lower) of two ranks, ignoring unranked values
func BestRank(a, b Rank) Rank {
	switch {
	case !a.IsRanked():
		if b.IsRanked() {
			return b
		}
		return Unranked
	case !b.IsRanked():
		return a
	case b < a:
		return b
	default:
		return a
	}
}

// MarshalJSON encodes unranked values as the string "unranked"
func (r Rank) MarshalJSON() ([]byte, error) {
	if !r.IsRanked() {
		return []byte(`"unranked"`), nil
	}
	return []byte(strconv.FormatInt(int64(r), 10)), nil
}

// UnmarshalJSON accepts either a number or the string "unranked"
func (r *Rank) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "unranked" || s == "" {
			*r = Unranked
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid rank %q: %w", s, err)
		}
		*r = Rank(n)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid rank: %w", err)
	}
	*r = Rank(n)
	if !r.IsRanked() {
		*r = Unranked
	}
	return nil
}

// AllowanceQuote is one upstream provider's view of an allowance.
// Missing upstream fields stay zero, or Unranked for the rank.
type AllowanceQuote struct {
	Provider      string
	Ceiling       int64
	PriorConsumed int64
	Rank          Rank
}

// NeutralQuote is the contribution of a provider that failed or returned no data
func NeutralQuote(provider string) AllowanceQuote {
	return AllowanceQuote{Provider: provider, Rank: Unranked}
}

// AllowanceReport is the per-request result of the engine
type AllowanceReport struct {
	FID              FID              `json:"fid"`
	WindowStart      time.Time        `json:"window_start"`
	Ceiling          int64            `json:"ceiling"`
	Consumed         int64            `json:"consumed"`
	Remaining        int64            `json:"remaining"`
	UpstreamConsumed int64            `json:"upstream_consumed"`
	Rank             Rank             `json:"rank"`
	TipCount         int              `json:"tip_count"`
	Points           map[string]int64 `json:"points"`
	Degraded         []string         `json:"degraded,omitempty"`
}

// EmptyReport is the fully degraded report returned when nothing could be computed
func EmptyReport(fid FID, windowStart time.Time, reason string) *AllowanceReport {
	report := &AllowanceReport{
		FID:         fid,
		WindowStart: windowStart,
		Rank:        Unranked,
		Points:      map[string]int64{},
	}
	if reason != "" {
		report.Degraded = []string{reason}
	}
	return report
}

// Profile is the public profile of an identity
type Profile struct {
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Identity is a resolved identity with its verified wallets
type Identity struct {
	FID     FID      `json:"fid"`
	Wallets []string `json:"wallets"`
	Profile Profile  `json:"profile"`
}

// RaindropBalance is the rain wallet balance of an identity. Nil fields are unknown.
type RaindropBalance struct {
	Total     *int64 `json:"total"`
	Remaining *int64 `json:"remaining"`
}

// NormalizeEthereumAddress returns the checksummed form of an Ethereum address,
// or false when s is not a hex address
func NormalizeEthereumAddress(s string) (string, bool) {
	if !common.IsHexAddress(s) {
		return "", false
	}
	return common.HexToAddress(s).Hex(), true
}
