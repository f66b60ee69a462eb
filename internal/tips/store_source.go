package tips

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/store"
)

// StoreSource reads casts from the tip table filled by the cast indexer
type StoreSource struct {
	store store.Store
}

// NewStoreSource creates a post source backed by the database
func NewStoreSource(s store.Store) PostSource {
	return &StoreSource{store: s}
}

// FetchPosts returns indexed tip casts of fid at or after since
func (s *StoreSource) FetchPosts(ctx context.Context, fid domain.FID, since time.Time) ([]domain.Post, error) {
	rows, err := s.store.ListTipsSince(ctx, fid.String(), since)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	posts := make([]domain.Post, 0, len(rows))
	for _, row := range rows {
		// Unparseable recipients are kept as top-level casts
		parent, _ := strconv.ParseUint(row.ToFid, 10, 64)
		posts = append(posts, domain.Post{
			ID:        row.CastHash,
			Text:      row.OriginalText,
			AuthorFID: fid,
			ParentFID: domain.FID(parent),
			PostedAt:  row.CastTimestamp.UTC(),
		})
	}

	return posts, nil
}
