package tips

import (
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
)

// Extractor turns casts into tip records by matching "<amount> <token>" in the text
type Extractor struct {
	pattern *regexp.Regexp
}

// NewExtractor builds an extractor for the allowance unit token (e.g. "$degen").
// Matching is case-insensitive and allows whitespace between amount and token.
func NewExtractor(token string) (*Extractor, error) {
	if token == "" {
		return nil, fmt.Errorf("tip token must not be empty")
	}

	pattern, err := regexp.Compile(`(?i)(\d+)\s*` + regexp.QuoteMeta(token))
	if err != nil {
		return nil, fmt.Errorf("failed to compile tip pattern: %w", err)
	}

	return &Extractor{pattern: pattern}, nil
}

// Extract returns one record per matching post. Only the first amount in a
// post is honoured; posts without a match are skipped.
func (e *Extractor) Extract(posts []domain.Post) []domain.TipRecord {
	records := make([]domain.TipRecord, 0, len(posts))
	for _, post := range posts {
		match := e.pattern.FindStringSubmatch(post.Text)
		if len(match) < 2 {
			continue
		}

		amount, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			logger.Debug("Ignoring tip amount out of range",
				zap.String("id", post.ID),
				zap.String("amount", match[1]),
			)
			continue
		}

		records = append(records, domain.TipRecord{
			ID:           post.ID,
			SenderFID:    post.AuthorFID,
			RecipientFID: post.ParentFID,
			Amount:       amount,
			PostedAt:     post.PostedAt,
		})
	}

	return records
}
