package tips

import "github.com/ds8/tip-allowance/internal/domain"

// Merge appends the records of fresh whose IDs are not yet in base.
// Existing records are never replaced, so merging the same set twice is a no-op.
func Merge(base, fresh []domain.TipRecord) []domain.TipRecord {
	seen := make(map[string]struct{}, len(base)+len(fresh))
	merged := make([]domain.TipRecord, 0, len(base)+len(fresh))

	for _, tip := range base {
		if _, ok := seen[tip.ID]; ok {
			continue
		}
		seen[tip.ID] = struct{}{}
		merged = append(merged, tip)
	}

	for _, tip := range fresh {
		if _, ok := seen[tip.ID]; ok {
			continue
		}
		seen[tip.ID] = struct{}{}
		merged = append(merged, tip)
	}

	return merged
}
