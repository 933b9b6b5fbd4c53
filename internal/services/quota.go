package services

import (
	"context"
	"math"

	"media-library/internal/models"
)

// QuotaLimitBytes is the fixed per-project ceiling shared by all projects.
const QuotaLimitBytes int64 = 5 << 30 // 5 GiB

// QuotaLedger answers whether a project can take on more bytes. Usage is a
// fresh aggregate read on every check, never a maintained counter, so manual
// catalog edits can't make it drift. Concurrent batches may each pass a check
// against a pre-insert snapshot; the quota is advisory, not a hard allocator.
type QuotaLedger struct {
	assets AssetStore
}

func NewQuotaLedger(assets AssetStore) *QuotaLedger {
	return &QuotaLedger{assets: assets}
}

// Check reports whether additionalBytes fits under the ceiling given current
// usage, plus the snapshot the decision used.
func (q *QuotaLedger) Check(ctx context.Context, projectID string, additionalBytes int64) (models.Quota, bool, error) {
	snap, err := q.Snapshot(ctx, projectID)
	if err != nil {
		return models.Quota{}, false, err
	}
	return snap, snap.Used+additionalBytes <= snap.Limit, nil
}

// Snapshot recomputes current usage for a project.
func (q *QuotaLedger) Snapshot(ctx context.Context, projectID string) (models.Quota, error) {
	used, err := q.assets.SumSizeByProject(ctx, projectID)
	if err != nil {
		return models.Quota{}, err
	}
	return models.Quota{
		Used:       used,
		Limit:      QuotaLimitBytes,
		Percentage: percentage(used, QuotaLimitBytes),
	}, nil
}

func percentage(used, limit int64) float64 {
	if limit == 0 {
		return 0
	}
	return math.Round(float64(used)/float64(limit)*10000) / 100
}
