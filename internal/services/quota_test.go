package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-library/internal/models"
)

func TestQuotaCheckAllowed(t *testing.T) {
	store := newFakeAssetStore()
	store.seed(models.Asset{ID: "a1", ProjectID: "p1", Size: 1 << 30})
	ledger := NewQuotaLedger(store)

	quota, ok, err := ledger.Check(context.Background(), "p1", 1<<30)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1<<30), quota.Used)
	assert.Equal(t, QuotaLimitBytes, quota.Limit)
	assert.InDelta(t, 20.0, quota.Percentage, 0.01)
}

func TestQuotaCheckExactFit(t *testing.T) {
	store := newFakeAssetStore()
	store.seed(models.Asset{ID: "a1", ProjectID: "p1", Size: QuotaLimitBytes - 100})
	ledger := NewQuotaLedger(store)

	_, ok, err := ledger.Check(context.Background(), "p1", 100)
	require.NoError(t, err)
	assert.True(t, ok, "used + additional == limit must still be admitted")

	_, ok, err = ledger.Check(context.Background(), "p1", 101)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuotaIgnoresOtherProjects(t *testing.T) {
	store := newFakeAssetStore()
	store.seed(models.Asset{ID: "a1", ProjectID: "p1", Size: QuotaLimitBytes})
	store.seed(models.Asset{ID: "a2", ProjectID: "p2", Size: 512})
	ledger := NewQuotaLedger(store)

	quota, ok, err := ledger.Check(context.Background(), "p2", 1024)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(512), quota.Used)
}

func TestQuotaSnapshotEmptyProject(t *testing.T) {
	ledger := NewQuotaLedger(newFakeAssetStore())
	quota, err := ledger.Snapshot(context.Background(), "p1")
	require.NoError(t, err)
	assert.Zero(t, quota.Used)
	assert.Zero(t, quota.Percentage)
}
