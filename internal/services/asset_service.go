package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"media-library/internal/models"
	"media-library/internal/repository"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// AssetService is the catalog's query and mutation surface: listing,
// metadata edits, usage-gated deletion, URL resolution.
type AssetService struct {
	assets     AssetStore
	store      ObjectStore
	usage      *UsageResolver
	quota      *QuotaLedger
	urls       URLCache
	presignTTL time.Duration
	log        *zap.SugaredLogger
}

func NewAssetService(assets AssetStore, store ObjectStore, usage *UsageResolver, quota *QuotaLedger, urls URLCache, presignTTL time.Duration, log *zap.SugaredLogger) *AssetService {
	return &AssetService{
		assets:     assets,
		store:      store,
		usage:      usage,
		quota:      quota,
		urls:       urls,
		presignTTL: presignTTL,
		log:        log,
	}
}

func (s *AssetService) List(ctx context.Context, projectID string, opts repository.ListOptions) (*models.ListResult, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = defaultPageLimit
	}
	if opts.Limit > maxPageLimit {
		opts.Limit = maxPageLimit
	}

	assets, total, err := s.assets.List(ctx, projectID, opts)
	if err != nil {
		return nil, err
	}
	quota, err := s.quota.Snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return &models.ListResult{
		Data: assets,
		Pagination: models.Pagination{
			Page:    opts.Page,
			Limit:   opts.Limit,
			Total:   total,
			HasMore: int64(opts.Page*opts.Limit) < total,
		},
		Quota: quota,
	}, nil
}

// UpdateMeta edits display name and alt text; everything else is immutable.
func (s *AssetService) UpdateMeta(ctx context.Context, projectID, id string, name, altText *string) (*models.Asset, error) {
	a, err := s.assets.UpdateMeta(ctx, projectID, id, name, altText)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an asset and its backing objects. Unless forced, it refuses
// when any page still references the asset's URL and reports those pages.
// Storage deletes are best effort: an orphaned object is recoverable by
// prefix cleanup, a row pointing at missing bytes is not.
func (s *AssetService) Delete(ctx context.Context, projectID, id string, force bool) error {
	a, err := s.getOwned(ctx, projectID, id)
	if err != nil {
		return err
	}

	pagesUsing, err := s.usage.FindUsage(ctx, projectID, a.URL)
	if err != nil {
		return err
	}
	if len(pagesUsing) > 0 && !force {
		return &MediaInUseError{PagesUsing: pagesUsing}
	}

	if err := s.store.Delete(ctx, a.Key); err != nil {
		s.log.Warnw("storage delete failed, removing row anyway", "key", a.Key, "error", err)
	}
	if a.ThumbnailKey != "" {
		if err := s.store.Delete(ctx, a.ThumbnailKey); err != nil {
			s.log.Warnw("thumbnail delete failed", "key", a.ThumbnailKey, "error", err)
		}
	}

	if err := s.assets.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrAssetNotFound
		}
		return err
	}
	return nil
}

// ResolveURL returns the fetchable URL for an asset: the public URL when the
// bucket is public-read, otherwise a presigned GET cached for the sign TTL.
func (s *AssetService) ResolveURL(ctx context.Context, projectID, id string) (string, error) {
	a, err := s.getOwned(ctx, projectID, id)
	if err != nil {
		return "", err
	}
	if s.store.PublicRead() {
		return a.URL, nil
	}

	if s.urls != nil {
		if cached, err := s.urls.Get(ctx, a.Key); err == nil && cached != "" {
			return cached, nil
		}
	}
	signed, err := s.store.Presign(ctx, a.Key, s.presignTTL)
	if err != nil {
		return "", err
	}
	if s.urls != nil {
		if err := s.urls.Set(ctx, a.Key, signed); err != nil {
			s.log.Warnw("signed url cache set failed", "key", a.Key, "error", err)
		}
	}
	return signed, nil
}

func (s *AssetService) getOwned(ctx context.Context, projectID, id string) (*models.Asset, error) {
	a, err := s.assets.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	if a.ProjectID != projectID {
		return nil, ErrAssetNotFound
	}
	return a, nil
}
