package services

import (
	"context"
	"time"

	"media-library/internal/imageproc"
	"media-library/internal/models"
	"media-library/internal/repository"
)

// AssetStore is the catalog's persistence surface.
type AssetStore interface {
	Insert(ctx context.Context, a *models.Asset) error
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	SumSizeByProject(ctx context.Context, projectID string) (int64, error)
	List(ctx context.Context, projectID string, opts repository.ListOptions) ([]models.Asset, int64, error)
	UpdateMeta(ctx context.Context, projectID, id string, name, altText *string) (*models.Asset, error)
	Delete(ctx context.Context, id string) error
}

// PageStore exposes the page content scanned for asset references.
type PageStore interface {
	ListByProject(ctx context.Context, projectID string) ([]models.Page, error)
}

// ProjectStore gates ingestion on project existence.
type ProjectStore interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ObjectStore is the external storage collaborator.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	PublicRead() bool
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ImageProcessor is the external image normalization collaborator.
type ImageProcessor interface {
	Process(data []byte, mimeType string) (*imageproc.Processed, error)
}

// URLCache caches presigned URLs; implementations must treat a miss as
// ("", nil).
type URLCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, url string) error
}
