package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"media-library/internal/classify"
	"media-library/internal/keys"
	"media-library/internal/models"
)

// IngestService coordinates one upload batch: a single quota admission check
// for the whole batch, then independent per-file processing and storage with
// failures captured as values, then one catalog row per stored file.
type IngestService struct {
	assets   AssetStore
	projects ProjectStore
	store    ObjectStore
	images   ImageProcessor
	quota    *QuotaLedger
	log      *zap.SugaredLogger
}

func NewIngestService(assets AssetStore, projects ProjectStore, store ObjectStore, images ImageProcessor, quota *QuotaLedger, log *zap.SugaredLogger) *IngestService {
	return &IngestService{
		assets:   assets,
		projects: projects,
		store:    store,
		images:   images,
		quota:    quota,
		log:      log,
	}
}

// outcome is one file's result; exactly one of asset/failure is set.
type outcome struct {
	asset   *models.Asset
	failure *models.FailureEntry
}

// Ingest admits the batch against quota as a unit, then processes every file
// concurrently. Partial success is a normal result: per-file errors land in
// Failed and never abort siblings. Batch-level errors (ErrProjectNotFound,
// *QuotaExceededError) abort before any side effect.
func (s *IngestService) Ingest(ctx context.Context, projectID string, files []models.IncomingFile) (*models.IngestResult, error) {
	ok, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProjectNotFound
	}

	var batchBytes int64
	for _, f := range files {
		batchBytes += f.Size
	}
	snap, allowed, err := s.quota.Check(ctx, projectID, batchBytes)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, &QuotaExceededError{Quota: snap}
	}

	// fan out, one task per file; outcomes are indexed so the report is
	// deterministic regardless of completion order
	outcomes := make([]outcome, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f models.IncomingFile) {
			defer wg.Done()
			outcomes[i] = s.processFile(ctx, projectID, f)
		}(i, f)
	}
	wg.Wait()

	result := &models.IngestResult{Succeeded: []models.Asset{}}
	for _, o := range outcomes {
		if o.asset != nil {
			result.Succeeded = append(result.Succeeded, *o.asset)
		} else if o.failure != nil {
			result.Failed = append(result.Failed, *o.failure)
		}
	}

	// recompute so the caller sees usage including the rows just inserted
	quota, err := s.quota.Snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	result.Quota = quota
	return result, nil
}

func (s *IngestService) processFile(ctx context.Context, projectID string, f models.IncomingFile) outcome {
	fail := func(format string, args ...any) outcome {
		msg := fmt.Sprintf(format, args...)
		s.log.Warnw("file ingestion failed", "project_id", projectID, "filename", f.Filename, "reason", msg)
		return outcome{failure: &models.FailureEntry{Filename: f.Filename, Message: msg}}
	}

	kind := classify.Classify(f.MimeType)
	if kind == classify.KindRejected {
		return fail("File type not supported: %s", f.MimeType)
	}

	now := time.Now().UTC()
	asset := &models.Asset{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Filename:  f.Filename,
		Name:      f.Filename,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch kind {
	case classify.KindImage:
		processed, err := s.images.Process(f.Data, f.MimeType)
		if err != nil {
			return fail("image processing failed: %v", err)
		}
		key := keys.ForAsset(projectID, f.Filename, ".jpg")
		if err := s.store.Put(ctx, key, processed.MimeType, processed.Data); err != nil {
			return fail("storage upload failed: %v", err)
		}
		asset.Key = key
		asset.URL = s.store.PublicURL(key)
		asset.Size = int64(len(processed.Data))
		asset.MimeType = processed.MimeType
		asset.OriginalMimeType = processed.OriginalMimeType
		asset.Width = processed.Width
		asset.Height = processed.Height
		asset.Compressed = processed.Compressed

		if processed.Thumbnail != nil {
			thumbKey := keys.ForThumbnail(projectID, f.Filename)
			if err := s.store.Put(ctx, thumbKey, "image/jpeg", processed.Thumbnail); err != nil {
				// the asset stands without its thumbnail
				s.log.Warnw("thumbnail upload failed", "project_id", projectID, "key", thumbKey, "error", err)
			} else {
				asset.ThumbnailKey = thumbKey
				asset.ThumbnailURL = s.store.PublicURL(thumbKey)
			}
		}

	default: // video and document bytes are stored unchanged
		key := keys.ForAsset(projectID, f.Filename, "")
		if err := s.store.Put(ctx, key, f.MimeType, f.Data); err != nil {
			return fail("storage upload failed: %v", err)
		}
		asset.Key = key
		asset.URL = s.store.PublicURL(key)
		asset.Size = int64(len(f.Data))
		asset.MimeType = f.MimeType
	}

	// row only after the upload landed; if the row fails the object goes too
	if err := s.assets.Insert(ctx, asset); err != nil {
		if delErr := s.store.Delete(ctx, asset.Key); delErr != nil {
			s.log.Errorw("orphaned object after failed insert", "key", asset.Key, "error", delErr)
		}
		if asset.ThumbnailKey != "" {
			_ = s.store.Delete(ctx, asset.ThumbnailKey)
		}
		return fail("saving media record failed: %v", err)
	}
	return outcome{asset: asset}
}
