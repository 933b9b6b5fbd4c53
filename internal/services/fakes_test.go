package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"media-library/internal/imageproc"
	"media-library/internal/models"
	"media-library/internal/repository"
)

type fakeAssetStore struct {
	mu        sync.Mutex
	assets    map[string]*models.Asset
	failNames map[string]error // Insert fails for assets with this filename
}

func newFakeAssetStore() *fakeAssetStore {
	return &fakeAssetStore{assets: map[string]*models.Asset{}, failNames: map[string]error{}}
}

func (s *fakeAssetStore) seed(a models.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := a
	s.assets[a.ID] = &cp
}

func (s *fakeAssetStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}

func (s *fakeAssetStore) Insert(_ context.Context, a *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failNames[a.Filename]; ok {
		return err
	}
	cp := *a
	s.assets[a.ID] = &cp
	return nil
}

func (s *fakeAssetStore) GetByID(_ context.Context, id string) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *a
	return &cp, nil
}

func (s *fakeAssetStore) SumSizeByProject(_ context.Context, projectID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, a := range s.assets {
		if a.ProjectID == projectID {
			sum += a.Size
		}
	}
	return sum, nil
}

func (s *fakeAssetStore) List(_ context.Context, projectID string, opts repository.ListOptions) ([]models.Asset, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Asset
	for _, a := range s.assets {
		if a.ProjectID != projectID {
			continue
		}
		switch opts.Type {
		case "image":
			if !strings.HasPrefix(a.MimeType, "image/") {
				continue
			}
		case "video":
			if !strings.HasPrefix(a.MimeType, "video/") {
				continue
			}
		case "pdf":
			if a.MimeType != "application/pdf" {
				continue
			}
		}
		if q := strings.ToLower(strings.TrimSpace(opts.Search)); q != "" {
			if !strings.Contains(strings.ToLower(a.Filename), q) &&
				!strings.Contains(strings.ToLower(a.Name), q) {
				continue
			}
		}
		matched = append(matched, *a)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (opts.Page - 1) * opts.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *fakeAssetStore) UpdateMeta(_ context.Context, projectID, id string, name, altText *string) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[id]
	if !ok || a.ProjectID != projectID {
		return nil, mongo.ErrNoDocuments
	}
	if name != nil {
		a.Name = *name
	}
	if altText != nil {
		a.AltText = *altText
	}
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	return &cp, nil
}

func (s *fakeAssetStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(s.assets, id)
	return nil
}

type fakePageStore struct {
	pages []models.Page
}

func (s *fakePageStore) ListByProject(_ context.Context, projectID string) ([]models.Page, error) {
	var out []models.Page
	for _, p := range s.pages {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeProjectStore struct {
	ids map[string]bool
}

func (s *fakeProjectStore) Exists(_ context.Context, id string) (bool, error) {
	return s.ids[id], nil
}

type fakeObjectStore struct {
	mu           sync.Mutex
	objects      map[string][]byte
	failContains string // Put fails for keys containing this
	deleteErr    error
	publicRead   bool
	presignCalls int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}, publicRead: true}
}

func (s *fakeObjectStore) Put(_ context.Context, key, _ string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failContains != "" && strings.Contains(key, s.failContains) {
		return errors.New("s3 write refused")
	}
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *fakeObjectStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeObjectStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (s *fakeObjectStore) PublicRead() bool { return s.publicRead }

func (s *fakeObjectStore) Presign(_ context.Context, key string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presignCalls++
	return "https://signed.test/" + key + "?sig=abc", nil
}

func (s *fakeObjectStore) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	return b, ok
}

func (s *fakeObjectStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type fakeImageProcessor struct {
	err error
}

func (p *fakeImageProcessor) Process(data []byte, mimeType string) (*imageproc.Processed, error) {
	if p.err != nil {
		return nil, p.err
	}
	// "normalized" output is half the input, like a real re-encode might be
	out := &imageproc.Processed{
		Data:      data[:len(data)/2],
		MimeType:  "image/jpeg",
		Width:     640,
		Height:    480,
		Thumbnail: []byte("thumb"),
	}
	if mimeType != "image/jpeg" {
		out.OriginalMimeType = mimeType
		out.Compressed = true
	}
	return out, nil
}

type fakeURLCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeURLCache() *fakeURLCache {
	return &fakeURLCache{entries: map[string]string{}}
}

func (c *fakeURLCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *fakeURLCache) Set(_ context.Context, key, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = url
	return nil
}
