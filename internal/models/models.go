package models

import "time"

// Asset is one stored media object and its catalog row.
type Asset struct {
	ID               string    `bson:"_id" json:"id"`
	ProjectID        string    `bson:"project_id" json:"projectId"`
	Filename         string    `bson:"filename" json:"filename"`
	Name             string    `bson:"name" json:"name"`
	AltText          string    `bson:"alt_text,omitempty" json:"altText,omitempty"`
	Key              string    `bson:"key" json:"key"` // S3 object key, immutable
	URL              string    `bson:"url" json:"url"`
	Size             int64     `bson:"size" json:"size"` // bytes actually stored, post-processing
	MimeType         string    `bson:"mime_type" json:"mimeType"`
	OriginalMimeType string    `bson:"original_mime_type,omitempty" json:"originalMimeType,omitempty"`
	Width            int       `bson:"width,omitempty" json:"width,omitempty"`
	Height           int       `bson:"height,omitempty" json:"height,omitempty"`
	ThumbnailKey     string    `bson:"thumbnail_key,omitempty" json:"thumbnailKey,omitempty"`
	ThumbnailURL     string    `bson:"thumbnail_url,omitempty" json:"thumbnailUrl,omitempty"`
	Compressed       bool      `bson:"compressed" json:"compressed"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updatedAt"`
}

// IncomingFile is one raw file handed over by the route layer.
type IncomingFile struct {
	Filename string
	MimeType string
	Data     []byte
	Size     int64
}

// Quota is a derived snapshot of a project's byte usage against the ceiling.
type Quota struct {
	Used       int64   `json:"used"`
	Limit      int64   `json:"limit"`
	Percentage float64 `json:"percentage"`
}

// FailureEntry reports one file that did not make it through a batch.
type FailureEntry struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// IngestResult is the combined outcome of one upload batch.
type IngestResult struct {
	Succeeded []Asset        `json:"data"`
	Failed    []FailureEntry `json:"failed,omitempty"`
	Quota     Quota          `json:"quota"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

// ListResult is one page of catalog rows plus the current quota.
type ListResult struct {
	Data       []Asset    `json:"data"`
	Pagination Pagination `json:"pagination"`
	Quota      Quota      `json:"quota"`
}

// Page is a content page owned by a project. Its sections are edited by a
// separate subsystem; this service only reads them to resolve asset usage.
type Page struct {
	ID        string    `bson:"_id" json:"id"`
	ProjectID string    `bson:"project_id" json:"projectId"`
	Path      string    `bson:"path" json:"path"`
	Sections  []Section `bson:"sections" json:"sections"`
}

// Section is one block of a page's semi-structured content.
type Section struct {
	Type    string `bson:"type" json:"type"`
	Content string `bson:"content" json:"content"`
}
