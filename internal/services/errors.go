package services

import (
	"errors"
	"fmt"
	"strings"

	"media-library/internal/models"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrAssetNotFound   = errors.New("media asset not found")
)

// QuotaExceededError rejects a whole batch at admission and carries the
// usage snapshot the decision was made against.
type QuotaExceededError struct {
	Quota models.Quota
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("storage quota exceeded: %d of %d bytes used (%.1f%%)",
		e.Quota.Used, e.Quota.Limit, e.Quota.Percentage)
}

// MediaInUseError blocks an unforced delete and names the referencing pages.
type MediaInUseError struct {
	PagesUsing []string
}

func (e *MediaInUseError) Error() string {
	return "media in use by pages: " + strings.Join(e.PagesUsing, ", ")
}
