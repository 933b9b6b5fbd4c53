package services

import (
	"context"
	"strings"
)

// UsageResolver finds which pages embed an asset's public URL. Usage is never
// persisted: page content lives in a semi-structured document edited by a
// separate subsystem, so references are recomputed by substring scan on
// demand. Page counts per project are small and this only runs interactively.
type UsageResolver struct {
	pages PageStore
}

func NewUsageResolver(pages PageStore) *UsageResolver {
	return &UsageResolver{pages: pages}
}

// FindUsage returns the paths of pages whose content contains assetURL.
// A page appears at most once no matter how many sections match.
func (u *UsageResolver) FindUsage(ctx context.Context, projectID, assetURL string) ([]string, error) {
	if assetURL == "" {
		return nil, nil
	}
	pages, err := u.pages.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, p := range pages {
		for _, sec := range p.Sections {
			if strings.Contains(sec.Content, assetURL) {
				paths = append(paths, p.Path)
				break
			}
		}
	}
	return paths, nil
}
