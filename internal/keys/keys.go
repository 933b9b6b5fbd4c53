package keys

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

const tokenLen = 8

// ForAsset builds the object key for a stored file:
// projects/<projectID>/media/<token>_<sanitized-stem><ext>.
// extOverride, when non-empty, replaces the filename's extension; images use
// it to carry the output encoding rather than the uploaded one.
func ForAsset(projectID, filename, extOverride string) string {
	stem, ext := splitName(filename)
	if extOverride != "" {
		ext = extOverride
	}
	return ProjectPrefix(projectID) + token() + "_" + stem + ext
}

// ForThumbnail builds the key for an asset's derived thumbnail, namespaced
// under the same project so prefix cleanup covers both.
func ForThumbnail(projectID, filename string) string {
	stem, _ := splitName(filename)
	return ProjectPrefix(projectID) + "thumbs/" + token() + "_" + stem + "_thumb.jpg"
}

// ProjectPrefix is the key prefix shared by everything a project stores.
func ProjectPrefix(projectID string) string {
	return "projects/" + sanitize(projectID) + "/media/"
}

func token() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:tokenLen]
}

func splitName(filename string) (stem, ext string) {
	base := path.Base(filename)
	ext = strings.ToLower(path.Ext(base))
	stem = sanitize(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	return stem, sanitize(ext)
}

// sanitize drops everything outside [A-Za-z0-9._-], which keeps keys safe for
// S3 paths and public URLs without escaping.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		}
		return -1
	}, s)
}
