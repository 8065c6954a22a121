// Package upload accepts image and video files from the site editors and stores them under a
// public location partitioned by media kind.
package upload

import (
	"mime"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Kind partitions uploads by media type.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Dir is the public directory, relative to the public root, holding files of this kind.
func (k Kind) Dir() string {
	if k == KindVideo {
		return "videos"
	}
	return "uploads"
}

// ErrUnsupportedMediaType is returned for content types outside the allow-list.
var ErrUnsupportedMediaType = eris.New("unsupported media type")

type mediaType struct {
	kind Kind
	ext  string
}

var allowedTypes = map[string]mediaType{
	"image/jpeg":      {kind: KindImage, ext: ".jpg"},
	"image/png":       {kind: KindImage, ext: ".png"},
	"image/gif":       {kind: KindImage, ext: ".gif"},
	"image/webp":      {kind: KindImage, ext: ".webp"},
	"video/mp4":       {kind: KindVideo, ext: ".mp4"},
	"video/webm":      {kind: KindVideo, ext: ".webm"},
	"video/ogg":       {kind: KindVideo, ext: ".ogv"},
	"video/quicktime": {kind: KindVideo, ext: ".mov"},
}

// AcceptedTypes lists the allowed content types in a stable order.
func AcceptedTypes() []string {
	types := make([]string, 0, len(allowedTypes))
	for contentType := range allowedTypes {
		types = append(types, contentType)
	}
	sort.Strings(types)
	return types
}

// UnsupportedMessage is the client-facing message for a rejected upload.
func UnsupportedMessage() string {
	return "Unsupported file type. Accepted formats: " + strings.Join(AcceptedTypes(), ", ")
}

// Classify maps a declared content type to its media kind.
func Classify(contentType string) (Kind, error) {
	media, ok := allowedTypes[normalizeContentType(contentType)]
	if !ok {
		return "", eris.Wrapf(ErrUnsupportedMediaType, "content type %q", contentType)
	}
	return media.kind, nil
}

// FileName derives a collision-resistant name: a random UUID plus the original extension,
// falling back to the canonical extension of the content type.
func FileName(original, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if !safeExtension(ext) {
		ext = ""
		if media, ok := allowedTypes[normalizeContentType(contentType)]; ok {
			ext = media.ext
		}
	}
	return uuid.NewString() + ext
}

func normalizeContentType(contentType string) string {
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return parsed
}

func safeExtension(ext string) bool {
	if len(ext) < 2 || len(ext) > 6 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
