// Package imagestore decodes recipe image uploads and persists them under a
// content-addressed key, either on the local filesystem or in an S3 bucket.
package imagestore

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"path"
	"strings"

	"github.com/foodgram/backend/internal/domain"
)

// Store persists image bytes and returns the public reference stored on the recipe.
type Store interface {
	Save(ctx context.Context, img Image) (string, error)
}

// Image is a decoded upload.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Key is the content-addressed object key: identical uploads share one object.
func (img Image) Key() string {
	sum := sha256.Sum256(img.Data)
	return path.Join("recipes", hex.EncodeToString(sum[:])+"."+img.Ext)
}

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Decode parses a "data:image/<type>;base64,<payload>" URI. The declared type
// must match the sniffed content, and both must be a supported image format.
func Decode(uri string) (Image, error) {
	header, payload, ok := strings.Cut(uri, ";base64,")
	if !ok || !strings.HasPrefix(header, "data:") {
		return Image{}, domain.NewValidationError("image", "must be a base64 data URI")
	}
	declared := strings.ToLower(strings.TrimPrefix(header, "data:"))
	ext, ok := extensions[declared]
	if !ok {
		return Image{}, domain.NewValidationError("image", "unsupported image type "+declared)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, domain.NewValidationError("image", "invalid base64 payload")
	}
	if len(data) == 0 {
		return Image{}, domain.NewValidationError("image", "is empty")
	}
	if sniffed := http.DetectContentType(data); sniffed != declared {
		return Image{}, domain.NewValidationError("image", "content does not match "+declared)
	}

	return Image{Data: data, ContentType: declared, Ext: ext}, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
