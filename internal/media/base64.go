package media

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultBase64Limit caps inline images after compression.
const DefaultBase64Limit = 1 << 20

// Base64Store inlines images as data URIs so they can live inside a content
// document without any object storage.
type Base64Store struct {
	MaxBytes int
	MaxWidth int
	Quality  int
}

var _ Store = (*Base64Store)(nil)

// NewBase64Store returns a store with the default limits.
func NewBase64Store() *Base64Store {
	return &Base64Store{MaxBytes: DefaultBase64Limit, MaxWidth: DefaultMaxWidth, Quality: DefaultQuality}
}

// Save compresses the image when it can be decoded and encodes it as a data URI.
// Formats the decoder does not know, such as SVG, are inlined unchanged.
func (s *Base64Store) Save(_ context.Context, _ string, upload Upload) (string, error) {
	data, contentType, err := Compress(upload.Data, s.MaxWidth, s.Quality)
	if err != nil {
		if !eris.Is(err, ErrUnsupportedType) {
			return "", err
		}
		data, contentType = upload.Data, upload.ContentType
	}

	limit := s.MaxBytes
	if limit <= 0 {
		limit = DefaultBase64Limit
	}
	if len(data) > limit {
		return "", eris.Wrapf(ErrTooLarge, "%d bytes exceeds inline limit of %d bytes", len(data), limit)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// IsBase64Image reports whether value is an inline image data URI.
func IsBase64Image(value string) bool {
	return strings.HasPrefix(value, "data:image/")
}
