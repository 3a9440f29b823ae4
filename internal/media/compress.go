package media

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/rotisserie/eris"
	"golang.org/x/image/draw"
)

const (
	DefaultMaxWidth = 800
	DefaultQuality  = 80

	// MaxPixels bounds the decoded size of an image, whatever its file size.
	MaxPixels = 40_000_000
)

// Compress downscales an image proportionally when it is wider than maxWidth
// and re-encodes it. PNG input stays PNG; every other format becomes JPEG.
// It returns the encoded bytes and their content type.
func Compress(data []byte, maxWidth, quality int) ([]byte, string, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", eris.Wrap(ErrUnsupportedType, err.Error())
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > MaxPixels {
		return nil, "", eris.Wrapf(ErrTooLarge, "%dx%d pixels exceeds limit of %d", cfg.Width, cfg.Height, MaxPixels)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", eris.Wrap(ErrUnsupportedType, err.Error())
	}

	dst := src
	bounds := src.Bounds()
	if bounds.Dx() > maxWidth {
		height := bounds.Dy() * maxWidth / bounds.Dx()
		if height < 1 {
			height = 1
		}
		scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		dst = scaled
	}

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, dst); err != nil {
			return nil, "", eris.Wrap(err, "encoding png")
		}
		return buf.Bytes(), "image/png", nil
	}

	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", eris.Wrap(err, "encoding jpeg")
	}
	return buf.Bytes(), "image/jpeg", nil
}
