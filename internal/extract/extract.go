// Package extract decodes source images, cuts the final crop region out of
// them, and writes the result.
package extract

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrEmptyRegion is returned when a crop region does not overlap the image.
var ErrEmptyRegion = errors.New("extract: crop region does not overlap the image")

// Format is an output encoding.
type Format string

const (
	// PNG is the lossless default.
	PNG Format = "png"
	// JPEG honours Options.Quality.
	JPEG Format = "jpeg"
	// WebP honours Options.Quality and Options.Lossless.
	WebP Format = "webp"
	// GIF is quantised to 256 colours.
	GIF Format = "gif"
	// TIFF is deflate-compressed.
	TIFF Format = "tiff"
	// BMP is written uncompressed.
	BMP Format = "bmp"
)

// Options controls lossy encoders. Quality applies to JPEG and lossy WebP.
type Options struct {
	Quality  int
	Lossless bool
}

// DefaultOptions returns the encoder settings used by the CLI.
func DefaultOptions() Options {
	return Options{Quality: 90}
}

// FormatFromPath picks the output format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	default:
		return "", fmt.Errorf("unsupported image extension %q", filepath.Ext(path))
	}
}

// Open decodes the image at path, applying EXIF orientation.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	return img, nil
}

// Decode reads an image from r, applying EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Crop returns the part of img inside region, clipped to the image bounds.
// The result's origin is (0, 0).
func Crop(img image.Image, region image.Rectangle) (*image.NRGBA, error) {
	rect := region.Add(img.Bounds().Min).Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrEmptyRegion, region)
	}
	return imaging.Crop(img, rect), nil
}

// Save writes img to path in the format named by its extension.
func Save(img image.Image, path string, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, img, format, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format, opts Options) error {
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultOptions().Quality
	}

	var err error
	switch format {
	case WebP:
		err = webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(quality)})
	case JPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case PNG:
		err = imaging.Encode(w, img, imaging.PNG)
	case GIF:
		err = imaging.Encode(w, img, imaging.GIF)
	case TIFF:
		err = imaging.Encode(w, img, imaging.TIFF)
	case BMP:
		err = imaging.Encode(w, img, imaging.BMP)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}
