package extract

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadrants returns a 40x20 image with a distinct colour in each quadrant.
func quadrants() image.Image {
	img := imaging.New(40, 20, color.White)
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			switch {
			case x < 20 && y < 10:
				img.Set(x, y, color.NRGBA{R: 255, A: 255})
			case x >= 20 && y < 10:
				img.Set(x, y, color.NRGBA{G: 255, A: 255})
			case x < 20:
				img.Set(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

// TestFormatFromPath verifies extension mapping.
func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"a.png":  PNG,
		"a.JPG":  JPEG,
		"a.jpeg": JPEG,
		"a.webp": WebP,
		"a.tif":  TIFF,
		"a.bmp":  BMP,
		"a.gif":  GIF,
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFromPath("a.heic")
	assert.Error(t, err)
}

// TestCrop verifies the region is cut and rebased to the origin.
func TestCrop(t *testing.T) {
	out, err := Crop(quadrants(), image.Rect(20, 0, 40, 10))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), out.Bounds())
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, out.NRGBAAt(5, 5))
}

// TestCrop_ClipsAndRejects verifies clipping to bounds and the empty-region error.
func TestCrop_ClipsAndRejects(t *testing.T) {
	out, err := Crop(quadrants(), image.Rect(30, 15, 100, 100))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 5), out.Bounds())

	_, err = Crop(quadrants(), image.Rect(50, 50, 60, 60))
	assert.ErrorIs(t, err, ErrEmptyRegion)
}

// TestSaveOpen_RoundTrip verifies lossless formats survive a save and reopen.
func TestSaveOpen_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.png", "out.bmp", "out.tiff"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(quadrants(), path, DefaultOptions()), name)

		img, err := Open(path)
		require.NoError(t, err, name)
		assert.Equal(t, image.Rect(0, 0, 40, 20), img.Bounds(), name)
		r, g, b, _ := img.At(30, 5).RGBA()
		assert.Equal(t, [3]uint32{0, 0xffff, 0}, [3]uint32{r, g, b}, name)
	}
}

// TestEncode_LossyFormats verifies JPEG and WebP output decodes to the same size.
func TestEncode_LossyFormats(t *testing.T) {
	for _, f := range []Format{JPEG, WebP} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, quadrants(), f, Options{Quality: 80}), string(f))
		img, err := Decode(&buf)
		require.NoError(t, err, string(f))
		assert.Equal(t, image.Rect(0, 0, 40, 20), img.Bounds(), string(f))
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, quadrants(), WebP, Options{Lossless: true}))
	img, err := Decode(&buf)
	require.NoError(t, err)
	r, g, b, _ := img.At(5, 15).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0xffff}, [3]uint32{r, g, b})
}

// TestSave_UnknownExtension verifies nothing is written for unsupported names.
func TestSave_UnknownExtension(t *testing.T) {
	err := Save(quadrants(), filepath.Join(t.TempDir(), "out.xyz"), DefaultOptions())
	assert.Error(t, err)
}
