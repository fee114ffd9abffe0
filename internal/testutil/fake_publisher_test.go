package testutil

import (
	"image"
	"image/color"
	"testing"
)

// TestSolid verifies the size and fill of a generated image.
func TestSolid(t *testing.T) {
	c := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	img := Solid(5, 3, c)
	if got := img.Bounds(); got != image.Rect(0, 0, 5, 3) {
		t.Fatalf("unexpected bounds %v", got)
	}
	if got := img.NRGBAAt(4, 2); got != c {
		t.Fatalf("expected %v, got %v", c, got)
	}
}

// TestFakePublisher verifies frames are recorded in order.
func TestFakePublisher(t *testing.T) {
	var p FakePublisher
	if _, err := p.Last(); err == nil {
		t.Fatalf("expected error before any publish")
	}
	_ = p.PublishImage(Solid(1, 1, color.White), 50)
	_ = p.PublishImage(Solid(2, 2, color.Black), 70)
	if p.Count() != 2 {
		t.Fatalf("expected 2 frames, got %d", p.Count())
	}
	last, err := p.Last()
	if err != nil || last.Quality != 70 {
		t.Fatalf("unexpected last frame %+v, err=%v", last, err)
	}
}
