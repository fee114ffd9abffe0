// Package testutil provides recording fakes and image helpers for tests.
package testutil

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
)

// Frame records a single published image.
type Frame struct {
	Image   image.Image
	Quality int
}

// FakePublisher records published frames for tests. It satisfies the
// preview publisher contract.
type FakePublisher struct {
	mu     sync.Mutex
	Frames []Frame
	// Err, when set, is returned by every publish.
	Err error
}

// PublishImage records img.
func (f *FakePublisher) PublishImage(img image.Image, quality int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Frames = append(f.Frames, Frame{Image: img, Quality: quality})
	return nil
}

// Count returns the number of recorded frames.
func (f *FakePublisher) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Frames)
}

// Last returns the most recent frame.
func (f *FakePublisher) Last() (Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Frames) == 0 {
		return Frame{}, errors.New("no frames published")
	}
	return f.Frames[len(f.Frames)-1], nil
}

// Solid returns a w x h image filled with c.
func Solid(w, h int, c color.Color) *image.NRGBA {
	return imaging.New(w, h, c)
}
