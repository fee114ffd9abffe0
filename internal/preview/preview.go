// Package preview rasterizes the crop overlay on top of the scaled source
// image and publishes the result to an MJPEG stream.
package preview

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/frudas24/cropslice/internal/display"
	"github.com/frudas24/cropslice/internal/engine"
	"github.com/frudas24/cropslice/internal/geom"
)

// Style holds the overlay paints.
type Style struct {
	Background     color.Color
	Border         color.Color
	BorderWidth    float64
	Guideline      color.Color
	GuidelineWidth float64
	Surround       color.Color
}

// DefaultStyle returns translucent white strokes over a darkened surround.
func DefaultStyle() Style {
	return Style{
		Background:     color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF},
		Border:         color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xAA},
		BorderWidth:    3,
		Guideline:      color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xAA},
		GuidelineWidth: 1,
		Surround:       color.NRGBA{A: 0xB0},
	}
}

// Renderer draws frames. The zero value is not usable; use NewRenderer.
type Renderer struct {
	Style  Style
	Scaler xdraw.Scaler
}

// NewRenderer returns a renderer with DefaultStyle and bilinear scaling.
func NewRenderer() *Renderer {
	return &Renderer{Style: DefaultStyle(), Scaler: xdraw.ApproxBiLinear}
}

// Render draws src through vp and paints ov on top. Guidelines are only
// drawn while a handle is pressed when guidesOnPress is set.
func (r *Renderer) Render(src image.Image, vp display.Viewport, ov engine.Overlay, guidesOnPress bool) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.Style.Background), image.Point{}, draw.Src)

	if src != nil {
		sb := src.Bounds()
		t := vp.Transform
		target := pixelRect(geom.Rect{
			Left:   t.TransX,
			Top:    t.TransY,
			Right:  t.TransX + float64(sb.Dx())*t.ScaleX,
			Bottom: t.TransY + float64(sb.Dy())*t.ScaleY,
		})
		r.Scaler.Scale(dst, target, src, sb, draw.Over, nil)
	}

	surround := image.NewUniform(r.Style.Surround)
	for _, band := range ov.Bands {
		fill(dst, band, surround)
	}

	if ov.Pressed || !guidesOnPress {
		guide := image.NewUniform(r.Style.Guideline)
		hw := r.Style.GuidelineWidth / 2
		for _, l := range ov.Guidelines {
			fill(dst, geom.Normalize(geom.R(l.From.X-hw, l.From.Y-hw, l.To.X+hw, l.To.Y+hw)), guide)
		}
	}

	border := image.NewUniform(r.Style.Border)
	b, hw := ov.Border, r.Style.BorderWidth/2
	fill(dst, geom.R(b.Left-hw, b.Top-hw, b.Right+hw, b.Top+hw), border)
	fill(dst, geom.R(b.Left-hw, b.Bottom-hw, b.Right+hw, b.Bottom+hw), border)
	fill(dst, geom.R(b.Left-hw, b.Top+hw, b.Left+hw, b.Bottom-hw), border)
	fill(dst, geom.R(b.Right-hw, b.Top+hw, b.Right+hw, b.Bottom-hw), border)
	return dst
}

// Publisher receives rendered frames.
type Publisher interface {
	PublishImage(img image.Image, quality int) error
}

// Source supplies the state to render. ok is false when there is nothing to show yet.
type Source func() (src image.Image, vp display.Viewport, ov engine.Overlay, ok bool)

// Preview re-renders on demand and publishes at most once per interval.
type Preview struct {
	renderer *Renderer
	pub      Publisher
	source   Source
	quality  int
	log      *slog.Logger

	mu    sync.Mutex
	dirty bool
	wake  chan struct{}
}

// New returns a preview that renders from source and publishes to pub.
func New(pub Publisher, source Source, quality int, logger *slog.Logger) *Preview {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preview{
		renderer: NewRenderer(),
		pub:      pub,
		source:   source,
		quality:  quality,
		log:      logger,
		dirty:    true,
		wake:     make(chan struct{}, 1),
	}
}

// Invalidate marks the frame stale so the next tick re-renders it.
func (p *Preview) Invalidate() {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Flush renders and publishes immediately if the frame is stale. It reports
// whether a frame was published.
func (p *Preview) Flush() (bool, error) {
	p.mu.Lock()
	dirty := p.dirty
	p.dirty = false
	p.mu.Unlock()
	if !dirty {
		return false, nil
	}
	src, vp, ov, ok := p.source()
	if !ok || vp.Width <= 0 || vp.Height <= 0 {
		return false, nil
	}
	frame := p.renderer.Render(src, vp, ov, false)
	if err := p.pub.PublishImage(frame, p.quality); err != nil {
		return false, err
	}
	return true, nil
}

// Run flushes stale frames at most once per interval until ctx is done.
func (p *Preview) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		case <-p.wake:
			// Coalesce bursts of moves into the next tick.
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
			}
		}
		if _, err := p.Flush(); err != nil {
			p.log.Warn("preview publish failed", "err", err)
		}
	}
}

// fill paints r over dst with c, clipped to dst.
func fill(dst *image.RGBA, r geom.Rect, c image.Image) {
	pr := pixelRect(r).Intersect(dst.Bounds())
	if pr.Empty() {
		return
	}
	draw.Draw(dst, pr, c, image.Point{}, draw.Over)
}

// pixelRect converts r to the smallest integer rectangle covering it.
func pixelRect(r geom.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Left)),
		int(math.Floor(r.Top)),
		int(math.Ceil(r.Right)),
		int(math.Ceil(r.Bottom)),
	)
}
