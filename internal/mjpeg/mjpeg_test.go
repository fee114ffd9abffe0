package mjpeg

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"sync"
	"testing"
	"time"
)

// threadSafeRecorder is a minimal http.ResponseWriter + http.Flusher that is safe to use across goroutines.
type threadSafeRecorder struct {
	mu     sync.Mutex
	header http.Header
	buf    bytes.Buffer
	status int
}

// Header returns the response headers.
func (r *threadSafeRecorder) Header() http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.header == nil {
		r.header = make(http.Header)
	}
	return r.header
}

// Write appends bytes to the response body.
func (r *threadSafeRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.buf.Write(p)
}

// WriteHeader sets the HTTP status code.
func (r *threadSafeRecorder) WriteHeader(statusCode int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = statusCode
}

// Flush implements http.Flusher.
func (r *threadSafeRecorder) Flush() {}

// bodyBytes returns a copy of the body written so far.
func (r *threadSafeRecorder) bodyBytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.buf.Bytes()...)
}

// solid returns a w x h image filled with c.
func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// mustJPEG encodes a solid test frame.
func mustJPEG(t *testing.T, c color.Color) []byte {
	t.Helper()
	jpg, err := EncodeJPEG(solid(4, 4, c), 60)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return jpg
}

// TestEncodeJPEG verifies the output decodes back to an image of the same size.
func TestEncodeJPEG(t *testing.T) {
	t.Parallel()
	jpg, err := EncodeJPEG(solid(8, 6, color.RGBA{R: 255, A: 255}), 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(jpg))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Fatalf("expected 8x6, got %v", b)
	}
}

// TestStreamHandlerWritesFrame verifies the handler writes a multipart frame when one is available.
func TestStreamHandlerWritesFrame(t *testing.T) {
	t.Parallel()

	s := NewStream(0)
	jpg := mustJPEG(t, color.RGBA{G: 255, A: 255})
	s.Publish(jpg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://example/mjpeg/preview", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	rec := &threadSafeRecorder{}
	done := make(chan struct{})
	go func() {
		s.Handler(rec, req)
		close(done)
	}()

	deadline := time.NewTimer(500 * time.Millisecond)
	defer deadline.Stop()
	for !bytes.Contains(rec.bodyBytes(), jpg) {
		select {
		case <-deadline.C:
			cancel()
			<-done
			t.Fatalf("timed out waiting for frame")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	if ct := rec.Header().Get("Content-Type"); ct != "multipart/x-mixed-replace; boundary="+boundary {
		t.Fatalf("unexpected content-type: %q", ct)
	}
	body := rec.bodyBytes()
	if !bytes.Contains(body, []byte("--"+boundary)) || !bytes.Contains(body, []byte("Content-Type: image/jpeg")) {
		t.Fatalf("expected multipart headers, body=%q", body)
	}
	if s.Subscribers() != 0 {
		t.Fatalf("expected subscriber to be removed, got %d", s.Subscribers())
	}
}

// TestStreamPublishThrottle verifies a throttled publish updates the latest frame without broadcasting.
func TestStreamPublishThrottle(t *testing.T) {
	t.Parallel()

	s := NewStream(time.Hour)
	ch := s.subscribe()
	defer s.unsubscribe(ch)

	jpgA := mustJPEG(t, color.RGBA{B: 255, A: 255})
	jpgB := mustJPEG(t, color.RGBA{R: 255, G: 255, A: 255})

	if !s.Publish(jpgA) {
		t.Fatal("expected first publish to broadcast")
	}
	select {
	case got := <-ch:
		if !bytes.Equal(got, jpgA) {
			t.Fatal("expected first publish to broadcast jpgA")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timed out waiting for first publish")
	}

	if s.Publish(jpgB) {
		t.Fatal("expected second publish to be throttled")
	}
	select {
	case <-ch:
		t.Fatal("expected throttled publish to not broadcast")
	case <-time.After(50 * time.Millisecond):
	}
	if !bytes.Equal(s.Last(), jpgB) {
		t.Fatal("expected last frame to update even when throttled")
	}
}

// TestStreamPublishImage verifies images are encoded before publishing.
func TestStreamPublishImage(t *testing.T) {
	t.Parallel()
	s := NewStream(0)
	if s.Last() != nil {
		t.Fatal("expected no frame before publishing")
	}
	if err := s.PublishImage(solid(2, 2, color.White), 90); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(s.Last())); err != nil {
		t.Fatalf("expected a decodable frame: %v", err)
	}
}

// TestStreamPublishConcurrent churns publish and subscribe to catch races under -race.
func TestStreamPublishConcurrent(t *testing.T) {
	t.Parallel()

	s := NewStream(0)
	jpg := mustJPEG(t, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				s.Publish(jpg)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				ch := s.subscribe()
				select {
				case <-ch:
				default:
				}
				s.unsubscribe(ch)
			}
		}()
	}
	wg.Wait()
}
