// Package mjpeg serves rendered crop previews as a multipart MJPEG stream.
package mjpeg

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

const boundary = "cropframe"

// DefaultQuality is used when a caller passes a quality outside 1..100.
const DefaultQuality = 75

// Stream fans JPEG frames out to every connected HTTP client. Frames
// published faster than the minimum interval replace the held frame without
// being broadcast.
type Stream struct {
	mu          sync.RWMutex
	subs        map[chan []byte]struct{}
	last        []byte
	minInterval time.Duration
	lastPush    time.Time
	keepAlive   time.Duration
}

// NewStream creates a stream that broadcasts at most once per minInterval.
func NewStream(minInterval time.Duration) *Stream {
	return &Stream{
		subs:        make(map[chan []byte]struct{}),
		minInterval: minInterval,
		keepAlive:   time.Second,
	}
}

// SetMinInterval changes the broadcast throttle.
func (s *Stream) SetMinInterval(d time.Duration) {
	s.mu.Lock()
	s.minInterval = d
	s.mu.Unlock()
}

// Publish stores jpg as the latest frame and broadcasts it unless throttled.
// It reports whether the frame was broadcast.
func (s *Stream) Publish(jpg []byte) bool {
	frame := append([]byte(nil), jpg...)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = frame
	if s.minInterval > 0 && now.Sub(s.lastPush) < s.minInterval {
		return false
	}
	s.lastPush = now
	for ch := range s.subs {
		// Drop a stale unread frame so slow clients always get the newest one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- frame:
		default:
		}
	}
	return true
}

// PublishImage encodes img at the given quality and publishes it.
func (s *Stream) PublishImage(img image.Image, quality int) error {
	jpg, err := EncodeJPEG(img, quality)
	if err != nil {
		return err
	}
	s.Publish(jpg)
	return nil
}

// Last returns a copy of the latest frame, or nil before the first publish.
func (s *Stream) Last() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.last) == 0 {
		return nil
	}
	return append([]byte(nil), s.last...)
}

// Subscribers returns the number of connected clients.
func (s *Stream) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Handler streams frames to the client until its request context ends. The
// latest frame is re-sent on every keep-alive tick so idle previews stay visible.
func (s *Stream) Handler(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Connection", "keep-alive")
	h.Set("Pragma", "no-cache")

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	keep := time.NewTicker(s.keepAlive)
	defer keep.Stop()

	for {
		var jpg []byte
		select {
		case <-r.Context().Done():
			return
		case jpg = <-ch:
		case <-keep.C:
			jpg = s.Last()
		}
		if len(jpg) == 0 {
			continue
		}
		if err := writePart(w, jpg); err != nil {
			return
		}
		fl.Flush()
	}
}

// EncodeJPEG encodes img as a baseline JPEG for the stream. A quality outside
// 1..100 uses DefaultQuality. Crop downloads go through extract.Encode, which
// shares the same imaging encoder but defaults to a higher quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// subscribe registers a client and primes it with the latest frame.
func (s *Stream) subscribe() chan []byte {
	ch := make(chan []byte, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	if len(s.last) > 0 {
		ch <- append([]byte(nil), s.last...)
	}
	s.mu.Unlock()
	return ch
}

// unsubscribe removes a client subscription and closes its channel.
func (s *Stream) unsubscribe(ch chan []byte) {
	s.mu.Lock()
	delete(s.subs, ch)
	close(ch)
	s.mu.Unlock()
}

// writePart writes a single JPEG frame to the multipart response.
func writePart(w http.ResponseWriter, jpg []byte) error {
	header := "\r\n--" + boundary + "\r\n" +
		"Content-Type: image/jpeg\r\n" +
		"Content-Length: " + strconv.Itoa(len(jpg)) + "\r\n\r\n"
	if _, err := w.Write([]byte(header)); err != nil {
		return err
	}
	_, err := w.Write(jpg)
	return err
}
