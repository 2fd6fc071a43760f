package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// streamInterval paces the MJPEG stream at about 15 FPS.
const streamInterval = 66 * time.Millisecond

// FrameBuffer holds the most recently rendered frame as JPEG bytes.
type FrameBuffer struct {
	mu    sync.RWMutex
	jpeg  []byte
	count uint64
}

// NewFrameBuffer creates an empty frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Update encodes frame and stores it as the latest frame.
func (b *FrameBuffer) Update(frame *gocv.Mat) error {
	if frame == nil || frame.Empty() {
		return nil
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())

	b.mu.Lock()
	b.jpeg = data
	b.count++
	b.mu.Unlock()

	return nil
}

// Latest returns the latest JPEG frame and its sequence number.
// The sequence number is zero until the first frame arrives.
func (b *FrameBuffer) Latest() ([]byte, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.jpeg, b.count
}

// StreamHandler serves the rendered game as MJPEG.
type StreamHandler struct {
	frames *FrameBuffer
}

// NewStreamHandler creates a new StreamHandler reading from frames.
func NewStreamHandler(frames *FrameBuffer) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var sent uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		data, seq := h.frames.Latest()
		if seq == 0 || seq == sent {
			continue
		}
		sent = seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
