package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestFrameBuffer_Update(t *testing.T) {
	b := NewFrameBuffer()

	if data, seq := b.Latest(); data != nil || seq != 0 {
		t.Fatalf("expected empty buffer, got %d bytes at seq %d", len(data), seq)
	}

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 255, 0), 48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	if err := b.Update(&frame); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	data, seq := b.Latest()
	if seq != 1 {
		t.Errorf("expected seq 1, got %d", seq)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Error("expected JPEG start-of-image marker")
	}

	decoded, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		t.Fatalf("IMDecode() error = %v", err)
	}
	defer decoded.Close()
	if decoded.Cols() != 64 || decoded.Rows() != 48 {
		t.Errorf("decoded size = %dx%d, want 64x48", decoded.Cols(), decoded.Rows())
	}

	t.Run("empty frame ignored", func(t *testing.T) {
		empty := gocv.NewMat()
		defer empty.Close()

		if err := b.Update(&empty); err != nil {
			t.Errorf("Update(empty) error = %v", err)
		}
		if err := b.Update(nil); err != nil {
			t.Errorf("Update(nil) error = %v", err)
		}
		if _, seq := b.Latest(); seq != 1 {
			t.Errorf("empty frames should not advance seq, got %d", seq)
		}
	})
}

func TestStreamHandler_WritesFrames(t *testing.T) {
	b := NewFrameBuffer()
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()
	b.Update(&frame)

	ctx, cancel := context.WithTimeout(context.Background(), 5*streamInterval)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		NewStreamHandler(b).ServeHTTP(rec, req)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after request context was cancelled")
	}

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Errorf("unexpected Content-Type %q", ct)
	}

	// The frame is unchanged, so it is written exactly once.
	if n := strings.Count(rec.Body.String(), "--frame\r\n"); n != 1 {
		t.Errorf("expected 1 frame part, got %d", n)
	}
}
