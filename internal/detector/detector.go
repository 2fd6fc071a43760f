// Package detector turns camera frames into pointer positions for the game.
// Hand landmarks come from a MediaPipe subprocess; faces from an OpenCV Haar cascade.
package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to track (default: 6).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
// Several players can reach into the frame at once, so up to six hands are tracked.
func DefaultConfig() Config {
	return Config{
		MaxHands:        6,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
