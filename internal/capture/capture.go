// Package capture owns the live media stream used for the quality-control
// recording. The recorded media itself is counted and discarded; nothing in
// the application ever reads it back.
package capture

import (
	"context"
	"errors"
)

var (
	// ErrNoDevice is returned when no capture device could be opened.
	ErrNoDevice = errors.New("no capture device available")
	// ErrClosed is returned by Start after the adapter has been closed.
	ErrClosed = errors.New("capture adapter closed")
)

// Kind is the media type of a track.
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// Track is one live hardware input inside a Stream.
type Track interface {
	Kind() Kind
	Label() string
	// Live reports whether the track still holds the hardware.
	Live() bool
	// Stop releases the hardware. Stopping twice is a no-op.
	Stop() error
}

// Stream is a set of live tracks plus the recorder attached to them.
type Stream interface {
	Tracks() []Track
	// Record starts the recorder.
	Record() error
	// BytesCaptured returns how many media bytes the recorder has seen.
	BytesCaptured() int64
	// Close stops the recorder and every track.
	Close() error
}

// Source opens capture streams. Open blocks until the device is granted or refused.
type Source interface {
	Open(ctx context.Context) (Stream, error)
}
