package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Adapter drives a single recording session on top of a Source.
// At most one Stream is live at a time. Adapter is safe for concurrent use.
type Adapter struct {
	source Source
	logger *slog.Logger

	mu        sync.Mutex
	stream    Stream
	opening   bool
	recording bool
	recorded  bool
	closed    bool
	captured  int64
}

// NewAdapter creates an adapter over the given source.
func NewAdapter(source Source, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Adapter{ //nolint:exhaustruct // state fields start zeroed
		source: source,
		logger: logger,
	}
}

// Start opens the source and begins recording. It is a no-op while a recording
// is in progress or once one has been captured. A refused or missing device is
// logged and returned; there is no retry.
func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}

	if a.opening || a.recording || a.recorded {
		a.mu.Unlock()
		return nil
	}

	a.opening = true
	a.mu.Unlock()

	stream, err := a.source.Open(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.opening = false

	if err != nil {
		a.logger.Error("error accessing capture device", "error", err)
		return fmt.Errorf("failed to open capture source: %w", err)
	}

	// closed or reset while the permission request was pending
	if a.closed {
		a.release(stream)
		return ErrClosed
	}

	if err := stream.Record(); err != nil {
		a.release(stream)
		a.logger.Error("error starting recorder", "error", err)

		return fmt.Errorf("failed to start recorder: %w", err)
	}

	a.stream = stream
	a.recording = true

	a.logger.Debug("capture started", "tracks", len(stream.Tracks()))

	return nil
}

// Stop halts the recorder and releases every track. It is safe to call when
// nothing is recording.
func (a *Adapter) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stream == nil {
		return nil
	}

	a.captured = a.stream.BytesCaptured()
	err := a.release(a.stream)
	a.stream = nil
	a.recording = false
	a.recorded = true

	a.logger.Debug("capture stopped", "bytes", a.captured)

	return err
}

// Reset drops any live stream and forgets the previous recording.
func (a *Adapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stream != nil {
		_ = a.release(a.stream)
		a.stream = nil
	}

	a.recording = false
	a.recorded = false
	a.captured = 0
}

// Close releases the device on every exit path. Start fails after Close.
func (a *Adapter) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	return a.Stop()
}

// IsRecording reports whether the recorder is running.
func (a *Adapter) IsRecording() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.recording
}

// HasRecorded reports whether a recording has been captured since the last Reset.
func (a *Adapter) HasRecorded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.recorded
}

// BytesCaptured returns the byte count of the live or last finished recording.
func (a *Adapter) BytesCaptured() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stream != nil {
		return a.stream.BytesCaptured()
	}

	return a.captured
}

// Levels returns recent input peaks of the live stream, or nil when idle or
// when the stream has no meter.
func (a *Adapter) Levels() []int16 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if m, ok := a.stream.(Meter); ok && a.recording {
		return m.Levels()
	}

	return nil
}

// release closes the stream and makes sure no track is left holding hardware.
func (a *Adapter) release(stream Stream) error {
	errs := []error{stream.Close()}

	for _, tr := range stream.Tracks() {
		if tr.Live() {
			errs = append(errs, tr.Stop())
		}
	}

	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("failed to release capture stream", "error", err)
		return fmt.Errorf("failed to release capture stream: %w", err)
	}

	return nil
}
