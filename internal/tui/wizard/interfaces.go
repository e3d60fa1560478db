package wizard

import (
	"context"

	"github.com/alkime/promo/internal/lead"
	"github.com/alkime/promo/internal/share"
	"github.com/alkime/promo/pkg/uictl"
)

// Sharer opens a messenger deep link pre-filled with the lead.
type Sharer interface {
	Share(ctx context.Context, p share.Platform, fd lead.FormData) (string, error)
}

// RecordingControls provides access to the capture hardware.
type RecordingControls struct {
	// Capture turns the recorder on and off. On blocks until the device
	// is granted or refused and leaves Read false on refusal.
	Capture uictl.Knob
	// Captured reads the number of media bytes seen so far.
	Captured uictl.Dial[int64]
	// Levels reads recent input peaks for the live meter. Nil draws a flat line.
	Levels uictl.Levels[int16]
}
