package capture

import (
	"encoding/binary"
	"sync"
)

// Meter is implemented by streams that can report recent input levels.
type Meter interface {
	// Levels returns recent peak amplitudes, oldest first.
	Levels() []int16
}

// PeakRing keeps the peak amplitude of the last n packets.
// Writes come from one goroutine; reads are safe from any.
type PeakRing struct {
	mu    sync.RWMutex
	peaks []int16
	next  int
	full  bool
}

// NewPeakRing creates a ring holding n peaks.
func NewPeakRing(n int) *PeakRing {
	return &PeakRing{peaks: make([]int16, max(1, n))} //nolint:exhaustruct // position starts at zero
}

// Push records one peak, dropping the oldest once the ring is full.
func (r *PeakRing) Push(peak int16) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.peaks[r.next] = peak
	r.next = (r.next + 1) % len(r.peaks)
	if r.next == 0 {
		r.full = true
	}
}

// Levels returns the stored peaks in chronological order.
func (r *PeakRing) Levels() []int16 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.full {
		return append([]int16(nil), r.peaks[:r.next]...)
	}

	out := make([]int16, 0, len(r.peaks))
	out = append(out, r.peaks[r.next:]...)

	return append(out, r.peaks[:r.next]...)
}

// PeakS16 returns the largest absolute sample of little-endian signed 16-bit PCM.
// A trailing odd byte is ignored.
func PeakS16(pcm []byte) int16 {
	var peak int16

	for i := 0; i+1 < len(pcm); i += 2 {
		s := int16(binary.LittleEndian.Uint16(pcm[i:])) //nolint:gosec // reinterpreting PCM bits
		if s == -32768 {
			return 32767
		}

		if s < 0 {
			s = -s
		}

		peak = max(peak, s)
	}

	return peak
}
