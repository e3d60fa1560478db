package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/alkime/promo/pkg/channels"
	"github.com/alkime/promo/pkg/collections"
	"github.com/gen2brain/malgo"
)

const (
	packetBuffer = 64
	// meterPackets is how many recent packets the input meter remembers.
	meterPackets = 48
)

// DeviceConfig configures the microphone capture device.
type DeviceConfig struct {
	Format     malgo.FormatType
	Channels   int
	SampleRate int
}

// DefaultDeviceConfig is 16-bit mono at 16kHz.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		Format:     malgo.FormatS16,
		Channels:   1,
		SampleRate: 16_000,
	}
}

// MicrophoneSource opens the system default capture device through malgo.
// Terminals have no camera API, so the stream carries a single audio track.
type MicrophoneSource struct {
	conf DeviceConfig
}

// NewMicrophoneSource creates a microphone source; zero config fields take defaults.
func NewMicrophoneSource(conf DeviceConfig) *MicrophoneSource {
	def := DefaultDeviceConfig()
	if conf.Format == malgo.FormatUnknown {
		conf.Format = def.Format
	}

	if conf.Channels <= 0 {
		conf.Channels = def.Channels
	}

	if conf.SampleRate <= 0 {
		conf.SampleRate = def.SampleRate
	}

	return &MicrophoneSource{conf: conf}
}

// Open allocates the capture device. The device stays idle until Record.
func (m *MicrophoneSource) Open(_ context.Context) (Stream, error) {
	mgCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	ms := &micStream{ //nolint:exhaustruct // counters start zeroed
		mgCtx:   mgCtx,
		packets: channels.NewLossy[[]byte](packetBuffer),
	}
	if m.conf.Format == malgo.FormatS16 {
		ms.peaks = NewPeakRing(meterPackets)
	}

	devCnf := malgo.DefaultDeviceConfig(malgo.Capture)
	devCnf.Capture.Format = m.conf.Format
	devCnf.Capture.Channels = uint32(m.conf.Channels) //nolint:gosec // positive by construction
	devCnf.SampleRate = uint32(m.conf.SampleRate)     //nolint:gosec // positive by construction

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, samples []byte, _ uint32) {
			// malgo reuses the buffer after the callback returns
			pkt := append([]byte(nil), samples...)

			// never block the audio thread
			ms.packets.Send(pkt)
		},
	}

	ms.device, err = malgo.InitDevice(mgCtx.Context, devCnf, callbacks)
	if err != nil {
		freeContext(mgCtx)
		return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}

	ms.track = &micTrack{stream: ms} //nolint:exhaustruct // once/live zero values
	ms.track.live.Store(true)

	ms.wg.Go(ms.drain)

	return ms, nil
}

// EnumerateDevices lists the available capture devices.
func (m *MicrophoneSource) EnumerateDevices(_ context.Context) ([]DeviceInfo, error) {
	mgCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer freeContext(mgCtx)

	devices, err := mgCtx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to get capture devices: %w", err)
	}

	return collections.Apply(devices, toDeviceInfo), nil
}

// DeviceInfo describes a capture device.
type DeviceInfo struct {
	Name      string
	IsDefault bool
	Formats   []string
}

func toDeviceInfo(mdi malgo.DeviceInfo) DeviceInfo {
	formats := make([]string, 0, mdi.FormatCount)
	for _, mf := range mdi.Formats[:mdi.FormatCount] {
		formats = append(formats, fmt.Sprintf("(SampleSizeBytes: %d, Channels: %d, SampleRate: %d)",
			malgo.SampleSizeInBytes(mf.Format), mf.Channels, mf.SampleRate))
	}

	return DeviceInfo{
		Name:      mdi.Name(),
		IsDefault: mdi.IsDefault != 0,
		Formats:   formats,
	}
}

type micStream struct {
	mgCtx  *malgo.AllocatedContext
	device *malgo.Device
	track  *micTrack

	packets *channels.Lossy[[]byte]
	peaks   *PeakRing // nil unless the format is S16
	wg      sync.WaitGroup
	bytes   atomic.Int64
}

// drain counts and discards captured packets until the device is released.
// Only the packet peak survives, for the input meter.
func (ms *micStream) drain() {
	for pkt := range ms.packets.C() {
		ms.bytes.Add(int64(len(pkt)))
		if ms.peaks != nil {
			ms.peaks.Push(PeakS16(pkt))
		}
	}
}

func (ms *micStream) Levels() []int16 {
	if ms.peaks == nil {
		return nil
	}

	return ms.peaks.Levels()
}

func (ms *micStream) Tracks() []Track {
	return []Track{ms.track}
}

func (ms *micStream) Record() error {
	if !ms.track.Live() {
		return errors.New("microphone track already stopped")
	}

	if ms.device.IsStarted() {
		return nil
	}

	if err := ms.device.Start(); err != nil {
		return fmt.Errorf("failed to start malgo device: %w", err)
	}

	return nil
}

func (ms *micStream) BytesCaptured() int64 {
	return ms.bytes.Load()
}

func (ms *micStream) Close() error {
	var err error
	if ms.track.Live() && ms.device.IsStarted() {
		if stopErr := ms.device.Stop(); stopErr != nil {
			err = fmt.Errorf("failed to stop malgo device: %w", stopErr)
		}
	}

	return errors.Join(err, ms.track.Stop())
}

type micTrack struct {
	stream *micStream
	once   sync.Once
	live   atomic.Bool
}

func (t *micTrack) Kind() Kind    { return KindAudio }
func (t *micTrack) Label() string { return "default microphone" }
func (t *micTrack) Live() bool    { return t.live.Load() }

// Stop uninitializes the device so the OS releases the microphone.
func (t *micTrack) Stop() error {
	t.once.Do(func() {
		ms := t.stream
		ms.device.Uninit()
		freeContext(ms.mgCtx)

		// no more callbacks after Uninit
		ms.packets.Close()
		ms.wg.Wait()

		if n := ms.packets.Dropped(); n > 0 {
			slog.Debug("dropped capture packets", "count", n)
		}

		t.live.Store(false)
	})

	return nil
}

func freeContext(mgCtx *malgo.AllocatedContext) {
	if mgCtx == nil {
		return
	}

	if err := mgCtx.Uninit(); err != nil {
		slog.Error("failed to uninitialize malgo context", "error", err)
	}

	mgCtx.Free()
}
