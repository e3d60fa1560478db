package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/alkime/promo/internal/capture"
	"github.com/alkime/promo/internal/lead"
	"github.com/alkime/promo/internal/logger"
	"github.com/alkime/promo/internal/share"
	"github.com/alkime/promo/internal/tui"
	"github.com/alkime/promo/internal/tui/wizard"
	tea "github.com/charmbracelet/bubbletea"
)

// CLI defines the promo command structure.
type CLI struct {
	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Launch the lead capture wizard"`

	// Subcommands
	Devices DevicesCmd `cmd:"" help:"List available capture devices"`
}

// TUICmd is the default command that runs the TUI.
type TUICmd struct {
	PageURL    string `flag:"" env:"PROMO_PAGE_URL" default:"https://imperia.example/promo" help:"Page link attached to Telegram shares"`
	LogFile    string `flag:"" optional:"" help:"Log file path (default: promo.log in the temp dir)"`
	Debug      bool   `flag:"" help:"Enable debug logging"`
	SampleRate int    `flag:"" default:"16000" help:"Capture sample rate"`
	Channels   int    `flag:"" default:"1" help:"Capture channel count"`
}

// Run executes the TUI command.
func (c *TUICmd) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if c.LogFile == "" {
		c.LogFile = filepath.Join(os.TempDir(), "promo.log")
	}

	log, closer, err := logger.SetupFileLogger(c.LogFile, c.Debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	conf := capture.DefaultDeviceConfig()
	conf.SampleRate = c.SampleRate
	conf.Channels = c.Channels

	adapter := capture.NewAdapter(capture.NewMicrophoneSource(conf), log)

	// always release the device when we're done
	defer func() {
		if err := adapter.Close(); err != nil {
			log.Error("failed to release capture device", "error", err)
		}
	}()

	config := tui.Config{
		Cancel: cancel,
		Release: func() {
			if err := adapter.Close(); err != nil {
				log.Error("failed to release capture device", "error", err)
			}
		},
		Reset: adapter.Reset,
	}

	controls := wizard.RecordingControls{
		Capture:  captureKnob{ctx: ctx, adapter: adapter},
		Captured: captureDial{adapter: adapter},
		Levels:   captureLevels{adapter: adapter},
	}

	dispatcher := share.NewDispatcher(share.SystemOpener{}, c.PageURL, log)

	log.Info("promo wizard starting", "page_url", c.PageURL, "sample_rate", conf.SampleRate, "channels", conf.Channels)

	p := tea.NewProgram(tui.New(ctx, config, lead.New(), controls, dispatcher))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	fmt.Println("\nfinished. bye!")

	return nil
}

// DevicesCmd lists available capture devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run() error {
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	slog.Info("Enumerating capture devices...")

	mic := capture.NewMicrophoneSource(capture.DefaultDeviceConfig())
	devices, err := mic.EnumerateDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate capture devices: %w", err)
	}

	for _, dev := range devices {
		slog.Info("Capture Device",
			"name", dev.Name,
			"isDefault", dev.IsDefault,
			"formats", dev.Formats,
		)
	}

	return nil
}

func main() {
	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("promo"),
		kong.Description("IMPERIA promo lead capture wizard"),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}

type captureKnob struct {
	ctx     context.Context
	adapter *capture.Adapter
}

func (ck captureKnob) Read() bool {
	return ck.adapter.IsRecording()
}

// On blocks until the device answers. Refusals are already logged by the adapter.
func (ck captureKnob) On() {
	_ = ck.adapter.Start(ck.ctx)
}

func (ck captureKnob) Off() {
	if err := ck.adapter.Stop(); err != nil {
		slog.Error("captureKnob Off error", "error", err)
	}
}

type captureDial struct {
	adapter *capture.Adapter
}

func (cd captureDial) Read() int64 {
	return cd.adapter.BytesCaptured()
}

type captureLevels struct {
	adapter *capture.Adapter
}

// Read returns the recent input peaks for the meter.
func (cl captureLevels) Read() []int16 {
	return cl.adapter.Levels()
}
