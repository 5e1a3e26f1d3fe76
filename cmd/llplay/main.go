// Package main provides the CLI entry point for llplay.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/Fuxill/WinCamStreamIOS/pkg/adapters/ffmpegengine"
	"github.com/Fuxill/WinCamStreamIOS/pkg/adapters/filesink"
	"github.com/Fuxill/WinCamStreamIOS/pkg/adapters/logger"
	"github.com/Fuxill/WinCamStreamIOS/pkg/adapters/nullsink"
	"github.com/Fuxill/WinCamStreamIOS/pkg/adapters/osfilesystem"
	"github.com/Fuxill/WinCamStreamIOS/pkg/adapters/sdldisplay"
	"github.com/Fuxill/WinCamStreamIOS/pkg/adapters/tcpingest"
	"github.com/Fuxill/WinCamStreamIOS/pkg/config"
	"github.com/Fuxill/WinCamStreamIOS/pkg/driver"
	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
	"github.com/Fuxill/WinCamStreamIOS/pkg/stages/accel"
	"github.com/Fuxill/WinCamStreamIOS/pkg/summarizer"
)

func init() {
	// SDL requires the window, renderer and event loop to live on the
	// main OS thread.
	runtime.LockOSThread()
}

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Play    PlayCmd    `cmd:"" default:"withargs" help:"Receive and display a low-latency H.264 stream."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// PlayCmd defines the play subcommand.
type PlayCmd struct {
	URL string `arg:"" optional:"" help:"Stream source (default: tcp://127.0.0.1:5000)."`

	Config string `short:"c" type:"existingfile" help:"YAML configuration file."`

	// Decoding options
	CPU bool `help:"Decode in software only, never try the GPU."`

	// Presentation options
	FPS        *float64 `help:"Cap the presentation rate (0 = show every picture as it decodes)."`
	NoDrop     bool     `help:"Wait for the next presentation slot instead of dropping early pictures."`
	Title      string   `help:"Window title."`
	ProbeBytes *int     `help:"Stream bytes to inspect for picture size at startup."`

	// Debug options
	Debug    bool   `short:"d" help:"Enable debug output."`
	DebugDir string `help:"Directory for debug output (default: ./debug)."`

	// Logging options
	LogLevel string `short:"l" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("llplay"),
		kong.Description("Low-latency H.264 stream player."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the play command.
func (cmd *PlayCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}

	// Create logger
	var log ports.Logger
	if cfg.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	// Create adapters
	source := tcpingest.New(cfg.URL, cfg.ProbeBytes, log)
	provider := ffmpegengine.NewProvider(log)
	display, err := sdldisplay.New(cfg.WindowTitle)
	if err != nil {
		return err
	}
	defer display.Close()

	// Create debug sink
	var sink ports.DebugSink
	if cfg.Debug {
		fs := osfilesystem.New()
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs)
	} else {
		sink = nullsink.New()
	}

	log.Info(l10n.F("Connecting to %s...", cfg.URL))

	drv := driver.New(
		source,
		accel.NewManager(provider, log),
		display,
		ports.SystemClock{},
		sink,
		log,
		cfg.ToDriverConfig(),
	)
	stats, err := drv.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Debug {
		if werr := writeSessionReport(cfg, stats); werr != nil {
			log.Warn(l10n.F("Session report failed: %s", werr))
		}
	}
	return nil
}

// writeSessionReport dumps a Markdown summary of the finished session
// into the debug directory.
func writeSessionReport(cfg config.Config, stats driver.RunStats) error {
	summary := summarizer.NewBuilder().
		WithStream(cfg.URL, stats.Codec, stats.Width, stats.Height).
		WithEngine(stats.Engine, stats.Accelerated).
		WithSettings(summarizer.Settings{
			Acceleration:  cfg.Acceleration,
			TargetFPS:     cfg.FPS,
			DropWhenAhead: cfg.DropWhenAhead,
		}).
		WithPlayback(summarizer.PlaybackInfo{
			Decoded:           stats.Decoded,
			Presented:         stats.Presented,
			DroppedRealize:    stats.DroppedRealize,
			DroppedPacing:     stats.DroppedPacing,
			DroppedConversion: stats.DroppedConversion,
			SkippedSurface:    stats.SkippedSurface,
			DurationMs:        int(stats.Duration.Milliseconds()),
		}).
		Build()

	writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter())
	return writer.Write(filepath.Join(cfg.DebugDir, "session.md"), summary)
}

// buildConfig loads the configuration file, if any, and applies CLI
// overrides on top.
func (cmd *PlayCmd) buildConfig() (config.Config, error) {
	cfg := config.Defaults()
	if cmd.Config != "" {
		loaded, err := config.LoadFromFile(cmd.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", cmd.Config, err)
		}
		cfg = loaded
	}

	if cmd.URL != "" {
		cfg.URL = cmd.URL
	}
	if cmd.CPU {
		cfg.Acceleration = "software"
	}
	if cmd.FPS != nil {
		cfg.FPS = *cmd.FPS
	}
	if cmd.NoDrop {
		cfg.DropWhenAhead = false
	}
	if cmd.Title != "" {
		cfg.WindowTitle = cmd.Title
	}
	if cmd.ProbeBytes != nil {
		cfg.ProbeBytes = *cmd.ProbeBytes
	}
	if cmd.Debug {
		cfg.Debug = true
	}
	if cmd.DebugDir != "" {
		cfg.DebugDir = cmd.DebugDir
	}
	if cmd.LogLevel != "" {
		cfg.LogLevel = cmd.LogLevel
	}
	if cmd.Quiet {
		cfg.Quiet = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("llplay (Go) version %s", version))
	return nil
}
