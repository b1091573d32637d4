// ringdown is a circular countdown timer for the terminal.
//
// A ring drains clockwise from the top while an "m:s" label counts down to
// zero. In a capable terminal the ring is drawn with Kitty, iTerm2 or Sixel
// graphics, or with half-block cells elsewhere; tiny terminals get a label
// and a bar.
//
// Usage:
//
//	ringdown [flags]
//
// Flags:
//
//	-config string       Path to configuration file (default: $XDG_CONFIG_HOME/ringdown/config.toml)
//	-seconds int         Countdown length in seconds
//	-theme string        Color theme name
//	-protocol string     Graphics protocol (auto|kitty|iterm2|sixel|halfblocks|none)
//	-snapshot string     Write the initial frame to a PNG file ("-" for stdout) and exit
//	-headless            Print labels to stdout instead of drawing the ring
//	-exit                Quit the TUI when the countdown finishes
//	-chime               Play a bell on completion
//	-mqtt-broker string  Publish countdown events to this MQTT broker
//	-metrics-addr string Serve Prometheus metrics on this address
//	-verbose             Enable verbose logging
//	-version             Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/ringdown/pkg/app"
	"gitlab.com/tinyland/lab/ringdown/pkg/config"
	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
	"gitlab.com/tinyland/lab/ringdown/pkg/density"
	"gitlab.com/tinyland/lab/ringdown/pkg/image"
	"gitlab.com/tinyland/lab/ringdown/pkg/terminal"
	"gitlab.com/tinyland/lab/ringdown/pkg/theme"
	"gitlab.com/tinyland/lab/ringdown/pkg/widgets"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// flagOverrides holds command-line values that replace config settings.
// Only flags the user actually set are applied.
type flagOverrides struct {
	seconds     int
	theme       string
	protocol    string
	exit        bool
	chime       bool
	mqttBroker  string
	metricsAddr string
	set         map[string]bool
}

func main() {
	var ov flagOverrides
	var (
		configPath   = flag.String("config", "", "Path to configuration file")
		snapshotPath = flag.String("snapshot", "", "Write the initial frame to a PNG file (\"-\" for stdout) and exit")
		headless     = flag.Bool("headless", false, "Print labels to stdout instead of drawing the ring")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.IntVar(&ov.seconds, "seconds", 0, "Countdown length in seconds")
	flag.StringVar(&ov.theme, "theme", "", "Color theme name")
	flag.StringVar(&ov.protocol, "protocol", "", "Graphics protocol (auto|kitty|iterm2|sixel|halfblocks|none)")
	flag.BoolVar(&ov.exit, "exit", false, "Quit the TUI when the countdown finishes")
	flag.BoolVar(&ov.chime, "chime", false, "Play a bell on completion")
	flag.StringVar(&ov.mqttBroker, "mqtt-broker", "", "Publish countdown events to this MQTT broker")
	flag.StringVar(&ov.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ringdown %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	ov.set = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { ov.set[f.Name] = true })

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	ov.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logLevel, err := cfg.LogLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	th, err := cfg.Theme()
	if err == nil {
		err = theme.Register(th)
	}
	if err != nil {
		logger.Error("theme setup failed", "error", err)
		os.Exit(1)
	}
	theme.SetCurrent(th.Name)

	switch {
	case *snapshotPath != "":
		if err := runSnapshot(cfg, th, *snapshotPath, os.Stdout); err != nil {
			logger.Error("snapshot failed", "error", err)
			os.Exit(1)
		}
		logger.Info("snapshot written", "path", *snapshotPath)

	case *headless || !isatty.IsTerminal(os.Stdout.Fd()):
		h := newHooks(ctx, cfg, logger)
		defer h.close()
		if err := runHeadless(ctx, cfg, th, h, os.Stdout, logger); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("countdown failed", "error", err)
			os.Exit(1)
		}

	default:
		h := newHooks(ctx, cfg, logger)
		defer h.close()
		if err := runTUI(ctx, cfg, th, h, logger); err != nil {
			logger.Error("TUI error", "error", err)
			os.Exit(1)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

// apply copies explicitly set flags onto cfg.
func (o flagOverrides) apply(cfg *config.Config) {
	if o.set["seconds"] {
		cfg.Countdown.Seconds = o.seconds
	}
	if o.set["theme"] {
		cfg.Display.Theme = o.theme
		cfg.Display.ThemeFile = ""
	}
	if o.set["protocol"] {
		cfg.Display.Protocol = o.protocol
	}
	if o.set["exit"] {
		cfg.Countdown.ExitOnFinish = o.exit
	}
	if o.set["chime"] {
		cfg.Chime.Enabled = o.chime
	}
	if o.set["mqtt-broker"] {
		cfg.Notify.Broker = o.mqttBroker
	}
	if o.set["metrics-addr"] {
		cfg.Metrics.Addr = o.metricsAddr
	}
}

// newWidget builds the ring from configuration. Dimensions are applied
// through the widget's validating setters, then checked again at conv.
func newWidget(ctx context.Context, cfg *config.Config, th theme.Theme, conv density.Converter, logger *slog.Logger, opts ...widgets.CountdownOption) (*widgets.CountdownWidget, error) {
	opts = append([]widgets.CountdownOption{
		widgets.WithContext(ctx),
		widgets.WithInterval(cfg.Countdown.Interval.Duration),
		widgets.WithLogger(logger),
	}, opts...)
	w, err := widgets.NewCountdownWidget(cfg.Countdown.Seconds, opts...)
	if err != nil {
		return nil, err
	}
	if err := w.SetRadius(cfg.Ring.RadiusDp); err != nil {
		return nil, err
	}
	if err := w.SetRingThickness(cfg.Ring.RingThicknessDp); err != nil {
		return nil, err
	}
	if err := w.SetLabelTextSize(cfg.Ring.LabelTextSizeSp); err != nil {
		return nil, err
	}
	if err := w.SetTheme(th); err != nil {
		return nil, err
	}
	if err := w.SetConverter(conv); err != nil {
		return nil, fmt.Errorf("display density %v: %w", cfg.Display.Density, err)
	}
	return w, nil
}

// runSnapshot writes the full ring at the configured density to a PNG
// file, or to stdout when path is "-".
func runSnapshot(cfg *config.Config, th theme.Theme, path string, stdout io.Writer) error {
	w, err := newWidget(context.Background(), cfg, th, density.Fixed(cfg.Display.Density), nil)
	if err != nil {
		return err
	}
	frame := w.Frame(2)
	if path == "-" {
		return frame.EncodePNG(stdout)
	}
	return frame.SavePNG(path)
}

// runHeadless drives the countdown on a local dispatcher loop and prints
// each label on its own line. It returns once the countdown finishes or
// ctx is cancelled.
func runHeadless(ctx context.Context, cfg *config.Config, th theme.Theme, h *hooks, out io.Writer, logger *slog.Logger) error {
	loop := countdown.NewLoop(4)
	defer loop.Close()
	w, err := newWidget(ctx, cfg, th, density.Fixed(cfg.Display.Density), logger, widgets.WithDispatcher(loop))
	if err != nil {
		return err
	}
	h.attach(w, func(st countdown.RenderState) {
		fmt.Fprintln(out, st.Label)
	}, loop.Close)

	var startErr error
	loop.Post(func() {
		if startErr = w.Start(); startErr != nil {
			loop.Close()
		}
	})
	logger.Debug("countdown started", "seconds", cfg.Countdown.Seconds, "interval", cfg.Countdown.Interval.Duration)

	err = loop.Run(ctx)
	if startErr != nil {
		return startErr
	}
	return err
}

// runTUI runs the Bubbletea program. Ticks reach the model through a
// ProgramDispatcher bound to the program.
func runTUI(ctx context.Context, cfg *config.Config, th theme.Theme, h *hooks, logger *slog.Logger) error {
	caps := terminal.DetectCapabilities().WithProtocol(cfg.Display.Protocol)
	renderer := image.NewRenderer(caps)
	logger.Debug("terminal detected",
		"term", caps.Term, "protocol", caps.Protocol, "cols", caps.Size.Cols, "rows", caps.Size.Rows)

	disp := app.NewProgramDispatcher()
	defer disp.Close()

	w, err := newWidget(ctx, cfg, th, renderer.Density(cfg.Display.Density), logger, widgets.WithDispatcher(disp))
	if err != nil {
		return err
	}
	w.SetRenderer(renderer)
	h.attach(w, nil, nil)

	zones := zone.New()
	defer zones.Close()

	model := app.NewAppModel(w, app.Options{
		AutoStart:    true,
		ExitOnFinish: cfg.Countdown.ExitOnFinish,
		Theme:        th.Name,
		Zones:        zones,
	})
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	disp.Bind(p.Send)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
