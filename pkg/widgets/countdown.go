package widgets

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/ringdown/pkg/app"
	"gitlab.com/tinyland/lab/ringdown/pkg/components"
	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
	"gitlab.com/tinyland/lab/ringdown/pkg/density"
	"gitlab.com/tinyland/lab/ringdown/pkg/geometry"
	"gitlab.com/tinyland/lab/ringdown/pkg/image"
	"gitlab.com/tinyland/lab/ringdown/pkg/surface"
	"gitlab.com/tinyland/lab/ringdown/pkg/terminal"
	"gitlab.com/tinyland/lab/ringdown/pkg/theme"
)

// ErrNoDispatcher is returned by Start when a non-zero countdown has no
// dispatcher to deliver its ticks.
var ErrNoDispatcher = errors.New("widgets: countdown has no dispatcher")

// Raster supersampling for graphics protocols. Half-block frames are drawn
// at 1x so every cell edge stays a solid colour.
const cdSupersample = 2

// Minimum area for the compact view: a label line and a bar.
const (
	cdCompactMinW = 8
	cdCompactMinH = 1
)

var _ app.Ring = (*CountdownWidget)(nil)

// CountdownWidget is a circular countdown ring. Dimensions are held in
// dp/sp and converted to pixels on every layout pass, so setters take
// effect on the next frame without touching the countdown itself.
//
// All methods must be called from the goroutine that owns rendering; ticks
// arrive there through the Dispatcher.
type CountdownWidget struct {
	engine *countdown.Engine

	radiusDp    float64
	thicknessDp float64
	labelSp     float64
	conv        density.Converter

	palette   surface.Palette
	themeName string
	renderer  *image.Renderer

	dispatch countdown.Dispatcher
	clock    countdown.Clock
	interval time.Duration
	logger   *slog.Logger
	ctx      context.Context
	sched    *countdown.Scheduler

	onFinished func()
	onRedraw   func(countdown.RenderState)
	lastErr    error
}

// CountdownOption configures a CountdownWidget.
type CountdownOption func(*CountdownWidget)

// WithDispatcher sets where scheduler ticks are posted.
func WithDispatcher(d countdown.Dispatcher) CountdownOption {
	return func(w *CountdownWidget) { w.dispatch = d }
}

// WithClock overrides the scheduler's ticker source.
func WithClock(c countdown.Clock) CountdownOption {
	return func(w *CountdownWidget) { w.clock = c }
}

// WithInterval sets the real-time length of one tick.
func WithInterval(d time.Duration) CountdownOption {
	return func(w *CountdownWidget) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithLogger sets the logger handed to each scheduler.
func WithLogger(l *slog.Logger) CountdownOption {
	return func(w *CountdownWidget) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithContext sets the context schedules run under. Cancelling it tears
// down a running countdown without firing completion.
func WithContext(ctx context.Context) CountdownOption {
	return func(w *CountdownWidget) {
		if ctx != nil {
			w.ctx = ctx
		}
	}
}

// NewCountdownWidget creates an idle ring for the given number of seconds
// with the medium dimensions and the default theme.
func NewCountdownWidget(seconds int, opts ...CountdownOption) (*CountdownWidget, error) {
	e, err := countdown.New(seconds)
	if err != nil {
		return nil, err
	}
	w := &CountdownWidget{
		engine:      e,
		radiusDp:    DefaultRadiusDp,
		thicknessDp: DefaultRingThicknessDp,
		labelSp:     DefaultLabelTextSizeSp,
		conv:        density.Default,
		clock:       countdown.SystemClock,
		interval:    countdown.DefaultInterval,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:         context.Background(),
	}
	if err := w.SetTheme(theme.Get("default")); err != nil {
		return nil, err
	}
	for _, o := range opts {
		o(w)
	}
	e.OnRedraw(w.handleRedraw)
	e.OnFinished(w.handleFinished)
	return w, nil
}

// ID returns the widget's unique identifier.
func (w *CountdownWidget) ID() string {
	return "countdown"
}

// Title returns the widget's display title.
func (w *CountdownWidget) Title() string {
	return "Countdown"
}

// MinSize returns the smallest area the compact view fits in.
func (w *CountdownWidget) MinSize() (int, int) {
	return cdCompactMinW, cdCompactMinH
}

// Update is a no-op. Ticks arrive through the Dispatcher and theme changes
// through SetTheme.
func (w *CountdownWidget) Update(tea.Msg) tea.Cmd {
	return nil
}

// HandleKey is a no-op; the root model owns the countdown bindings.
func (w *CountdownWidget) HandleKey(tea.KeyMsg) tea.Cmd {
	return nil
}

// SetCountSeconds sets the countdown length and resets the remaining time.
// It fails with countdown.ErrRunning while a countdown is in progress.
func (w *CountdownWidget) SetCountSeconds(seconds int) error {
	return w.engine.Configure(seconds)
}

// SetRadius sets the outer radius in dp.
func (w *CountdownWidget) SetRadius(dp float64) error {
	if !(dp > 0) {
		return fmt.Errorf("%w: %v dp", geometry.ErrInvalidRadius, dp)
	}
	if err := cdGeometry(w.conv, dp, w.thicknessDp, w.labelSp).Validate(); err != nil {
		return err
	}
	w.radiusDp = dp
	return nil
}

// SetRingThickness sets the ring stroke width in dp.
func (w *CountdownWidget) SetRingThickness(dp float64) error {
	if !(dp > 0) {
		return fmt.Errorf("%w: %v dp", geometry.ErrInvalidThickness, dp)
	}
	if err := cdGeometry(w.conv, w.radiusDp, dp, w.labelSp).Validate(); err != nil {
		return err
	}
	w.thicknessDp = dp
	return nil
}

// SetLabelTextSize sets the label size in sp.
func (w *CountdownWidget) SetLabelTextSize(sp float64) error {
	if !(sp > 0) {
		return fmt.Errorf("%w: %v sp", geometry.ErrInvalidTextSize, sp)
	}
	if err := cdGeometry(w.conv, w.radiusDp, w.thicknessDp, sp).Validate(); err != nil {
		return err
	}
	w.labelSp = sp
	return nil
}

// SetRingColor sets the progress arc colour.
func (w *CountdownWidget) SetRingColor(c color.Color) { w.palette.Ring = c }

// SetLabelColor sets the label colour.
func (w *CountdownWidget) SetLabelColor(c color.Color) { w.palette.Label = c }

// SetOuterColor sets the outer disc colour.
func (w *CountdownWidget) SetOuterColor(c color.Color) { w.palette.Outer = c }

// SetInnerColor sets the inner disc colour.
func (w *CountdownWidget) SetInnerColor(c color.Color) { w.palette.Inner = c }

// SetTheme replaces all four ring colours with the theme's.
func (w *CountdownWidget) SetTheme(t theme.Theme) error {
	p, err := surface.PaletteFromTheme(t)
	if err != nil {
		return err
	}
	w.palette = p
	w.themeName = t.Name
	return nil
}

// SetConverter sets the dp/sp to pixel conversion. nil restores the 1:1
// default. A converter that would round any dimension down to zero pixels
// is rejected and the previous one kept.
func (w *CountdownWidget) SetConverter(c density.Converter) error {
	if c == nil {
		c = density.Default
	}
	if err := cdGeometry(c, w.radiusDp, w.thicknessDp, w.labelSp).Validate(); err != nil {
		return err
	}
	w.conv = c
	return nil
}

// SetRenderer sets the terminal renderer. nil forces the compact view.
func (w *CountdownWidget) SetRenderer(r *image.Renderer) {
	w.renderer = r
}

// SetDispatcher sets where ticks are posted. It applies to the next Start.
func (w *CountdownWidget) SetDispatcher(d countdown.Dispatcher) {
	w.dispatch = d
}

// OnFinished registers the completion listener, replacing any previous one.
// It runs once per completed countdown, on the dispatcher's goroutine.
func (w *CountdownWidget) OnFinished(fn func()) {
	w.onFinished = fn
}

// OnRedraw registers a listener called whenever the ring needs repainting:
// after every tick and on start, stop and reset.
func (w *CountdownWidget) OnRedraw(fn func(countdown.RenderState)) {
	w.onRedraw = fn
}

// Start begins the countdown. A running ring returns
// countdown.ErrAlreadyRunning and keeps its single schedule. A finished or
// cancelled ring must be Reset first. A zero-length countdown finishes
// before Start returns.
func (w *CountdownWidget) Start() error {
	if w.engine.State() == countdown.StateIdle && w.engine.Total() > 0 && w.dispatch == nil {
		return ErrNoDispatcher
	}
	if err := w.engine.Start(); err != nil {
		return err
	}
	if w.engine.State() != countdown.StateRunning {
		w.requestRedraw()
		return nil
	}

	var s *countdown.Scheduler
	s = countdown.NewScheduler(w.engine, w.dispatch,
		countdown.WithClock(w.clock),
		countdown.WithInterval(w.interval),
		countdown.WithLogger(w.logger),
		countdown.WithOnCancel(func() { w.teardown(s) }))
	if err := s.Start(w.ctx); err != nil {
		w.engine.Cancel()
		return fmt.Errorf("start schedule: %w", err)
	}
	w.sched = s
	w.requestRedraw()
	return nil
}

// Stop tears down a running countdown without firing completion.
func (w *CountdownWidget) Stop() {
	w.stopSchedule()
	if w.engine.State() == countdown.StateRunning {
		w.engine.Cancel()
		w.requestRedraw()
	}
}

// Reset stops any running countdown and returns the ring to idle with the
// full duration remaining.
func (w *CountdownWidget) Reset() error {
	w.stopSchedule()
	w.engine.Cancel()
	if err := w.engine.Reset(); err != nil {
		return err
	}
	w.requestRedraw()
	return nil
}

// State returns the countdown's lifecycle state.
func (w *CountdownWidget) State() countdown.State {
	return w.engine.State()
}

// Snapshot returns the current render state.
func (w *CountdownWidget) Snapshot() countdown.RenderState {
	return w.engine.Snapshot()
}

// ThemeName returns the name of the theme last applied.
func (w *CountdownWidget) ThemeName() string {
	return w.themeName
}

// Palette returns the current ring colours.
func (w *CountdownWidget) Palette() surface.Palette {
	return w.palette
}

// Err returns the last render error, if any. The compact view is shown
// while it is set.
func (w *CountdownWidget) Err() error {
	return w.lastErr
}

// Geometry returns the ring dimensions converted to pixels.
func (w *CountdownWidget) Geometry() geometry.Config {
	return cdGeometry(w.conv, w.radiusDp, w.thicknessDp, w.labelSp)
}

func cdGeometry(conv density.Converter, radiusDp, thicknessDp, labelSp float64) geometry.Config {
	return geometry.Config{
		OuterRadius:   conv.DpToPx(radiusDp),
		RingThickness: conv.DpToPx(thicknessDp),
		LabelSize:     conv.SpToPx(labelSp),
	}
}

// Layout computes the ring geometry for a width × height pixel area.
func (w *CountdownWidget) Layout(width, height float64) geometry.Layout {
	return geometry.Compute(w.Geometry(), width, height)
}

// PreferredSize is the pixel side length of a wrap-content widget.
func (w *CountdownWidget) PreferredSize() int {
	return geometry.PreferredSize(w.Geometry())
}

// Draw paints one frame onto s for a width × height pixel area.
func (w *CountdownWidget) Draw(s surface.Surface, width, height float64) {
	surface.Paint(s, w.Layout(width, height), w.engine.Snapshot(), w.palette)
}

// Frame rasterises the ring at its preferred size.
func (w *CountdownWidget) Frame(supersample int) *surface.Raster {
	side := w.PreferredSize()
	r := surface.NewRaster(side, side, supersample)
	w.Draw(r, float64(side), float64(side))
	return r
}

// View renders the ring into a width × height cell area, falling back to a
// label and bar when the terminal cannot show the ring.
func (w *CountdownWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if out, ok := w.viewRing(width, height); ok {
		return out
	}
	return w.viewCompact(width, height)
}

func (w *CountdownWidget) viewRing(width, height int) (string, bool) {
	r := w.renderer
	if r == nil || r.Protocol() == terminal.ProtocolNone {
		return "", false
	}
	fw, fh := r.FramePixels(width, height)
	side := w.PreferredSize()
	if side <= 0 || side > fw || side > fh {
		return "", false
	}

	halfblocks := r.Protocol() == terminal.ProtocolHalfblocks
	layout := w.Layout(float64(side), float64(side))
	st := w.engine.Snapshot()

	var raster *surface.Raster
	if halfblocks {
		// Cells are too coarse for bitmap glyphs; the label is spliced in
		// as text below.
		raster = surface.NewRaster(side, side, 1)
		surface.PaintRing(raster, layout, st, w.palette)
	} else {
		raster = surface.NewRaster(side, side, cdSupersample)
		surface.Paint(raster, layout, st, w.palette)
	}

	cols, rows := r.CellsFor(side, side, width, height)
	out, err := r.Render(raster.Image(), cols, rows)
	if err != nil {
		w.lastErr = err
		w.logger.Debug("ring render failed", "protocol", r.Protocol(), "err", err)
		return "", false
	}
	w.lastErr = nil

	if halfblocks {
		out = w.cdOverlayLabel(out, st.Label, cols, side)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, out), true
	}
	return cdPad(out, cols, rows, width, height), true
}

// cdOverlayLabel writes the label over the half-block row holding the
// ring's centre.
func (w *CountdownWidget) cdOverlayLabel(frame, label string, cols, side int) string {
	lines := strings.Split(frame, "\n")
	row := min(side/4, len(lines)-1)
	if row < 0 {
		return frame
	}
	col := max((cols-ansi.StringWidth(label))/2, 0)
	styled := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Hex(w.palette.Label))).
		Background(lipgloss.Color(theme.Hex(w.palette.Inner))).
		Render(label)
	lines[row] = components.Splice(lines[row], styled, col)
	return strings.Join(lines, "\n")
}

// cdPad centres an inline image of cols × rows cells in the area by
// leading newlines and spaces. The image escape itself moves the cursor.
func cdPad(img string, cols, rows, width, height int) string {
	top := max((height-rows)/2, 0)
	left := max((width-cols)/2, 0)
	return strings.Repeat("\n", top) + strings.Repeat(" ", left) + img
}

// viewCompact renders the label above a draining bar.
func (w *CountdownWidget) viewCompact(width, height int) string {
	st := w.engine.Snapshot()
	label := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Hex(w.palette.Label))).
		Render(st.Label)

	gauge := components.NewGauge(components.GaugeStyle{
		FilledColor:   theme.Hex(w.palette.Ring),
		EmptyColor:    theme.Hex(w.palette.Outer),
		WarningBelow:  0.3,
		CriticalBelow: 0.1,
		WarningColor:  "#FF9800",
		CriticalColor: ColorError,
	})

	if height < 2 {
		barW := width - ansi.StringWidth(st.Label) - 1
		line := label
		if barW > 0 {
			line += " " + gauge.Render(st.Fraction(), barW)
		}
		return components.Truncate(line, width)
	}

	barW := min(width, max(2*ansi.StringWidth(st.Label), 20))
	block := lipgloss.JoinVertical(lipgloss.Center, label, gauge.Render(st.Fraction(), barW))
	if w.lastErr != nil && height >= 3 {
		msg := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDim)).Render(components.Truncate(w.lastErr.Error(), width))
		block = lipgloss.JoinVertical(lipgloss.Center, block, msg)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

func (w *CountdownWidget) handleRedraw(countdown.RenderState) {
	w.requestRedraw()
}

func (w *CountdownWidget) handleFinished() {
	w.stopSchedule()
	if w.onFinished != nil {
		w.onFinished()
	}
}

func (w *CountdownWidget) requestRedraw() {
	if w.onRedraw != nil {
		w.onRedraw(w.engine.Snapshot())
	}
}

// teardown runs when a schedule's context is cancelled. A schedule that
// has already been replaced is ignored.
func (w *CountdownWidget) teardown(s *countdown.Scheduler) {
	if w.sched != s {
		return
	}
	w.Stop()
}

func (w *CountdownWidget) stopSchedule() {
	if w.sched != nil {
		w.sched.Stop()
		w.sched = nil
	}
}
