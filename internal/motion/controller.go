// Package motion drives a carousel track: autoplay, pause on interaction,
// pointer drag and keyboard paging, all folded into one scroll offset.
//
// A Controller is not safe for concurrent use. Deliver events on the same
// goroutine that runs frames (see TickerScheduler.Post).
package motion

import (
	"math"

	"go.uber.org/zap"

	"github.com/rcliao/page-enhancer/internal/model"
)

// Track is the scrollable content a Controller moves.
type Track interface {
	Len() int
	ScrollWidth() float64
	ViewportWidth() float64
	// AppendClones appends a copy of the first n items.
	AppendClones(n int)
}

// State of the motion state machine.
type State int

const (
	Playing State = iota
	Paused
	Dragging
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// Keys handled by KeyDown.
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Options tunes a Controller. Zero fields take defaults.
type Options struct {
	SpeedPxPerMs     float64
	FillRatio        float64
	MaxFillPasses    int
	DragThreshold    float64
	KeyStep          float64
	SmoothDurationMs float64
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		SpeedPxPerMs:     0.052,
		FillRatio:        2.4,
		MaxFillPasses:    20,
		DragThreshold:    3,
		KeyStep:          260,
		SmoothDurationMs: 320,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SpeedPxPerMs <= 0 {
		o.SpeedPxPerMs = d.SpeedPxPerMs
	}
	if o.FillRatio <= 0 {
		o.FillRatio = d.FillRatio
	}
	if o.MaxFillPasses <= 0 {
		o.MaxFillPasses = d.MaxFillPasses
	}
	if o.DragThreshold <= 0 {
		o.DragThreshold = d.DragThreshold
	}
	if o.KeyStep <= 0 {
		o.KeyStep = d.KeyStep
	}
	if o.SmoothDurationMs <= 0 {
		o.SmoothDurationMs = d.SmoothDurationMs
	}
	return o
}

type smoothScroll struct {
	from, to float64
	elapsed  float64
}

// Controller owns the motion state of one carousel.
type Controller struct {
	track  Track
	sched  Scheduler
	opts   Options
	logger *zap.Logger

	offset      float64
	paused      bool
	dragging    bool
	dragMoved   bool
	hovering    bool
	focusWithin bool
	anchor      model.DragAnchor
	smooth      *smoothScroll

	running bool
	frameID int
	last    float64
	hasLast bool
}

// New returns a stopped controller.
func New(track Track, sched Scheduler, opts Options, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{track: track, sched: sched, opts: opts.withDefaults(), logger: logger}
}

// Start fills the loop and begins requesting frames.
func (c *Controller) Start() {
	if c.running {
		return
	}
	c.LoopFill()
	c.running = true
	c.hasLast = false
	c.frameID = c.sched.RequestFrame(c.frame)
}

// Stop cancels the pending frame.
func (c *Controller) Stop() {
	if !c.running {
		return
	}
	c.running = false
	c.sched.CancelFrame(c.frameID)
	c.frameID = 0
}

// Running reports whether frames are being requested.
func (c *Controller) Running() bool {
	return c.running
}

// LoopFill copies every current item onto the end of the track, doubling
// it, until the track is wider than FillRatio viewports or MaxFillPasses is
// reached. Doubling keeps both halves identical for the wrap at ScrollWidth/2
// and reaches the width from a single item within the pass bound. It
// returns the number of passes made.
func (c *Controller) LoopFill() int {
	if c.track.Len() == 0 {
		return 0
	}
	passes := 0
	for c.track.ScrollWidth() <= c.track.ViewportWidth()*c.opts.FillRatio && passes < c.opts.MaxFillPasses {
		c.track.AppendClones(c.track.Len())
		passes++
	}
	if passes > 0 {
		c.logger.Debug("loop fill",
			zap.Int("passes", passes),
			zap.Int("items", c.track.Len()),
			zap.Float64("width", c.track.ScrollWidth()),
		)
	}
	return passes
}

// Resize re-runs loop fill for a new viewport size.
func (c *Controller) Resize() {
	c.LoopFill()
	c.offset = c.clamp(c.offset)
}

// Advance applies dt milliseconds of motion without the scheduler.
func (c *Controller) Advance(dt float64) {
	if c.paused || c.dragging {
		if c.smooth != nil {
			c.stepSmooth(dt)
		}
		return
	}
	c.smooth = nil

	next := c.offset + dt*c.opts.SpeedPxPerMs
	if reset := c.resetPoint(); reset > 0 && next >= reset {
		next -= reset
	}
	c.offset = c.clamp(next)
}

func (c *Controller) frame(ts float64) {
	if !c.running {
		return
	}
	if !c.hasLast {
		c.last = ts
		c.hasLast = true
	}
	dt := ts - c.last
	c.last = ts

	c.Advance(dt)
	c.frameID = c.sched.RequestFrame(c.frame)
}

func (c *Controller) stepSmooth(dt float64) {
	s := c.smooth
	s.elapsed += dt
	p := s.elapsed / c.opts.SmoothDurationMs
	if p >= 1 {
		c.offset = s.to
		c.smooth = nil
		return
	}
	ease := 1 - (1-p)*(1-p)
	c.offset = s.from + (s.to-s.from)*ease
}

func (c *Controller) resetPoint() float64 {
	return c.track.ScrollWidth() / 2
}

func (c *Controller) clamp(v float64) float64 {
	limit := math.Max(0, c.track.ScrollWidth()-c.track.ViewportWidth())
	return math.Min(math.Max(v, 0), limit)
}

func (c *Controller) pause() {
	c.paused = true
}

func (c *Controller) play() {
	c.paused = false
}

// PointerEnter pauses autoplay while the pointer is over the carousel.
func (c *Controller) PointerEnter() {
	c.hovering = true
	c.pause()
}

// PointerLeave ends any drag and resumes autoplay unless focus is inside.
func (c *Controller) PointerLeave() {
	c.hovering = false
	c.dragging = false
	if !c.focusWithin {
		c.play()
	}
}

// FocusIn pauses autoplay while a control inside has focus.
func (c *Controller) FocusIn() {
	c.focusWithin = true
	c.pause()
}

// FocusOut resumes autoplay once focus has left and the pointer is not over
// the carousel. relatedInside reports whether focus moved to another
// control inside the carousel.
func (c *Controller) FocusOut(relatedInside bool) {
	if relatedInside {
		return
	}
	c.focusWithin = false
	if !c.hovering && !c.dragging {
		c.play()
	}
}

// PointerDown starts a drag at x.
func (c *Controller) PointerDown(x float64) {
	c.dragging = true
	c.dragMoved = false
	c.smooth = nil
	c.pause()
	c.anchor = model.DragAnchor{X: x, StartOffset: c.offset}
}

// PointerMove scrubs the track while dragging.
func (c *Controller) PointerMove(x float64) {
	if !c.dragging {
		return
	}
	delta := x - c.anchor.X
	if math.Abs(delta) > c.opts.DragThreshold {
		c.dragMoved = true
	}
	c.offset = c.clamp(c.anchor.StartOffset - delta)
}

// PointerUp ends a drag and resumes autoplay.
func (c *Controller) PointerUp() {
	if !c.dragging {
		return
	}
	c.dragging = false
	c.play()
}

// PointerCancel behaves like PointerUp.
func (c *Controller) PointerCancel() {
	c.PointerUp()
}

// Click reports whether a click must be suppressed because it ends a drag.
// The suppression is consumed.
func (c *Controller) Click() bool {
	if !c.dragMoved {
		return false
	}
	c.dragMoved = false
	return true
}

// KeyDown pages the track on arrow keys. It returns true when the key was
// handled and its default action should be prevented. Paging pauses
// autoplay and does not resume it.
func (c *Controller) KeyDown(key string) bool {
	var dir float64
	switch key {
	case KeyArrowRight:
		dir = 1
	case KeyArrowLeft:
		dir = -1
	default:
		return false
	}
	c.pause()
	c.smooth = &smoothScroll{from: c.offset, to: c.clamp(c.offset + dir*c.opts.KeyStep)}
	return true
}

// Offset returns the current scroll offset.
func (c *Controller) Offset() float64 {
	return c.offset
}

// SetOffset moves the track directly, as an external scroll would.
func (c *Controller) SetOffset(v float64) {
	c.smooth = nil
	c.offset = c.clamp(v)
}

// State returns the current motion state.
func (c *Controller) State() State {
	switch {
	case c.dragging:
		return Dragging
	case c.paused:
		return Paused
	}
	return Playing
}

// Snapshot returns the carousel state.
func (c *Controller) Snapshot() model.CarouselState {
	return model.CarouselState{
		ScrollOffset:   c.offset,
		Paused:         c.paused,
		Dragging:       c.dragging,
		DragAnchor:     c.anchor,
		LoopResetPoint: c.resetPoint(),
	}
}
