// Package carousel drives one horizontally scrolling product strip: autoplay,
// hover pause, drag scrolling and arrow visibility.
package carousel

import (
	"time"

	"go.uber.org/zap"

	"storefront/internal/clock"
	"storefront/internal/metrics"
)

type State int

const (
	// Idle: autoplay running, no user contact.
	Idle State = iota
	// Paused: pointer over the track or controls, or settling after a drag.
	Paused
	// Dragging: a touch or pointer drag owns the offset.
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Paused:
		return "paused"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

type Region int

const (
	Track Region = iota
	Controls
)

// Display applies controller output to the rendering surface.
type Display interface {
	ScrollTo(offset float64, smooth bool)
	ShowArrows(a Arrows)
}

type nopDisplay struct{}

func (nopDisplay) ScrollTo(float64, bool) {}
func (nopDisplay) ShowArrows(Arrows)      {}

type Options struct {
	// Step is one item width plus the gap.
	Step        float64
	TickPeriod  time.Duration
	SettleDelay time.Duration
	DragFactor  float64
}

func DefaultOptions() Options {
	return Options{
		Step:        280,
		TickPeriod:  1500 * time.Millisecond,
		SettleDelay: time.Second,
		DragFactor:  2,
	}
}

type Config struct {
	Name      string
	Options   Options
	Scheduler clock.Scheduler
	Display   Display
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// Anchor is where a drag started.
type Anchor struct {
	StartX      float64 `json:"startX"`
	StartOffset float64 `json:"startOffset"`
}

type Snapshot struct {
	Name          string  `json:"name"`
	Offset        float64 `json:"offset"`
	ViewportWidth float64 `json:"viewportWidth"`
	ContentWidth  float64 `json:"contentWidth"`
	State         string  `json:"state"`
	Disabled      bool    `json:"disabled"`
	Autoplay      bool    `json:"autoplay"`
	Arrows        Arrows  `json:"arrows"`
	Drag          *Anchor `json:"drag,omitempty"`
}

// Controller is one carousel instance. It is not safe for concurrent use:
// events and timer callbacks must arrive on one goroutine.
type Controller struct {
	name    string
	opts    Options
	sched   clock.Scheduler
	display Display
	logger  *zap.Logger
	metrics *metrics.Metrics

	offset   float64
	viewport float64
	content  float64

	state    State
	mounted  bool
	disabled bool
	stopped  bool
	hovered  map[Region]bool
	anchor   *Anchor

	autoplay    clock.Timer
	autoplayGen int
	settle      clock.Timer
	settleGen   int
}

func New(cfg Config) *Controller {
	c := &Controller{
		name:     cfg.Name,
		opts:     cfg.Options,
		sched:    cfg.Scheduler,
		display:  cfg.Display,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		hovered:  make(map[Region]bool),
		disabled: true,
	}
	if c.display == nil {
		c.display = nopDisplay{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

func (c *Controller) Name() string {
	return c.name
}

// Mount records the initial geometry and starts autoplay when the content
// overflows the viewport.
func (c *Controller) Mount(viewport, content float64) {
	c.mounted = true
	c.stopped = false
	c.setGeometry(viewport, content)
	c.logger.Debug("carousel mounted",
		zap.String("carousel", c.name),
		zap.Float64("viewport", viewport),
		zap.Float64("content", content),
		zap.Bool("disabled", c.disabled))
}

// Resize re-evaluates whether navigation is needed for the new geometry.
func (c *Controller) Resize(viewport, content float64) {
	if !c.mounted {
		c.Mount(viewport, content)
		return
	}
	c.setGeometry(viewport, content)
}

func (c *Controller) setGeometry(viewport, content float64) {
	c.viewport, c.content = viewport, content
	c.disabled = !scrollable(viewport, content)
	c.offset = clamp(c.offset, viewport, content)
	if c.disabled {
		c.stopAutoplay()
	} else if c.autoplay == nil {
		c.startAutoplay()
	}
	c.showArrows()
}

func (c *Controller) PointerEnter(r Region) {
	c.hovered[r] = true
	if c.state == Idle {
		c.state = Paused
		c.stopAutoplay()
	}
}

// PointerLeave resumes autoplay immediately once no region is hovered and no
// drag is in progress.
func (c *Controller) PointerLeave(r Region) {
	delete(c.hovered, r)
	if len(c.hovered) == 0 && c.state == Paused {
		c.cancelSettle()
		c.resume()
	}
}

func (c *Controller) DragStart(x float64) {
	c.stopAutoplay()
	c.cancelSettle()
	c.state = Dragging
	c.anchor = &Anchor{StartX: x, StartOffset: c.offset}
}

// DragMove scrolls by the pointer travel times the drag factor, opposite to
// the pointer direction.
func (c *Controller) DragMove(x float64) bool {
	if c.state != Dragging || c.anchor == nil {
		return false
	}
	walk := (x - c.anchor.StartX) * c.opts.DragFactor
	c.offset = clamp(c.anchor.StartOffset-walk, c.viewport, c.content)
	c.display.ScrollTo(c.offset, false)
	c.showArrows()
	return true
}

// DragEnd pauses and resumes autoplay after the settle delay.
func (c *Controller) DragEnd() {
	if c.state != Dragging {
		return
	}
	c.anchor = nil
	c.state = Paused
	c.showArrows()
	c.scheduleSettle()
}

func (c *Controller) StepNext() bool {
	return c.step(c.opts.Step)
}

func (c *Controller) StepPrev() bool {
	return c.step(-c.opts.Step)
}

func (c *Controller) step(delta float64) bool {
	if !c.mounted || c.disabled || c.state == Dragging {
		return false
	}
	c.offset = clamp(c.offset+delta, c.viewport, c.content)
	c.display.ScrollTo(c.offset, true)
	c.showArrows()
	return true
}

// Scroll records a native scroll position reported by the display. Reports
// are ignored while a drag owns the offset.
func (c *Controller) Scroll(offset float64) bool {
	if c.state == Dragging {
		return false
	}
	c.offset = clamp(offset, c.viewport, c.content)
	c.showArrows()
	return true
}

// Stop cancels every pending timer.
func (c *Controller) Stop() {
	c.stopped = true
	c.stopAutoplay()
	c.cancelSettle()
}

func (c *Controller) tick() {
	if c.state != Idle || c.disabled {
		return
	}
	wrapped := atEnd(c.offset, c.viewport, c.content)
	if wrapped {
		c.offset = 0
	} else {
		c.offset = clamp(c.offset+c.opts.Step, c.viewport, c.content)
	}
	c.metrics.CarouselTick(c.name, wrapped)
	c.display.ScrollTo(c.offset, true)
	c.showArrows()
}

func (c *Controller) resume() {
	c.state = Idle
	c.startAutoplay()
}

// startAutoplay replaces any running autoplay timer.
func (c *Controller) startAutoplay() {
	if c.stopped || c.disabled || c.state != Idle {
		return
	}
	c.stopAutoplay()
	gen := c.autoplayGen
	c.autoplay = c.sched.Every(c.opts.TickPeriod, func() {
		if gen == c.autoplayGen {
			c.tick()
		}
	})
}

func (c *Controller) stopAutoplay() {
	c.autoplayGen++
	if c.autoplay != nil {
		c.autoplay.Stop()
		c.autoplay = nil
	}
}

func (c *Controller) scheduleSettle() {
	c.cancelSettle()
	if c.stopped {
		return
	}
	gen := c.settleGen
	c.settle = c.sched.AfterFunc(c.opts.SettleDelay, func() {
		if gen != c.settleGen {
			return
		}
		c.settle = nil
		if c.state == Paused && len(c.hovered) == 0 {
			c.resume()
		}
	})
}

func (c *Controller) cancelSettle() {
	c.settleGen++
	if c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
}

func (c *Controller) showArrows() {
	c.display.ShowArrows(c.Arrows())
}

func (c *Controller) Arrows() Arrows {
	return Visibility(c.offset, c.viewport, c.content)
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Name:          c.name,
		Offset:        c.offset,
		ViewportWidth: c.viewport,
		ContentWidth:  c.content,
		State:         c.state.String(),
		Disabled:      c.disabled,
		Autoplay:      c.autoplay != nil,
		Arrows:        c.Arrows(),
	}
	if c.anchor != nil {
		a := *c.anchor
		s.Drag = &a
	}
	return s
}
