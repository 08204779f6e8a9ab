package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/clock"
)

type scrollCall struct {
	offset float64
	smooth bool
}

type recordingDisplay struct {
	scrolls []scrollCall
	arrows  []Arrows
}

func (d *recordingDisplay) ScrollTo(offset float64, smooth bool) {
	d.scrolls = append(d.scrolls, scrollCall{offset, smooth})
}

func (d *recordingDisplay) ShowArrows(a Arrows) {
	d.arrows = append(d.arrows, a)
}

func (d *recordingDisplay) lastArrows() Arrows {
	if len(d.arrows) == 0 {
		return Arrows{}
	}
	return d.arrows[len(d.arrows)-1]
}

func newController(t *testing.T) (*Controller, *clock.Manual, *recordingDisplay) {
	t.Helper()
	m := clock.NewManual()
	d := &recordingDisplay{}
	c := New(Config{Name: "featured", Options: DefaultOptions(), Scheduler: m, Display: d})
	return c, m, d
}

func TestMountWithoutOverflowDisablesNavigation(t *testing.T) {
	c, m, d := newController(t)

	c.Mount(1200, 1120)

	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, Arrows{}, d.lastArrows())
	assert.True(t, c.Snapshot().Disabled)
	assert.False(t, c.StepNext())

	m.Advance(10 * time.Second)
	assert.Empty(t, d.scrolls)
}

func TestMountWithOverflowStartsAutoplay(t *testing.T) {
	c, m, d := newController(t)

	c.Mount(1000, 2000)

	assert.Equal(t, 1, m.Pending())
	assert.Equal(t, Arrows{Next: true}, d.lastArrows())
	assert.Equal(t, Idle, c.State())

	m.Advance(1500 * time.Millisecond)
	require.Len(t, d.scrolls, 1)
	assert.Equal(t, scrollCall{280, true}, d.scrolls[0])
	assert.Equal(t, Arrows{Prev: true, Next: true}, d.lastArrows())
}

func TestAutoplayClampsThenWrapsAtEnd(t *testing.T) {
	c, m, d := newController(t)
	c.Mount(1000, 1600)

	m.Advance(1500 * time.Millisecond)
	m.Advance(1500 * time.Millisecond)
	m.Advance(1500 * time.Millisecond)

	offsets := []float64{}
	for _, s := range d.scrolls {
		offsets = append(offsets, s.offset)
	}
	assert.Equal(t, []float64{280, 560, 600}, offsets)
	assert.Equal(t, Arrows{Prev: true}, d.lastArrows())

	m.Advance(1500 * time.Millisecond)
	assert.Equal(t, 0.0, c.Snapshot().Offset)
	assert.Equal(t, Arrows{Next: true}, d.lastArrows())
}

func TestTickAtEndWrapsToZero(t *testing.T) {
	c, m, _ := newController(t)
	c.Mount(1000, 2000)
	require.True(t, c.Scroll(1000))

	m.Advance(1500 * time.Millisecond)
	assert.Equal(t, 0.0, c.Snapshot().Offset)
}

func TestHoverPausesAndLeaveResumes(t *testing.T) {
	c, m, d := newController(t)
	c.Mount(1000, 3000)

	c.PointerEnter(Track)
	assert.Equal(t, Paused, c.State())
	assert.Equal(t, 0, m.Pending())

	m.Advance(5 * time.Second)
	assert.Empty(t, d.scrolls)

	c.PointerLeave(Track)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 1, m.Pending())
	m.Advance(1500 * time.Millisecond)
	assert.Len(t, d.scrolls, 1)
}

func TestLeavingOneRegionWhileAnotherHoveredStaysPaused(t *testing.T) {
	c, m, _ := newController(t)
	c.Mount(1000, 3000)

	c.PointerEnter(Track)
	c.PointerEnter(Controls)
	c.PointerLeave(Controls)
	assert.Equal(t, Paused, c.State())
	assert.Equal(t, 0, m.Pending())

	c.PointerLeave(Track)
	assert.Equal(t, Idle, c.State())
}

func TestManualStepAllowedWhilePaused(t *testing.T) {
	c, _, d := newController(t)
	c.Mount(1000, 3000)
	c.PointerEnter(Controls)

	require.True(t, c.StepNext())
	require.True(t, c.StepNext())
	require.True(t, c.StepPrev())

	assert.Equal(t, 280.0, c.Snapshot().Offset)
	assert.Equal(t, scrollCall{280, true}, d.scrolls[len(d.scrolls)-1])
}

func TestStepPrevClampsAtStart(t *testing.T) {
	c, _, d := newController(t)
	c.Mount(1000, 3000)

	require.True(t, c.StepPrev())
	assert.Equal(t, 0.0, c.Snapshot().Offset)
	assert.Equal(t, Arrows{Next: true}, d.lastArrows())
}

func TestDragAmplifiesMovement(t *testing.T) {
	c, m, d := newController(t)
	c.Mount(1000, 3000)
	require.True(t, c.Scroll(400))

	c.DragStart(500)
	assert.Equal(t, Dragging, c.State())
	assert.Equal(t, 0, m.Pending())

	require.True(t, c.DragMove(450))
	assert.Equal(t, 500.0, c.Snapshot().Offset)
	assert.Equal(t, scrollCall{500, false}, d.scrolls[len(d.scrolls)-1])

	require.True(t, c.DragMove(700))
	assert.Equal(t, 0.0, c.Snapshot().Offset)
}

func TestDragBlocksProgrammaticScroll(t *testing.T) {
	c, _, _ := newController(t)
	c.Mount(1000, 3000)

	c.DragStart(100)
	assert.False(t, c.StepNext())
	assert.False(t, c.StepPrev())
	assert.False(t, c.Scroll(900))
	assert.Equal(t, 0.0, c.Snapshot().Offset)
}

func TestDragEndDefersAutoplayBySettleDelay(t *testing.T) {
	c, m, d := newController(t)
	c.Mount(1000, 3000)

	c.DragStart(500)
	c.DragMove(400)
	c.DragEnd()
	assert.Equal(t, Paused, c.State())
	assert.Nil(t, c.Snapshot().Drag)
	scrolls := len(d.scrolls)

	m.Advance(999 * time.Millisecond)
	assert.Equal(t, Paused, c.State())

	m.Advance(time.Millisecond)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, scrolls, len(d.scrolls))

	m.Advance(1500 * time.Millisecond)
	assert.Equal(t, scrolls+1, len(d.scrolls))
}

func TestSettleDoesNotResumeWhileHovered(t *testing.T) {
	c, m, _ := newController(t)
	c.Mount(1000, 3000)

	c.PointerEnter(Track)
	c.DragStart(500)
	c.DragEnd()
	m.Advance(2 * time.Second)
	assert.Equal(t, Paused, c.State())

	c.PointerLeave(Track)
	assert.Equal(t, Idle, c.State())
}

func TestNewDragCancelsPendingSettle(t *testing.T) {
	c, m, _ := newController(t)
	c.Mount(1000, 3000)

	c.DragStart(500)
	c.DragEnd()
	m.Advance(500 * time.Millisecond)
	c.DragStart(300)
	m.Advance(2 * time.Second)

	assert.Equal(t, Dragging, c.State())
	assert.Equal(t, 0, m.Pending())
}

func TestResizeReevaluatesOverflow(t *testing.T) {
	c, m, d := newController(t)
	c.Mount(1000, 3000)
	require.True(t, c.StepNext())

	c.Resize(3200, 3000)
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, Arrows{}, d.lastArrows())
	assert.Equal(t, 0.0, c.Snapshot().Offset)

	c.Resize(1000, 3000)
	assert.Equal(t, 1, m.Pending())
	assert.Equal(t, Arrows{Next: true}, d.lastArrows())
}

func TestResizeDoesNotDuplicateAutoplay(t *testing.T) {
	c, m, _ := newController(t)
	c.Mount(1000, 3000)
	c.Resize(900, 3000)
	c.Resize(800, 3000)
	assert.Equal(t, 1, m.Pending())
}

func TestStopCancelsAllTimers(t *testing.T) {
	c, m, d := newController(t)
	c.Mount(1000, 3000)
	c.DragStart(10)
	c.DragEnd()
	c.Stop()

	assert.Equal(t, 0, m.Pending())
	m.Advance(time.Minute)
	assert.False(t, c.Snapshot().Autoplay)
	assert.Empty(t, d.scrolls)
}

func TestStaleTickIsIgnored(t *testing.T) {
	m := clock.NewManual()
	var queued []func()
	sched := clock.OnLoop(m, func(fn func()) { queued = append(queued, fn) })
	c := New(Config{Name: "x", Options: DefaultOptions(), Scheduler: sched})
	c.Mount(1000, 3000)

	m.Advance(1500 * time.Millisecond)
	require.Len(t, queued, 1)

	c.PointerEnter(Track)
	queued[0]()
	assert.Equal(t, 0.0, c.Snapshot().Offset)
}

func TestCarouselsAreIndependent(t *testing.T) {
	m := clock.NewManual()
	a := New(Config{Name: "a", Options: DefaultOptions(), Scheduler: m})
	b := New(Config{Name: "b", Options: DefaultOptions(), Scheduler: m})
	a.Mount(1000, 3000)
	b.Mount(1000, 3000)

	a.PointerEnter(Track)
	m.Advance(1500 * time.Millisecond)

	assert.Equal(t, 0.0, a.Snapshot().Offset)
	assert.Equal(t, 280.0, b.Snapshot().Offset)
}
