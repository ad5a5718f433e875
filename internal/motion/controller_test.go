package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrack struct {
	items     int
	itemWidth float64
	viewport  float64
	dupCalls  int
}

func (t *fakeTrack) Len() int               { return t.items }
func (t *fakeTrack) ScrollWidth() float64   { return float64(t.items) * t.itemWidth }
func (t *fakeTrack) ViewportWidth() float64 { return t.viewport }
func (t *fakeTrack) AppendClones(n int) {
	t.items += min(n, t.items)
	t.dupCalls++
}

// wideTrack is 1000px wide in a 300px viewport: no loop fill needed and a
// reset point of 500px.
func wideTrack() *fakeTrack {
	return &fakeTrack{items: 10, itemWidth: 100, viewport: 300}
}

func TestLoopFill_SingleItem(t *testing.T) {
	tr := &fakeTrack{items: 1, itemWidth: 100, viewport: 1200}
	c := New(tr, NewManualScheduler(0), Options{}, nil)

	// One 100px item must pass 2880px: 1, 2, 4, ... 32 items.
	assert.Equal(t, 5, c.LoopFill())
	assert.Equal(t, 32, tr.items)
	assert.Greater(t, tr.ScrollWidth(), 2.4*tr.ViewportWidth())
}

func TestLoopFill_EachPassCopiesWholeTrack(t *testing.T) {
	tr := &fakeTrack{items: 3, itemWidth: 100, viewport: 500}
	c := New(tr, NewManualScheduler(0), Options{}, nil)

	// 300 -> 600 -> 1200 (not past 1200) -> 2400.
	assert.Equal(t, 3, c.LoopFill())
	assert.Equal(t, 24, tr.items)
}

func TestLoopFill_Bounded(t *testing.T) {
	tr := &fakeTrack{items: 1, itemWidth: 0.0001, viewport: 5000}
	c := New(tr, NewManualScheduler(0), Options{}, nil)

	assert.Equal(t, 20, c.LoopFill())
	assert.Equal(t, 20, tr.dupCalls)
}

func TestLoopFill_Empty(t *testing.T) {
	tr := &fakeTrack{items: 0, itemWidth: 100, viewport: 1000}
	c := New(tr, NewManualScheduler(0), Options{}, nil)
	assert.Equal(t, 0, c.LoopFill())
}

func TestResize_RefillsForWiderViewport(t *testing.T) {
	tr := wideTrack()
	c := New(tr, NewManualScheduler(0), Options{}, nil)
	c.Start()
	assert.Equal(t, 0, tr.dupCalls)

	tr.viewport = 800
	c.Resize()
	assert.Greater(t, tr.ScrollWidth(), 2.4*800)
}

func TestAdvance_WrapsAtResetPoint(t *testing.T) {
	tr := wideTrack()
	c := New(tr, NewManualScheduler(0), Options{}, nil)

	c.SetOffset(490)
	c.Advance(250) // +13px
	assert.InDelta(t, 3, c.Offset(), 1e-9)

	c.SetOffset(487)
	c.Advance(250) // lands exactly on the reset point
	assert.InDelta(t, 0, c.Offset(), 1e-9)

	c.SetOffset(400)
	c.Advance(250)
	assert.InDelta(t, 413, c.Offset(), 1e-9)
	assert.Equal(t, 500.0, c.Snapshot().LoopResetPoint)
}

func TestFrames_AdvanceWithElapsedTime(t *testing.T) {
	sched := NewManualScheduler(1000)
	c := New(wideTrack(), sched, Options{}, nil)
	c.Start()
	require.Equal(t, 1, sched.Pending())

	sched.Advance(16) // first frame establishes the clock
	assert.Equal(t, 0.0, c.Offset())

	sched.Advance(100)
	assert.InDelta(t, 5.2, c.Offset(), 1e-9)
	assert.Equal(t, Playing, c.State())

	for i := 0; i < 1000; i++ {
		sched.Advance(16)
		off := c.Offset()
		assert.GreaterOrEqual(t, off, 0.0)
		assert.Less(t, off, c.Snapshot().LoopResetPoint)
	}

	c.Stop()
	assert.Equal(t, 0, sched.Pending())
	assert.False(t, c.Running())
}

func TestHoverPausesAndResumes(t *testing.T) {
	c := New(wideTrack(), NewManualScheduler(0), Options{}, nil)

	c.PointerEnter()
	assert.Equal(t, Paused, c.State())
	c.Advance(1000)
	assert.Equal(t, 0.0, c.Offset())

	c.PointerLeave()
	assert.Equal(t, Playing, c.State())
	c.Advance(100)
	assert.InDelta(t, 5.2, c.Offset(), 1e-9)
}

func TestFocusKeepsPausedUntilBothLeave(t *testing.T) {
	c := New(wideTrack(), NewManualScheduler(0), Options{}, nil)

	c.FocusIn()
	c.PointerEnter()
	c.PointerLeave()
	assert.Equal(t, Paused, c.State())

	c.FocusOut(true)
	assert.Equal(t, Paused, c.State())

	c.FocusOut(false)
	assert.Equal(t, Playing, c.State())
}

func TestDragScrubsAndSuppressesClick(t *testing.T) {
	c := New(wideTrack(), NewManualScheduler(0), Options{}, nil)
	c.SetOffset(100)

	c.PointerDown(500)
	assert.Equal(t, Dragging, c.State())
	snap := c.Snapshot()
	assert.True(t, snap.Dragging)
	assert.Equal(t, 500.0, snap.DragAnchor.X)
	assert.Equal(t, 100.0, snap.DragAnchor.StartOffset)

	c.PointerMove(450)
	assert.Equal(t, 150.0, c.Offset())
	c.Advance(1000)
	assert.Equal(t, 150.0, c.Offset())

	c.PointerUp()
	assert.Equal(t, Playing, c.State())
	assert.True(t, c.Click())
	assert.False(t, c.Click())
}

func TestTapDoesNotSuppressClick(t *testing.T) {
	c := New(wideTrack(), NewManualScheduler(0), Options{}, nil)

	c.PointerDown(200)
	c.PointerMove(202)
	c.PointerUp()
	assert.False(t, c.Click())
}

func TestDragClampsToTrack(t *testing.T) {
	c := New(wideTrack(), NewManualScheduler(0), Options{}, nil)

	c.PointerDown(0)
	c.PointerMove(100)
	assert.Equal(t, 0.0, c.Offset())
	c.PointerMove(-5000)
	assert.Equal(t, 700.0, c.Offset())
	c.PointerCancel()
	assert.Equal(t, Playing, c.State())
}

func TestPointerLeaveEndsDrag(t *testing.T) {
	c := New(wideTrack(), NewManualScheduler(0), Options{}, nil)

	c.PointerDown(10)
	c.PointerLeave()
	assert.Equal(t, Playing, c.State())
	c.PointerMove(400)
	assert.Equal(t, 0.0, c.Offset())
}

func TestKeyboardPaging(t *testing.T) {
	c := New(wideTrack(), NewManualScheduler(0), Options{}, nil)

	assert.False(t, c.KeyDown("Enter"))
	assert.Equal(t, Playing, c.State())

	assert.True(t, c.KeyDown(KeyArrowRight))
	assert.Equal(t, Paused, c.State())
	c.Advance(100)
	assert.Greater(t, c.Offset(), 0.0)
	assert.Less(t, c.Offset(), 260.0)
	c.Advance(400)
	assert.Equal(t, 260.0, c.Offset())

	assert.True(t, c.KeyDown(KeyArrowLeft))
	c.Advance(1000)
	assert.Equal(t, 0.0, c.Offset())

	// Paging never resumes autoplay on its own.
	c.Advance(1000)
	assert.Equal(t, Paused, c.State())
	assert.Equal(t, 0.0, c.Offset())
}

func TestInstancesAreIndependent(t *testing.T) {
	sched := NewManualScheduler(0)
	a := New(wideTrack(), sched, Options{}, nil)
	b := New(wideTrack(), sched, Options{}, nil)
	a.Start()
	b.Start()

	sched.Advance(16)
	a.PointerEnter()
	sched.Advance(100)

	assert.Equal(t, 0.0, a.Offset())
	assert.InDelta(t, 5.2, b.Offset(), 1e-9)
	assert.Equal(t, Paused, a.State())
	assert.Equal(t, Playing, b.State())
}
