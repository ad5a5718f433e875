package motion

import (
	"context"
	"sort"
	"sync"
	"time"
)

// FrameFunc receives the frame timestamp in milliseconds.
type FrameFunc func(ts float64)

// Scheduler is an animation frame clock.
type Scheduler interface {
	RequestFrame(fn FrameFunc) int
	CancelFrame(id int)
}

// ManualScheduler is a deterministic frame clock. Frames run only when
// Advance is called.
type ManualScheduler struct {
	now     float64
	nextID  int
	pending map[int]FrameFunc
}

// NewManualScheduler returns a clock starting at start milliseconds.
func NewManualScheduler(start float64) *ManualScheduler {
	return &ManualScheduler{now: start, pending: map[int]FrameFunc{}}
}

func (s *ManualScheduler) RequestFrame(fn FrameFunc) int {
	s.nextID++
	s.pending[s.nextID] = fn
	return s.nextID
}

func (s *ManualScheduler) CancelFrame(id int) {
	delete(s.pending, id)
}

// Pending returns the number of queued frame callbacks.
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// Now returns the current clock value.
func (s *ManualScheduler) Now() float64 {
	return s.now
}

// Advance moves the clock by dt milliseconds and runs the callbacks queued
// before the call, in request order.
func (s *ManualScheduler) Advance(dt float64) {
	s.now += dt
	runPending(&s.pending, s.now)
}

func runPending(pending *map[int]FrameFunc, ts float64) {
	batch := *pending
	*pending = map[int]FrameFunc{}
	ids := make([]int, 0, len(batch))
	for id := range batch {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		batch[id](ts)
	}
}

// TickerScheduler runs frames from a wall-clock ticker. Frame callbacks and
// posted events all execute on the goroutine calling Run, so a controller
// driven by it never sees concurrent calls.
type TickerScheduler struct {
	interval time.Duration
	start    time.Time
	events   chan func()
	done     chan struct{}

	mu      sync.Mutex
	nextID  int
	pending map[int]FrameFunc
}

// NewTickerScheduler returns a scheduler firing every interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerScheduler{
		interval: interval,
		start:    time.Now(),
		events:   make(chan func(), 64),
		done:     make(chan struct{}),
		pending:  map[int]FrameFunc{},
	}
}

func (s *TickerScheduler) RequestFrame(fn FrameFunc) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.pending[s.nextID] = fn
	return s.nextID
}

func (s *TickerScheduler) CancelFrame(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// Post queues fn to run on the scheduler goroutine between frames. It
// blocks while the queue is full and drops fn once Run has returned. Frame
// callbacks and posted funcs already run on that goroutine and must call
// the controller directly instead of posting.
func (s *TickerScheduler) Post(fn func()) {
	select {
	case s.events <- fn:
	case <-s.done:
	}
}

// Run drives frames until ctx is done. It must be called once.
func (s *TickerScheduler) Run(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.events:
			fn()
		case now := <-t.C:
			ts := float64(now.Sub(s.start)) / float64(time.Millisecond)
			s.mu.Lock()
			pending := s.pending
			s.pending = map[int]FrameFunc{}
			s.mu.Unlock()
			// Callbacks may request the next frame, which takes the lock.
			runPending(&pending, ts)
		}
	}
}
