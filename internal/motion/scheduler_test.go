package motion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualScheduler_RunsQueuedFramesOnce(t *testing.T) {
	s := NewManualScheduler(100)
	var got []float64
	s.RequestFrame(func(ts float64) { got = append(got, ts) })
	cancelled := s.RequestFrame(func(ts float64) { t.Fatal("cancelled frame ran") })
	s.CancelFrame(cancelled)

	s.Advance(16)
	s.Advance(16)
	assert.Equal(t, []float64{116}, got)
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, 132.0, s.Now())
}

func TestTickerScheduler_DrivesControllerUntilCancelled(t *testing.T) {
	s := NewTickerScheduler(2 * time.Millisecond)
	c := New(wideTrack(), s, Options{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	s.Post(c.Start)
	require.Eventually(t, func() bool {
		offset := make(chan float64, 1)
		s.Post(func() { offset <- c.Offset() })
		return <-offset > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestTickerScheduler_PostAfterRunReturns(t *testing.T) {
	s := NewTickerScheduler(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Run(ctx), context.Canceled)

	// Fill the queue past capacity; none of these may block.
	posted := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Post(func() {})
		}
		close(posted)
	}()

	select {
	case <-posted:
	case <-time.After(time.Second):
		t.Fatal("Post blocked after Run returned")
	}
}
