package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/page-enhancer/internal/model"
	"github.com/rcliao/page-enhancer/internal/motion"
)

func init() {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drive a page's first carousel and print its motion state",
		Long: "Loop-fill the first animated carousel of a page, autoplay it and print a JSON state line per sample.\n" +
			"Pointer and key events can be scheduled to exercise pause, resume and paging.",
		Run: runSimulate,
	}

	cmd.Flags().StringP("page", "p", "-", "Page with a partner section (- for stdin)")
	cmd.Flags().Int("duration", 3000, "Simulated time in milliseconds")
	cmd.Flags().Int("frame", 16, "Frame interval in milliseconds")
	cmd.Flags().Int("sample", 250, "Print interval in milliseconds")
	cmd.Flags().Int("hover-at", -1, "Pointer enters at this time (ms)")
	cmd.Flags().Int("leave-at", -1, "Pointer leaves at this time (ms)")
	cmd.Flags().Int("key-at", -1, "Key press at this time (ms)")
	cmd.Flags().String("key", "ArrowRight", "Key sent by --key-at")
	cmd.Flags().Bool("realtime", false, "Run against the wall clock instead of a simulated one")

	RootCmd.AddCommand(cmd)
}

type simEvent struct {
	At   int
	Name string
	Fire func(c *motion.Controller)
}

type simSample struct {
	T     int    `json:"t"`
	Event string `json:"event,omitempty"`
	model.CarouselState
}

func runSimulate(cmd *cobra.Command, args []string) {
	page, _ := cmd.Flags().GetString("page")
	duration, _ := cmd.Flags().GetInt("duration")
	frame, _ := cmd.Flags().GetInt("frame")
	sample, _ := cmd.Flags().GetInt("sample")
	realtime, _ := cmd.Flags().GetBool("realtime")

	cfg := loadConfig()
	cfg.ReducedMotion = false
	cfg.Assistant.Enabled = false
	logger := newLogger(cfg)
	defer logger.Sync()

	res := enhancePage(cmd, cfg, nil, logger, page)
	if len(res.Motion) == 0 {
		exitErr("simulate", fmt.Errorf("no animated carousel on page"))
	}
	m := res.Motion[0]
	events := scheduledEvents(cmd)

	if !realtime {
		simulateManual(m.Controller, m.Clock, events, duration, frame, sample, cmd.OutOrStdout())
		return
	}

	ticker := motion.NewTickerScheduler(time.Duration(frame) * time.Millisecond)
	ctrl := motion.New(m.Track, ticker, cfg.MotionOptions(), logger)
	if err := simulateRealtime(cmd.Context(), ctrl, ticker, events, duration, sample, cmd.OutOrStdout()); err != nil {
		exitErr("simulate", err)
	}
}

func scheduledEvents(cmd *cobra.Command) []simEvent {
	hoverAt, _ := cmd.Flags().GetInt("hover-at")
	leaveAt, _ := cmd.Flags().GetInt("leave-at")
	keyAt, _ := cmd.Flags().GetInt("key-at")
	key, _ := cmd.Flags().GetString("key")

	var events []simEvent
	if hoverAt >= 0 {
		events = append(events, simEvent{At: hoverAt, Name: "pointerenter", Fire: (*motion.Controller).PointerEnter})
	}
	if leaveAt >= 0 {
		events = append(events, simEvent{At: leaveAt, Name: "pointerleave", Fire: (*motion.Controller).PointerLeave})
	}
	if keyAt >= 0 {
		events = append(events, simEvent{At: keyAt, Name: "keydown:" + key, Fire: func(c *motion.Controller) { c.KeyDown(key) }})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })
	return events
}

// simulateManual steps a manual clock frame by frame, firing events whose
// time has come before each frame.
func simulateManual(c *motion.Controller, clock *motion.ManualScheduler, events []simEvent, duration, frame, sample int, w io.Writer) {
	if frame <= 0 {
		frame = 16
	}
	enc := json.NewEncoder(w)
	c.Start()
	defer c.Stop()

	next := 0
	lastSample := -sample
	for t := 0; t <= duration; t += frame {
		for next < len(events) && events[next].At <= t {
			events[next].Fire(c)
			enc.Encode(simSample{T: t, Event: events[next].Name, CarouselState: c.Snapshot()})
			next++
		}
		clock.Advance(float64(frame))
		if t-lastSample >= sample {
			enc.Encode(simSample{T: t, CarouselState: c.Snapshot()})
			lastSample = t
		}
	}
}

// simulateRealtime runs c on a ticker scheduler. Events and samples are
// posted to the scheduler goroutine so the controller is never shared.
func simulateRealtime(ctx context.Context, c *motion.Controller, ticker *motion.TickerScheduler, events []simEvent, duration, sample int, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(duration)*time.Millisecond)
	defer cancel()

	enc := json.NewEncoder(w)
	start := time.Now()
	elapsed := func() int { return int(time.Since(start) / time.Millisecond) }

	var timers []*time.Timer
	var mu sync.Mutex
	for _, ev := range events {
		ev := ev
		timers = append(timers, time.AfterFunc(time.Duration(ev.At)*time.Millisecond, func() {
			ticker.Post(func() {
				ev.Fire(c)
				mu.Lock()
				defer mu.Unlock()
				enc.Encode(simSample{T: elapsed(), Event: ev.Name, CarouselState: c.Snapshot()})
			})
		}))
	}
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	if sample > 0 {
		go func() {
			tk := time.NewTicker(time.Duration(sample) * time.Millisecond)
			defer tk.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-tk.C:
					ticker.Post(func() {
						mu.Lock()
						defer mu.Unlock()
						enc.Encode(simSample{T: elapsed(), CarouselState: c.Snapshot()})
					})
				}
			}
		}()
	}

	ticker.Post(c.Start)
	err := ticker.Run(ctx)
	c.Stop()
	if err == context.DeadlineExceeded {
		return nil
	}
	return err
}
