package tui

import (
	"context"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/san-kum/rdksim/internal/config"
	"github.com/san-kum/rdksim/internal/host"
	"github.com/san-kum/rdksim/internal/kinematogram"
	"github.com/san-kum/rdksim/internal/viz"
)

// Commands keep flowing through a full event queue even when nobody reads
// the frame mailbox.
func TestLoopRunnerUnreadMailbox(t *testing.T) {
	cfg := config.DefaultConfig()
	canvas := viz.NewCanvas(20, 10)
	loop := host.NewEventLoop(cfg.FPS, nil)
	s, err := kinematogram.New(loop, viz.NewSurface(canvas, cfg.Width, cfg.Height), cfg, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	slot := newFrameSlot()
	snap := Snapshotter{Session: s, Canvas: canvas}
	snap.Attach(slot.Offer)
	r := loopRunner{loop: loop, snap: snap, send: slot.Offer, log: slog.New(slog.DiscardHandler)}

	const n = 300
	var ran atomic.Int32
	done := make(chan struct{})
	go func() {
		r.Do(func(s *kinematogram.Session) error {
			s.Start()
			return nil
		})
		for i := 0; i < n; i++ {
			r.Do(func(s *kinematogram.Session) error {
				ran.Add(1)
				return nil
			})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("commands stalled after %d of %d", ran.Load(), n)
	}
	deadline := time.Now().Add(5 * time.Second)
	for ran.Load() < n && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := ran.Load(); got != n {
		t.Errorf("expected %d commands run, got %d", n, got)
	}
}
