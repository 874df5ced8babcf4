// Package tui runs the kinematogram in the terminal.
package tui

import (
	"context"
	"log/slog"
	"math/rand"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/rdksim/internal/config"
	"github.com/san-kum/rdksim/internal/host"
	"github.com/san-kum/rdksim/internal/kinematogram"
	"github.com/san-kum/rdksim/internal/trial"
	"github.com/san-kum/rdksim/internal/viz"
)

type Options struct {
	Columns, Rows int
	Theme         string
	Logger        *slog.Logger
}

// Snapshotter builds FrameMsgs from session state. Its methods must run on
// the control thread.
type Snapshotter struct {
	Session *kinematogram.Session
	Canvas  *viz.Canvas
}

func (s Snapshotter) Snapshot() FrameMsg {
	return FrameMsg{
		Canvas:    s.Canvas.String(),
		Readouts:  s.Session.Readouts(),
		Phase:     s.Session.Trial().Phase(),
		Direction: s.Session.Direction(),
		Frames:    s.Session.Loop().Frames(),
		Hidden:    s.Session.Loop().Hidden(),
	}
}

// Attach pushes a snapshot to send after every frame and trial transition.
func (s Snapshotter) Attach(send func(FrameMsg)) {
	push := func() { send(s.Snapshot()) }
	s.Session.Loop().OnFrame = push
	s.Session.Trial().OnTransition = func(_, _ trial.Phase) { push() }
}

// loopRunner posts commands to an event loop.
type loopRunner struct {
	loop *host.EventLoop
	snap Snapshotter
	send func(FrameMsg)
	log  *slog.Logger
}

func (r loopRunner) Do(fn func(*kinematogram.Session) error) {
	r.loop.Post(func() {
		err := fn(r.snap.Session)
		if err != nil {
			r.log.Warn("command failed", "error", err)
		}
		msg := r.snap.Snapshot()
		msg.Err = err
		r.send(msg)
	})
}

// Run starts the event loop and the bubbletea program and blocks until
// the user quits.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	if opts.Columns <= 0 {
		opts.Columns = 60
	}
	if opts.Rows <= 0 {
		opts.Rows = 30
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	canvas := viz.NewCanvas(opts.Columns, opts.Rows)
	surface := viz.NewSurface(canvas, cfg.Width, cfg.Height)
	loop := host.NewEventLoop(cfg.FPS, logger.With("component", "host"))
	session, err := kinematogram.New(loop, surface, cfg, rand.New(rand.NewSource(cfg.Seed)), logger)
	if err != nil {
		return err
	}

	// The control thread never blocks on the program: snapshots go through
	// a one-slot mailbox and stale ones are dropped.
	slot := newFrameSlot()
	snap := Snapshotter{Session: session, Canvas: canvas}
	runner := loopRunner{loop: loop, snap: snap, send: slot.Offer, log: logger}
	p := tea.NewProgram(NewModel(runner, viz.GetTheme(opts.Theme)), tea.WithAltScreen(), tea.WithReportFocus())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = loop.Run(ctx) }()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-slot.C():
				p.Send(msg)
			}
		}
	}()

	snap.Attach(slot.Offer)
	runner.Do(func(s *kinematogram.Session) error {
		s.Start()
		return nil
	})

	logger.Info("tui started", "fps", cfg.FPS, "dots", cfg.DotCount)
	_, err = p.Run()
	return err
}
