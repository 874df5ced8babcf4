// Package loop drives continuous free-run animation of the motion field.
package loop

import (
	"log/slog"

	"github.com/san-kum/rdksim/internal/host"
	"github.com/san-kum/rdksim/internal/motion"
	"github.com/san-kum/rdksim/internal/render"
)

// ParamsFunc returns the motion parameters to apply on the next tick.
type ParamsFunc func() motion.Params

// Loop owns the single frame request of the free-run animation. At most
// one request is outstanding at any time.
type Loop struct {
	host     host.Host
	field    *motion.Field
	renderer *render.Renderer
	params   ParamsFunc
	logger   *slog.Logger

	handle host.FrameID
	hidden bool
	frames uint64

	// OnFrame, if set, runs after every drawn frame.
	OnFrame func()
}

func New(h host.Host, field *motion.Field, r *render.Renderer, params ParamsFunc, logger *slog.Logger) *Loop {
	if h == nil {
		panic("loop: nil host")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{host: h, field: field, renderer: r, params: params, logger: logger}
}

// Active reports whether a frame is scheduled.
func (l *Loop) Active() bool { return l.handle != 0 }

// Frames returns the number of ticks executed since creation.
func (l *Loop) Frames() uint64 { return l.frames }

// Hidden reports whether the host surface is hidden.
func (l *Loop) Hidden() bool { return l.hidden }

// Start schedules ticks at the host refresh rate. It is a no-op while the
// loop is running or the surface is hidden.
func (l *Loop) Start() {
	if l.handle != 0 || l.hidden {
		return
	}
	l.logger.Debug("animation started")
	l.handle = l.host.RequestFrame(l.tick)
}

// Stop cancels the scheduled tick. Stopping a stopped loop is a no-op.
func (l *Loop) Stop() {
	if l.handle == 0 {
		return
	}
	l.host.CancelFrame(l.handle)
	l.handle = 0
	l.logger.Debug("animation stopped", "frames", l.frames)
}

// SetHidden applies the host visibility signal. Hiding stops the loop;
// showing runs reinit, which rebuilds the field and restarts the loop.
func (l *Loop) SetHidden(hidden bool, reinit func()) {
	if hidden == l.hidden {
		return
	}
	l.hidden = hidden
	l.logger.Debug("visibility changed", "hidden", hidden)
	if hidden {
		l.Stop()
		return
	}
	if reinit != nil {
		reinit()
	}
}

// tick steps every dot before drawing any of them. The next frame is only
// requested if nothing stopped or restarted the loop during the tick.
func (l *Loop) tick() {
	current := l.handle
	l.renderer.BeginFrame()
	l.field.Step(l.params())
	l.renderer.Dots(l.field.Dots())
	l.frames++
	if l.OnFrame != nil {
		l.OnFrame()
	}
	if l.handle == current {
		l.handle = l.host.RequestFrame(l.tick)
	}
}
