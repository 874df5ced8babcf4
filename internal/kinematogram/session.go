// Package kinematogram wires the motion field, renderer, animation loop and
// trial controller into one session driven by UI parameter commands.
package kinematogram

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/san-kum/rdksim/internal/config"
	"github.com/san-kum/rdksim/internal/host"
	"github.com/san-kum/rdksim/internal/loop"
	"github.com/san-kum/rdksim/internal/motion"
	"github.com/san-kum/rdksim/internal/render"
	"github.com/san-kum/rdksim/internal/trial"
)

// Command is a direction button.
type Command int

const (
	Down Command = iota
	Up
)

// Degrees returns the stimulus direction for the command. Screen y grows
// downward, so 90 moves dots down.
func (c Command) Degrees() float64 {
	if c == Up {
		return 270
	}
	return 90
}

func (c Command) String() string {
	if c == Up {
		return "up"
	}
	return "down"
}

// Readouts are the zero-padded parameter labels shown next to the inputs.
type Readouts struct {
	Dots      string
	Speed     string
	Coherence string
}

// FormatReadout pads v to three digits.
func FormatReadout(v int) string {
	return fmt.Sprintf("%03d", v)
}

// Session owns all simulation state. All methods must be called from the
// host's control thread.
type Session struct {
	host     host.Host
	field    *motion.Field
	renderer *render.Renderer
	loop     *loop.Loop
	trial    *trial.Controller
	logger   *slog.Logger

	dotCount  int
	speed     int
	coherence int
	direction float64

	// OnReadouts, if set, is called whenever a readout changes.
	OnReadouts func(Readouts)
}

func New(h host.Host, surface render.Surface, cfg *config.Config, rng *rand.Rand, logger *slog.Logger) (*Session, error) {
	if h == nil || surface == nil {
		return nil, fmt.Errorf("kinematogram: host and drawing surface are required")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		host:      h,
		logger:    logger,
		dotCount:  cfg.DotCount,
		speed:     cfg.Speed,
		coherence: cfg.Coherence,
		direction: cfg.Direction,
	}
	aperture := motion.ApertureFor(surface.Size())
	s.field = motion.NewField(aperture, rng)
	s.renderer = render.NewRenderer(surface, aperture)
	s.loop = loop.New(h, s.field, s.renderer, s.Params, logger.With("component", "loop"))
	s.trial = trial.New(h, stage{s}, rng, trial.Config{
		Fixation:   cfg.FixationDuration(),
		Stimulus:   cfg.StimulusDuration(),
		Directions: []float64{Down.Degrees(), Up.Degrees()},
	}, logger.With("component", "trial"))
	return s, nil
}

// Start creates the initial dots and starts free-run animation.
func (s *Session) Start() {
	s.reinitialize()
	s.publish()
}

func (s *Session) Field() *motion.Field       { return s.field }
func (s *Session) Loop() *loop.Loop           { return s.loop }
func (s *Session) Trial() *trial.Controller   { return s.trial }
func (s *Session) Renderer() *render.Renderer { return s.renderer }
func (s *Session) Direction() float64         { return s.direction }
func (s *Session) DotCount() int              { return s.dotCount }
func (s *Session) Speed() int                 { return s.speed }
func (s *Session) Coherence() int             { return s.coherence }

// Params returns the motion parameters for the next tick.
func (s *Session) Params() motion.Params {
	return motion.Params{
		Coherence:   motion.Coherence(s.coherence),
		SpeedFactor: motion.SpeedFactor(s.speed),
		Direction:   s.direction,
	}
}

func (s *Session) Readouts() Readouts {
	return Readouts{
		Dots:      FormatReadout(s.dotCount),
		Speed:     FormatReadout(s.speed),
		Coherence: FormatReadout(s.coherence),
	}
}

// SetDotCount updates the dot count and rebuilds the field.
func (s *Session) SetDotCount(n int) {
	s.dotCount = config.Clamp(n, 0, config.MaxDotCount)
	s.parameterChanged()
}

// SetSpeed updates the raw 0-100 speed and rebuilds the field.
func (s *Session) SetSpeed(raw int) {
	s.speed = config.Clamp(raw, 0, config.MaxSpeed)
	s.parameterChanged()
}

// SetCoherence updates the raw 0-100 coherence and rebuilds the field.
func (s *Session) SetCoherence(raw int) {
	s.coherence = config.Clamp(raw, 0, config.MaxCoherence)
	s.parameterChanged()
}

// SetDirection applies a direction button and rebuilds the field.
func (s *Session) SetDirection(c Command) {
	s.setDirection(c.Degrees())
}

// RunTrial starts a trial, preempting any trial already running.
func (s *Session) RunTrial() {
	s.logger.Debug("trial requested", "previous", s.trial.Phase())
	s.trial.StartTrial()
}

// RevealAnswer draws the arrow for the current direction.
func (s *Session) RevealAnswer() error {
	return s.trial.ShowAnswer()
}

// SetHidden applies the host visibility signal. Showing the surface again
// rebuilds the field from scratch.
func (s *Session) SetHidden(hidden bool) {
	s.loop.SetHidden(hidden, s.reinitialize)
}

func (s *Session) setDirection(deg float64) {
	s.direction = deg
	s.logger.Debug("direction set", "degrees", deg)
	s.reinitialize()
}

func (s *Session) parameterChanged() {
	s.publish()
	s.reinitialize()
}

func (s *Session) reinitialize() {
	s.field.Reinitialize(s.dotCount)
	s.loop.Start()
}

func (s *Session) publish() {
	if s.OnReadouts != nil {
		s.OnReadouts(s.Readouts())
	}
}

// stage hands the trial controller control of the loop and renderer.
type stage struct{ s *Session }

func (st stage) StopAnimation()      { st.s.loop.Stop() }
func (st stage) Clear()              { st.s.renderer.Clear() }
func (st stage) Fixation()           { st.s.renderer.Fixation() }
func (st stage) Present(deg float64) { st.s.setDirection(deg) }
func (st stage) Answer() error       { return st.s.renderer.AnswerArrow(st.s.direction) }
