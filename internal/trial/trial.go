package trial

import (
	"log/slog"
	"time"

	"github.com/san-kum/rdksim/internal/host"
)

// Phase is the trial state.
type Phase int

const (
	Idle Phase = iota
	Fixation
	Stimulus
	Blank
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Fixation:
		return "fixation"
	case Stimulus:
		return "stimulus"
	case Blank:
		return "blank"
	}
	return "unknown"
}

const (
	DefaultFixation = 3000 * time.Millisecond
	DefaultStimulus = 2000 * time.Millisecond
)

// Stage is what the controller takes control of while a trial runs.
type Stage interface {
	StopAnimation()
	Clear()
	Fixation()
	// Present makes directionDeg the current direction, rebuilds the
	// field and starts free-run animation.
	Present(directionDeg float64)
	// Answer draws the indicator for the current direction.
	Answer() error
}

// Rand is the subset of *rand.Rand used to pick the stimulus direction.
type Rand interface {
	Float64() float64
}

type Config struct {
	Fixation   time.Duration
	Stimulus   time.Duration
	Directions []float64 // candidate directions in degrees, chosen uniformly
}

func DefaultConfig() Config {
	return Config{
		Fixation:   DefaultFixation,
		Stimulus:   DefaultStimulus,
		Directions: []float64{90, 270},
	}
}

type Controller struct {
	host   host.Host
	stage  Stage
	rng    Rand
	cfg    Config
	logger *slog.Logger

	phase     Phase
	timer     host.Timer
	trials    int
	direction float64

	// OnTransition, if set, is called after every phase change.
	OnTransition func(from, to Phase)
}

func New(h host.Host, stage Stage, rng Rand, cfg Config, logger *slog.Logger) *Controller {
	if h == nil || stage == nil || rng == nil {
		panic("trial: nil host, stage or random source")
	}
	if cfg.Fixation <= 0 {
		cfg.Fixation = DefaultFixation
	}
	if cfg.Stimulus <= 0 {
		cfg.Stimulus = DefaultStimulus
	}
	if len(cfg.Directions) == 0 {
		cfg.Directions = DefaultConfig().Directions
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{host: h, stage: stage, rng: rng, cfg: cfg, logger: logger}
}

func (c *Controller) Phase() Phase { return c.phase }

// InFlight reports whether a trial timer is outstanding.
func (c *Controller) InFlight() bool { return c.timer != nil }

// Trials returns the number of trials started.
func (c *Controller) Trials() int { return c.trials }

// Direction returns the direction chosen for the most recent stimulus.
func (c *Controller) Direction() float64 { return c.direction }

// StartTrial preempts any trial or animation in progress and begins
// fixation.
func (c *Controller) StartTrial() {
	c.preempt()
	c.trials++
	c.stage.Clear()
	c.stage.Fixation()
	c.enter(Fixation)
	c.timer = c.host.AfterFunc(c.cfg.Fixation, c.beginStimulus)
}

// ShowAnswer stops animation and reveals the current direction. It can be
// called in any phase and does not cancel an outstanding trial timer.
func (c *Controller) ShowAnswer() error {
	c.stage.StopAnimation()
	c.stage.Clear()
	return c.stage.Answer()
}

// Cancel aborts an in-flight trial and returns to Idle.
func (c *Controller) Cancel() {
	c.preempt()
	if c.phase != Idle {
		c.stage.Clear()
		c.enter(Idle)
	}
}

func (c *Controller) preempt() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.stage.StopAnimation()
}

func (c *Controller) beginStimulus() {
	c.timer = nil
	c.stage.Clear()
	c.direction = c.pickDirection()
	c.stage.Present(c.direction)
	c.enter(Stimulus)
	c.timer = c.host.AfterFunc(c.cfg.Stimulus, c.finish)
}

func (c *Controller) finish() {
	c.timer = nil
	c.enter(Blank)
	c.stage.StopAnimation()
	c.stage.Clear()
	c.enter(Idle)
}

func (c *Controller) pickDirection() float64 {
	n := len(c.cfg.Directions)
	i := int(c.rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return c.cfg.Directions[i]
}

func (c *Controller) enter(p Phase) {
	from := c.phase
	c.phase = p
	c.logger.Debug("trial phase", "trial", c.trials, "from", from, "to", p)
	if c.OnTransition != nil {
		c.OnTransition(from, p)
	}
}
