package kinematogram

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/rdksim/internal/config"
	"github.com/san-kum/rdksim/internal/host"
	"github.com/san-kum/rdksim/internal/motion"
	"github.com/san-kum/rdksim/internal/render"
	"github.com/san-kum/rdksim/internal/trial"
)

func newTestSession(t *testing.T, mutate func(*config.Config)) (*Session, *host.Fake, *render.Recorder) {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	fake := host.NewFake(cfg.FPS)
	rec := render.NewRecorder(cfg.Width, cfg.Height)
	s, err := New(fake, rec, cfg, rand.New(rand.NewSource(11)), nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, fake, rec
}

func TestFormatReadout(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "000"},
		{7, "007"},
		{42, "042"},
		{100, "100"},
		{1200, "1200"},
	}
	for _, tt := range tests {
		if got := FormatReadout(tt.in); got != tt.want {
			t.Errorf("FormatReadout(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewRequiresSurface(t *testing.T) {
	if _, err := New(host.NewFake(60), nil, nil, nil, nil); err == nil {
		t.Error("expected error without a surface")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Speed = 1000
	if _, err := New(host.NewFake(60), render.NewRecorder(10, 10), cfg, nil, nil); err == nil {
		t.Error("expected validation error")
	}
}

func TestStartRunsFreeAnimation(t *testing.T) {
	s, fake, rec := newTestSession(t, nil)
	var got Readouts
	s.OnReadouts = func(r Readouts) { got = r }
	s.Start()

	if s.Field().Len() != config.DefaultDotCount {
		t.Errorf("expected %d dots, got %d", config.DefaultDotCount, s.Field().Len())
	}
	if !s.Loop().Active() {
		t.Fatal("expected animation to run")
	}
	if got.Dots != "100" || got.Speed != "050" || got.Coherence != "050" {
		t.Errorf("unexpected readouts %+v", got)
	}
	fake.AdvanceFrames(3)
	if rec.Count("circle") != config.DefaultDotCount {
		t.Errorf("expected a full frame of dots, got %d", rec.Count("circle"))
	}
}

func TestParams(t *testing.T) {
	s, _, _ := newTestSession(t, nil)
	s.SetSpeed(100)
	s.SetCoherence(25)
	p := s.Params()
	if p.SpeedFactor != 2 || p.Coherence != 0.25 || p.Direction != 90 {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestSettersClampAndPublish(t *testing.T) {
	s, _, _ := newTestSession(t, nil)
	var updates []Readouts
	s.OnReadouts = func(r Readouts) { updates = append(updates, r) }

	s.SetDotCount(-4)
	s.SetSpeed(250)
	s.SetCoherence(3)

	if len(updates) != 3 {
		t.Fatalf("expected 3 readout updates, got %d", len(updates))
	}
	last := updates[2]
	if last.Dots != "000" || last.Speed != "100" || last.Coherence != "003" {
		t.Errorf("unexpected readouts %+v", last)
	}
	if s.Field().Len() != 0 {
		t.Errorf("expected empty field, got %d", s.Field().Len())
	}
}

func TestSetDotCountRecreatesDots(t *testing.T) {
	s, _, _ := newTestSession(t, nil)
	s.Start()
	s.SetDotCount(37)
	if s.Field().Len() != 37 {
		t.Errorf("expected 37 dots, got %d", s.Field().Len())
	}
	a := s.Field().Aperture()
	for _, d := range s.Field().Dots() {
		if !a.Contains(d.X, d.Y) {
			t.Fatalf("dot outside aperture: %+v", d)
		}
	}
}

func TestSetDirection(t *testing.T) {
	s, fake, _ := newTestSession(t, func(c *config.Config) { c.Coherence = 100 })
	s.Start()
	s.SetDirection(Up)
	if s.Direction() != 270 {
		t.Fatalf("expected 270, got %f", s.Direction())
	}
	fake.AdvanceFrames(2)
	for _, d := range s.Field().Dots() {
		if math.Abs(d.Heading-motion.Radians(270)) > 1e-9 {
			t.Fatalf("dot heading %f not upward", d.Heading)
		}
	}
	s.SetDirection(Down)
	if s.Direction() != 90 {
		t.Errorf("expected 90, got %f", s.Direction())
	}
	if !s.Loop().Active() {
		t.Error("direction change should keep animation running")
	}
}

func TestCommandDegrees(t *testing.T) {
	if Up.Degrees() != 270 || Down.Degrees() != 90 {
		t.Error("unexpected command mapping")
	}
	if Up.String() != "up" || Down.String() != "down" {
		t.Error("unexpected command names")
	}
}

func TestRunTrialSequence(t *testing.T) {
	s, fake, rec := newTestSession(t, nil)
	s.Start()
	fake.AdvanceFrames(5)

	s.RunTrial()
	if s.Loop().Active() {
		t.Fatal("trial should stop free-run animation")
	}
	if rec.Count("rect") != 2 || rec.Count("circle") != 0 {
		t.Errorf("expected only the fixation cross, got %v", rec.Ops)
	}

	fake.Advance(config.DefaultConfig().FixationDuration())
	if s.Trial().Phase() != trial.Stimulus {
		t.Fatalf("expected stimulus, got %s", s.Trial().Phase())
	}
	if !s.Loop().Active() {
		t.Fatal("stimulus should animate")
	}
	if s.Direction() != s.Trial().Direction() {
		t.Errorf("session direction %f differs from trial %f", s.Direction(), s.Trial().Direction())
	}

	fake.Advance(config.DefaultConfig().StimulusDuration())
	if s.Trial().Phase() != trial.Idle {
		t.Fatalf("expected idle, got %s", s.Trial().Phase())
	}
	frames := s.Loop().Frames()
	before := append([]motion.Dot(nil), s.Field().Dots()...)
	fake.AdvanceFrames(30)
	if s.Loop().Frames() != frames {
		t.Error("animation ticked after the trial ended")
	}
	for i, d := range s.Field().Dots() {
		if d != before[i] {
			t.Fatalf("dot %d moved after the trial ended", i)
		}
	}
	if len(rec.Ops) != 1 || rec.Ops[0].Kind != "clear" {
		t.Errorf("expected blank surface, got %v", rec.Ops)
	}
}

func TestRevealAnswer(t *testing.T) {
	tests := []struct {
		cmd       Command
		downwards bool
	}{
		{Down, true},
		{Up, false},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.String(), func(t *testing.T) {
			s, _, rec := newTestSession(t, nil)
			s.Start()
			s.SetDirection(tt.cmd)
			if err := s.RevealAnswer(); err != nil {
				t.Fatalf("reveal failed: %v", err)
			}
			if s.Loop().Active() {
				t.Error("reveal should stop animation")
			}
			line, ok := rec.Find("line")
			if !ok {
				t.Fatal("no arrow drawn")
			}
			fromY, toY := line.Args[1], line.Args[3]
			if (toY > fromY) != tt.downwards {
				t.Errorf("arrow from y=%f to y=%f, downwards=%v", fromY, toY, tt.downwards)
			}
			if rec.Count("circle") != 0 {
				t.Error("dots drawn with the answer")
			}
		})
	}
}

func TestRevealAnswerUnsupported(t *testing.T) {
	s, _, _ := newTestSession(t, func(c *config.Config) { c.Direction = 45 })
	if err := s.RevealAnswer(); err != render.ErrUnsupportedDirection {
		t.Errorf("expected ErrUnsupportedDirection, got %v", err)
	}
}

func TestVisibilityReinitializes(t *testing.T) {
	s, fake, _ := newTestSession(t, nil)
	s.Start()
	fake.AdvanceFrames(5)
	before := append([]motion.Dot(nil), s.Field().Dots()...)

	s.SetHidden(true)
	if s.Loop().Active() {
		t.Fatal("hidden surface should stop animation")
	}
	frames := s.Loop().Frames()
	fake.AdvanceFrames(10)
	if s.Loop().Frames() != frames {
		t.Error("animation ticked while hidden")
	}

	s.SetHidden(false)
	if !s.Loop().Active() {
		t.Fatal("animation should restart when shown")
	}
	same := 0
	for i, d := range s.Field().Dots() {
		if d == before[i] {
			same++
		}
	}
	if same == len(before) {
		t.Error("dots preserved across hide/show")
	}
}

func TestTrialPreemptionThroughSession(t *testing.T) {
	s, fake, _ := newTestSession(t, nil)
	s.Start()
	s.RunTrial()
	fake.Advance(config.DefaultConfig().FixationDuration() / 2)
	s.RunTrial()
	fake.Advance(config.DefaultConfig().FixationDuration() / 2)
	if s.Trial().Phase() != trial.Fixation {
		t.Errorf("first trial's timer fired: phase %s", s.Trial().Phase())
	}
	if fake.PendingTimers() != 1 {
		t.Errorf("expected one pending timer, got %d", fake.PendingTimers())
	}
}
