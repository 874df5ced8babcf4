package trial_test

import (
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rdksim/internal/host"
	"github.com/san-kum/rdksim/internal/trial"
)

type stageSpy struct {
	calls     []string
	animating bool
	direction float64
	presented []float64
}

func (s *stageSpy) StopAnimation() {
	s.animating = false
	s.calls = append(s.calls, "stop")
}

func (s *stageSpy) Clear()    { s.calls = append(s.calls, "clear") }
func (s *stageSpy) Fixation() { s.calls = append(s.calls, "fixation") }

func (s *stageSpy) Answer() error {
	s.calls = append(s.calls, "answer")
	return nil
}

func (s *stageSpy) Present(deg float64) {
	s.direction = deg
	s.animating = true
	s.presented = append(s.presented, deg)
	s.calls = append(s.calls, "present")
}

// fixedRand always returns v.
type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

var _ = Describe("Controller", func() {
	var (
		fake  *host.Fake
		stage *stageSpy
		ctrl  *trial.Controller
		seen  []trial.Phase
	)

	BeforeEach(func() {
		fake = host.NewFake(60)
		stage = &stageSpy{direction: 90}
		seen = nil
		ctrl = trial.New(fake, stage, rand.New(rand.NewSource(1)), trial.DefaultConfig(), nil)
		ctrl.OnTransition = func(_, to trial.Phase) { seen = append(seen, to) }
	})

	It("starts idle", func() {
		Expect(ctrl.Phase()).To(Equal(trial.Idle))
		Expect(ctrl.InFlight()).To(BeFalse())
	})

	It("shows fixation first", func() {
		stage.animating = true
		ctrl.StartTrial()
		Expect(ctrl.Phase()).To(Equal(trial.Fixation))
		Expect(stage.animating).To(BeFalse())
		Expect(stage.calls).To(Equal([]string{"stop", "clear", "fixation"}))
	})

	It("moves to stimulus after the fixation duration", func() {
		ctrl.StartTrial()
		fake.Advance(trial.DefaultFixation - time.Millisecond)
		Expect(ctrl.Phase()).To(Equal(trial.Fixation))

		fake.Advance(time.Millisecond)
		Expect(ctrl.Phase()).To(Equal(trial.Stimulus))
		Expect(stage.animating).To(BeTrue())
		Expect(stage.presented).To(HaveLen(1))
		Expect(stage.presented[0]).To(BeElementOf(90.0, 270.0))
		Expect(ctrl.Direction()).To(Equal(stage.presented[0]))
	})

	It("returns to idle and halts animation after the stimulus", func() {
		ctrl.StartTrial()
		fake.Advance(trial.DefaultFixation)
		fake.Advance(trial.DefaultStimulus)

		Expect(ctrl.Phase()).To(Equal(trial.Idle))
		Expect(ctrl.InFlight()).To(BeFalse())
		Expect(stage.animating).To(BeFalse())
		Expect(seen).To(Equal([]trial.Phase{trial.Fixation, trial.Stimulus, trial.Blank, trial.Idle}))
		Expect(stage.calls[len(stage.calls)-2:]).To(Equal([]string{"stop", "clear"}))
		Expect(fake.PendingTimers()).To(BeZero())
	})

	It("preempts an in-flight trial", func() {
		ctrl.StartTrial()
		fake.Advance(2 * time.Second)
		ctrl.StartTrial()
		Expect(fake.PendingTimers()).To(Equal(1))

		// The first trial's fixation would have ended here.
		fake.Advance(time.Second + 500*time.Millisecond)
		Expect(ctrl.Phase()).To(Equal(trial.Fixation))
		Expect(stage.presented).To(BeEmpty())

		fake.Advance(1500 * time.Millisecond)
		Expect(ctrl.Phase()).To(Equal(trial.Stimulus))
		Expect(stage.presented).To(HaveLen(1))

		fake.Advance(trial.DefaultStimulus)
		Expect(ctrl.Phase()).To(Equal(trial.Idle))
		Expect(ctrl.Trials()).To(Equal(2))
		Expect(seen).To(Equal([]trial.Phase{
			trial.Fixation, trial.Fixation, trial.Stimulus, trial.Blank, trial.Idle,
		}))
	})

	It("preempts during the stimulus phase", func() {
		ctrl.StartTrial()
		fake.Advance(trial.DefaultFixation + 500*time.Millisecond)
		Expect(stage.animating).To(BeTrue())

		ctrl.StartTrial()
		Expect(stage.animating).To(BeFalse())
		Expect(ctrl.Phase()).To(Equal(trial.Fixation))

		fake.Advance(trial.DefaultStimulus)
		Expect(ctrl.Phase()).To(Equal(trial.Fixation))
	})

	It("reveals the answer without touching the trial timer", func() {
		ctrl.StartTrial()
		fake.Advance(trial.DefaultFixation)
		Expect(ctrl.ShowAnswer()).To(Succeed())
		Expect(stage.animating).To(BeFalse())
		Expect(stage.calls[len(stage.calls)-3:]).To(Equal([]string{"stop", "clear", "answer"}))
		Expect(ctrl.InFlight()).To(BeTrue())

		fake.Advance(trial.DefaultStimulus)
		Expect(ctrl.Phase()).To(Equal(trial.Idle))
	})

	It("reveals the answer while idle", func() {
		Expect(ctrl.ShowAnswer()).To(Succeed())
		Expect(stage.calls).To(Equal([]string{"stop", "clear", "answer"}))
		Expect(ctrl.Phase()).To(Equal(trial.Idle))
	})

	It("cancels an in-flight trial", func() {
		ctrl.StartTrial()
		ctrl.Cancel()
		Expect(ctrl.Phase()).To(Equal(trial.Idle))
		Expect(ctrl.InFlight()).To(BeFalse())
		fake.Advance(10 * time.Second)
		Expect(stage.presented).To(BeEmpty())

		ctrl.Cancel()
		Expect(ctrl.Phase()).To(Equal(trial.Idle))
	})

	DescribeTable("picks each direction from the random draw",
		func(draw float64, want float64) {
			c := trial.New(fake, stage, fixedRand(draw), trial.DefaultConfig(), nil)
			c.StartTrial()
			fake.Advance(trial.DefaultFixation)
			Expect(c.Direction()).To(Equal(want))
		},
		Entry("low draw", 0.1, 90.0),
		Entry("just under half", 0.4999, 90.0),
		Entry("half", 0.5, 270.0),
		Entry("high draw", 0.99, 270.0),
	)

	It("chooses both directions about equally often", func() {
		counts := map[float64]int{}
		for i := 0; i < 400; i++ {
			ctrl.StartTrial()
			fake.Advance(trial.DefaultFixation)
			counts[ctrl.Direction()]++
		}
		Expect(counts[90] + counts[270]).To(Equal(400))
		Expect(counts[90]).To(BeNumerically("~", 200, 50))
	})

	It("honours configured durations", func() {
		cfg := trial.Config{Fixation: 100 * time.Millisecond, Stimulus: 50 * time.Millisecond}
		c := trial.New(fake, stage, fixedRand(0), cfg, nil)
		c.StartTrial()
		fake.Advance(100 * time.Millisecond)
		Expect(c.Phase()).To(Equal(trial.Stimulus))
		fake.Advance(50 * time.Millisecond)
		Expect(c.Phase()).To(Equal(trial.Idle))
	})

	It("names its phases", func() {
		Expect(trial.Idle.String()).To(Equal("idle"))
		Expect(trial.Stimulus.String()).To(Equal("stimulus"))
		Expect(trial.Phase(42).String()).To(Equal("unknown"))
	})
})
