package motion

import "math"

// SpeedScale maps the raw 0-100 speed parameter to pixels per frame.
const SpeedScale = 50.0

// Params are the process-wide motion parameters read on every step.
type Params struct {
	Coherence   float64 // probability in [0, 1]
	SpeedFactor float64 // pixels per frame
	Direction   float64 // degrees
}

// SpeedFactor converts the raw speed parameter to pixels per frame.
func SpeedFactor(raw int) float64 {
	return float64(raw) / SpeedScale
}

// Coherence converts the raw 0-100 coherence parameter to a probability.
func Coherence(raw int) float64 {
	return float64(raw) / 100
}

// Field holds the dots and applies the update rule once per tick.
type Field struct {
	aperture Aperture
	rng      Rand
	dots     []Dot
}

func NewField(aperture Aperture, rng Rand) *Field {
	if rng == nil {
		panic("motion: nil random source")
	}
	return &Field{aperture: aperture, rng: rng}
}

func (f *Field) Aperture() Aperture { return f.aperture }
func (f *Field) Len() int           { return len(f.dots) }

// Dots returns the live dot slice. Callers must not retain it across a
// Reinitialize.
func (f *Field) Dots() []Dot { return f.dots }

// Reinitialize discards every dot and creates n new ones placed uniformly
// by area with uniform random headings.
func (f *Field) Reinitialize(n int) {
	if n < 0 {
		n = 0
	}
	f.dots = make([]Dot, n)
	for i := range f.dots {
		x, y := f.aperture.Sample(f.rng)
		f.dots[i] = Dot{X: x, Y: y, Heading: f.rng.Float64() * 2 * math.Pi}
	}
}

// Step advances every dot by one frame. Containment is applied to each dot
// before Step returns, so no dot is ever observed outside the aperture.
func (f *Field) Step(p Params) {
	signal := Radians(p.Direction)
	for i := range f.dots {
		d := &f.dots[i]
		d.Redraw(f.rng, p.Coherence, signal)
		d.Advance(p.SpeedFactor)
		d.X, d.Y = f.aperture.Contain(d.X, d.Y)
	}
}

// Headings appends the current heading of every dot to dst.
func (f *Field) Headings(dst []float64) []float64 {
	for _, d := range f.dots {
		dst = append(dst, d.Heading)
	}
	return dst
}
