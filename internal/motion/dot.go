package motion

import "math"

// Dot is a single stochastic particle. Heading is in radians.
type Dot struct {
	X, Y    float64
	Heading float64
}

// Rand is the subset of *rand.Rand used by the field.
type Rand interface {
	Float64() float64
}

// Redraw picks the heading for the next step: the signal direction with
// probability coherence, otherwise a uniform angle in [0, 2pi).
func (d *Dot) Redraw(rng Rand, coherence, signal float64) {
	if rng.Float64() < coherence {
		d.Heading = signal
		return
	}
	d.Heading = rng.Float64() * 2 * math.Pi
}

// Advance moves the dot speed units along its heading.
func (d *Dot) Advance(speed float64) {
	d.X += speed * math.Cos(d.Heading)
	d.Y += speed * math.Sin(d.Heading)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
