package motion

import "math"

const (
	// containTolerance absorbs rounding when a relocated dot lands on the rim.
	containTolerance = 1e-9

	// rimInset pulls relocated dots just inside R so that cos/sin rounding
	// cannot leave them outside and trigger another flip on the next tick.
	rimInset = 1e-12
)

// Aperture is the circular viewport that bounds dot positions.
type Aperture struct {
	CX, CY float64
	R      float64
}

// ApertureFor derives the aperture inscribed in a surface of the given size.
func ApertureFor(width, height int) Aperture {
	return Aperture{
		CX: float64(width) / 2,
		CY: float64(height) / 2,
		R:  math.Min(float64(width), float64(height)) / 2,
	}
}

// Distance returns the distance of (x, y) from the aperture centre.
func (a Aperture) Distance(x, y float64) float64 {
	return math.Hypot(x-a.CX, y-a.CY)
}

// Contains reports whether (x, y) lies inside the aperture.
func (a Aperture) Contains(x, y float64) bool {
	return a.Distance(x, y) <= a.R+containTolerance
}

// Contain relocates an out-of-bounds point to the antipodal point on the
// boundary. Points inside the aperture are returned unchanged. A relocated
// point is always at distance <= R.
func (a Aperture) Contain(x, y float64) (float64, float64) {
	if a.Distance(x, y) <= a.R {
		return x, y
	}
	opposite := math.Atan2(y-a.CY, x-a.CX) + math.Pi
	rim := a.R * (1 - rimInset)
	return a.CX + rim*math.Cos(opposite), a.CY + rim*math.Sin(opposite)
}

// Sample returns a point drawn uniformly by area from the aperture.
func (a Aperture) Sample(rng Rand) (float64, float64) {
	angle := rng.Float64() * 2 * math.Pi
	dist := math.Sqrt(rng.Float64()) * a.R
	return a.CX + dist*math.Cos(angle), a.CY + dist*math.Sin(angle)
}
