package render

import (
	"errors"
	"math"

	"github.com/san-kum/rdksim/internal/motion"
)

// ErrUnsupportedDirection is returned when the answer arrow is requested
// for a direction other than straight up or down.
var ErrUnsupportedDirection = errors.New("render: answer arrow only defined for 90 and 270 degrees")

const (
	DotRadius   = 2.0
	CrossSize   = 40.0
	ArrowLength = 100.0
	HeadWidth   = 20.0
	HeadLength  = 30.0
	ShaftWidth  = 2.0

	// headAngle is the offset of each arrowhead flank from the shaft.
	headAngle = math.Pi / 6
)

// Renderer draws model state onto a Surface. It never mutates the model.
type Renderer struct {
	surface  Surface
	aperture motion.Aperture
}

func NewRenderer(s Surface, a motion.Aperture) *Renderer {
	if s == nil {
		panic("render: nil surface")
	}
	return &Renderer{surface: s, aperture: a}
}

func (r *Renderer) Surface() Surface { return r.surface }

// Clear wipes the whole surface and drops any clip region.
func (r *Renderer) Clear() {
	r.surface.ResetClip()
	r.surface.Clear()
}

// BeginFrame clears the surface and clips to the aperture.
func (r *Renderer) BeginFrame() {
	r.Clear()
	r.surface.ClipCircle(r.aperture.CX, r.aperture.CY, r.aperture.R)
}

// Dots draws each dot as a filled disc.
func (r *Renderer) Dots(dots []motion.Dot) {
	for _, d := range dots {
		r.surface.FillCircle(d.X, d.Y, DotRadius)
	}
}

// Fixation draws a plus sign centred on the aperture.
func (r *Renderer) Fixation() {
	cx, cy := r.aperture.CX, r.aperture.CY
	r.surface.FillRect(cx-CrossSize/10, cy-CrossSize/2, CrossSize/5, CrossSize)
	r.surface.FillRect(cx-CrossSize/2, cy-CrossSize/10, CrossSize, CrossSize/5)
}

// Arrow draws a shaft from -> to with a filled head at to.
func (r *Renderer) Arrow(from, to Point) {
	r.surface.StrokeLine(from.X, from.Y, to.X, to.Y, ShaftWidth)
	r.surface.FillPolygon(ArrowHead(from, to, HeadLength))
}

// AnswerArrow draws the indicator for directionDeg centred on the aperture.
func (r *Renderer) AnswerArrow(directionDeg float64) error {
	from, to, err := AnswerEndpoints(r.aperture, directionDeg)
	if err != nil {
		return err
	}
	r.Arrow(from, to)
	return nil
}

// AnswerEndpoints returns the shaft endpoints of the answer arrow. 90 points
// down the screen and 270 up.
func AnswerEndpoints(a motion.Aperture, directionDeg float64) (from, to Point, err error) {
	half := ArrowLength / 2
	switch directionDeg {
	case 90:
		return Point{a.CX, a.CY - half}, Point{a.CX, a.CY + half}, nil
	case 270:
		return Point{a.CX, a.CY + half}, Point{a.CX, a.CY - half}, nil
	}
	return Point{}, Point{}, ErrUnsupportedDirection
}

// ArrowHead returns the triangle tip, left flank, right flank for a shaft
// ending at to.
func ArrowHead(from, to Point, length float64) []Point {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	return []Point{
		to,
		{to.X - length*math.Cos(angle-headAngle), to.Y - length*math.Sin(angle-headAngle)},
		{to.X - length*math.Cos(angle+headAngle), to.Y - length*math.Sin(angle+headAngle)},
	}
}
