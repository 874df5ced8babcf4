package viz

import (
	"math"
	"sort"

	"github.com/san-kum/rdksim/internal/render"
)

// Surface draws onto a Canvas using surface coordinates of a fixed
// logical size.
type Surface struct {
	canvas        *Canvas
	width, height int

	scale        float64
	offX, offY   float64
	clip         bool
	clipX, clipY float64
	clipR        float64
}

// NewSurface maps a width x height surface onto canvas, centred with a
// uniform scale.
func NewSurface(canvas *Canvas, width, height int) *Surface {
	pw, ph := canvas.PixelSize()
	scale := math.Min(float64(pw)/float64(width), float64(ph)/float64(height))
	return &Surface{
		canvas: canvas,
		width:  width,
		height: height,
		scale:  scale,
		offX:   (float64(pw) - scale*float64(width)) / 2,
		offY:   (float64(ph) - scale*float64(height)) / 2,
	}
}

func (s *Surface) Canvas() *Canvas  { return s.canvas }
func (s *Surface) Size() (int, int) { return s.width, s.height }

func (s *Surface) Clear() { s.canvas.Clear() }

func (s *Surface) ClipCircle(cx, cy, r float64) {
	s.clip = true
	s.clipX, s.clipY = s.toPixel(cx, cy)
	s.clipR = r * s.scale
}

func (s *Surface) ResetClip() { s.clip = false }

// FillCircle lights every pixel within r of (x, y); discs smaller than a
// pixel still light their centre.
func (s *Surface) FillCircle(x, y, r float64) {
	px, py := s.toPixel(x, y)
	pr := r * s.scale
	if pr < 1 {
		s.plot(int(px), int(py))
		return
	}
	for iy := int(math.Floor(py - pr)); iy <= int(math.Ceil(py+pr)); iy++ {
		for ix := int(math.Floor(px - pr)); ix <= int(math.Ceil(px+pr)); ix++ {
			if math.Hypot(float64(ix)+0.5-px, float64(iy)+0.5-py) <= pr {
				s.plot(ix, iy)
			}
		}
	}
}

func (s *Surface) FillRect(x, y, w, h float64) {
	x0, y0 := s.toPixel(x, y)
	x1, y1 := s.toPixel(x+w, y+h)
	for iy := int(math.Floor(y0)); iy < int(math.Ceil(y1)); iy++ {
		for ix := int(math.Floor(x0)); ix < int(math.Ceil(x1)); ix++ {
			s.plot(ix, iy)
		}
	}
}

// StrokeLine draws a one-pixel line; widths below a pixel at this scale
// are the common case on a terminal.
func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64) {
	ax, ay := s.toPixel(x0, y0)
	bx, by := s.toPixel(x1, y1)
	bresenham(int(ax), int(ay), int(bx), int(by), s.plot)
}

// FillPolygon scan-converts a convex or simple polygon using the even-odd
// rule at pixel centres, then outlines it so thin shapes stay visible.
func (s *Surface) FillPolygon(pts []render.Point) {
	if len(pts) < 3 {
		return
	}
	px := make([]render.Point, len(pts))
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range pts {
		x, y := s.toPixel(p.X, p.Y)
		px[i] = render.Point{X: x, Y: y}
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for iy := int(math.Floor(minY)); iy <= int(math.Ceil(maxY)); iy++ {
		cy := float64(iy) + 0.5
		var xs []float64
		for i := range px {
			a, b := px[i], px[(i+1)%len(px)]
			if (a.Y <= cy && b.Y > cy) || (b.Y <= cy && a.Y > cy) {
				xs = append(xs, a.X+(cy-a.Y)*(b.X-a.X)/(b.Y-a.Y))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for ix := int(math.Ceil(xs[i] - 0.5)); float64(ix)+0.5 <= xs[i+1]; ix++ {
				s.plot(ix, iy)
			}
		}
	}
	for i := range px {
		a, b := px[i], px[(i+1)%len(px)]
		bresenham(int(a.X), int(a.Y), int(b.X), int(b.Y), s.plot)
	}
}

func (s *Surface) toPixel(x, y float64) (float64, float64) {
	return s.offX + x*s.scale, s.offY + y*s.scale
}

func (s *Surface) plot(x, y int) {
	if s.clip && math.Hypot(float64(x)+0.5-s.clipX, float64(y)+0.5-s.clipY) > s.clipR+0.5 {
		return
	}
	s.canvas.Set(x, y)
}

var _ render.Surface = (*Surface)(nil)
