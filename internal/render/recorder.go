package render

import "fmt"

// Op is one recorded draw call.
type Op struct {
	Kind   string
	Args   []float64
	Points []Point
}

func (o Op) String() string {
	if len(o.Points) > 0 {
		return fmt.Sprintf("%s%v", o.Kind, o.Points)
	}
	return fmt.Sprintf("%s%v", o.Kind, o.Args)
}

// Recorder is a Surface that logs every call. It backs headless runs and
// tests that check geometry rather than pixels.
type Recorder struct {
	Width, Height int
	Ops           []Op
	clipped       bool
}

func NewRecorder(w, h int) *Recorder {
	return &Recorder{Width: w, Height: h}
}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

// Clear drops the op log, mirroring a wiped surface.
func (r *Recorder) Clear() {
	r.Ops = r.Ops[:0]
	r.record("clear")
}

func (r *Recorder) ClipCircle(cx, cy, rad float64) {
	r.clipped = true
	r.record("clip", cx, cy, rad)
}

func (r *Recorder) ResetClip() {
	r.clipped = false
	r.record("reset-clip")
}

func (r *Recorder) FillCircle(x, y, rad float64) { r.record("circle", x, y, rad) }
func (r *Recorder) FillRect(x, y, w, h float64)  { r.record("rect", x, y, w, h) }

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64) {
	r.record("line", x0, y0, x1, y1, width)
}

func (r *Recorder) FillPolygon(pts []Point) {
	r.Ops = append(r.Ops, Op{Kind: "polygon", Points: append([]Point(nil), pts...)})
}

// Clipped reports whether a clip region is active.
func (r *Recorder) Clipped() bool { return r.clipped }

// Count returns the number of ops of the given kind since the last Clear.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Find returns the first op of the given kind.
func (r *Recorder) Find(kind string) (Op, bool) {
	for _, op := range r.Ops {
		if op.Kind == kind {
			return op, true
		}
	}
	return Op{}, false
}

func (r *Recorder) record(kind string, args ...float64) {
	r.Ops = append(r.Ops, Op{Kind: kind, Args: args})
}
