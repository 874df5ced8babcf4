package render

// Point is a surface coordinate.
type Point struct {
	X, Y float64
}

// Surface is the drawing sink. Implementations keep a single clip and
// paint state; Clear always paints the full surface regardless of the clip.
type Surface interface {
	Size() (width, height int)
	Clear()
	ClipCircle(cx, cy, r float64)
	ResetClip()
	FillCircle(x, y, r float64)
	FillRect(x, y, w, h float64)
	StrokeLine(x0, y0, x1, y1, width float64)
	FillPolygon(pts []Point)
}
