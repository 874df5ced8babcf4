package export

import (
	"fmt"
	"io"
	"os"

	"github.com/gogpu/gg"

	"github.com/san-kum/rdksim/internal/render"
)

// Raster is a render.Surface backed by a software gg context.
type Raster struct {
	dc         *gg.Context
	background gg.RGBA
	ink        gg.RGBA
	err        error
}

// NewRaster creates a width x height raster painting white on black.
func NewRaster(width, height int) *Raster {
	r := &Raster{
		dc:         gg.NewContext(width, height),
		background: gg.Black,
		ink:        gg.White,
	}
	r.Clear()
	return r
}

// SetInk changes the fill and stroke colour, e.g. "#ffb000".
func (r *Raster) SetInk(hex string) { r.ink = gg.Hex(hex) }

func (r *Raster) Size() (int, int) { return r.dc.Width(), r.dc.Height() }

func (r *Raster) Clear() { r.dc.ClearWithColor(r.background) }

func (r *Raster) ClipCircle(cx, cy, rad float64) {
	r.dc.DrawCircle(cx, cy, rad)
	r.dc.Clip()
}

func (r *Raster) ResetClip() { r.dc.ResetClip() }

func (r *Raster) FillCircle(x, y, rad float64) {
	r.dc.DrawCircle(x, y, rad)
	r.fill()
}

func (r *Raster) FillRect(x, y, w, h float64) {
	r.dc.DrawRectangle(x, y, w, h)
	r.fill()
}

func (r *Raster) StrokeLine(x0, y0, x1, y1, width float64) {
	r.paint()
	r.dc.SetLineWidth(width)
	r.dc.MoveTo(x0, y0)
	r.dc.LineTo(x1, y1)
	r.keep(r.dc.Stroke())
}

func (r *Raster) FillPolygon(pts []render.Point) {
	if len(pts) < 3 {
		return
	}
	r.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		r.dc.LineTo(p.X, p.Y)
	}
	r.dc.ClosePath()
	r.fill()
}

// Err returns the first drawing error since the raster was created.
func (r *Raster) Err() error { return r.err }

// Context exposes the underlying gg context.
func (r *Raster) Context() *gg.Context { return r.dc }

func (r *Raster) WritePNG(w io.Writer) error {
	if r.err != nil {
		return fmt.Errorf("export: raster has drawing errors: %w", r.err)
	}
	return r.dc.EncodePNG(w)
}

func (r *Raster) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return f.Close()
}

func (r *Raster) Close() error { return r.dc.Close() }

func (r *Raster) paint() {
	r.dc.SetRGBA(r.ink.R, r.ink.G, r.ink.B, r.ink.A)
}

func (r *Raster) fill() {
	r.paint()
	r.keep(r.dc.Fill())
}

func (r *Raster) keep(err error) {
	if err != nil && r.err == nil {
		r.err = err
	}
}

var _ render.Surface = (*Raster)(nil)
