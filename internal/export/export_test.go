package export

import (
	"bytes"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/rdksim/internal/motion"
	"github.com/san-kum/rdksim/internal/render"
	"github.com/san-kum/rdksim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 4, "")
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("malformed svg document")
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 circles, got %d", n)
	}
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("expected default fill")
	}
}

func TestCanvasToSVGNil(t *testing.T) {
	if CanvasToSVG(nil, 1, "") != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func brightness(r *Raster, x, y int) uint32 {
	cr, _, _, _ := r.Context().Image().At(x, y).RGBA()
	return cr
}

func TestRasterFrame(t *testing.T) {
	r := NewRaster(100, 100)
	defer r.Close()

	rd := render.NewRenderer(r, motion.ApertureFor(100, 100))
	rd.BeginFrame()
	rd.Dots([]motion.Dot{{X: 50, Y: 50}, {X: 2, Y: 2}})

	if r.Err() != nil {
		t.Fatalf("draw error: %v", r.Err())
	}
	if brightness(r, 50, 50) < 0x8000 {
		t.Error("dot inside the aperture not painted")
	}
	if brightness(r, 2, 2) > 0x1000 {
		t.Error("dot outside the aperture painted")
	}
	if brightness(r, 80, 20) != 0 {
		t.Error("background not black")
	}
}

func TestRasterSavePNG(t *testing.T) {
	r := NewRaster(64, 48)
	defer r.Close()
	render.NewRenderer(r, motion.ApertureFor(64, 48)).Fixation()

	var buf bytes.Buffer
	if err := r.WritePNG(&buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("unexpected bounds %v", b)
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := r.SavePNG(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
}
