// Package raster implements render.Surface on a gogpu/gg context.
//
// Strokes under a non-normal blend mode are drawn into a scratch pixmap the
// size of the canvas, then only the stroke's bounding box is blended onto
// the canvas and cleared again. Each stroke therefore blends against
// everything painted before it, including earlier strokes of the same chain.
package raster

import (
	"bytes"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/palette"
	"github.com/matzehuels/serpentine/pkg/render"
)

// Surface is a gg-backed raster surface.
type Surface struct {
	dc    *gg.Context
	pm    *gg.Pixmap
	blend render.BlendMode
	stack []render.BlendMode

	// scratch is allocated on first use and reused for every blended draw.
	scratch   *gg.Context
	scratchPM *gg.Pixmap
}

// New allocates a width×height transparent surface.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "dimensions must be positive, got %dx%d", width, height)
	}
	pm := gg.NewPixmap(width, height)
	return &Surface{
		dc: gg.NewContext(width, height, gg.WithPixmap(pm)),
		pm: pm,
	}, nil
}

var _ render.Surface = (*Surface)(nil)

func (s *Surface) Width() int  { return s.dc.Width() }
func (s *Surface) Height() int { return s.dc.Height() }

// Context exposes the underlying gg context for overlays such as the footer.
func (s *Surface) Context() *gg.Context { return s.dc }

// Pixmap exposes the pixel buffer for post effects.
func (s *Surface) Pixmap() *gg.Pixmap { return s.pm }

// Fill paints the whole surface with c.
func (s *Surface) Fill(c palette.ColorSpec) error {
	col, err := toRGBA(c)
	if err != nil {
		return err
	}
	if col.A >= 1 {
		s.dc.ClearWithColor(col)
		return nil
	}
	full := image.Rect(0, 0, s.Width(), s.Height())
	return s.blended(full, func(dc *gg.Context) error {
		dc.SetRGBA(col.R, col.G, col.B, col.A)
		dc.DrawRectangle(0, 0, float64(s.Width()), float64(s.Height()))
		return dc.Fill()
	})
}

// Save pushes the transform and blend mode.
func (s *Surface) Save() {
	s.dc.Push()
	s.stack = append(s.stack, s.blend)
}

// Restore pops the state pushed by the matching Save. Unmatched calls are
// ignored.
func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.dc.Pop()
	s.blend = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *Surface) Translate(x, y float64) { s.dc.Translate(x, y) }

func (s *Surface) SetBlendMode(m render.BlendMode) { s.blend = m }

// StrokeArc strokes an arc around the current origin. A clockwise arc runs
// from start down to end; gg always sweeps with increasing angle, so it is
// drawn as the counter-clockwise arc from end to start, which covers the
// same pixels.
func (s *Surface) StrokeArc(radius, start, end float64, clockwise bool, width float64, c palette.ColorSpec) error {
	col, err := toRGBA(c)
	if err != nil {
		return err
	}
	a1, a2 := start, end
	if clockwise {
		a1, a2 = end, start
	}
	return s.blended(s.bounds(radius+width/2), func(dc *gg.Context) error {
		dc.ClearPath()
		dc.SetLineWidth(width)
		dc.SetRGBA(col.R, col.G, col.B, col.A)
		dc.DrawArc(0, 0, radius, a1, a2)
		return dc.Stroke()
	})
}

// blended runs draw on the canvas for normal blending. Otherwise draw
// targets the scratch pixmap under the canvas transform, and the pixels
// inside rect are blended onto the canvas with the active mode.
func (s *Surface) blended(rect image.Rectangle, draw func(dc *gg.Context) error) error {
	if s.blend == render.BlendNormal {
		return draw(s.dc)
	}
	if s.scratch == nil {
		s.scratchPM = gg.NewPixmap(s.Width(), s.Height())
		s.scratch = gg.NewContext(s.Width(), s.Height(), gg.WithPixmap(s.scratchPM))
	}
	s.scratch.SetTransform(s.dc.GetTransform())
	err := draw(s.scratch)
	composite(s.pm, s.scratchPM, rect, s.blend)
	return err
}

// bounds is the device-space box covering every point within extent of
// the current origin, padded by a pixel for antialiasing and clipped to
// the canvas.
func (s *Surface) bounds(extent float64) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{-extent, -extent}, {extent, -extent}, {-extent, extent}, {extent, extent}} {
		x, y := s.dc.TransformPoint(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	r := image.Rect(int(math.Floor(minX))-1, int(math.Floor(minY))-1, int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
	return r.Intersect(image.Rect(0, 0, s.Width(), s.Height()))
}

func toRGBA(c palette.ColorSpec) (gg.RGBA, error) {
	if _, err := c.Color(); err != nil {
		return gg.RGBA{}, err
	}
	r, g, b, a := c.RGBA()
	return gg.RGBA{R: r, G: g, B: b, A: a}, nil
}

// Image returns a copy of the pixels as an image.RGBA.
func (s *Surface) Image() *image.RGBA { return s.pm.ToImage() }

// EncodePNG writes the surface as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if err := s.dc.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return nil
}

// PNG returns the encoded surface.
func (s *Surface) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close releases the gg contexts.
func (s *Surface) Close() error {
	if s.scratch != nil {
		_ = s.scratch.Close()
	}
	return s.dc.Close()
}
