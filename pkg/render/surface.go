package render

import "github.com/matzehuels/serpentine/pkg/palette"

// Surface is a rectangular drawing target.
//
// Save pushes the current transform and blend mode; Restore pops them.
// StrokeArc draws around the current origin, so callers translate to the
// arc's center first.
type Surface interface {
	Width() int
	Height() int
	Fill(c palette.ColorSpec) error
	Save()
	Restore()
	Translate(x, y float64)
	SetBlendMode(m BlendMode)
	StrokeArc(radius, start, end float64, clockwise bool, width float64, c palette.ColorSpec) error
}

// Scoped runs fn between a Save and a Restore. The Restore happens on
// every return path, including a panic in fn.
func Scoped(s Surface, fn func() error) error {
	s.Save()
	defer s.Restore()
	return fn()
}
