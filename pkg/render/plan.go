package render

import (
	"context"
	"fmt"

	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/geom"
	"github.com/matzehuels/serpentine/pkg/palette"
)

// Layer is one chain with the paint settings it is stroked with.
type Layer struct {
	Name      string
	Chain     geom.Chain
	Color     palette.ColorSpec
	Thickness float64
	Blend     BlendMode
}

// DisplayList is a frozen sequence of paint commands. Build one with Plan.
type DisplayList struct {
	width, height int
	background    palette.ColorSpec
	layers        []plannedLayer
}

type plannedLayer struct {
	name      string
	arcs      []geom.ArcSegment
	color     palette.ColorSpec
	thickness float64
	blend     BlendMode
}

// Plan validates the layers and copies them into a display list for a
// width×height surface.
func Plan(width, height int, background palette.ColorSpec, layers []Layer) (*DisplayList, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "dimensions must be positive, got %dx%d", width, height)
	}
	list := &DisplayList{
		width:      width,
		height:     height,
		background: background,
		layers:     make([]plannedLayer, 0, len(layers)),
	}
	for i, l := range layers {
		if !l.Blend.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "layer %d: unknown blend mode %d", i, int(l.Blend))
		}
		if err := errors.ValidatePositive(fmt.Sprintf("layer %d thickness", i), l.Thickness); err != nil {
			return nil, err
		}
		for j, seg := range l.Chain {
			if !(seg.Radius > 0) {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "layer %d segment %d: radius %g is not positive", i, j, seg.Radius)
			}
		}
		list.layers = append(list.layers, plannedLayer{
			name:      l.Name,
			arcs:      append([]geom.ArcSegment(nil), l.Chain...),
			color:     l.Color,
			thickness: l.Thickness,
			blend:     l.Blend,
		})
	}
	return list, nil
}

// Size returns the planned surface dimensions.
func (d *DisplayList) Size() (width, height int) { return d.width, d.height }

// Background returns the fill color.
func (d *DisplayList) Background() palette.ColorSpec { return d.background }

// Layers returns a copy of the planned layers.
func (d *DisplayList) Layers() []Layer {
	out := make([]Layer, len(d.layers))
	for i, l := range d.layers {
		out[i] = Layer{
			Name:      l.name,
			Chain:     append(geom.Chain(nil), l.arcs...),
			Color:     l.color,
			Thickness: l.thickness,
			Blend:     l.blend,
		}
	}
	return out
}

// Strokes returns the total number of arcs the list will stroke.
func (d *DisplayList) Strokes() int {
	n := 0
	for _, l := range d.layers {
		n += len(l.arcs)
	}
	return n
}

// Paint replays the list onto s. The surface must have the planned size.
// On error the surface's save stack is left balanced. Cancelling ctx stops
// the replay before the next segment and returns ctx.Err().
func Paint(ctx context.Context, d *DisplayList, s Surface) error {
	if d == nil {
		return errors.New(errors.ErrCodeInternal, "nil display list")
	}
	if s.Width() != d.width || s.Height() != d.height {
		return errors.New(errors.ErrCodeInvalidConfig,
			"surface is %dx%d, display list wants %dx%d", s.Width(), s.Height(), d.width, d.height)
	}

	err := Scoped(s, func() error {
		s.SetBlendMode(BlendNormal)
		return s.Fill(d.background)
	})
	if err != nil {
		return fmt.Errorf("fill background: %w", err)
	}

	for i := range d.layers {
		if err := paintLayer(ctx, s, &d.layers[i]); err != nil {
			return fmt.Errorf("paint layer %d (%s): %w", i, d.layers[i].name, err)
		}
	}
	return nil
}

func paintLayer(ctx context.Context, s Surface, l *plannedLayer) error {
	return Scoped(s, func() error {
		s.SetBlendMode(l.blend)
		for j, a := range l.arcs {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := Scoped(s, func() error {
				s.Translate(a.Center.X, a.Center.Y)
				return s.StrokeArc(a.Radius, a.StartAngle, a.EndAngle, a.Clockwise, l.thickness, l.color)
			})
			if err != nil {
				return fmt.Errorf("segment %d: %w", j, err)
			}
		}
		return nil
	})
}
