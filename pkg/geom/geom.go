package geom

import (
	"math"

	"github.com/matzehuels/serpentine/pkg/errors"
)

// Source is the random stream a chain is drawn from.
type Source interface {
	// Range returns a uniform value in [min, max).
	Range(min, max float64) float64
}

// Point is a position in canvas pixels.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Band is a closed-open interval [Lo, Hi) to draw values from.
type Band struct {
	Lo float64 `json:"lo" toml:"lo"`
	Hi float64 `json:"hi" toml:"hi"`
}

// Draw returns a value from the band.
func (b Band) Draw(src Source) float64 {
	return src.Range(b.Lo, b.Hi)
}

// Default bands used by the presets.
var (
	DefaultRadiusBand = Band{Lo: 0.8, Hi: 1.5}
	DefaultAngleBand  = Band{Lo: 0.6, Hi: 1.5 * math.Pi}
)

// ArcSegment is one circular arc of a chain.
type ArcSegment struct {
	Center     Point   `json:"center"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	Clockwise  bool    `json:"clockwise"`
}

// Sweep returns the absolute angular extent of the arc as it is drawn.
// A clockwise arc is stroked from StartAngle down to EndAngle, wrapping
// around the circle.
func (a ArcSegment) Sweep() float64 {
	d := a.EndAngle - a.StartAngle
	if a.Clockwise {
		d = math.Mod(-d, 2*math.Pi)
		if d < 0 {
			d += 2 * math.Pi
		}
	}
	return d
}

// Length returns the arc length in pixels.
func (a ArcSegment) Length() float64 {
	return a.Radius * a.Sweep()
}

// ExitPoint returns the point on the circle at EndAngle, where the next
// segment's circle touches this one.
func (a ArcSegment) ExitPoint() Point {
	return Point{
		X: a.Center.X + a.Radius*math.Cos(a.EndAngle),
		Y: a.Center.Y + a.Radius*math.Sin(a.EndAngle),
	}
}

// Chain is an ordered sequence of tangent arcs.
type Chain []ArcSegment

// ChainSpec holds the geometric parameters of one chain.
type ChainSpec struct {
	// Segments is the number of arcs to emit.
	Segments int
	// Unit is the dot size in pixels; radii are drawn as RadiusBand × Unit.
	Unit float64
	// FirstUnit, when positive, replaces Unit for the initial radius only.
	FirstUnit float64
	// RadiusBand is the multiplier band for radii.
	RadiusBand Band
	// AngleBand is the band the per-segment sweep is drawn from. It may
	// exceed π, which lets arcs double back.
	AngleBand Band
	// Start is the center of the first circle.
	Start Point
}

func (s ChainSpec) firstUnit() float64 {
	if s.FirstUnit > 0 {
		return s.FirstUnit
	}
	return s.Unit
}

// Validate rejects specs that could emit a non-positive radius or NaN
// geometry. Generate calls it before the first draw.
func (s ChainSpec) Validate() error {
	if s.Segments <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "segment count must be positive, got %d", s.Segments)
	}
	if err := errors.ValidatePositive("radius unit", s.Unit); err != nil {
		return err
	}
	if err := errors.ValidateFinite("first radius unit", s.FirstUnit); err != nil {
		return err
	}
	if s.FirstUnit < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "first radius unit must not be negative, got %g", s.FirstUnit)
	}
	if err := errors.ValidateBand("radius band", s.RadiusBand.Lo, s.RadiusBand.Hi, true); err != nil {
		return err
	}
	// Radii are floored, so the smallest possible draw must still be >= 1px.
	for _, unit := range []float64{s.Unit, s.firstUnit()} {
		if math.Floor(s.RadiusBand.Lo*unit) < 1 {
			return errors.New(errors.ErrCodeInvalidConfig,
				"radius band %g × unit %g can produce a zero radius", s.RadiusBand.Lo, unit)
		}
	}
	if err := errors.ValidateBand("angle band", s.AngleBand.Lo, s.AngleBand.Hi, false); err != nil {
		return err
	}
	if err := errors.ValidateFinite("start x", s.Start.X); err != nil {
		return err
	}
	return errors.ValidateFinite("start y", s.Start.Y)
}

// Generate draws a chain from src. The ChainSpec is validated first, so a
// configuration error is reported before any value is consumed.
func Generate(src Source, spec ChainSpec) (Chain, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	chain := make(Chain, 0, spec.Segments)
	current := spec.Start
	radius := math.Floor(spec.RadiusBand.Draw(src) * spec.firstUnit())
	start := src.Range(0, 2*math.Pi)

	for i := 0; i < spec.Segments; i++ {
		end := start + spec.AngleBand.Draw(src)
		if math.IsNaN(end) || math.IsInf(end, 0) {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "segment %d has a degenerate end angle", i)
		}

		chain = append(chain, ArcSegment{
			Center:     current,
			Radius:     radius,
			StartAngle: start,
			EndAngle:   end,
			Clockwise:  i%2 == 1,
		})

		next := math.Floor(spec.RadiusBand.Draw(src) * spec.Unit)
		link := radius + next
		// Explicit conversions block FMA fusion so centers match bit-for-bit
		// on every architecture.
		current = Point{
			X: current.X + float64(link*math.Cos(end)),
			Y: current.Y + float64(link*math.Sin(end)),
		}
		radius = next
		start = end + math.Pi
	}
	return chain, nil
}
