package geom

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Bounds returns the box enclosing every full circle of the chain.
// An empty chain yields the zero Rect.
func (c Chain) Bounds() Rect {
	if len(c) == 0 {
		return Rect{}
	}
	r := Rect{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, s := range c {
		r.Min.X = min(r.Min.X, s.Center.X-s.Radius)
		r.Min.Y = min(r.Min.Y, s.Center.Y-s.Radius)
		r.Max.X = max(r.Max.X, s.Center.X+s.Radius)
		r.Max.Y = max(r.Max.Y, s.Center.Y+s.Radius)
	}
	return r
}

// Radii returns the radius of every segment in order.
func (c Chain) Radii() []float64 {
	out := make([]float64, len(c))
	for i, s := range c {
		out[i] = s.Radius
	}
	return out
}

// Stats summarizes a chain for manifests and the seed command.
type Stats struct {
	Segments     int     `json:"segments"`
	MeanRadius   float64 `json:"mean_radius"`
	MedianRadius float64 `json:"median_radius"`
	StdDevRadius float64 `json:"stddev_radius"`
	MinRadius    float64 `json:"min_radius"`
	MaxRadius    float64 `json:"max_radius"`
	PathLength   float64 `json:"path_length"`
	Bounds       Rect    `json:"bounds"`
}

// Summarize computes radius statistics and total arc length.
func (c Chain) Summarize() (Stats, error) {
	st := Stats{Segments: len(c), Bounds: c.Bounds()}
	if len(c) == 0 {
		return st, nil
	}

	radii := stats.Float64Data(c.Radii())
	var err error
	if st.MeanRadius, err = radii.Mean(); err != nil {
		return st, err
	}
	if st.MedianRadius, err = radii.Median(); err != nil {
		return st, err
	}
	if st.StdDevRadius, err = radii.StandardDeviation(); err != nil {
		return st, err
	}
	if st.MinRadius, err = radii.Min(); err != nil {
		return st, err
	}
	if st.MaxRadius, err = radii.Max(); err != nil {
		return st, err
	}

	lengths := make(stats.Float64Data, len(c))
	for i, s := range c {
		lengths[i] = s.Length()
	}
	st.PathLength, err = lengths.Sum()
	return st, err
}
