// Package geom builds serpentine chains of tangent circular arcs.
//
// # Construction
//
// A chain starts at a point with a random radius and start angle. Each step
// sweeps an arc by a random angle offset, then places the next circle so that
// it touches the current one at the arc's end point:
//
//	distance(center[i], center[i+1]) == radius[i] + radius[i+1]
//
// The next arc starts on the far side of the new circle (end angle + π), and
// the drawing direction alternates by index parity. Together this produces a
// path that keeps reversing on itself instead of spiralling outward.
//
// Self-intersection is expected and never checked; a chain always has exactly
// the configured number of segments.
//
// # Determinism
//
// Generation is a pure function of the ChainSpec and the sequence of values drawn
// from the [Source]. Two calls with equal specs and equally seeded streams
// return identical chains. Nothing here touches a drawing surface.
package geom
