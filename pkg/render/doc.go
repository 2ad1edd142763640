// Package render composites generated chains onto a drawing surface.
//
// # Overview
//
// Rendering is split in two. [Plan] is pure: it turns a background color
// and a list of [Layer] values into an immutable [DisplayList] of paint
// commands. [Paint] is the only step that touches a live [Surface]; it
// replays the list in order.
//
//	list, err := render.Plan(background, layers)
//	err = render.Paint(ctx, list, surface)
//
// # Paint Order
//
// The background is filled first with the normal blend mode. Layers follow
// in the order given; within a layer, segments are stroked in chain order.
// Every layer is bracketed by a save/restore pair that also scopes its
// blend mode, and every segment is bracketed by its own save/restore around
// the translation to its center, so no transform leaks between segments.
//
// # Surfaces
//
// [Surface] is the minimal capability the compositor needs. The raster
// subpackage implements it on top of gogpu/gg. [Recorder] implements it in
// memory for tests and for inspecting what a plan would draw.
//
// [raster]: github.com/matzehuels/serpentine/pkg/render/raster
package render
