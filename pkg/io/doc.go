// Package io writes render artifacts to disk and reads manifests back.
//
// # Export
//
// Use [WritePNG] to write an encoded image, and [WriteManifest] or
// [ExportManifest] to record the scene that produced it:
//
//	if err := io.WritePNG(scene.FileName(), result.PNG); err != nil {
//	    log.Fatal(err)
//	}
//	err := io.ExportManifest(scene, "run.json")
//
// The manifest is JSON: the run ID, both concrete seeds, the dimensions,
// the drawn colors and per-chain statistics.
//
// # Import
//
// [ImportManifest] and [ReadManifest] decode a manifest so a run can be
// replayed with the same seeds:
//
//	m, err := io.ImportManifest("run.json")
//	cfg.ShapeSeed = m.Seeds.Shape.Seed()
//	cfg.ColorSeed = m.Seeds.Color.Seed()
package io
