package raster

import (
	"image"

	"github.com/gogpu/gg"

	"github.com/matzehuels/serpentine/pkg/render"
)

// composite blends the src pixels inside rect onto dst with mode and leaves
// that part of src transparent. Both pixmaps hold straight (unpremultiplied)
// RGBA and share dimensions.
func composite(dst, src *gg.Pixmap, rect image.Rectangle, mode render.BlendMode) {
	w := dst.Width()
	d, sp := dst.Data(), src.Data()
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := y * w * 4
		for x := rect.Min.X; x < rect.Max.X; x++ {
			i := row + x*4
			if sp[i+3] == 0 {
				continue
			}
			blendPixel(d[i:i+4:i+4], sp[i:i+4:i+4], mode)
			sp[i], sp[i+1], sp[i+2], sp[i+3] = 0, 0, 0, 0
		}
	}
}

// blendPixel applies the separable compositing formula
//
//	co = as·(1-ab)·Cs + as·ab·B(Cb, Cs) + (1-as)·ab·Cb
//	ao = as + ab·(1-as)
//
// and stores co/ao back into dst.
func blendPixel(dst, src []uint8, mode render.BlendMode) {
	as := float64(src[3]) / 255
	ab := float64(dst[3]) / 255
	ao := as + ab*(1-as)
	if ao <= 0 {
		return
	}
	for c := 0; c < 3; c++ {
		cs := float64(src[c]) / 255
		cb := float64(dst[c]) / 255
		co := as*(1-ab)*cs + as*ab*mix(mode, cb, cs) + (1-as)*ab*cb
		dst[c] = to8(co / ao)
	}
	dst[3] = to8(ao)
}

// mix is B(Cb, Cs) for one channel.
func mix(mode render.BlendMode, cb, cs float64) float64 {
	switch mode {
	case render.BlendMultiply:
		return cb * cs
	case render.BlendScreen:
		return cb + cs - cb*cs
	case render.BlendOverlay:
		// Hard light with the layers swapped.
		if cb <= 0.5 {
			return 2 * cs * cb
		}
		return mix(render.BlendScreen, cs, 2*cb-1)
	}
	return cs
}

func to8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
