// Package footer stamps a line of run metadata and the palette swatches
// along the bottom edge of an image.
package footer

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/palette"
	"github.com/matzehuels/serpentine/pkg/seed"
)

// Info is what the footer records.
type Info struct {
	Seeds  seed.Pair
	Width  int
	Height int
	Label  string
	Colors []palette.ColorSpec
	Chains []ChainInfo
	// Grain is the grain style name, empty when grain is off.
	Grain string
}

// ChainInfo summarizes how one chain was drawn.
type ChainInfo struct {
	Segments int
	Blend    string
}

// Text returns the metadata line, e.g.
//
//	2bigCurves  ·  shape 42  ·  color 7  ·  1311×1819  ·  100 overlay + 100 screen  ·  grain colorful
func (i Info) Text() string {
	parts := make([]string, 0, 6)
	if i.Label != "" {
		parts = append(parts, i.Label)
	}
	parts = append(parts,
		"shape "+i.Seeds.Shape.String(),
		"color "+i.Seeds.Color.String(),
		fmt.Sprintf("%d×%d", i.Width, i.Height),
	)
	if len(i.Chains) > 0 {
		chains := make([]string, len(i.Chains))
		for j, c := range i.Chains {
			chains[j] = fmt.Sprintf("%d %s", c.Segments, c.Blend)
		}
		parts = append(parts, strings.Join(chains, " + "))
	}
	if i.Grain != "" {
		parts = append(parts, "grain "+i.Grain)
	}
	return strings.Join(parts, "  ·  ")
}

// Stamp draws footers with one loaded font.
type Stamp struct {
	source *text.FontSource
}

// New loads the font from TTF/OTF data. Empty or unparseable data is a
// setup error.
func New(fontData []byte) (*Stamp, error) {
	src, err := text.NewFontSource(fontData)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSetup, err, "load footer font")
	}
	return &Stamp{source: src}, nil
}

// Default returns a stamp using the Go Regular font.
func Default() (*Stamp, error) { return New(goregular.TTF) }

// Draw renders the footer onto dc. Text size and margins scale with the
// shorter canvas side.
func (s *Stamp) Draw(dc *gg.Context, info Info) error {
	if s == nil || s.source == nil {
		return errors.New(errors.ErrCodeSetup, "footer font not loaded")
	}
	w, h := float64(dc.Width()), float64(dc.Height())
	unit := min(w, h) * 0.01
	size := max(8, 1.4*unit)
	margin := max(4, 2*unit)

	dc.Push()
	defer dc.Pop()
	dc.Identity()

	dc.SetFont(s.source.Face(size))
	ink := textColor(info.Colors)
	dc.SetRGBA(ink.R, ink.G, ink.B, 0.85)
	dc.DrawString(info.Text(), margin, h-margin)

	// Swatches sit right-aligned on the same baseline, one square per color.
	sw := size
	x := w - margin - float64(len(info.Colors))*(sw+unit)
	for _, c := range info.Colors {
		r, g, b, a := c.RGBA()
		dc.SetRGBA(r, g, b, a)
		dc.DrawRectangle(x, h-margin-sw, sw, sw)
		if err := dc.Fill(); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "draw swatch %s", c.Name)
		}
		x += sw + unit
	}
	return nil
}

// textColor picks black or white against the first color, which is the
// background.
func textColor(colors []palette.ColorSpec) gg.RGBA {
	if len(colors) == 0 {
		return gg.RGBA{A: 1}
	}
	bg, err := colors[0].Color()
	if err != nil {
		return gg.RGBA{A: 1}
	}
	if l, _, _ := bg.Lab(); l > 0.55 {
		return gg.RGBA{R: 0.08, G: 0.08, B: 0.08, A: 1}
	}
	return gg.RGBA{R: 0.96, G: 0.96, B: 0.96, A: 1}
}
