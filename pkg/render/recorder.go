package render

import (
	stderrors "errors"

	"github.com/matzehuels/serpentine/pkg/palette"
)

// OpKind identifies a recorded surface call.
type OpKind int

const (
	OpFill OpKind = iota
	OpSave
	OpRestore
	OpTranslate
	OpBlend
	OpStroke
)

// Op is one recorded call. For OpStroke, X and Y hold the absolute center
// the arc was drawn at and Blend the mode in effect.
type Op struct {
	Kind      OpKind
	X, Y      float64
	Blend     BlendMode
	Radius    float64
	Start     float64
	End       float64
	Clockwise bool
	Width     float64
	Color     palette.ColorSpec
}

type recorderState struct {
	x, y  float64
	blend BlendMode
}

// ErrInjected is returned by a Recorder once FailAfter strokes succeeded.
var ErrInjected = stderrors.New("render: injected stroke failure")

// Recorder is an in-memory Surface that logs every call.
type Recorder struct {
	W, H int
	Ops  []Op

	// FailAfter, when positive, makes stroke number FailAfter+1 fail.
	FailAfter int

	state   recorderState
	stack   []recorderState
	strokes int
}

// NewRecorder returns a recorder of the given size.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Width() int  { return r.W }
func (r *Recorder) Height() int { return r.H }

func (r *Recorder) Fill(c palette.ColorSpec) error {
	r.Ops = append(r.Ops, Op{Kind: OpFill, Blend: r.state.blend, Color: c})
	return nil
}

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.state)
	r.Ops = append(r.Ops, Op{Kind: OpSave})
}

func (r *Recorder) Restore() {
	if len(r.stack) > 0 {
		r.state = r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
	}
	r.Ops = append(r.Ops, Op{Kind: OpRestore})
}

func (r *Recorder) Translate(x, y float64) {
	r.state.x += x
	r.state.y += y
	r.Ops = append(r.Ops, Op{Kind: OpTranslate, X: x, Y: y})
}

func (r *Recorder) SetBlendMode(m BlendMode) {
	r.state.blend = m
	r.Ops = append(r.Ops, Op{Kind: OpBlend, Blend: m})
}

func (r *Recorder) StrokeArc(radius, start, end float64, clockwise bool, width float64, c palette.ColorSpec) error {
	if r.FailAfter > 0 && r.strokes >= r.FailAfter {
		return ErrInjected
	}
	r.strokes++
	r.Ops = append(r.Ops, Op{
		Kind:      OpStroke,
		X:         r.state.x,
		Y:         r.state.y,
		Blend:     r.state.blend,
		Radius:    radius,
		Start:     start,
		End:       end,
		Clockwise: clockwise,
		Width:     width,
		Color:     c,
	})
	return nil
}

// Depth returns the number of unmatched Save calls.
func (r *Recorder) Depth() int { return len(r.stack) }

// Strokes returns the recorded stroke ops in order.
func (r *Recorder) Strokes() []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == OpStroke {
			out = append(out, op)
		}
	}
	return out
}
