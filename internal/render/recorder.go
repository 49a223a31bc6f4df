package render

import "image/color"

// Op names a recorded draw call.
type Op uint8

const (
	OpClear Op = iota
	OpCircle
	OpLine
)

// Call is one recorded draw call. Unused coordinates are zero.
type Call struct {
	Op     Op
	X1, Y1 float64
	X2, Y2 float64
	Radius float64
	Width  float64
	Color  color.RGBA
	Alpha  float64
}

// Recorder is an in-memory Surface that keeps the calls made since the last Clear.
type Recorder struct {
	Calls []Call
}

// Clear drops every recorded call and records the clear itself.
func (r *Recorder) Clear() {
	r.Calls = append(r.Calls[:0], Call{Op: OpClear})
}

func (r *Recorder) FillCircle(x, y, radius float64, c color.RGBA, alpha float64) {
	r.Calls = append(r.Calls, Call{Op: OpCircle, X1: x, Y1: y, Radius: radius, Color: c, Alpha: alpha})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64, c color.RGBA, alpha, width float64) {
	r.Calls = append(r.Calls, Call{Op: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Color: c, Alpha: alpha})
}

// Count returns how many recorded calls have the given op.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the recorded calls.
func (r *Recorder) Snapshot() []Call {
	out := make([]Call, len(r.Calls))
	copy(out, r.Calls)
	return out
}
