// Package layout holds the pure geometry of section and annotation
// composition. Nothing here touches fonts, files or ffmpeg; text extents
// come in through the text.Measurer interface.
package layout

import "math"

// Reference heights the design constants were authored against. Atom-level
// constants (annotation bands) scale against a 900px frame, section-level
// constants against a 1080px frame. The two tiers never mix.
const (
	AtomRefHeight    = 900
	SectionRefHeight = 1080
)

// Ref is a design constant with its reference value and a minimum the
// scaled result never drops below.
type Ref struct {
	Base  int
	Floor int
}

// Scale maps the constant to a target height within its reference tier.
func (r Ref) Scale(h, refH int) int {
	v := int(math.Round(float64(r.Base) * float64(h) / float64(refH)))
	if v < r.Floor {
		return r.Floor
	}
	return v
}

// Rect is an integer pixel rectangle positioned inside a parent frame.
type Rect struct {
	X, Y, W, H int
}

// Inset shrinks the rect by d on every side.
func (r Rect) Inset(d int) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// CenterIn positions a w x h box centered inside r using integer division,
// biasing leftover pixels right and down.
func (r Rect) CenterIn(w, h int) Rect {
	return Rect{
		X: r.X + (r.W-w)/2,
		Y: r.Y + (r.H-h)/2,
		W: w,
		H: h,
	}
}

// FitScale returns the uniform scale that fits srcW x srcH inside
// availW x availH without cropping.
func FitScale(srcW, srcH, availW, availH int) float64 {
	if srcW <= 0 || srcH <= 0 {
		return 1
	}
	sw := float64(availW) / float64(srcW)
	sh := float64(availH) / float64(srcH)
	if sw < sh {
		return sw
	}
	return sh
}
