package layout

import (
	"fmt"

	"github.com/keagan/clipforge/internal/palette"
	"github.com/keagan/clipforge/internal/text"
)

// Side names the edge of the bounding box an annotation band occupies.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideAbove
	SideBelow
)

// ParseSide maps the manifest spelling to a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "left":
		return SideLeft, nil
	case "right":
		return SideRight, nil
	case "above":
		return SideAbove, nil
	case "below":
		return SideBelow, nil
	}
	return 0, fmt.Errorf("invalid annotation side %q", s)
}

// Horizontal reports whether the band sits beside the video rather than
// above or below it.
func (s Side) Horizontal() bool {
	return s == SideLeft || s == SideRight
}

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideAbove:
		return "above"
	case SideBelow:
		return "below"
	}
	return "unknown"
}

// Annotation is one line of band text with its resolved styling inputs.
type Annotation struct {
	Text  string
	Color palette.Reference
	Bold  bool
}

// PlacedLine is a measured annotation line positioned inside the band.
type PlacedLine struct {
	Text  string
	X, Y  int
	W, H  int
	Size  int
	Bold  bool
	Color palette.Color
}

// Band is the computed annotation-band geometry for one clip cell: the band
// rectangle, the video rectangle it sits flush against, and the placed text
// lines. All coordinates are relative to the bounding box origin.
type Band struct {
	Side       Side
	Thickness  int
	Band       Rect
	Clip       Rect
	Unit       Rect
	Lines      []PlacedLine
	Params     AtomParams
	Background palette.Color
}

// ComputeBand lays out an annotation band and its video inside a bounding
// box. The band's thickness follows the measured text extent, clamped to a
// fraction window of the axis it cuts across; the band's other dimension is
// forced equal to the scaled video so the two always sit flush. A zero
// source dimension means the video fills whatever space the band leaves.
func ComputeBand(side Side, anns []Annotation, bboxW, bboxH int, pal palette.Palette, bg palette.Color, srcW, srcH int, m text.Measurer) (*Band, error) {
	if bboxW <= 0 || bboxH <= 0 {
		return nil, fmt.Errorf("degenerate bounding box %dx%d", bboxW, bboxH)
	}
	p := AtomParamsFor(bboxH)

	lines := make([]PlacedLine, 0, len(anns))
	maxW := 0
	sumH := 0
	for _, a := range anns {
		size := p.FontSize
		if a.Bold {
			size += p.BoldBump
		}
		w, h, err := m.Measure(a.Text, size, a.Bold)
		if err != nil {
			return nil, fmt.Errorf("measuring annotation %q: %w", a.Text, err)
		}
		col, err := a.Color.Resolve(pal)
		if err != nil {
			return nil, fmt.Errorf("annotation %q: %w", a.Text, err)
		}
		lines = append(lines, PlacedLine{Text: a.Text, W: w, H: h, Size: size, Bold: a.Bold, Color: col})
		if w > maxW {
			maxW = w
		}
		sumH += h
	}

	var extent, pad, spacing, axis int
	if side.Horizontal() {
		extent = maxW
		pad = p.BandPaddingX
		spacing = p.LineSpacingSide
		axis = bboxW
	} else {
		spacing = p.LineSpacingStack
		extent = sumH
		if len(lines) > 1 {
			extent += spacing * (len(lines) - 1)
		}
		pad = p.BandPaddingY
		axis = bboxH
	}

	th := extent + 2*pad
	lo := p.BandMin
	if f := int(BandMinFrac * float64(axis)); f > lo {
		lo = f
	}
	hi := int(BandMaxFrac * float64(axis))
	if th > hi {
		th = hi
	}
	// The floor wins over the cap when a tiny box makes them conflict.
	if th < lo {
		th = lo
	}

	var availW, availH int
	if side.Horizontal() {
		availW = bboxW - th
		availH = bboxH - 2*p.BorderWidth
	} else {
		availW = bboxW
		availH = bboxH - th
	}

	var vidW, vidH int
	if srcW <= 0 || srcH <= 0 {
		vidW, vidH = availW, availH
	} else {
		s := FitScale(srcW, srcH, availW, availH)
		vidW = int(float64(srcW) * s)
		vidH = int(float64(srcH) * s)
	}

	var unitW, unitH int
	if side.Horizontal() {
		unitW = th + vidW
		unitH = vidH
	} else {
		unitW = vidW
		unitH = th + vidH
	}

	unitX := (bboxW - unitW) / 2
	unitY := (bboxH - unitH) / 2

	b := &Band{
		Side:       side,
		Thickness:  th,
		Unit:       Rect{X: unitX, Y: unitY, W: unitW, H: unitH},
		Lines:      lines,
		Params:     p,
		Background: bg.Offset(p.BandBGOffset),
	}

	switch side {
	case SideLeft:
		b.Band = Rect{X: unitX, Y: unitY, W: th, H: vidH}
		b.Clip = Rect{X: unitX + th, Y: unitY, W: vidW, H: vidH}
	case SideRight:
		b.Clip = Rect{X: unitX, Y: unitY, W: vidW, H: vidH}
		b.Band = Rect{X: unitX + vidW, Y: unitY, W: th, H: vidH}
	case SideAbove:
		b.Band = Rect{X: unitX, Y: unitY, W: vidW, H: th}
		b.Clip = Rect{X: unitX, Y: unitY + th, W: vidW, H: vidH}
	case SideBelow:
		b.Clip = Rect{X: unitX, Y: unitY, W: vidW, H: vidH}
		b.Band = Rect{X: unitX, Y: unitY + vidH, W: vidW, H: th}
	}

	b.placeLines(spacing)
	return b, nil
}

// placeLines positions the measured line block inside the band rectangle.
// Side bands left-align lines with horizontal padding; above/below bands
// center each line across the band width. Both center the block vertically.
func (b *Band) placeLines(spacing int) {
	if len(b.Lines) == 0 {
		return
	}
	blockH := 0
	for _, l := range b.Lines {
		blockH += l.H
	}
	blockH += spacing * (len(b.Lines) - 1)

	y := b.Band.Y + (b.Band.H-blockH)/2
	for i := range b.Lines {
		l := &b.Lines[i]
		if b.Side.Horizontal() {
			l.X = b.Band.X + b.Params.BandPaddingX
		} else {
			l.X = b.Band.X + (b.Band.W-l.W)/2
		}
		l.Y = y
		y += l.H + spacing
	}
}

// VideoRect returns where the source video actually sits: inset from the
// unit border on every edge except the one shared with the band, then
// rescaled to fit and centered inside the inset area.
func (b *Band) VideoRect(srcW, srcH int) Rect {
	bw := b.Params.BorderWidth
	inset := b.Clip
	switch b.Side {
	case SideLeft:
		inset.Y += bw
		inset.W -= bw
		inset.H -= 2 * bw
	case SideRight:
		inset.X += bw
		inset.Y += bw
		inset.W -= bw
		inset.H -= 2 * bw
	case SideAbove:
		inset.X += bw
		inset.W -= 2 * bw
		inset.H -= bw
	case SideBelow:
		inset.X += bw
		inset.Y += bw
		inset.W -= 2 * bw
		inset.H -= bw
	}
	if srcW <= 0 || srcH <= 0 {
		return inset
	}
	s := FitScale(srcW, srcH, inset.W, inset.H)
	w := int(float64(srcW) * s)
	h := int(float64(srcH) * s)
	return inset.CenterIn(w, h)
}
