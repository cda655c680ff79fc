package layout

import (
	"fmt"

	"github.com/keagan/clipforge/internal/text"
)

// Section-tier design constants, authored at a 1080px reference height.
var (
	refOuterPadding      = Ref{Base: 24, Floor: 6}
	refTitleBarH         = Ref{Base: 50, Floor: 16}
	refSubtitleGap       = Ref{Base: 6, Floor: 2}
	refTitleFontSize     = Ref{Base: 30, Floor: 10}
	refSubtitleFontSize  = Ref{Base: 24, Floor: 9}
	refSubtitleBottomPad = Ref{Base: 8, Floor: 3}
	refHeaderContentGap  = Ref{Base: 16, Floor: 4}
	refGridGap           = Ref{Base: 12, Floor: 4}
	refGroupGap          = Ref{Base: 36, Floor: 10}

	refColHeaderFontSize = Ref{Base: 22, Floor: 8}
	refColHeaderGap      = Ref{Base: 18, Floor: 5}

	refCardTitleFont    = Ref{Base: 64, Floor: 20}
	refCardSubtitleFont = Ref{Base: 36, Floor: 12}
	refCardAccentBarH   = Ref{Base: 4, Floor: 2}
	refCardUnderlineH   = Ref{Base: 3, Floor: 1}
	refCardUnderlineGap = Ref{Base: 12, Floor: 4}

	refSlideFontSize    = Ref{Base: 28, Floor: 10}
	refSlideBoldBump    = Ref{Base: 4, Floor: 2}
	refSlideLineSpacing = Ref{Base: 16, Floor: 5}
	refSlideColPadding  = Ref{Base: 40, Floor: 10}
	refSlideDividerW    = Ref{Base: 2, Floor: 1}
)

const (
	// Underline width on a title card, as a fraction of the frame width.
	CardUnderlineFrac = 0.6
	// Font reduction applied when a text slide runs three columns.
	SlideThreeColScale = 0.85
	// Single-row grid cells taller than this ratio of their width only add
	// dead space around landscape video.
	SingleRowAspectCap = 0.75
)

// SectionParams are the shared section constants scaled to an output height.
type SectionParams struct {
	OuterPadding      int
	TitleBarH         int
	SubtitleGap       int
	TitleFontSize     int
	SubtitleFontSize  int
	SubtitleBottomPad int
	HeaderContentGap  int
	GridGap           int
	GroupGap          int
	ColHeaderFontSize int
	ColHeaderGap      int
}

// SectionParamsFor scales the section constant table to an output height.
func SectionParamsFor(h int) SectionParams {
	return SectionParams{
		OuterPadding:      refOuterPadding.Scale(h, SectionRefHeight),
		TitleBarH:         refTitleBarH.Scale(h, SectionRefHeight),
		SubtitleGap:       refSubtitleGap.Scale(h, SectionRefHeight),
		TitleFontSize:     refTitleFontSize.Scale(h, SectionRefHeight),
		SubtitleFontSize:  refSubtitleFontSize.Scale(h, SectionRefHeight),
		SubtitleBottomPad: refSubtitleBottomPad.Scale(h, SectionRefHeight),
		HeaderContentGap:  refHeaderContentGap.Scale(h, SectionRefHeight),
		GridGap:           refGridGap.Scale(h, SectionRefHeight),
		GroupGap:          refGroupGap.Scale(h, SectionRefHeight),
		ColHeaderFontSize: refColHeaderFontSize.Scale(h, SectionRefHeight),
		ColHeaderGap:      refColHeaderGap.Scale(h, SectionRefHeight),
	}
}

// HeaderHeight is the total header extent: the title bar plus, when a
// subtitle is present, the measured subtitle line and its padding.
func HeaderHeight(p SectionParams, subtitle string, m text.Measurer) (int, error) {
	if subtitle == "" {
		return p.TitleBarH, nil
	}
	_, sh, err := m.Measure(subtitle, p.SubtitleFontSize, false)
	if err != nil {
		return 0, fmt.Errorf("measuring subtitle: %w", err)
	}
	return p.TitleBarH + p.SubtitleGap + sh + p.SubtitleBottomPad, nil
}

// ContentRect is the area below the header inside the outer padding.
func ContentRect(w, h, headerH int, p SectionParams) Rect {
	y := headerH + p.HeaderContentGap
	return Rect{
		X: p.OuterPadding,
		Y: y,
		W: w - 2*p.OuterPadding,
		H: h - y - p.OuterPadding,
	}
}

// GridGeometry positions a cols x rows grid of clip cells, optionally under
// a row of column headers, centered vertically in the content area.
type GridGeometry struct {
	CellW, CellH int
	ColHeaderH   int
	UnitTopY     int
	GridTopY     int
}

// GridLayout divides the content area into equal cells with gaps. When
// column headers are present their measured height plus gap is reserved
// above the grid, and the header+grid unit is centered as one block.
// Single-row grids cap cell height against SingleRowAspectCap.
func GridLayout(content Rect, cols, rows int, p SectionParams, columnHeaders []string, m text.Measurer) (GridGeometry, error) {
	var g GridGeometry
	if cols <= 0 || rows <= 0 {
		return g, fmt.Errorf("degenerate grid %dx%d", cols, rows)
	}

	contentH := content.H
	if len(columnHeaders) > 0 {
		maxH := 0
		for _, hdr := range columnHeaders {
			_, th, err := m.Measure(hdr, p.ColHeaderFontSize, false)
			if err != nil {
				return g, fmt.Errorf("measuring column header %q: %w", hdr, err)
			}
			if th > maxH {
				maxH = th
			}
		}
		g.ColHeaderH = maxH + p.ColHeaderGap
		contentH -= g.ColHeaderH
	}

	gap := p.GridGap
	g.CellW = (content.W - (cols-1)*gap) / cols
	g.CellH = (contentH - (rows-1)*gap) / rows
	if rows == 1 {
		if limit := int(float64(g.CellW) * SingleRowAspectCap); g.CellH > limit {
			g.CellH = limit
		}
	}

	totalGridH := rows*g.CellH + (rows-1)*gap
	totalUnitH := g.ColHeaderH + totalGridH
	g.UnitTopY = content.Y + (contentH+g.ColHeaderH-totalUnitH)/2
	g.GridTopY = g.UnitTopY + g.ColHeaderH
	return g, nil
}

// CellOrigin returns the top-left corner of cell i in row-major order.
func (g GridGeometry) CellOrigin(content Rect, i, cols, gap int) (int, int) {
	col := i % cols
	row := i / cols
	return content.X + col*(g.CellW+gap), g.GridTopY + row*(g.CellH+gap)
}

// CardLayout is the scaled geometry of a title card.
type CardLayout struct {
	TitleFontSize    int
	SubtitleFontSize int
	AccentBarH       int
	UnderlineH       int
	UnderlineGap     int
	UnderlineW       int
}

// CardLayoutFor scales title-card constants to a frame size.
func CardLayoutFor(w, h int) CardLayout {
	return CardLayout{
		TitleFontSize:    refCardTitleFont.Scale(h, SectionRefHeight),
		SubtitleFontSize: refCardSubtitleFont.Scale(h, SectionRefHeight),
		AccentBarH:       refCardAccentBarH.Scale(h, SectionRefHeight),
		UnderlineH:       refCardUnderlineH.Scale(h, SectionRefHeight),
		UnderlineGap:     refCardUnderlineGap.Scale(h, SectionRefHeight),
		UnderlineW:       int(float64(w) * CardUnderlineFrac),
	}
}

// SlideLayout is the scaled geometry of a text slide's columns.
type SlideLayout struct {
	FontSize    int
	BoldBump    int
	LineSpacing int
	ColPadding  int
	DividerW    int
	ColW        int
}

// SlideLayoutFor scales text-slide constants for a content width and column
// count. Three or more columns shrink the font to keep density up.
func SlideLayoutFor(h, contentW, nCols int) SlideLayout {
	s := SlideLayout{
		FontSize:    refSlideFontSize.Scale(h, SectionRefHeight),
		BoldBump:    refSlideBoldBump.Scale(h, SectionRefHeight),
		LineSpacing: refSlideLineSpacing.Scale(h, SectionRefHeight),
		ColPadding:  refSlideColPadding.Scale(h, SectionRefHeight),
		DividerW:    refSlideDividerW.Scale(h, SectionRefHeight),
	}
	if nCols >= 3 {
		if s.FontSize = int(float64(s.FontSize) * SlideThreeColScale); s.FontSize < 10 {
			s.FontSize = 10
		}
		if s.BoldBump = int(float64(s.BoldBump) * SlideThreeColScale); s.BoldBump < 1 {
			s.BoldBump = 1
		}
	}
	if nCols <= 1 {
		s.ColW = contentW
	} else {
		s.ColW = (contentW - (nCols-1)*s.DividerW) / nCols
	}
	return s
}
