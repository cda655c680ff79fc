package layout

// Atom-tier design constants, authored at a 900px reference height.
var (
	refFontSize         = Ref{Base: 22, Floor: 8}
	refBoldBump         = Ref{Base: 2, Floor: 1}
	refBandPaddingX     = Ref{Base: 12, Floor: 4}
	refBandPaddingY     = Ref{Base: 8, Floor: 3}
	refBandMin          = Ref{Base: 60, Floor: 20}
	refBorderWidth      = Ref{Base: 2, Floor: 1}
	refLineSpacingSide  = Ref{Base: 12, Floor: 4}
	refLineSpacingStack = Ref{Base: 4, Floor: 2}
	refBandBGOffset     = Ref{Base: 14, Floor: 6}
)

// Band thickness stays within this fraction window of the bounding box axis
// it cuts across.
const (
	BandMinFrac = 0.08
	BandMaxFrac = 0.40
)

// AtomParams are the atom constants scaled to a concrete bounding-box
// height.
type AtomParams struct {
	FontSize         int
	BoldBump         int
	BandPaddingX     int
	BandPaddingY     int
	BandMin          int
	BorderWidth      int
	LineSpacingSide  int
	LineSpacingStack int
	BandBGOffset     int
}

// AtomParamsFor scales the atom constant table to a bounding-box height.
func AtomParamsFor(bboxH int) AtomParams {
	return AtomParams{
		FontSize:         refFontSize.Scale(bboxH, AtomRefHeight),
		BoldBump:         refBoldBump.Scale(bboxH, AtomRefHeight),
		BandPaddingX:     refBandPaddingX.Scale(bboxH, AtomRefHeight),
		BandPaddingY:     refBandPaddingY.Scale(bboxH, AtomRefHeight),
		BandMin:          refBandMin.Scale(bboxH, AtomRefHeight),
		BorderWidth:      refBorderWidth.Scale(bboxH, AtomRefHeight),
		LineSpacingSide:  refLineSpacingSide.Scale(bboxH, AtomRefHeight),
		LineSpacingStack: refLineSpacingStack.Scale(bboxH, AtomRefHeight),
		BandBGOffset:     refBandBGOffset.Scale(bboxH, AtomRefHeight),
	}
}
