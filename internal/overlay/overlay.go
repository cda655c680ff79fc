// Package overlay renders semi-transparent text badges positioned on a 3x3
// grid. Patches work at two levels: per-clip (constrained to the clip's
// unit rectangle) and per-section (constrained to the content area).
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/keagan/clipforge/internal/layout"
	"github.com/keagan/clipforge/internal/palette"
	"github.com/keagan/clipforge/internal/text"
)

const (
	// MarginFrac is the edge margin as a fraction of the region dimension.
	MarginFrac = 0.03
	// BGAlpha is the patch background opacity, roughly 60%.
	BGAlpha = 153
	// Padding inside the patch box around the text.
	PaddingX = 12
	PaddingY = 6
	// CornerRadius of the patch background.
	CornerRadius = 6

	clipFontRef    = 20 // at the 900px atom reference
	sectionFontRef = 24 // at the 1080px section reference
)

// ClipFontSize scales the per-clip overlay font to a cell height.
func ClipFontSize(bboxH int) int {
	v := int(math.Round(float64(clipFontRef) * float64(bboxH) / float64(layout.AtomRefHeight)))
	if v < 10 {
		return 10
	}
	return v
}

// SectionFontSize scales the section overlay font to a frame height.
func SectionFontSize(frameH int) int {
	v := int(math.Round(float64(sectionFontRef) * float64(frameH) / float64(layout.SectionRefHeight)))
	if v < 12 {
		return 12
	}
	return v
}

// VAlign and HAlign split a grid position into its two axes.
type VAlign int

const (
	Top VAlign = iota
	Middle
	Bottom
)

type HAlign int

const (
	Left HAlign = iota
	Center
	Right
)

// Position is one of the nine grid placements.
type Position struct {
	V VAlign
	H HAlign
}

// ParsePosition maps the manifest spelling ("top-left", "middle-center",
// "bottom-right", ...) to a Position.
func ParsePosition(s string) (Position, error) {
	var p Position
	v, h, ok := strings.Cut(s, "-")
	if !ok {
		return p, fmt.Errorf("invalid overlay position %q", s)
	}
	switch v {
	case "top":
		p.V = Top
	case "middle":
		p.V = Middle
	case "bottom":
		p.V = Bottom
	default:
		return p, fmt.Errorf("invalid overlay position %q", s)
	}
	switch h {
	case "left":
		p.H = Left
	case "center":
		p.H = Center
	case "right":
		p.H = Right
	default:
		return p, fmt.Errorf("invalid overlay position %q", s)
	}
	return p, nil
}

// Item is one overlay badge: text, grid position, optional styling.
type Item struct {
	Text     string
	Position Position
	Color    palette.Reference
	Bold     bool
	Rotation int // 0, 90 or -90 degrees
}

// Place computes the top-left corner for a patch of the given size inside
// a region, honoring the grid position and edge margins.
func Place(pos Position, patchW, patchH int, region layout.Rect) (int, int) {
	marginX := int(float64(region.W) * MarginFrac)
	marginY := int(float64(region.H) * MarginFrac)

	var x, y int
	switch pos.H {
	case Left:
		x = region.X + marginX
	case Right:
		x = region.X + region.W - marginX - patchW
	default:
		x = region.X + (region.W-patchW)/2
	}
	switch pos.V {
	case Top:
		y = region.Y + marginY
	case Bottom:
		y = region.Y + region.H - marginY - patchH
	default:
		y = region.Y + (region.H-patchH)/2
	}
	return x, y
}

// RenderPatch draws the badge: text on a rounded dark background at BGAlpha
// opacity, rotated if requested. The returned image carries alpha.
func RenderPatch(src *text.Source, item Item, fontSize int, pal palette.Palette) (*image.RGBA, error) {
	size := fontSize
	if item.Bold {
		size += 2
	}
	col, err := item.Color.Resolve(pal)
	if err != nil {
		return nil, fmt.Errorf("overlay %q: %w", item.Text, err)
	}

	tw, th, err := src.Measure(item.Text, size, item.Bold)
	if err != nil {
		return nil, fmt.Errorf("measuring overlay %q: %w", item.Text, err)
	}

	w := tw + 2*PaddingX
	h := th + 2*PaddingY
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRoundedRect(img, CornerRadius, color.RGBA{0, 0, 0, BGAlpha})

	if err := src.Draw(img, item.Text, PaddingX, PaddingY, size, item.Bold, col.RGBA()); err != nil {
		return nil, err
	}

	switch item.Rotation {
	case 90:
		return rotateCW(img), nil
	case -90:
		return rotateCCW(img), nil
	}
	return img, nil
}

// Composite alpha-blends a patch onto a frame at (x, y), clamped to the
// frame bounds.
func Composite(dst *image.RGBA, patch *image.RGBA, x, y int) {
	b := dst.Bounds()
	pw := patch.Bounds().Dx()
	ph := patch.Bounds().Dy()
	if x < b.Min.X {
		x = b.Min.X
	}
	if y < b.Min.Y {
		y = b.Min.Y
	}
	if x+pw > b.Max.X {
		x = b.Max.X - pw
	}
	if y+ph > b.Max.Y {
		y = b.Max.Y - ph
	}
	r := image.Rect(x, y, x+pw, y+ph)
	draw.Draw(dst, r, patch, patch.Bounds().Min, draw.Over)
}

func fillRoundedRect(img *image.RGBA, radius int, c color.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	r2 := radius * radius
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Distance from the nearest corner center, if in a corner zone.
			dx, dy := 0, 0
			if x < radius {
				dx = radius - x
			} else if x >= w-radius {
				dx = x - (w - radius - 1)
			}
			if y < radius {
				dy = radius - y
			} else if y >= h-radius {
				dy = y - (h - radius - 1)
			}
			if dx > 0 && dy > 0 && dx*dx+dy*dy > r2 {
				continue
			}
			img.SetRGBA(b.Min.X+x, b.Min.Y+y, c)
		}
	}
}

// rotateCW rotates 90 degrees clockwise (text reads top to bottom).
func rotateCW(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetRGBA(h-1-y, x, src.RGBAAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

// rotateCCW rotates 90 degrees counter-clockwise (text reads bottom to top).
func rotateCCW(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetRGBA(y, w-1-x, src.RGBAAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}
