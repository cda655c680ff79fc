// Package render turns manifest sections into mp4 files: it paints the
// static layers (headers, annotation bands, cards) into frames, plans
// where each video lands, and drives ffmpeg to composite the result.
package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/keagan/clipforge/internal/layout"
	"github.com/keagan/clipforge/internal/manifest"
	"github.com/keagan/clipforge/internal/palette"
	"github.com/keagan/clipforge/internal/text"
)

// Vertical spacing between lines of a multiline title or subtitle block.
const multilineSpacing = 4

type painter struct {
	fonts *text.Source
	pal   palette.Palette
}

// newFrame allocates a frame filled with the background color.
func newFrame(w, h int, bg palette.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, layout.Rect{W: w, H: h}, bg)
	return img
}

// fill paints a solid rectangle, clipped to the image bounds.
func fill(img *image.RGBA, r layout.Rect, c palette.Color) {
	b := img.Bounds()
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W, r.Y+r.H
	if x0 < b.Min.X {
		x0 = b.Min.X
	}
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if x1 > b.Max.X {
		x1 = b.Max.X
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}
	col := c.RGBA()
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// stroke paints a rectangle outline of the given width, drawn inward.
func stroke(img *image.RGBA, r layout.Rect, c palette.Color, width int) {
	fill(img, layout.Rect{X: r.X, Y: r.Y, W: r.W, H: width}, c)
	fill(img, layout.Rect{X: r.X, Y: r.Y + r.H - width, W: r.W, H: width}, c)
	fill(img, layout.Rect{X: r.X, Y: r.Y, W: width, H: r.H}, c)
	fill(img, layout.Rect{X: r.X + r.W - width, Y: r.Y, W: width, H: r.H}, c)
}

// measureBlock measures a multiline text block: width is the widest line,
// height stacks the lines with multilineSpacing between them.
func (p painter) measureBlock(s string, size int, bold bool) (int, int, []string, []int, error) {
	lines := strings.Split(s, "\n")
	heights := make([]int, len(lines))
	maxW, totalH := 0, 0
	for i, line := range lines {
		w, h, err := p.fonts.Measure(line, size, bold)
		if err != nil {
			return 0, 0, nil, nil, err
		}
		heights[i] = h
		if w > maxW {
			maxW = w
		}
		totalH += h
	}
	totalH += multilineSpacing * (len(lines) - 1)
	return maxW, totalH, lines, heights, nil
}

// drawBlock draws a multiline block with each line centered on centerX.
func (p painter) drawBlock(img *image.RGBA, lines []string, heights []int, centerX, y, size int, bold bool, c palette.Color) error {
	for i, line := range lines {
		w, _, err := p.fonts.Measure(line, size, bold)
		if err != nil {
			return err
		}
		if err := p.fonts.Draw(img, line, centerX-w/2, y, size, bold, c.RGBA()); err != nil {
			return err
		}
		y += heights[i] + multilineSpacing
	}
	return nil
}

// header paints the section header at the top of the frame: a full-width
// accent bar with the title centered in it, and an optional subtitle in
// muted text below. Returns the total header height.
func (p painter) header(img *image.RGBA, w int, title, subtitle string, sp layout.SectionParams) (int, error) {
	accent, err := p.pal.ResolveString("accent")
	if err != nil {
		return 0, err
	}
	textColor, err := p.pal.ResolveString("text")
	if err != nil {
		return 0, err
	}

	fill(img, layout.Rect{W: w, H: sp.TitleBarH}, accent)

	tw, th, err := p.fonts.Measure(title, sp.TitleFontSize, false)
	if err != nil {
		return 0, fmt.Errorf("measuring header %q: %w", title, err)
	}
	tx := (w - tw) / 2
	ty := (sp.TitleBarH - th) / 2
	if err := p.fonts.Draw(img, title, tx, ty, sp.TitleFontSize, false, textColor.RGBA()); err != nil {
		return 0, err
	}

	headerH := sp.TitleBarH
	if subtitle != "" {
		subColor, err := p.pal.ResolveString("text_secondary")
		if err != nil {
			return 0, err
		}
		sw, sh, err := p.fonts.Measure(subtitle, sp.SubtitleFontSize, false)
		if err != nil {
			return 0, fmt.Errorf("measuring subtitle %q: %w", subtitle, err)
		}
		sx := (w - sw) / 2
		sy := sp.TitleBarH + sp.SubtitleGap
		if err := p.fonts.Draw(img, subtitle, sx, sy, sp.SubtitleFontSize, false, subColor.RGBA()); err != nil {
			return 0, err
		}
		headerH = sp.TitleBarH + sp.SubtitleGap + sh + sp.SubtitleBottomPad
	}
	return headerH, nil
}

// band paints an annotation band frame at a cell offset: the tinted band
// rectangle, the text lines, and the accent border around the whole unit.
func (p painter) band(img *image.RGBA, offsetX, offsetY int, b *layout.Band) error {
	bandRect := b.Band
	bandRect.X += offsetX
	bandRect.Y += offsetY
	fill(img, bandRect, b.Background)

	for _, l := range b.Lines {
		if err := p.fonts.Draw(img, l.Text, offsetX+l.X, offsetY+l.Y, l.Size, l.Bold, l.Color.RGBA()); err != nil {
			return err
		}
	}

	accent, err := p.pal.ResolveString("accent")
	if err != nil {
		return err
	}
	unit := b.Unit
	unit.X += offsetX
	unit.Y += offsetY
	stroke(img, unit, accent, b.Params.BorderWidth)
	return nil
}

// titleCard paints a full-frame card: accent bar along the top edge, then
// a vertically centered block of title, accent underline and optional
// subtitle.
func (p painter) titleCard(w, h int, sec manifest.Section, bg palette.Color) (*image.RGBA, error) {
	cl := layout.CardLayoutFor(w, h)
	accent, err := p.pal.ResolveString("accent")
	if err != nil {
		return nil, err
	}
	titleColor, err := p.pal.ResolveString("text")
	if err != nil {
		return nil, err
	}
	subColor, err := p.pal.ResolveString("text_secondary")
	if err != nil {
		return nil, err
	}

	img := newFrame(w, h, bg)
	fill(img, layout.Rect{W: w, H: cl.AccentBarH}, accent)

	_, titleH, titleLines, titleHeights, err := p.measureBlock(sec.Title, cl.TitleFontSize, false)
	if err != nil {
		return nil, fmt.Errorf("measuring title: %w", err)
	}

	totalH := titleH + cl.UnderlineGap + cl.UnderlineH
	var subH int
	var subLines []string
	var subHeights []int
	if sec.Subtitle != "" {
		_, subH, subLines, subHeights, err = p.measureBlock(sec.Subtitle, cl.SubtitleFontSize, false)
		if err != nil {
			return nil, fmt.Errorf("measuring subtitle: %w", err)
		}
		totalH += cl.UnderlineGap + subH
	}

	blockY := cl.AccentBarH + (h-cl.AccentBarH-totalH)/2
	if err := p.drawBlock(img, titleLines, titleHeights, w/2, blockY, cl.TitleFontSize, false, titleColor); err != nil {
		return nil, err
	}

	underlineX := (w - cl.UnderlineW) / 2
	underlineY := blockY + titleH + cl.UnderlineGap
	fill(img, layout.Rect{X: underlineX, Y: underlineY, W: cl.UnderlineW, H: cl.UnderlineH}, accent)

	if sec.Subtitle != "" {
		subY := underlineY + cl.UnderlineH + cl.UnderlineGap
		if err := p.drawBlock(img, subLines, subHeights, w/2, subY, cl.SubtitleFontSize, false, subColor); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// textSlide paints a full-frame slide: the standard section header above
// one to three equal columns of styled lines, separated by muted accent
// dividers. Each column's text block is vertically centered.
func (p painter) textSlide(w, h int, sec manifest.Section, bg palette.Color) (*image.RGBA, error) {
	sp := layout.SectionParamsFor(h)
	img := newFrame(w, h, bg)
	headerH, err := p.header(img, w, sec.Header, sec.Subtitle, sp)
	if err != nil {
		return nil, err
	}
	content := layout.ContentRect(w, h, headerH, sp)

	nCols := len(sec.Columns)
	sl := layout.SlideLayoutFor(h, content.W, nCols)

	defaultColor, err := p.pal.ResolveString("text_secondary")
	if err != nil {
		return nil, err
	}

	for cIdx, col := range sec.Columns {
		colX := content.X + cIdx*(sl.ColW+sl.DividerW)

		type lineSpec struct {
			text  string
			size  int
			bold  bool
			w, h  int
			color palette.Color
		}
		specs := make([]lineSpec, 0, len(col.Lines))
		totalH := 0
		for _, line := range col.Lines {
			size := sl.FontSize
			if line.Bold() {
				size += sl.BoldBump
			}
			lw, lh, err := p.fonts.Measure(line.Text, size, line.Bold())
			if err != nil {
				return nil, fmt.Errorf("measuring slide line %q: %w", line.Text, err)
			}
			c := defaultColor
			if line.Color != "" {
				c, err = palette.ParseReference(line.Color).Resolve(p.pal)
				if err != nil {
					return nil, fmt.Errorf("slide line %q: %w", line.Text, err)
				}
			}
			specs = append(specs, lineSpec{line.Text, size, line.Bold(), lw, lh, c})
			totalH += lh
		}
		if len(specs) > 1 {
			totalH += sl.LineSpacing * (len(specs) - 1)
		}

		y := content.Y + (content.H-totalH)/2
		for _, s := range specs {
			x := colX + sl.ColPadding
			if col.Align == "center" {
				x = colX + (sl.ColW-s.w)/2
			}
			if err := p.fonts.Draw(img, s.text, x, y, s.size, s.bold, s.color.RGBA()); err != nil {
				return nil, err
			}
			y += s.h + sl.LineSpacing
		}
	}

	if nCols > 1 {
		accent, err := p.pal.ResolveString("accent")
		if err != nil {
			return nil, err
		}
		dividerColor := palette.Mean(accent, bg)
		for d := 0; d < nCols-1; d++ {
			divX := content.X + (d+1)*sl.ColW + d*sl.DividerW + sl.DividerW/2
			fill(img, layout.Rect{
				X: divX - sl.DividerW/2,
				Y: content.Y,
				W: sl.DividerW,
				H: content.H,
			}, dividerColor)
		}
	}
	return img, nil
}
