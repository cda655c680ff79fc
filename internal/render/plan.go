package render

import (
	"fmt"
	"image"

	"github.com/keagan/clipforge/internal/layout"
	"github.com/keagan/clipforge/internal/manifest"
	"github.com/keagan/clipforge/internal/overlay"
	"github.com/keagan/clipforge/internal/palette"
	"github.com/keagan/clipforge/internal/text"
)

// SourceInfo is what the planner needs to know about one input video.
type SourceInfo struct {
	Width    int
	Height   int
	Duration float64
}

// ClipSlot is one video input with its final placement in the output frame.
type ClipSlot struct {
	Path     string
	Rect     layout.Rect
	Duration float64
}

// Plan is everything needed to encode one section: the painted static
// background, the video placements, and an optional badge sheet that sits
// above the videos.
type Plan struct {
	Width, Height int
	FPS           int
	Duration      float64
	Background    *image.RGBA
	Clips         []ClipSlot
	Overlay       *image.RGBA
}

type planner struct {
	fonts   *text.Source
	paint   painter
	pal     palette.Palette
	bg      palette.Color
	w, h    int
	fps     int
	sources map[string]SourceInfo
}

func newPlanner(m *manifest.Manifest, fonts *text.Source, sources map[string]SourceInfo) (*planner, error) {
	bg, err := m.Background()
	if err != nil {
		return nil, err
	}
	pal := m.Palette()
	return &planner{
		fonts:   fonts,
		paint:   painter{fonts: fonts, pal: pal},
		pal:     pal,
		bg:      bg,
		w:       m.Video.Width(),
		h:       m.Video.Height(),
		fps:     m.Video.FPS,
		sources: sources,
	}, nil
}

// plan builds the render plan for one section.
func (pl *planner) plan(sec manifest.Section) (*Plan, error) {
	p := &Plan{Width: pl.w, Height: pl.h, FPS: pl.fps}

	var err error
	switch sec.Template {
	case "title_card":
		p.Background, err = pl.paint.titleCard(pl.w, pl.h, sec, pl.bg)
		p.Duration = sec.Duration
	case "text_slide":
		p.Background, err = pl.paint.textSlide(pl.w, pl.h, sec, pl.bg)
		p.Duration = sec.Duration
	case "single_clip":
		err = pl.planSingleClip(sec, p)
	case "paired_2x2":
		err = pl.planPaired(sec, p)
	default:
		err = pl.planGrid(sec, p)
	}
	if err != nil {
		return nil, err
	}

	if err := pl.sectionOverlays(sec, p); err != nil {
		return nil, err
	}

	// Static sections can absorb the badge sheet into the background.
	if len(p.Clips) == 0 && p.Overlay != nil {
		overlay.Composite(p.Background, p.Overlay, 0, 0)
		p.Overlay = nil
	}
	return p, nil
}

func (pl *planner) source(path string) (SourceInfo, error) {
	info, ok := pl.sources[path]
	if !ok {
		return SourceInfo{}, fmt.Errorf("no probe data for %s", path)
	}
	if info.Width <= 0 || info.Height <= 0 {
		return SourceInfo{}, fmt.Errorf("no video stream in %s", path)
	}
	return info, nil
}

// planAtom lays out one annotated clip inside an absolute bounding box,
// painting its band into the plan background and registering the video
// slot and any per-clip badges.
func (pl *planner) planAtom(clip manifest.Clip, bbox layout.Rect, p *Plan) error {
	info, err := pl.source(clip.Path)
	if err != nil {
		return err
	}

	var videoRect layout.Rect
	var overlayRegion layout.Rect

	if len(clip.Annotations) == 0 {
		// No band: the video simply centers in the bounding box.
		s := layout.FitScale(info.Width, info.Height, bbox.W, bbox.H)
		vw := int(float64(info.Width) * s)
		vh := int(float64(info.Height) * s)
		videoRect = bbox.CenterIn(vw, vh)
		overlayRegion = videoRect
	} else {
		side, err := layout.ParseSide(clip.AnnotationSide)
		if err != nil {
			return err
		}
		anns := make([]layout.Annotation, len(clip.Annotations))
		for i, a := range clip.Annotations {
			anns[i] = layout.Annotation{
				Text:  a.Text,
				Color: a.ColorRef("text_secondary"),
				Bold:  a.Bold(),
			}
		}
		band, err := layout.ComputeBand(side, anns, bbox.W, bbox.H, pl.pal, pl.bg, info.Width, info.Height, pl.fonts)
		if err != nil {
			return err
		}
		if err := pl.paint.band(p.Background, bbox.X, bbox.Y, band); err != nil {
			return err
		}
		videoRect = band.VideoRect(info.Width, info.Height)
		videoRect.X += bbox.X
		videoRect.Y += bbox.Y
		overlayRegion = band.Unit
		overlayRegion.X += bbox.X
		overlayRegion.Y += bbox.Y
	}

	p.Clips = append(p.Clips, ClipSlot{
		Path:     clip.Path,
		Rect:     videoRect,
		Duration: info.Duration,
	})
	if info.Duration > p.Duration {
		p.Duration = info.Duration
	}

	if len(clip.Overlay) > 0 {
		fontSize := overlay.ClipFontSize(bbox.H)
		if err := pl.addBadges(clip.Overlay, fontSize, overlayRegion, p); err != nil {
			return err
		}
	}
	return nil
}

func (pl *planner) planSingleClip(sec manifest.Section, p *Plan) error {
	sp := layout.SectionParamsFor(pl.h)
	p.Background = newFrame(pl.w, pl.h, pl.bg)
	headerH, err := pl.paint.header(p.Background, pl.w, sec.Header, sec.Subtitle, sp)
	if err != nil {
		return err
	}
	content := layout.ContentRect(pl.w, pl.h, headerH, sp)
	return pl.planAtom(*sec.Clip, content, p)
}

func (pl *planner) planGrid(sec manifest.Section, p *Plan) error {
	cols := manifest.GridColCounts[sec.Template]
	rows := manifest.GridRowCounts[sec.Template]

	sp := layout.SectionParamsFor(pl.h)
	p.Background = newFrame(pl.w, pl.h, pl.bg)
	headerH, err := pl.paint.header(p.Background, pl.w, sec.Header, sec.Subtitle, sp)
	if err != nil {
		return err
	}
	content := layout.ContentRect(pl.w, pl.h, headerH, sp)

	g, err := layout.GridLayout(content, cols, rows, sp, sec.ColumnHeaders, pl.fonts)
	if err != nil {
		return err
	}

	if len(sec.ColumnHeaders) > 0 {
		hdrColor, err := pl.pal.ResolveString("text_secondary")
		if err != nil {
			return err
		}
		for colIdx, hdr := range sec.ColumnHeaders {
			colX := content.X + colIdx*(g.CellW+sp.GridGap)
			tw, _, err := pl.fonts.Measure(hdr, sp.ColHeaderFontSize, false)
			if err != nil {
				return fmt.Errorf("measuring column header %q: %w", hdr, err)
			}
			tx := colX + (g.CellW-tw)/2
			if err := pl.fonts.Draw(p.Background, hdr, tx, g.UnitTopY, sp.ColHeaderFontSize, false, hdrColor.RGBA()); err != nil {
				return err
			}
		}
	}

	for i, clip := range sec.Clips {
		x, y := g.CellOrigin(content, i, cols, sp.GridGap)
		bbox := layout.Rect{X: x, Y: y, W: g.CellW, H: g.CellH}
		if err := pl.planAtom(clip, bbox, p); err != nil {
			return fmt.Errorf("clip %d (%s): %w", i, clip.Path, err)
		}
	}
	return nil
}

func (pl *planner) planPaired(sec manifest.Section, p *Plan) error {
	sp := layout.SectionParamsFor(pl.h)
	p.Background = newFrame(pl.w, pl.h, pl.bg)
	headerH, err := pl.paint.header(p.Background, pl.w, sec.Header, sec.Subtitle, sp)
	if err != nil {
		return err
	}
	content := layout.ContentRect(pl.w, pl.h, headerH, sp)
	gap := sp.GridGap

	// Group headers share the column-header font; reserve the tallest.
	maxHdrH := 0
	for _, g := range sec.Groups {
		_, th, err := pl.fonts.Measure(g.Header, sp.ColHeaderFontSize, false)
		if err != nil {
			return fmt.Errorf("measuring group header %q: %w", g.Header, err)
		}
		if th > maxHdrH {
			maxHdrH = th
		}
	}
	grpHeaderH := maxHdrH + sp.ColHeaderGap

	gridContentH := content.H - grpHeaderH
	groupW := (content.W - sp.GroupGap) / 2
	cellW := (groupW - gap) / 2
	cellH := (gridContentH - gap) / 2

	// Center group header + grid as one unit in the content area.
	totalGridH := 2*cellH + gap
	totalUnitH := grpHeaderH + totalGridH
	unitTopY := content.Y + (content.H-totalUnitH)/2
	gridTopY := unitTopY + grpHeaderH

	hdrColor, err := pl.pal.ResolveString("text_secondary")
	if err != nil {
		return err
	}
	for gIdx, group := range sec.Groups {
		gx := content.X + gIdx*(groupW+sp.GroupGap)
		tw, _, err := pl.fonts.Measure(group.Header, sp.ColHeaderFontSize, false)
		if err != nil {
			return err
		}
		tx := gx + (groupW-tw)/2
		if err := pl.fonts.Draw(p.Background, group.Header, tx, unitTopY, sp.ColHeaderFontSize, false, hdrColor.RGBA()); err != nil {
			return err
		}
	}

	// Thin divider centered in the gap between the groups.
	dividerX := content.X + groupW + sp.GroupGap/2
	fill(p.Background, layout.Rect{
		X: dividerX,
		Y: unitTopY,
		W: 1,
		H: gridTopY + totalGridH - unitTopY,
	}, hdrColor)

	for gIdx, group := range sec.Groups {
		gx := content.X + gIdx*(groupW+sp.GroupGap)
		for cIdx, clip := range group.Clips {
			col := cIdx % 2
			row := cIdx / 2
			bbox := layout.Rect{
				X: gx + col*(cellW+gap),
				Y: gridTopY + row*(cellH+gap),
				W: cellW,
				H: cellH,
			}
			if err := pl.planAtom(clip, bbox, p); err != nil {
				return fmt.Errorf("group %d clip %d (%s): %w", gIdx, cIdx, clip.Path, err)
			}
		}
	}
	return nil
}

// sectionOverlays adds section-level badges. Every template but title_card
// constrains them to the content area; a title card has no header split so
// badges roam the full frame.
func (pl *planner) sectionOverlays(sec manifest.Section, p *Plan) error {
	if len(sec.Overlay) == 0 {
		return nil
	}
	region := layout.Rect{W: pl.w, H: pl.h}
	if sec.Template != "title_card" {
		sp := layout.SectionParamsFor(pl.h)
		headerH, err := layout.HeaderHeight(sp, sec.Subtitle, pl.fonts)
		if err != nil {
			return err
		}
		region = layout.ContentRect(pl.w, pl.h, headerH, sp)
	}
	fontSize := overlay.SectionFontSize(pl.h)
	return pl.addBadges(sec.Overlay, fontSize, region, p)
}

// addBadges renders overlay items onto the plan's badge sheet.
func (pl *planner) addBadges(items []manifest.OverlayItem, fontSize int, region layout.Rect, p *Plan) error {
	if p.Overlay == nil {
		p.Overlay = image.NewRGBA(image.Rect(0, 0, pl.w, pl.h))
	}
	for _, it := range items {
		pos, err := overlay.ParsePosition(it.Position)
		if err != nil {
			return err
		}
		colorRef := palette.ParseReference("text")
		if it.Color != "" {
			colorRef = palette.ParseReference(it.Color)
		}
		item := overlay.Item{
			Text:     it.Text,
			Position: pos,
			Color:    colorRef,
			Bold:     it.Weight == "bold",
			Rotation: it.Rotation,
		}
		patch, err := overlay.RenderPatch(pl.fonts, item, fontSize, pl.pal)
		if err != nil {
			return err
		}
		x, y := overlay.Place(pos, patch.Bounds().Dx(), patch.Bounds().Dy(), region)
		overlay.Composite(p.Overlay, patch, x, y)
	}
	return nil
}
