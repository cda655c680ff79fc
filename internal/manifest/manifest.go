// Package manifest loads and validates the three YAML manifest kinds:
// composition (spatial layout), assembly (temporal ordering) and cuts
// (segment extraction). All three share ${var} path resolution.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/keagan/clipforge/internal/palette"
)

// Template names accepted in a composition manifest.
var ValidTemplates = map[string]bool{
	"single_clip": true,
	"title_card":  true,
	"text_slide":  true,
	"grid_2x1":    true,
	"grid_2x2":    true,
	"grid_3x1":    true,
	"grid_2x4":    true,
	"grid_3x4":    true,
	"paired_2x2":  true,
}

// GridClipCounts maps grid templates to their exact clip count.
var GridClipCounts = map[string]int{
	"grid_2x1": 2,
	"grid_2x2": 4,
	"grid_3x1": 3,
	"grid_2x4": 8,
	"grid_3x4": 12,
}

// GridColCounts maps grid templates to their column count.
var GridColCounts = map[string]int{
	"grid_2x1": 2,
	"grid_2x2": 2,
	"grid_3x1": 3,
	"grid_2x4": 2,
	"grid_3x4": 3,
}

// GridRowCounts maps grid templates to their row count.
var GridRowCounts = map[string]int{
	"grid_2x1": 1,
	"grid_2x2": 2,
	"grid_3x1": 1,
	"grid_2x4": 4,
	"grid_3x4": 4,
}

var validWeights = map[string]bool{"": true, "normal": true, "bold": true}
var validSides = map[string]bool{"left": true, "right": true, "above": true, "below": true}
var validAligns = map[string]bool{"": true, "left": true, "center": true}
var validPositions = map[string]bool{
	"top-left": true, "top-center": true, "top-right": true,
	"middle-left": true, "middle-center": true, "middle-right": true,
	"bottom-left": true, "bottom-center": true, "bottom-right": true,
}
var validRotations = map[int]bool{0: true, 90: true, -90: true}

// ColorSpec accepts either a "#rrggbb" scalar or an [r, g, b] sequence.
type ColorSpec struct {
	Color palette.Color
}

func (c *ColorSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		col, err := palette.ParseHex(s)
		if err != nil {
			return err
		}
		c.Color = col
		return nil
	case yaml.SequenceNode:
		var rgb []int
		if err := value.Decode(&rgb); err != nil {
			return err
		}
		if len(rgb) != 3 {
			return fmt.Errorf("color list needs 3 components, got %d", len(rgb))
		}
		c.Color = palette.Color{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2])}
		return nil
	}
	return fmt.Errorf("color must be a hex string or [r, g, b] list")
}

// Video is the output format block of a composition manifest.
type Video struct {
	Resolution []int  `yaml:"resolution"`
	FPS        int    `yaml:"fps"`
	Background string `yaml:"background"`
}

func (v Video) Width() int  { return v.Resolution[0] }
func (v Video) Height() int { return v.Resolution[1] }

// Annotation is one styled text line, used by bands and slide columns.
type Annotation struct {
	Text   string `yaml:"text"`
	Color  string `yaml:"color"`
	Weight string `yaml:"weight"`
}

// Bold reports whether the line renders in the bold face.
func (a Annotation) Bold() bool { return a.Weight == "bold" }

// ColorRef resolves the color field, defaulting per-context colors.
func (a Annotation) ColorRef(fallback string) palette.Reference {
	if a.Color == "" {
		return palette.ParseReference(fallback)
	}
	return palette.ParseReference(a.Color)
}

// OverlayItem is one overlay badge in a manifest.
type OverlayItem struct {
	Text     string `yaml:"text"`
	Position string `yaml:"position"`
	Color    string `yaml:"color"`
	Weight   string `yaml:"weight"`
	Rotation int    `yaml:"rotation"`
}

// Clip is one video cell with its annotation band.
type Clip struct {
	Path           string        `yaml:"path"`
	AnnotationSide string        `yaml:"annotation_side"`
	Annotations    []Annotation  `yaml:"annotations"`
	Overlay        []OverlayItem `yaml:"overlay"`
}

// Group is one half of a paired_2x2 section.
type Group struct {
	Header string `yaml:"header"`
	Clips  []Clip `yaml:"clips"`
}

// Column is one column of a text_slide section.
type Column struct {
	Lines []Annotation `yaml:"lines"`
	Align string       `yaml:"align"`
}

// Section is one renderable unit of a composition manifest. Which fields
// are required depends on the template.
type Section struct {
	Template      string        `yaml:"template"`
	Label         string        `yaml:"label"`
	Header        string        `yaml:"header"`
	Subtitle      string        `yaml:"subtitle"`
	Title         string        `yaml:"title"`
	Duration      float64       `yaml:"duration"`
	Clip          *Clip         `yaml:"clip"`
	Clips         []Clip        `yaml:"clips"`
	Groups        []Group       `yaml:"groups"`
	Columns       []Column      `yaml:"columns"`
	ColumnHeaders []string      `yaml:"column_headers"`
	Overlay       []OverlayItem `yaml:"overlay"`
}

// DisplayName is the header or title used in progress output.
func (s Section) DisplayName() string {
	if s.Header != "" {
		return strings.ReplaceAll(s.Header, "\n", " ")
	}
	return strings.ReplaceAll(s.Title, "\n", " ")
}

// Filename names a rendered section file: the label when present,
// otherwise the template.
func (s Section) Filename(index int) string {
	name := s.Label
	if name == "" {
		name = s.Template
	}
	return fmt.Sprintf("section-%02d-%s.mp4", index, name)
}

// Manifest is a parsed and validated composition manifest.
type Manifest struct {
	Video    Video                `yaml:"video"`
	Paths    map[string]string    `yaml:"paths"`
	Colors   map[string]ColorSpec `yaml:"colors"`
	Sections []Section            `yaml:"sections"`
}

// Background is the parsed frame background color.
func (m *Manifest) Background() (palette.Color, error) {
	return palette.ParseHex(m.Video.Background)
}

// Palette merges the manifest colors over the built-in defaults.
func (m *Manifest) Palette() palette.Palette {
	over := make(palette.Palette, len(m.Colors))
	for k, v := range m.Colors {
		over[k] = v.Color
	}
	return palette.Default().Merge(over)
}

// Load reads, resolves and validates a composition manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if len(m.Video.Resolution) != 2 || m.Video.Resolution[0] <= 0 || m.Video.Resolution[1] <= 0 {
		return nil, fmt.Errorf("video.resolution must be [width, height]")
	}
	if m.Video.FPS <= 0 {
		return nil, fmt.Errorf("video.fps must be positive")
	}
	if _, err := m.Background(); err != nil {
		return nil, fmt.Errorf("video.background: %w", err)
	}
	if err := m.resolvePaths(); err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// resolvePaths substitutes ${var} in every path-bearing section field.
func (m *Manifest) resolvePaths() error {
	resolve := func(s *string) error {
		out, err := ResolveVars(*s, m.Paths)
		if err != nil {
			return err
		}
		*s = out
		return nil
	}
	for i := range m.Sections {
		sec := &m.Sections[i]
		if sec.Clip != nil {
			if err := resolve(&sec.Clip.Path); err != nil {
				return fmt.Errorf("section %d: %w", i, err)
			}
		}
		for j := range sec.Clips {
			if err := resolve(&sec.Clips[j].Path); err != nil {
				return fmt.Errorf("section %d clip %d: %w", i, j, err)
			}
		}
		for g := range sec.Groups {
			for j := range sec.Groups[g].Clips {
				if err := resolve(&sec.Groups[g].Clips[j].Path); err != nil {
					return fmt.Errorf("section %d group %d clip %d: %w", i, g, j, err)
				}
			}
		}
	}
	return nil
}

func (m *Manifest) validate() error {
	labels := make(map[string]int)
	for i, sec := range m.Sections {
		if !ValidTemplates[sec.Template] {
			return fmt.Errorf("section %d: unknown template %q", i, sec.Template)
		}
		if sec.Label != "" {
			if prev, dup := labels[sec.Label]; dup {
				return fmt.Errorf("section %d: duplicate label %q (also used by section %d)", i, sec.Label, prev)
			}
			labels[sec.Label] = i
		}
		if err := validateSection(sec, i); err != nil {
			return err
		}
	}
	return nil
}

func validateSection(sec Section, i int) error {
	switch {
	case sec.Template == "single_clip":
		if sec.Clip == nil {
			return fmt.Errorf("section %d (single_clip): missing 'clip'", i)
		}
		if err := validateClip(*sec.Clip, i, 0, sec.Template); err != nil {
			return err
		}
	case sec.Template == "title_card":
		if sec.Title == "" {
			return fmt.Errorf("section %d (title_card): missing 'title'", i)
		}
		if sec.Duration <= 0 {
			return fmt.Errorf("section %d (title_card): duration must be positive", i)
		}
	case sec.Template == "text_slide":
		if err := validateTextSlide(sec, i); err != nil {
			return err
		}
	case sec.Template == "paired_2x2":
		if err := validatePaired(sec, i); err != nil {
			return err
		}
	default:
		if err := validateGrid(sec, i); err != nil {
			return err
		}
	}
	return validateOverlayList(sec.Overlay, fmt.Sprintf("section %d (%s)", i, sec.Template))
}

func validateClip(c Clip, secIdx, clipIdx int, template string) error {
	prefix := fmt.Sprintf("section %d (%s), clip %d", secIdx, template, clipIdx)
	if c.Path == "" {
		return fmt.Errorf("%s: missing 'path'", prefix)
	}
	if c.AnnotationSide == "" {
		return fmt.Errorf("%s: missing 'annotation_side'", prefix)
	}
	if !validSides[c.AnnotationSide] {
		return fmt.Errorf("%s: invalid annotation_side %q", prefix, c.AnnotationSide)
	}
	for j, a := range c.Annotations {
		if a.Text == "" {
			return fmt.Errorf("%s: annotation %d missing 'text'", prefix, j)
		}
		if !validWeights[a.Weight] {
			return fmt.Errorf("%s: annotation %d invalid weight %q", prefix, j, a.Weight)
		}
	}
	return validateOverlayList(c.Overlay, prefix)
}

func validateOverlayList(items []OverlayItem, prefix string) error {
	for j, item := range items {
		if item.Text == "" {
			return fmt.Errorf("%s, overlay %d: missing 'text'", prefix, j)
		}
		if item.Position == "" {
			return fmt.Errorf("%s, overlay %d: missing 'position'", prefix, j)
		}
		if !validPositions[item.Position] {
			return fmt.Errorf("%s, overlay %d: invalid position %q", prefix, j, item.Position)
		}
		if !validWeights[item.Weight] {
			return fmt.Errorf("%s, overlay %d: invalid weight %q", prefix, j, item.Weight)
		}
		if !validRotations[item.Rotation] {
			return fmt.Errorf("%s, overlay %d: invalid rotation %d", prefix, j, item.Rotation)
		}
	}
	return nil
}

func validateTextSlide(sec Section, i int) error {
	if sec.Duration <= 0 {
		return fmt.Errorf("section %d (text_slide): duration must be positive", i)
	}
	if n := len(sec.Columns); n < 1 || n > 3 {
		return fmt.Errorf("section %d (text_slide): requires 1 to 3 columns, got %d", i, n)
	}
	for c, col := range sec.Columns {
		prefix := fmt.Sprintf("section %d (text_slide), column %d", i, c)
		if len(col.Lines) == 0 {
			return fmt.Errorf("%s: missing 'lines'", prefix)
		}
		for l, line := range col.Lines {
			if line.Text == "" {
				return fmt.Errorf("%s, line %d: missing 'text'", prefix, l)
			}
			if !validWeights[line.Weight] {
				return fmt.Errorf("%s, line %d: invalid weight %q", prefix, l, line.Weight)
			}
		}
		if !validAligns[col.Align] {
			return fmt.Errorf("%s: invalid align %q", prefix, col.Align)
		}
	}
	return nil
}

func validateGrid(sec Section, i int) error {
	want := GridClipCounts[sec.Template]
	if len(sec.Clips) != want {
		return fmt.Errorf("section %d (%s): requires exactly %d clips, got %d",
			i, sec.Template, want, len(sec.Clips))
	}
	for j, c := range sec.Clips {
		if err := validateClip(c, i, j, sec.Template); err != nil {
			return err
		}
	}
	if sec.ColumnHeaders != nil {
		cols := GridColCounts[sec.Template]
		if len(sec.ColumnHeaders) != cols {
			return fmt.Errorf("section %d (%s): column_headers requires exactly %d items, got %d",
				i, sec.Template, cols, len(sec.ColumnHeaders))
		}
	}
	return nil
}

func validatePaired(sec Section, i int) error {
	if len(sec.Groups) != 2 {
		return fmt.Errorf("section %d (paired_2x2): requires exactly 2 groups, got %d", i, len(sec.Groups))
	}
	for g, group := range sec.Groups {
		prefix := fmt.Sprintf("section %d (paired_2x2), group %d", i, g)
		if group.Header == "" {
			return fmt.Errorf("%s: missing 'header'", prefix)
		}
		if len(group.Clips) != 4 {
			return fmt.Errorf("%s: requires exactly 4 clips, got %d", prefix, len(group.Clips))
		}
		for c, clip := range group.Clips {
			if err := validateClip(clip, i, c, fmt.Sprintf("paired_2x2 group %d", g)); err != nil {
				return err
			}
		}
	}
	return nil
}

// mediaExtensions are the path suffixes ValidatePaths checks on disk.
var mediaExtensions = map[string]bool{
	".mp4": true, ".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
}

// ValidatePaths checks every referenced media file exists, reporting all
// missing paths at once.
func (m *Manifest) ValidatePaths() error {
	var missing []string
	check := func(p string) {
		if p == "" {
			return
		}
		if !mediaExtensions[strings.ToLower(filepath.Ext(p))] {
			return
		}
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	for _, sec := range m.Sections {
		if sec.Clip != nil {
			check(sec.Clip.Path)
		}
		for _, c := range sec.Clips {
			check(c.Path)
		}
		for _, g := range sec.Groups {
			for _, c := range g.Clips {
				check(c.Path)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %d file(s):\n  %s", len(missing), strings.Join(missing, "\n  "))
	}
	return nil
}
