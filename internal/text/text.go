// Package text owns font loading, string measurement and glyph drawing.
// Layout code depends only on the Measurer interface so geometry stays
// testable without real font files.
package text

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Measurer reports the pixel extent of a single line of text.
type Measurer interface {
	Measure(s string, size int, bold bool) (w, h int, err error)
}

// Candidate font files checked before falling back to the embedded Go fonts.
var (
	regularCandidates = []string{
		"/usr/share/fonts/truetype/inter/Inter-Regular.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
	}
	boldCandidates = []string{
		"/usr/share/fonts/truetype/inter/Inter-Bold.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
		"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	}
)

type faceKey struct {
	size int
	bold bool
}

// Source loads a regular/bold font pair once and hands out cached faces.
// Faces are not safe for concurrent use, so every measure and draw goes
// through the source's lock.
type Source struct {
	mu      sync.Mutex
	regular *sfnt.Font
	bold    *sfnt.Font
	faces   map[faceKey]font.Face
}

// NewSource loads fonts from well-known system paths, falling back to the
// embedded Go fonts so rendering never depends on host font installs.
func NewSource() (*Source, error) {
	reg, err := loadFirst(regularCandidates, goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("loading regular font: %w", err)
	}
	bld, err := loadFirst(boldCandidates, gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("loading bold font: %w", err)
	}
	return &Source{
		regular: reg,
		bold:    bld,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

func loadFirst(paths []string, embedded []byte) (*sfnt.Font, error) {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if f, err := opentype.Parse(data); err == nil {
			return f, nil
		}
	}
	return opentype.Parse(embedded)
}

func (s *Source) face(size int, bold bool) (font.Face, error) {
	key := faceKey{size: size, bold: bold}
	if f, ok := s.faces[key]; ok {
		return f, nil
	}
	src := s.regular
	if bold {
		src = s.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %dpx face: %w", size, err)
	}
	s.faces[key] = f
	return f, nil
}

// Measure returns the pixel width and line height of s at the given size.
// Width is the tight glyph extent; height is ascent plus descent so stacked
// lines keep a stable rhythm regardless of which glyphs appear.
func (s *Source) Measure(str string, size int, bold bool) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	face, err := s.face(size, bold)
	if err != nil {
		return 0, 0, err
	}
	bounds, adv := font.BoundString(face, str)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	if w == 0 {
		w = adv.Ceil()
	}
	m := face.Metrics()
	h := (m.Ascent + m.Descent).Ceil()
	return w, h, nil
}

// Draw renders a single line with its top-left corner at (x, y).
func (s *Source) Draw(dst *image.RGBA, str string, x, y, size int, bold bool, col color.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	face, err := s.face(size, bold)
	if err != nil {
		return err
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(str)
	return nil
}
