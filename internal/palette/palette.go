package palette

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is an opaque 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// RGBA converts to the image/color representation with full alpha.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex renders the color as a #rrggbb literal.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Offset shifts each channel by d, clamping to [0, 255].
func (c Color) Offset(d int) Color {
	return Color{
		R: clampChannel(int(c.R) + d),
		G: clampChannel(int(c.G) + d),
		B: clampChannel(int(c.B) + d),
	}
}

// Mean returns the per-channel average of two colors.
func Mean(a, b Color) Color {
	return Color{
		R: uint8((int(a.R) + int(b.R)) / 2),
		G: uint8((int(a.G) + int(b.G)) / 2),
		B: uint8((int(a.B) + int(b.B)) / 2),
	}
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ParseHex parses a 6-digit hex color literal, with or without a leading '#'.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	var c Color
	if _, err := fmt.Sscanf(h, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	return c, nil
}

// Palette maps manifest color names to concrete colors.
type Palette map[string]Color

// Default returns the built-in palette. Manifest palettes merge over it.
func Default() Palette {
	return Palette{
		"text":           {R: 213, G: 213, B: 211},
		"text_secondary": {R: 136, G: 136, B: 136},
		"accent":         {R: 177, G: 19, B: 77},
	}
}

// Merge layers overrides on top of p without mutating either.
func (p Palette) Merge(overrides Palette) Palette {
	out := make(Palette, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// RefKind discriminates the two reference forms.
type RefKind uint8

const (
	RefNamed RefKind = iota
	RefHex
)

// Reference is a color as written in a manifest: either a palette name or an
// explicit hex literal.
type Reference struct {
	Kind  RefKind
	Name  string
	Value Color
}

// ParseReference classifies a manifest color string. A '#'-prefixed literal
// is hex; everything else is treated as a name (bare hex still resolves via
// the fallback in Resolve, so palette keys always win over literals).
func ParseReference(s string) Reference {
	if strings.HasPrefix(s, "#") {
		if c, err := ParseHex(s); err == nil {
			return Reference{Kind: RefHex, Value: c}
		}
	}
	return Reference{Kind: RefNamed, Name: s}
}

func (r Reference) String() string {
	if r.Kind == RefHex {
		return r.Value.Hex()
	}
	return r.Name
}

// Resolve maps the reference to a concrete color against a palette.
func (r Reference) Resolve(p Palette) (Color, error) {
	if r.Kind == RefHex {
		return r.Value, nil
	}
	if c, ok := p[r.Name]; ok {
		return c, nil
	}
	if c, err := ParseHex(r.Name); err == nil {
		return c, nil
	}
	return Color{}, &UnknownColorError{Name: r.Name}
}

// ResolveString is the one-shot form used by manifest loaders.
func (p Palette) ResolveString(s string) (Color, error) {
	return ParseReference(s).Resolve(p)
}

// UnknownColorError reports a name with no palette entry and no hex reading.
type UnknownColorError struct {
	Name string
}

func (e *UnknownColorError) Error() string {
	return fmt.Sprintf("unknown color %q: not a palette name or hex literal", e.Name)
}
