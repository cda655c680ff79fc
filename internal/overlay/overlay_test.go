package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/keagan/clipforge/internal/layout"
	"github.com/keagan/clipforge/internal/palette"
	"github.com/keagan/clipforge/internal/text"
)

func TestParsePosition(t *testing.T) {
	valid := map[string]Position{
		"top-left":      {Top, Left},
		"top-center":    {Top, Center},
		"top-right":     {Top, Right},
		"middle-left":   {Middle, Left},
		"middle-center": {Middle, Center},
		"middle-right":  {Middle, Right},
		"bottom-left":   {Bottom, Left},
		"bottom-center": {Bottom, Center},
		"bottom-right":  {Bottom, Right},
	}
	for in, want := range valid {
		got, err := ParsePosition(in)
		if err != nil {
			t.Fatalf("ParsePosition(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParsePosition(%q) = %+v", in, got)
		}
	}
	for _, in := range []string{"", "center", "top", "upper-left", "top-middle"} {
		if _, err := ParsePosition(in); err == nil {
			t.Errorf("ParsePosition(%q) should fail", in)
		}
	}
}

func TestPlaceCorners(t *testing.T) {
	region := layout.Rect{X: 100, Y: 50, W: 800, H: 400}
	mx := int(800 * MarginFrac)
	my := int(400 * MarginFrac)

	x, y := Place(Position{Top, Left}, 60, 20, region)
	if x != 100+mx || y != 50+my {
		t.Errorf("top-left at (%d,%d)", x, y)
	}

	x, y = Place(Position{Bottom, Right}, 60, 20, region)
	if x != 100+800-mx-60 || y != 50+400-my-20 {
		t.Errorf("bottom-right at (%d,%d)", x, y)
	}

	x, y = Place(Position{Middle, Center}, 60, 20, region)
	if x != 100+(800-60)/2 || y != 50+(400-20)/2 {
		t.Errorf("middle-center at (%d,%d)", x, y)
	}
}

func TestRenderPatch(t *testing.T) {
	src, err := text.NewSource()
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	pal := palette.Default()

	item := Item{Text: "g=-15.0", Position: Position{Top, Left}, Color: palette.ParseReference("text")}
	patch, err := RenderPatch(src, item, 20, pal)
	if err != nil {
		t.Fatalf("RenderPatch: %v", err)
	}

	b := patch.Bounds()
	if b.Dx() <= 2*PaddingX || b.Dy() <= 2*PaddingY {
		t.Errorf("patch too small: %v", b)
	}

	// Center of the patch carries the translucent background.
	c := patch.RGBAAt(b.Dx()/2, b.Dy()/2)
	if c.A == 0 {
		t.Error("patch center fully transparent")
	}
	// Corners outside the rounded radius stay transparent.
	if corner := patch.RGBAAt(0, 0); corner.A != 0 {
		t.Errorf("corner not rounded: alpha %d", corner.A)
	}
}

func TestRenderPatchRotation(t *testing.T) {
	src, err := text.NewSource()
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	pal := palette.Default()

	flat, err := RenderPatch(src, Item{Text: "sideways", Color: palette.ParseReference("text")}, 20, pal)
	if err != nil {
		t.Fatal(err)
	}
	turned, err := RenderPatch(src, Item{Text: "sideways", Color: palette.ParseReference("text"), Rotation: 90}, 20, pal)
	if err != nil {
		t.Fatal(err)
	}
	if turned.Bounds().Dx() != flat.Bounds().Dy() || turned.Bounds().Dy() != flat.Bounds().Dx() {
		t.Errorf("rotation did not swap dims: %v vs %v", flat.Bounds(), turned.Bounds())
	}
}

func TestCompositeClampsToFrame(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	patch := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			patch.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	// Request a position past the right edge; the patch must stay inside.
	Composite(frame, patch, 90, 95)
	if got := frame.RGBAAt(99, 99); got.R != 255 {
		t.Error("patch not clamped into frame")
	}
}

func TestFontSizeFloors(t *testing.T) {
	if got := ClipFontSize(900); got != 20 {
		t.Errorf("reference clip font = %d", got)
	}
	if got := ClipFontSize(50); got != 10 {
		t.Errorf("clip font floor = %d", got)
	}
	if got := SectionFontSize(1080); got != 24 {
		t.Errorf("reference section font = %d", got)
	}
	if got := SectionFontSize(100); got != 12 {
		t.Errorf("section font floor = %d", got)
	}
}
