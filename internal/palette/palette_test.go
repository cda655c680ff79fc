package palette

import (
	"errors"
	"testing"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#b1134d", Color{177, 19, 77}},
		{"b1134d", Color{177, 19, 77}},
		{"#FFFFFF", Color{255, 255, 255}},
		{"#000000", Color{0, 0, 0}},
	}
	for _, c := range cases {
		got, err := ParseHex(c.in)
		if err != nil {
			t.Fatalf("ParseHex(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseHex(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#fff", "#gggggg", "#12345", "not a color"} {
		if _, err := ParseHex(in); err == nil {
			t.Errorf("ParseHex(%q) should fail", in)
		}
	}
}

func TestResolvePaletteWinsOverLiteral(t *testing.T) {
	p := Palette{"accent": {1, 2, 3}}

	got, err := p.ResolveString("accent")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != (Color{1, 2, 3}) {
		t.Errorf("got %v, want palette entry", got)
	}

	// A name that happens to be valid bare hex still prefers the palette.
	p["aabbcc"] = Color{9, 9, 9}
	got, err = p.ResolveString("aabbcc")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != (Color{9, 9, 9}) {
		t.Errorf("got %v, want palette entry to shadow hex reading", got)
	}
}

func TestResolveHexFallback(t *testing.T) {
	p := Default()

	got, err := p.ResolveString("#102030")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != (Color{16, 32, 48}) {
		t.Errorf("got %v", got)
	}

	// Bare hex without '#' also resolves when not a palette key.
	got, err = p.ResolveString("102030")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != (Color{16, 32, 48}) {
		t.Errorf("got %v", got)
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := Default().ResolveString("chartreuse")
	if err == nil {
		t.Fatal("expected error")
	}
	var uc *UnknownColorError
	if !errors.As(err, &uc) {
		t.Fatalf("expected UnknownColorError, got %T", err)
	}
	if uc.Name != "chartreuse" {
		t.Errorf("error carries name %q", uc.Name)
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	merged := base.Merge(Palette{"text": {0, 0, 0}, "bg": {10, 10, 10}})

	if merged["text"] != (Color{0, 0, 0}) {
		t.Error("override did not take")
	}
	if merged["bg"] != (Color{10, 10, 10}) {
		t.Error("new key missing")
	}
	if merged["accent"] != base["accent"] {
		t.Error("base key lost")
	}
	if base["text"] == (Color{0, 0, 0}) {
		t.Error("merge mutated base")
	}
}

func TestOffsetClamps(t *testing.T) {
	c := Color{250, 128, 2}
	up := c.Offset(14)
	if up != (Color{255, 142, 16}) {
		t.Errorf("got %v", up)
	}
	down := c.Offset(-14)
	if down != (Color{236, 114, 0}) {
		t.Errorf("got %v", down)
	}
}

func TestMean(t *testing.T) {
	got := Mean(Color{177, 19, 77}, Color{17, 17, 17})
	want := Color{97, 18, 47}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
