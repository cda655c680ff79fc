package text

import (
	"image"
	"image/color"
	"testing"
)

func TestMeasureGrowsWithSize(t *testing.T) {
	src, err := NewSource()
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	w1, h1, err := src.Measure("annotation", 12, false)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	w2, h2, err := src.Measure("annotation", 24, false)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}

	if w1 <= 0 || h1 <= 0 {
		t.Fatalf("degenerate extent %dx%d", w1, h1)
	}
	if w2 <= w1 {
		t.Errorf("width did not grow with size: %d -> %d", w1, w2)
	}
	if h2 <= h1 {
		t.Errorf("height did not grow with size: %d -> %d", h1, h2)
	}
}

func TestMeasureLongerStringIsWider(t *testing.T) {
	src, err := NewSource()
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	short, _, err := src.Measure("ok", 22, false)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	long, _, err := src.Measure("a much longer label", 22, false)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if long <= short {
		t.Errorf("longer string not wider: %d vs %d", short, long)
	}
}

func TestMeasureEmptyString(t *testing.T) {
	src, err := NewSource()
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	w, h, err := src.Measure("", 22, false)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if w != 0 {
		t.Errorf("empty string width %d", w)
	}
	if h <= 0 {
		t.Errorf("line height %d should stay positive", h)
	}
}

func TestDrawTouchesPixels(t *testing.T) {
	src, err := NewSource()
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 200, 60))
	if err := src.Draw(img, "hello", 4, 4, 30, true, color.RGBA{255, 255, 255, 255}); err != nil {
		t.Fatalf("draw: %v", err)
	}

	touched := false
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			touched = true
			break
		}
	}
	if !touched {
		t.Error("drawing left the image blank")
	}
}
