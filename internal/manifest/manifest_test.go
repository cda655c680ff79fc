package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keagan/clipforge/internal/palette"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validManifest = `
video:
  resolution: [1920, 1080]
  fps: 30
  background: "#111111"
paths:
  clips: "/data/clips"
colors:
  good: "#3fb950"
  bad: [220, 50, 47]
sections:
  - template: title_card
    label: intro
    title: "Policy Rollout"
    subtitle: "run 42"
    duration: 3.0
  - template: single_clip
    header: "Crash Recovery"
    clip:
      path: "${clips}/crash.mp4"
      annotation_side: left
      annotations:
        - text: "CRASHED"
          color: bad
          weight: bold
        - text: "g=-15.0"
  - template: grid_2x1
    header: "Before vs After"
    column_headers: ["before", "after"]
    clips:
      - path: "${clips}/a.mp4"
        annotation_side: below
      - path: "${clips}/b.mp4"
        annotation_side: below
  - template: text_slide
    header: "Findings"
    duration: 4
    columns:
      - lines:
          - text: "converges in 2M steps"
            weight: bold
          - text: "no regressions"
        align: left
`

func TestLoadValidManifest(t *testing.T) {
	m, err := Load(writeManifest(t, validManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.Video.Width() != 1920 || m.Video.Height() != 1080 {
		t.Errorf("resolution %dx%d", m.Video.Width(), m.Video.Height())
	}
	bg, err := m.Background()
	if err != nil {
		t.Fatal(err)
	}
	if bg != (palette.Color{R: 17, G: 17, B: 17}) {
		t.Errorf("background %v", bg)
	}

	if len(m.Sections) != 4 {
		t.Fatalf("got %d sections", len(m.Sections))
	}
	if got := m.Sections[1].Clip.Path; got != "/data/clips/crash.mp4" {
		t.Errorf("path variable not resolved: %s", got)
	}
	if got := m.Sections[2].Clips[1].Path; got != "/data/clips/b.mp4" {
		t.Errorf("grid path not resolved: %s", got)
	}

	pal := m.Palette()
	if pal["good"] != (palette.Color{R: 0x3f, G: 0xb9, B: 0x50}) {
		t.Errorf("hex color entry: %v", pal["good"])
	}
	if pal["bad"] != (palette.Color{R: 220, G: 50, B: 47}) {
		t.Errorf("rgb list color entry: %v", pal["bad"])
	}
	if _, ok := pal["accent"]; !ok {
		t.Error("defaults not merged")
	}
}

func TestSectionFilename(t *testing.T) {
	m, err := Load(writeManifest(t, validManifest))
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Sections[0].Filename(0); got != "section-00-intro.mp4" {
		t.Errorf("labeled filename %q", got)
	}
	if got := m.Sections[1].Filename(1); got != "section-01-single_clip.mp4" {
		t.Errorf("fallback filename %q", got)
	}
}

func TestLoadRejects(t *testing.T) {
	const head = `{video: {resolution: [640, 360], fps: 30, background: "#000000"}, sections: `
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			"unknown template",
			head + `[{template: mosaic}]}`,
			"unknown template",
		},
		{
			"grid clip count",
			head + `[{template: grid_2x2, clips: [{path: "a.mp4", annotation_side: left}]}]}`,
			"exactly 4 clips",
		},
		{
			"bad annotation side",
			head + `[{template: single_clip, clip: {path: "a.mp4", annotation_side: diagonal}}]}`,
			"annotation_side",
		},
		{
			"duplicate label",
			head + `[{template: title_card, title: a, duration: 1, label: x}, {template: title_card, title: b, duration: 1, label: x}]}`,
			"duplicate label",
		},
		{
			"title card without duration",
			head + `[{template: title_card, title: a}]}`,
			"duration",
		},
		{
			"too many columns",
			head + `[{template: text_slide, duration: 2, columns: [{lines: [{text: a}]}, {lines: [{text: b}]}, {lines: [{text: c}]}, {lines: [{text: d}]}]}]}`,
			"1 to 3 columns",
		},
		{
			"column headers mismatch",
			head + `[{template: grid_2x1, column_headers: [one], clips: [{path: "a.mp4", annotation_side: left}, {path: "b.mp4", annotation_side: left}]}]}`,
			"column_headers",
		},
		{
			"invalid overlay rotation",
			head + `[{template: title_card, title: a, duration: 1, overlay: [{text: x, position: top-left, rotation: 45}]}]}`,
			"rotation",
		},
		{
			"unknown path variable",
			head + `[{template: single_clip, clip: {path: "${nope}/a.mp4", annotation_side: left}}]}`,
			"path variable",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, c.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Errorf("error %q does not mention %q", err, c.want)
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "ok.mp4")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	body := `
video:
  resolution: [640, 360]
  fps: 30
  background: "#000000"
sections:
  - template: grid_2x1
    clips:
      - path: "` + existing + `"
        annotation_side: left
      - path: "` + filepath.Join(dir, "missing.mp4") + `"
        annotation_side: left
`
	m, err := Load(writeManifest(t, body))
	if err != nil {
		t.Fatal(err)
	}
	err = m.ValidatePaths()
	if err == nil {
		t.Fatal("expected missing file error")
	}
	if !strings.Contains(err.Error(), "missing.mp4") {
		t.Errorf("error does not list the missing file: %v", err)
	}
	if strings.Contains(err.Error(), "ok.mp4") {
		t.Errorf("error lists an existing file: %v", err)
	}
}

func TestPairedValidation(t *testing.T) {
	const head = `{video: {resolution: [640, 360], fps: 30, background: "#000000"}, sections: `
	clip := `{path: "a.mp4", annotation_side: left}`
	four := strings.Repeat(clip+", ", 3) + clip
	body := head + `[{template: paired_2x2, header: h, groups: [{header: left, clips: [` + four + `]}, {header: right, clips: [` + four + `]}]}]}`
	if _, err := Load(writeManifest(t, body)); err != nil {
		t.Fatalf("valid paired section rejected: %v", err)
	}

	bad := head + `[{template: paired_2x2, header: h, groups: [{header: only, clips: [` + four + `]}]}]}`
	if _, err := Load(writeManifest(t, bad)); err == nil {
		t.Fatal("single group accepted")
	}
}

func TestResolveVars(t *testing.T) {
	paths := map[string]string{"renders": "/tmp/out", "raw": "/data"}
	got, err := ResolveVars("${renders}/a.mp4", paths)
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/out/a.mp4" {
		t.Errorf("got %q", got)
	}
	if _, err := ResolveVars("${missing}/a.mp4", paths); err == nil {
		t.Error("unknown variable accepted")
	}
	got, err = ResolveVars("no variables here", paths)
	if err != nil || got != "no variables here" {
		t.Errorf("plain string mangled: %q, %v", got, err)
	}
}
