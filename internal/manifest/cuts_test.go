package manifest

import (
	"math"
	"strings"
	"testing"
)

const validCuts = `
source: "${raw}/session.mp4"
paths:
  raw: "/data/raw"
cuts:
  - id: crash-01
    start: 12.5
    end: 19.0
  - id: recovery-01
    start: "1:05"
    end: "01:12.250"
`

func TestLoadCuts(t *testing.T) {
	m, err := LoadCuts(writeManifest(t, validCuts))
	if err != nil {
		t.Fatalf("LoadCuts: %v", err)
	}
	if m.Source != "/data/raw/session.mp4" {
		t.Errorf("source not resolved: %s", m.Source)
	}
	if len(m.Cuts) != 2 {
		t.Fatalf("got %d cuts", len(m.Cuts))
	}
	if m.Cuts[0].Start != 12.5 || m.Cuts[0].End != 19.0 {
		t.Errorf("numeric cut parsed as %v..%v", m.Cuts[0].Start, m.Cuts[0].End)
	}
	if m.Cuts[1].Start != 65 {
		t.Errorf("MM:SS timestamp parsed as %v", m.Cuts[1].Start)
	}
	if math.Abs(float64(m.Cuts[1].End)-72.25) > 1e-9 {
		t.Errorf("fractional timestamp parsed as %v", m.Cuts[1].End)
	}
}

func TestLoadCutsRejects(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			"missing source",
			`{cuts: [{id: a, start: 0, end: 1}]}`,
			"source",
		},
		{
			"no cuts",
			`{source: "v.mp4"}`,
			"cuts",
		},
		{
			"missing id",
			`{source: "v.mp4", cuts: [{start: 0, end: 1}]}`,
			"id",
		},
		{
			"negative start",
			`{source: "v.mp4", cuts: [{id: a, start: -1, end: 1}]}`,
			">= 0",
		},
		{
			"start after end",
			`{source: "v.mp4", cuts: [{id: a, start: 5, end: 2}]}`,
			"must be <",
		},
		{
			"duplicate id",
			`{source: "v.mp4", cuts: [{id: a, start: 0, end: 1}, {id: a, start: 2, end: 3}]}`,
			"duplicate cut id",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := LoadCuts(writeManifest(t, c.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Errorf("error %q does not mention %q", err, c.want)
			}
		})
	}
}
