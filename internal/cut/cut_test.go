package cut

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keagan/clipforge/internal/manifest"
)

func TestOutputArgs(t *testing.T) {
	c := New(zerolog.Nop())
	args := c.outputArgs()
	if args["c:v"] != "libx264" || args["crf"] != "20" || args["c:a"] != "aac" {
		t.Errorf("re-encode args %v", args)
	}

	c.Copy = true
	args = c.outputArgs()
	if args["c"] != "copy" {
		t.Errorf("copy args %v", args)
	}
	if _, ok := args["c:v"]; ok {
		t.Error("copy mode should not set a video codec")
	}
}

func TestBatchSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	m := &manifest.CutsManifest{
		Source: "/nonexistent/source.mp4",
		Cuts: []manifest.Cut{
			{ID: "crash-01", Start: 0, End: 1},
			{ID: "crash-02", Start: 2, End: 3},
		},
	}

	// Pre-create every output; without force the batch never touches
	// ffmpeg, so the bogus source path is never an error.
	for _, cut := range m.Cuts {
		path := filepath.Join(dir, cut.ID+".mp4")
		if err := os.WriteFile(path, []byte("placeholder"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	c := New(zerolog.Nop())
	if err := c.Batch(m, dir, false); err != nil {
		t.Fatalf("Batch with existing outputs: %v", err)
	}

	for _, cut := range m.Cuts {
		data, err := os.ReadFile(filepath.Join(dir, cut.ID+".mp4"))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "placeholder" {
			t.Errorf("%s was overwritten", cut.ID)
		}
	}
}
