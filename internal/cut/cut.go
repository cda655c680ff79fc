// Package cut extracts segments from a source video, singly or in batch
// from a cuts manifest. Seeking happens on the input side so both stream
// copy and re-encode start from the right keyframe region.
package cut

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	ffmpeg_go "github.com/u2takey/ffmpeg-go"

	"github.com/keagan/clipforge/internal/manifest"
	"github.com/keagan/clipforge/pkg/util"
)

// Cutter performs ffmpeg cut operations.
type Cutter struct {
	logger zerolog.Logger
	// Copy selects stream copy: fast and keyframe-aligned. Re-encoding
	// (the default) is slower but frame-accurate.
	Copy bool
}

// New creates a cutter.
func New(logger zerolog.Logger) *Cutter {
	return &Cutter{logger: logger.With().Str("component", "cut").Logger()}
}

func (c *Cutter) outputArgs() ffmpeg_go.KwArgs {
	if c.Copy {
		return ffmpeg_go.KwArgs{"c": "copy"}
	}
	return ffmpeg_go.KwArgs{
		"c:v":     "libx264",
		"crf":     "20",
		"pix_fmt": "yuv420p",
		"c:a":     "aac",
	}
}

// Single cuts one segment [start, end) from the source.
func (c *Cutter) Single(source string, start, end float64, output string) error {
	if err := util.EnsureDir(filepath.Dir(output)); err != nil {
		return err
	}

	c.logger.Info().
		Str("source", source).
		Float64("start", start).
		Float64("end", end).
		Bool("copy", c.Copy).
		Str("output", output).
		Msg("cutting segment")

	err := ffmpeg_go.Input(source, ffmpeg_go.KwArgs{
		"ss": fmt.Sprintf("%.3f", start),
		"to": fmt.Sprintf("%.3f", end),
	}).
		Output(output, c.outputArgs()).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	if err != nil {
		return errors.Wrapf(err, "cutting %s [%.3f-%.3f]", source, start, end)
	}
	return nil
}

// Batch cuts every segment in a cuts manifest into outputDir, one file per
// cut id. Existing files are skipped unless force is set.
func (c *Cutter) Batch(m *manifest.CutsManifest, outputDir string, force bool) error {
	if err := util.EnsureDir(outputDir); err != nil {
		return err
	}

	for _, cut := range m.Cuts {
		outPath := filepath.Join(outputDir, cut.ID+".mp4")
		if !force {
			if _, err := os.Stat(outPath); err == nil {
				c.logger.Info().Str("output", outPath).Msg("exists, skipping (use --force to overwrite)")
				continue
			}
		}
		if err := c.Single(m.Source, float64(cut.Start), float64(cut.End), outPath); err != nil {
			return errors.Wrapf(err, "cut %q", cut.ID)
		}
	}
	return nil
}
