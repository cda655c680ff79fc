package render

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/keagan/clipforge/internal/ffmpeg"
	"github.com/keagan/clipforge/internal/manifest"
	"github.com/keagan/clipforge/internal/text"
	"github.com/keagan/clipforge/pkg/util"
)

// Renderer turns manifest sections into mp4 files.
type Renderer struct {
	exec   *ffmpeg.Executor
	fonts  *text.Source
	logger zerolog.Logger
}

// New creates a renderer backed by an ffmpeg executor and a font source.
func New(exec *ffmpeg.Executor, fonts *text.Source, logger zerolog.Logger) *Renderer {
	return &Renderer{
		exec:   exec,
		fonts:  fonts,
		logger: logger.With().Str("component", "render").Logger(),
	}
}

// sectionClips collects every clip a section references.
func sectionClips(sec manifest.Section) []manifest.Clip {
	var clips []manifest.Clip
	if sec.Clip != nil {
		clips = append(clips, *sec.Clip)
	}
	clips = append(clips, sec.Clips...)
	for _, g := range sec.Groups {
		clips = append(clips, g.Clips...)
	}
	return clips
}

// probeSources probes every distinct clip path concurrently.
func (r *Renderer) probeSources(ctx context.Context, clips []manifest.Clip) (map[string]SourceInfo, error) {
	paths := make([]string, 0, len(clips))
	seen := make(map[string]bool)
	for _, c := range clips {
		if !seen[c.Path] {
			seen[c.Path] = true
			paths = append(paths, c.Path)
		}
	}

	sources := make(map[string]SourceInfo, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	results := make([]SourceInfo, len(paths))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			info, err := r.exec.ProbeVideo(ctx, p)
			if err != nil {
				return fmt.Errorf("probing %s: %w", p, err)
			}
			results[i] = SourceInfo{
				Width:    info.Width,
				Height:   info.Height,
				Duration: info.Duration.Seconds(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, p := range paths {
		sources[p] = results[i]
	}
	return sources, nil
}

// RenderSection renders one section of the manifest to an mp4 file. A
// positive previewDuration caps the section length for fast iteration.
func (r *Renderer) RenderSection(ctx context.Context, m *manifest.Manifest, index int, output string, previewDuration float64) error {
	if index < 0 || index >= len(m.Sections) {
		return fmt.Errorf("section index %d out of range (0-%d)", index, len(m.Sections)-1)
	}
	sec := m.Sections[index]

	sources, err := r.probeSources(ctx, sectionClips(sec))
	if err != nil {
		return err
	}
	pl, err := newPlanner(m, r.fonts, sources)
	if err != nil {
		return err
	}
	plan, err := pl.plan(sec)
	if err != nil {
		return fmt.Errorf("section %d (%s): %w", index, sec.Template, err)
	}

	duration := plan.Duration
	if previewDuration > 0 && previewDuration < duration {
		duration = previewDuration
	}

	if err := util.EnsureDir(filepath.Dir(output)); err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "clipforge-render-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	bgPath := filepath.Join(tmpDir, "background.png")
	if err := writePNG(bgPath, plan.Background); err != nil {
		return err
	}

	r.logger.Info().
		Int("section", index).
		Str("template", sec.Template).
		Str("name", sec.DisplayName()).
		Float64("duration", duration).
		Int("clips", len(plan.Clips)).
		Msg("rendering section")

	if len(plan.Clips) == 0 {
		return r.exec.RenderStill(ctx, bgPath, duration, plan.FPS, output)
	}

	var overlayPath string
	if plan.Overlay != nil {
		overlayPath = filepath.Join(tmpDir, "overlay.png")
		if err := writePNG(overlayPath, plan.Overlay); err != nil {
			return err
		}
	}

	job := buildGraphJob(plan, bgPath, overlayPath, output, duration)
	return r.exec.RenderGraph(ctx, job, func(p *ffmpeg.Progress) {
		r.logger.Debug().
			Int("frame", p.Frame).
			Str("time", p.Time).
			Str("speed", p.Speed).
			Msg("render progress")
	})
}

// buildGraphJob assembles the full filter graph for a section with video
// clips: the looped background still, each clip scaled into its slot (with
// its last frame cloned out to the section duration when it runs short),
// and the badge sheet on top.
func buildGraphJob(plan *Plan, bgPath, overlayPath, output string, duration float64) ffmpeg.GraphJob {
	inputs := []ffmpeg.Input{{
		Path:    bgPath,
		PreArgs: []string{"-loop", "1", "-framerate", fmt.Sprintf("%d", plan.FPS)},
	}}

	var chains []string
	for i, slot := range plan.Clips {
		inputs = append(inputs, ffmpeg.Input{Path: slot.Path})
		chain := fmt.Sprintf("[%d:v]scale=%d:%d:flags=lanczos,setsar=1", i+1, slot.Rect.W, slot.Rect.H)
		if short := duration - slot.Duration; short > 0.001 {
			chain += fmt.Sprintf(",tpad=stop_mode=clone:stop_duration=%.3f", short)
		}
		chain += fmt.Sprintf("[c%d]", i+1)
		chains = append(chains, chain)
	}

	base := "[0:v]"
	for i, slot := range plan.Clips {
		out := fmt.Sprintf("[b%d]", i+1)
		if i == len(plan.Clips)-1 && overlayPath == "" {
			out = "[vout]"
		}
		chains = append(chains, fmt.Sprintf("%s[c%d]overlay=%d:%d%s", base, i+1, slot.Rect.X, slot.Rect.Y, out))
		base = out
	}

	if overlayPath != "" {
		sheetIdx := len(inputs)
		inputs = append(inputs, ffmpeg.Input{Path: overlayPath, PreArgs: []string{"-loop", "1"}})
		chains = append(chains, fmt.Sprintf("%s[%d:v]overlay=0:0[vout]", base, sheetIdx))
	}

	return ffmpeg.GraphJob{
		Inputs:        inputs,
		FilterComplex: strings.Join(chains, ";"),
		MapLabel:      "[vout]",
		Preset:        ffmpeg.DefaultPreset,
		FPS:           plan.FPS,
		Duration:      duration,
		Output:        output,
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
