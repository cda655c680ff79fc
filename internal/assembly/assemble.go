package assembly

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/keagan/clipforge/internal/ffmpeg"
	"github.com/keagan/clipforge/internal/manifest"
	"github.com/keagan/clipforge/pkg/util"
)

// Assembler merges rendered section files via native ffmpeg.
type Assembler struct {
	exec   *ffmpeg.Executor
	logger zerolog.Logger
}

// New creates an assembler backed by an ffmpeg executor.
func New(exec *ffmpeg.Executor, logger zerolog.Logger) *Assembler {
	return &Assembler{
		exec:   exec,
		logger: logger.With().Str("component", "assembly").Logger(),
	}
}

// probeDurations fills in section durations concurrently.
func (a *Assembler) probeDurations(ctx context.Context, sections []Section) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range sections {
		i := i
		g.Go(func() error {
			info, err := a.exec.ProbeVideo(ctx, sections[i].Path)
			if err != nil {
				return fmt.Errorf("probing %s: %w", sections[i].Path, err)
			}
			sections[i].Duration = info.Duration.Seconds()
			return nil
		})
	}
	return g.Wait()
}

// Assemble probes all section files, builds the transition filter graph
// and encodes the final video. GPU selects h264_nvenc over libx264.
func (a *Assembler) Assemble(ctx context.Context, m *manifest.AssemblyManifest, output string, gpu bool) error {
	if len(m.Sections) == 0 {
		return ErrNoSections
	}

	sections := make([]Section, len(m.Sections))
	for i, s := range m.Sections {
		sections[i] = Section{
			Path:       s.Path,
			Transition: s.OutTransition(),
			Type:       s.TransitionType,
		}
	}

	a.logger.Info().Int("sections", len(sections)).Msg("probing section durations")
	if err := a.probeDurations(ctx, sections); err != nil {
		return err
	}
	timeline, err := BuildTimeline(sections, m.Video.FPS)
	if err != nil {
		return err
	}
	for i, p := range timeline.Placements {
		a.logger.Debug().
			Int("section", i).
			Str("path", p.Section.Path).
			Float64("start", p.Start).
			Float64("duration", p.Section.Duration).
			Str("transition", p.Section.Type).
			Msg("section placed")
	}

	if err := util.EnsureDir(filepath.Dir(output)); err != nil {
		return err
	}

	codec := ffmpeg.DefaultVideoCodec
	if gpu {
		codec = "h264_nvenc"
	}

	job := ffmpeg.GraphJob{
		Codec:   codec,
		Quality: ffmpeg.QualityArgs(codec),
		FPS:     m.Video.FPS,
		Output:  output,
	}

	if len(sections) == 1 {
		// Nothing to compose, just re-encode to the target settings.
		a.logger.Info().Str("output", output).Msg("single section, re-encoding")
		job.Inputs = []ffmpeg.Input{{Path: sections[0].Path}}
		return a.run(ctx, job)
	}

	filter, total, label, err := BuildGraph(sections)
	if err != nil {
		return err
	}
	for _, s := range sections {
		job.Inputs = append(job.Inputs, ffmpeg.Input{Path: s.Path})
	}
	job.FilterComplex = filter
	job.MapLabel = label

	a.logger.Info().
		Int("sections", len(sections)).
		Float64("expected_duration", total).
		Str("codec", codec).
		Str("output", output).
		Msg("assembling final video")
	return a.run(ctx, job)
}

func (a *Assembler) run(ctx context.Context, job ffmpeg.GraphJob) error {
	return a.exec.RenderGraph(ctx, job, func(p *ffmpeg.Progress) {
		a.logger.Debug().
			Int("frame", p.Frame).
			Str("time", p.Time).
			Str("speed", p.Speed).
			Msg("assembly progress")
	})
}
