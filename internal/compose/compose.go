// Package compose orchestrates manifest-driven section rendering: load
// and validate the manifest, then render one section, every section, or
// the legacy single-output form.
package compose

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/keagan/clipforge/internal/manifest"
	"github.com/keagan/clipforge/internal/render"
	"github.com/keagan/clipforge/pkg/util"
)

// Options selects the render mode and its knobs.
type Options struct {
	// SectionIndex renders only that section when >= 0.
	SectionIndex int
	// RenderAll treats the output path as a directory and writes one
	// file per section.
	RenderAll bool
	// Workers bounds parallel section renders in RenderAll mode.
	Workers int
	// PreviewDuration caps each section's length when > 0.
	PreviewDuration float64
}

// Composer drives section rendering from a composition manifest.
type Composer struct {
	renderer *render.Renderer
	logger   zerolog.Logger
}

func New(renderer *render.Renderer, logger zerolog.Logger) *Composer {
	return &Composer{
		renderer: renderer,
		logger:   logger.With().Str("component", "compose").Logger(),
	}
}

// Validate loads the manifest and checks that every referenced media
// file exists, without rendering anything.
func (c *Composer) Validate(manifestPath string) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	if err := m.ValidatePaths(); err != nil {
		return err
	}
	c.logger.Info().Int("sections", len(m.Sections)).Msg("manifest valid")
	for i, sec := range m.Sections {
		c.logger.Info().
			Int("index", i).
			Str("template", sec.Template).
			Str("label", sec.Label).
			Str("name", sec.DisplayName()).
			Msg("section")
	}
	return nil
}

// Run loads the manifest and renders according to the options. With a
// section index set, only that section goes to output. With RenderAll,
// output is a directory and each section gets its own file. Otherwise
// only the final section is written to output.
func (c *Composer) Run(ctx context.Context, manifestPath, output string, opts Options) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	if err := m.ValidatePaths(); err != nil {
		return err
	}
	if len(m.Sections) == 0 {
		c.logger.Warn().Msg("no sections to render")
		return nil
	}

	if opts.SectionIndex >= 0 {
		if opts.SectionIndex >= len(m.Sections) {
			return fmt.Errorf("section %d out of range (manifest has %d sections, 0-%d)",
				opts.SectionIndex, len(m.Sections), len(m.Sections)-1)
		}
		return c.renderOne(ctx, m, opts.SectionIndex, output, opts.PreviewDuration)
	}

	if opts.RenderAll {
		return c.renderAll(ctx, m, output, opts)
	}

	// Legacy single-output form: only the last section is written.
	return c.renderOne(ctx, m, len(m.Sections)-1, output, opts.PreviewDuration)
}

func (c *Composer) renderOne(ctx context.Context, m *manifest.Manifest, index int, output string, previewDuration float64) error {
	sec := m.Sections[index]
	c.logger.Info().
		Int("section", index).
		Str("template", sec.Template).
		Str("name", sec.DisplayName()).
		Str("output", output).
		Msg("rendering section")

	start := time.Now()
	if err := c.renderer.RenderSection(ctx, m, index, output, previewDuration); err != nil {
		return fmt.Errorf("section %d: %w", index, err)
	}
	c.logger.Info().
		Int("section", index).
		Dur("elapsed", time.Since(start)).
		Msg("section done")
	return nil
}

func (c *Composer) renderAll(ctx context.Context, m *manifest.Manifest, outDir string, opts Options) error {
	if err := util.EnsureDir(outDir); err != nil {
		return err
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(m.Sections) {
		workers = len(m.Sections)
	}
	c.logger.Info().
		Int("sections", len(m.Sections)).
		Int("workers", workers).
		Str("dir", outDir).
		Msg("rendering all sections")

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range m.Sections {
		i := i
		output := filepath.Join(outDir, m.Sections[i].Filename(i))
		g.Go(func() error {
			return c.renderOne(gctx, m, i, output, opts.PreviewDuration)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	c.logger.Info().
		Int("sections", len(m.Sections)).
		Dur("elapsed", time.Since(start)).
		Msg("all sections rendered")
	return nil
}
