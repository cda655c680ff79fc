package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/clipforge/internal/assembly"
	"github.com/keagan/clipforge/internal/compose"
	"github.com/keagan/clipforge/internal/cut"
	"github.com/keagan/clipforge/internal/ffmpeg"
	"github.com/keagan/clipforge/internal/logging"
	"github.com/keagan/clipforge/internal/manifest"
	"github.com/keagan/clipforge/internal/render"
	"github.com/keagan/clipforge/internal/text"
	"github.com/keagan/clipforge/internal/transcribe"
)

var verbose bool

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clipforge",
	Short: "clipforge - manifest-driven video composition toolkit",
	Long:  "Manifest-driven video composition: render sections from YAML, assemble them with transitions, cut source footage, and transcribe audio.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(cutCmd)
	rootCmd.AddCommand(transcribeCmd)
}

func newRenderer() (*render.Renderer, error) {
	exec, err := ffmpeg.New(log.Logger, 0)
	if err != nil {
		return nil, err
	}
	fonts, err := text.NewSource()
	if err != nil {
		return nil, err
	}
	return render.New(exec, fonts, log.Logger), nil
}

var (
	composeManifest string
	composeOutput   string
	composeSection  int
	composeAll      bool
	composeWorkers  int
	composePreview  float64
	composeValidate bool
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Render manifest sections to mp4",
	RunE: func(cmd *cobra.Command, args []string) error {
		if composeValidate {
			c := compose.New(nil, log.Logger)
			return c.Validate(composeManifest)
		}
		if composeOutput == "" {
			return fmt.Errorf("--output is required (unless using --validate)")
		}
		if composeSection >= 0 && composeAll {
			return fmt.Errorf("--section and --render-all are mutually exclusive")
		}

		renderer, err := newRenderer()
		if err != nil {
			return err
		}
		c := compose.New(renderer, log.Logger)
		return c.Run(cmd.Context(), composeManifest, composeOutput, compose.Options{
			SectionIndex:    composeSection,
			RenderAll:       composeAll,
			Workers:         composeWorkers,
			PreviewDuration: composePreview,
		})
	},
}

var (
	assembleManifest string
	assembleOutput   string
	assembleGPU      bool
	assembleValidate bool
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble pre-rendered sections with transitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.LoadAssembly(assembleManifest)
		if err != nil {
			return err
		}
		if err := m.ValidatePaths(); err != nil {
			return err
		}
		if assembleValidate {
			log.Info().Int("sections", len(m.Sections)).Msg("assembly manifest valid")
			return nil
		}
		if assembleOutput == "" {
			return fmt.Errorf("--output is required (unless using --validate)")
		}

		exec, err := ffmpeg.New(log.Logger, 0)
		if err != nil {
			return err
		}
		a := assembly.New(exec, log.Logger)
		return a.Assemble(cmd.Context(), m, assembleOutput, assembleGPU)
	},
}

var (
	cutStart     float64
	cutEnd       float64
	cutOutput    string
	cutManifest  string
	cutOutputDir string
	cutCopy      bool
	cutForce     bool
)

var cutCmd = &cobra.Command{
	Use:   "cut [source]",
	Short: "Cut clips from a source video",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		single := cmd.Flags().Changed("start") || cmd.Flags().Changed("end") || cutOutput != ""
		batch := cutManifest != "" || cutOutputDir != ""
		if single && batch {
			return fmt.Errorf("cannot mix single-cut flags (--start/--end/--output) with batch flags (--manifest/--output-dir)")
		}

		cutter := cut.New(log.Logger)
		cutter.Copy = cutCopy

		switch {
		case single:
			if !cmd.Flags().Changed("start") || !cmd.Flags().Changed("end") || cutOutput == "" {
				return fmt.Errorf("single cut mode requires --start, --end, and --output")
			}
			if len(args) == 0 {
				return fmt.Errorf("single cut mode requires a source video argument")
			}
			return cutter.Single(args[0], cutStart, cutEnd, cutOutput)

		case batch:
			if cutManifest == "" {
				return fmt.Errorf("batch mode requires --manifest")
			}
			if cutOutputDir == "" {
				return fmt.Errorf("batch mode requires --output-dir")
			}
			m, err := manifest.LoadCuts(cutManifest)
			if err != nil {
				return err
			}
			// A source argument overrides the manifest's source.
			if len(args) > 0 {
				m.Source = args[0]
			}
			if err := m.ValidateSource(); err != nil {
				return err
			}
			return cutter.Batch(m, cutOutputDir, cutForce)

		default:
			return fmt.Errorf("specify either single cut (--start/--end/--output) or batch (--manifest/--output-dir)")
		}
	},
}

var (
	transcribeOutput   string
	transcribeModel    string
	transcribeLanguage string
	transcribeSpeakers string
	noDiarize          bool
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [source]",
	Short: "Transcribe video audio with word-level timestamps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, err := ffmpeg.New(log.Logger, 0)
		if err != nil {
			return err
		}
		t, err := transcribe.New(exec, log.Logger)
		if err != nil {
			return err
		}
		result, err := t.Transcribe(cmd.Context(), args[0], transcribe.Options{
			Model:    transcribeModel,
			Language: transcribeLanguage,
			Diarize:  !noDiarize,
			Output:   transcribeOutput,
			Speakers: transcribeSpeakers,
		})
		if err != nil {
			return err
		}

		speakers := make(map[string]bool)
		for _, w := range result.Words {
			if w.Speaker != nil {
				speakers[*w.Speaker] = true
			}
		}
		log.Info().
			Int("words", len(result.Words)).
			Int("speakers", len(speakers)).
			Str("language", result.Language).
			Msg("transcription complete")
		return nil
	},
}

func init() {
	composeCmd.Flags().StringVar(&composeManifest, "manifest", "", "path to YAML composition manifest")
	composeCmd.Flags().StringVar(&composeOutput, "output", "", "output mp4 path, or directory for --render-all")
	composeCmd.Flags().IntVar(&composeSection, "section", -1, "render only this section index (0-based)")
	composeCmd.Flags().BoolVar(&composeAll, "render-all", false, "render every section to --output directory")
	composeCmd.Flags().IntVar(&composeWorkers, "workers", 1, "parallel workers for --render-all")
	composeCmd.Flags().Float64Var(&composePreview, "preview-duration", 0, "cap each section to N seconds")
	composeCmd.Flags().BoolVar(&composeValidate, "validate", false, "validate manifest only, don't render")
	composeCmd.MarkFlagRequired("manifest")

	assembleCmd.Flags().StringVar(&assembleManifest, "manifest", "", "path to YAML assembly manifest")
	assembleCmd.Flags().StringVar(&assembleOutput, "output", "", "output mp4 path")
	assembleCmd.Flags().BoolVar(&assembleGPU, "gpu", false, "use NVENC hardware encoding")
	assembleCmd.Flags().BoolVar(&assembleValidate, "validate", false, "validate manifest only, don't assemble")
	assembleCmd.MarkFlagRequired("manifest")

	cutCmd.Flags().Float64Var(&cutStart, "start", 0, "start time in seconds (single cut mode)")
	cutCmd.Flags().Float64Var(&cutEnd, "end", 0, "end time in seconds (single cut mode)")
	cutCmd.Flags().StringVar(&cutOutput, "output", "", "output file path (single cut mode)")
	cutCmd.Flags().StringVar(&cutManifest, "manifest", "", "path to cuts YAML manifest (batch mode)")
	cutCmd.Flags().StringVar(&cutOutputDir, "output-dir", "", "output directory for batch cuts")
	cutCmd.Flags().BoolVar(&cutCopy, "copy", false, "stream-copy instead of re-encode")
	cutCmd.Flags().BoolVar(&cutForce, "force", false, "overwrite existing output files")

	transcribeCmd.Flags().StringVar(&transcribeOutput, "output", "", "output JSON path (default: <source>.transcript.json)")
	transcribeCmd.Flags().StringVar(&transcribeModel, "model", transcribe.DefaultModel, "whisper model size")
	transcribeCmd.Flags().StringVar(&transcribeLanguage, "language", "", "source language code (default: auto-detect)")
	transcribeCmd.Flags().StringVar(&transcribeSpeakers, "speakers", "", "speaker segments JSON for diarization (default: <source>.speakers.json)")
	transcribeCmd.Flags().BoolVar(&noDiarize, "no-diarize", false, "skip speaker labeling")
}
