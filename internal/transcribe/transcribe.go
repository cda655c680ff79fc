// Package transcribe produces word-level transcripts from video audio by
// driving the whisper CLI, with optional speaker labels merged in from a
// diarization segments file.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/keagan/clipforge/internal/ffmpeg"
	"github.com/keagan/clipforge/pkg/util"
)

// Word is one transcribed word with its time span and optional speaker.
type Word struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker *string `json:"speaker"`
}

// SpeakerSegment is one diarization turn.
type SpeakerSegment struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Transcript is the output document written next to the source video.
type Transcript struct {
	Source    string  `json:"source"`
	DurationS float64 `json:"duration_s"`
	Model     string  `json:"model"`
	Language  string  `json:"language"`
	Diarized  bool    `json:"diarized"`
	Words     []Word  `json:"words"`
}

// Options configures a transcription run.
type Options struct {
	Model    string
	Language string
	Diarize  bool
	// Output is the transcript path; empty means <source-stem>.transcript.json.
	Output string
	// Speakers is a diarization segments JSON file; empty means
	// <source-stem>.speakers.json.
	Speakers string
}

// DefaultModel is the whisper model used when none is given.
const DefaultModel = "medium"

// MergeSpeakers assigns a speaker to each word by locating the word's
// midpoint in the segment list, first match wins. Words outside every
// segment keep a nil speaker. Nil segments leave all words unassigned.
func MergeSpeakers(words []Word, segments []SpeakerSegment) []Word {
	if segments == nil {
		return words
	}
	out := make([]Word, len(words))
	for i, w := range words {
		mid := (w.Start + w.End) / 2
		for _, seg := range segments {
			if seg.Start <= mid && mid <= seg.End {
				speaker := seg.Speaker
				w.Speaker = &speaker
				break
			}
		}
		out[i] = w
	}
	return out
}

// Transcriber runs the whisper CLI against extracted audio.
type Transcriber struct {
	exec        *ffmpeg.Executor
	logger      zerolog.Logger
	whisperPath string
}

// New creates a transcriber, locating the whisper CLI in PATH.
func New(ffexec *ffmpeg.Executor, logger zerolog.Logger) (*Transcriber, error) {
	whisperPath, err := exec.LookPath("whisper")
	if err != nil {
		return nil, fmt.Errorf("whisper not found in PATH: %w", err)
	}
	return &Transcriber{
		exec:        ffexec,
		logger:      logger.With().Str("component", "transcribe").Logger(),
		whisperPath: whisperPath,
	}, nil
}

// defaultOutput derives the transcript path from the source path.
func defaultOutput(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".transcript.json"
}

// defaultSpeakers derives the diarization segments path from the source.
func defaultSpeakers(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".speakers.json"
}

func roundTo(v float64, places int) float64 {
	f := math.Pow10(places)
	return math.Round(v*f) / f
}

// whisperResult matches the whisper CLI JSON output with word timestamps.
type whisperResult struct {
	Language string `json:"language"`
	Segments []struct {
		Words []struct {
			Word  string  `json:"word"`
			Start float64 `json:"start"`
			End   float64 `json:"end"`
		} `json:"words"`
	} `json:"segments"`
}

// parseWhisperJSON flattens the whisper segment structure into words.
func parseWhisperJSON(data []byte) (string, []Word, error) {
	var res whisperResult
	if err := json.Unmarshal(data, &res); err != nil {
		return "", nil, fmt.Errorf("parsing whisper output: %w", err)
	}
	var words []Word
	for _, seg := range res.Segments {
		for _, w := range seg.Words {
			words = append(words, Word{
				Start: roundTo(w.Start, 3),
				End:   roundTo(w.End, 3),
				Text:  strings.TrimSpace(w.Word),
			})
		}
	}
	return res.Language, words, nil
}

// loadSpeakers reads a diarization segments file.
func loadSpeakers(path string) ([]SpeakerSegment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var segments []SpeakerSegment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("parsing speaker segments %s: %w", path, err)
	}
	return segments, nil
}

// Transcribe extracts the source audio, runs whisper with word timestamps
// and writes the transcript JSON. With Diarize set, speaker labels are
// merged from the segments file when one exists.
func (t *Transcriber) Transcribe(ctx context.Context, source string, opts Options) (*Transcript, error) {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	output := opts.Output
	if output == "" {
		output = defaultOutput(source)
	}

	info, err := t.exec.ProbeVideo(ctx, source)
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp("", "clipforge-transcribe-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(workDir)

	wavPath := filepath.Join(workDir, "audio.wav")
	t.logger.Info().Str("source", source).Msg("extracting audio")
	if err := t.exec.ExtractAudio(ctx, source, wavPath); err != nil {
		return nil, fmt.Errorf("extracting audio: %w", err)
	}

	args := []string{
		wavPath,
		"--task", "transcribe",
		"--model", model,
		"--output_format", "json",
		"--output_dir", workDir,
		"--word_timestamps", "True",
		"--fp16", "False",
	}
	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}

	t.logger.Info().Str("model", model).Msg("running whisper")
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.whisperPath, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, fmt.Errorf("whisper failed: %s", detail)
	}

	data, err := os.ReadFile(filepath.Join(workDir, "audio.json"))
	if err != nil {
		return nil, fmt.Errorf("reading whisper output: %w", err)
	}
	language, words, err := parseWhisperJSON(data)
	if err != nil {
		return nil, err
	}
	if opts.Language != "" {
		language = opts.Language
	}

	diarized := false
	if opts.Diarize {
		speakersPath := opts.Speakers
		if speakersPath == "" {
			speakersPath = defaultSpeakers(source)
		}
		segments, err := loadSpeakers(speakersPath)
		switch {
		case err == nil:
			words = MergeSpeakers(words, segments)
			diarized = true
		case os.IsNotExist(err):
			t.logger.Warn().Str("path", speakersPath).
				Msg("no speaker segments file, skipping diarization")
		default:
			return nil, err
		}
	}

	result := &Transcript{
		Source:    filepath.Base(source),
		DurationS: roundTo(info.Duration.Seconds(), 1),
		Model:     model,
		Language:  language,
		Diarized:  diarized,
		Words:     words,
	}

	if err := util.EnsureDir(filepath.Dir(output)); err != nil {
		return nil, err
	}
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(output, encoded, 0644); err != nil {
		return nil, fmt.Errorf("writing transcript: %w", err)
	}
	t.logger.Info().Str("output", output).Int("words", len(words)).Msg("transcript written")
	return result, nil
}
