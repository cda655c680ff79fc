package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
)

// Input is one -i entry of a graph job. PreArgs are placed before the -i
// flag, which is where ffmpeg expects per-input options like -loop or -ss.
type Input struct {
	Path    string
	PreArgs []string
}

// GraphJob describes a filter-graph encode: any number of inputs, one
// filter_complex expression and one mapped video stream. Audio is always
// dropped. A job without a filter expression is a plain re-encode of its
// first input.
type GraphJob struct {
	Inputs        []Input
	FilterComplex string
	MapLabel      string
	Codec         string
	Preset        string
	Quality       []string
	FPS           int
	Duration      float64
	Output        string
}

// args builds the full ffmpeg argument list for the job.
func (j GraphJob) args() []string {
	codec := j.Codec
	if codec == "" {
		codec = DefaultVideoCodec
	}
	quality := j.Quality
	if quality == nil {
		quality = QualityArgs(codec)
	}

	var args []string
	for _, in := range j.Inputs {
		args = append(args, in.PreArgs...)
		args = append(args, "-i", in.Path)
	}
	if j.FilterComplex != "" {
		args = append(args, "-filter_complex", j.FilterComplex)
		if j.MapLabel != "" {
			args = append(args, "-map", j.MapLabel)
		}
	}
	args = append(args, "-c:v", codec)
	if j.Preset != "" {
		args = append(args, "-preset", j.Preset)
	}
	args = append(args, quality...)
	if j.FPS > 0 {
		args = append(args, "-r", strconv.Itoa(j.FPS))
	}
	if j.Duration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", j.Duration))
	}
	args = append(args, "-an", j.Output)
	return args
}

// RenderGraph executes a graph job, streaming progress to the handler.
func (e *Executor) RenderGraph(ctx context.Context, job GraphJob, progress func(*Progress)) error {
	if len(job.Inputs) == 0 {
		return fmt.Errorf("graph job has no inputs")
	}
	if job.Output == "" {
		return fmt.Errorf("graph job has no output")
	}
	return e.Run(ctx, RunOptions{
		Args:            job.args(),
		ProgressHandler: progress,
		LogHandler: func(line string) {
			e.logger.Trace().Str("ffmpeg", line).Msg("")
		},
	})
}

// RenderStill encodes a static image as a fixed-duration video segment.
func (e *Executor) RenderStill(ctx context.Context, imagePath string, duration float64, fps int, output string) error {
	if duration <= 0 {
		return fmt.Errorf("still duration must be positive, got %v", duration)
	}
	job := GraphJob{
		Inputs: []Input{{
			Path:    imagePath,
			PreArgs: []string{"-loop", "1", "-framerate", strconv.Itoa(fps)},
		}},
		Preset:   DefaultPreset,
		FPS:      fps,
		Duration: duration,
		Output:   output,
	}
	return e.RenderGraph(ctx, job, nil)
}

// ExtractAudio writes the audio track of a video as 16 kHz mono PCM,
// the input format speech models expect.
func (e *Executor) ExtractAudio(ctx context.Context, videoPath, wavPath string) error {
	args := []string{
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		wavPath,
	}
	return e.Run(ctx, RunOptions{Args: args})
}
