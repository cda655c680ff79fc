// Package ffmpeg wraps the ffmpeg and ffprobe binaries: probing media,
// running filter-graph encodes and streaming progress back to callers.
package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Executor runs ffmpeg and ffprobe, resolved from PATH once at startup.
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	threads     int
}

// New creates an executor. A positive threads value caps ffmpeg's thread
// pool; zero lets ffmpeg decide.
func New(logger zerolog.Logger, threads int) (*Executor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		threads:     threads,
	}, nil
}

// Run executes ffmpeg with the given arguments, parsing the machine
// progress stream and forwarding it to the handlers.
func (e *Executor) Run(ctx context.Context, opts RunOptions) error {
	if len(opts.Args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	args := []string{"-y", "-hide_banner", "-loglevel", "info"}
	if e.threads > 0 {
		args = append(args, "-threads", strconv.Itoa(e.threads))
	}
	args = append(args, "-progress", "pipe:2")
	args = append(args, opts.Args...)

	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Strs("args", args).
		Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	cmd.Stdout = io.Discard

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.scanProgress(stderr, opts)
	}()
	<-done

	if err := cmd.Wait(); err != nil {
		if ctx.Err() == context.Canceled {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}

	e.logger.Debug().Msg("ffmpeg execution completed")
	return nil
}

// scanProgress reads ffmpeg's stderr, forwarding every line to the log
// handler and accumulating key=value progress records. A "progress=" line
// terminates each record.
func (e *Executor) scanProgress(r io.Reader, opts RunOptions) {
	scanner := bufio.NewScanner(r)
	var p Progress

	for scanner.Scan() {
		line := scanner.Text()
		if opts.LogHandler != nil {
			opts.LogHandler(line)
		}

		key, val, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		val = strings.TrimSpace(val)

		switch key {
		case "frame":
			p.Frame, _ = strconv.Atoi(val)
		case "fps":
			p.FPS, _ = strconv.ParseFloat(val, 64)
		case "bitrate":
			p.Bitrate = val
		case "out_time":
			p.Time = val
		case "speed":
			p.Speed = val
		case "progress":
			if opts.ProgressHandler != nil && p.Frame > 0 {
				handled := p
				opts.ProgressHandler(&handled)
			}
			p = Progress{}
		}
	}
}
