package ffmpeg

import "time"

// VideoInfo contains metadata about a video file
type VideoInfo struct {
	FilePath   string
	Duration   time.Duration
	Width      int
	Height     int
	FPS        float64
	VideoCodec string
	HasAudio   bool
}

// Progress represents ffmpeg progress data
type Progress struct {
	Frame   int
	FPS     float64
	Bitrate string
	Time    string
	Speed   string
}

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	ProgressHandler func(*Progress)
	LogHandler      func(line string)
}

// Default encoding settings for rendered sections
const (
	DefaultCRF        = 20
	DefaultPreset     = "medium"
	DefaultVideoCodec = "libx264"
	DefaultPixFmt     = "yuv420p"
)

// QualityArgs returns the rate-control arguments for a video codec.
// NVENC encoders do not take -crf.
func QualityArgs(codec string) []string {
	if codec == "h264_nvenc" {
		return []string{"-cq", "20", "-pix_fmt", DefaultPixFmt}
	}
	return []string{"-crf", "20", "-pix_fmt", DefaultPixFmt}
}
