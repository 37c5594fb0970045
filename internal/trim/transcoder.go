package trim

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Transcoder extracts a sub-clip from a local video file.
type Transcoder interface {
	Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error
}

// FFmpegTranscoder shells out to ffmpeg for the trim-and-reencode step.
type FFmpegTranscoder struct {
	binary string
	logger *logrus.Logger
}

func NewFFmpegTranscoder(binary string, logger *logrus.Logger) *FFmpegTranscoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegTranscoder{binary: binary, logger: logger}
}

func (t *FFmpegTranscoder) Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error {
	args := []string{
		"-y",
		"-ss", strconv.FormatFloat(start, 'f', -1, 64),
		"-i", inputPath,
		"-t", strconv.FormatFloat(end-start, 'f', -1, 64),
		outputPath,
	}

	cmd := exec.CommandContext(ctx, t.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.logger.WithFields(logrus.Fields{
			"input":  inputPath,
			"output": outputPath,
		}).WithError(err).Error("ffmpeg trim failed")
		return fmt.Errorf("%w: ffmpeg: %s", ErrDecodeFailed, truncate(string(output), 512))
	}

	t.logger.WithFields(logrus.Fields{
		"input":  inputPath,
		"output": outputPath,
		"start":  start,
		"end":    end,
	}).Debug("Trimmed video")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
