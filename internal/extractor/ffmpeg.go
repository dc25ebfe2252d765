// Package extractor derives a normalized audio track from a video buffer by
// piping it through an ffmpeg subprocess.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/edulingo/backend/internal/apperr"
)

// stderrTailBytes caps how much ffmpeg diagnostic output is kept on failure.
const stderrTailBytes = 2048

// FFmpeg runs one ffmpeg subprocess per extraction, wired stdin→stdout with
// no intermediate files. Output is single-channel 16-bit little-endian PCM
// resampled to 16kHz in a WAV container.
type FFmpeg struct {
	bin    string
	args   []string
	logger *zap.Logger
}

// NewFFmpeg creates an extractor using the system ffmpeg binary.
func NewFFmpeg(logger *zap.Logger) *FFmpeg {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FFmpeg{
		bin: "ffmpeg",
		args: []string{
			"-i", "pipe:0",
			"-vn",
			"-acodec", "pcm_s16le",
			"-ac", "1",
			"-ar", "16000",
			"-f", "wav",
			"pipe:1",
		},
		logger: logger,
	}
}

// Extract converts the video buffer to WAV audio. A single attempt either
// returns the complete output buffer or a classified error; the subprocess
// never outlives the call — cancelling ctx kills it and Run reaps it.
func (f *FFmpeg) Extract(ctx context.Context, video []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, f.bin, f.args...)
	cmd.Stdin = bytes.NewReader(video)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			diag := tail(stderr.Bytes())
			f.logger.Error("ffmpeg failed",
				zap.Int("exit_code", code),
				zap.Int("input_bytes", len(video)),
				zap.String("stderr", diag),
			)
			return nil, apperr.Wrap(
				apperr.KindExtraction,
				fmt.Sprintf("ffmpeg exited with code %d", code),
				fmt.Errorf("%w: %s", err, diag),
			)
		}
		return nil, apperr.Wrap(apperr.KindExtraction, "start ffmpeg", err)
	}
	return stdout.Bytes(), nil
}

func tail(b []byte) string {
	if len(b) > stderrTailBytes {
		b = b[len(b)-stderrTailBytes:]
	}
	return strings.TrimSpace(string(b))
}
