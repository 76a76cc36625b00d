package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
)

// frameTimestamps are the near-start capture points tried in order.
// Clips shorter than the first timestamp fall through to the next.
var frameTimestamps = []string{"00:00:05", "00:00:01"}

type FFmpeg struct {
	pathToBinary string
}

func NewFFmpeg(pathToBinary string) *FFmpeg {
	return &FFmpeg{pathToBinary: pathToBinary}
}

// Check verifies the ffmpeg binary is callable. Callers treat a failure
// as a fatal precondition before any processing begins.
func (f *FFmpeg) Check() error {
	if _, err := exec.LookPath(f.pathToBinary); err != nil {
		return fmt.Errorf("ffmpeg not found at %q: %w", f.pathToBinary, err)
	}
	return nil
}

// ExtractFrame captures a single still image from the video into
// outputFile. Timestamped attempts come first; if all fail the frame is
// captured without a seek, letting ffmpeg pick the first decodable frame.
func (f *FFmpeg) ExtractFrame(ctx context.Context, inputFile, outputFile string) error {
	for _, ts := range frameTimestamps {
		args := []string{
			"-ss", ts,
			"-i", inputFile,
			"-frames:v", "1",
			"-q:v", "2",
			"-y",
			outputFile,
		}
		if _, err := f.Exec(ctx, args); err == nil {
			return nil
		}
	}

	args := []string{
		"-i", inputFile,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		outputFile,
	}
	if _, err := f.Exec(ctx, args); err != nil {
		return fmt.Errorf("frame extraction failed for %s: %w", inputFile, err)
	}
	return nil
}

func (f *FFmpeg) Exec(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, f.pathToBinary, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg command failed: %v, output: %s", err, string(output))
	}

	return args[len(args)-1], nil
}
