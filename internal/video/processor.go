package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"videosummarizer/internal/timeline"
)

// CommandRunner executes an external command; replaceable for tests
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Processor extracts frames and audio from a source video through FFmpeg
type Processor struct {
	videoPath  string
	ffmpegPath string
	runner     CommandRunner
	logger     *zap.Logger
}

// NewProcessor creates a Processor for the given video file.
// A missing video file is a constructor error.
func NewProcessor(videoPath string) (*Processor, error) {
	return NewProcessorWithLogger(videoPath, nil)
}

// NewProcessorWithLogger creates a Processor with a custom logger
func NewProcessorWithLogger(videoPath string, logger *zap.Logger) (*Processor, error) {
	info, err := os.Stat(videoPath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("video file does not exist: %s", videoPath)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		videoPath:  videoPath,
		ffmpegPath: "ffmpeg", // Default FFmpeg binary path
		logger:     logger,
	}, nil
}

// WithCommandRunner sets a custom command runner (for testing)
func (p *Processor) WithCommandRunner(runner CommandRunner) {
	p.runner = runner
}

// ExtractFrames decodes the video into numbered frame images at the given
// output frame rate and returns the extracted frames in index order
func (p *Processor) ExtractFrames(ctx context.Context, outputDir string, frameRate float64) ([]timeline.FrameRef, error) {
	if frameRate <= 0 {
		return nil, fmt.Errorf("output frame rate must be positive, got %v", frameRate)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create frames directory %s: %w", outputDir, err)
	}

	outputPattern := filepath.Join(outputDir, "frame_%06d.png")
	args := []string{
		"-i", p.videoPath,
		"-vf", fmt.Sprintf("fps=%g", frameRate),
		"-hide_banner",
		"-loglevel", "error",
		outputPattern,
	}

	p.logger.Info("extracting video frames",
		zap.String("video", p.videoPath),
		zap.Float64("frame_rate", frameRate),
		zap.String("output_dir", outputDir))

	if err := p.run(ctx, args...); err != nil {
		return nil, fmt.Errorf("frame extraction failed: %w", err)
	}

	frames, err := timeline.ListFrames(outputDir, p.logger)
	if err != nil {
		return nil, err
	}

	p.logger.Info("frame extraction completed",
		zap.Int("frame_count", len(frames)))
	return frames, nil
}

// ExtractAudio extracts the audio track as 16kHz mono PCM WAV, the format
// expected by the speech transcriber
func (p *Processor) ExtractAudio(ctx context.Context, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create audio directory %s: %w", dir, err)
		}
	}

	args := []string{
		"-i", p.videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		outputPath,
	}

	p.logger.Info("extracting audio track",
		zap.String("video", p.videoPath),
		zap.String("output", outputPath))

	if err := p.run(ctx, args...); err != nil {
		return fmt.Errorf("audio extraction failed: %w", err)
	}

	p.logger.Info("audio extraction completed",
		zap.String("output", outputPath))
	return nil
}

// run executes ffmpeg, using the custom runner if set
func (p *Processor) run(ctx context.Context, args ...string) error {
	if p.runner != nil {
		return p.runner(ctx, p.ffmpegPath, args...)
	}

	cmd := exec.CommandContext(ctx, p.ffmpegPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if len(output) > 0 {
			p.logger.Warn("ffmpeg stderr", zap.String("output", string(output)))
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}
