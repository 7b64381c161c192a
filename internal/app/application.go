package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"videosummarizer/internal/config"
	"videosummarizer/internal/logger"
	"videosummarizer/internal/summarizer"
	"videosummarizer/internal/transcriber"
	"videosummarizer/internal/video"
	"videosummarizer/internal/vision"
)

// Application orchestrates one full batch: frame and audio extraction, speech
// transcription, the core subtitle pipeline, and summary generation
type Application struct {
	config      *config.Configuration
	zapLogger   *zap.Logger
	visionCl    *vision.Client
	summarizer  *summarizer.Summarizer
	transcriber *transcriber.Transcriber
}

// NewApplication creates a new application instance with all components initialized
func NewApplication() (*Application, error) {
	// Load configuration from config file if CONFIG_PATH is set, otherwise use environment variables
	var cfg *config.Configuration
	var err error

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		cfg, err = config.NewConfigurationFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.NewConfigurationFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to load config from environment: %w", err)
		}
	}

	zapLogger := logger.NewLogger()

	return NewApplicationWithConfig(cfg, zapLogger)
}

// NewApplicationWithConfig creates an application instance from an explicit
// configuration and logger
func NewApplicationWithConfig(cfg *config.Configuration, zapLogger *zap.Logger) (*Application, error) {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}

	visionClient, err := vision.NewClientWithLogger(cfg, zapLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}

	summaryClient, err := summarizer.NewSummarizerWithLogger(cfg, zapLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create summarizer: %w", err)
	}

	return &Application{
		config:      cfg,
		zapLogger:   zapLogger,
		visionCl:    visionClient,
		summarizer:  summaryClient,
		transcriber: transcriber.NewTranscriberWithLogger(cfg.GetWhisperBinary(), cfg.GetWhisperModelSize(), zapLogger),
	}, nil
}

// ApplyOverrides applies command-line overrides onto the loaded configuration.
// Zero values leave the configured setting untouched.
func (app *Application) ApplyOverrides(outputDir string, frameRate float64, description string) {
	if outputDir != "" {
		app.config.SetOutputDir(outputDir)
	}
	if frameRate > 0 {
		app.config.SetFrameRate(frameRate)
	}
	if description != "" {
		app.config.SetVideoDescription(description)
	}
}

// CleanOutputDirectory removes the configured output directory and recreates
// it empty, so artifacts from an earlier batch never mix with the next one
func (app *Application) CleanOutputDirectory() error {
	outputDir := app.config.GetOutputDir()
	if outputDir == "" {
		return nil
	}
	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to clean output directory %s: %w", outputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	app.zapLogger.Info("output directory cleaned", zap.String("dir", outputDir))
	return nil
}

// BatchPaths collects every output location of one video batch
type BatchPaths struct {
	FramesDir      string
	AudioPath      string
	TranscriptJSON string
	TranscriptTXT  string
	Subtitles      ArtifactPaths
	Summary        string
}

// NewBatchPaths derives the batch output layout from the output directory and video name
func NewBatchPaths(outputDir, videoName string) BatchPaths {
	subtitlesDir := filepath.Join(outputDir, "subtitles")
	transcriptJSON := filepath.Join(outputDir, "audio", videoName+"_transcript.json")
	return BatchPaths{
		FramesDir:      filepath.Join(outputDir, "frames", videoName),
		AudioPath:      filepath.Join(outputDir, "audio", videoName+".wav"),
		TranscriptJSON: transcriptJSON,
		TranscriptTXT:  strings.TrimSuffix(transcriptJSON, ".json") + ".txt",
		Subtitles: ArtifactPaths{
			CueRecord:    filepath.Join(subtitlesDir, videoName+"_subtitles.json"),
			SRT:          filepath.Join(subtitlesDir, videoName+"_subtitles.srt"),
			CombinedText: filepath.Join(subtitlesDir, videoName+"_subtitles_combined.txt"),
			RawOutcomes:  filepath.Join(subtitlesDir, videoName+"_subtitles_raw_analyzed.json"),
		},
		Summary: filepath.Join(outputDir, "final_summary.txt"),
	}
}

// Run processes one video end to end
func (app *Application) Run(ctx context.Context, videoPath string) error {
	videoName := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	batchLogger, batchID := logger.NewBatchLogger(app.zapLogger, videoName)

	batchLogger.Info("starting video processing batch",
		zap.String("video_path", videoPath),
		zap.Float64("frame_rate", app.config.GetFrameRate()))

	outputDir := app.config.GetOutputDir()
	paths := NewBatchPaths(outputDir, videoName)

	processor, err := video.NewProcessorWithLogger(videoPath, batchLogger)
	if err != nil {
		return err
	}

	frames, err := processor.ExtractFrames(ctx, paths.FramesDir, app.config.GetFrameRate())
	if err != nil {
		return fmt.Errorf("failed to extract frames: %w", err)
	}
	batchLogger.Info("frames extracted", zap.Int("frame_count", len(frames)))

	// A failed audio/transcription stage degrades to pure-silence sampling
	// rather than aborting the batch.
	if err := processor.ExtractAudio(ctx, paths.AudioPath); err != nil {
		batchLogger.Warn("audio extraction failed, continuing without speech timeline", zap.Error(err))
	} else if _, err := app.transcriber.Transcribe(ctx, paths.AudioPath, paths.TranscriptJSON); err != nil {
		batchLogger.Warn("transcription failed, continuing without speech timeline", zap.Error(err))
	}

	pipeline := NewPipelineWithLogger(app.config, app.visionCl, batchLogger)
	result, err := pipeline.ProcessFrames(ctx, paths.FramesDir, paths.TranscriptJSON, paths.Subtitles)
	if err != nil {
		return fmt.Errorf("subtitle pipeline failed: %w", err)
	}

	batchLogger.Info("subtitle pipeline completed",
		zap.Int("cue_count", len(result.Cues)),
		zap.Int("analyzed_frames", len(result.Outcomes)))

	if err := app.generateSummary(ctx, result, paths, batchLogger); err != nil {
		// Summary failure never fails an otherwise complete batch
		batchLogger.Warn("summary generation failed", zap.Error(err))
	}

	batchLogger.Info("video processing batch completed",
		zap.String("batch_id", batchID))
	return nil
}

// generateSummary combines the speech transcript and the merged subtitles
// into the summary input and invokes the summarizer when enough content exists
func (app *Application) generateSummary(ctx context.Context, result *PipelineResult, paths BatchPaths, batchLogger *zap.Logger) error {
	input := app.prepareSummaryInput(result, paths, batchLogger)

	minLength := app.config.GetMinSummaryInputLength()
	if len([]rune(input)) < minLength {
		batchLogger.Warn("summary input too short, skipping summary",
			zap.Int("input_length", len([]rune(input))),
			zap.Int("min_length", minLength))
		return nil
	}

	_, err := app.summarizer.GenerateSummaryToFile(ctx, input, paths.Summary)
	return err
}

// prepareSummaryInput builds the summary input text from the speech
// transcript plus either the merged subtitles or the video description
func (app *Application) prepareSummaryInput(result *PipelineResult, paths BatchPaths, batchLogger *zap.Logger) string {
	var input string
	if data, err := os.ReadFile(paths.TranscriptTXT); err == nil {
		input = strings.TrimSpace(string(data))
	} else {
		batchLogger.Warn("transcript text unavailable for summary", zap.Error(err))
	}

	texts := make([]string, 0, len(result.Cues))
	totalLength := 0
	for _, cue := range result.Cues {
		texts = append(texts, cue.Text)
		totalLength += len([]rune(cue.Text))
	}

	if len(texts) > 0 && totalLength >= app.config.GetMinSummaryInputLength() {
		batchLogger.Info("using merged subtitles for summary",
			zap.Int("subtitle_length", totalLength))
		input += "\n\n---\nSubtitles:\n" + strings.Join(texts, "\n")
	} else if description := app.config.GetVideoDescription(); description != "" {
		batchLogger.Info("using video description for summary")
		input += "\n\n---\nVideo description:\n" + description
	}

	return strings.TrimSpace(input)
}
