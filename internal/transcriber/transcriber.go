package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"videosummarizer/internal/transcript"
)

// CommandRunner executes an external command; replaceable for tests
type CommandRunner func(ctx context.Context, name string, args ...string) error

// whisperResult mirrors the JSON the whisper CLI writes next to the audio file
type whisperResult struct {
	Text     string `json:"text"`
	Segments []struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// TranscriptResult is the simplified transcription persisted for the pipeline
type TranscriptResult struct {
	Text     string               `json:"text"`
	Segments []transcript.Segment `json:"segments"`
}

// Transcriber converts extracted audio into a timed speech transcript by
// invoking the external whisper CLI
type Transcriber struct {
	binary    string
	modelSize string
	runner    CommandRunner
	logger    *zap.Logger
}

// NewTranscriber creates a Transcriber using the given whisper binary and model size
func NewTranscriber(binary, modelSize string) *Transcriber {
	return NewTranscriberWithLogger(binary, modelSize, nil)
}

// NewTranscriberWithLogger creates a Transcriber with a custom logger
func NewTranscriberWithLogger(binary, modelSize string, logger *zap.Logger) *Transcriber {
	if binary == "" {
		binary = "whisper"
	}
	if modelSize == "" {
		modelSize = "tiny"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcriber{binary: binary, modelSize: modelSize, logger: logger}
}

// WithCommandRunner sets a custom command runner (for testing)
func (t *Transcriber) WithCommandRunner(runner CommandRunner) {
	t.runner = runner
}

// Transcribe runs speech recognition over the audio file and persists the
// simplified transcript as JSON plus a plain-text rendering. The returned
// result carries the timed segments consumed by the sampler and reconciler.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath, outputPath string) (*TranscriptResult, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio file does not exist: %s", audioPath)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcript directory %s: %w", outputDir, err)
	}

	args := []string{
		audioPath,
		"--model", t.modelSize,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--fp16", "False",
	}

	t.logger.Info("transcribing audio",
		zap.String("audio", audioPath),
		zap.String("model", t.modelSize))

	if err := t.run(ctx, args...); err != nil {
		return nil, fmt.Errorf("whisper transcription failed: %w", err)
	}

	// Whisper names its output after the audio file base name
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	rawPath := filepath.Join(outputDir, base+".json")

	result, err := t.loadWhisperResult(rawPath)
	if err != nil {
		return nil, err
	}

	if err := t.SaveTranscription(result, outputPath); err != nil {
		return nil, err
	}

	t.logger.Info("transcription completed",
		zap.String("output", outputPath),
		zap.Int("segment_count", len(result.Segments)))

	return result, nil
}

// loadWhisperResult reads the raw whisper JSON and simplifies it
func (t *Transcriber) loadWhisperResult(path string) (*TranscriptResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper output %s: %w", path, err)
	}

	var raw whisperResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse whisper output %s: %w", path, err)
	}

	result := &TranscriptResult{
		Text:     strings.TrimSpace(raw.Text),
		Segments: make([]transcript.Segment, 0, len(raw.Segments)),
	}
	for _, seg := range raw.Segments {
		result.Segments = append(result.Segments, transcript.Segment{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return result, nil
}

// SaveTranscription writes the simplified transcript as JSON and as a plain
// text file with segment texts joined by a full-width comma
func (t *Transcriber) SaveTranscription(result *TranscriptResult, outputPath string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write transcript %s: %w", outputPath, err)
	}

	var text string
	if len(result.Segments) > 0 {
		parts := make([]string, 0, len(result.Segments))
		for _, seg := range result.Segments {
			if seg.Text != "" {
				parts = append(parts, seg.Text)
			}
		}
		text = strings.Join(parts, "，")
	} else {
		text = result.Text
	}

	txtPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".txt"
	if err := os.WriteFile(txtPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write transcript text %s: %w", txtPath, err)
	}

	t.logger.Debug("saved transcription artifacts",
		zap.String("json", outputPath),
		zap.String("txt", txtPath))
	return nil
}

// run executes the whisper binary, using the custom runner if set
func (t *Transcriber) run(ctx context.Context, args ...string) error {
	if t.runner != nil {
		return t.runner(ctx, t.binary, args...)
	}

	cmd := exec.CommandContext(ctx, t.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if len(output) > 0 {
			t.logger.Warn("whisper stderr", zap.String("output", string(output)))
		}
		return fmt.Errorf("whisper failed: %w", err)
	}
	return nil
}
