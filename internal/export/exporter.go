package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"videosummarizer/internal/analyzer"
	"videosummarizer/internal/subtitle"
)

// CueRecord is the structured cue artifact, pairing the final cue list with
// the sampling rate the batch was processed at
type CueRecord struct {
	Subtitles       []subtitle.Cue `json:"subtitles"`
	OutputFrameRate float64        `json:"output_frame_rate"`
}

// Exporter serializes the final cue list into its output artifacts: the
// structured cue record, the SRT rendering, the flattened text document, and
// the raw per-frame diagnostics record. All artifacts are written in valid
// empty form when the cue list is empty.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates an Exporter
func NewExporter() *Exporter {
	return NewExporterWithLogger(nil)
}

// NewExporterWithLogger creates an Exporter with a custom logger
func NewExporterWithLogger(logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{logger: logger}
}

// WriteCueRecord writes the structured cue record as JSON
func (e *Exporter) WriteCueRecord(path string, cues []subtitle.Cue, rate float64) error {
	if cues == nil {
		cues = []subtitle.Cue{}
	}
	record := CueRecord{Subtitles: cues, OutputFrameRate: rate}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cue record: %w", err)
	}

	if err := e.writeFile(path, data); err != nil {
		return err
	}

	e.logger.Info("wrote subtitle cue record",
		zap.String("path", path),
		zap.Int("cue_count", len(cues)))
	return nil
}

// WriteSRT writes the cue list as an SRT subtitle file with sequential
// 1-based numbering and millisecond-precision timecodes
func (e *Exporter) WriteSRT(path string, cues []subtitle.Cue) error {
	var sb strings.Builder
	for i, cue := range cues {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", FormatSRTTime(cue.StartTime), FormatSRTTime(cue.EndTime)))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	if err := e.writeFile(path, []byte(sb.String())); err != nil {
		return err
	}

	e.logger.Info("wrote SRT subtitle file",
		zap.String("path", path),
		zap.Int("cue_count", len(cues)))
	return nil
}

// WriteCombinedText writes the flattened text document: cue texts joined by a
// full-width comma when there is more than one cue, the raw single text for
// one cue, and an empty string for none
func (e *Exporter) WriteCombinedText(path string, cues []subtitle.Cue) error {
	var text string
	switch len(cues) {
	case 0:
		text = ""
	case 1:
		text = cues[0].Text
	default:
		parts := make([]string, 0, len(cues))
		for _, cue := range cues {
			parts = append(parts, cue.Text)
		}
		text = strings.Join(parts, "，")
	}

	if err := e.writeFile(path, []byte(text)); err != nil {
		return err
	}

	e.logger.Info("wrote combined subtitle text",
		zap.String("path", path),
		zap.Int("cue_count", len(cues)))
	return nil
}

// WriteRawOutcomes writes the dispatcher's sorted per-frame outcome list as a
// diagnostics record mirroring the pre-merge state
func (e *Exporter) WriteRawOutcomes(path string, outcomes []analyzer.Outcome) error {
	if outcomes == nil {
		outcomes = []analyzer.Outcome{}
	}

	data, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal raw outcomes: %w", err)
	}

	if err := e.writeFile(path, data); err != nil {
		return err
	}

	e.logger.Info("wrote raw frame analysis record",
		zap.String("path", path),
		zap.Int("outcome_count", len(outcomes)))
	return nil
}

// writeFile creates the parent directory and writes the artifact
func (e *Exporter) writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// FormatSRTTime renders seconds as an SRT timecode (HH:MM:SS,mmm)
func FormatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	millis := int((seconds - float64(int(seconds))) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
