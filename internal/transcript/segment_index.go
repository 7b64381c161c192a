package transcript

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// boundarySlack absorbs timestamp rounding at segment edges during lookup
const boundarySlack = 0.1

// Segment represents one recognized speech interval from the transcription output
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Validate checks if the Segment has valid values
func (s *Segment) Validate() error {
	if s.Start < 0 {
		return fmt.Errorf("start cannot be negative")
	}
	if s.End < s.Start {
		return fmt.Errorf("end must not be before start")
	}
	return nil
}

// SegmentIndex holds the ordered speech segments of one transcription batch.
// Segments are assumed non-overlapping and ordered by start time; the index
// consumes that ordering but does not enforce it.
type SegmentIndex struct {
	segments []*Segment
	logger   *zap.Logger
}

// transcriptFile mirrors the transcription JSON produced by the audio transcriber
type transcriptFile struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// NewSegmentIndex creates a SegmentIndex over the given segments
func NewSegmentIndex(segments []Segment) *SegmentIndex {
	return NewSegmentIndexWithLogger(segments, nil)
}

// NewSegmentIndexWithLogger creates a SegmentIndex over the given segments with a custom logger
func NewSegmentIndexWithLogger(segments []Segment, logger *zap.Logger) *SegmentIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	ptrs := make([]*Segment, len(segments))
	for i := range segments {
		ptrs[i] = &segments[i]
	}
	return &SegmentIndex{segments: ptrs, logger: logger}
}

// LoadSegmentIndex reads the transcript JSON file and builds a SegmentIndex.
// A missing or unreadable file degrades to an empty index with a warning;
// the sampler then falls back to pure-silence sampling.
func LoadSegmentIndex(path string, logger *zap.Logger) *SegmentIndex {
	if logger == nil {
		logger = zap.NewNop()
	}

	if path == "" {
		logger.Warn("no transcript path provided, speech timeline unavailable")
		return NewSegmentIndexWithLogger(nil, logger)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("failed to read transcript file, continuing without speech timeline",
			zap.String("path", path),
			zap.Error(err))
		return NewSegmentIndexWithLogger(nil, logger)
	}

	var tf transcriptFile
	if err := json.Unmarshal(data, &tf); err != nil {
		logger.Warn("failed to parse transcript file, continuing without speech timeline",
			zap.String("path", path),
			zap.Error(err))
		return NewSegmentIndexWithLogger(nil, logger)
	}

	logger.Info("loaded speech segments from transcript",
		zap.String("path", path),
		zap.Int("segment_count", len(tf.Segments)))

	return NewSegmentIndexWithLogger(tf.Segments, logger)
}

// Len returns the number of segments in the index
func (si *SegmentIndex) Len() int {
	return len(si.segments)
}

// Segments returns the underlying segments in index order
func (si *SegmentIndex) Segments() []*Segment {
	return si.segments
}

// SegmentAt returns the segment whose interval contains the given timestamp,
// or nil if none does. Interval edges tolerate a small slack to absorb
// timestamp rounding. The returned pointer is stable for the lifetime of the
// index, so callers may compare segments by identity to detect transitions;
// two textually identical but distinct segments are still different segments.
func (si *SegmentIndex) SegmentAt(timestamp float64) *Segment {
	for _, segment := range si.segments {
		if segment.Start-boundarySlack <= timestamp && timestamp <= segment.End+boundarySlack {
			return segment
		}
	}
	return nil
}
