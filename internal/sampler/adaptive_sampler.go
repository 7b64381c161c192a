package sampler

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"videosummarizer/internal/timeline"
	"videosummarizer/internal/transcript"
)

// Selection is one frame chosen for expensive recognition
type Selection struct {
	Index int
	Path  string
}

// AdaptiveSampler walks all frames in index order and selects the subset worth
// sending to the recognition service, biasing sampling density toward moments
// where the on-screen content is likely to change. The speech timeline is the
// cheap proxy signal: segment transitions always trigger a sample, and the
// silent/segment intervals throttle samples between transitions.
type AdaptiveSampler struct {
	rate            float64
	silentInterval  float64
	segmentInterval float64
	logger          *zap.Logger
}

// NewAdaptiveSampler creates an AdaptiveSampler for the given output frame rate.
// The rate is a batch precondition: a non-positive value aborts before sampling.
func NewAdaptiveSampler(rate, silentInterval, segmentInterval float64) (*AdaptiveSampler, error) {
	return NewAdaptiveSamplerWithLogger(rate, silentInterval, segmentInterval, nil)
}

// NewAdaptiveSamplerWithLogger creates an AdaptiveSampler with a custom logger
func NewAdaptiveSamplerWithLogger(rate, silentInterval, segmentInterval float64, logger *zap.Logger) (*AdaptiveSampler, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("output frame rate must be positive, got %v", rate)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdaptiveSampler{
		rate:            rate,
		silentInterval:  silentInterval,
		segmentInterval: segmentInterval,
		logger:          logger,
	}, nil
}

// SelectFrames performs the single-pass adaptive selection over the ordered
// frame list. The result is a strict subset of the input, monotonic in index.
// Frames without a determinable index are skipped with a warning.
func (as *AdaptiveSampler) SelectFrames(frames []timeline.FrameRef, segments *transcript.SegmentIndex) []Selection {
	if segments == nil {
		segments = transcript.NewSegmentIndex(nil)
	}

	as.logger.Info("starting adaptive frame selection",
		zap.Int("frame_count", len(frames)),
		zap.Float64("silent_interval", as.silentInterval),
		zap.Float64("segment_interval", as.segmentInterval))

	selected := make([]Selection, 0, len(frames))
	lastSampledTime := -1.0
	var lastSegment *transcript.Segment

	for _, frame := range frames {
		if frame.Index <= 0 {
			as.logger.Warn("cannot determine frame index, skipping frame",
				zap.String("frame", filepath.Base(frame.Path)))
			continue
		}

		ts, err := timeline.Timestamp(frame.Index, as.rate)
		if err != nil {
			// Unreachable after constructor validation, kept for safety
			as.logger.Warn("cannot compute frame timestamp, skipping frame",
				zap.String("frame", filepath.Base(frame.Path)),
				zap.Error(err))
			continue
		}

		segment := segments.SegmentAt(ts)
		sample := false

		switch {
		case lastSampledTime < 0:
			// Always sample the first frame of the batch
			sample = true
			as.logger.Debug("sampling first frame",
				zap.String("frame", filepath.Base(frame.Path)))

		case segment != lastSegment:
			// Segment membership changed: entering a segment, leaving into
			// silence, or switching between distinct segments. Compared by
			// identity, not text, so adjacent segments with identical text
			// still count as a transition.
			sample = true
			as.logger.Debug("sampling at segment transition",
				zap.String("frame", filepath.Base(frame.Path)),
				zap.Float64("timestamp", ts),
				zap.Bool("in_segment", segment != nil))

		case segment == nil:
			if ts-lastSampledTime >= as.silentInterval {
				sample = true
				as.logger.Debug("sampling in silence",
					zap.String("frame", filepath.Base(frame.Path)),
					zap.Float64("elapsed", ts-lastSampledTime))
			}

		case as.segmentInterval > 0:
			if ts-lastSampledTime >= as.segmentInterval {
				sample = true
				as.logger.Debug("sampling inside segment",
					zap.String("frame", filepath.Base(frame.Path)),
					zap.Float64("elapsed", ts-lastSampledTime))
			}
		}

		if sample {
			selected = append(selected, Selection{Index: frame.Index, Path: frame.Path})
			lastSampledTime = ts
			lastSegment = segment
		}
	}

	as.logger.Info("adaptive frame selection completed",
		zap.Int("selected", len(selected)),
		zap.Int("total", len(frames)))

	return selected
}
