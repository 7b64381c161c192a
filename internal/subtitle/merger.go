package subtitle

import (
	"fmt"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"videosummarizer/internal/analyzer"
	"videosummarizer/internal/timeline"
)

// Merger collapses the deterministic, index-ordered sequence of per-frame
// recognized text into a minimal set of time-bounded cues. A genuine subtitle
// persists across several consecutive sampled frames; consecutive frames
// whose text is similar enough are treated as the same cue.
type Merger struct {
	rate      float64
	threshold float64
	logger    *zap.Logger
}

// NewMerger creates a Merger for the given output frame rate and similarity threshold.
// The rate is a batch precondition: a non-positive value aborts before merging.
func NewMerger(rate, threshold float64) (*Merger, error) {
	return NewMergerWithLogger(rate, threshold, nil)
}

// NewMergerWithLogger creates a Merger with a custom logger
func NewMergerWithLogger(rate, threshold float64, logger *zap.Logger) (*Merger, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("output frame rate must be positive, got %v", rate)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{rate: rate, threshold: threshold, logger: logger}, nil
}

// Similarity scores two texts in [0,1]. Identical strings score 1.0; an empty
// string against a non-empty one scores 0; otherwise the score is the
// normalized Levenshtein ratio, monotonic in edit distance.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}

	lenA := utf8.RuneCountInString(a)
	lenB := utf8.RuneCountInString(b)
	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}

	distance := fuzzy.LevenshteinDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}

// MergeOutcomes merges the ordered outcome sequence using the configured threshold
func (m *Merger) MergeOutcomes(outcomes []analyzer.Outcome) ([]Cue, error) {
	return m.MergeOutcomesWithThreshold(outcomes, m.threshold)
}

// MergeOutcomesWithThreshold merges the ordered outcome sequence with a
// per-call similarity threshold override. Sentinel outcomes are skipped; a
// single surviving frame yields a degenerate cue with start == end; an empty
// input yields an empty cue list.
func (m *Merger) MergeOutcomesWithThreshold(outcomes []analyzer.Outcome, threshold float64) ([]Cue, error) {
	cues := make([]Cue, 0)
	var currentCue *Cue

	for _, outcome := range outcomes {
		if outcome.Text == analyzer.AnalysisFailedText || outcome.Text == analyzer.NoSubtitleText {
			continue
		}

		ts, err := timeline.Timestamp(outcome.FrameIndex, m.rate)
		if err != nil {
			return nil, fmt.Errorf("failed to compute timestamp for frame %d: %w", outcome.FrameIndex, err)
		}

		if currentCue == nil {
			currentCue = &Cue{Text: outcome.Text, StartTime: ts, EndTime: ts}
			continue
		}

		score := Similarity(outcome.Text, currentCue.Text)
		if score >= threshold {
			// Continuation of the same on-screen subtitle
			currentCue.EndTime = ts
			continue
		}

		m.logger.Debug("flushing subtitle cue",
			zap.String("text", currentCue.Text),
			zap.Float64("start", currentCue.StartTime),
			zap.Float64("end", currentCue.EndTime),
			zap.Float64("similarity", score))

		cues = append(cues, *currentCue)
		currentCue = &Cue{Text: outcome.Text, StartTime: ts, EndTime: ts}
	}

	if currentCue != nil {
		cues = append(cues, *currentCue)
	}

	m.logger.Info("merged frame outcomes into subtitle cues",
		zap.Int("outcome_count", len(outcomes)),
		zap.Int("cue_count", len(cues)))

	return cues, nil
}
