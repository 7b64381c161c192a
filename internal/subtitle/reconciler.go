package subtitle

import (
	"math"

	"go.uber.org/zap"

	"videosummarizer/internal/transcript"
)

// boundaryTolerance is the divergence below which a cue boundary is left
// alone. Visual and audio boundaries routinely disagree by a fraction of a
// second; adjusting only past the tolerance avoids oscillating corrections.
const boundaryTolerance = 0.5

// Reconciler aligns cue boundaries to the independently-derived speech
// timeline. Only the segment containing the cue midpoint is considered, so a
// cue spanning a segment boundary is reconciled against whichever segment
// holds its center.
type Reconciler struct {
	segments *transcript.SegmentIndex
	logger   *zap.Logger
}

// NewReconciler creates a Reconciler over the given speech segment index
func NewReconciler(segments *transcript.SegmentIndex) *Reconciler {
	return NewReconcilerWithLogger(segments, nil)
}

// NewReconcilerWithLogger creates a Reconciler with a custom logger
func NewReconcilerWithLogger(segments *transcript.SegmentIndex, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{segments: segments, logger: logger}
}

// Reconcile adjusts cue boundaries in place. For each cue, the speech segment
// containing the cue midpoint is looked up; each boundary whose divergence
// from the segment's edge exceeds the tolerance snaps to that edge.
func (r *Reconciler) Reconcile(cues []Cue) {
	if r.segments == nil || r.segments.Len() == 0 || len(cues) == 0 {
		return
	}

	adjusted := 0
	for i := range cues {
		segment := r.segments.SegmentAt(cues[i].Midpoint())
		if segment == nil {
			continue
		}

		moved := false
		if math.Abs(segment.Start-cues[i].StartTime) > boundaryTolerance {
			r.logger.Debug("snapping cue start to segment boundary",
				zap.Float64("cue_start", cues[i].StartTime),
				zap.Float64("segment_start", segment.Start))
			cues[i].StartTime = segment.Start
			moved = true
		}
		if math.Abs(segment.End-cues[i].EndTime) > boundaryTolerance {
			r.logger.Debug("snapping cue end to segment boundary",
				zap.Float64("cue_end", cues[i].EndTime),
				zap.Float64("segment_end", segment.End))
			cues[i].EndTime = segment.End
			moved = true
		}
		if moved {
			adjusted++
		}
	}

	r.logger.Info("reconciled cue boundaries against speech timeline",
		zap.Int("cue_count", len(cues)),
		zap.Int("adjusted", adjusted))
}
