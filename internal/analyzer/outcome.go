package analyzer

import "fmt"

// Sentinel texts standing in for recognized content. They are retained in the
// outcome sequence and filtered by the subtitle merger, never by the dispatcher.
const (
	// NoSubtitleText means the frame was examined and carries nothing to show
	NoSubtitleText = "no subtitle"
	// AnalysisFailedText marks a frame whose recognition call failed
	AnalysisFailedText = "analysis failed"
)

// Outcome is the result of analyzing one selected frame. Exactly one of
// recognized text or the failure marker is meaningful: a failed outcome
// carries AnalysisFailedText plus the error detail.
type Outcome struct {
	FrameIndex int    `json:"frame_index"`
	Text       string `json:"text"`
	Failed     bool   `json:"failed,omitempty"`
	Err        string `json:"error,omitempty"`
}

// Validate checks if the Outcome has valid values
func (o *Outcome) Validate() error {
	if o.FrameIndex <= 0 {
		return fmt.Errorf("frame index must be positive")
	}
	if o.Failed && o.Err == "" {
		return fmt.Errorf("failed outcome must carry error detail")
	}
	if !o.Failed && o.Err != "" {
		return fmt.Errorf("successful outcome must not carry error detail")
	}
	return nil
}
