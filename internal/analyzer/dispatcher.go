package analyzer

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"

	"videosummarizer/internal/sampler"
)

// Recognizer is the external per-frame recognition call. It may block on
// network I/O and may fail; failures are isolated at the task boundary.
type Recognizer interface {
	Recognize(ctx context.Context, framePath string) (string, error)
}

// Dispatcher runs the recognition call over the selected frame subset under
// bounded parallelism and restores deterministic frame-index order before
// handing results downstream. Completion order of concurrent tasks is
// unspecified; the output contract is the post-sort order.
type Dispatcher struct {
	recognizer Recognizer
	maxWorkers int
	logger     *zap.Logger
}

// NewDispatcher creates a Dispatcher with the given recognizer and worker limit
func NewDispatcher(recognizer Recognizer, maxWorkers int) *Dispatcher {
	return NewDispatcherWithLogger(recognizer, maxWorkers, nil)
}

// NewDispatcherWithLogger creates a Dispatcher with a custom logger
func NewDispatcherWithLogger(recognizer Recognizer, maxWorkers int, logger *zap.Logger) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		recognizer: recognizer,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// AnalyzeFrames submits one recognition task per selected frame, runs them
// with at most maxWorkers in flight, and returns all outcomes sorted
// ascending by frame index. Individual task errors become failure outcomes;
// they never abort sibling tasks or the batch.
func (d *Dispatcher) AnalyzeFrames(ctx context.Context, selections []sampler.Selection) []Outcome {
	if len(selections) == 0 {
		return []Outcome{}
	}

	d.logger.Info("starting parallel frame analysis",
		zap.Int("frame_count", len(selections)),
		zap.Int("max_workers", d.maxWorkers))

	// Each task owns exclusively its own result slot, so no further
	// synchronization is needed on the results slice.
	outcomes := make([]Outcome, len(selections))
	tasks := make(chan int)

	var wg sync.WaitGroup
	workers := d.maxWorkers
	if workers > len(selections) {
		workers = len(selections)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				outcomes[i] = d.analyzeFrame(ctx, selections[i])
			}
		}()
	}

	for i := range selections {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	// Mandatory: restore deterministic order regardless of completion order.
	// The merger's contiguity assumption depends on it.
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].FrameIndex < outcomes[j].FrameIndex
	})

	failures := 0
	for _, outcome := range outcomes {
		if outcome.Failed {
			failures++
		}
	}
	if failures > 0 {
		d.logger.Warn("frame analysis completed with task failures",
			zap.Int("failed", failures),
			zap.Int("total", len(outcomes)))
	} else {
		d.logger.Info("frame analysis completed",
			zap.Int("total", len(outcomes)))
	}

	return outcomes
}

// analyzeFrame runs a single recognition task, converting every failure mode
// into a failure outcome at the task boundary
func (d *Dispatcher) analyzeFrame(ctx context.Context, selection sampler.Selection) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("recognition task panic recovered",
				zap.Int("frame_index", selection.Index),
				zap.Any("panic", r))
			outcome = failureOutcome(selection.Index, fmt.Sprintf("panic: %v", r))
		}
	}()

	if _, err := os.Stat(selection.Path); err != nil {
		d.logger.Error("selected frame file is not readable",
			zap.Int("frame_index", selection.Index),
			zap.String("path", selection.Path),
			zap.Error(err))
		return failureOutcome(selection.Index, fmt.Sprintf("frame file not readable: %v", err))
	}

	text, err := d.recognizer.Recognize(ctx, selection.Path)
	if err != nil {
		d.logger.Error("frame recognition failed",
			zap.Int("frame_index", selection.Index),
			zap.String("path", selection.Path),
			zap.Error(err))
		return failureOutcome(selection.Index, err.Error())
	}

	d.logger.Debug("frame recognized",
		zap.Int("frame_index", selection.Index),
		zap.String("text", text))

	return Outcome{FrameIndex: selection.Index, Text: text}
}

// failureOutcome builds the failure marker outcome for a frame
func failureOutcome(index int, detail string) Outcome {
	return Outcome{
		FrameIndex: index,
		Text:       AnalysisFailedText,
		Failed:     true,
		Err:        detail,
	}
}
