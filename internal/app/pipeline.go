package app

import (
	"context"

	"go.uber.org/zap"

	"videosummarizer/internal/analyzer"
	"videosummarizer/internal/config"
	"videosummarizer/internal/export"
	"videosummarizer/internal/sampler"
	"videosummarizer/internal/subtitle"
	"videosummarizer/internal/timeline"
	"videosummarizer/internal/transcript"
)

// ArtifactPaths names the output artifacts of one pipeline run
type ArtifactPaths struct {
	CueRecord    string
	SRT          string
	CombinedText string
	RawOutcomes  string
}

// PipelineResult carries the final cue list and the raw per-frame outcomes
type PipelineResult struct {
	Cues     []subtitle.Cue
	Outcomes []analyzer.Outcome
}

// Pipeline runs the core subtitle extraction over an already-materialized
// frame set: adaptive sampling, bounded-concurrency analysis, cue merging,
// boundary reconciliation, and artifact export
type Pipeline struct {
	cfg        *config.Configuration
	recognizer analyzer.Recognizer
	logger     *zap.Logger
}

// NewPipeline creates a Pipeline with the given configuration and recognizer
func NewPipeline(cfg *config.Configuration, recognizer analyzer.Recognizer) *Pipeline {
	return NewPipelineWithLogger(cfg, recognizer, nil)
}

// NewPipelineWithLogger creates a Pipeline with a custom logger
func NewPipelineWithLogger(cfg *config.Configuration, recognizer analyzer.Recognizer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, recognizer: recognizer, logger: logger}
}

// ProcessFrames runs the full core pipeline over the frame directory and the
// speech transcript, writing every artifact named in paths. Fatal
// preconditions (bad rate, missing frames) abort; artifact write failures are
// logged and the batch continues, so a partial artifact set never aborts an
// otherwise complete run.
func (p *Pipeline) ProcessFrames(ctx context.Context, framesDir, transcriptPath string, paths ArtifactPaths) (*PipelineResult, error) {
	rate := p.cfg.GetFrameRate()

	frameSampler, err := sampler.NewAdaptiveSamplerWithLogger(
		rate,
		p.cfg.GetSilentInterval(),
		p.cfg.GetSegmentInterval(),
		p.logger,
	)
	if err != nil {
		return nil, err
	}

	merger, err := subtitle.NewMergerWithLogger(rate, p.cfg.GetSimilarityThreshold(), p.logger)
	if err != nil {
		return nil, err
	}

	frames, err := timeline.ListFrames(framesDir, p.logger)
	if err != nil {
		return nil, err
	}

	segments := transcript.LoadSegmentIndex(transcriptPath, p.logger)

	selections := frameSampler.SelectFrames(frames, segments)

	dispatcher := analyzer.NewDispatcherWithLogger(p.recognizer, p.cfg.GetMaxWorkers(), p.logger)
	outcomes := dispatcher.AnalyzeFrames(ctx, selections)

	exporter := export.NewExporterWithLogger(p.logger)
	if paths.RawOutcomes != "" {
		if err := exporter.WriteRawOutcomes(paths.RawOutcomes, outcomes); err != nil {
			p.logger.Warn("failed to write raw analysis record", zap.Error(err))
		}
	}

	cues, err := merger.MergeOutcomes(outcomes)
	if err != nil {
		return nil, err
	}

	reconciler := subtitle.NewReconcilerWithLogger(segments, p.logger)
	reconciler.Reconcile(cues)

	// All artifacts are written even when the cue list is empty, so a
	// completed batch never leaves a missing output file behind.
	if paths.CueRecord != "" {
		if err := exporter.WriteCueRecord(paths.CueRecord, cues, rate); err != nil {
			p.logger.Warn("failed to write cue record", zap.Error(err))
		}
	}
	if paths.SRT != "" {
		if err := exporter.WriteSRT(paths.SRT, cues); err != nil {
			p.logger.Warn("failed to write SRT file", zap.Error(err))
		}
	}
	if paths.CombinedText != "" {
		if err := exporter.WriteCombinedText(paths.CombinedText, cues); err != nil {
			p.logger.Warn("failed to write combined text", zap.Error(err))
		}
	}

	return &PipelineResult{Cues: cues, Outcomes: outcomes}, nil
}
