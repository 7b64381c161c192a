package logger

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewLogger creates a new zap logger with default configuration
func NewLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		// Fallback to no-op logger if production logger fails
		return zap.NewNop()
	}
	return logger
}

// NewProductionLogger creates a new zap logger configured for production use
func NewProductionLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build production logger: %w", err)
	}
	return logger, nil
}

// NewDevelopmentLogger creates a new zap logger configured for development use
func NewDevelopmentLogger() (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build development logger: %w", err)
	}
	return logger, nil
}

// NewBatchLogger derives a logger scoped to a single processing batch,
// tagging every entry with a generated batch ID and the video name.
// It returns the batch ID so callers can correlate output artifacts.
func NewBatchLogger(base *zap.Logger, videoName string) (*zap.Logger, string) {
	if base == nil {
		base = zap.NewNop()
	}
	batchID := uuid.NewString()
	return base.With(
		zap.String("batch_id", batchID),
		zap.String("video", videoName),
	), batchID
}
