package summarizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"videosummarizer/internal/config"
)

// summaryPromptFormat wraps the merged subtitle and transcript content with
// instructions for a clean, standalone prose summary
const summaryPromptFormat = `Summarize the following video subtitle content:

%s

Provide a concise, comprehensive summary covering the main content and key points of the video.
The summary should stay coherent and logically structured, extracting the most important information.

Important:
1. Provide the summary directly, without lead-ins such as "Here is the summary".
2. Do not evaluate your own summary in the answer.
3. Do not add any meta description or commentary.`

// Summarizer generates a prose summary of the merged subtitle content through
// an OpenAI-compatible text completion endpoint
type Summarizer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewSummarizer creates a Summarizer from the application configuration
func NewSummarizer(cfg *config.Configuration) (*Summarizer, error) {
	return NewSummarizerWithLogger(cfg, nil)
}

// NewSummarizerWithLogger creates a Summarizer with a custom logger
func NewSummarizerWithLogger(cfg *config.Configuration, logger *zap.Logger) (*Summarizer, error) {
	apiKey := cfg.GetVisionAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("summarizer API key is not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL := cfg.GetVisionBaseURL(); baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &Summarizer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.GetSummaryModel(),
		logger: logger,
	}, nil
}

// GenerateSummary produces a summary of the given content
func (s *Summarizer) GenerateSummary(ctx context.Context, content string) (string, error) {
	s.logger.Info("generating video content summary",
		zap.Int("content_length", len(content)))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a helpful assistant."},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(summaryPromptFormat, content)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summary generation request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary generation returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateSummaryToFile generates a summary and writes it to the given path
func (s *Summarizer) GenerateSummaryToFile(ctx context.Context, content, outputPath string) (string, error) {
	summary, err := s.GenerateSummary(ctx, content)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create summary directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(summary), 0644); err != nil {
		return "", fmt.Errorf("failed to write summary to %s: %w", outputPath, err)
	}

	s.logger.Info("summary written",
		zap.String("path", outputPath),
		zap.Int("summary_length", len(summary)))

	return summary, nil
}
