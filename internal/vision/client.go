package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"videosummarizer/internal/config"
)

// subtitlePrompt instructs the vision model to return only genuine subtitle
// text, distinguishing it from UI elements, and to answer with the sentinel
// when the frame carries no subtitle.
const subtitlePrompt = `Identify and extract the subtitle text shown in this screenshot.
Subtitles are on-screen text that narrates or transcribes the content, closely tied to what is happening in the picture.
Distinguish subtitles from UI elements such as menus, status bars, scoreboards, or player names.
Return only the genuine subtitle text and ignore all text inside UI elements.
Do not add any explanation or description, output the subtitle content itself.
If no subtitle is visible, reply exactly with 'no subtitle'.`

// Client recognizes on-screen subtitle text in video frames through an
// OpenAI-compatible vision endpoint. It implements analyzer.Recognizer.
type Client struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewClient creates a vision Client from the application configuration
func NewClient(cfg *config.Configuration) (*Client, error) {
	return NewClientWithLogger(cfg, nil)
}

// NewClientWithLogger creates a vision Client with a custom logger
func NewClientWithLogger(cfg *config.Configuration, logger *zap.Logger) (*Client, error) {
	apiKey := cfg.GetVisionAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("vision API key is not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL := cfg.GetVisionBaseURL(); baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.GetVisionModel(),
		logger: logger,
	}, nil
}

// Recognize sends one frame image to the vision model and returns the
// recognized subtitle text. The sentinel "no subtitle" is a valid answer
// meaning the frame was examined and carries nothing to show.
func (c *Client) Recognize(ctx context.Context, framePath string) (string, error) {
	imageBase64, err := encodeImage(framePath)
	if err != nil {
		return "", err
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful assistant.",
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: subtitlePrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: fmt.Sprintf("data:image/jpeg;base64,%s", imageBase64),
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision recognition request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision recognition returned no choices")
	}

	text := resp.Choices[0].Message.Content
	c.logger.Debug("frame recognized by vision model",
		zap.String("frame", framePath),
		zap.String("text", text))

	return text, nil
}

// encodeImage reads a frame image and returns its base64 encoding
func encodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read frame image %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
