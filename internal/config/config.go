package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Configuration provides type-safe access to application settings
type Configuration struct {
	viper *viper.Viper
}

// setDefaults applies the default settings shared by all constructors
func setDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", "output")
	v.SetDefault("video.frame_rate", 1.0)
	v.SetDefault("video.description", "")
	v.SetDefault("sampler.silent_interval", 1.0)
	v.SetDefault("sampler.segment_interval", 2.0)
	v.SetDefault("analysis.max_workers", 8)
	v.SetDefault("subtitle.similarity_threshold", 0.95)
	v.SetDefault("summary.min_input_length", 50)
	v.SetDefault("summary.model", "qwen-plus")
	v.SetDefault("vision.model", "qwen-vl-max-latest")
	v.SetDefault("vision.base_url", "https://dashscope.aliyuncs.com/compatible-mode/v1")
	v.SetDefault("whisper.binary", "whisper")
	v.SetDefault("whisper.model_size", "tiny")
}

// NewConfiguration creates a new Configuration instance with default settings
func NewConfiguration() *Configuration {
	v := viper.New()
	setDefaults(v)
	return &Configuration{viper: v}
}

// NewConfigurationFromFile creates a Configuration instance from a config file
func NewConfigurationFromFile(configFile string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	return &Configuration{viper: v}, nil
}

// NewConfigurationFromEnv creates a Configuration instance that reads from environment variables
func NewConfigurationFromEnv() (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	// Set up environment variable mapping
	v.SetEnvPrefix("VIDSUM")
	v.AutomaticEnv()

	// Map specific environment variables
	v.BindEnv("output.dir", "OUTPUT_DIR")
	v.BindEnv("video.frame_rate", "OUTPUT_FRAME_RATE")
	v.BindEnv("vision.api_key", "QWEN_API_KEY")
	v.BindEnv("vision.base_url", "QWEN_BASE_URL")
	v.BindEnv("vision.model", "QWEN_VISION_MODEL")
	v.BindEnv("summary.model", "QWEN_TEXT_MODEL")
	v.BindEnv("whisper.binary", "WHISPER_BINARY")
	v.BindEnv("whisper.model_size", "WHISPER_MODEL_SIZE")

	return &Configuration{viper: v}, nil
}

// GetOutputDir returns the configured output directory
func (c *Configuration) GetOutputDir() string {
	return c.viper.GetString("output.dir")
}

// SetOutputDir overrides the output directory for the current batch
func (c *Configuration) SetOutputDir(dir string) {
	c.viper.Set("output.dir", dir)
}

// GetFrameRate returns the configured output frame rate in frames per second
func (c *Configuration) GetFrameRate() float64 {
	return c.viper.GetFloat64("video.frame_rate")
}

// SetFrameRate overrides the output frame rate for the current batch
func (c *Configuration) SetFrameRate(rate float64) {
	c.viper.Set("video.frame_rate", rate)
}

// GetVideoDescription returns the optional caller-supplied video description
func (c *Configuration) GetVideoDescription() string {
	return c.viper.GetString("video.description")
}

// SetVideoDescription overrides the video description for the current batch
func (c *Configuration) SetVideoDescription(description string) {
	c.viper.Set("video.description", description)
}

// GetSilentInterval returns the minimum seconds between samples during silence
func (c *Configuration) GetSilentInterval() float64 {
	return c.viper.GetFloat64("sampler.silent_interval")
}

// GetSegmentInterval returns the minimum seconds between samples inside a speech segment.
// A non-positive value means frames are sampled only at segment boundaries.
func (c *Configuration) GetSegmentInterval() float64 {
	return c.viper.GetFloat64("sampler.segment_interval")
}

// GetMaxWorkers returns the concurrency limit for frame analysis
func (c *Configuration) GetMaxWorkers() int {
	workers := c.viper.GetInt("analysis.max_workers")
	if workers < 1 {
		return 1
	}
	return workers
}

// GetSimilarityThreshold returns the text similarity threshold for merging subtitles
func (c *Configuration) GetSimilarityThreshold() float64 {
	return c.viper.GetFloat64("subtitle.similarity_threshold")
}

// GetMinSummaryInputLength returns the minimum character count required to attempt a summary
func (c *Configuration) GetMinSummaryInputLength() int {
	return c.viper.GetInt("summary.min_input_length")
}

// GetSummaryModel returns the text model used for summary generation
func (c *Configuration) GetSummaryModel() string {
	return c.viper.GetString("summary.model")
}

// GetVisionAPIKey returns the API key for the vision recognition service
func (c *Configuration) GetVisionAPIKey() string {
	return c.viper.GetString("vision.api_key")
}

// GetVisionBaseURL returns the OpenAI-compatible base URL for the vision service
func (c *Configuration) GetVisionBaseURL() string {
	return c.viper.GetString("vision.base_url")
}

// GetVisionModel returns the vision model used for frame recognition
func (c *Configuration) GetVisionModel() string {
	return c.viper.GetString("vision.model")
}

// GetWhisperBinary returns the whisper executable used for audio transcription
func (c *Configuration) GetWhisperBinary() string {
	return c.viper.GetString("whisper.binary")
}

// GetWhisperModelSize returns the whisper model size (tiny, base, small, medium, large)
func (c *Configuration) GetWhisperModelSize() string {
	return c.viper.GetString("whisper.model_size")
}
