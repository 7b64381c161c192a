package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfiguration(t *testing.T) {
	t.Run("should provide sensible defaults", func(t *testing.T) {
		// Act
		cfg := NewConfiguration()

		// Assert
		assert.Equal(t, "output", cfg.GetOutputDir())
		assert.Equal(t, 1.0, cfg.GetFrameRate())
		assert.Equal(t, "", cfg.GetVideoDescription())
		assert.Equal(t, 1.0, cfg.GetSilentInterval())
		assert.Equal(t, 2.0, cfg.GetSegmentInterval())
		assert.Equal(t, 8, cfg.GetMaxWorkers())
		assert.Equal(t, 0.95, cfg.GetSimilarityThreshold())
		assert.Equal(t, 50, cfg.GetMinSummaryInputLength())
		assert.Equal(t, "qwen-plus", cfg.GetSummaryModel())
		assert.Equal(t, "qwen-vl-max-latest", cfg.GetVisionModel())
		assert.Equal(t, "whisper", cfg.GetWhisperBinary())
		assert.Equal(t, "tiny", cfg.GetWhisperModelSize())
	})
}

func TestNewConfigurationFromFile(t *testing.T) {
	t.Run("should load settings from a YAML config file", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
output:
  dir: /data/out
video:
  frame_rate: 2.5
sampler:
  silent_interval: 0.5
  segment_interval: 3.0
analysis:
  max_workers: 4
subtitle:
  similarity_threshold: 0.9
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		// Act
		cfg, err := NewConfigurationFromFile(path)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "/data/out", cfg.GetOutputDir())
		assert.Equal(t, 2.5, cfg.GetFrameRate())
		assert.Equal(t, 0.5, cfg.GetSilentInterval())
		assert.Equal(t, 3.0, cfg.GetSegmentInterval())
		assert.Equal(t, 4, cfg.GetMaxWorkers())
		assert.Equal(t, 0.9, cfg.GetSimilarityThreshold())
	})

	t.Run("should keep defaults for keys absent from the file", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("video:\n  frame_rate: 5.0\n"), 0644))

		// Act
		cfg, err := NewConfigurationFromFile(path)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 5.0, cfg.GetFrameRate())
		assert.Equal(t, "output", cfg.GetOutputDir())
		assert.Equal(t, 8, cfg.GetMaxWorkers())
	})

	t.Run("should return error for missing config file", func(t *testing.T) {
		// Act
		_, err := NewConfigurationFromFile(filepath.Join(t.TempDir(), "absent.yaml"))

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}

func TestNewConfigurationFromEnv(t *testing.T) {
	t.Run("should read mapped environment variables", func(t *testing.T) {
		// Arrange
		t.Setenv("OUTPUT_DIR", "/env/out")
		t.Setenv("OUTPUT_FRAME_RATE", "3.0")
		t.Setenv("QWEN_API_KEY", "test-key")
		t.Setenv("WHISPER_MODEL_SIZE", "base")

		// Act
		cfg, err := NewConfigurationFromEnv()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "/env/out", cfg.GetOutputDir())
		assert.Equal(t, 3.0, cfg.GetFrameRate())
		assert.Equal(t, "test-key", cfg.GetVisionAPIKey())
		assert.Equal(t, "base", cfg.GetWhisperModelSize())
	})

	t.Run("should fall back to defaults when environment is empty", func(t *testing.T) {
		// Act
		cfg, err := NewConfigurationFromEnv()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "output", cfg.GetOutputDir())
		assert.Equal(t, 1.0, cfg.GetFrameRate())
	})
}

func TestConfiguration_Overrides(t *testing.T) {
	t.Run("should override output directory", func(t *testing.T) {
		// Arrange
		cfg := NewConfiguration()

		// Act
		cfg.SetOutputDir("/custom/out")

		// Assert
		assert.Equal(t, "/custom/out", cfg.GetOutputDir())
	})

	t.Run("should override frame rate", func(t *testing.T) {
		// Arrange
		cfg := NewConfiguration()

		// Act
		cfg.SetFrameRate(10.0)

		// Assert
		assert.Equal(t, 10.0, cfg.GetFrameRate())
	})

	t.Run("should override video description", func(t *testing.T) {
		// Arrange
		cfg := NewConfiguration()

		// Act
		cfg.SetVideoDescription("a cooking tutorial")

		// Assert
		assert.Equal(t, "a cooking tutorial", cfg.GetVideoDescription())
	})
}

func TestConfiguration_GetMaxWorkers(t *testing.T) {
	t.Run("should floor non-positive worker count at one", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("analysis:\n  max_workers: 0\n"), 0644))
		cfg, err := NewConfigurationFromFile(path)
		require.NoError(t, err)

		// Act / Assert
		assert.Equal(t, 1, cfg.GetMaxWorkers())
	})
}
