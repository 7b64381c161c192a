package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestVideo creates a placeholder video file
func writeTestVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.mp4")
	require.NoError(t, os.WriteFile(path, []byte("video data"), 0644))
	return path
}

func TestNewProcessor(t *testing.T) {
	t.Run("should create processor for existing video", func(t *testing.T) {
		// Arrange
		videoPath := writeTestVideo(t)

		// Act
		processor, err := NewProcessor(videoPath)

		// Assert
		require.NoError(t, err)
		assert.NotNil(t, processor)
	})

	t.Run("should return error for missing video file", func(t *testing.T) {
		// Act
		_, err := NewProcessor(filepath.Join(t.TempDir(), "absent.mp4"))

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "video file does not exist")
	})

	t.Run("should return error when path is a directory", func(t *testing.T) {
		// Act
		_, err := NewProcessor(t.TempDir())

		// Assert
		assert.Error(t, err)
	})
}

func TestProcessor_ExtractFrames(t *testing.T) {
	t.Run("should invoke ffmpeg with fps filter and numbered output pattern", func(t *testing.T) {
		// Arrange
		videoPath := writeTestVideo(t)
		framesDir := filepath.Join(t.TempDir(), "frames")
		processor, err := NewProcessor(videoPath)
		require.NoError(t, err)

		var capturedName string
		var capturedArgs []string
		processor.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			capturedName = name
			capturedArgs = args
			// Simulate ffmpeg producing frames
			for i := 1; i <= 3; i++ {
				frame := filepath.Join(framesDir, fmt.Sprintf("frame_%06d.png", i))
				if err := os.WriteFile(frame, []byte("img"), 0644); err != nil {
					return err
				}
			}
			return nil
		})

		// Act
		frames, err := processor.ExtractFrames(context.Background(), framesDir, 2.0)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "ffmpeg", capturedName)
		assert.Contains(t, capturedArgs, "-vf")
		assert.Contains(t, capturedArgs, "fps=2")
		assert.Contains(t, capturedArgs, videoPath)
		assert.Contains(t, capturedArgs, filepath.Join(framesDir, "frame_%06d.png"))
		require.Len(t, frames, 3)
		assert.Equal(t, 1, frames[0].Index)
		assert.Equal(t, 3, frames[2].Index)
	})

	t.Run("should return error for non-positive frame rate", func(t *testing.T) {
		// Arrange
		processor, err := NewProcessor(writeTestVideo(t))
		require.NoError(t, err)

		// Act
		_, err = processor.ExtractFrames(context.Background(), t.TempDir(), 0)

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "frame rate must be positive")
	})

	t.Run("should propagate ffmpeg failure", func(t *testing.T) {
		// Arrange
		processor, err := NewProcessor(writeTestVideo(t))
		require.NoError(t, err)
		processor.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			return errors.New("exit status 1")
		})

		// Act
		_, err = processor.ExtractFrames(context.Background(), filepath.Join(t.TempDir(), "frames"), 1.0)

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "frame extraction failed")
	})

	t.Run("should return error when ffmpeg produces no frames", func(t *testing.T) {
		// Arrange
		processor, err := NewProcessor(writeTestVideo(t))
		require.NoError(t, err)
		processor.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			return nil
		})

		// Act
		_, err = processor.ExtractFrames(context.Background(), filepath.Join(t.TempDir(), "frames"), 1.0)

		// Assert
		assert.Error(t, err)
	})
}

func TestProcessor_ExtractAudio(t *testing.T) {
	t.Run("should invoke ffmpeg with 16kHz mono PCM arguments", func(t *testing.T) {
		// Arrange
		videoPath := writeTestVideo(t)
		audioPath := filepath.Join(t.TempDir(), "audio", "input.wav")
		processor, err := NewProcessor(videoPath)
		require.NoError(t, err)

		var capturedArgs []string
		processor.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			capturedArgs = args
			return nil
		})

		// Act
		err = processor.ExtractAudio(context.Background(), audioPath)

		// Assert
		require.NoError(t, err)
		assert.Contains(t, capturedArgs, "-vn")
		assert.Contains(t, capturedArgs, "pcm_s16le")
		assert.Contains(t, capturedArgs, "16000")
		assert.Contains(t, capturedArgs, "-ac")
		assert.Contains(t, capturedArgs, audioPath)
	})

	t.Run("should propagate ffmpeg failure", func(t *testing.T) {
		// Arrange
		processor, err := NewProcessor(writeTestVideo(t))
		require.NoError(t, err)
		processor.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			return errors.New("exit status 1")
		})

		// Act
		err = processor.ExtractAudio(context.Background(), filepath.Join(t.TempDir(), "out.wav"))

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "audio extraction failed")
	})
}
