package timeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// FrameRef identifies one extracted video frame by its ordinal index and file path
type FrameRef struct {
	Index int
	Path  string
}

// Timestamp returns the playback time in seconds for the frame,
// given the output frame rate used during extraction
func (fr FrameRef) Timestamp(rate float64) (float64, error) {
	return Timestamp(fr.Index, rate)
}

// Timestamp converts a 1-based frame index to a playback timestamp in seconds.
// The first frame of a batch anchors to time zero. A non-positive rate is a
// configuration error that must abort the batch before any analysis runs.
func Timestamp(index int, rate float64) (float64, error) {
	if rate <= 0 {
		return 0, fmt.Errorf("output frame rate must be positive, got %v", rate)
	}
	return float64(index-1) / rate, nil
}

// ExtractFrameNumber parses the ordinal frame number from a frame filename.
// The expected convention is frame_NNNNNN.<ext>; for other names, every digit
// in the base name is scraped. Returns 0 when no number can be determined.
func ExtractFrameNumber(filename string) int {
	base := filepath.Base(filename)

	if idx := strings.Index(base, "_"); idx >= 0 {
		numPart := base[idx+1:]
		if dot := strings.Index(numPart, "."); dot >= 0 {
			numPart = numPart[:dot]
		}
		if n, err := strconv.Atoi(numPart); err == nil {
			return n
		}
	}

	// Fallback: scrape digits from the base name without extension
	name := strings.TrimSuffix(base, filepath.Ext(base))
	var digits strings.Builder
	for _, r := range name {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

// validExtensions lists the frame image extensions accepted by ListFrames
var validExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// ListFrames collects all frame image files from the given directory and
// returns them sorted ascending by extracted frame number. A missing
// directory or a directory with no valid frame files is a fatal error.
func ListFrames(dir string, logger *zap.Logger) ([]FrameRef, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory %s: %w", dir, err)
	}

	frames := make([]FrameRef, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !validExtensions[ext] {
			continue
		}
		frames = append(frames, FrameRef{
			Index: ExtractFrameNumber(entry.Name()),
			Path:  filepath.Join(dir, entry.Name()),
		})
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("no valid frame images found in %s", dir)
	}

	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Index < frames[j].Index
	})

	logger.Info("collected frame files",
		zap.String("dir", dir),
		zap.Int("frame_count", len(frames)))

	return frames, nil
}
