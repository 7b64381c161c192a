package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"videosummarizer/internal/app"
)

// main is the application entry point
func main() {
	var (
		helpFlag    = flag.Bool("help", false, "Show help message")
		versionFlag = flag.Bool("version", false, "Show version information")
		outputDir   = flag.String("output", "", "Output directory (overrides configuration)")
		frameRate   = flag.Float64("frame-rate", 0, "Frames extracted per second (overrides configuration)")
		description = flag.String("description", "", "Optional video description used when subtitles are sparse")
	)
	flag.Parse()

	if *helpFlag {
		printHelp()
		os.Exit(0)
	}

	if *versionFlag {
		printVersion()
		os.Exit(0)
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: video path is required")
		printHelp()
		os.Exit(1)
	}

	if err := runApplication(flag.Arg(0), *outputDir, *frameRate, *description); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// runApplication contains the core application logic that can be tested
func runApplication(videoPath, outputDir string, frameRate float64, description string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Video Summarizer starting up",
		zap.String("component", "main"),
		zap.String("video_path", videoPath))

	application, err := app.NewApplication()
	if err != nil {
		logger.Error("Failed to create application",
			zap.Error(err),
			zap.String("component", "main"))
		return fmt.Errorf("failed to create application: %w", err)
	}

	application.ApplyOverrides(outputDir, frameRate, description)

	// Start from a clean output directory so stale artifacts from an earlier
	// batch never mix with this one
	if err := application.CleanOutputDirectory(); err != nil {
		logger.Warn("Failed to clean output directory",
			zap.Error(err),
			zap.String("component", "main"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
			zap.String("component", "main"))
		cancel()
	}()

	if err := application.Run(ctx, videoPath); err != nil {
		logger.Error("Application runtime error",
			zap.Error(err),
			zap.String("component", "main"))
		return fmt.Errorf("application runtime error: %w", err)
	}

	logger.Info("Video Summarizer finished successfully",
		zap.String("component", "main"))
	return nil
}

// printHelp displays command line usage information
func printHelp() {
	fmt.Println("Video Summarizer - Subtitle Extraction and Content Summary")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    videosummarizer [OPTIONS] <video-path>")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    -help                Show this help message")
	fmt.Println("    -version             Show version information")
	fmt.Println("    -output <dir>        Output directory (default: output)")
	fmt.Println("    -frame-rate <fps>    Frames extracted per second (default: 1)")
	fmt.Println("    -description <text>  Optional video description")
	fmt.Println()
	fmt.Println("CONFIGURATION:")
	fmt.Println("    Configuration is loaded from environment variables (VIDSUM_ prefix),")
	fmt.Println("    or from the file named by CONFIG_PATH.")
	fmt.Println("    QWEN_API_KEY is required for frame recognition and summaries.")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("    videosummarizer gameplay.mp4")
	fmt.Println("    videosummarizer -frame-rate 5 -output run1 gameplay.mp4")
}

// printVersion displays version and build information
func printVersion() {
	fmt.Println("Video Summarizer")
	fmt.Println("Version: 1.0")
	fmt.Println("Architecture: Go + FFmpeg + Whisper + OpenAI-compatible vision API")
}
