package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/journeylog/journeylog/pkg/config"
	"github.com/journeylog/journeylog/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect the line format of an analytics log",
		Long: `Analyze a log file to identify its analytics line format.

Samples lines from the file, tests them against the known line shapes,
and tallies the bracketed categories and event markers that appear.
Reports the detected format with a confidence score.

Optionally generates a starter heuristics config with --write-config,
pre-filling the allowed categories from what the log actually contains.

Example:
  journeylog detect app.log
  journeylog detect --sample 500 big-dump.log
  journeylog detect --write-config journeylog.yaml app.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected formats, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d := detector.New(
		detector.WithSampleSize(opts.SampleSize),
		detector.WithMarker(config.DefaultSendEventMarker),
	)

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(result, logFile, opts)
	default:
		return outputDetectText(result, logFile, opts)
	}
}

func outputDetectText(result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	fmt.Println("=== Log Format Detection ===")
	fmt.Println()
	fmt.Printf("File: %s\n", logFile)
	fmt.Printf("Lines sampled: %d\n", result.SampledLines)
	fmt.Printf("Lines matching a known shape: %d\n", result.ParsedLines)
	fmt.Printf("Lines with event marker: %d\n", result.MarkerLines)
	fmt.Println()

	if !result.HasMatch() {
		fmt.Println("No known line format detected.")
		fmt.Println()
		fmt.Println("Tip: The file may use an uncommon emitter.")
		fmt.Println("Check the first few lines manually, or run 'journeylog report --debug' for samples.")
		return nil
	}

	best := result.BestMatch()
	fmt.Printf("Detected format: %s\n", best.Format.Name)
	fmt.Printf("Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Println()
	fmt.Printf("Sample match:\n  %s\n", best.SampleLine)
	fmt.Println()

	if cats := result.TopCategories(); len(cats) > 0 {
		fmt.Println("Categories seen:")
		for _, c := range cats {
			fmt.Printf("  [%s] ×%d\n", c, result.Categories[c])
		}
		fmt.Println()
	}

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Println("--- Alternative formats detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Printf("%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
		}
		fmt.Println()
	}

	return nil
}

// DetectJSONMatch represents a format match in JSON output.
type DetectJSONMatch struct {
	Name       string  `json:"name"`
	Pattern    string  `json:"pattern"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
}

// DetectJSONOutput represents the full JSON output.
type DetectJSONOutput struct {
	File         string            `json:"file"`
	Matches      []DetectJSONMatch `json:"matches"`
	SampledLines int               `json:"sampled_lines"`
	ParsedLines  int               `json:"parsed_lines"`
	MarkerLines  int               `json:"marker_lines"`
	Categories   map[string]int    `json:"categories,omitempty"`
}

func outputDetectJSON(result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	output := DetectJSONOutput{
		File:         logFile,
		SampledLines: result.SampledLines,
		ParsedLines:  result.ParsedLines,
		MarkerLines:  result.MarkerLines,
		Categories:   result.Categories,
		Matches:      make([]DetectJSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1] // Only show best match
	}

	for _, m := range matches {
		output.Matches = append(output.Matches, DetectJSONMatch{
			Name:       m.Format.Name,
			Pattern:    m.Format.PatternStr,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// writeStarterConfig generates a starter config file seeded from detection.
func writeStarterConfig(result *detector.DetectionResult, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	content := generateStarterConfig(result)

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template, suggesting the
// categories actually present in the sampled log.
func generateStarterConfig(result *detector.DetectionResult) string {
	categories := "  - analytics"
	if cats := result.TopCategories(); len(cats) > 0 {
		var b strings.Builder
		for _, c := range cats {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
		categories = strings.TrimRight(b.String(), "\n")
	}

	return fmt.Sprintf(`# JourneyLog Configuration
# Generated by: journeylog detect
# Fields absent here keep their built-in defaults.

# Categories seen in the sampled log. Trim this down to the ones that
# carry analytics events - usually just "analytics".
allowed_categories:
%s

# Uncomment to override the built-in heuristics:
#
# session_start_keywords:
#   - app_launch
#   - session_start
#
# session_end_keywords:
#   - session_end
#   - app_terminate
#
# screen_view_events:
#   - screen_view
#
# min_screen_duration: 500ms
# duplicate_screen_window: 2s
# reentry_window: 10s
#
# allowed_navigations:
#   - from: Settings
#     to: Home
`, categories)
}
