package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/journeylog/journeylog/pkg/config"
	"github.com/journeylog/journeylog/pkg/detector"
	"github.com/journeylog/journeylog/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Config  string
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <log-file>",
		Short: "Diagnose why a log yields no sessions",
		Long: `Diagnose common problems between a log file and the active heuristics.

This command checks:
- Log file existence and accessibility
- Line format matching against actual log lines
- Category overlap with the allowed categories
- Presence of the event marker and session-start keywords

Example:
  journeylog diagnose app.log
  journeylog diagnose -c custom.yaml -v app.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Heuristics config file (YAML, optional)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, logPath string, opts *DiagnoseOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := []DiagnosticResult{}

	// 1. Check log file existence
	result := checkLogExists(logPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(results, opts)
		return nil
	}

	// 2. Load heuristics config
	cfg, result := checkConfig(ctx, opts.Config)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(results, opts)
		return nil
	}

	// 3. Sample the log and check line format
	d := detector.New(detector.WithMarker(cfg.SendEventMarker))
	detResult, err := d.DetectFromFile(ctx, logPath)
	if err != nil {
		results = append(results, DiagnosticResult{
			Check:   "Line Format",
			Status:  "error",
			Message: fmt.Sprintf("Cannot sample log: %v", err),
		})
		printDiagnostics(results, opts)
		return nil
	}

	results = append(results, checkLineFormat(detResult, opts))
	results = append(results, checkCategories(cfg, detResult))
	results = append(results, checkMarker(cfg, detResult))
	results = append(results, checkStartKeywords(ctx, cfg, logPath))

	printDiagnostics(results, opts)
	return nil
}

func checkLogExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Log File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Log file not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access log file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Log file is empty"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfig(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Heuristics Config",
	}

	if path == "" {
		result.Status = "ok"
		result.Message = "Using built-in defaults (no config file given)"
		return config.DefaultConfig(), result
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Loaded: %s", path)
	result.Details = []string{
		fmt.Sprintf("Allowed categories: %s", strings.Join(cfg.AllowedCategories, ", ")),
		fmt.Sprintf("Session start keywords: %d", len(cfg.SessionStartKeywords)),
	}
	return cfg, result
}

func checkLineFormat(det *detector.DetectionResult, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Line Format",
	}

	if !det.HasMatch() {
		result.Status = "error"
		result.Message = "No sampled line matches a known analytics shape"
		result.Suggests = []string{
			"Lines need an ISO-8601-ish timestamp and a bracketed [category]",
			"Run 'journeylog report --debug' to see sample lines",
		}
		return result
	}

	best := det.BestMatch()
	switch {
	case best.MatchCount < det.SampledLines/2:
		result.Status = "warning"
		result.Message = fmt.Sprintf("Only %d/%d sampled lines match a known shape", best.MatchCount, det.SampledLines)
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("%s (%d/%d lines)", best.Format.Name, best.MatchCount, det.SampledLines)
	}

	if opts.Verbose {
		result.Details = []string{"Sample match:", best.SampleLine}
	}
	return result
}

func checkCategories(cfg *config.Config, det *detector.DetectionResult) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Category Overlap",
	}

	if len(det.Categories) == 0 {
		result.Status = "warning"
		result.Message = "No bracketed categories found in sample"
		return result
	}

	overlap := 0
	for cat := range det.Categories {
		for _, allowed := range cfg.AllowedCategories {
			if strings.Contains(cat, strings.ToLower(allowed)) {
				overlap += det.Categories[cat]
			}
		}
	}

	if overlap == 0 {
		result.Status = "error"
		result.Message = "No sampled line belongs to an allowed category"
		result.Details = []string{
			fmt.Sprintf("Allowed: %s", strings.Join(cfg.AllowedCategories, ", ")),
			fmt.Sprintf("Seen: %s", strings.Join(det.TopCategories(), ", ")),
		}
		result.Suggests = []string{
			"Add the log's category to allowed_categories in your config",
			"Run 'journeylog detect --write-config' to seed a config from the log",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d sampled lines in allowed categories", overlap)
	return result
}

func checkMarker(cfg *config.Config, det *detector.DetectionResult) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Event Marker",
	}

	if det.MarkerLines == 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("No sampled line contains %q", cfg.SendEventMarker)
		result.Suggests = []string{
			"Screen views and actions are recognized by keywords only for this log",
			"Set send_event_marker in your config if the emitter uses a different one",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d sampled lines contain %q", det.MarkerLines, cfg.SendEventMarker)
	return result
}

func checkStartKeywords(ctx context.Context, cfg *config.Config, logPath string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Session Start Keywords",
	}

	source := parser.NewFileSource([]string{logPath})
	defer source.Close()

	hits := 0
	sampled := 0
	for sampled < 500 {
		line, err := source.Next(ctx)
		if err != nil {
			break
		}
		sampled++
		lower := strings.ToLower(line.Text)
		for _, kw := range cfg.SessionStartKeywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				hits++
				break
			}
		}
	}

	if hits == 0 {
		result.Status = "warning"
		result.Message = "No session-start keyword found in the first lines"
		result.Suggests = []string{
			"Sessions will still be inferred from screen views and actions",
			"Add your emitter's launch line to session_start_keywords for exact start times",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d session-start lines in the first %d lines", hits, sampled)
	return result
}

func printDiagnostics(results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Println("=== JourneyLog Diagnostics ===")
	fmt.Println()

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		// Status icon
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Printf("[%s] %s\n", icon, r.Check)
		fmt.Printf("    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Printf("      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Printf("      Hint: %s\n", s)
		}

		fmt.Println()
	}

	// Summary
	fmt.Println("---")
	fmt.Printf("Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Println("\nFix the errors above before running 'journeylog report'.")
	} else if warnCount > 0 {
		fmt.Println("\nThe log is usable but reconstruction may be incomplete.")
	} else {
		fmt.Println("\nLog and heuristics look compatible!")
	}
}
