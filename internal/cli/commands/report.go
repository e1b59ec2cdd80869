package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/journeylog/journeylog/pkg/config"
	"github.com/journeylog/journeylog/pkg/parser"
	"github.com/journeylog/journeylog/pkg/report"
	"github.com/journeylog/journeylog/pkg/session"
	"github.com/journeylog/journeylog/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ReportOptions holds command-line options for the report command.
type ReportOptions struct {
	Config  string
	Output  string
	Debug   bool
	Verbose bool
	Quiet   bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report <log-file>...",
		Short: "Reconstruct sessions from log files and print a journey report",
		Long: `Reconstruct user sessions from one or more analytics log files.

Multiple files are merged into one chronological timeline before
reconstruction. The built-in heuristics work for the common emitters;
pass --config to adapt keyword lists, category filters, and timing
windows to a different one.

Exit codes:
  0 - Sessions reconstructed
  1 - No recognizable sessions in the input
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Heuristics config file (YAML, optional)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Append format-mismatch diagnostics to the report")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include run metadata in the output")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no journey details")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_sessions", "When to fire webhook (on_sessions|always|never)")

	return cmd
}

func runReport(cmd *cobra.Command, args []string, opts *ReportOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return err
	}

	files, err := parser.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding log paths: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no log files matched: %v", args)
	}

	// Merge multiple files into one chronological timeline.
	var source parser.LineSource
	if len(files) == 1 {
		source = parser.NewFileSource(files)
	} else {
		sources := make([]parser.LineSource, len(files))
		for i, file := range files {
			sources[i] = parser.NewFileSource([]string{file})
		}
		source = parser.NewMergedSource(sources...)
	}
	defer source.Close()

	r := session.NewReconstructor(cfg)
	sessions, err := r.Run(ctx, source)
	if err != nil {
		return fmt.Errorf("reconstructing sessions: %w", err)
	}

	rep := report.NewReport(sessions, files, r.LinesProcessed())

	if opts.Debug && opts.Output == "text" {
		text, err := readAll(files)
		if err != nil {
			return err
		}
		fmt.Print(report.GenerateDebug(text, sessions, cfg.SendEventMarker))
	} else {
		formatter, err := createFormatter(opts)
		if err != nil {
			return err
		}
		if err := formatter.Format(ctx, rep, os.Stdout); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	}

	// Send webhooks (errors logged but don't fail the run)
	sendWebhooks(ctx, cfg, opts, rep)

	if !rep.HasSessions() {
		ExitCode = 1
	}

	return nil
}

// loadConfig returns the built-in heuristics when no config path is given.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func createFormatter(opts *ReportOptions) (report.Formatter, error) {
	formatOpts := report.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Output {
	case "text":
		return report.NewTextFormatter(formatOpts), nil
	case "json":
		return report.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func readAll(files []string) (string, error) {
	var parts []string
	for _, f := range files {
		data, err := os.ReadFile(f) // #nosec G304 -- user-provided log paths are expected
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", f, err)
		}
		parts = append(parts, string(data))
	}
	return strings.Join(parts, "\n"), nil
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged to stderr but don't fail the run.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *ReportOptions, rep *report.Report) {
	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, rep.HasSessions()) {
			continue
		}

		resp := client.Send(ctx, rep, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			fmt.Fprintf(os.Stderr, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ReportOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnSessions
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire based on trigger and results.
func shouldFireWebhook(trigger config.WebhookTrigger, hasSessions bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnSessions:
		return hasSessions
	default:
		// Default to on_sessions
		return hasSessions
	}
}
