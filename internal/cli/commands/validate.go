package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/journeylog/journeylog/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a heuristics config file",
		Long: `Validate a YAML heuristics config file.

Checks syntax, required keyword sets, timing windows, action rules,
navigation pairs, and webhook definitions. Prints a summary of the
effective configuration on success.

Example:
  journeylog validate journeylog.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args[0])
		},
	}

	return cmd
}

func runValidate(ctx context.Context, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	fmt.Printf("Config valid: %s\n\n", path)
	fmt.Printf("Allowed categories:      %d\n", len(cfg.AllowedCategories))
	fmt.Printf("Session start keywords:  %d\n", len(cfg.SessionStartKeywords))
	fmt.Printf("Session end keywords:    %d\n", len(cfg.SessionEndKeywords))
	fmt.Printf("Screen view keywords:    %d\n", len(cfg.ScreenViewKeywords))
	fmt.Printf("Screen view events:      %d\n", len(cfg.ScreenViewEvents))
	fmt.Printf("Action keywords:         %d\n", len(cfg.ActionKeywords))
	fmt.Printf("Action rules:            %d\n", len(cfg.ActionRules))
	fmt.Printf("Allowed navigations:     %d\n", len(cfg.AllowedNavigations))
	fmt.Printf("Webhooks:                %d\n", len(cfg.Webhooks))
	fmt.Println()
	fmt.Printf("Min screen duration:     %s\n", cfg.MinScreenDuration)
	fmt.Printf("Duplicate screen window: %s\n", cfg.DuplicateScreenWindow)
	fmt.Printf("Re-entry window:         %s\n", cfg.ReentryWindow)
	fmt.Printf("Event marker:            %q\n", cfg.SendEventMarker)

	return nil
}
