package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the journeylog version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("journeylog %s\n", Version)
		},
	}
}
