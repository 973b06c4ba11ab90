package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/regaudit/pkg/source"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display regaudit version and the supported input formats.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "regaudit v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registry audit engine (inputs: %s)\n", strings.Join(source.Formats(), ", "))
		},
	}
}
