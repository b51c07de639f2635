package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, build mode and built-in webhook endpoint",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), buildInfo(version, buildMode))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// buildInfo reports what the binary falls back to when no webhook.url is
// configured; a dev build talks to the local proxy.
func buildInfo(version, mode string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s version: %s", app, version)
	if mode != "" {
		fmt.Fprintf(&b, " (%s build)", mode)
	}
	fmt.Fprintf(&b, "\ndefault endpoint: %s", resolveEndpoint(nil, false, mode))

	return b.String()
}
