package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "httpfile",
	Short: "Run .http request files against live servers.",
	Long: `httpfile interprets text-based HTTP request files: named request
blocks with method, URL, headers and body. Variables are resolved from the
file, an environment profile and the session, each request is executed in
file order, and an embedded response script can assert on the result and
stash values for later requests.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
