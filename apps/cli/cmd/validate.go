package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/httpfile/packages/core/parser"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Check .http files for syntax errors",
	Long: `Parse .http files and report syntax errors without sending any requests.

Exits with a non-zero status if any file fails to parse.

Examples:
  httpfile validate api.http
  httpfile validate ./requests/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no .http or .rest files found")
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	failed := 0
	for _, file := range files {
		f, err := parser.ParseFile(file)
		if err != nil {
			red.Fprintf(cmd.OutOrStdout(), "✗ %s\n", file)
			fmt.Fprintf(cmd.OutOrStdout(), "  %v\n", err)
			failed++
			continue
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ %s", file)
		fmt.Fprintf(cmd.OutOrStdout(), " (%d requests)\n", len(f.Requests))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(files))
	}
	return nil
}
