package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/abdul-hamid-achik/httpfile/packages/core/runner"
	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// maxBodyPreview caps the body shown without --verbose.
const maxBodyPreview = 2048

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Running: "+result.File))

	for _, r := range result.Results {
		fmt.Fprintf(f.writer, "\n%s\n", bold("=== "+displayName(r)+" ==="))

		if r.Err != nil {
			fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), r.Err)
			continue
		}

		fmt.Fprintf(f.writer, "Status: %s %s\n", r.Response.Status, cyan(fmt.Sprintf("(%dms)", r.Response.DurationMs())))

		if len(r.Response.Headers) > 0 {
			fmt.Fprintf(f.writer, "Headers:\n")
			for _, k := range sortedKeys(r.Response.Headers) {
				fmt.Fprintf(f.writer, "  %s: %s\n", k, r.Response.Headers[k])
			}
		}

		if len(r.Response.Body) > 0 {
			body := formatBody(r.Response.Body)
			if !f.verbose && len(body) > maxBodyPreview {
				body = fmt.Sprintf("%s\n... (%d more bytes, use --verbose for the full body)",
					body[:maxBodyPreview], len(body)-maxBodyPreview)
			}
			fmt.Fprintf(f.writer, "Body:\n%s\n", body)
		}

		for _, t := range r.Tests {
			if t.Passed {
				fmt.Fprintf(f.writer, "%s %s\n", green("✓ PASS"), t.Name)
			} else {
				fmt.Fprintf(f.writer, "%s %s\n", red("✗ FAIL"), t.Name)
				if t.Message != "" {
					fmt.Fprintf(f.writer, "  Message: %s\n", t.Message)
				}
			}
		}
	}

	passed, failed := 0, 0
	for _, t := range result.Session.Tests {
		if t.Passed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Fprintf(f.writer, "\nRequests: %d passed, %d failed, %d total\n",
		result.Passed, result.Failed, result.Passed+result.Failed)
	fmt.Fprintf(f.writer, "Tests: ")
	if passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", passed)))
	}
	if failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", failed)))
	}
	fmt.Fprintf(f.writer, "%d total\n", passed+failed)
	fmt.Fprintf(f.writer, "Time:  %dms\n\n", result.Duration.Milliseconds())
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("httpfile"), version)
}

func displayName(r *runner.RequestResult) string {
	if r.Name != "" {
		return r.Name
	}
	return r.Method + " " + r.URL
}

// formatBody pretty-prints JSON bodies and leaves everything else untouched.
func formatBody(body []byte) string {
	if gjson.ValidBytes(body) {
		return string(pretty.Pretty(body))
	}
	return string(body)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
