package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/httpfile/packages/core/env"
	"github.com/abdul-hamid-achik/httpfile/packages/core/parser"
	"github.com/abdul-hamid-achik/httpfile/packages/core/runner"
	"github.com/abdul-hamid-achik/httpfile/packages/output"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file|directory>",
	Short: "Execute requests from .http files",
	Long: `Execute the request blocks of one or more .http files, in file order.

Examples:
  httpfile run api.http
  httpfile run api.http --env staging
  httpfile run api.http --case "Create User"
  httpfile run ./requests/ --output json
  httpfile run api.http --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	envFlag        string
	envFileFlag    string
	dotenvFlag     string
	caseFlag       string
	timeoutFlag    string
	verboseFlag    bool
	noColorFlag    bool
	insecureFlag   bool
	proxyFlag      string
	outputFlag     string
	outputFileFlag string
	watchFlag      bool
)

func init() {
	runCmd.Flags().StringVarP(&envFlag, "env", "e", getEnvString("HTTPFILE_ENV", env.DefaultProfile), "Environment profile to use (env: HTTPFILE_ENV)")
	runCmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("HTTPFILE_ENV_FILE", ""), "Environment config file (default: httpfile.env.json next to the .http file) (env: HTTPFILE_ENV_FILE)")
	runCmd.Flags().StringVar(&dotenvFlag, "dotenv", "", "Path to a .env file exported for $processEnv variables")
	runCmd.Flags().StringVarP(&caseFlag, "case", "c", "", "Run only the request whose name matches exactly")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("HTTPFILE_TIMEOUT", "30s"), "Request timeout (e.g. 30s, 1m) (env: HTTPFILE_TIMEOUT)")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose diagnostic output")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("HTTPFILE_NO_COLOR", false), "Disable colored output (env: HTTPFILE_NO_COLOR)")
	runCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "Disable SSL certificate validation")
	runCmd.Flags().StringVar(&proxyFlag, "proxy", getEnvString("HTTPFILE_PROXY", ""), "Proxy URL for HTTP requests (env: HTTPFILE_PROXY)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "console", "Output format: console, json, junit")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", "", "Write output to file (default: stdout)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch files for changes and re-run")
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that accumulate results
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

func runCommand(cmd *cobra.Command, args []string) error {
	var outWriter *os.File
	var err error
	if outputFileFlag != "" {
		outWriter, err = os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer outWriter.Close()
	}

	var formatter Formatter
	switch strings.ToLower(outputFlag) {
	case "json":
		opts := []output.JSONOption{}
		if outWriter != nil {
			opts = append(opts, output.JSONWithWriter(outWriter))
		}
		formatter = output.NewJSONFormatter(opts...)
	case "junit":
		opts := []output.JUnitOption{}
		if outWriter != nil {
			opts = append(opts, output.JUnitWithWriter(outWriter))
		}
		formatter = output.NewJUnitFormatter(opts...)
	default: // "console"
		consoleOpts := []output.ConsoleOption{
			output.WithVerbose(verboseFlag),
			output.WithNoColor(noColorFlag),
		}
		if outWriter != nil {
			consoleOpts = append(consoleOpts, output.WithWriter(outWriter))
		}
		formatter = output.NewConsoleFormatter(consoleOpts...)
	}

	formatter.FormatHeader(version)

	files, err := collectFiles(args)
	if err != nil {
		formatter.FormatError(err)
		return err
	}
	if len(files) == 0 {
		err := fmt.Errorf("no .http or .rest files found")
		formatter.FormatError(err)
		return err
	}

	timeout, err := time.ParseDuration(timeoutFlag)
	if err != nil {
		return fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", timeoutFlag, err)
	}

	logLevel := zerolog.WarnLevel
	if verboseFlag {
		logLevel = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(logLevel).
		With().Timestamp().Logger()

	cfg := &runner.Config{
		Environment:    envFlag,
		EnvFile:        envFileFlag,
		DotEnvFile:     dotenvFlag,
		CaseName:       caseFlag,
		Verbose:        verboseFlag,
		Timeout:        timeout,
		FollowRedirect: true,
		ValidateSSL:    !insecureFlag,
		Proxy:          proxyFlag,
		Logger:         logger,
	}

	r := runner.NewRunner(cfg)

	runAll := func() (failed int, parseFailed bool, elapsed time.Duration) {
		start := time.Now()
		for _, file := range files {
			result, err := r.RunFile(file)
			if err != nil {
				formatter.FormatError(err)
				var parseErr *parser.ParseError
				if errors.As(err, &parseErr) {
					parseFailed = true
				} else {
					failed++
				}
				continue
			}
			formatter.FormatResult(result)
			failed += result.Failed
		}
		return failed, parseFailed, time.Since(start)
	}

	failed, parseFailed, elapsed := runAll()

	if flushable, ok := formatter.(Flushable); ok {
		if err := flushable.Flush(elapsed); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}

	if !watchFlag {
		if parseFailed {
			os.Exit(ExitParseError)
		}
		if failed > 0 {
			os.Exit(ExitFailure)
		}
		return nil
	}

	return watchAndRerun(cmd, files, func() {
		_, _, elapsed := runAll()
		if flushable, ok := formatter.(Flushable); ok {
			_ = flushable.Flush(elapsed)
		}
	})
}

func watchAndRerun(cmd *cobra.Command, files []string, rerun func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to watch %s: %v\n", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) && isRequestFile(event.Name) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				name := event.Name
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\nRe-running...\n", name)
					rerun()
				})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		}
	}
}

func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isRequestFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}

		files = append(files, arg)
	}
	return files, nil
}

func isRequestFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".http", ".rest":
		return true
	}
	return false
}
