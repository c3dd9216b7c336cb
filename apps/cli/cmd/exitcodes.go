package cmd

// Exit codes for the httpfile CLI
const (
	// ExitSuccess indicates every executed request passed
	ExitSuccess = 0

	// ExitFailure indicates one or more requests or tests failed
	ExitFailure = 1

	// ExitParseError indicates a malformed file; nothing was executed
	ExitParseError = 2

	// ExitConfigError indicates an environment or configuration problem
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
