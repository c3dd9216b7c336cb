// Package runner orchestrates a run: parse the file once, then for each
// selected request resolve variables, execute, bridge the response script and
// collect the report, carrying the session state forward in file order.
package runner
