// Package http executes resolved request definitions. It wraps the standard
// library client with pooled transport, redirect and TLS policy, turns parsed
// blocks into sendable requests (including `< path` body files), and returns
// response records with a lazily parsed JSON view.
package http
