// Package output renders run results: a colored console report (status,
// headers, body, per-test PASS/FAIL lines), a JSON document for machine
// consumption and JUnit XML for CI systems.
package output
