// Package env handles variable resolution for httpfile runs.
//
// It provides:
//   - {{variable}} interpolation with a fixed lookup order: script globals,
//     then the selected environment profile, then static file declarations
//   - the dynamic tokens $uuid, $timestamp, $randomInt and $processEnv.NAME
//   - loading environment profile files (httpfile.env.json or YAML)
//   - loading .env files into the process environment
package env
