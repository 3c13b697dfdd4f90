// Package config manages webdoctor configuration.
//
// Configuration comes from two sources:
//   - CLI flags, which populate a Config struct per invocation
//   - An optional YAML file (.webdoctor) with per-site overrides
//
// Design decision: The Config struct is passed via dependency injection
// rather than exposed as global state. This keeps concurrent audits
// isolated from each other and makes tests deterministic.
package config
