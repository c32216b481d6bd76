// Package config resolves backlog settings.
//
// Resolution order, later wins:
//  1. Default()
//  2. an optional CUE file, validated against the embedded schema
//  3. BACKLOG_* environment variables
//
// CLI flags are applied on top by the caller.
package config
