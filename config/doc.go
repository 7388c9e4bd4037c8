// Package config loads the reliability core's own runtime tunables from
// environment variables.
//
// It does not parse application configuration — that remains an external
// collaborator's responsibility. The set of recognized variables is fixed
// (see Settings); unrecognized enum values fail Load eagerly rather than
// silently falling back to a default.
package config
