// Package logging provides slog-based logging for the ezdev CLI.
//
// The package wraps log/slog with a TTY-optimized text handler
// (colorized when the output supports it), a JSON handler for machine
// consumption, and a multi-handler for simultaneous console and file
// output. Verbosity flags map to slog levels via [LevelFromVerbosity].
//
// Attribute values that look like secrets (token-prefixed strings,
// keys matching common credential names) are masked before emission so
// sourced .env contents never leak into logs verbatim.
package logging
