// Package logging configures the process-wide structured logger.
//
// The gateway logs with log/slog in JSON (default) or text format.
// Setup installs the configured logger as the slog default; packages
// derive component loggers from it rather than receiving one by
// injection.
//
// RedactKey is the single sanctioned way to mention a credential in a
// log line: a four character prefix and an ellipsis, nothing more.
// Message content is never logged at all.
package logging
