// Package ui provides the console side of the tool: interactive prompts,
// severity-prefixed notifications, opening documents with the platform's
// default application, and human-readable command execution feedback.
//
// The helpers translate internal events into concise messages so that command
// execution feedback remains actionable for CLI users while detailed telemetry
// continues to flow through structured loggers.
package ui
