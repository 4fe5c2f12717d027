// Package publish wires the standalone publish command into the CLI.
package publish
