// Package report wires the report generation commands into the CLI: generate
// writes and optionally publishes a report document, load prints an existing
// one back as YAML.
package report
