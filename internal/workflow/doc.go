// Package workflow coordinates the report lifecycle end to end: it validates
// the report date, decides between generating a new document and loading an
// existing one, persists updated preferences, and hands finished documents to
// the publisher. All user interaction goes through the Prompter boundary so
// the same orchestration serves interactive and scripted runs.
package workflow
