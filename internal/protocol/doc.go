// Package protocol defines the report record model and the document codec
// that writes and re-reads standup/workshop report documents, together with
// the naming rules that derive a report's planned output path.
package protocol
