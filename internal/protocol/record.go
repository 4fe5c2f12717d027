package protocol

import (
	"errors"
	"fmt"
	"strings"
)

const (
	statusOnTrackLabelConstant        = "🟢 På spår"
	statusSlightlyBehindLabelConstant = "🟡 Lite efter"
	statusNeedsHelpLabelConstant      = "🔴 Behöver hjälp"
	statusOnTrackGlyphConstant        = "🟢"
	statusSlightlyBehindGlyphConstant = "🟡"
	statusNeedsHelpGlyphConstant      = "🔴"
	statusOnTrackNameConstant         = "on-track"
	statusSlightlyBehindNameConstant  = "behind"
	statusNeedsHelpNameConstant       = "needs-help"
	unknownStatusNameTemplateConstant = "unknown status %q (expected %s, %s, or %s)"
	unknownStatusNameMessageConstant  = "unknown status name"
)

// ErrUnknownStatusName indicates a textual status identifier was not recognized.
var ErrUnknownStatusName = errors.New(unknownStatusNameMessageConstant)

// ReportStatus enumerates the progress assessment recorded in a report.
type ReportStatus int

// Supported report statuses.
const (
	StatusOnTrack ReportStatus = iota
	StatusSlightlyBehind
	StatusNeedsHelp
)

// Label returns the fixed human-readable marker persisted in documents.
// Unrecognized values fall back to the on-track label.
func (status ReportStatus) Label() string {
	switch status {
	case StatusSlightlyBehind:
		return statusSlightlyBehindLabelConstant
	case StatusNeedsHelp:
		return statusNeedsHelpLabelConstant
	default:
		return statusOnTrackLabelConstant
	}
}

// Name returns the machine-friendly identifier used on the command line and
// in report input files.
func (status ReportStatus) Name() string {
	switch status {
	case StatusSlightlyBehind:
		return statusSlightlyBehindNameConstant
	case StatusNeedsHelp:
		return statusNeedsHelpNameConstant
	default:
		return statusOnTrackNameConstant
	}
}

// ParseStatusLabel recovers a ReportStatus from persisted text by matching
// the marker glyphs. Text without any known glyph maps to on-track.
func ParseStatusLabel(statusText string) ReportStatus {
	switch {
	case strings.Contains(statusText, statusNeedsHelpGlyphConstant):
		return StatusNeedsHelp
	case strings.Contains(statusText, statusSlightlyBehindGlyphConstant):
		return StatusSlightlyBehind
	default:
		return StatusOnTrack
	}
}

// ParseStatusName resolves a machine-friendly status identifier. An empty
// identifier resolves to on-track.
func ParseStatusName(statusName string) (ReportStatus, error) {
	switch strings.TrimSpace(statusName) {
	case "", statusOnTrackNameConstant:
		return StatusOnTrack, nil
	case statusSlightlyBehindNameConstant:
		return StatusSlightlyBehind, nil
	case statusNeedsHelpNameConstant:
		return StatusNeedsHelp, nil
	default:
		return StatusOnTrack, fmt.Errorf(unknownStatusNameTemplateConstant+": %w", statusName, statusOnTrackNameConstant, statusSlightlyBehindNameConstant, statusNeedsHelpNameConstant, ErrUnknownStatusName)
	}
}

// ReportRecord is the canonical in-memory representation of one status report.
// Records are passed by value and never retained after encode or decode.
type ReportRecord struct {
	Team         string
	Date         string
	Participants string
	WorkDone     []string
	Blockers     []string
	Status       ReportStatus
	NextSteps    []string
}

// SplitLines breaks free text into trimmed, non-empty lines preserving order.
func SplitLines(text string) []string {
	var collected []string
	for _, rawLine := range strings.Split(text, "\n") {
		trimmedLine := strings.TrimSpace(rawLine)
		if len(trimmedLine) > 0 {
			collected = append(collected, trimmedLine)
		}
	}
	return collected
}
