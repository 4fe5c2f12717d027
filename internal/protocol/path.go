package protocol

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	defaultTeamNameConstant            = "Teamnamn"
	sanitizedFallbackTokenConstant     = "Team"
	documentFileNameTemplateConstant   = "protokoll_%s_%s.docx"
	invalidDateFormatMessageConstant   = "date must match YYYY-MM-DD"
	invalidDateFormatTemplateConstant  = "%w: %q"
	whitespaceRunPatternConstant       = `\s+`
	disallowedCharacterPatternConstant = `[^A-Za-z0-9_\-ÅÄÖåäö]`
	datePatternConstant                = `^\d{4}-\d{2}-\d{2}$`
	whitespaceReplacementConstant      = "_"
)

// ErrInvalidDateFormat indicates a date string failed the YYYY-MM-DD gate.
var ErrInvalidDateFormat = errors.New(invalidDateFormatMessageConstant)

var (
	whitespaceRunExpression       = regexp.MustCompile(whitespaceRunPatternConstant)
	disallowedCharacterExpression = regexp.MustCompile(disallowedCharacterPatternConstant)
	dateExpression                = regexp.MustCompile(datePatternConstant)
)

// SanitizeTeamName maps a team name to a filesystem-safe token: whitespace
// runs collapse to a single underscore and characters outside ASCII letters,
// digits, underscore, hyphen, and the Swedish letters ÅÄÖåäö are stripped.
// An all-stripped result becomes the literal token "Team".
func SanitizeTeamName(teamName string) string {
	collapsed := whitespaceRunExpression.ReplaceAllString(strings.TrimSpace(teamName), whitespaceReplacementConstant)
	stripped := disallowedCharacterExpression.ReplaceAllString(collapsed, "")
	if len(stripped) == 0 {
		return sanitizedFallbackTokenConstant
	}
	return stripped
}

// NormalizeTeamName trims a team name and substitutes the placeholder
// "Teamnamn" when nothing remains.
func NormalizeTeamName(teamName string) string {
	trimmed := strings.TrimSpace(teamName)
	if len(trimmed) == 0 {
		return defaultTeamNameConstant
	}
	return trimmed
}

// ValidateDate enforces the YYYY-MM-DD gate applied before any path derivation.
func ValidateDate(date string) error {
	if !dateExpression.MatchString(date) {
		return fmt.Errorf(invalidDateFormatTemplateConstant, ErrInvalidDateFormat, date)
	}
	return nil
}

// PlannedDocumentPath derives the output path for a report. The date is
// validated before the path is computed; an empty team falls back to the
// "Teamnamn" placeholder before sanitization.
func PlannedDocumentPath(outputDirectory string, teamName string, date string) (string, error) {
	if validationError := ValidateDate(date); validationError != nil {
		return "", validationError
	}
	documentFileName := fmt.Sprintf(documentFileNameTemplateConstant, SanitizeTeamName(NormalizeTeamName(teamName)), date)
	return filepath.Join(outputDirectory, documentFileName), nil
}
