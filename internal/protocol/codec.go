package protocol

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avhall/protokoll/internal/docx"
)

const (
	documentTitleConstant          = "Standup / Workshop-protokoll"
	teamFieldLabelConstant         = "Team:"
	dateFieldLabelConstant         = "Datum:"
	participantsFieldLabelConstant = "Deltagare:"
	statusFieldLabelConstant       = "Status:"
	workSectionHeadingConstant     = "Vad vi jobbade med:"
	blockerSectionHeadingConstant  = "Hinder vi stötte på:"
	nextSectionHeadingConstant     = "Nästa steg:"
	emptyFieldPlaceholderConstant  = "-"
	fieldLabelSuffixConstant       = " "
	bulletDecorationCutsetConstant = "•\t -"

	outputDirectoryErrorTemplateConstant = "failed to create output directory: %w"
	documentWriteErrorTemplateConstant   = "failed to write report document: %w"
	documentParseErrorTemplateConstant   = "failed to parse report document: %w"
)

type sectionCursor int

const (
	sectionNone sectionCursor = iota
	sectionWorkDone
	sectionBlockers
	sectionNextSteps
)

// Codec converts ReportRecord values to and from report documents. It is
// stateless; the only side effects are the file it is asked to write and the
// parent directories it creates for that file.
type Codec struct{}

// NewCodec constructs a document codec.
func NewCodec() Codec {
	return Codec{}
}

// Encode renders the record as a report document at destinationPath,
// creating parent directories as needed and silently overwriting any
// existing file. Asking the user before overwriting is the caller's job.
func (codec Codec) Encode(record ReportRecord, destinationPath string) (string, error) {
	if directoryError := os.MkdirAll(filepath.Dir(destinationPath), 0o755); directoryError != nil {
		return "", fmt.Errorf(outputDirectoryErrorTemplateConstant, directoryError)
	}

	document := &docx.Document{}
	document.AppendParagraph(docx.Paragraph{
		Alignment: docx.AlignmentCenter,
		Runs:      []docx.Run{{Text: documentTitleConstant, Bold: true}},
	})
	document.AppendEmptyParagraph()

	appendFieldParagraph(document, teamFieldLabelConstant, record.Team)
	appendFieldParagraph(document, dateFieldLabelConstant, record.Date)
	appendFieldParagraph(document, participantsFieldLabelConstant, record.Participants)
	document.AppendEmptyParagraph()

	appendSection(document, workSectionHeadingConstant, record.WorkDone)
	appendSection(document, blockerSectionHeadingConstant, record.Blockers)

	appendFieldParagraph(document, statusFieldLabelConstant, record.Status.Label())
	document.AppendEmptyParagraph()

	appendSection(document, nextSectionHeadingConstant, record.NextSteps)

	if writeError := document.WriteFile(destinationPath); writeError != nil {
		return "", fmt.Errorf(documentWriteErrorTemplateConstant, writeError)
	}
	return destinationPath, nil
}

// Decode reconstructs a ReportRecord from a previously generated document.
// Reconstruction is best-effort: paragraphs outside any recognized section
// or metadata line are dropped rather than reported, so hand-edited
// documents degrade instead of failing. Only an unreadable container
// produces an error.
func (codec Codec) Decode(sourcePath string) (ReportRecord, error) {
	document, readError := docx.ReadFile(sourcePath)
	if readError != nil {
		return ReportRecord{}, fmt.Errorf(documentParseErrorTemplateConstant, readError)
	}

	record := ReportRecord{Status: StatusOnTrack}
	currentSection := sectionNone

	for _, paragraph := range document.Paragraphs {
		paragraphText := strings.TrimSpace(paragraph.Text())

		switch {
		case len(paragraphText) == 0:
			continue
		case paragraphText == documentTitleConstant:
			continue
		case strings.HasPrefix(paragraphText, teamFieldLabelConstant):
			record.Team = fieldRemainder(paragraphText, teamFieldLabelConstant)
			currentSection = sectionNone
		case strings.HasPrefix(paragraphText, dateFieldLabelConstant):
			record.Date = fieldRemainder(paragraphText, dateFieldLabelConstant)
			currentSection = sectionNone
		case strings.HasPrefix(paragraphText, participantsFieldLabelConstant):
			record.Participants = fieldRemainder(paragraphText, participantsFieldLabelConstant)
			currentSection = sectionNone
		case strings.HasPrefix(paragraphText, statusFieldLabelConstant):
			record.Status = ParseStatusLabel(fieldRemainder(paragraphText, statusFieldLabelConstant))
			currentSection = sectionNone
		case paragraphText == workSectionHeadingConstant:
			currentSection = sectionWorkDone
		case paragraphText == blockerSectionHeadingConstant:
			currentSection = sectionBlockers
		case paragraphText == nextSectionHeadingConstant:
			currentSection = sectionNextSteps
		case currentSection != sectionNone:
			appendSectionEntry(&record, currentSection, strings.TrimLeft(paragraphText, bulletDecorationCutsetConstant))
		}
	}

	return record, nil
}

func appendFieldParagraph(document *docx.Document, fieldLabel string, fieldValue string) {
	trimmedValue := strings.TrimSpace(fieldValue)
	if len(trimmedValue) == 0 {
		trimmedValue = emptyFieldPlaceholderConstant
	}
	document.AppendParagraph(docx.Paragraph{Runs: []docx.Run{
		{Text: fieldLabel + fieldLabelSuffixConstant, Bold: true},
		{Text: trimmedValue},
	}})
}

func appendSection(document *docx.Document, sectionHeading string, sectionEntries []string) {
	document.AppendParagraph(docx.Paragraph{Runs: []docx.Run{{Text: sectionHeading, Bold: true}}})
	for _, sectionEntry := range sectionEntries {
		document.AppendParagraph(docx.Paragraph{
			Style: docx.StyleListBullet,
			Runs:  []docx.Run{{Text: sectionEntry}},
		})
	}
	document.AppendEmptyParagraph()
}

func fieldRemainder(paragraphText string, fieldLabel string) string {
	return strings.TrimSpace(strings.TrimPrefix(paragraphText, fieldLabel))
}

// appendSectionEntry adds one cleaned line to the section the cursor points at.
func appendSectionEntry(record *ReportRecord, currentSection sectionCursor, entryText string) {
	switch currentSection {
	case sectionWorkDone:
		record.WorkDone = append(record.WorkDone, entryText)
	case sectionBlockers:
		record.Blockers = append(record.Blockers, entryText)
	case sectionNextSteps:
		record.NextSteps = append(record.NextSteps, entryText)
	}
}
