package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

const (
	contentTypesEntryNameConstant  = "[Content_Types].xml"
	relationshipsEntryNameConstant = "_rels/.rels"
	documentEntryNameConstant      = "word/document.xml"

	contentTypesPayloadConstant = xml.Header +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	relationshipsPayloadConstant = xml.Header +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	documentOpeningConstant = xml.Header +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentClosingConstant = `</w:body></w:document>`

	paragraphStyleTemplateConstant     = `<w:pStyle w:val="%s"/>`
	paragraphAlignmentTemplateConstant = `<w:jc w:val="%s"/>`
	runTextTemplateConstant            = `<w:t xml:space="preserve">%s</w:t>`

	entryWriteErrorTemplateConstant = "failed to write archive entry %s: %w"
	fileWriteErrorTemplateConstant  = "failed to write document %s: %w"
)

// WriteFile serializes the document as a minimal OOXML package at the given path.
func (document *Document) WriteFile(destinationPath string) error {
	var archiveBuffer bytes.Buffer
	archiveWriter := zip.NewWriter(&archiveBuffer)

	archiveEntries := []struct {
		name    string
		payload string
	}{
		{name: contentTypesEntryNameConstant, payload: contentTypesPayloadConstant},
		{name: relationshipsEntryNameConstant, payload: relationshipsPayloadConstant},
		{name: documentEntryNameConstant, payload: document.renderBody()},
	}

	for _, archiveEntry := range archiveEntries {
		entryWriter, entryError := archiveWriter.Create(archiveEntry.name)
		if entryError != nil {
			return fmt.Errorf(entryWriteErrorTemplateConstant, archiveEntry.name, entryError)
		}
		if _, writeError := entryWriter.Write([]byte(archiveEntry.payload)); writeError != nil {
			return fmt.Errorf(entryWriteErrorTemplateConstant, archiveEntry.name, writeError)
		}
	}

	if closeError := archiveWriter.Close(); closeError != nil {
		return fmt.Errorf(fileWriteErrorTemplateConstant, destinationPath, closeError)
	}

	if writeError := os.WriteFile(destinationPath, archiveBuffer.Bytes(), 0o644); writeError != nil {
		return fmt.Errorf(fileWriteErrorTemplateConstant, destinationPath, writeError)
	}

	return nil
}

func (document *Document) renderBody() string {
	var builder strings.Builder
	builder.WriteString(documentOpeningConstant)
	for _, paragraph := range document.Paragraphs {
		renderParagraph(&builder, paragraph)
	}
	builder.WriteString(documentClosingConstant)
	return builder.String()
}

func renderParagraph(builder *strings.Builder, paragraph Paragraph) {
	builder.WriteString("<w:p>")
	if len(paragraph.Style) > 0 || len(paragraph.Alignment) > 0 {
		builder.WriteString("<w:pPr>")
		if len(paragraph.Style) > 0 {
			fmt.Fprintf(builder, paragraphStyleTemplateConstant, escapeText(paragraph.Style))
		}
		if len(paragraph.Alignment) > 0 {
			fmt.Fprintf(builder, paragraphAlignmentTemplateConstant, escapeText(paragraph.Alignment))
		}
		builder.WriteString("</w:pPr>")
	}
	for _, run := range paragraph.Runs {
		builder.WriteString("<w:r>")
		if run.Bold {
			builder.WriteString("<w:rPr><w:b/></w:rPr>")
		}
		fmt.Fprintf(builder, runTextTemplateConstant, escapeText(run.Text))
		builder.WriteString("</w:r>")
	}
	builder.WriteString("</w:p>")
}

func escapeText(rawText string) string {
	var escapedBuffer bytes.Buffer
	// EscapeText only fails on writer errors, which bytes.Buffer never returns.
	_ = xml.EscapeText(&escapedBuffer, []byte(rawText))
	return escapedBuffer.String()
}
