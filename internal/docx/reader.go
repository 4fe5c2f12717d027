package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	archiveOpenErrorTemplateConstant   = "failed to open document %s: %w"
	documentEntryMissingMessageConst   = "document part word/document.xml not found"
	documentEntryReadErrorTemplate     = "failed to read document part: %w"
	documentEntryDecodeErrorTemplate   = "failed to decode document part: %w"
	boldDisabledAttributeValueConstant = "false"
	boldDisabledNumericValueConstant   = "0"
)

// ErrDocumentPartMissing indicates the archive lacks the main document part.
var ErrDocumentPartMissing = errors.New(documentEntryMissingMessageConst)

type xmlDocument struct {
	Body xmlBody `xml:"body"`
}

type xmlBody struct {
	Paragraphs []xmlParagraph `xml:"p"`
}

type xmlParagraph struct {
	Properties *xmlParagraphProperties `xml:"pPr"`
	Runs       []xmlRun                `xml:"r"`
}

type xmlParagraphProperties struct {
	Style     *xmlValueAttribute `xml:"pStyle"`
	Alignment *xmlValueAttribute `xml:"jc"`
}

type xmlValueAttribute struct {
	Value string `xml:"val,attr"`
}

type xmlRun struct {
	Properties *xmlRunProperties `xml:"rPr"`
	TextNodes  []string          `xml:"t"`
}

type xmlRunProperties struct {
	Bold *xmlValueAttribute `xml:"b"`
}

// ReadFile parses an OOXML package and reconstructs its paragraph sequence.
func ReadFile(sourcePath string) (*Document, error) {
	archiveReader, openError := zip.OpenReader(sourcePath)
	if openError != nil {
		return nil, fmt.Errorf(archiveOpenErrorTemplateConstant, sourcePath, openError)
	}
	defer archiveReader.Close()

	var documentEntry *zip.File
	for _, archiveEntry := range archiveReader.File {
		if archiveEntry.Name == documentEntryNameConstant {
			documentEntry = archiveEntry
			break
		}
	}
	if documentEntry == nil {
		return nil, ErrDocumentPartMissing
	}

	entryReader, entryOpenError := documentEntry.Open()
	if entryOpenError != nil {
		return nil, fmt.Errorf(documentEntryReadErrorTemplate, entryOpenError)
	}
	defer entryReader.Close()

	entryContent, entryReadError := io.ReadAll(entryReader)
	if entryReadError != nil {
		return nil, fmt.Errorf(documentEntryReadErrorTemplate, entryReadError)
	}

	var parsedDocument xmlDocument
	if decodeError := xml.Unmarshal(entryContent, &parsedDocument); decodeError != nil {
		return nil, fmt.Errorf(documentEntryDecodeErrorTemplate, decodeError)
	}

	reconstructed := &Document{}
	for _, parsedParagraph := range parsedDocument.Body.Paragraphs {
		reconstructed.AppendParagraph(convertParagraph(parsedParagraph))
	}
	return reconstructed, nil
}

func convertParagraph(parsedParagraph xmlParagraph) Paragraph {
	paragraph := Paragraph{}
	if parsedParagraph.Properties != nil {
		if parsedParagraph.Properties.Style != nil {
			paragraph.Style = parsedParagraph.Properties.Style.Value
		}
		if parsedParagraph.Properties.Alignment != nil {
			paragraph.Alignment = parsedParagraph.Properties.Alignment.Value
		}
	}
	for _, parsedRun := range parsedParagraph.Runs {
		paragraph.Runs = append(paragraph.Runs, Run{
			Text: strings.Join(parsedRun.TextNodes, ""),
			Bold: runIsBold(parsedRun),
		})
	}
	return paragraph
}

func runIsBold(parsedRun xmlRun) bool {
	if parsedRun.Properties == nil || parsedRun.Properties.Bold == nil {
		return false
	}
	switch parsedRun.Properties.Bold.Value {
	case boldDisabledAttributeValueConstant, boldDisabledNumericValueConstant:
		return false
	default:
		return true
	}
}
