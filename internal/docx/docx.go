package docx

import "strings"

// Paragraph alignment identifiers used by the container.
const (
	AlignmentCenter = "center"
)

// Paragraph style identifiers used by the container.
const (
	StyleListBullet = "ListParagraph"
)

// Run is a contiguous span of text sharing one set of character properties.
type Run struct {
	Text string
	Bold bool
}

// Paragraph is one block-level element of the document.
type Paragraph struct {
	Style     string
	Alignment string
	Runs      []Run
}

// Text concatenates the paragraph's run texts.
func (paragraph Paragraph) Text() string {
	var builder strings.Builder
	for _, run := range paragraph.Runs {
		builder.WriteString(run.Text)
	}
	return builder.String()
}

// Document is an ordered sequence of paragraphs.
type Document struct {
	Paragraphs []Paragraph
}

// AppendParagraph adds a paragraph to the end of the document.
func (document *Document) AppendParagraph(paragraph Paragraph) {
	document.Paragraphs = append(document.Paragraphs, paragraph)
}

// AppendTextParagraph adds a plain paragraph holding a single run.
func (document *Document) AppendTextParagraph(text string) {
	document.AppendParagraph(Paragraph{Runs: []Run{{Text: text}}})
}

// AppendEmptyParagraph adds a paragraph without runs, rendered as a blank line.
func (document *Document) AppendEmptyParagraph() {
	document.AppendParagraph(Paragraph{})
}
