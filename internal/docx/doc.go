// Package docx reads and writes a minimal OOXML (.docx) container.
//
// The container carries exactly what the report codec needs: plain
// paragraphs, bold runs, a centered paragraph, and a bullet-list paragraph
// style. It is not a general word-processing library.
package docx
