// Package extract turns bucket objects into plain text for ingestion.
package extract

import "strings"

// Extractor extracts plain text from object bodies.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf"). Anything that is not a
// PDF or HTML document is treated as UTF-8 text.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return extractPDF(content)
	case ".html", ".htm":
		return extractHTML(content)
	default:
		return extractPlain(content)
	}
}
