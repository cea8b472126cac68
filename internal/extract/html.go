package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// mainSelectors are tried in order; the first that matches supplies the text.
var mainSelectors = []string{"main", "article", ".content", "#content"}

func extractHTML(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var text string
	for _, selector := range mainSelectors {
		if selected := doc.Find(selector); selected.Length() > 0 {
			text = selected.Text()
			break
		}
	}
	if text == "" {
		text = doc.Find("body").Text()
	}

	return collapseWhitespace(text), nil
}

// collapseWhitespace trims every line and drops the empty ones.
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
