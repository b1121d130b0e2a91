package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfExtractor concatenates per-page text with newline separators.
type pdfExtractor struct{}

func (pdfExtractor) Extract(data []byte) (text string, err error) {
	// The pdf package panics on some malformed cross-reference tables;
	// report those files as unreadable instead of taking down the request.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("extract: error reading PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("extract: error reading PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract: error reading PDF page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
