// Package document implements the financial document pipeline: PDF text
// extraction, keyword-based classification, and per-type field
// extraction into ledger records.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is the text form of one uploaded PDF. Pages holds the
// per-page extracted text (blank pages as empty strings, never dropped);
// Text is the concatenated form the router and most extractors scan.
type Document struct {
	Filename string
	Pages    []string
	Text     string
}

// NewDocument builds a Document from per-page text.
func NewDocument(filename string, pages []string) *Document {
	return &Document{
		Filename: filename,
		Pages:    pages,
		Text:     strings.Join(pages, "\n"),
	}
}

// ExtractPages pulls plain text out of a PDF byte stream, one string per
// page. The underlying library panics on some malformed files, so the
// whole extraction is wrapped in a recover: any failure comes back as an
// error the caller can turn into a skipped document.
func ExtractPages(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		fontNames := page.Fonts()
		fonts := make(map[string]*pdf.Font, len(fontNames))
		for _, name := range fontNames {
			f := page.Font(name)
			fonts[name] = &f
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			// A single unreadable page becomes a blank page; the rest
			// of the document is still usable.
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return pages, nil
}
