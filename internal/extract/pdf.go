package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// decodePDF reads the text layer page by page. Tokens of a page are joined with
// single spaces and pages with newlines; an image-only PDF yields ErrEmptyText.
func decodePDF(ctx context.Context, data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", failed(FormatPDF, "open document", err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", failed(FormatPDF, fmt.Sprintf("page %d", i), err)
		}

		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := pageText(page)
		if err != nil {
			return "", failed(FormatPDF, fmt.Sprintf("page %d", i), err)
		}
		pages = append(pages, text)
	}

	text := strings.TrimSpace(strings.Join(pages, "\n"))
	if text == "" {
		return "", ErrEmptyText
	}

	return text, nil
}

func pageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	var tokens []string
	for _, row := range rows {
		for _, t := range row.Content {
			tokens = append(tokens, t.S)
		}
	}

	return strings.Join(tokens, " "), nil
}
