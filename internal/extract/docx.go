package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/beevik/etree"
)

const docxBody = "word/document.xml"

func decodeDOCX(_ context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", failed(FormatDOCX, "open container", err)
	}

	var body []byte
	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", failed(FormatDOCX, "open "+docxBody, err)
		}
		body, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", failed(FormatDOCX, "read "+docxBody, err)
		}
		break
	}

	if body == nil {
		return "", failed(FormatDOCX, docxBody+" not found", nil)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return "", failed(FormatDOCX, "parse "+docxBody, err)
	}

	root := doc.Root()
	if root == nil {
		return "", failed(FormatDOCX, docxBody+" has no root element", nil)
	}

	var paragraphs []string
	collectParagraphs(root, &paragraphs)

	return strings.TrimSpace(strings.Join(paragraphs, "\n\n")), nil
}

// collectParagraphs appends the raw text of every w:p below el in document order.
// Nested paragraphs (text boxes, table cells) are emitted on their own.
func collectParagraphs(el *etree.Element, out *[]string) {
	for _, child := range el.ChildElements() {
		if child.Tag == "p" {
			var b strings.Builder
			writeRuns(child, &b, out)
			*out = append(*out, b.String())
			continue
		}
		collectParagraphs(child, out)
	}
}

func writeRuns(el *etree.Element, b *strings.Builder, out *[]string) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "t":
			b.WriteString(child.Text())
		case "tab":
			b.WriteByte('\t')
		case "br", "cr":
			b.WriteByte('\n')
		case "p":
			var nested strings.Builder
			writeRuns(child, &nested, out)
			*out = append(*out, nested.String())
		case "rPr", "pPr", "instrText", "delText":
			// formatting and field codes carry no visible text
		default:
			writeRuns(child, b, out)
		}
	}
}
