// Package extract converts uploaded documents (txt, docx, pdf) into plain text.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/logger"
)

// MaxFileSize is the upload limit collaborators must enforce before calling Extract.
const MaxFileSize int64 = 5 << 20

const (
	FormatTXT  = "txt"
	FormatDOCX = "docx"
	FormatPDF  = "pdf"
)

// Document is a caller-owned file. The extractor never retains it.
type Document struct {
	Name string
	Data []byte
	// Size is the declared size; when zero len(Data) is used.
	Size int64
}

// Extracted is the normalized result of a successful extraction.
type Extracted struct {
	Source  string
	Format  string
	Content string
}

type decoder func(ctx context.Context, data []byte) (string, error)

type Extractor struct {
	logger   *zap.Logger
	decoders map[string]decoder
}

func New(l *zap.Logger) *Extractor {
	e := &Extractor{logger: logger.OrNop(l)}
	e.decoders = map[string]decoder{
		FormatTXT:  decodeTXT,
		FormatDOCX: decodeDOCX,
		FormatPDF:  decodePDF,
	}
	return e
}

var defaultExtractor = New(nil)

// Text extracts the plain text of the named file with a default extractor.
func Text(ctx context.Context, name string, data []byte) (string, error) {
	res, err := defaultExtractor.Extract(ctx, Document{Name: name, Data: data})
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

// CheckSize enforces MaxFileSize.
func CheckSize(size int64) error {
	if size > MaxFileSize {
		return &FileTooLargeError{Size: size, Limit: MaxFileSize}
	}
	return nil
}

// Format returns the lowercase extension of name without the leading dot.
func Format(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Extract dispatches on the file extension only; the content is never sniffed.
func (e *Extractor) Extract(ctx context.Context, doc Document) (*Extracted, error) {
	format := Format(doc.Name)

	decode, ok := e.decoders[format]
	if !ok {
		return nil, &UnsupportedFormatError{Extension: format}
	}

	size := doc.Size
	if size == 0 {
		size = int64(len(doc.Data))
	}

	e.logger.Debug("extracting text",
		zap.String("file", doc.Name),
		zap.String("format", format),
		zap.Int64("size", size),
	)

	content, err := safeDecode(ctx, format, decode, doc.Data)
	if err != nil {
		e.logger.Debug("text extraction failed", zap.String("file", doc.Name), zap.Error(err))
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%s: %w", doc.Name, ErrEmptyText)
	}

	e.logger.Debug("text extracted",
		zap.String("file", doc.Name),
		zap.Int("characters", utf8.RuneCountInString(content)),
	)

	return &Extracted{Source: doc.Name, Format: format, Content: content}, nil
}

// safeDecode converts decoder panics (malformed streams trip a few in the pdf
// package) into extraction errors.
func safeDecode(ctx context.Context, format string, decode decoder, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = failed(format, fmt.Sprint(r), nil)
		}
	}()

	return decode(ctx, data)
}
