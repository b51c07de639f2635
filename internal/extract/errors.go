package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is matched by *UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyText reports a document without a text layer, e.g. a scanned PDF.
	ErrEmptyText = errors.New("extracted text is empty")
	// ErrExtractionFailed is matched by *ExtractionError.
	ErrExtractionFailed = errors.New("text extraction failed")
	// ErrFileTooLarge is matched by *FileTooLargeError.
	ErrFileTooLarge = errors.New("file is too large")
)

type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return "unsupported file type: no extension"
	}
	return fmt.Sprintf("unsupported file type: .%s", e.Extension)
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// ExtractionError wraps any failure of the underlying format decoder.
type ExtractionError struct {
	Format string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("failed to extract text from %s", e.Format)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func (e *ExtractionError) Is(target error) bool { return target == ErrExtractionFailed }

type FileTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file size %d bytes exceeds the %d bytes limit", e.Size, e.Limit)
}

func (e *FileTooLargeError) Is(target error) bool { return target == ErrFileTooLarge }

func failed(format, reason string, err error) error {
	return &ExtractionError{Format: format, Reason: reason, Err: err}
}
