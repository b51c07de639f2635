package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestExtractTXT(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   []byte
		expect string
	}{
		{
			name:   "verbatim",
			data:   []byte("  Senior Go Engineer\nRemote  \n"),
			expect: "  Senior Go Engineer\nRemote  \n",
		},
		{
			name:   "utf8 bom is dropped",
			data:   append([]byte{0xEF, 0xBB, 0xBF}, []byte("Résumé")...),
			expect: "Résumé",
		},
		{
			name:   "utf16 little endian with bom",
			data:   []byte{0xFF, 0xFE, 'G', 0x00, 'o', 0x00},
			expect: "Go",
		},
		{
			name:   "invalid bytes are replaced",
			data:   []byte{'G', 'o', 0xFF},
			expect: "Go\uFFFD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Text(context.Background(), "jd.txt", tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestExtractDispatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	got, err := Text(context.Background(), "JD.TXT", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("plain text"), buildPDF(t, "BT /F1 12 Tf 72 720 Td (x) Tj ET")} {
		_, err := Text(context.Background(), "resume.xyz", data)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat))

		var unsupported *UnsupportedFormatError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, "xyz", unsupported.Extension)
		assert.Equal(t, "unsupported file type: .xyz", err.Error())
	}

	_, err := Text(context.Background(), "README", []byte("text"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractWhitespaceOnlyIsEmpty(t *testing.T) {
	t.Parallel()

	_, err := Text(context.Background(), "empty.txt", []byte(" \n\t "))
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = Text(context.Background(), "empty.docx", buildDOCX(t, `<w:p><w:r><w:t xml:space="preserve">   </w:t></w:r></w:p>`))
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestExtractDOCX(t *testing.T) {
	t.Parallel()

	body := `
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Go </w:t></w:r><w:r><w:t>Engineer</w:t></w:r><w:r><w:tab/><w:t>2019</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Kubernetes</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
<w:p><w:r><w:t>line one</w:t><w:br/><w:t>line two</w:t></w:r></w:p>
<w:p/>
<w:sectPr/>`

	got, err := Text(context.Background(), "cv.docx", buildDOCX(t, body))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nGo Engineer\t2019\n\nKubernetes\n\nline one\nline two", got)
}

func TestExtractDOCXFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "not a zip", data: []byte("definitely not a zip")},
		{name: "missing document part", data: func() []byte {
			data := buildDOCX(t, "")
			return []byte(strings.Replace(string(data), "word/document.xml", "word/documenX.xml", -1))
		}()},
		{name: "broken xml", data: buildDOCX(t, `<w:p w:rsidR=><w:r><w:t>bad</w:t></w:r></w:p>`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Text(context.Background(), "cv.docx", tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrExtractionFailed)

			var extractionErr *ExtractionError
			require.ErrorAs(t, err, &extractionErr)
			assert.Equal(t, FormatDOCX, extractionErr.Format)
		})
	}
}

func TestExtractPDF(t *testing.T) {
	t.Parallel()

	data := buildPDF(t,
		"BT /F1 12 Tf 72 720 Td (Senior Go Engineer) Tj ET",
		"BT /F1 12 Tf 72 720 Td (Five years of distributed systems) Tj ET",
	)

	got, err := Text(context.Background(), "jd.pdf", data)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer\nFive years of distributed systems", got)
}

func TestExtractPDFJoinsTokensWithSpaces(t *testing.T) {
	t.Parallel()

	data := buildPDF(t, "BT /F1 12 Tf 72 720 Td (Go) Tj (Kafka) Tj ET")

	got, err := Text(context.Background(), "jd.pdf", data)
	require.NoError(t, err)
	assert.Contains(t, got, "Go")
	assert.Contains(t, got, "Kafka")
	assert.NotContains(t, got, "GoKafka")
	assert.Equal(t, got, strings.TrimSpace(got))
}

func TestExtractImageOnlyPDF(t *testing.T) {
	t.Parallel()

	data := buildPDF(t, "q 0 0 0 rg 10 10 100 100 re f Q")

	_, err := Text(context.Background(), "scan.pdf", data)
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.NotErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractCorruptPDF(t *testing.T) {
	t.Parallel()

	_, err := Text(context.Background(), "broken.pdf", []byte("%PDF-1.4\nthis is not a pdf body"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractPDFHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Text(ctx, "jd.pdf", buildPDF(t, "BT /F1 12 Tf 72 720 Td (text) Tj ET"))
	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractorLogs(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.DebugLevel)
	e := New(zap.New(core))

	res, err := e.Extract(context.Background(), Document{Name: "jd.txt", Data: []byte("Go")})
	require.NoError(t, err)
	assert.Equal(t, &Extracted{Source: "jd.txt", Format: FormatTXT, Content: "Go"}, res)

	entries := observed.FilterMessage("text extracted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["characters"])
}

func TestCheckSize(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckSize(MaxFileSize))

	err := CheckSize(MaxFileSize + 1)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.EqualError(t, err, "file size 5242881 bytes exceeds the 5242880 bytes limit")
}
