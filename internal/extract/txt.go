package extract

import (
	"context"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeTXT keeps the content verbatim apart from BOM handling: a UTF-8 or
// UTF-16 BOM selects the encoding and is dropped, otherwise UTF-8 is assumed.
func decodeTXT(_ context.Context, data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())

	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", failed(FormatTXT, "decode text", err)
	}

	return strings.ToValidUTF8(string(out), "\uFFFD"), nil
}
