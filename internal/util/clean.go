package util

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"ticketclassifier/internal/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CleanCSVBody strips a leading UTF-8 byte order mark and rejects input that
// is not valid UTF-8. Spreadsheet exports often carry the BOM, which would
// otherwise glue itself onto the first header name. No other characters are
// rewritten: descriptions reach the prompt verbatim.
func CleanCSVBody(body []byte, src string) (string, error) {
	body = bytes.TrimPrefix(body, utf8BOM)

	if !utf8.Valid(body) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", models.ErrInvalidEncoding, src)
	}
	return string(body), nil
}

// IsBlank reports whether body holds nothing but whitespace.
func IsBlank(body []byte) bool {
	return len(bytes.TrimSpace(body)) == 0
}
