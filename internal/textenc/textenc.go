// Package textenc decodes subtitle files of unknown character encoding
// into UTF-8 text.
package textenc

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Decode converts raw file bytes to a UTF-8 string, sniffing the encoding
// from a BOM or byte statistics. It returns the decoded text and the name
// of the detected encoding.
func Decode(data []byte) (string, string, error) {
	enc, name, _ := charset.DetermineEncoding(data, "")

	r := transform.NewReader(bytes.NewReader(data), enc.NewDecoder())
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", name, fmt.Errorf("decoding %s: %w", name, err)
	}

	text := strings.TrimPrefix(string(decoded), "\ufeff")
	return text, name, nil
}
