// Package langdetect guesses the language of subtitle text.
package langdetect

import (
	"github.com/abadojack/whatlanggo"
)

// Detect returns the ISO 639-1 code of the dominant language in text.
// ok is false when the text is too short or ambiguous for a reliable
// guess.
func Detect(text string) (string, bool) {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "", false
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return "", false
	}
	return code, true
}
