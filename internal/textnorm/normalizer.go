// Package textnorm cleans up transcription artifacts in mixed-script
// Hindi/English text.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	repeatedPunct   = regexp.MustCompile(`([.!?])\s*([.!?])+`)
	punctSpacing    = regexp.MustCompile(`\s*([,.!?])\s*`)
	spaceBeforeStop = regexp.MustCompile(`\s+([,.!?])`)
	sentenceStart   = regexp.MustCompile(`([.!?]\s+)([a-z])`)
)

// Clean normalizes whitespace, punctuation spacing and sentence
// capitalization, and strips stray edge punctuation. It is idempotent:
// Clean(Clean(s)) == Clean(s).
func Clean(text string) string {
	text = norm.NFC.String(text)

	text = whitespaceRun.ReplaceAllString(text, " ")
	text = repeatedPunct.ReplaceAllString(text, "$1")
	text = punctSpacing.ReplaceAllString(text, "$1 ")
	text = spaceBeforeStop.ReplaceAllString(text, "$1")

	text = sentenceStart.ReplaceAllStringFunc(text, func(m string) string {
		r, size := utf8.DecodeLastRuneInString(m)
		return m[:len(m)-size] + string(unicode.ToUpper(r))
	})

	text = strings.Trim(text, " .,!?")
	return strings.TrimSpace(text)
}
