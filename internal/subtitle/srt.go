// Package subtitle serializes transcript segments into SRT and ASS
// subtitle documents.
package subtitle

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Sarkar-G22/subpro2/internal/domain"
	"github.com/Sarkar-G22/subpro2/internal/infrastructure/logger"
)

var (
	timestampPattern = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2}),(\d{3})$`)
	cueTimingPattern = regexp.MustCompile(`(\d{2,}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2,}:\d{2}:\d{2},\d{3})`)
	wordCharPattern  = regexp.MustCompile(`\p{L}`)
)

// FormatTimestamp renders seconds as an SRT timestamp HH:MM:SS,mmm.
// Negative or non-numeric inputs are clamped to zero.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		logger.Warn.Printf("invalid timestamp %.3f clamped to zero", seconds)
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	millis := total % 1000
	total /= 1000
	secs := total % 60
	total /= 60
	mins := total % 60
	hours := total / 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, mins, secs, millis)
}

// ParseTimestamp converts an SRT timestamp back to seconds.
func ParseTimestamp(ts string) (float64, error) {
	m := timestampPattern.FindStringSubmatch(strings.TrimSpace(ts))
	if m == nil {
		return 0, fmt.Errorf("malformed timestamp %q", ts)
	}
	hours, _ := strconv.ParseInt(m[1], 10, 64)
	mins, _ := strconv.ParseInt(m[2], 10, 64)
	secs, _ := strconv.ParseInt(m[3], 10, 64)
	millis, _ := strconv.ParseInt(m[4], 10, 64)
	return float64(hours*3600+mins*60+secs) + float64(millis)/1000, nil
}

func isDevanagari(r rune) bool {
	return unicode.Is(unicode.Devanagari, r)
}

func hasDevanagari(text string) bool {
	for _, r := range text {
		if isDevanagari(r) {
			return true
		}
	}
	return false
}

// keepSegment decides whether a cleaned segment carries enough content to
// render. Very short Latin fragments are dropped; Devanagari text is kept
// even when short because single aksharas carry meaning.
func keepSegment(text string) bool {
	runes := []rune(text)
	if len(runes) < 1 {
		return false
	}
	if len(runes) < 3 && !hasDevanagari(text) {
		return false
	}
	return wordCharPattern.MatchString(text)
}

// Serialize renders a document as SRT. Segments that clean down to noise
// are dropped and the surviving cues are renumbered from 1.
func Serialize(doc *domain.SubtitleDocument) string {
	var b strings.Builder
	index := 1
	for _, seg := range doc.Segments {
		text := strings.TrimSpace(seg.Text)
		if !keepSegment(text) {
			continue
		}
		b.WriteString(strconv.Itoa(index))
		b.WriteString("\n")
		b.WriteString(FormatTimestamp(seg.Start))
		b.WriteString(" --> ")
		b.WriteString(FormatTimestamp(seg.End))
		b.WriteString("\n")
		b.WriteString(text)
		b.WriteString("\n\n")
		index++
	}
	return b.String()
}

// Validate checks that content is a plausible SRT document. It returns
// false with a short reason on the first structural problem found.
func Validate(content string) (bool, string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false, "empty"
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 3 {
		return false, "too short"
	}
	if seq, err := strconv.Atoi(strings.TrimSpace(lines[0])); err != nil || seq < 1 {
		return false, "missing sequence number"
	}
	head := lines
	if len(head) > 10 {
		head = head[:10]
	}
	for _, line := range head {
		if cueTimingPattern.MatchString(line) {
			return true, ""
		}
	}
	return false, "missing timestamp"
}

// Cue is one parsed SRT entry.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Parse reads SRT content back into cues. Blocks without a valid timing
// line are skipped.
func Parse(content string) []Cue {
	var cues []Cue
	blocks := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n")
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}
		m := cueTimingPattern.FindStringSubmatch(lines[1])
		if m == nil {
			continue
		}
		start, err := ParseTimestamp(m[1])
		if err != nil {
			continue
		}
		end, err := ParseTimestamp(m[2])
		if err != nil {
			continue
		}
		text := strings.TrimSpace(strings.Join(lines[2:], "\n"))
		if text == "" {
			continue
		}
		cues = append(cues, Cue{Index: index, Start: start, End: end, Text: text})
	}
	return cues
}
