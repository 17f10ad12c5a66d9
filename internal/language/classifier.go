// Package language classifies an audio sample into the Hindi / Hinglish /
// English space by decoding a short prefix and inspecting the result.
package language

import (
	"context"
	"strings"
	"unicode"

	"github.com/Sarkar-G22/subpro2/internal/domain"
	"github.com/Sarkar-G22/subpro2/internal/infrastructure/logger"
	"github.com/Sarkar-G22/subpro2/internal/port"
)

const (
	sampleSeconds = 30.0

	// Decision thresholds over the decoded sample.
	devanagariRuneFloor = 10
	devanagariShare     = 0.30
	lexiconFloor        = 3
)

// Classifier resolves the language type of an audio file from a short
// engine pass. It never fails: when the engine is unusable or the sample is
// ambiguous it falls back to hinglish, the most forgiving downstream path.
type Classifier struct {
	engine port.TranscriptionEngine
}

func NewClassifier(engine port.TranscriptionEngine) *Classifier {
	return &Classifier{engine: engine}
}

// Classify decodes the first seconds of the audio and scores the output.
func (c *Classifier) Classify(ctx context.Context, audioPath, model string) domain.LanguageType {
	result, err := c.engine.Transcribe(ctx, audioPath, port.TranscribeOptions{
		Model:       model,
		Temperature: 0,
		MaxDuration: sampleSeconds,
	})
	if err != nil {
		logger.Warn.Printf("language sample pass failed, assuming hinglish: %v", err)
		return domain.LanguageHinglish
	}

	var sample strings.Builder
	for _, seg := range result.Segments {
		sample.WriteString(seg.Text)
		sample.WriteString(" ")
	}
	return classifyText(sample.String(), result.Language)
}

// classifyText applies the decision rules to decoded text and the engine's
// own language tag.
func classifyText(text, engineCode string) domain.LanguageType {
	devanagari, total := runeCounts(text)
	native, romanized, markers := lexiconCounts(text)

	hindiFamily := domain.HindiFamily(engineCode) || devanagari > devanagariRuneFloor
	if hindiFamily {
		if total > 0 && float64(devanagari)/float64(total) > devanagariShare {
			return domain.LanguageHindi
		}
		return domain.LanguageHinglish
	}
	if native+romanized > lexiconFloor || markers > 0 {
		return domain.LanguageHinglish
	}
	return domain.LanguageEnglish
}

// runeCounts returns the Devanagari rune count and the total count of
// letter runes in text.
func runeCounts(text string) (devanagari, total int) {
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		if unicode.Is(unicode.Devanagari, r) {
			devanagari++
		}
	}
	return devanagari, total
}

// lexiconCounts tallies tokens found in the native and romanized lexicons,
// plus hits on the any-match code-switch markers.
func lexiconCounts(text string) (native, romanized, markers int) {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	for _, tok := range tokens {
		if _, ok := hindiIndicators[tok]; ok {
			native++
		}
		if _, ok := romanizedTokens[tok]; ok {
			romanized++
		}
		if _, ok := codeSwitchMarkers[tok]; ok {
			markers++
		}
	}
	return native, romanized, markers
}
