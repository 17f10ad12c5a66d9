package domain

// LanguageType is the coarse language classification this tool works with:
// plain Hindi, code-switched Hinglish, or English.
type LanguageType string

const (
	LanguageHindi    LanguageType = "hindi"
	LanguageHinglish LanguageType = "hinglish"
	LanguageEnglish  LanguageType = "english"
)

type Script string

const (
	ScriptDevanagari Script = "devanagari"
	ScriptLatin      Script = "latin"
)

// LanguageProfile captures the decoding configuration implied by a language
// type. Hinglish deliberately shares the Hindi model code; the Latin-script
// rendering is recovered by text normalization after decoding.
type LanguageProfile struct {
	Type      LanguageType
	Script    Script
	ModelCode string
	Romanize  bool
}

var languageProfiles = map[LanguageType]LanguageProfile{
	LanguageHindi:    {Type: LanguageHindi, Script: ScriptDevanagari, ModelCode: "hi", Romanize: false},
	LanguageHinglish: {Type: LanguageHinglish, Script: ScriptLatin, ModelCode: "hi", Romanize: true},
	LanguageEnglish:  {Type: LanguageEnglish, Script: ScriptLatin, ModelCode: "en", Romanize: false},
}

// ProfileFor returns the profile for a language type, defaulting to hinglish
// for anything unrecognized.
func ProfileFor(lang LanguageType) LanguageProfile {
	if p, ok := languageProfiles[lang]; ok {
		return p
	}
	return languageProfiles[LanguageHinglish]
}

// HindiFamily reports whether a resolved engine code is the Hindi-family code.
func HindiFamily(modelCode string) bool {
	return modelCode == "hi"
}

// TranscriptSegment is one timed caption produced by the transcription engine.
// Text is rewritten by normalization; Index keeps the engine's original order
// and is only renumbered at serialization time.
type TranscriptSegment struct {
	Index      int
	Start      float64
	End        float64
	Text       string
	AvgLogProb float64
}

// SubtitleDocument is the ordered caption sequence after filtering and
// normalization. Segments are assumed chronological (the engine emits them in
// decode order); nothing re-sorts them.
type SubtitleDocument struct {
	Segments []TranscriptSegment
	Language LanguageProfile
}

// MeanLogProb returns the mean segment confidence, 0 for an empty document.
func (d SubtitleDocument) MeanLogProb() float64 {
	if len(d.Segments) == 0 {
		return 0
	}
	var sum float64
	for _, s := range d.Segments {
		sum += s.AvgLogProb
	}
	return sum / float64(len(d.Segments))
}
