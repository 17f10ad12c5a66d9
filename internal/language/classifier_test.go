package language

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sarkar-G22/subpro2/internal/domain"
	"github.com/Sarkar-G22/subpro2/internal/port"
)

type stubEngine struct {
	result   *port.EngineResult
	err      error
	lastOpts port.TranscribeOptions
}

func (s *stubEngine) Transcribe(_ context.Context, _ string, opts port.TranscribeOptions) (*port.EngineResult, error) {
	s.lastOpts = opts
	return s.result, s.err
}

func (s *stubEngine) Available() bool { return true }

func TestClassify_SamplesShortPrefix(t *testing.T) {
	engine := &stubEngine{result: &port.EngineResult{
		Language: "en",
		Segments: []port.EngineSegment{{Text: "plain english sentence"}},
	}}

	got := NewClassifier(engine).Classify(context.Background(), "audio.wav", "small")
	assert.Equal(t, domain.LanguageEnglish, got)
	assert.Equal(t, 30.0, engine.lastOpts.MaxDuration)
	assert.Equal(t, "small", engine.lastOpts.Model)
	assert.Empty(t, engine.lastOpts.Language)
}

func TestClassify_EngineErrorDefaultsHinglish(t *testing.T) {
	engine := &stubEngine{err: errors.New("decode failed")}
	got := NewClassifier(engine).Classify(context.Background(), "audio.wav", "small")
	assert.Equal(t, domain.LanguageHinglish, got)
}

func TestClassifyText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		engineCode string
		want       domain.LanguageType
	}{
		{
			"hindi tag with mostly native script",
			"मैं आज बहुत खुश हूँ और मौसम अच्छा है",
			"hi",
			domain.LanguageHindi,
		},
		{
			"hindi tag but latin-dominant text",
			"aaj weather bahut accha hai yaar chalo bahar chalte",
			"hi",
			domain.LanguageHinglish,
		},
		{
			"english tag with pure english",
			"the quick brown fox jumps over the lazy dog",
			"en",
			domain.LanguageEnglish,
		},
		{
			"english tag with a code-switch marker",
			"kya should we just go now",
			"en",
			domain.LanguageHinglish,
		},
		{
			"single loanword outside the marker set stays english",
			"so basically matlab we should just go",
			"en",
			domain.LanguageEnglish,
		},
		{
			"loanwords past the lexicon threshold",
			"nahi yaar matlab bahut tough schedule today",
			"en",
			domain.LanguageHinglish,
		},
		{
			"mislabeled but heavy devanagari",
			"यह पूरा वाक्य देवनागरी में लिखा हुआ है",
			"en",
			domain.LanguageHindi,
		},
		{
			"empty sample",
			"",
			"",
			domain.LanguageEnglish,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyText(tt.text, tt.engineCode))
		})
	}
}

func TestRuneCounts(t *testing.T) {
	dev, total := runeCounts("hai हम, 123")
	require.Greater(t, total, dev)
	assert.Equal(t, 2, dev)
	assert.Equal(t, 5, total)
}
