package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	tests := []struct {
		name string
		from Stage
		to   Stage
		want bool
	}{
		{"accepted to extracting", StageAccepted, StageExtracting, true},
		{"accepted to transcribing skips extraction", StageAccepted, StageTranscribing, false},
		{"extracting to classifying", StageExtracting, StageClassifying, true},
		{"extracting skips classifying", StageExtracting, StageTranscribing, true},
		{"classifying to transcribing", StageClassifying, StageTranscribing, true},
		{"transcribing to serializing", StageTranscribing, StageSerializing, true},
		{"serializing to burning in", StageSerializing, StageBurningIn, true},
		{"serializing straight to completed", StageSerializing, StageCompleted, true},
		{"burning in to completed", StageBurningIn, StageCompleted, true},
		{"any stage to failed", StageTranscribing, StageFailed, true},
		{"no exit from completed", StageCompleted, StageExtracting, false},
		{"no exit from failed", StageFailed, StageAccepted, false},
		{"completed cannot repeat", StageCompleted, StageCompleted, false},
		{"same active stage allowed", StageTranscribing, StageTranscribing, true},
		{"backwards rejected", StageSerializing, StageExtracting, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidTransition(tt.from, tt.to))
		})
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("talk.mp4", "/data/uploads/talk.mp4", "small", "auto", true)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, StageAccepted, job.Stage)
	assert.False(t, job.Terminal())
	assert.False(t, job.Completed())
	assert.True(t, job.VideoRequested)
	assert.False(t, job.VideoCreated)
}

func TestProfileFor(t *testing.T) {
	assert.Equal(t, "hi", ProfileFor(LanguageHindi).ModelCode)
	assert.Equal(t, "hi", ProfileFor(LanguageHinglish).ModelCode)
	assert.Equal(t, "en", ProfileFor(LanguageEnglish).ModelCode)
	// Unknown types fall back to the bilingual-safe default.
	assert.Equal(t, LanguageHinglish, ProfileFor("klingon").Type)

	assert.True(t, ProfileFor(LanguageHinglish).Romanize)
	assert.False(t, ProfileFor(LanguageHindi).Romanize)
}

func TestSubtitleDocumentMeanLogProb(t *testing.T) {
	doc := SubtitleDocument{Segments: []TranscriptSegment{
		{AvgLogProb: -0.4},
		{AvgLogProb: -0.8},
	}}
	assert.InDelta(t, -0.6, doc.MeanLogProb(), 1e-9)

	assert.Zero(t, SubtitleDocument{}.MeanLogProb())
}
