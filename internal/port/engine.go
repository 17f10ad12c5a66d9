package port

import "context"

// TranscribeOptions mirrors the engine's decoding knobs. Threshold values are
// pipeline policy constants, not caller-tunable.
type TranscribeOptions struct {
	Model                     string
	Language                  string // engine language code; empty lets the engine detect
	WordTimestamps            bool
	Temperature               float64
	ConditionOnPreviousText   bool
	CompressionRatioThreshold float64
	LogProbThreshold          float64
	NoSpeechThreshold         float64
	MaxDuration               float64 // seconds of audio to decode; 0 means all
}

type EngineSegment struct {
	Start      float64
	End        float64
	Text       string
	AvgLogProb float64
}

type EngineResult struct {
	Language string
	Segments []EngineSegment
}

// TranscriptionEngine is the opaque speech-to-text collaborator.
type TranscriptionEngine interface {
	Transcribe(ctx context.Context, audioPath string, opts TranscribeOptions) (*EngineResult, error)
	Available() bool
}
