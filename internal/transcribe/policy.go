package transcribe

import "github.com/Sarkar-G22/subpro2/internal/domain"

// Decoding policy constants. These are tuned for code-switched Hindi/English
// speech and are not caller-configurable.
const (
	primaryTemperature = 0.0
	retryTemperature   = 0.2

	compressionRatioThreshold = 2.4
	logProbThreshold          = -1.0
	noSpeechThreshold         = 0.6

	// Below this mean segment confidence a Hindi-family decode gets one
	// language-detection retry.
	retryMeanFloor = -0.8

	// Hindi-family segments under this confidence are discarded outright.
	strictSegmentFloor = -1.5
)

// shouldRetry reports whether a completed primary pass warrants the single
// auto-detect retry. Only Hindi-family decodes qualify; English output at
// low confidence is usually genuinely quiet audio, not a wrong-language
// decode.
func shouldRetry(modelCode string, meanLogProb float64) bool {
	return domain.HindiFamily(modelCode) && meanLogProb < retryMeanFloor
}

// pickBetter keeps the primary pass unless the retry's mean confidence is
// strictly higher.
func pickBetter(primary, retry *pass) *pass {
	if retry.mean > primary.mean {
		return retry
	}
	return primary
}
