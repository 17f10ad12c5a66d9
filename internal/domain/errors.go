package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job id is unknown to the store.
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidTransition is returned for a stage change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrInputNotFound means the uploaded source media is missing on disk.
	ErrInputNotFound = errors.New("input media not found")

	// ErrExtractionUnavailable means no audio extraction method succeeded.
	ErrExtractionUnavailable = errors.New("audio extraction failed")

	// ErrEngineFailure covers transcription engine errors and malformed results.
	ErrEngineFailure = errors.New("transcription engine failure")

	// ErrNoSegments is returned when the engine result carries no segment data.
	ErrNoSegments = errors.New("transcription result has no segments")

	// ErrEmptyTranscript is returned when filtering removed every segment.
	ErrEmptyTranscript = errors.New("transcript is empty after filtering")

	// ErrSerializationInvalid means the produced subtitle document failed validation.
	ErrSerializationInvalid = errors.New("subtitle document failed validation")

	// ErrBurnInUnavailable means the media transcoder was not found at startup.
	// Non-fatal to the job: the subtitle artifact is still delivered.
	ErrBurnInUnavailable = errors.New("media transcoder unavailable")

	// ErrBurnInExhausted means every burn-in strategy failed. Non-fatal to the job.
	ErrBurnInExhausted = errors.New("all burn-in strategies failed")
)
