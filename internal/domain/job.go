package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stage is one step of the captioning pipeline. Classifying and burning_in
// are skipped when auto-detection or video creation is not requested.
type Stage string

const (
	StageAccepted     Stage = "accepted"
	StageExtracting   Stage = "extracting"
	StageClassifying  Stage = "classifying"
	StageTranscribing Stage = "transcribing"
	StageSerializing  Stage = "serializing"
	StageBurningIn    Stage = "burning_in"
	StageCompleted    Stage = "completed"
	StageFailed       Stage = "failed"
)

// Job is the record of one captioning run. It is written only by the pipeline
// goroutine that owns it and read by any number of status pollers.
type Job struct {
	ID             string
	Stage          Stage
	Progress       int
	Message        string
	ErrorMessage   string
	OriginalName   string
	UploadPath     string
	OutputDir      string
	SRTPath        string
	VideoPath      string
	VideoRequested bool
	VideoCreated   bool
	ModelName      string
	Language       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewJob(originalName, uploadPath, modelName, language string, videoRequested bool) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:             uuid.NewString(),
		Stage:          StageAccepted,
		Message:        "job accepted",
		OriginalName:   originalName,
		UploadPath:     uploadPath,
		ModelName:      modelName,
		Language:       language,
		VideoRequested: videoRequested,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Terminal reports whether the job reached a final state. No transition is
// defined out of a terminal state.
func (j *Job) Terminal() bool {
	return j.Stage == StageCompleted || j.Stage == StageFailed
}

// Completed reports a successful terminal state. A job that produced captions
// but no video is still completed; VideoCreated carries the distinction.
func (j *Job) Completed() bool {
	return j.Stage == StageCompleted
}

func (j *Job) Failed() bool {
	return j.Stage == StageFailed
}

// ValidTransition enforces the job state machine edges. Staying in the same
// stage is always allowed so a stage can report intermediate progress.
func ValidTransition(from, to Stage) bool {
	if from == to {
		return from != StageCompleted && from != StageFailed
	}
	switch from {
	case StageAccepted:
		return to == StageExtracting || to == StageFailed
	case StageExtracting:
		return to == StageClassifying || to == StageTranscribing || to == StageFailed
	case StageClassifying:
		return to == StageTranscribing || to == StageFailed
	case StageTranscribing:
		return to == StageSerializing || to == StageFailed
	case StageSerializing:
		return to == StageBurningIn || to == StageCompleted || to == StageFailed
	case StageBurningIn:
		return to == StageCompleted || to == StageFailed
	default:
		return false
	}
}
