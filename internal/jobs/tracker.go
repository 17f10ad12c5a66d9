// Package jobs tracks captioning job state against the persistent store and
// enforces the pipeline state machine.
package jobs

import (
	"fmt"
	"os"
	"time"

	"github.com/Sarkar-G22/subpro2/internal/domain"
	"github.com/Sarkar-G22/subpro2/internal/infrastructure/logger"
	"github.com/Sarkar-G22/subpro2/internal/port"
)

// Tracker mediates all job record writes. Each job has a single writer
// goroutine; the tracker's checks catch pipeline bugs, not races.
type Tracker struct {
	store port.JobStore
}

func NewTracker(store port.JobStore) *Tracker {
	return &Tracker{store: store}
}

// Accept persists a freshly created job in its accepted state.
func (t *Tracker) Accept(job *domain.Job) error {
	return t.store.Create(job)
}

func (t *Tracker) Get(id string) (*domain.Job, error) {
	return t.store.Get(id)
}

// Transition moves a job to stage with intra-stage fraction and a status
// message, persisting the derived progress percentage.
func (t *Tracker) Transition(job *domain.Job, stage domain.Stage, fraction float64, message string) error {
	if !domain.ValidTransition(job.Stage, stage) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, job.Stage, stage)
	}
	job.Stage = stage
	job.Progress = Percent(stage, fraction)
	job.Message = message
	job.UpdatedAt = time.Now().UTC()
	return t.store.Update(job)
}

// Complete marks a job successfully finished.
func (t *Tracker) Complete(job *domain.Job, message string) error {
	if !domain.ValidTransition(job.Stage, domain.StageCompleted) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, job.Stage, domain.StageCompleted)
	}
	job.Stage = domain.StageCompleted
	job.Progress = 100
	job.Message = message
	job.UpdatedAt = time.Now().UTC()
	return t.store.Update(job)
}

// Fail marks a job failed with the given error. Failure is reachable from
// every non-terminal stage.
func (t *Tracker) Fail(job *domain.Job, cause error) error {
	if !domain.ValidTransition(job.Stage, domain.StageFailed) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, job.Stage, domain.StageFailed)
	}
	job.Stage = domain.StageFailed
	job.Message = "job failed"
	job.ErrorMessage = cause.Error()
	job.UpdatedAt = time.Now().UTC()
	return t.store.Update(job)
}

// FailInterrupted fails every job left non-terminal by a previous process.
func (t *Tracker) FailInterrupted() error {
	n, err := t.store.FailInterrupted("interrupted by server restart")
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Warn.Printf("failed %d interrupted jobs from previous run", n)
	}
	return nil
}

// Sweep deletes terminal jobs older than retention and removes their
// on-disk artifacts.
func (t *Tracker) Sweep(retention time.Duration) error {
	cutoff := time.Now().UTC().Add(-retention)
	removed, err := t.store.DeleteTerminalBefore(cutoff)
	if err != nil {
		return err
	}
	for _, job := range removed {
		if job.UploadPath != "" {
			os.Remove(job.UploadPath)
		}
		if job.OutputDir != "" {
			os.RemoveAll(job.OutputDir)
		}
	}
	if len(removed) > 0 {
		logger.Info.Printf("retention sweep removed %d jobs", len(removed))
	}
	return nil
}
