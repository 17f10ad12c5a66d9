package port

import (
	"time"

	"github.com/Sarkar-G22/subpro2/internal/domain"
)

// JobStore persists job records. Each record has a single writer (the
// pipeline goroutine owning the job); updates are coarse whole-row writes.
type JobStore interface {
	Create(job *domain.Job) error
	Get(id string) (*domain.Job, error)
	Update(job *domain.Job) error
	// FailInterrupted marks every non-terminal job as failed with the given
	// message. Called once at startup to clean up after a crash or restart.
	FailInterrupted(message string) (int64, error)
	// DeleteTerminalBefore removes terminal jobs last updated before cutoff
	// and returns them so the caller can remove their artifacts.
	DeleteTerminalBefore(cutoff time.Time) ([]*domain.Job, error)
	Close() error
}
