package repository

import (
	"context"
	"time"

	"tubepilot/internal/domain"
)

// JobScheduleRepository persists the per-(job_type, project) cadence rows.
//
// Claim is the coordination primitive for the whole scheduler: it must be a
// single atomic conditional update against shared storage, succeeding for
// exactly one of any set of concurrent callers inside the half-interval
// window.
type JobScheduleRepository interface {
	// FindOrCreate returns the schedule for the pair, creating a disabled
	// row with the given default interval on first reference. Idempotent.
	FindOrCreate(ctx context.Context, jobType domain.JobType, projectID string, defaultIntervalMinutes int) (*domain.JobSchedule, error)

	// Get returns the schedule or ErrNotFound
	Get(ctx context.Context, jobType domain.JobType, projectID string) (*domain.JobSchedule, error)

	// Update persists enabled/interval/owner mutations
	Update(ctx context.Context, schedule *domain.JobSchedule) error

	// Claim atomically sets last_run_at=now when last_run_at is unset or at
	// most threshold (epoch millis). Returns ErrSlotNotClaimed when another
	// instance already owns the slot; that outcome is not an error condition.
	Claim(ctx context.Context, jobType domain.JobType, projectID string, now time.Time, threshold int64) error

	// ClearLastRun resets last_run_at so the next claim succeeds immediately
	ClearLastRun(ctx context.Context, jobType domain.JobType, projectID string) error

	// ListByProject returns every schedule row for a project
	ListByProject(ctx context.Context, projectID string) ([]*domain.JobSchedule, error)
}
