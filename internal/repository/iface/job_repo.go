package repository

import (
	"context"

	"tubepilot/internal/domain"
)

// ScheduledJobRepository tracks queued job instances between enqueue and
// dispatch so that schedule control operations can discard stale ones.
type ScheduledJobRepository interface {
	Create(ctx context.Context, job *domain.ScheduledJob) error
	Update(ctx context.Context, job *domain.ScheduledJob) error
	GetByID(ctx context.Context, jobID string) (*domain.ScheduledJob, error)
	Delete(ctx context.Context, jobID string) error

	// DeletePendingBySchedule removes every still-SCHEDULED instance for a
	// (job_type, project) pair and returns how many were removed. Used when
	// a schedule is stopped or its interval changes, so a queued instance
	// from the obsolete schedule cannot fire later with stale parameters.
	DeletePendingBySchedule(ctx context.Context, scheduleKey string) (int, error)
}
