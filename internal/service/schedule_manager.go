package service

import (
	"context"
	"fmt"
	"time"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	repository "tubepilot/internal/repository/iface"
)

// DefaultIntervalMinutes is the cadence a schedule gets on first reference
const DefaultIntervalMinutes = 60

// ScheduleManager drives the lifecycle of recurring schedules. Every
// reconfiguration first discards still-pending job instances for the pair, so
// an instance enqueued under the old configuration can never fire afterwards.
type ScheduleManager interface {
	Start(ctx context.Context, jobType domain.JobType, projectID, userID string, intervalMinutes int) (*domain.JobSchedule, error)
	Stop(ctx context.Context, jobType domain.JobType, projectID string) (*domain.JobSchedule, error)
	SetInterval(ctx context.Context, jobType domain.JobType, projectID string, intervalMinutes int) (*domain.JobSchedule, error)
	RunNow(ctx context.Context, jobType domain.JobType, projectID, userID string) (*domain.ScheduledJob, error)
	List(ctx context.Context, projectID string) ([]*domain.JobSchedule, error)
}

type scheduleManager struct {
	scheduleRepo repository.JobScheduleRepository
	jobRepo      repository.ScheduledJobRepository
	scheduler    IScheduler
	logger       logger.Logger
}

// NewScheduleManager creates the schedule manager
func NewScheduleManager(
	scheduleRepo repository.JobScheduleRepository,
	jobRepo repository.ScheduledJobRepository,
	scheduler IScheduler,
	log logger.Logger,
) ScheduleManager {
	return &scheduleManager{
		scheduleRepo: scheduleRepo,
		jobRepo:      jobRepo,
		scheduler:    scheduler,
		logger:       log.With(logger.String("component", "schedule_manager")),
	}
}

// Start enables the schedule and enqueues its first instance immediately.
// The last-run marker is cleared so the first claim always succeeds.
func (m *scheduleManager) Start(ctx context.Context, jobType domain.JobType, projectID, userID string, intervalMinutes int) (*domain.JobSchedule, error) {
	if !jobType.Recurring() {
		return nil, fmt.Errorf("job type %s has no schedule", jobType)
	}
	if intervalMinutes == 0 {
		intervalMinutes = DefaultIntervalMinutes
	}
	if err := domain.ValidateInterval(intervalMinutes); err != nil {
		return nil, err
	}

	schedule, err := m.scheduleRepo.FindOrCreate(ctx, jobType, projectID, intervalMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	if err := m.discardPending(ctx, jobType, projectID); err != nil {
		return nil, err
	}

	schedule.Enabled = true
	schedule.IntervalMinutes = intervalMinutes
	schedule.OwnerUserID = userID
	schedule.LastRunAt = 0
	schedule.UpdatedAt = time.Now().UnixMilli()

	if err := m.scheduleRepo.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}
	if err := m.scheduleRepo.ClearLastRun(ctx, jobType, projectID); err != nil {
		return nil, fmt.Errorf("failed to clear last run: %w", err)
	}

	if _, err := m.scheduler.Enqueue(ctx, jobType, userID, projectID, domain.JobOptions{}, 0); err != nil {
		return nil, fmt.Errorf("failed to enqueue first run: %w", err)
	}

	m.logger.Info("schedule started",
		logger.String("job_type", string(jobType)),
		logger.String("project_id", projectID),
		logger.Int("interval_minutes", intervalMinutes))

	return schedule, nil
}

// Stop disables the schedule and discards its pending instances
func (m *scheduleManager) Stop(ctx context.Context, jobType domain.JobType, projectID string) (*domain.JobSchedule, error) {
	schedule, err := m.scheduleRepo.Get(ctx, jobType, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	if err := m.discardPending(ctx, jobType, projectID); err != nil {
		return nil, err
	}

	schedule.Enabled = false
	schedule.UpdatedAt = time.Now().UnixMilli()
	if err := m.scheduleRepo.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	m.logger.Info("schedule stopped",
		logger.String("job_type", string(jobType)),
		logger.String("project_id", projectID))

	return schedule, nil
}

// SetInterval changes the cadence. A running schedule gets a fresh instance
// on the new cadence; its discarded instances never fire.
func (m *scheduleManager) SetInterval(ctx context.Context, jobType domain.JobType, projectID string, intervalMinutes int) (*domain.JobSchedule, error) {
	if err := domain.ValidateInterval(intervalMinutes); err != nil {
		return nil, err
	}

	schedule, err := m.scheduleRepo.Get(ctx, jobType, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	if err := m.discardPending(ctx, jobType, projectID); err != nil {
		return nil, err
	}

	schedule.IntervalMinutes = intervalMinutes
	schedule.UpdatedAt = time.Now().UnixMilli()
	if err := m.scheduleRepo.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	if schedule.Enabled {
		if _, err := m.scheduler.Enqueue(ctx, jobType, schedule.OwnerUserID, projectID, domain.JobOptions{}, schedule.Interval()); err != nil {
			return nil, fmt.Errorf("failed to enqueue next run: %w", err)
		}
	}

	m.logger.Info("schedule interval changed",
		logger.String("job_type", string(jobType)),
		logger.String("project_id", projectID),
		logger.Int("interval_minutes", intervalMinutes))

	return schedule, nil
}

// RunNow enqueues a one-off instance that bypasses the slot claim and never
// reschedules, leaving the recurring cadence untouched
func (m *scheduleManager) RunNow(ctx context.Context, jobType domain.JobType, projectID, userID string) (*domain.ScheduledJob, error) {
	if !jobType.Valid() {
		return nil, fmt.Errorf("unknown job type %s", jobType)
	}

	job, err := m.scheduler.Enqueue(ctx, jobType, userID, projectID, domain.JobOptions{SkipReschedule: true}, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue run: %w", err)
	}

	m.logger.Info("one-off run enqueued",
		logger.String("job_type", string(jobType)),
		logger.String("project_id", projectID),
		logger.String("job_id", job.JobID))

	return job, nil
}

// List returns every schedule row for a project
func (m *scheduleManager) List(ctx context.Context, projectID string) ([]*domain.JobSchedule, error) {
	return m.scheduleRepo.ListByProject(ctx, projectID)
}

func (m *scheduleManager) discardPending(ctx context.Context, jobType domain.JobType, projectID string) error {
	discarded, err := m.jobRepo.DeletePendingBySchedule(ctx, domain.ScheduleKey(jobType, projectID))
	if err != nil {
		return fmt.Errorf("failed to discard pending instances: %w", err)
	}
	if discarded > 0 {
		m.logger.Info("discarded pending job instances",
			logger.String("job_type", string(jobType)),
			logger.String("project_id", projectID),
			logger.Int("count", discarded))
	}
	return nil
}
