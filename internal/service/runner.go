package service

import (
	"context"
	"fmt"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	"tubepilot/internal/progress"
	repository "tubepilot/internal/repository/iface"
)

// JobRunner is the execution envelope around every job instance: it claims
// the schedule slot, dispatches to the job type's executor, and reschedules
// the next instance whether or not execution succeeded.
type JobRunner interface {
	Run(ctx context.Context, job *domain.ScheduledJob) error
}

type jobRunner struct {
	claimer      SlotClaimer
	registry     *ExecutorRegistry
	scheduler    IScheduler
	scheduleRepo repository.JobScheduleRepository
	broadcaster  progress.Broadcaster
	logger       logger.Logger
}

// NewJobRunner creates the runner
func NewJobRunner(
	claimer SlotClaimer,
	registry *ExecutorRegistry,
	scheduler IScheduler,
	scheduleRepo repository.JobScheduleRepository,
	broadcaster progress.Broadcaster,
	log logger.Logger,
) JobRunner {
	return &jobRunner{
		claimer:      claimer,
		registry:     registry,
		scheduler:    scheduler,
		scheduleRepo: scheduleRepo,
		broadcaster:  broadcaster,
		logger:       log.With(logger.String("component", "job_runner")),
	}
}

// Run executes one job instance. For recurring jobs the slot claim runs
// first; losing the claim is a silent no-op so queue redeliveries never
// duplicate work. Rescheduling happens even when the executor fails, so a
// broken run never stalls the cadence. The executor's error is propagated
// afterwards, which leaves the message on the queue for redelivery.
func (r *jobRunner) Run(ctx context.Context, job *domain.ScheduledJob) error {
	log := r.logger.With(
		logger.String("job_id", job.JobID),
		logger.String("job_type", string(job.JobType)),
		logger.String("project_id", job.ProjectID))

	recurring := job.JobType.Recurring() && !job.Options.SkipReschedule

	if recurring {
		claimed, err := r.claimer.ClaimSlot(ctx, job.JobType, job.ProjectID)
		if err != nil {
			return fmt.Errorf("slot claim failed: %w", err)
		}
		if !claimed {
			log.Info("slot held by another instance, skipping run")
			return nil
		}
	}

	executor, err := r.registry.Lookup(job.JobType)
	if err != nil {
		// Unknown type: nothing to run, but a claimed recurring schedule
		// still gets its next instance.
		if recurring {
			r.rescheduleNext(ctx, job, log)
		}
		return err
	}

	execErr := executor.Execute(ctx, job)

	if recurring {
		r.rescheduleNext(ctx, job, log)
	}

	if execErr != nil {
		log.Error("job execution failed", logger.Error(execErr))
		r.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
			JobName:    job.JobType.DisplayName(),
			Message:    execErr.Error(),
			Percentage: 100,
			Status:     progress.StatusFailed,
		})
		return fmt.Errorf("job %s failed: %w", job.JobID, execErr)
	}

	log.Info("job completed")
	return nil
}

// rescheduleNext enqueues the next instance one interval out, unless the
// schedule was disabled or deleted while this run was in flight
func (r *jobRunner) rescheduleNext(ctx context.Context, job *domain.ScheduledJob, log logger.Logger) {
	schedule, err := r.scheduleRepo.Get(ctx, job.JobType, job.ProjectID)
	if err != nil {
		if repository.IsNotFoundError(err) {
			log.Info("schedule removed, not rescheduling")
			return
		}
		log.Error("failed to load schedule for reschedule", logger.Error(err))
		return
	}

	if !schedule.Enabled {
		log.Info("schedule disabled, not rescheduling")
		return
	}

	next, err := r.scheduler.Enqueue(ctx, job.JobType, job.UserID, job.ProjectID, domain.JobOptions{}, schedule.Interval())
	if err != nil {
		log.Error("failed to reschedule next run", logger.Error(err))
		return
	}

	log.Info("next run scheduled",
		logger.String("next_job_id", next.JobID),
		logger.Int64("execute_at", next.ExecuteAt))
}
