package service

import (
	"context"
	"fmt"
	"time"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	repository "tubepilot/internal/repository/iface"
)

// SlotClaimer arbitrates which of several concurrently delivered job
// instances for the same (job type, project) pair actually runs. The claim is
// a single conditional update on the schedule row: set last_run_at to now,
// provided the slot is free (never ran, or last ran at least half an interval
// ago). Exactly one contender wins; the rest observe a failed condition and
// drop out silently.
type SlotClaimer interface {
	ClaimSlot(ctx context.Context, jobType domain.JobType, projectID string) (bool, error)
}

type slotClaimer struct {
	scheduleRepo repository.JobScheduleRepository
	logger       logger.Logger
}

// NewSlotClaimer creates a slot claimer over the schedule store
func NewSlotClaimer(scheduleRepo repository.JobScheduleRepository, log logger.Logger) SlotClaimer {
	return &slotClaimer{
		scheduleRepo: scheduleRepo,
		logger:       log.With(logger.String("component", "slot_claimer")),
	}
}

// ClaimSlot returns (true, nil) when this caller won the slot, (false, nil)
// when another instance holds it. Losing is expected under redelivery and is
// never an error.
func (c *slotClaimer) ClaimSlot(ctx context.Context, jobType domain.JobType, projectID string) (bool, error) {
	schedule, err := c.scheduleRepo.Get(ctx, jobType, projectID)
	if err != nil {
		return false, fmt.Errorf("failed to load schedule: %w", err)
	}

	now := time.Now()
	threshold := schedule.ClaimThreshold(now)

	err = c.scheduleRepo.Claim(ctx, jobType, projectID, now, threshold)
	if err != nil {
		if repository.IsSlotNotClaimedError(err) {
			c.logger.Debug("slot already claimed",
				logger.String("job_type", string(jobType)),
				logger.String("project_id", projectID))
			return false, nil
		}
		return false, fmt.Errorf("failed to claim slot: %w", err)
	}

	c.logger.Info("slot claimed",
		logger.String("job_type", string(jobType)),
		logger.String("project_id", projectID))

	return true, nil
}
