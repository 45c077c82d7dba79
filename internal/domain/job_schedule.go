package domain

import (
	"fmt"
	"time"
)

// ScheduleStatus is the derived state of a schedule shown to operators
type ScheduleStatus string

const (
	ScheduleStatusStopped  ScheduleStatus = "STOPPED"
	ScheduleStatusStarting ScheduleStatus = "STARTING"
	ScheduleStatusRunning  ScheduleStatus = "RUNNING"
)

const (
	MinIntervalMinutes = 1
	MaxIntervalMinutes = 1440
)

// JobSchedule is the persisted cadence for one job type within one project.
// The (job_type, project_id) pair is unique; last_run_at is the single gate
// protecting against duplicate concurrent runs.
type JobSchedule struct {
	JobType         JobType `json:"job_type" dynamodbav:"job_type"`
	ProjectID       string  `json:"project_id" dynamodbav:"project_id"`
	IntervalMinutes int     `json:"interval_minutes" dynamodbav:"interval_minutes"`
	Enabled         bool    `json:"enabled" dynamodbav:"enabled"`
	LastRunAt       int64   `json:"last_run_at,omitempty" dynamodbav:"last_run_at,omitempty"` // epoch millis, 0 = never ran
	OwnerUserID     string  `json:"owner_user_id,omitempty" dynamodbav:"owner_user_id,omitempty"`
	CreatedAt       int64   `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt       int64   `json:"updated_at" dynamodbav:"updated_at"`
}

// NewJobSchedule creates a disabled schedule with the default cadence
func NewJobSchedule(jobType JobType, projectID string, intervalMinutes int) *JobSchedule {
	now := time.Now().UnixMilli()
	return &JobSchedule{
		JobType:         jobType,
		ProjectID:       projectID,
		IntervalMinutes: intervalMinutes,
		Enabled:         false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ValidateInterval checks the (0, 1440] bound on interval minutes
func ValidateInterval(minutes int) error {
	if minutes < MinIntervalMinutes || minutes > MaxIntervalMinutes {
		return fmt.Errorf("interval_minutes must be in [%d, %d], got %d",
			MinIntervalMinutes, MaxIntervalMinutes, minutes)
	}
	return nil
}

// Interval returns the cadence as a duration
func (s *JobSchedule) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// ClaimThreshold returns the cutoff for the atomic slot claim: a claim
// succeeds when last_run_at is unset or at most now minus half the interval.
// The half-interval tolerates back-to-back runs after an interval shrink
// while still blocking near-simultaneous duplicate triggers.
func (s *JobSchedule) ClaimThreshold(now time.Time) int64 {
	return now.Add(-s.Interval() / 2).UnixMilli()
}

// Due reports whether the schedule should have run by now
func (s *JobSchedule) Due(now time.Time) bool {
	if !s.Enabled {
		return false
	}
	if s.LastRunAt == 0 {
		return true
	}
	return s.LastRunAt < now.Add(-s.Interval()).UnixMilli()
}

// RecentlyRan reports whether a run claimed the slot within half the interval
func (s *JobSchedule) RecentlyRan(now time.Time) bool {
	if s.LastRunAt == 0 {
		return false
	}
	return s.LastRunAt > s.ClaimThreshold(now)
}

// NextRunAt returns the projected next run time, zero when stopped
func (s *JobSchedule) NextRunAt() time.Time {
	if !s.Enabled {
		return time.Time{}
	}
	if s.LastRunAt == 0 {
		return time.Now()
	}
	return time.UnixMilli(s.LastRunAt).Add(s.Interval())
}

// Status derives the operator-visible schedule state
func (s *JobSchedule) Status() ScheduleStatus {
	if !s.Enabled {
		return ScheduleStatusStopped
	}
	if s.LastRunAt == 0 {
		return ScheduleStatusStarting
	}
	return ScheduleStatusRunning
}
