package dto

import "tubepilot/internal/domain"

// StartScheduleRequest represents request to start a recurring schedule
type StartScheduleRequest struct {
	UserID          string `json:"user_id" binding:"required"`
	IntervalMinutes int    `json:"interval_minutes"`
}

// StopScheduleRequest represents request to stop a schedule
type StopScheduleRequest struct {
	// No body fields - job_type and project_id come from path params
}

// SetIntervalRequest represents request to change a schedule's cadence
type SetIntervalRequest struct {
	IntervalMinutes int `json:"interval_minutes" binding:"required"`
}

// RunNowRequest represents request to trigger a one-off run
type RunNowRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ScheduleResponse represents one schedule's state
type ScheduleResponse struct {
	JobType         string `json:"job_type"`
	JobName         string `json:"job_name"`
	ProjectID       string `json:"project_id"`
	IntervalMinutes int    `json:"interval_minutes"`
	Status          string `json:"status"`
	LastRunAt       int64  `json:"last_run_at,omitempty"`
	NextRunAt       int64  `json:"next_run_at,omitempty"`
}

// ListSchedulesRequest represents request to list a project's schedules
type ListSchedulesRequest struct {
	// No body fields - project_id comes from path params
}

// ListSchedulesResponse represents all schedules of a project
type ListSchedulesResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
}

// RunNowResponse represents the enqueued one-off job instance
type RunNowResponse struct {
	JobID     string `json:"job_id"`
	JobType   string `json:"job_type"`
	ExecuteAt int64  `json:"execute_at"`
	Status    string `json:"status"`
}

// ScheduleFromDomain maps a schedule row onto its API shape
func ScheduleFromDomain(s *domain.JobSchedule) ScheduleResponse {
	resp := ScheduleResponse{
		JobType:         string(s.JobType),
		JobName:         s.JobType.DisplayName(),
		ProjectID:       s.ProjectID,
		IntervalMinutes: s.IntervalMinutes,
		Status:          string(s.Status()),
		LastRunAt:       s.LastRunAt,
	}
	if next := s.NextRunAt(); !next.IsZero() {
		resp.NextRunAt = next.UnixMilli()
	}
	return resp
}
