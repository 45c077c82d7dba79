package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the delivery status of a queued job instance
type JobStatus string

const (
	JobStatusScheduled JobStatus = "SCHEDULED"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
)

// JobOptions carries job-specific parameters for one instance
type JobOptions struct {
	// SkipReschedule marks a manually triggered "run once" invocation: the
	// runner bypasses the slot claim and never self-enqueues.
	SkipReschedule bool `json:"skip_reschedule,omitempty" dynamodbav:"skip_reschedule,omitempty"`

	// VideoIDs restricts a comment-posting run to an explicit target list
	VideoIDs []string `json:"video_ids,omitempty" dynamodbav:"video_ids,omitempty"`

	// Reply posting parameters
	CommentID       string   `json:"comment_id,omitempty" dynamodbav:"comment_id,omitempty"`
	NumReplies      int      `json:"num_replies,omitempty" dynamodbav:"num_replies,omitempty"`
	AccountIDs      []string `json:"account_ids,omitempty" dynamodbav:"account_ids,omitempty"`
	RandomSelection bool     `json:"random_selection,omitempty" dynamodbav:"random_selection,omitempty"`

	// Metadata fetch parameter
	VideoID string `json:"video_id,omitempty" dynamodbav:"video_id,omitempty"`
}

// ScheduledJob is one queued job instance awaiting dispatch to the worker
// queue. It lives in the scheduled_jobs table while pending so that schedule
// control operations can discard stale instances.
type ScheduledJob struct {
	JobID     string     `json:"job_id" dynamodbav:"job_id"`
	JobType   JobType    `json:"job_type" dynamodbav:"job_type"`
	UserID    string     `json:"user_id" dynamodbav:"user_id"`
	ProjectID string     `json:"project_id" dynamodbav:"project_id"`
	Options   JobOptions `json:"options" dynamodbav:"options"`
	ExecuteAt int64      `json:"execute_at" dynamodbav:"execute_at"`
	CreatedAt int64      `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt int64      `json:"updated_at" dynamodbav:"updated_at"`
	Status    JobStatus  `json:"status" dynamodbav:"status"`

	// Composite key for the schedule_key_index GSI: job_type#project_id,
	// used to discard pending instances when a schedule is reconfigured.
	ScheduleKey string `json:"-" dynamodbav:"schedule_key"`
}

// NewScheduledJob creates a queued job instance
func NewScheduledJob(jobType JobType, userID, projectID string, options JobOptions, executeAt time.Time) *ScheduledJob {
	now := time.Now().UnixMilli()
	return &ScheduledJob{
		JobID:       uuid.New().String(),
		JobType:     jobType,
		UserID:      userID,
		ProjectID:   projectID,
		Options:     options,
		ExecuteAt:   executeAt.UnixMilli(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      JobStatusScheduled,
		ScheduleKey: ScheduleKey(jobType, projectID),
	}
}

// ScheduleKey builds the composite GSI key for a (job_type, project) pair
func ScheduleKey(jobType JobType, projectID string) string {
	return string(jobType) + "#" + projectID
}
