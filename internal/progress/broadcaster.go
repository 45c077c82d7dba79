package progress

import "context"

// Status values carried in progress updates
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Update is one progress event for a user's active job
type Update struct {
	JobName    string `json:"job_name"`
	Message    string `json:"message"`
	Percentage int    `json:"percentage"`
	Status     string `json:"status"`
}

// Broadcaster pushes job progress updates to interested clients, keyed by the
// job instance so consumers can correlate events of one run. Delivery is best
// effort; executors never fail because a broadcast was lost.
type Broadcaster interface {
	Broadcast(ctx context.Context, userID, jobID string, update Update)
}
