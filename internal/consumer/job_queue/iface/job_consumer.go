package job_queue

import (
	"context"

	"tubepilot/internal/domain"
)

// JobConsumer processes job instances delivered on the worker queue
type JobConsumer interface {
	// ProcessMessage runs a single job instance.
	// Returns true if processing succeeded (message should be deleted);
	// false leaves the message on the queue for redelivery.
	ProcessMessage(ctx context.Context, job domain.ScheduledJob) bool
}
