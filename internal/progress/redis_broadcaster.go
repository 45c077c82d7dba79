package progress

import (
	"context"
	"encoding/json"
	"fmt"

	cache "tubepilot/internal/cache/iface"
	"tubepilot/internal/logger"
)

type redisBroadcaster struct {
	cache  cache.Cache
	logger logger.Logger
}

// NewRedisBroadcaster creates a broadcaster backed by Redis pub/sub
func NewRedisBroadcaster(c cache.Cache, log logger.Logger) Broadcaster {
	return &redisBroadcaster{
		cache:  c,
		logger: log.With(logger.String("component", "progress_broadcaster")),
	}
}

type wireUpdate struct {
	JobID string `json:"job_id"`
	Update
}

func (b *redisBroadcaster) Broadcast(ctx context.Context, userID, jobID string, update Update) {
	payload, err := json.Marshal(wireUpdate{JobID: jobID, Update: update})
	if err != nil {
		b.logger.Warn("failed to marshal progress update", logger.Error(err))
		return
	}

	channel := fmt.Sprintf("job_progress:%s", userID)
	if err := b.cache.Publish(ctx, channel, payload); err != nil {
		// Fire and forget: a dropped update never affects the job itself
		b.logger.Warn("failed to publish progress update",
			logger.String("channel", channel),
			logger.Error(err))
	}
}
