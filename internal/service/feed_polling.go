package service

import (
	"context"
	"fmt"
	"time"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	"tubepilot/internal/progress"
	repository "tubepilot/internal/repository/iface"
	"tubepilot/internal/youtube"
)

// DefaultInitialImportLimit caps how many videos a subscription's first poll
// imports when the subscription does not set its own limit
const DefaultInitialImportLimit = 3

// VideoSourceFeed marks videos imported from a channel upload feed
const VideoSourceFeed = "FEED"

type feedPollingExecutor struct {
	youtube          youtube.Client
	scheduler        IScheduler
	videoRepo        repository.VideoRepository
	channelRepo      repository.ChannelRepository
	subscriptionRepo repository.ChannelSubscriptionRepository
	broadcaster      progress.Broadcaster
	logger           logger.Logger
}

// NewFeedPollingExecutor creates the channel feed polling executor
func NewFeedPollingExecutor(
	yt youtube.Client,
	scheduler IScheduler,
	videoRepo repository.VideoRepository,
	channelRepo repository.ChannelRepository,
	subscriptionRepo repository.ChannelSubscriptionRepository,
	broadcaster progress.Broadcaster,
	log logger.Logger,
) JobExecutor {
	return &feedPollingExecutor{
		youtube:          yt,
		scheduler:        scheduler,
		videoRepo:        videoRepo,
		channelRepo:      channelRepo,
		subscriptionRepo: subscriptionRepo,
		broadcaster:      broadcaster,
		logger:           log.With(logger.String("component", "feed_polling_executor")),
	}
}

// Execute polls every active channel subscription of the project. A failure
// on one subscription never blocks the others; the job fails only after all
// subscriptions were attempted.
func (e *feedPollingExecutor) Execute(ctx context.Context, job *domain.ScheduledJob) error {
	subscriptions, err := e.subscriptionRepo.ListActiveByProject(ctx, job.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to list subscriptions: %w", err)
	}

	if len(subscriptions) == 0 {
		e.logger.Info("no active subscriptions", logger.String("project_id", job.ProjectID))
		return nil
	}

	jobName := job.JobType.DisplayName()
	failed := 0
	imported := 0

	for i, sub := range subscriptions {
		e.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
			JobName:    jobName,
			Message:    fmt.Sprintf("Polling channel %s", sub.ChannelTitle),
			Percentage: i * 100 / len(subscriptions),
			Status:     progress.StatusRunning,
		})

		count, err := e.pollSubscription(ctx, job, sub)
		if err != nil {
			failed++
			e.logger.Error("subscription poll failed",
				logger.String("project_id", job.ProjectID),
				logger.String("youtube_channel_id", sub.YoutubeChannelID),
				logger.Error(err))
			continue
		}
		imported += count
	}

	if failed > 0 {
		// Per-subscription failures are local; the run itself completes
		e.logger.Warn("feed polling had failures",
			logger.Int("failed", failed),
			logger.Int("subscriptions", len(subscriptions)))
	}

	e.broadcaster.Broadcast(ctx, job.UserID, job.JobID, progress.Update{
		JobName:    jobName,
		Message:    fmt.Sprintf("Imported %d new videos", imported),
		Percentage: 100,
		Status:     progress.StatusCompleted,
	})

	return nil
}

// pollSubscription imports new videos from one channel feed and returns how
// many were imported
func (e *feedPollingExecutor) pollSubscription(ctx context.Context, job *domain.ScheduledJob, sub *domain.ChannelSubscription) (int, error) {
	entries, err := e.youtube.FetchChannelFeed(ctx, sub.YoutubeChannelID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch feed: %w", err)
	}

	if err := e.ensureChannel(ctx, job.ProjectID, sub); err != nil {
		return 0, err
	}

	existing, err := e.videoRepo.CountByChannel(ctx, job.ProjectID, sub.YoutubeChannelID)
	if err != nil {
		return 0, fmt.Errorf("failed to count channel videos: %w", err)
	}

	// First poll imports a bounded slice of the newest uploads. Later polls
	// walk newest-first and stop at the first already-imported video, so there
	// is no cap on catching up.
	firstRun := existing == 0
	limit := sub.InitialImportLimit
	if limit <= 0 {
		limit = DefaultInitialImportLimit
	}

	imported := 0
	for _, entry := range entries {
		if firstRun && imported >= limit {
			break
		}

		known, err := e.videoRepo.ExistsByYoutubeID(ctx, job.ProjectID, entry.VideoID)
		if err != nil {
			return imported, fmt.Errorf("failed to check video %s: %w", entry.VideoID, err)
		}
		if known {
			if !firstRun {
				break
			}
			continue
		}

		video := domain.NewVideo(job.ProjectID, entry.VideoID, sub.YoutubeChannelID, entry.Title, VideoSourceFeed)
		video.PublishedAt = entry.PublishedAt

		if err := e.videoRepo.Create(ctx, video); err != nil {
			return imported, fmt.Errorf("failed to store video %s: %w", entry.VideoID, err)
		}
		imported++

		// Follow-up job fills in statistics the feed does not carry
		_, err = e.scheduler.Enqueue(ctx, domain.JobTypeFetchVideoMetadata, job.UserID, job.ProjectID,
			domain.JobOptions{VideoID: video.VideoID}, time.Minute)
		if err != nil {
			e.logger.Warn("failed to enqueue metadata fetch",
				logger.String("video_id", video.VideoID),
				logger.Error(err))
		}

		e.logger.Info("imported video from feed",
			logger.String("project_id", job.ProjectID),
			logger.String("youtube_id", entry.VideoID),
			logger.String("title", entry.Title))
	}

	return imported, nil
}

// ensureChannel creates the project's channel row on first contact
func (e *feedPollingExecutor) ensureChannel(ctx context.Context, projectID string, sub *domain.ChannelSubscription) error {
	_, err := e.channelRepo.GetByYoutubeChannelID(ctx, projectID, sub.YoutubeChannelID)
	if err == nil {
		return nil
	}
	if !repository.IsNotFoundError(err) {
		return fmt.Errorf("failed to look up channel: %w", err)
	}

	channel := domain.NewChannel(projectID, sub.YoutubeChannelID, sub.ChannelTitle)
	if err := e.channelRepo.Create(ctx, channel); err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}
	return nil
}
