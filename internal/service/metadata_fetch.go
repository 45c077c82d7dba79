package service

import (
	"context"
	"fmt"
	"time"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	repository "tubepilot/internal/repository/iface"
	"tubepilot/internal/youtube"
)

type metadataFetchExecutor struct {
	youtube   youtube.Client
	videoRepo repository.VideoRepository
	logger    logger.Logger
}

// NewMetadataFetchExecutor creates the video metadata fetch executor
func NewMetadataFetchExecutor(
	yt youtube.Client,
	videoRepo repository.VideoRepository,
	log logger.Logger,
) JobExecutor {
	return &metadataFetchExecutor{
		youtube:   yt,
		videoRepo: videoRepo,
		logger:    log.With(logger.String("component", "metadata_fetch_executor")),
	}
}

// Execute fills in the statistics and details a feed import does not carry
func (e *metadataFetchExecutor) Execute(ctx context.Context, job *domain.ScheduledJob) error {
	if job.Options.VideoID == "" {
		return fmt.Errorf("metadata fetch requires a video_id")
	}

	video, err := e.videoRepo.GetByID(ctx, job.Options.VideoID)
	if err != nil {
		return fmt.Errorf("failed to load video: %w", err)
	}

	meta, err := e.youtube.FetchVideoMetadata(ctx, video.YoutubeID)
	if err != nil {
		if youtube.IsNotFound(err) {
			e.logger.Warn("video no longer exists",
				logger.String("video_id", video.VideoID),
				logger.String("youtube_id", video.YoutubeID))
			return nil
		}
		return fmt.Errorf("failed to fetch metadata: %w", err)
	}

	video.Title = meta.Title
	video.ViewCount = meta.ViewCount
	video.LikeCount = meta.LikeCount
	video.CommentCount = meta.CommentCount
	if meta.PublishedAt > 0 {
		video.PublishedAt = meta.PublishedAt
	}
	if video.ChannelID == "" {
		video.ChannelID = meta.ChannelID
	}
	video.FetchedAt = time.Now().UnixMilli()
	video.UpdatedAt = video.FetchedAt

	if err := e.videoRepo.Update(ctx, video); err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	e.logger.Info("video metadata refreshed",
		logger.String("video_id", video.VideoID),
		logger.Int64("view_count", meta.ViewCount))

	return nil
}
