package repository

import (
	"context"

	"tubepilot/internal/domain"
)

// VideoRepository persists imported videos
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	Update(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, videoID string) (*domain.Video, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Video, error)

	// ExistsByYoutubeID reports whether the project already imported the video
	ExistsByYoutubeID(ctx context.Context, projectID, youtubeID string) (bool, error)

	// CountByChannel returns how many videos the project holds for a channel;
	// zero distinguishes a subscription's first poll.
	CountByChannel(ctx context.Context, projectID, channelID string) (int, error)
}

// ChannelRepository persists known YouTube channels per project
type ChannelRepository interface {
	Create(ctx context.Context, channel *domain.Channel) error
	GetByYoutubeChannelID(ctx context.Context, projectID, youtubeChannelID string) (*domain.Channel, error)
}

// ChannelSubscriptionRepository reads a project's channel watches
type ChannelSubscriptionRepository interface {
	ListActiveByProject(ctx context.Context, projectID string) ([]*domain.ChannelSubscription, error)
}
