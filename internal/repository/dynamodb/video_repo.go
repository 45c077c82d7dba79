package dynamodb

import (
	"context"
	"fmt"
	"time"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	repository "tubepilot/internal/repository/iface"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type videoRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    logger.Logger
}

// NewVideoRepository creates a new DynamoDB video repository
func NewVideoRepository(client *dynamodb.Client, log logger.Logger) repository.VideoRepository {
	return &videoRepository{
		client:    client,
		tableName: "videos",
		logger:    log.With(logger.String("component", "video_repository")),
	}
}

func (r *videoRepository) Create(ctx context.Context, video *domain.Video) error {
	item, err := attributevalue.MarshalMap(video)
	if err != nil {
		return fmt.Errorf("failed to marshal video: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})

	if err != nil {
		r.logger.Error("failed to create video", logger.Error(err))
		return fmt.Errorf("failed to create video: %w", err)
	}

	r.logger.Debug("video created",
		logger.String("video_id", video.VideoID),
		logger.String("youtube_id", video.YoutubeID))

	return nil
}

func (r *videoRepository) Update(ctx context.Context, video *domain.Video) error {
	video.UpdatedAt = time.Now().UnixMilli()

	item, err := attributevalue.MarshalMap(video)
	if err != nil {
		return fmt.Errorf("failed to marshal video: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})

	if err != nil {
		r.logger.Error("failed to update video", logger.Error(err))
		return fmt.Errorf("failed to update video: %w", err)
	}

	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, videoID string) (*domain.Video, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"video_id": &types.AttributeValueMemberS{Value: videoID},
		},
	})

	if err != nil {
		r.logger.Error("failed to get video", logger.Error(err))
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: video %s", repository.ErrNotFound, videoID)
	}

	var video domain.Video
	if err := attributevalue.UnmarshalMap(result.Item, &video); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video: %w", err)
	}

	return &video, nil
}

func (r *videoRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Video, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("project_id_index"),
		KeyConditionExpression: aws.String("project_id = :project_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":project_id": &types.AttributeValueMemberS{Value: projectID},
		},
	})

	if err != nil {
		r.logger.Error("failed to query videos", logger.Error(err))
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}

	videos := make([]*domain.Video, 0, len(result.Items))
	for _, item := range result.Items {
		var video domain.Video
		if err := attributevalue.UnmarshalMap(item, &video); err != nil {
			r.logger.Warn("failed to unmarshal video", logger.Error(err))
			continue
		}
		videos = append(videos, &video)
	}

	return videos, nil
}

func (r *videoRepository) ExistsByYoutubeID(ctx context.Context, projectID, youtubeID string) (bool, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("project_youtube_id_index"),
		KeyConditionExpression: aws.String("project_id = :project_id AND youtube_id = :youtube_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":project_id": &types.AttributeValueMemberS{Value: projectID},
			":youtube_id": &types.AttributeValueMemberS{Value: youtubeID},
		},
		Limit: aws.Int32(1),
	})

	if err != nil {
		return false, fmt.Errorf("failed to query video by youtube id: %w", err)
	}

	return len(result.Items) > 0, nil
}

func (r *videoRepository) CountByChannel(ctx context.Context, projectID, channelID string) (int, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("project_id_index"),
		KeyConditionExpression: aws.String("project_id = :project_id"),
		FilterExpression:       aws.String("channel_id = :channel_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":project_id": &types.AttributeValueMemberS{Value: projectID},
			":channel_id": &types.AttributeValueMemberS{Value: channelID},
		},
		Select: types.SelectCount,
	})

	if err != nil {
		return 0, fmt.Errorf("failed to count videos by channel: %w", err)
	}

	return int(result.Count), nil
}

type channelRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    logger.Logger
}

// NewChannelRepository creates a new DynamoDB channel repository
func NewChannelRepository(client *dynamodb.Client, log logger.Logger) repository.ChannelRepository {
	return &channelRepository{
		client:    client,
		tableName: "channels",
		logger:    log.With(logger.String("component", "channel_repository")),
	}
}

func (r *channelRepository) Create(ctx context.Context, channel *domain.Channel) error {
	item, err := attributevalue.MarshalMap(channel)
	if err != nil {
		return fmt.Errorf("failed to marshal channel: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})

	if err != nil {
		r.logger.Error("failed to create channel", logger.Error(err))
		return fmt.Errorf("failed to create channel: %w", err)
	}

	return nil
}

func (r *channelRepository) GetByYoutubeChannelID(ctx context.Context, projectID, youtubeChannelID string) (*domain.Channel, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("project_youtube_channel_index"),
		KeyConditionExpression: aws.String("project_id = :project_id AND youtube_channel_id = :youtube_channel_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":project_id":         &types.AttributeValueMemberS{Value: projectID},
			":youtube_channel_id": &types.AttributeValueMemberS{Value: youtubeChannelID},
		},
		Limit: aws.Int32(1),
	})

	if err != nil {
		r.logger.Error("failed to query channel", logger.Error(err))
		return nil, fmt.Errorf("failed to query channel: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, fmt.Errorf("%w: channel %s/%s", repository.ErrNotFound, projectID, youtubeChannelID)
	}

	var channel domain.Channel
	if err := attributevalue.UnmarshalMap(result.Items[0], &channel); err != nil {
		return nil, fmt.Errorf("failed to unmarshal channel: %w", err)
	}

	return &channel, nil
}

type channelSubscriptionRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    logger.Logger
}

// NewChannelSubscriptionRepository creates a new DynamoDB channel subscription repository
func NewChannelSubscriptionRepository(client *dynamodb.Client, log logger.Logger) repository.ChannelSubscriptionRepository {
	return &channelSubscriptionRepository{
		client:    client,
		tableName: "channel_subscriptions",
		logger:    log.With(logger.String("component", "channel_subscription_repository")),
	}
}

func (r *channelSubscriptionRepository) ListActiveByProject(ctx context.Context, projectID string) ([]*domain.ChannelSubscription, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("project_id_index"),
		KeyConditionExpression: aws.String("project_id = :project_id"),
		FilterExpression:       aws.String("active = :active"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":project_id": &types.AttributeValueMemberS{Value: projectID},
			":active":     &types.AttributeValueMemberBOOL{Value: true},
		},
	})

	if err != nil {
		r.logger.Error("failed to query subscriptions", logger.Error(err))
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}

	subscriptions := make([]*domain.ChannelSubscription, 0, len(result.Items))
	for _, item := range result.Items {
		var subscription domain.ChannelSubscription
		if err := attributevalue.UnmarshalMap(item, &subscription); err != nil {
			r.logger.Warn("failed to unmarshal subscription", logger.Error(err))
			continue
		}
		subscriptions = append(subscriptions, &subscription)
	}

	return subscriptions, nil
}
