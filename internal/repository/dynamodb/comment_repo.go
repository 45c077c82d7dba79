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

type commentRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    logger.Logger
}

// NewCommentRepository creates a new DynamoDB comment repository
func NewCommentRepository(client *dynamodb.Client, log logger.Logger) repository.CommentRepository {
	return &commentRepository{
		client:    client,
		tableName: "comments",
		logger:    log.With(logger.String("component", "comment_repository")),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	item, err := attributevalue.MarshalMap(comment)
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})

	if err != nil {
		r.logger.Error("failed to create comment", logger.Error(err))
		return fmt.Errorf("failed to create comment: %w", err)
	}

	r.logger.Debug("comment created",
		logger.String("comment_id", comment.CommentID),
		logger.String("video_id", comment.VideoID))

	return nil
}

func (r *commentRepository) CreateBatch(ctx context.Context, comments []*domain.Comment) error {
	for _, comment := range comments {
		if err := r.Create(ctx, comment); err != nil {
			return err
		}
	}
	return nil
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	comment.UpdatedAt = time.Now().UnixMilli()

	item, err := attributevalue.MarshalMap(comment)
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})

	if err != nil {
		r.logger.Error("failed to update comment", logger.Error(err))
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID string) (*domain.Comment, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"comment_id": &types.AttributeValueMemberS{Value: commentID},
		},
	})

	if err != nil {
		r.logger.Error("failed to get comment", logger.Error(err))
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: comment %s", repository.ErrNotFound, commentID)
	}

	var comment domain.Comment
	if err := attributevalue.UnmarshalMap(result.Item, &comment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
	}

	return &comment, nil
}

func (r *commentRepository) ListVisibleTopLevel(ctx context.Context, projectID string) ([]*domain.Comment, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("project_id_index"),
		KeyConditionExpression: aws.String("project_id = :project_id"),
		FilterExpression:       aws.String("#status = :visible AND attribute_not_exists(parent_id)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":project_id": &types.AttributeValueMemberS{Value: projectID},
			":visible":    &types.AttributeValueMemberS{Value: string(domain.CommentStatusVisible)},
		},
	})

	if err != nil {
		r.logger.Error("failed to query visible comments", logger.Error(err))
		return nil, fmt.Errorf("failed to query visible comments: %w", err)
	}

	return r.unmarshalList(result.Items), nil
}

func (r *commentRepository) ListPostedReplies(ctx context.Context, projectID string) ([]*domain.Comment, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("project_id_index"),
		KeyConditionExpression: aws.String("project_id = :project_id"),
		FilterExpression:       aws.String("attribute_exists(parent_id) AND attribute_exists(account_id) AND #status <> :removed"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":project_id": &types.AttributeValueMemberS{Value: projectID},
			":removed":    &types.AttributeValueMemberS{Value: string(domain.CommentStatusRemoved)},
		},
	})

	if err != nil {
		r.logger.Error("failed to query posted replies", logger.Error(err))
		return nil, fmt.Errorf("failed to query posted replies: %w", err)
	}

	return r.unmarshalList(result.Items), nil
}

func (r *commentRepository) ListByVideo(ctx context.Context, videoID string) ([]*domain.Comment, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("video_id_index"),
		KeyConditionExpression: aws.String("video_id = :video_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":video_id": &types.AttributeValueMemberS{Value: videoID},
		},
	})

	if err != nil {
		r.logger.Error("failed to query comments by video", logger.Error(err))
		return nil, fmt.Errorf("failed to query comments by video: %w", err)
	}

	return r.unmarshalList(result.Items), nil
}

func (r *commentRepository) ExistsByYoutubeCommentID(ctx context.Context, videoID, youtubeCommentID string) (bool, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("video_id_index"),
		KeyConditionExpression: aws.String("video_id = :video_id"),
		FilterExpression:       aws.String("youtube_comment_id = :youtube_comment_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":video_id":           &types.AttributeValueMemberS{Value: videoID},
			":youtube_comment_id": &types.AttributeValueMemberS{Value: youtubeCommentID},
		},
		Limit: aws.Int32(1),
	})

	if err != nil {
		return false, fmt.Errorf("failed to query comment by youtube id: %w", err)
	}

	return len(result.Items) > 0, nil
}

func (r *commentRepository) ListVideoIDsWithComments(ctx context.Context, projectID string) ([]string, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("project_id_index"),
		KeyConditionExpression: aws.String("project_id = :project_id"),
		ProjectionExpression:   aws.String("video_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":project_id": &types.AttributeValueMemberS{Value: projectID},
		},
	})

	if err != nil {
		r.logger.Error("failed to query commented videos", logger.Error(err))
		return nil, fmt.Errorf("failed to query commented videos: %w", err)
	}

	seen := make(map[string]struct{}, len(result.Items))
	videoIDs := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		var row struct {
			VideoID string `dynamodbav:"video_id"`
		}
		if err := attributevalue.UnmarshalMap(item, &row); err != nil {
			continue
		}
		if _, ok := seen[row.VideoID]; ok {
			continue
		}
		seen[row.VideoID] = struct{}{}
		videoIDs = append(videoIDs, row.VideoID)
	}

	return videoIDs, nil
}

func (r *commentRepository) unmarshalList(items []map[string]types.AttributeValue) []*domain.Comment {
	comments := make([]*domain.Comment, 0, len(items))
	for _, item := range items {
		var comment domain.Comment
		if err := attributevalue.UnmarshalMap(item, &comment); err != nil {
			r.logger.Warn("failed to unmarshal comment", logger.Error(err))
			continue
		}
		comments = append(comments, &comment)
	}
	return comments
}

type commentSnapshotRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    logger.Logger
}

// NewCommentSnapshotRepository creates a new DynamoDB snapshot repository
func NewCommentSnapshotRepository(client *dynamodb.Client, log logger.Logger) repository.CommentSnapshotRepository {
	return &commentSnapshotRepository{
		client:    client,
		tableName: "comment_snapshots",
		logger:    log.With(logger.String("component", "comment_snapshot_repository")),
	}
}

func (r *commentSnapshotRepository) Create(ctx context.Context, snapshot *domain.CommentSnapshot) error {
	item, err := attributevalue.MarshalMap(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})

	if err != nil {
		r.logger.Error("failed to create snapshot", logger.Error(err))
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	return nil
}

func (r *commentSnapshotRepository) GetLatestByComment(ctx context.Context, commentID string) (*domain.CommentSnapshot, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("comment_id_index"),
		KeyConditionExpression: aws.String("comment_id = :comment_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":comment_id": &types.AttributeValueMemberS{Value: commentID},
		},
		ScanIndexForward: aws.Bool(false), // newest first by taken_at sort key
		Limit:            aws.Int32(1),
	})

	if err != nil {
		r.logger.Error("failed to query snapshots", logger.Error(err))
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, fmt.Errorf("%w: snapshots for comment %s", repository.ErrNotFound, commentID)
	}

	var snapshot domain.CommentSnapshot
	if err := attributevalue.UnmarshalMap(result.Items[0], &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
