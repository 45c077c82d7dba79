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

type jobScheduleRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    logger.Logger
}

// NewJobScheduleRepository creates a new DynamoDB job schedule repository
func NewJobScheduleRepository(client *dynamodb.Client, log logger.Logger) repository.JobScheduleRepository {
	return &jobScheduleRepository{
		client:    client,
		tableName: "job_schedules",
		logger:    log.With(logger.String("component", "job_schedule_repository")),
	}
}

func (r *jobScheduleRepository) FindOrCreate(ctx context.Context, jobType domain.JobType, projectID string, defaultIntervalMinutes int) (*domain.JobSchedule, error) {
	schedule, err := r.Get(ctx, jobType, projectID)
	if err == nil {
		return schedule, nil
	}
	if !repository.IsNotFoundError(err) {
		return nil, err
	}

	schedule = domain.NewJobSchedule(jobType, projectID, defaultIntervalMinutes)

	item, err := attributevalue.MarshalMap(schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(job_type)"),
	})

	if err != nil {
		// Lost the create race: another caller inserted the row first
		if isConditionalCheckFailure(err) {
			return r.Get(ctx, jobType, projectID)
		}
		r.logger.Error("failed to create schedule", logger.Error(err))
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	r.logger.Info("job schedule created",
		logger.String("job_type", string(jobType)),
		logger.String("project_id", projectID))

	return schedule, nil
}

func (r *jobScheduleRepository) Get(ctx context.Context, jobType domain.JobType, projectID string) (*domain.JobSchedule, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       scheduleKey(jobType, projectID),
	})

	if err != nil {
		r.logger.Error("failed to get schedule", logger.Error(err))
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: schedule %s/%s", repository.ErrNotFound, jobType, projectID)
	}

	var schedule domain.JobSchedule
	if err := attributevalue.UnmarshalMap(result.Item, &schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}

	return &schedule, nil
}

func (r *jobScheduleRepository) Update(ctx context.Context, schedule *domain.JobSchedule) error {
	schedule.UpdatedAt = time.Now().UnixMilli()

	item, err := attributevalue.MarshalMap(schedule)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})

	if err != nil {
		r.logger.Error("failed to update schedule", logger.Error(err))
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	return nil
}

// Claim performs the atomic slot claim: one conditional update that only
// matches while last_run_at is unset or at most the threshold. For any set of
// concurrent callers, DynamoDB lets exactly one condition pass; the rest see
// a conditional check failure and report ErrSlotNotClaimed.
func (r *jobScheduleRepository) Claim(ctx context.Context, jobType domain.JobType, projectID string, now time.Time, threshold int64) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 scheduleKey(jobType, projectID),
		UpdateExpression:    aws.String("SET last_run_at = :now, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(job_type) AND (attribute_not_exists(last_run_at) OR last_run_at <= :threshold)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now":       &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now.UnixMilli())},
			":threshold": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", threshold)},
		},
	})

	if err != nil {
		if isConditionalCheckFailure(err) {
			r.logger.Debug("slot already claimed",
				logger.String("job_type", string(jobType)),
				logger.String("project_id", projectID))
			return fmt.Errorf("%w: %s/%s", repository.ErrSlotNotClaimed, jobType, projectID)
		}
		r.logger.Error("failed to claim slot", logger.Error(err))
		return fmt.Errorf("failed to claim slot: %w", err)
	}

	return nil
}

func (r *jobScheduleRepository) ClearLastRun(ctx context.Context, jobType domain.JobType, projectID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 scheduleKey(jobType, projectID),
		UpdateExpression:    aws.String("REMOVE last_run_at SET updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(job_type)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().UnixMilli())},
		},
	})

	if err != nil {
		if isConditionalCheckFailure(err) {
			return fmt.Errorf("%w: schedule %s/%s", repository.ErrNotFound, jobType, projectID)
		}
		r.logger.Error("failed to clear last_run_at", logger.Error(err))
		return fmt.Errorf("failed to clear last_run_at: %w", err)
	}

	return nil
}

func (r *jobScheduleRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.JobSchedule, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("project_id_index"),
		KeyConditionExpression: aws.String("project_id = :project_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":project_id": &types.AttributeValueMemberS{Value: projectID},
		},
	})

	if err != nil {
		r.logger.Error("failed to query schedules", logger.Error(err))
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}

	schedules := make([]*domain.JobSchedule, 0, len(result.Items))
	for _, item := range result.Items {
		var schedule domain.JobSchedule
		if err := attributevalue.UnmarshalMap(item, &schedule); err != nil {
			r.logger.Warn("failed to unmarshal schedule", logger.Error(err))
			continue
		}
		schedules = append(schedules, &schedule)
	}

	return schedules, nil
}

// scheduleKey builds the composite primary key (job_type HASH, project_id RANGE)
func scheduleKey(jobType domain.JobType, projectID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"job_type":   &types.AttributeValueMemberS{Value: string(jobType)},
		"project_id": &types.AttributeValueMemberS{Value: projectID},
	}
}
