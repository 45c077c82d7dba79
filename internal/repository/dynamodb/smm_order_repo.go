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

type smmOrderRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    logger.Logger
}

// NewSmmOrderRepository creates a new DynamoDB SMM order repository
func NewSmmOrderRepository(client *dynamodb.Client, log logger.Logger) repository.SmmOrderRepository {
	return &smmOrderRepository{
		client:    client,
		tableName: "smm_orders",
		logger:    log.With(logger.String("component", "smm_order_repository")),
	}
}

func (r *smmOrderRepository) Create(ctx context.Context, order *domain.SmmOrder) error {
	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})

	if err != nil {
		r.logger.Error("failed to create order", logger.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Info("smm order created",
		logger.String("order_id", order.OrderID),
		logger.String("external_order_id", order.ExternalOrderID))

	return nil
}

func (r *smmOrderRepository) Update(ctx context.Context, order *domain.SmmOrder) error {
	order.UpdatedAt = time.Now().UnixMilli()

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})

	if err != nil {
		r.logger.Error("failed to update order", logger.Error(err))
		return fmt.Errorf("failed to update order: %w", err)
	}

	return nil
}

func (r *smmOrderRepository) GetByID(ctx context.Context, orderID string) (*domain.SmmOrder, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})

	if err != nil {
		r.logger.Error("failed to get order", logger.Error(err))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: order %s", repository.ErrNotFound, orderID)
	}

	var order domain.SmmOrder
	if err := attributevalue.UnmarshalMap(result.Item, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}

	return &order, nil
}

func (r *smmOrderRepository) ListUncompletedByProject(ctx context.Context, projectID string) ([]*domain.SmmOrder, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("project_id_index"),
		KeyConditionExpression: aws.String("project_id = :project_id"),
		FilterExpression:       aws.String("#status IN (:pending, :in_progress, :processing)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":project_id":  &types.AttributeValueMemberS{Value: projectID},
			":pending":     &types.AttributeValueMemberS{Value: string(domain.SmmOrderStatusPending)},
			":in_progress": &types.AttributeValueMemberS{Value: string(domain.SmmOrderStatusInProgress)},
			":processing":  &types.AttributeValueMemberS{Value: string(domain.SmmOrderStatusProcessing)},
		},
	})

	if err != nil {
		r.logger.Error("failed to query uncompleted orders", logger.Error(err))
		return nil, fmt.Errorf("failed to query uncompleted orders: %w", err)
	}

	orders := make([]*domain.SmmOrder, 0, len(result.Items))
	for _, item := range result.Items {
		var order domain.SmmOrder
		if err := attributevalue.UnmarshalMap(item, &order); err != nil {
			r.logger.Warn("failed to unmarshal order", logger.Error(err))
			continue
		}
		orders = append(orders, &order)
	}

	return orders, nil
}
