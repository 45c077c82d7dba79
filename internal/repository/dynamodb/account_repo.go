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

type googleAccountRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    logger.Logger
}

// NewGoogleAccountRepository creates a new DynamoDB google account repository
func NewGoogleAccountRepository(client *dynamodb.Client, log logger.Logger) repository.GoogleAccountRepository {
	return &googleAccountRepository{
		client:    client,
		tableName: "google_accounts",
		logger:    log.With(logger.String("component", "google_account_repository")),
	}
}

func (r *googleAccountRepository) GetByID(ctx context.Context, accountID string) (*domain.GoogleAccount, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"account_id": &types.AttributeValueMemberS{Value: accountID},
		},
	})

	if err != nil {
		r.logger.Error("failed to get account", logger.Error(err))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: account %s", repository.ErrNotFound, accountID)
	}

	var account domain.GoogleAccount
	if err := attributevalue.UnmarshalMap(result.Item, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

func (r *googleAccountRepository) ListUsableByUser(ctx context.Context, userID string) ([]*domain.GoogleAccount, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id_index"),
		KeyConditionExpression: aws.String("user_id = :user_id"),
		FilterExpression:       aws.String("token_status = :usable"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": &types.AttributeValueMemberS{Value: userID},
			":usable":  &types.AttributeValueMemberS{Value: string(domain.AccountTokenUsable)},
		},
	})

	if err != nil {
		r.logger.Error("failed to query accounts", logger.Error(err))
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}

	accounts := make([]*domain.GoogleAccount, 0, len(result.Items))
	for _, item := range result.Items {
		var account domain.GoogleAccount
		if err := attributevalue.UnmarshalMap(item, &account); err != nil {
			r.logger.Warn("failed to unmarshal account", logger.Error(err))
			continue
		}
		accounts = append(accounts, &account)
	}

	return accounts, nil
}

func (r *googleAccountRepository) Update(ctx context.Context, account *domain.GoogleAccount) error {
	account.UpdatedAt = time.Now().UnixMilli()

	item, err := attributevalue.MarshalMap(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})

	if err != nil {
		r.logger.Error("failed to update account", logger.Error(err))
		return fmt.Errorf("failed to update account: %w", err)
	}

	return nil
}
