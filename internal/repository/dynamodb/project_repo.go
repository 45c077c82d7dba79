package dynamodb

import (
	"context"
	"fmt"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	repository "tubepilot/internal/repository/iface"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type projectRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    logger.Logger
}

// NewProjectRepository creates a new DynamoDB project repository
func NewProjectRepository(client *dynamodb.Client, log logger.Logger) repository.ProjectRepository {
	return &projectRepository{
		client:    client,
		tableName: "projects",
		logger:    log.With(logger.String("component", "project_repository")),
	}
}

func (r *projectRepository) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"project_id": &types.AttributeValueMemberS{Value: projectID},
		},
	})

	if err != nil {
		r.logger.Error("failed to get project", logger.Error(err))
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: project %s", repository.ErrNotFound, projectID)
	}

	var project domain.Project
	if err := attributevalue.UnmarshalMap(result.Item, &project); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}

	return &project, nil
}

type smmCredentialRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    logger.Logger
}

// NewSmmCredentialRepository creates a new DynamoDB SMM credential repository
func NewSmmCredentialRepository(client *dynamodb.Client, log logger.Logger) repository.SmmCredentialRepository {
	return &smmCredentialRepository{
		client:    client,
		tableName: "smm_panel_credentials",
		logger:    log.With(logger.String("component", "smm_credential_repository")),
	}
}

func (r *smmCredentialRepository) GetByID(ctx context.Context, credentialID string) (*domain.SmmPanelCredential, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"credential_id": &types.AttributeValueMemberS{Value: credentialID},
		},
	})

	if err != nil {
		r.logger.Error("failed to get credential", logger.Error(err))
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: credential %s", repository.ErrNotFound, credentialID)
	}

	var credential domain.SmmPanelCredential
	if err := attributevalue.UnmarshalMap(result.Item, &credential); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	return &credential, nil
}
