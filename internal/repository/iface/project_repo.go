package repository

import (
	"context"

	"tubepilot/internal/domain"
)

// ProjectRepository reads project configuration for executors
type ProjectRepository interface {
	GetByID(ctx context.Context, projectID string) (*domain.Project, error)
}

// SmmCredentialRepository reads stored SMM panel API keys
type SmmCredentialRepository interface {
	GetByID(ctx context.Context, credentialID string) (*domain.SmmPanelCredential, error)
}

// GoogleAccountRepository manages linked posting accounts
type GoogleAccountRepository interface {
	GetByID(ctx context.Context, accountID string) (*domain.GoogleAccount, error)
	ListUsableByUser(ctx context.Context, userID string) ([]*domain.GoogleAccount, error)
	Update(ctx context.Context, account *domain.GoogleAccount) error
}
