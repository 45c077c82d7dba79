package repository

import (
	"context"

	"tubepilot/internal/domain"
)

// SmmOrderRepository tracks placed panel orders
type SmmOrderRepository interface {
	Create(ctx context.Context, order *domain.SmmOrder) error
	Update(ctx context.Context, order *domain.SmmOrder) error
	GetByID(ctx context.Context, orderID string) (*domain.SmmOrder, error)

	// ListUncompletedByProject returns the project's orders in a
	// non-terminal status (pending, in progress, processing).
	ListUncompletedByProject(ctx context.Context, projectID string) ([]*domain.SmmOrder, error)
}
