package repository

import (
	"context"

	"tubepilot/internal/domain"
)

// CommentRepository persists tracked comments and replies
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	CreateBatch(ctx context.Context, comments []*domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, commentID string) (*domain.Comment, error)

	// ListVisibleTopLevel returns the project's top-level comments whose
	// status is still VISIBLE, for the status check batch.
	ListVisibleTopLevel(ctx context.Context, projectID string) ([]*domain.Comment, error)

	// ListPostedReplies returns replies the system posted itself (those with
	// an account attached), checked by direct lookup.
	ListPostedReplies(ctx context.Context, projectID string) ([]*domain.Comment, error)

	ListByVideo(ctx context.Context, videoID string) ([]*domain.Comment, error)
	ExistsByYoutubeCommentID(ctx context.Context, videoID, youtubeCommentID string) (bool, error)

	// ListVideoIDsWithComments returns the distinct video IDs the project has
	// at least one comment on; posting targets are the complement.
	ListVideoIDsWithComments(ctx context.Context, projectID string) ([]string, error)
}

// CommentSnapshotRepository appends point-in-time visibility records
type CommentSnapshotRepository interface {
	Create(ctx context.Context, snapshot *domain.CommentSnapshot) error

	// GetLatestByComment returns the most recent snapshot or ErrNotFound;
	// its view count is the preferred view-delta baseline.
	GetLatestByComment(ctx context.Context, commentID string) (*domain.CommentSnapshot, error)
}
