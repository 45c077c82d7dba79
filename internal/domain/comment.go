package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommentStatus tracks external visibility of a posted comment
type CommentStatus string

const (
	CommentStatusVisible CommentStatus = "VISIBLE"
	CommentStatusHidden  CommentStatus = "HIDDEN" // exists externally but not in the top-ranked set
	CommentStatusRemoved CommentStatus = "REMOVED"
)

// CommentPostType records which channel produced a comment
type CommentPostType string

const (
	CommentPostTypeViaAPI CommentPostType = "VIA_API"
	CommentPostTypeViaSmm CommentPostType = "VIA_SMM"
)

// Comment is one tracked comment or reply on a project's video
type Comment struct {
	CommentID         string          `json:"comment_id" dynamodbav:"comment_id"`
	ProjectID         string          `json:"project_id" dynamodbav:"project_id"`
	VideoID           string          `json:"video_id" dynamodbav:"video_id"`
	ParentID          string          `json:"parent_id,omitempty" dynamodbav:"parent_id,omitempty"` // empty for top-level
	YoutubeCommentID  string          `json:"youtube_comment_id,omitempty" dynamodbav:"youtube_comment_id,omitempty"`
	AccountID         string          `json:"account_id,omitempty" dynamodbav:"account_id,omitempty"` // empty for SMM-imported
	Text              string          `json:"text" dynamodbav:"text"`
	Status            CommentStatus   `json:"status" dynamodbav:"status"`
	PostType          CommentPostType `json:"post_type" dynamodbav:"post_type"`
	LikeCount         int64           `json:"like_count" dynamodbav:"like_count"`
	Rank              int             `json:"rank,omitempty" dynamodbav:"rank,omitempty"` // 1-based position in ranked list, 0 = unknown
	AuthorDisplayName string          `json:"author_display_name,omitempty" dynamodbav:"author_display_name,omitempty"`
	AuthorAvatarURL   string          `json:"author_avatar_url,omitempty" dynamodbav:"author_avatar_url,omitempty"`
	CreatedAt         int64           `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt         int64           `json:"updated_at" dynamodbav:"updated_at"`
}

// Reply reports whether this comment is a reply to another comment
func (c *Comment) Reply() bool {
	return c.ParentID != ""
}

// NewComment creates a tracked comment
func NewComment(projectID, videoID, accountID, text string, postType CommentPostType) *Comment {
	now := time.Now().UnixMilli()
	return &Comment{
		CommentID: uuid.New().String(),
		ProjectID: projectID,
		VideoID:   videoID,
		AccountID: accountID,
		Text:      text,
		Status:    CommentStatusVisible,
		PostType:  postType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CommentSnapshot is a point-in-time visibility record for one comment.
// Snapshots are append-only.
type CommentSnapshot struct {
	SnapshotID string `json:"snapshot_id" dynamodbav:"snapshot_id"`
	CommentID  string `json:"comment_id" dynamodbav:"comment_id"`
	Rank       int    `json:"rank" dynamodbav:"rank"`
	LikeCount  int64  `json:"like_count" dynamodbav:"like_count"`
	ViewCount  int64  `json:"view_count" dynamodbav:"view_count"` // video view count at snapshot time
	ViewDelta  int64  `json:"view_delta" dynamodbav:"view_delta"`
	Reach      int64  `json:"reach" dynamodbav:"reach"`
	TakenAt    int64  `json:"taken_at" dynamodbav:"taken_at"`
}

// NewCommentSnapshot records the visibility of a comment at one instant
func NewCommentSnapshot(commentID string, rank int, likeCount, viewCount, viewDelta, reach int64) *CommentSnapshot {
	return &CommentSnapshot{
		SnapshotID: uuid.New().String(),
		CommentID:  commentID,
		Rank:       rank,
		LikeCount:  likeCount,
		ViewCount:  viewCount,
		ViewDelta:  viewDelta,
		Reach:      reach,
		TakenAt:    time.Now().UnixMilli(),
	}
}
