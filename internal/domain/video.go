package domain

import (
	"time"

	"github.com/google/uuid"
)

// Video is one imported YouTube video tracked by a project
type Video struct {
	VideoID      string `json:"video_id" dynamodbav:"video_id"`
	ProjectID    string `json:"project_id" dynamodbav:"project_id"`
	YoutubeID    string `json:"youtube_id" dynamodbav:"youtube_id"`
	ChannelID    string `json:"channel_id,omitempty" dynamodbav:"channel_id,omitempty"`
	Title        string `json:"title,omitempty" dynamodbav:"title,omitempty"`
	Description  string `json:"description,omitempty" dynamodbav:"description,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" dynamodbav:"thumbnail_url,omitempty"`
	ViewCount    int64  `json:"view_count" dynamodbav:"view_count"`
	LikeCount    int64  `json:"like_count" dynamodbav:"like_count"`
	CommentCount int64  `json:"comment_count" dynamodbav:"comment_count"`
	PublishedAt  int64  `json:"published_at,omitempty" dynamodbav:"published_at,omitempty"`
	FetchedAt    int64  `json:"fetched_at,omitempty" dynamodbav:"fetched_at,omitempty"` // 0 until metadata fetched
	Source       string `json:"source,omitempty" dynamodbav:"source,omitempty"`
	CreatedAt    int64  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    int64  `json:"updated_at" dynamodbav:"updated_at"`
}

// WatchURL returns the public video URL used for SMM orders
func (v *Video) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.YoutubeID
}

// AgeDays returns whole days since publication, 0 when unknown
func (v *Video) AgeDays(now time.Time) int {
	if v.PublishedAt == 0 {
		return 0
	}
	return int(now.Sub(time.UnixMilli(v.PublishedAt)).Hours() / 24)
}

// NewVideo creates a video imported from a channel feed poll
func NewVideo(projectID, youtubeID, channelID, title, source string) *Video {
	now := time.Now().UnixMilli()
	return &Video{
		VideoID:   uuid.New().String(),
		ProjectID: projectID,
		YoutubeID: youtubeID,
		ChannelID: channelID,
		Title:     title,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Channel is a YouTube channel known to a project
type Channel struct {
	ChannelID        string `json:"channel_id" dynamodbav:"channel_id"`
	ProjectID        string `json:"project_id" dynamodbav:"project_id"`
	YoutubeChannelID string `json:"youtube_channel_id" dynamodbav:"youtube_channel_id"`
	Title            string `json:"title,omitempty" dynamodbav:"title,omitempty"`
	CreatedAt        int64  `json:"created_at" dynamodbav:"created_at"`
}

// NewChannel creates a channel row for a project
func NewChannel(projectID, youtubeChannelID, title string) *Channel {
	return &Channel{
		ChannelID:        uuid.New().String(),
		ProjectID:        projectID,
		YoutubeChannelID: youtubeChannelID,
		Title:            title,
		CreatedAt:        time.Now().UnixMilli(),
	}
}

// ChannelSubscription is a project's standing watch on one YouTube channel
type ChannelSubscription struct {
	SubscriptionID     string `json:"subscription_id" dynamodbav:"subscription_id"`
	ProjectID          string `json:"project_id" dynamodbav:"project_id"`
	YoutubeChannelID   string `json:"youtube_channel_id" dynamodbav:"youtube_channel_id"`
	ChannelTitle       string `json:"channel_title,omitempty" dynamodbav:"channel_title,omitempty"`
	Active             bool   `json:"active" dynamodbav:"active"`
	InitialImportLimit int    `json:"initial_import_limit" dynamodbav:"initial_import_limit"`
	CreatedAt          int64  `json:"created_at" dynamodbav:"created_at"`
}
