package domain

import "time"

// PostingChannel selects how comments get posted for a project
type PostingChannel string

const (
	PostingChannelYouTube  PostingChannel = "YOUTUBE_API"
	PostingChannelSmmPanel PostingChannel = "SMM_PANEL"
)

// Project owns videos, comments, subscriptions and schedules for one campaign
type Project struct {
	ProjectID   string         `json:"project_id" dynamodbav:"project_id"`
	Name        string         `json:"name" dynamodbav:"name"`
	Description string         `json:"description,omitempty" dynamodbav:"description,omitempty"`
	OwnerUserID string         `json:"owner_user_id" dynamodbav:"owner_user_id"`
	Channel     PostingChannel `json:"posting_channel" dynamodbav:"posting_channel"`

	// SMM panel posting configuration, required when Channel is SMM_PANEL
	SmmCredentialID string `json:"smm_credential_id,omitempty" dynamodbav:"smm_credential_id,omitempty"`
	SmmServiceID    string `json:"smm_service_id,omitempty" dynamodbav:"smm_service_id,omitempty"`
	SmmCommentCount int    `json:"smm_comment_count,omitempty" dynamodbav:"smm_comment_count,omitempty"`

	// PostingFilter is an optional expression over video metadata
	// (view_count, like_count, comment_count, age_days, title) that narrows
	// which videos the posting job targets. Empty means all.
	PostingFilter string `json:"posting_filter,omitempty" dynamodbav:"posting_filter,omitempty"`

	CreatedAt int64 `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt int64 `json:"updated_at" dynamodbav:"updated_at"`
}

// PostsViaSmm reports whether this project posts through an SMM panel
func (p *Project) PostsViaSmm() bool {
	return p.Channel == PostingChannelSmmPanel
}

// SmmConfigured reports whether the panel configuration is complete
func (p *Project) SmmConfigured() bool {
	return p.SmmCredentialID != "" && p.SmmServiceID != ""
}

// SmmPanelCredential holds an API key for one third-party SMM panel
type SmmPanelCredential struct {
	CredentialID string `json:"credential_id" dynamodbav:"credential_id"`
	UserID       string `json:"user_id" dynamodbav:"user_id"`
	PanelType    string `json:"panel_type" dynamodbav:"panel_type"`
	APIKey       string `json:"api_key" dynamodbav:"api_key"`
	CreatedAt    int64  `json:"created_at" dynamodbav:"created_at"`
}

// NewProject creates a project posting through the YouTube API by default
func NewProject(projectID, name, ownerUserID string) *Project {
	now := time.Now().UnixMilli()
	return &Project{
		ProjectID:   projectID,
		Name:        name,
		OwnerUserID: ownerUserID,
		Channel:     PostingChannelYouTube,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
