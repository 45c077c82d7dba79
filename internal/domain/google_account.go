package domain

import "time"

// AccountTokenStatus tracks whether an account's OAuth token still works
type AccountTokenStatus string

const (
	AccountTokenUsable       AccountTokenStatus = "USABLE"
	AccountTokenUnauthorized AccountTokenStatus = "UNAUTHORIZED"
)

// GoogleAccount is a linked posting identity for one user
type GoogleAccount struct {
	AccountID   string             `json:"account_id" dynamodbav:"account_id"`
	UserID      string             `json:"user_id" dynamodbav:"user_id"`
	DisplayName string             `json:"display_name" dynamodbav:"display_name"`
	Email       string             `json:"email,omitempty" dynamodbav:"email,omitempty"`
	AccessToken string             `json:"-" dynamodbav:"access_token"`
	TokenStatus AccountTokenStatus `json:"token_status" dynamodbav:"token_status"`
	CreatedAt   int64              `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   int64              `json:"updated_at" dynamodbav:"updated_at"`
}

// Usable reports whether the account can still post
func (a *GoogleAccount) Usable() bool {
	return a.TokenStatus == AccountTokenUsable
}

// MarkUnauthorized records an authorization failure from the API
func (a *GoogleAccount) MarkUnauthorized() {
	a.TokenStatus = AccountTokenUnauthorized
	a.UpdatedAt = time.Now().UnixMilli()
}
