package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SmmOrderStatus mirrors the status vocabulary of SMM panel APIs
type SmmOrderStatus string

const (
	SmmOrderStatusPending    SmmOrderStatus = "PENDING"
	SmmOrderStatusInProgress SmmOrderStatus = "IN_PROGRESS"
	SmmOrderStatusProcessing SmmOrderStatus = "PROCESSING"
	SmmOrderStatusCompleted  SmmOrderStatus = "COMPLETED"
	SmmOrderStatusPartial    SmmOrderStatus = "PARTIAL"
	SmmOrderStatusCanceled   SmmOrderStatus = "CANCELED"
	SmmOrderStatusRefunded   SmmOrderStatus = "REFUNDED"
	SmmOrderStatusFailed     SmmOrderStatus = "FAILED"
)

// SmmServiceType is the kind of engagement an order buys
type SmmServiceType string

const (
	SmmServiceTypeComment SmmServiceType = "COMMENT"
	SmmServiceTypeUpvote  SmmServiceType = "UPVOTE"
)

// NormalizeSmmStatus maps a panel-reported status string onto the local enum.
// Unknown strings map to FAILED.
func NormalizeSmmStatus(apiStatus string) SmmOrderStatus {
	switch strings.ToLower(strings.TrimSpace(apiStatus)) {
	case "pending":
		return SmmOrderStatusPending
	case "in progress":
		return SmmOrderStatusInProgress
	case "processing":
		return SmmOrderStatusProcessing
	case "completed":
		return SmmOrderStatusCompleted
	case "partial":
		return SmmOrderStatusPartial
	case "canceled":
		return SmmOrderStatusCanceled
	case "refunded":
		return SmmOrderStatusRefunded
	default:
		return SmmOrderStatusFailed
	}
}

// Terminal reports whether the panel will no longer change this status
func (s SmmOrderStatus) Terminal() bool {
	switch s {
	case SmmOrderStatusCompleted, SmmOrderStatusPartial, SmmOrderStatusCanceled,
		SmmOrderStatusRefunded, SmmOrderStatusFailed:
		return true
	}
	return false
}

// SmmOrder is one placed panel order being tracked to completion
type SmmOrder struct {
	OrderID         string         `json:"order_id" dynamodbav:"order_id"`
	ProjectID       string         `json:"project_id" dynamodbav:"project_id"`
	VideoID         string         `json:"video_id,omitempty" dynamodbav:"video_id,omitempty"`
	CredentialID    string         `json:"credential_id" dynamodbav:"credential_id"`
	ExternalOrderID string         `json:"external_order_id,omitempty" dynamodbav:"external_order_id,omitempty"`
	ServiceType     SmmServiceType `json:"service_type" dynamodbav:"service_type"`
	Status          SmmOrderStatus `json:"status" dynamodbav:"status"`
	Quantity        int            `json:"quantity" dynamodbav:"quantity"`
	Charge          float64        `json:"charge,omitempty" dynamodbav:"charge,omitempty"`
	StartCount      int            `json:"start_count,omitempty" dynamodbav:"start_count,omitempty"`
	Remains         int            `json:"remains,omitempty" dynamodbav:"remains,omitempty"`
	Currency        string         `json:"currency,omitempty" dynamodbav:"currency,omitempty"`
	CreatedAt       int64          `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt       int64          `json:"updated_at" dynamodbav:"updated_at"`
}

// PlacedForComments reports whether completion should trigger comment import
func (o *SmmOrder) PlacedForComments() bool {
	return o.ServiceType == SmmServiceTypeComment
}

// ApplyStatusReport overwrites the order's tracked fields from a panel report
func (o *SmmOrder) ApplyStatusReport(status SmmOrderStatus, charge float64, startCount, remains int, currency string) {
	o.Status = status
	o.Charge = charge
	o.StartCount = startCount
	o.Remains = remains
	if currency != "" {
		o.Currency = currency
	}
	o.UpdatedAt = time.Now().UnixMilli()
}

// NewSmmOrder creates a pending order for a placed panel request
func NewSmmOrder(projectID, videoID, credentialID, externalOrderID string, serviceType SmmServiceType, quantity int) *SmmOrder {
	now := time.Now().UnixMilli()
	return &SmmOrder{
		OrderID:         uuid.New().String(),
		ProjectID:       projectID,
		VideoID:         videoID,
		CredentialID:    credentialID,
		ExternalOrderID: externalOrderID,
		ServiceType:     serviceType,
		Status:          SmmOrderStatusPending,
		Quantity:        quantity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
