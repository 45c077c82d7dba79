package smm

import (
	"context"
	"errors"
)

// MaxStatusBatch is the largest number of orders one status call may cover
const MaxStatusBatch = 100

// Panel errors mapped from API error strings
var (
	ErrAuthentication    = errors.New("smm: invalid api key")
	ErrInsufficientFunds = errors.New("smm: not enough funds")
	ErrInvalidService    = errors.New("smm: invalid service")
)

// OrderReport is the per-order result of a status call
type OrderReport struct {
	Status     string
	Charge     float64
	StartCount int
	Remains    int
	Currency   string
	Err        error
}

// Balance is an account's available funds on the panel
type Balance struct {
	Amount   float64
	Currency string
}

// Panel is the SMM panel adapter used for bulk comment delivery
type Panel interface {
	// PlaceCommentOrder submits a custom-comments order for a video link and
	// returns the panel's order ID
	PlaceCommentOrder(ctx context.Context, apiKey string, serviceID int, link string, comments []string) (string, error)

	// FetchOrderStatuses queries up to MaxStatusBatch orders in one call. The
	// result is keyed by external order ID; per-order failures are reported in
	// OrderReport.Err rather than failing the whole batch.
	FetchOrderStatuses(ctx context.Context, apiKey string, orderIDs []string) (map[string]OrderReport, error)

	// FetchBalance reads the account balance
	FetchBalance(ctx context.Context, apiKey string) (*Balance, error)
}
