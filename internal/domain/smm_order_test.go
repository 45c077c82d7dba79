package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSmmStatus(t *testing.T) {
	assert.Equal(t, SmmOrderStatusPending, NormalizeSmmStatus("Pending"))
	assert.Equal(t, SmmOrderStatusInProgress, NormalizeSmmStatus("In progress"))
	assert.Equal(t, SmmOrderStatusProcessing, NormalizeSmmStatus("  processing "))
	assert.Equal(t, SmmOrderStatusCompleted, NormalizeSmmStatus("Completed"))
	assert.Equal(t, SmmOrderStatusPartial, NormalizeSmmStatus("Partial"))
	assert.Equal(t, SmmOrderStatusCanceled, NormalizeSmmStatus("Canceled"))
	assert.Equal(t, SmmOrderStatusRefunded, NormalizeSmmStatus("Refunded"))

	// Anything the panel invents maps to FAILED
	assert.Equal(t, SmmOrderStatusFailed, NormalizeSmmStatus("Error"))
	assert.Equal(t, SmmOrderStatusFailed, NormalizeSmmStatus(""))
}

func TestSmmStatusTerminal(t *testing.T) {
	assert.False(t, SmmOrderStatusPending.Terminal())
	assert.False(t, SmmOrderStatusInProgress.Terminal())
	assert.False(t, SmmOrderStatusProcessing.Terminal())

	assert.True(t, SmmOrderStatusCompleted.Terminal())
	assert.True(t, SmmOrderStatusPartial.Terminal())
	assert.True(t, SmmOrderStatusCanceled.Terminal())
	assert.True(t, SmmOrderStatusRefunded.Terminal())
	assert.True(t, SmmOrderStatusFailed.Terminal())
}

func TestApplyStatusReport(t *testing.T) {
	order := NewSmmOrder("project-1", "video-1", "cred-1", "9001", SmmServiceTypeComment, 5)
	assert.Equal(t, SmmOrderStatusPending, order.Status)
	assert.True(t, order.PlacedForComments())

	order.ApplyStatusReport(SmmOrderStatusCompleted, 0.27, 3500, 0, "USD")
	assert.Equal(t, SmmOrderStatusCompleted, order.Status)
	assert.Equal(t, 0.27, order.Charge)
	assert.Equal(t, 3500, order.StartCount)
	assert.Equal(t, 0, order.Remains)
	assert.Equal(t, "USD", order.Currency)

	// An empty currency in a later report does not wipe the stored one
	order.ApplyStatusReport(SmmOrderStatusCompleted, 0.27, 3500, 0, "")
	assert.Equal(t, "USD", order.Currency)
}
