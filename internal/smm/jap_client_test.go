package smm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tubepilot/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) logger.Logger {
	log, err := logger.NewZapLoggerForDev()
	require.NoError(t, err)
	return log
}

// panelServer fakes a JAP v2 endpoint and records the decoded request bodies
func panelServer(t *testing.T, respond func(action string, body map[string]interface{}) interface{}) (*httptest.Server, *[]map[string]interface{}) {
	t.Helper()
	var requests []map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, body)

		action, _ := body["action"].(string)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(respond(action, body)))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestPlaceCommentOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("sends newline-joined comments and returns the order id", func(t *testing.T) {
		srv, requests := panelServer(t, func(action string, body map[string]interface{}) interface{} {
			return map[string]interface{}{"order": 23501}
		})
		client := NewJapClient(srv.URL, time.Second, testLogger(t))

		orderID, err := client.PlaceCommentOrder(ctx, "test-key", 1234,
			"https://www.youtube.com/watch?v=abc", []string{"first comment", "second comment"})
		require.NoError(t, err)
		assert.Equal(t, "23501", orderID)

		require.Len(t, *requests, 1)
		sent := (*requests)[0]
		assert.Equal(t, "add", sent["action"])
		assert.Equal(t, "test-key", sent["key"])
		assert.Equal(t, float64(1234), sent["service"])
		assert.Equal(t, "first comment\nsecond comment", sent["comments"])
	})

	t.Run("maps authentication errors", func(t *testing.T) {
		srv, _ := panelServer(t, func(action string, body map[string]interface{}) interface{} {
			return map[string]interface{}{"error": "Invalid API key"}
		})
		client := NewJapClient(srv.URL, time.Second, testLogger(t))

		_, err := client.PlaceCommentOrder(ctx, "bad-key", 1234, "link", []string{"text"})
		assert.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("maps funds errors", func(t *testing.T) {
		srv, _ := panelServer(t, func(action string, body map[string]interface{}) interface{} {
			return map[string]interface{}{"error": "Not enough funds in the account"}
		})
		client := NewJapClient(srv.URL, time.Second, testLogger(t))

		_, err := client.PlaceCommentOrder(ctx, "test-key", 1234, "link", []string{"text"})
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("maps service errors", func(t *testing.T) {
		srv, _ := panelServer(t, func(action string, body map[string]interface{}) interface{} {
			return map[string]interface{}{"error": "Incorrect service ID"}
		})
		client := NewJapClient(srv.URL, time.Second, testLogger(t))

		_, err := client.PlaceCommentOrder(ctx, "test-key", 9, "link", []string{"text"})
		assert.ErrorIs(t, err, ErrInvalidService)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()
		client := NewJapClient(srv.URL, time.Second, testLogger(t))

		_, err := client.PlaceCommentOrder(ctx, "test-key", 1234, "link", []string{"text"})
		assert.Error(t, err)
	})
}

func TestFetchOrderStatuses(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes the per-order status map", func(t *testing.T) {
		srv, requests := panelServer(t, func(action string, body map[string]interface{}) interface{} {
			return map[string]interface{}{
				"9001": map[string]interface{}{
					"status": "Completed", "charge": "0.27819", "start_count": "3572",
					"remains": "0", "currency": "USD",
				},
				"9002": map[string]interface{}{"error": "Incorrect order ID"},
			}
		})
		client := NewJapClient(srv.URL, time.Second, testLogger(t))

		reports, err := client.FetchOrderStatuses(ctx, "test-key", []string{"9001", "9002"})
		require.NoError(t, err)
		require.Len(t, reports, 2)

		done := reports["9001"]
		assert.Equal(t, "Completed", done.Status)
		assert.InDelta(t, 0.27819, done.Charge, 1e-9)
		assert.Equal(t, 3572, done.StartCount)
		assert.Equal(t, 0, done.Remains)
		assert.Equal(t, "USD", done.Currency)
		assert.NoError(t, done.Err)

		assert.Error(t, reports["9002"].Err)

		sent := (*requests)[0]
		assert.Equal(t, "status", sent["action"])
		assert.Equal(t, "9001,9002", sent["orders"])
	})

	t.Run("top-level error fails the whole call", func(t *testing.T) {
		srv, _ := panelServer(t, func(action string, body map[string]interface{}) interface{} {
			return map[string]interface{}{"error": "Invalid API key"}
		})
		client := NewJapClient(srv.URL, time.Second, testLogger(t))

		_, err := client.FetchOrderStatuses(ctx, "bad-key", []string{"9001"})
		assert.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("rejects batches over the ceiling", func(t *testing.T) {
		client := NewJapClient("http://unused.invalid", time.Second, testLogger(t))

		orderIDs := make([]string, MaxStatusBatch+1)
		for i := range orderIDs {
			orderIDs[i] = fmt.Sprintf("%d", i)
		}
		_, err := client.FetchOrderStatuses(ctx, "test-key", orderIDs)
		assert.Error(t, err)
	})

	t.Run("empty batch short-circuits", func(t *testing.T) {
		client := NewJapClient("http://unused.invalid", time.Second, testLogger(t))

		reports, err := client.FetchOrderStatuses(ctx, "test-key", nil)
		require.NoError(t, err)
		assert.Empty(t, reports)
	})
}

func TestFetchBalance(t *testing.T) {
	ctx := context.Background()

	srv, requests := panelServer(t, func(action string, body map[string]interface{}) interface{} {
		return map[string]interface{}{"balance": "100.84292", "currency": "USD"}
	})
	client := NewJapClient(srv.URL, time.Second, testLogger(t))

	balance, err := client.FetchBalance(ctx, "test-key")
	require.NoError(t, err)
	assert.InDelta(t, 100.84292, balance.Amount, 1e-9)
	assert.Equal(t, "USD", balance.Currency)

	assert.Equal(t, "balance", (*requests)[0]["action"])
}
