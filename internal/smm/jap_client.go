package smm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tubepilot/internal/logger"
)

const defaultJapAPIURL = "https://justanotherpanel.com/api/v2"

type japClient struct {
	apiURL string
	http   *http.Client
	logger logger.Logger
}

// NewJapClient creates a Panel speaking the JustAnotherPanel v2 protocol,
// which most SMM panels expose verbatim
func NewJapClient(apiURL string, timeout time.Duration, log logger.Logger) Panel {
	if apiURL == "" {
		apiURL = defaultJapAPIURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &japClient{
		apiURL: apiURL,
		http:   &http.Client{Timeout: timeout},
		logger: log.With(logger.String("component", "jap_client")),
	}
}

type japAddResponse struct {
	Order json.Number `json:"order"`
	Error string      `json:"error"`
}

func (c *japClient) PlaceCommentOrder(ctx context.Context, apiKey string, serviceID int, link string, comments []string) (string, error) {
	payload := map[string]interface{}{
		"key":      apiKey,
		"action":   "add",
		"service":  serviceID,
		"link":     link,
		"comments": strings.Join(comments, "\n"),
	}

	var resp japAddResponse
	if err := c.call(ctx, payload, &resp); err != nil {
		return "", err
	}

	if resp.Error != "" {
		return "", mapPanelError(resp.Error)
	}

	orderID := resp.Order.String()
	if orderID == "" {
		return "", fmt.Errorf("smm: add response missing order id")
	}

	c.logger.Info("placed comment order",
		logger.String("order_id", orderID),
		logger.Int("comment_count", len(comments)))

	return orderID, nil
}

type japStatusEntry struct {
	Status     string      `json:"status"`
	Charge     json.Number `json:"charge"`
	StartCount json.Number `json:"start_count"`
	Remains    json.Number `json:"remains"`
	Currency   string      `json:"currency"`
	Error      string      `json:"error"`
}

func (c *japClient) FetchOrderStatuses(ctx context.Context, apiKey string, orderIDs []string) (map[string]OrderReport, error) {
	if len(orderIDs) == 0 {
		return map[string]OrderReport{}, nil
	}
	if len(orderIDs) > MaxStatusBatch {
		return nil, fmt.Errorf("smm: status batch of %d exceeds limit of %d", len(orderIDs), MaxStatusBatch)
	}

	payload := map[string]interface{}{
		"key":    apiKey,
		"action": "status",
		"orders": strings.Join(orderIDs, ","),
	}

	var raw json.RawMessage
	if err := c.call(ctx, payload, &raw); err != nil {
		return nil, err
	}

	// A top-level {"error": ...} object means the whole call failed
	var topError struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &topError); err == nil && topError.Error != "" {
		return nil, mapPanelError(topError.Error)
	}

	var entries map[string]japStatusEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("smm: failed to decode status response: %w", err)
	}

	reports := make(map[string]OrderReport, len(entries))
	for orderID, entry := range entries {
		if entry.Error != "" {
			reports[orderID] = OrderReport{Err: mapPanelError(entry.Error)}
			continue
		}

		reports[orderID] = OrderReport{
			Status:     entry.Status,
			Charge:     numberToFloat(entry.Charge),
			StartCount: numberToInt(entry.StartCount),
			Remains:    numberToInt(entry.Remains),
			Currency:   entry.Currency,
		}
	}

	return reports, nil
}

type japBalanceResponse struct {
	Balance  json.Number `json:"balance"`
	Currency string      `json:"currency"`
	Error    string      `json:"error"`
}

func (c *japClient) FetchBalance(ctx context.Context, apiKey string) (*Balance, error) {
	payload := map[string]interface{}{
		"key":    apiKey,
		"action": "balance",
	}

	var resp japBalanceResponse
	if err := c.call(ctx, payload, &resp); err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, mapPanelError(resp.Error)
	}

	return &Balance{
		Amount:   numberToFloat(resp.Balance),
		Currency: resp.Currency,
	}, nil
}

func (c *japClient) call(ctx context.Context, payload map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("smm: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("smm: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("smm: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("smm: panel returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("smm: failed to decode response: %w", err)
	}

	return nil
}

// mapPanelError translates panel error strings into sentinel errors
func mapPanelError(message string) error {
	normalized := strings.ToLower(strings.TrimSpace(message))

	switch {
	case strings.Contains(normalized, "invalid api key"), strings.Contains(normalized, "incorrect api key"):
		return fmt.Errorf("%w: %s", ErrAuthentication, message)
	case strings.Contains(normalized, "not enough funds"), strings.Contains(normalized, "insufficient"):
		return fmt.Errorf("%w: %s", ErrInsufficientFunds, message)
	case strings.Contains(normalized, "incorrect service"), strings.Contains(normalized, "invalid service"):
		return fmt.Errorf("%w: %s", ErrInvalidService, message)
	default:
		return fmt.Errorf("smm: panel error: %s", message)
	}
}

func numberToFloat(n json.Number) float64 {
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return f
}

func numberToInt(n json.Number) int {
	i, err := strconv.Atoi(n.String())
	if err != nil {
		return 0
	}
	return i
}
