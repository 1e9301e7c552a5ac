package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	id "kudos/pkg/domain"
	"kudos/pkg/platform/circuit"
)

// HTTPClient fetches reservation amounts from the cart service. The breaker
// keeps cart outages from taking the balance surface down: while open, the
// reserved amount degrades to zero with a warning instead of an error.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// NewHTTPClient constructs a cart service client.
func NewHTTPClient(baseURL string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 3 * time.Second},
		breaker: circuit.New("reservations", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
		logger:  logger,
	}
}

type reservedResponse struct {
	Reserved int64 `json:"reserved"`
}

func (c *HTTPClient) ReservedAmount(ctx context.Context, userID id.UserID) (int64, error) {
	if c.breaker.IsOpen() {
		// Half-open probes are driven by the next successful call below;
		// while open, fail open to zero so balances stay queryable.
		c.logger.Warn("reservation circuit open, treating reservation as zero",
			"user_id", userID.String())
		return 0, nil
	}

	amount, err := c.fetch(ctx, userID)
	if err != nil {
		_, change := c.breaker.RecordFailure()
		if change.Opened {
			c.logger.Error("reservation circuit opened", "error", err)
		}
		c.logger.Warn("reservation lookup failed, treating reservation as zero",
			"user_id", userID.String(), "error", err)
		return 0, nil
	}
	_, change := c.breaker.RecordSuccess()
	if change.Closed {
		c.logger.Info("reservation circuit closed")
	}
	return amount, nil
}

func (c *HTTPClient) fetch(ctx context.Context, userID id.UserID) (int64, error) {
	url := fmt.Sprintf("%s/carts/%s/reserved", c.baseURL, userID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build reservation request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch reservation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("reservation service returned %d", resp.StatusCode)
	}
	var body reservedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode reservation response: %w", err)
	}
	if body.Reserved < 0 {
		return 0, fmt.Errorf("reservation service returned negative amount %d", body.Reserved)
	}
	return body.Reserved, nil
}
