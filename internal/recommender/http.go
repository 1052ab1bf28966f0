package recommender

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/pkg/logger"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
	gobreaker "github.com/sony/gobreaker/v2"
)

// HTTPClient implements Client against the recommender's JSON API. All
// calls carry a bounded timeout; ranked-list requests additionally run
// behind a circuit breaker so a struggling recommender degrades to the
// trending/empty fallback instead of stalling every feed request.
type HTTPClient struct {
	base    string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[[]ItemRef]
	log     *logger.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, log *logger.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	settings := gobreaker.Settings{
		Name:     "recommender",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &HTTPClient{
		base:    baseURL,
		httpc:   &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[[]ItemRef](settings),
		log:     log,
	}
}

type rankResponse struct {
	Items []ItemRef `json:"items"`
}

// Rank requests an ordered list of item references.
func (c *HTTPClient) Rank(ctx context.Context, q Query) ([]ItemRef, error) {
	return c.breaker.Execute(func() ([]ItemRef, error) {
		body, err := c.post(ctx, "/rank", q)
		if err != nil {
			return nil, err
		}

		var resp rankResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, utils.Upstream("recommender", err)
		}
		return resp.Items, nil
	})
}

// SendFeedback forwards a reaction event. Best-effort.
func (c *HTTPClient) SendFeedback(ctx context.Context, fb Feedback) error {
	_, err := c.post(ctx, "/feedback", fb)
	return err
}

// UpsertItem notifies the recommender of new or edited content.
func (c *HTTPClient) UpsertItem(ctx context.Context, target models.Ref) error {
	_, err := c.post(ctx, "/items", target)
	return err
}

// DeleteItem notifies the recommender of deleted content.
func (c *HTTPClient) DeleteItem(ctx context.Context, target models.Ref) error {
	payload := struct {
		Target  models.Ref `json:"target"`
		Deleted bool       `json:"deleted"`
	}{Target: target, Deleted: true}
	_, err := c.post(ctx, "/items", payload)
	return err
}

func (c *HTTPClient) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, utils.Upstream("recommender", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(data))
	if err != nil {
		return nil, utils.Upstream("recommender", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, utils.Upstream("recommender", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, utils.Upstream("recommender", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	return io.ReadAll(resp.Body)
}
