package recreationgov

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"campwatch/internal/observability/metrics"
	"campwatch/internal/resilience/circuitbreaker"
	"campwatch/internal/resilience/retry"
)

const (
	defaultRIDBBaseURL         = "https://ridb.recreation.gov/api/v1"
	defaultAvailabilityBaseURL = "https://www.recreation.gov/api/camps/availability/campground"

	// availabilityDateFormat is the start_date format the booking API
	// expects: always the first of the month at midnight UTC.
	availabilityDateFormat = "2006-01-02T00:00:00.000Z"

	requestTimeout = 30 * time.Second
)

// ClientConfig configures the Recreation.gov HTTP client.
type ClientConfig struct {
	// APIKey is the RIDB API key sent on metadata requests.
	APIKey string

	// RIDBBaseURL and AvailabilityBaseURL override the production
	// endpoints, used in tests.
	RIDBBaseURL         string
	AvailabilityBaseURL string
}

// Client is the low-level HTTP client for the two Recreation.gov API
// surfaces: the RIDB metadata API and the booking availability API. Both go
// through one circuit breaker since they share the upstream, but carry
// different retry budgets: metadata lookups fail fast while availability
// polls are worth retrying for a long time.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker

	metadataPolicy     retry.Policy
	availabilityPolicy retry.Policy
}

// NewClient builds a Client with production retry budgets.
func NewClient(cfg ClientConfig) *Client {
	if cfg.RIDBBaseURL == "" {
		cfg.RIDBBaseURL = defaultRIDBBaseURL
	}
	if cfg.AvailabilityBaseURL == "" {
		cfg.AvailabilityBaseURL = defaultAvailabilityBaseURL
	}
	return &Client{
		cfg:                cfg,
		httpClient:         &http.Client{Timeout: requestTimeout},
		breaker:            circuitbreaker.New(circuitbreaker.ProviderHTTPConfig(Name)),
		metadataPolicy:     retry.MetadataPolicy(),
		availabilityPolicy: retry.AvailabilityPolicy(),
	}
}

// getRIDB issues a GET against the RIDB metadata API with the apikey header
// and the fail-fast metadata retry budget.
func (c *Client) getRIDB(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.cfg.RIDBBaseURL + path
	headers := http.Header{"Apikey": []string{c.cfg.APIKey}}
	return c.get(ctx, "metadata", endpoint, params, headers, c.metadataPolicy)
}

// getAvailability fetches one facility's availability grid for one month.
func (c *Client) getAvailability(ctx context.Context, facilityID string, month time.Time) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s/month", c.cfg.AvailabilityBaseURL, url.PathEscape(facilityID))
	params := url.Values{"start_date": []string{month.UTC().Format(availabilityDateFormat)}}
	headers := http.Header{"Referer": []string{"https://www.recreation.gov/"}}
	return c.get(ctx, "availability", endpoint, params, headers, c.availabilityPolicy)
}

// get runs one GET under the retry policy and circuit breaker, recording
// per-request metrics.
func (c *Client) get(ctx context.Context, operation, endpoint string, params url.Values, headers http.Header, policy retry.Policy) ([]byte, error) {
	var body []byte
	attempt := 0
	err := retry.Do(ctx, policy, func() error {
		attempt++
		if attempt > 1 {
			metrics.RecordProviderRetry(Name, operation)
		}
		start := time.Now()
		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doRequest(ctx, endpoint, params, headers)
		})
		metrics.RecordProviderRequest(Name, operation, time.Since(start), err == nil)
		if err != nil {
			return err
		}
		body = result.([]byte)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recreation.gov %s request: %w", operation, err)
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, headers http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "campwatch")
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("GET %s: %s", req.URL.Path, firstLine(body)),
		}
	}
	return body, nil
}

// firstLine keeps error payloads from flooding the log.
func firstLine(body []byte) string {
	const max = 200
	s := string(body)
	for i, r := range s {
		if r == '\n' || i >= max {
			return s[:i]
		}
	}
	return s
}
