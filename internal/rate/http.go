package rate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://open.er-api.com/v6/latest"
	DefaultTimeout = 10 * time.Second
)

var (
	ErrBadStatus   = errors.New("unexpected status")
	ErrMissingRate = errors.New("rate missing from response")
	ErrInvalidRate = errors.New("invalid rate")
)

// HTTPFetcher reads rates from an open.er-api.com compatible endpoint:
// GET <base>/<from> returning {"rates": {"<to>": n, ...}}.
type HTTPFetcher struct {
	baseURL    string
	from, to   string
	httpClient *http.Client
}

type latestResponse struct {
	Result string             `json:"result"`
	Base   string             `json:"base_code"`
	Rates  map[string]float64 `json:"rates"`
}

func NewHTTPFetcher(baseURL, from, to string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		from:    strings.ToUpper(from),
		to:      strings.ToUpper(to),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (float64, error) {
	endpoint := fmt.Sprintf("%s/%s", f.baseURL, url.PathEscape(f.from))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("rate: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("rate: %w %d", ErrBadStatus, resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("rate: failed to decode response: %w", err)
	}

	value, ok := body.Rates[f.to]
	if !ok {
		return 0, fmt.Errorf("rate: %w: %s", ErrMissingRate, f.to)
	}
	if !(value > 0) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("rate: %w: %s = %v", ErrInvalidRate, f.to, value)
	}
	return value, nil
}
