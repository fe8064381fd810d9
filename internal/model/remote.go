package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"carvalue/internal/models"
)

// Remote sends the row to a scoring service that hosts the model.
type Remote struct {
	endpoint   string
	httpClient *http.Client
}

type scoreRequest struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

type scoreResponse struct {
	Predictions []float64 `json:"predictions"`
}

// NewRemote creates a scoring client. Requests are bounded by timeout.
func NewRemote(endpoint string, timeout time.Duration) *Remote {
	return &Remote{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict posts one row and expects exactly one prediction back. It does
// not retry.
func (r *Remote) Predict(ctx context.Context, row models.FeatureRow) (float64, error) {
	body, err := json.Marshal(scoreRequest{
		Columns: row.Columns(),
		Data:    [][]any{row.Values()},
	})
	if err != nil {
		return 0, fmt.Errorf("model: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("model: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("model: scoring request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode: %v", ErrBadResponse, err)
	}
	if len(out.Predictions) != 1 {
		return 0, fmt.Errorf("%w: expected 1 prediction, got %d", ErrBadResponse, len(out.Predictions))
	}
	return out.Predictions[0], nil
}
