// Package remote runs predictions against an HTTP inference server.
//
// The wire format is the row-oriented "instances" protocol most model servers
// accept:
//
//	POST <url>  {"instances": [[lat, lon, depth, magType, magNst]]}
//	200 OK      {"predictions": [4.21]}
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrEmptyPrediction = errors.New("inference server returned no predictions")

type inferRequest struct {
	Instances [][]float64 `json:"instances"`
}

type inferResponse struct {
	Predictions []float64 `json:"predictions"`
	Error       string    `json:"error,omitempty"`
}

// Model forwards every prediction to a remote server.
type Model struct {
	url        string
	httpClient *http.Client
}

func NewModel(url string, timeout time.Duration) *Model {
	return &Model{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (m *Model) URL() string { return m.url }

func (m *Model) Predict(ctx context.Context, features []float64) (float64, error) {
	body, err := json.Marshal(inferRequest{Instances: [][]float64{features}})
	if err != nil {
		return 0, fmt.Errorf("error encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("unexpected status code: %d - body: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var data inferResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("error decoding resp.Body: %w", err)
	}
	if data.Error != "" {
		return 0, fmt.Errorf("inference server error: %s", data.Error)
	}
	if len(data.Predictions) == 0 {
		return 0, ErrEmptyPrediction
	}

	return data.Predictions[0], nil
}

// Ping checks that the server answers at all. Any HTTP response counts.
func (m *Model) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference server unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}
