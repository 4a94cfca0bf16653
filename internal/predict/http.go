package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPPredictor posts the feature vector to a scoring service.
type HTTPPredictor struct {
	url        string
	httpClient *http.Client
}

type HTTPConfig struct {
	URL     string
	Timeout time.Duration
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Diagnosis string `json:"diagnosis"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewHTTPPredictor(cfg HTTPConfig) (*HTTPPredictor, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("predictor url is required")
	}

	return &HTTPPredictor{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (p *HTTPPredictor) Predict(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(predictRequest{Features: req.Features[:]})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("predictor error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed predictResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("predictor error: %s", parsed.Error.Message)
	}

	label := firstLine(parsed.Diagnosis)
	if label == "" {
		return "", ErrNoOutput
	}
	return label, nil
}
