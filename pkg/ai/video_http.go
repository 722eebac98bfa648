package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPVideoProvider calls a text-to-video service that answers
// {"url": "..."} for a JSON prompt.
type HTTPVideoProvider struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
}

func NewHTTPVideoProvider(endpoint, apiKey string) *HTTPVideoProvider {
	return &HTTPVideoProvider{
		Endpoint: endpoint,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: 2 * time.Minute},
	}
}

func (p *HTTPVideoProvider) Name() string { return "http" }

type videoRequest struct {
	Prompt   string `json:"prompt"`
	Style    string `json:"style,omitempty"`
	Duration int    `json:"duration"`
}

type videoResponse struct {
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

func (p *HTTPVideoProvider) Generate(ctx context.Context, req ContentRequest) (string, error) {
	body, err := json.Marshal(videoRequest{
		Prompt:   describe(req),
		Style:    req.Style,
		Duration: req.Duration,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("video request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.HTTP.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("video http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("video bad status: %s", resp.Status)
	}

	var payload videoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("video decode: %w", err)
	}
	if payload.URL == "" {
		if payload.Error != "" {
			return "", errors.New("video service: " + payload.Error)
		}
		return "", errors.New("video service returned no url")
	}
	return payload.URL, nil
}
