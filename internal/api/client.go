// Package api implements the HTTP client for the health-coach backend
// contract: the chat exchange, the profile fetch, and the metric log.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xaenox/health-coach/internal/models"
)

// SessionHeader carries the session token on every request.
const SessionHeader = "X-Session-ID"

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL of the backend (default: http://localhost:5001)
	BaseURL string

	// Timeout for requests (default: 30s)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://localhost:5001",
		Timeout: 30 * time.Second,
	}
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a backend client, filling in defaults for zero values.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:5001"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// ExchangeRequest is the chat request body. Category marshals to null when
// no category is selected.
type ExchangeRequest struct {
	Message  string  `json:"message"`
	Category *string `json:"category"`
}

// ExchangeResponse is the chat reply. All fields beyond Response are
// optional on the wire.
type ExchangeResponse struct {
	Response  string `json:"response"`
	Category  string `json:"category,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Success   *bool  `json:"success,omitempty"`
}

// Exchange posts one user message and returns the backend's reply. An empty
// category is sent as null.
func (c *Client) Exchange(ctx context.Context, token, message, category string) (*ExchangeResponse, error) {
	reqBody := ExchangeRequest{Message: message}
	if category != "" {
		reqBody.Category = &category
	}

	var resp ExchangeResponse
	if err := c.postJSON(ctx, "/api/chat", token, reqBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// profileEnvelope matches the profile endpoint's response shape.
type profileEnvelope struct {
	Profile struct {
		Name         *string  `json:"name"`
		FitnessLevel *string  `json:"fitness_level"`
		HealthGoals  []string `json:"health_goals"`
	} `json:"profile"`
}

// Profile fetches the user profile for the given session token.
func (c *Client) Profile(ctx context.Context, token string) (*models.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set(SessionHeader, token)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("profile request: unexpected status %d", httpResp.StatusCode)
	}

	var envelope profileEnvelope
	if err := json.NewDecoder(httpResp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode profile response: %w", err)
	}

	p := &models.UserProfile{HealthGoals: envelope.Profile.HealthGoals}
	if envelope.Profile.Name != nil {
		p.Name = *envelope.Profile.Name
	}
	if envelope.Profile.FitnessLevel != nil {
		p.FitnessLevel = *envelope.Profile.FitnessLevel
	}
	return p, nil
}

// metricBody is the metric log request body.
type metricBody struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// LogMetric reports one metric observation. The response body is ignored.
func (c *Client) LogMetric(ctx context.Context, token, metricType, value, unit string) error {
	return c.postJSON(ctx, "/api/metrics", token, metricBody{
		Type:  metricType,
		Value: value,
		Unit:  unit,
	}, nil)
}

func (c *Client) postJSON(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}
