package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	defaultMaxTokens   = 300
	defaultTemperature = 0.2
)

// Config holds the settings shared by every backend.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	// APIURL overrides the backend's endpoint (used by tests).
	APIURL string
	// HTTPClient defaults to a client with no timeout; the request context
	// bounds the call.
	HTTPClient *http.Client
}

// Client sends a single completion request to the configured backend.
type Client struct {
	backend     backend
	apiKey      string
	model       string
	apiURL      string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// backend knows one provider's wire format.
type backend interface {
	defaultURL() string
	defaultModel() string
	encode(c *Client, system, prompt string) ([]byte, error)
	headers(c *Client, h http.Header)
	decode(body []byte) (string, error)
}

// New creates a completion client for cfg.Provider.
func New(cfg Config) (*Client, error) {
	var b backend
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI:
		b = openAI{}
	case ProviderAnthropic:
		b = anthropic{}
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}

	c := &Client{
		backend:     b,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		apiURL:      cfg.APIURL,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  cfg.HTTPClient,
	}
	if c.model == "" {
		c.model = b.defaultModel()
	}
	if c.apiURL == "" {
		c.apiURL = b.defaultURL()
	}
	if c.maxTokens <= 0 {
		c.maxTokens = defaultMaxTokens
	}
	if c.temperature <= 0 {
		c.temperature = defaultTemperature
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c, nil
}

// IsConfigured returns true if the client has an API key
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Model returns the model the client will request.
func (c *Client) Model() string {
	return c.model
}

// Complete sends one request and returns the trimmed text of the first choice.
// There is no retry: any transport failure or non-2xx response is returned.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("completion client has no API key")
	}

	reqBody, err := c.backend.encode(c, system, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.backend.headers(c, httpReq.Header)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	text, err := c.backend.decode(body)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty response from API")
	}
	return text, nil
}

func unmarshal(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

