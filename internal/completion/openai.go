package completion

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	openAIAPIURL = "https://api.openai.com/v1/chat/completions"
	openAIModel  = "gpt-4o-mini-2024-07-18"
)

type openAI struct{}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index        int           `json:"index"`
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (openAI) defaultURL() string   { return openAIAPIURL }
func (openAI) defaultModel() string { return openAIModel }

func (openAI) encode(c *Client, system, prompt string) ([]byte, error) {
	return json.Marshal(openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
}

func (openAI) headers(c *Client, h http.Header) {
	h.Set("Authorization", "Bearer "+c.apiKey)
}

func (openAI) decode(body []byte) (string, error) {
	var apiResp openAIResponse
	if err := unmarshal(body, &apiResp); err != nil {
		return "", err
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API")
	}
	return apiResp.Choices[0].Message.Content, nil
}
