package ai

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

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

const defaultHTTPTimeout = 60 * time.Second

// GeminiClient is a thin HTTP wrapper around the Gemini generateContent API.
type GeminiClient struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	endpoint    string
	httpClient  *http.Client
}

// GeminiOption customizes a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithEndpoint overrides the API base URL. Used in tests.
func WithEndpoint(endpoint string) GeminiOption {
	return func(c *GeminiClient) {
		c.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) GeminiOption {
	return func(c *GeminiClient) {
		c.httpClient = client
	}
}

// NewGeminiClient creates a Gemini generation client.
func NewGeminiClient(apiKey, model string, maxTokens int, temperature float64, opts ...GeminiOption) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	c := &GeminiClient{
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		endpoint:    defaultEndpoint,
		httpClient:  &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends the request and returns the generated text.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = c.temperature
	}

	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(req)}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: c.maxTokens,
			TopP:            0.8,
			TopK:            40,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &ServiceError{Kind: ErrAPI, Message: "failed to encode request", Err: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &ServiceError{Kind: ErrAPI, Message: "failed to create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &ServiceError{Kind: ErrAPI, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{Kind: ErrAPI, Message: "failed to read response", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &ServiceError{Kind: ErrAuth, Message: "API key rejected"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &ServiceError{Kind: ErrRateLimited, Message: "rate limit exceeded"}
	case resp.StatusCode != http.StatusOK:
		return "", &ServiceError{Kind: ErrAPI, Message: fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, truncateBody(data))}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &ServiceError{Kind: ErrAPI, Message: "failed to decode response", Err: err}
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", &ServiceError{Kind: ErrEmptyResponse, Message: "no candidates returned"}
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", &ServiceError{Kind: ErrEmptyResponse, Message: "empty candidate text"}
	}

	return text, nil
}

// buildPrompt flattens the system preamble, history and new message into a
// single prompt. The model has no native system role at this API level.
func buildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString("SYSTEM INSTRUCTIONS:\n")
	sb.WriteString(req.SystemPrompt)
	sb.WriteString("\n\nCONVERSATION HISTORY:\n")

	if len(req.History) == 0 {
		sb.WriteString("(No previous conversation)\n")
	} else {
		for _, ex := range req.History {
			role := "Assistant"
			if ex.Role == "user" {
				role = "Human"
			}
			sb.WriteString(fmt.Sprintf("%s: %s\n", role, ex.Content))
		}
	}

	sb.WriteString("\nCURRENT MESSAGE:\nHuman: ")
	sb.WriteString(req.Message)
	sb.WriteString("\n\nAssistant:")

	return sb.String()
}

func truncateBody(data []byte) string {
	const max = 200
	s := string(data)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
