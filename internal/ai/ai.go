// Package ai defines the response generation boundary and its Gemini-backed
// implementation.
package ai

import (
	"context"
	"fmt"
)

// Exchange is a single role-tagged entry in a conversation history.
type Exchange struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Request carries everything a generator needs to produce a reply.
type Request struct {
	// SystemPrompt is the persona preamble prepended to the conversation.
	SystemPrompt string
	// History is the truncated conversation so far, oldest first.
	History []Exchange
	// Message is the new user or context message.
	Message string
	// Temperature overrides the client default when > 0.
	Temperature float64
}

// Generator produces text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrorKind classifies generation failures.
type ErrorKind string

const (
	ErrAuth          ErrorKind = "auth"
	ErrRateLimited   ErrorKind = "rate_limited"
	ErrEmptyResponse ErrorKind = "empty_response"
	ErrAPI           ErrorKind = "api_error"
)

// ServiceError represents a failure from the generation backend.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation %s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("generation %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// EstimateTokens approximates the token count of a text.
// Rough heuristic: 1 token per 4 characters.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// TruncateHistory drops the oldest exchanges until the history fits within
// maxTokens. The most recent exchanges are always preferred.
func TruncateHistory(history []Exchange, maxTokens int) []Exchange {
	if len(history) == 0 {
		return history
	}

	total := 0
	cut := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		tokens := EstimateTokens(history[i].Content)
		if total+tokens > maxTokens {
			break
		}
		total += tokens
		cut = i
	}

	return history[cut:]
}
