package ai

import (
	"context"
	"sync"
)

// Mock is a scripted generator for tests. It cycles through its responses
// and records every request it receives.
type Mock struct {
	mu        sync.Mutex
	Responses []string
	Errs      []error
	Requests  []Request
	calls     int
}

// Generate returns the next scripted response or error.
func (m *Mock) Generate(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	idx := m.calls
	m.calls++

	if len(m.Errs) > 0 && m.Errs[idx%len(m.Errs)] != nil {
		return "", m.Errs[idx%len(m.Errs)]
	}
	if len(m.Responses) == 0 {
		return "mock response", nil
	}
	return m.Responses[idx%len(m.Responses)], nil
}

// Calls returns the number of Generate invocations.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
