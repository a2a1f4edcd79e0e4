package llm

import (
	"context"
	"sync"
)

// MockResponse is a canned response for the MockClient.
type MockResponse struct {
	Text string
	Err  error
}

// MockClient is a deterministic Client for testing. It returns canned
// responses in FIFO order and records every prompt it receives.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	Prompts   []string
}

// NewMockClient creates a MockClient with the given canned responses.
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

// Complete returns the next canned response, or ErrUnavailable when
// the queue is empty.
func (m *MockClient) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if len(m.responses) == 0 {
		return "", &ErrUnavailable{}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Text, nil
}

// ModelID returns "mock".
func (m *MockClient) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockClient) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Complete calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// devCompletion parses as a numbered sentence list and, starting with
// "1", reads as an affirmative judgment, so every operation works end
// to end without a real provider.
const devCompletion = `1. The weather is nice today.
2. She reads a book every evening.
3. We walked to the station together.
4. He asked a question about the lesson.
5. They are planning a trip next week.`

// DevClient answers every prompt with the same canned text. It backs
// the "mock" provider so the server can run without an API key; unlike
// MockClient it never runs out of responses.
type DevClient struct{}

// NewDevClient creates a DevClient.
func NewDevClient() *DevClient {
	return &DevClient{}
}

func (d *DevClient) Complete(_ context.Context, _ string) (string, error) {
	return devCompletion, nil
}

// ModelID returns "mock".
func (d *DevClient) ModelID() string {
	return "mock"
}
