package api

import (
	"context"
	"sync"

	"github.com/diogo/nearbychat/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	mu sync.Mutex

	// Mock return values
	Response    *models.AIResponse
	Err         error
	EndpointVal string
	// AskFunc, when set, takes precedence over Response and Err
	AskFunc func(ctx context.Context, req models.AIRequest) (*models.AIResponse, error)

	// Call recorders
	Requests []models.AIRequest
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) Ask(ctx context.Context, req models.AIRequest) (*models.AIResponse, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	fn := m.AskFunc
	resp, err := m.Response, m.Err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return resp, err
}

func (m *MockClient) Endpoint() string {
	if m.EndpointVal == "" {
		return models.DefaultEndpoint
	}
	return m.EndpointVal
}

// Calls returns the number of Ask invocations
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// LastRequest returns the most recent request, or false when none was made
func (m *MockClient) LastRequest() (models.AIRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return models.AIRequest{}, false
	}
	return m.Requests[len(m.Requests)-1], true
}
