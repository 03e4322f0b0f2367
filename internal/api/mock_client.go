package api

import (
	"context"
	"sync"

	"github.com/diogo/supportchat/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	mu sync.Mutex

	// Mock return values
	AskReply   models.Reply
	AskErr     error
	AskFunc    func(ctx context.Context, question string) (models.Reply, error)
	StatusVal  *models.SessionStatus
	StatusErr  error
	BaseURLVal string

	// Call recorders
	Questions   []string
	StatusCalls int
	CloseCalled bool
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) Ask(ctx context.Context, question string) (models.Reply, error) {
	m.mu.Lock()
	m.Questions = append(m.Questions, question)
	fn := m.AskFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, question)
	}
	return m.AskReply, m.AskErr
}

func (m *MockClient) SessionStatus(ctx context.Context) (*models.SessionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusCalls++
	return m.StatusVal, m.StatusErr
}

func (m *MockClient) BaseURL() string {
	if m.BaseURLVal == "" {
		return "http://assistant.test"
	}
	return m.BaseURLVal
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
}

// AskCount returns how many questions were sent
func (m *MockClient) AskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Questions)
}
