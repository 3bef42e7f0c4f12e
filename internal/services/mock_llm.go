package services

import (
	"context"
	"sync"

	"github.com/tugruldev/lighthouse-quest/pkg/chat"
)

// MockLLMAPI is a mock implementation of LLMService for testing.
type MockLLMAPI struct {
	InitModelFunc      func(ctx context.Context, modelName string) error
	ChatCompletionFunc func(ctx context.Context, messages []chat.ChatMessage) (string, error)

	// Track calls for testing
	InitModelCalls      []string
	ChatCompletionCalls []ChatCompletionCall

	mu sync.Mutex // protects all fields above
}

type ChatCompletionCall struct {
	Messages []chat.ChatMessage
}

// NewMockLLMAPI creates a new mock LLM service.
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{
		InitModelCalls:      make([]string, 0),
		ChatCompletionCalls: make([]ChatCompletionCall, 0),
	}
}

func (m *MockLLMAPI) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)

	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

func (m *MockLLMAPI) ChatCompletion(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	m.mu.Lock()
	m.ChatCompletionCalls = append(m.ChatCompletionCalls, ChatCompletionCall{Messages: messages})
	fn := m.ChatCompletionFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	return `{"command":"look","narration":"Nothing happens."}`, nil
}

// CallCount returns how many completions have been requested.
func (m *MockLLMAPI) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ChatCompletionCalls)
}

// LastCall returns the most recent completion request, or nil.
func (m *MockLLMAPI) LastCall() *ChatCompletionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ChatCompletionCalls) == 0 {
		return nil
	}
	call := m.ChatCompletionCalls[len(m.ChatCompletionCalls)-1]
	return &call
}
