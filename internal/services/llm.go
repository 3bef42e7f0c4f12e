package services

import (
	"context"

	"github.com/tugruldev/lighthouse-quest/pkg/chat"
)

// LLMService is the interface to the hosted translation model.
type LLMService interface {
	// InitModel prepares the model on startup. Hosted providers usually
	// need nothing here.
	InitModel(ctx context.Context, modelName string) error

	// ChatCompletion sends a conversation and returns the raw text of the
	// model's reply. Callers own parsing and fallback.
	ChatCompletion(ctx context.Context, messages []chat.ChatMessage) (string, error)
}
