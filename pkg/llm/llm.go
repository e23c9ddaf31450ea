package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by providers created without credentials.
var ErrNotConfigured = errors.New("llm provider is not configured")

// Roles of a chat transcript entry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one prior turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatModel is a minimal abstraction for chat-based LLMs used by the domain.
// It intentionally hides concrete providers to preserve dependency direction.
type ChatModel interface {
	Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Chat continues a conversation: history holds earlier turns, oldest first.
	Chat(ctx context.Context, systemPrompt string, history []Message, userPrompt string) (string, error)
}
