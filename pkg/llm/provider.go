// Package llm provides the abstraction over chat-completion providers.
//
// Providers handle API communication and nothing else; conversation state,
// memory injection, and transcript logging belong to the caller. This keeps
// providers reusable for both the interactive chat loop and the session-end
// summarization call.
package llm

import "context"

// Message is a single chat message exchanged with a provider.
type Message struct {
	Role    string
	Content string
}

// NewSystemMessage creates a system-role message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: "system", Content: content}
}

// NewUserMessage creates a user-role message.
func NewUserMessage(content string) *Message {
	return &Message{Role: "user", Content: content}
}

// NewAssistantMessage creates an assistant-role message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: "assistant", Content: content}
}

// Provider defines the interface for chat-completion integrations.
//
// Complete blocks until the full response is available or ctx is done. The
// caller owns any timeout or retry policy; providers apply neither.
type Provider interface {
	Complete(ctx context.Context, messages []*Message) (*Message, error)

	// GetModel returns the model name requests are sent to.
	GetModel() string
}
