package services

import (
	"context"
)

// ChatMessageRole defines the role of the message sender (system, user, assistant).
type ChatMessageRole string

const (
	ChatMessageRoleSystem    ChatMessageRole = "system"
	ChatMessageRoleUser      ChatMessageRole = "user"
	ChatMessageRoleAssistant ChatMessageRole = "assistant" // Or "model" for Gemini
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    ChatMessageRole
	Content string
}

// CompletionOptions are the sampling parameters for one call. They are always
// supplied by the caller; providers apply no defaults of their own.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float32
}

// TokenUsage is the token accounting reported by the provider, if any.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the provider's answer: the first choice's text with leading
// and trailing whitespace removed.
type Completion struct {
	Text  string
	Usage TokenUsage
}

// CompletionService defines the interface for generating chat responses.
// Implementations make exactly one outbound request per call and never retry.
type CompletionService interface {
	GenerateChatCompletion(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (Completion, error)
	Status() ProviderStatus
	Name() string      // Provider name (e.g., "azure", "gemini")
	ModelName() string // Specific model or deployment used
}
