// Package llm wraps the generative fallback used for general chit-chat
// turns. Pricing, booking, and escalation replies never come from here;
// the deterministic engine owns those.
package llm

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn of model context.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type Request struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
}

type Response struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// Client produces a completion for a prepared request.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
