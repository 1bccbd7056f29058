package llm

import (
	"context"
	"strings"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is an internal message representation that can include system prompts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes a single completion call.
type Request struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Response carries the completion text and the provider's stop reason.
type Response struct {
	Text       string
	StopReason string
}

// Client abstracts the hosted completion providers.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// StripFences removes markdown code-fence wrappers models habitually add
// around JSON payloads despite being told not to.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
