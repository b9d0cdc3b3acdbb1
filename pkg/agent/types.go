package agent

import "context"

// LLMClient turns one prompt into the model's raw reply text.
type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

type CompletionRequest struct {
	Prompt    string
	Messages  []CompletionMessage
	MaxTokens int
}

type CompletionMessage struct {
	Role    string
	Content string
}

type CompletionResponse struct {
	Content    string
	Model      string
	StopReason string
}
