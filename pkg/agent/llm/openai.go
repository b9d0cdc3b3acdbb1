package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sameehj/junior/pkg/agent"
	"github.com/sameehj/junior/pkg/version"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-4o-mini"
	defaultTimeout  = 90 * time.Second
	maxErrorBody    = 4 << 10
)

var ErrMissingAPIKey = errors.New("missing api key (set JUNIOR_API_KEY or OPENAI_API_KEY)")

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

type ClientOption func(*OpenAIClient)

func WithEndpoint(endpoint string) ClientOption {
	return func(c *OpenAIClient) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *OpenAIClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *OpenAIClient) {
		if h != nil {
			c.http = h
		}
	}
}

func WithLogger(l *zap.Logger) ClientOption {
	return func(c *OpenAIClient) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewOpenAIClient(apiKey, model string, opts ...ClientOption) *OpenAIClient {
	if model == "" {
		model = defaultModel
	}
	c := &OpenAIClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: DefaultEndpoint,
		http:     &http.Client{Timeout: defaultTimeout},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model reports the model name sent with each request.
func (c *OpenAIClient) Model() string { return c.model }

func (c *OpenAIClient) Complete(ctx context.Context, req agent.CompletionRequest) (*agent.CompletionResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	msgs := make([]openAIMessage, 0, len(req.Messages)+1)
	if req.Prompt != "" {
		msgs = append(msgs, openAIMessage{Role: "system", Content: req.Prompt})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, openAIMessage{Role: normalizeRole(m.Role), Content: m.Content})
	}
	payload := openAIRequest{
		Model:    c.model,
		Messages: msgs,
		Stream:   false,
	}
	if req.MaxTokens > 0 {
		payload.MaxTokens = req.MaxTokens
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("User-Agent", version.UserAgent())

	c.logger.Debug("sending completion request",
		zap.String("endpoint", c.endpoint),
		zap.String("model", c.model),
		zap.Int("messages", len(msgs)),
	)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("completion error: empty response")
	}
	choice := out.Choices[0]
	model := out.Model
	if model == "" {
		model = c.model
	}
	return &agent.CompletionResponse{
		Content:    choice.Message.Content,
		Model:      model,
		StopReason: choice.FinishReason,
	}, nil
}

// StatusError is returned for non-2xx replies.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion error: %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	Stream    bool            `json:"stream"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Model   string         `json:"model"`
	Choices []openAIChoice `json:"choices"`
}

type openAIChoice struct {
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

func normalizeRole(role string) string {
	switch role {
	case "user", "assistant", "system":
		return role
	default:
		return "user"
	}
}
