// Package openrouter provides a client for the OpenRouter chat-completions API.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodwalk/moodwalk/internal/llm"
	"github.com/moodwalk/moodwalk/internal/provider/resilience"
)

const (
	// ProviderName identifies this completion provider.
	ProviderName = "openrouter"

	// DefaultBaseURL is the OpenRouter API base URL.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultModel is the completion model used when none is configured.
	DefaultModel = "openai/gpt-4o-mini"

	// DefaultTimeout bounds a single completion call.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxTokens bounds the completion length when none is requested.
	DefaultMaxTokens = 1500
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OpenRouter client.
type ClientConfig struct {
	// APIKey is the OpenRouter API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to OpenRouter).
	BaseURL string

	// Model is the default completion model (optional).
	Model string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a circuit-broken client without retries: the route
	// generation contract allows exactly one completion call per request.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 30s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenRouter chat-completions client.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OpenRouter client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.SingleAttemptConfig(ProviderName, timeout))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// chatRequest is the OpenRouter request payload.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Stream         bool            `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse is the OpenRouter response payload.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCompletion performs a single chat-completion call.
// The call is never retried: failures are reported to the caller as-is.
func (c *Client) CreateCompletion(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	messages := make([]chatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	payload := chatRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
		Stream:    false,
	}
	if req.JSONOnly {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("model", model).
		Int("max_tokens", maxTokens).
		Bool("json_only", req.JSONOnly).
		Msg("requesting completion from OpenRouter")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &llm.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach completion provider",
			Err:      llm.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return nil, &llm.Error{
			Provider: ProviderName,
			Code:     "EMPTY_COMPLETION",
			Message:  "provider returned no completion content",
			Err:      llm.ErrEmptyCompletion,
		}
	}

	c.logger.Debug().
		Str("model", chatResp.Model).
		Int("content_bytes", len(chatResp.Choices[0].Message.Content)).
		Msg("received completion from OpenRouter")

	return &llm.CompletionResponse{
		Content:   chatResp.Choices[0].Message.Content,
		Model:     chatResp.Model,
		FetchedAt: time.Now(),
	}, nil
}

// handleErrorResponse maps OpenRouter error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	message := fmt.Sprintf("completion provider returned status %d", statusCode)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return &llm.Error{
			Provider: ProviderName,
			Code:     "UNAUTHORIZED",
			Message:  message,
			Err:      llm.ErrUnauthorized,
		}
	case http.StatusPaymentRequired:
		return &llm.Error{
			Provider: ProviderName,
			Code:     "QUOTA_EXCEEDED",
			Message:  message,
			Err:      llm.ErrQuotaExceeded,
		}
	case http.StatusTooManyRequests:
		return &llm.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  message,
			Err:      llm.ErrRateLimited,
		}
	default:
		code := fmt.Sprintf("HTTP_%d", statusCode)
		if statusCode >= 500 {
			code = fmt.Sprintf("SERVER_%d", statusCode)
		}
		return &llm.Error{
			Provider: ProviderName,
			Code:     code,
			Message:  message,
			Err:      llm.ErrProviderUnavailable,
		}
	}
}
