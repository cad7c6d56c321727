// Package llm defines the chat-completion contract used for route generation.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Message roles understood by chat-completion providers.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single chat message sent to the completion service.
type Message struct {
	Role    string
	Content string
}

// CompletionRequest describes a single chat-completion call.
type CompletionRequest struct {
	// Model is the provider model identifier. Empty uses the client default.
	Model string

	// Messages is the ordered conversation sent to the model.
	Messages []Message

	// JSONOnly requests a JSON-object response format from the provider.
	JSONOnly bool

	// MaxTokens bounds the completion length. Zero uses the client default.
	MaxTokens int
}

// CompletionResponse is the raw completion returned by the provider.
// Content is untrusted free-form text; callers are responsible for parsing.
type CompletionResponse struct {
	Content   string
	Model     string
	FetchedAt time.Time
}

// Client is implemented by chat-completion providers.
type Client interface {
	CreateCompletion(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Provider failure sentinels, matched with errors.Is.
var (
	// ErrUnauthorized indicates a rejected or missing API key.
	ErrUnauthorized = errors.New("completion provider rejected credentials")

	// ErrQuotaExceeded indicates the account has no remaining credits.
	ErrQuotaExceeded = errors.New("completion provider quota exhausted")

	// ErrRateLimited indicates the provider is throttling requests.
	ErrRateLimited = errors.New("completion provider rate limit exceeded")

	// ErrProviderUnavailable indicates a network failure or 5xx response.
	ErrProviderUnavailable = errors.New("completion provider unavailable")

	// ErrEmptyCompletion indicates the provider returned no content.
	ErrEmptyCompletion = errors.New("completion provider returned no content")
)

// Error is a provider-tagged completion failure wrapping one of the
// sentinels above.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}
