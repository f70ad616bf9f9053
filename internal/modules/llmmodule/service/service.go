// Package service implements the natural-language query adapter: it builds
// a schema-and-sample prompt, forwards the user's question to a
// chat-completion API and returns the completion text verbatim.
package service

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"

	"github.com/whoniverse/archive/internal/config"
	apierrors "github.com/whoniverse/archive/internal/errors"
)

// CompletionClient is the slice of the chat-completion API the adapter
// uses. Satisfied by *openai.Client; tests substitute a fake.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// QueryResult carries the completion alongside the original question
type QueryResult struct {
	Query    string `json:"query"`
	Response string `json:"response"`
	Model    string `json:"model"`
}

// Service is the natural-language query adapter
type Service struct {
	db     *gorm.DB
	client CompletionClient
	cfg    config.LLMConfig
}

// NewService builds the adapter. With no API key configured the client
// stays nil and every query is refused with a not-configured error.
func NewService(db *gorm.DB, cfg config.LLMConfig) *Service {
	s := &Service{db: db, cfg: cfg}
	if cfg.APIKey != "" {
		s.client = openai.NewClient(cfg.APIKey)
	}
	return s
}

// NewServiceWithClient builds the adapter around an explicit client. Used
// by tests.
func NewServiceWithClient(db *gorm.DB, cfg config.LLMConfig, client CompletionClient) *Service {
	return &Service{db: db, client: client, cfg: cfg}
}

// Configured reports whether an API credential is available
func (s *Service) Configured() bool {
	return s.client != nil
}

// Query forwards the user's question to the completion API with the schema
// prompt attached and returns the completion text verbatim.
func (s *Service) Query(ctx context.Context, question string) (*QueryResult, error) {
	if s.client == nil {
		return nil, apierrors.NewNotConfiguredError("natural-language querying",
			"set LLM_API_KEY to enable it")
	}

	prompt, err := buildPrompt(ctx, s.db)
	if err != nil {
		return nil, apierrors.NewDatabaseError("build schema prompt", err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: float32(s.cfg.Temperature),
		MaxTokens:   s.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return nil, translateUpstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apierrors.NewUpstreamError("completion API",
			errors.New("response contained no choices"))
	}

	return &QueryResult{
		Query:    question,
		Response: resp.Choices[0].Message.Content,
		Model:    s.cfg.Model,
	}, nil
}

// translateUpstreamError maps completion API failures onto actionable
// errors: quota exhaustion and rejected credentials get distinct messages.
func translateUpstreamError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return apierrors.NewUpstreamQuotaError("completion API", err)
		case http.StatusUnauthorized:
			return apierrors.NewUpstreamAuthError("completion API", err)
		}
	}
	return apierrors.NewUpstreamError("completion API", err)
}
