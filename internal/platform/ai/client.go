// Package ai wraps the generative-text collaborator. The rest of the code
// depends only on the Generator interface so services can be tested with a
// fake.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/matricare/api/internal/platform/apperr"
)

// Message is a single chat turn. Role must be "system", "user", or
// "assistant".
type Message struct {
	Role    string
	Content string
}

// Generator produces text from a prompt or a chat history.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Options configure the OpenAI-backed client.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// Retries is the number of attempts after the first failure.
	Retries int
}

// Client is the OpenAI-backed Generator. Every call gets a deadline and a
// bounded number of retries with linear backoff; this is the only
// collaborator the platform retries.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	retries int
}

func NewClient(opts Options) *Client {
	model := opts.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		api:     openai.NewClient(opts.APIKey),
		model:   model,
		timeout: timeout,
		retries: retries,
	}
}

// Generate sends a single-prompt completion request.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []Message{{Role: openai.ChatMessageRoleUser, Content: prompt}})
}

// Chat sends a full message history and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role != openai.ChatMessageRoleSystem && role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleUser
		}
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", apperr.ErrCollaborator, ctx.Err())
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    oaMsgs,
			Temperature: 0.2,
		})
		cancel()

		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("%w: empty completion", apperr.ErrCollaborator)
			}
			return resp.Choices[0].Message.Content, nil
		}
		lastErr = err

		// The parent context being done means the client went away; the
		// per-call deadline expiring is worth another attempt.
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			break
		}
	}

	return "", fmt.Errorf("%w: %v", apperr.ErrCollaborator, lastErr)
}
