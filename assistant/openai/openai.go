// Package openai provides an assistant.Backend implementation using the
// OpenAI Chat Completions API. It adapts a participant's configuration
// (model, instructions) and the session's prior turns into the SDK's message
// format and extracts the reply text.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/itsonlyfabs/teamchat/core"
)

// Options configure the OpenAI backend. Model and MaxCompletionTokens are
// defaults; a participant's own Model setting takes precedence.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Backend wraps the OpenAI Chat Completions API behind the generic
// assistant.Backend interface.
type Backend struct {
	client *openai.Client
	opts   Options
}

// NewBackend creates a new OpenAI backend using the official client
// (API key from the environment).
func NewBackend(optFns ...func(o *Options)) *Backend {
	client := openai.NewClient()
	return NewBackendFromClient(&client, optFns...)
}

// NewBackendFromClient creates a new OpenAI backend from an existing client.
func NewBackendFromClient(client *openai.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

// Name implements assistant.Backend.
func (b *Backend) Name() string { return "openai" }

// CreateReply implements assistant.Backend using a non-streaming completion.
func (b *Backend) CreateReply(ctx context.Context, participant core.Participant, history []core.Turn, text string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            b.buildMessages(participant, history, text),
		Model:               b.modelFor(participant),
		Temperature:         openai.Float(b.opts.Temperature),
		MaxCompletionTokens: openai.Int(b.opts.MaxCompletionTokens),
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

func (b *Backend) modelFor(participant core.Participant) string {
	if participant.Model != "" {
		return participant.Model
	}
	return b.opts.Model
}

// buildMessages converts prior turns into OpenAI chat messages. Team-summary
// turns and replies of other participants are omitted: each assistant sees
// the user turns plus its own prior replies.
func (b *Backend) buildMessages(participant core.Participant, history []core.Turn, text string) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	if participant.Instructions != "" {
		messages = append(messages, openai.SystemMessage(participant.Instructions))
	}

	for _, turn := range history {
		switch turn.Role {
		case core.RoleUser:
			messages = append(messages, openai.UserMessage(turn.Content))
		case core.RoleAssistant:
			if turn.TeamSummary || turn.ParticipantID != participant.ID {
				continue
			}
			messages = append(messages, openai.AssistantMessage(turn.Content))
		}
	}

	messages = append(messages, openai.UserMessage(text))
	return messages
}
