// Package anthropic provides an assistant.Backend implementation using the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/itsonlyfabs/teamchat/core"
)

// Options configure the Anthropic backend (default model id, temperature,
// max tokens, API key). A participant's own Model setting takes precedence.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Backend wraps the Anthropic Messages API behind the generic
// assistant.Backend interface.
type Backend struct {
	client *anthropic.Client
	opts   Options
}

// NewBackend creates a new Anthropic backend using the official client.
func NewBackend(optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Backend{client: &client, opts: opts}
}

// NewBackendFromClient creates a new Anthropic backend from an existing client.
func NewBackendFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Backend{client: client, opts: opts}
}

// Name implements assistant.Backend.
func (b *Backend) Name() string { return "anthropic" }

// CreateReply implements assistant.Backend.
func (b *Backend) CreateReply(ctx context.Context, participant core.Participant, history []core.Turn, text string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       b.modelFor(participant),
		Messages:    b.buildMessages(participant, history, text),
		MaxTokens:   b.opts.MaxTokens,
		Temperature: anthropic.Float(b.opts.Temperature),
	}

	if participant.Instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: participant.Instructions}}
	}

	resp, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}

	return sb.String(), nil
}

func (b *Backend) modelFor(participant core.Participant) anthropic.Model {
	if participant.Model != "" {
		return anthropic.Model(participant.Model)
	}
	return b.opts.Model
}

// buildMessages converts prior turns into Anthropic messages. Team-summary
// turns and replies of other participants are omitted: each assistant sees
// the user turns plus its own prior replies.
func (b *Backend) buildMessages(participant core.Participant, history []core.Turn, text string) []anthropic.MessageParam {
	var messages []anthropic.MessageParam

	for _, turn := range history {
		switch turn.Role {
		case core.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
		case core.RoleAssistant:
			if turn.TeamSummary || turn.ParticipantID != participant.ID {
				continue
			}
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
		}
	}

	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
	return messages
}
