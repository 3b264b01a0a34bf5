package narrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

// messageCreator is the subset of the Anthropic messages API used here.
type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...anthropicoption.RequestOption) (*anthropic.Message, error)
}

// AnthropicGenerator generates narration with the Anthropic Messages API.
type AnthropicGenerator struct {
	messages  messageCreator
	model     string
	maxTokens int64
}

// NewAnthropicGenerator creates a generator for the given model.
//
// Precondition: apiKey and model must be non-empty; maxTokens > 0.
func NewAnthropicGenerator(apiKey, model string, maxTokens int) *AnthropicGenerator {
	client := anthropic.NewClient(anthropicoption.WithAPIKey(apiKey))
	return &AnthropicGenerator{messages: &client.Messages, model: model, maxTokens: int64(maxTokens)}
}

// Generate sends story as the system prompt and question as the user turn.
func (g *AnthropicGenerator) Generate(ctx context.Context, story, question string) Result {
	msg, err := g.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: story}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(question)),
		},
	})
	if err != nil {
		return Failed(fmt.Errorf("anthropic messages: %w", err))
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return Failed(errors.New("anthropic returned no text content"))
	}
	return Result{Text: sb.String(), Success: true}
}
