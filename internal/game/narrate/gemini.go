package narrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// contentGenerator is the subset of genai.GenerativeModel used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator generates narration with Google Gemini.
type GeminiGenerator struct {
	client *genai.Client
	model  contentGenerator
}

// NewGeminiGenerator creates a Gemini client for model.
//
// Postcondition: Returns a generator or a client construction error. Call
// Close when done.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, maxTokens int) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SetMaxOutputTokens(int32(maxTokens))
	return &GeminiGenerator{client: client, model: m}, nil
}

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Generate sends the story context followed by the question.
func (g *GeminiGenerator) Generate(ctx context.Context, story, question string) Result {
	resp, err := g.model.GenerateContent(ctx, genai.Text(story), genai.Text(question))
	if err != nil {
		return Failed(fmt.Errorf("gemini generate: %w", err))
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Failed(errors.New("no content returned from Gemini"))
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return Failed(errors.New("unexpected response type from Gemini"))
	}
	return Result{Text: sb.String(), Success: true}
}
