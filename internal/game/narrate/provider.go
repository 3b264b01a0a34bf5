package narrate

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/whatif/internal/config"
)

// NewGenerator builds the Generator selected by cfg.Provider.
//
// Postcondition: Returns a Generator and a close function (never nil), or an error.
func NewGenerator(ctx context.Context, cfg config.NarratorConfig) (Generator, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Provider {
	case config.NarratorAnthropic:
		return NewAnthropicGenerator(cfg.APIKey, cfg.Model, cfg.MaxTokens), noop, nil
	case config.NarratorGemini:
		g, err := NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, cfg.MaxTokens)
		if err != nil {
			return nil, noop, err
		}
		return g, g.Close, nil
	case config.NarratorTemplate:
		return NewTemplateGenerator(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown narrator provider %q", cfg.Provider)
	}
}
