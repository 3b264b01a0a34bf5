// Package narrate wraps the external scenario generation service used for
// free-form player actions.
package narrate

import (
	"bytes"
	"context"
	"embed"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"
)

//go:embed prompts/*.tmpl
var prompts embed.FS

var promptTemplates = template.Must(
	template.New("prompts").Funcs(template.FuncMap{"join": strings.Join}).ParseFS(prompts, "prompts/*.tmpl"),
)

// Result is the outcome of one generation call.
//
// Invariant: Success is true iff Text holds usable output; Error is set otherwise.
type Result struct {
	Text    string
	Success bool
	Error   string
}

// Failed builds an unsuccessful Result.
func Failed(err error) Result {
	return Result{Error: err.Error()}
}

// Generator produces scenario text for a story context and a question.
//
// Implementations MUST NOT panic; failures are reported through Result.
type Generator interface {
	Generate(ctx context.Context, story, question string) Result
}

// FreeAction is the context handed to the narrator for an unrecognised verb.
type FreeAction struct {
	Location            string
	LocationDescription string
	Inventory           []string
	IsDaytime           bool
	Action              string
}

// Narrator turns free actions into one line of in-character text.
type Narrator struct {
	gen     Generator
	timeout time.Duration
	logger  *zap.Logger
}

// NewNarrator creates a Narrator calling gen with a per-call timeout.
//
// Precondition: gen and logger must be non-nil; timeout > 0.
func NewNarrator(gen Generator, timeout time.Duration, logger *zap.Logger) *Narrator {
	return &Narrator{gen: gen, timeout: timeout, logger: logger}
}

// Narrate asks the generator about fa.
//
// Postcondition: Returns (text, true) on success, or ("", false) when the
// call failed, timed out or returned no text. The caller supplies the fallback.
func (n *Narrator) Narrate(ctx context.Context, fa FreeAction) (string, bool) {
	story, question, err := Prompts(fa)
	if err != nil {
		n.logger.Error("rendering narration prompt", zap.Error(err))
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	start := time.Now()
	res := n.gen.Generate(ctx, story, question)
	text := strings.TrimSpace(res.Text)
	if !res.Success || text == "" {
		n.logger.Warn("narration failed",
			zap.String("location", fa.Location),
			zap.String("action", fa.Action),
			zap.String("error", res.Error),
			zap.Duration("elapsed", time.Since(start)),
		)
		return "", false
	}
	n.logger.Debug("narration generated",
		zap.String("location", fa.Location),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text, true
}

// Prompts renders the story context and question for fa.
func Prompts(fa FreeAction) (story, question string, err error) {
	var sb, qb bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&sb, "story.tmpl", fa); err != nil {
		return "", "", err
	}
	if err := promptTemplates.ExecuteTemplate(&qb, "question.tmpl", fa); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(sb.String()), strings.TrimSpace(qb.String()), nil
}
