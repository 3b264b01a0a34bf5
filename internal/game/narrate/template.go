package narrate

import (
	"bytes"
	"context"
	"hash/fnv"
	"strings"
	"text/template"
)

var fallbackScenarios = []*template.Template{
	template.Must(template.New("0").Parse(`Вы пытаетесь {{.}}, но в этом доме любое лишнее движение звучит слишком громко. Лучше не рисковать.`)),
	template.Must(template.New("1").Parse(`«{{.}}»: мысль кажется удачной ровно секунду. Потом где-то внизу скрипит половица, и вы замираете.`)),
	template.Must(template.New("2").Parse(`Вы собираетесь {{.}}, но руки дрожат. Ничего не выходит.`)),
	template.Must(template.New("3").Parse(`Что, если {{.}}? Дом молчит в ответ. Кажется, это ничего не изменило.`)),
}

// TemplateGenerator is the offline generator. It picks a canned scenario
// deterministically from the question text.
type TemplateGenerator struct{}

// NewTemplateGenerator returns the offline generator.
func NewTemplateGenerator() TemplateGenerator {
	return TemplateGenerator{}
}

// Generate renders a canned scenario around the player's action.
func (TemplateGenerator) Generate(ctx context.Context, _ string, question string) Result {
	if err := ctx.Err(); err != nil {
		return Failed(err)
	}
	action := actionFromQuestion(question)
	h := fnv.New32a()
	_, _ = h.Write([]byte(action))
	tmpl := fallbackScenarios[h.Sum32()%uint32(len(fallbackScenarios))]

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, action); err != nil {
		return Failed(err)
	}
	return Result{Text: buf.String(), Success: true}
}

// actionFromQuestion extracts the quoted action from a rendered question,
// or returns the question unchanged.
func actionFromQuestion(q string) string {
	start := strings.Index(q, "«")
	end := strings.Index(q, "»")
	if start < 0 || end <= start {
		return q
	}
	return q[start+len("«") : end]
}
