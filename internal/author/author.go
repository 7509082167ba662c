// Package author drafts strategy graphs from a prose description using Gemini.
package author

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"

	"github.com/grantmcd/prisoners-royale/internal/compiler"
	"github.com/grantmcd/prisoners-royale/internal/models"
)

//go:embed prompts/generate_strategy.txt
var generateStrategyPrompt string

const DefaultModel = "gemini-2.5-flash"

var promptTemplate = template.Must(template.New("generate_strategy").Parse(generateStrategyPrompt))

// Generator is the part of *genai.GenerativeModel the author needs.
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type Author struct {
	client *genai.Client
	model  Generator
}

func NewAuthor(ctx context.Context, apiKey string) (*Author, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Author{
		client: client,
		model:  client.GenerativeModel(DefaultModel),
	}, nil
}

// NewWithGenerator builds an Author around an existing model, e.g. a fake in tests.
func NewWithGenerator(g Generator) *Author {
	return &Author{model: g}
}

func (a *Author) Close() {
	if a.client != nil {
		a.client.Close()
	}
}

// Generate asks the model for a strategy matching description. The returned
// strategy is known to compile.
func (a *Author) Generate(ctx context.Context, description string) (*models.SavedStrategy, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, struct{ Description string }{Description: description}); err != nil {
		return nil, err
	}

	resp, err := a.model.GenerateContent(ctx, genai.Text(buf.String()))
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content returned from Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response type from Gemini")
	}

	cleanYAML := stripFences(string(text))
	var s models.SavedStrategy
	if err := yaml.Unmarshal([]byte(cleanYAML), &s); err != nil {
		return nil, fmt.Errorf("failed to parse strategy YAML: %w\nOutput was: %s", err, cleanYAML)
	}
	if !models.ValidName(s.Name) {
		s.Name = slug(s.Name)
	}
	if _, err := compiler.Compile(s.Name, s.Graph); err != nil {
		return nil, fmt.Errorf("generated graph does not compile: %w", err)
	}
	return &s, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```yaml")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// slug reduces an arbitrary name to a valid library key.
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "generated"
	}
	return b.String()
}
