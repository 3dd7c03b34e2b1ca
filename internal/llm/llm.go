// Package llm turns free-form text into structured slide content through a
// third-party completion API. Three providers are supported: Gemini, OpenAI,
// and AIPipe (an OpenAI-compatible proxy).
package llm

import (
	"context"
	"strings"
	"unicode"

	"pptgen/internal/pkg/errors"
)

// Slide types produced by the structuring prompt.
const (
	TypeTitle      = "title"
	TypeContent    = "content"
	TypeConclusion = "conclusion"
)

// Slide is one structured slide as returned by the model.
type Slide struct {
	Type     string   `json:"slide_type"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Content  []string `json:"content"`
}

// Provider is a minimal completion interface. Implementations return the raw
// model text for a prompt; parsing and validation happen above them.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider names accepted by the API.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderAIPipe = "aipipe"
)

// Default models per provider.
const (
	DefaultGeminiModel = "gemini-2.5-pro"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultAIPipeModel = "openai/gpt-4o-mini"
)

// ModelCatalog describes the models offered for one provider.
type ModelCatalog struct {
	Models  []string `json:"models"`
	Default string   `json:"default"`
}

// Catalog returns the advertised models per provider.
func Catalog() map[string]ModelCatalog {
	return map[string]ModelCatalog{
		ProviderGemini: {
			Models: []string{
				"gemini-2.5-pro",
				"gemini-1.5-pro",
				"gemini-1.5-flash",
				"gemini-1.0-pro",
				"gemini-1.5",
			},
			Default: DefaultGeminiModel,
		},
		ProviderOpenAI: {
			Models: []string{
				"gpt-4o-mini",
				"gpt-4o",
				"gpt-4-turbo",
				"gpt-3.5-turbo",
			},
			Default: DefaultOpenAIModel,
		},
		ProviderAIPipe: {
			Models: []string{
				"openai/gpt-4o-mini",
				"openai/gpt-4o",
				"anthropic/claude-3-5-sonnet",
				"google/gemini-2.0-flash-exp",
				"meta-llama/llama-3.1-70b-instruct",
			},
			Default: DefaultAIPipeModel,
		},
	}
}

// NewProvider builds a provider by name, applying the per-provider default
// model when model is empty.
func NewProvider(name, apiKey, model string) (Provider, error) {
	if !ValidAPIKey(apiKey) {
		return nil, errors.ValidationField("api_key", "API key is required")
	}

	switch name {
	case ProviderGemini:
		if model == "" {
			model = DefaultGeminiModel
		}
		return newGemini(apiKey, model), nil
	case ProviderOpenAI:
		if model == "" {
			model = DefaultOpenAIModel
		}
		return newOpenAI(apiKey, model), nil
	case ProviderAIPipe:
		if model == "" {
			model = DefaultAIPipeModel
		}
		return newAIPipe(apiKey, model), nil
	default:
		return nil, errors.ValidationField("ai_provider",
			"Invalid AI provider. Choose gemini, openai, or aipipe")
	}
}

// ValidAPIKey is a shape check only; the provider rejects bad keys for real.
func ValidAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	if len(key) < 10 {
		return false
	}
	for _, r := range key {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// GenerateSlides runs the structuring prompt through the provider and parses
// the result. A response that cannot be parsed even after repair falls back
// to naive sentence chunking of the model output.
func GenerateSlides(ctx context.Context, p Provider, text, guidance string, numSlides int) ([]Slide, error) {
	prompt := buildSlidesPrompt(text, guidance, numSlides)

	raw, err := p.Complete(ctx, prompt)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeProvider, "llm.generate",
			"failed to process text with "+p.Name())
	}

	slides, err := ParseSlides(raw)
	if err != nil {
		return FallbackSlides(raw), nil
	}
	return slides, nil
}
