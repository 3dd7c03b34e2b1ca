package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"pptgen/internal/pkg/errors"
)

const aipipeBaseURL = "https://aipipe.org/openrouter/v1"

const (
	completionMaxTokens   = 4000
	completionTemperature = 0.7
)

// openaiProvider serves both the native OpenAI API and AIPipe, which
// exposes an OpenAI-compatible surface behind a different base URL.
type openaiProvider struct {
	name   string
	client openai.Client
	model  string
}

func newOpenAI(apiKey, model string) *openaiProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiProvider{name: ProviderOpenAI, client: client, model: model}
}

func newAIPipe(apiKey, model string) *openaiProvider {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(aipipeBaseURL),
	)
	return &openaiProvider{name: ProviderAIPipe, client: client, model: model}
}

func (p *openaiProvider) Name() string  { return p.name }
func (p *openaiProvider) Model() string { return p.model }

func (p *openaiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(completionMaxTokens),
		Temperature: openai.Float(completionTemperature),
	})
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeProvider, "llm.complete",
			p.name+" request failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.Provider(p.name, "no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
