package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pptgen/internal/pkg/errors"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// geminiProvider talks to the Gemini generateContent REST API directly.
// Google does not ship an OpenAI-compatible surface for this endpoint,
// so the request and response shapes are mapped by hand.
type geminiProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func newGemini(apiKey, model string) *geminiProvider {
	return &geminiProvider{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *geminiProvider) Name() string  { return ProviderGemini }
func (p *geminiProvider) Model() string { return p.model }

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (p *geminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     completionTemperature,
			MaxOutputTokens: completionMaxTokens,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "llm.complete", "failed to encode gemini request")
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, p.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "llm.complete", "failed to build gemini request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeProvider, "llm.complete",
			"gemini request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeProvider, "llm.complete",
			"failed to read gemini response")
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.Providerf(ProviderGemini,
			"gemini returned unparseable response (status %d)", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("gemini returned status %d", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", errors.Provider(ProviderGemini, msg).WithField("status", resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 {
		return "", errors.Provider(ProviderGemini, "no candidates returned")
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.Provider(ProviderGemini, "empty completion returned")
	}
	return text, nil
}
