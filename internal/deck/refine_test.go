package deck

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pptgen/internal/llm"
	"pptgen/internal/pkg/logger"
)

type scriptedProvider struct {
	calls     atomic.Int64
	responses []string
	err       error
}

func (s *scriptedProvider) Name() string  { return "scripted" }
func (s *scriptedProvider) Model() string { return "scripted-model" }
func (s *scriptedProvider) Complete(_ context.Context, _ string) (string, error) {
	n := s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	idx := int(n) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

func testLogger() *logger.Logger {
	return logger.NewDefault()
}

func TestRefineAll(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"title": "Refined Title", "content": ["Tight bullet one", "Tight bullet two"]}`,
	}}
	refiner := NewRefiner(provider, testLogger())

	mappings := []Mapping{{
		Slide: llm.Slide{Type: llm.TypeContent, Title: "Original", Content: []string{"long original content"}},
		Info:  contentSlideInfo(0, 1),
	}}

	out := refiner.RefineAll(context.Background(), mappings)
	require.Len(t, out, 1)
	assert.Equal(t, "Refined Title", out[0].Slide.Title)
	assert.Equal(t, []string{"Tight bullet one", "Tight bullet two"}, out[0].Slide.Content)
}

func TestRefineAllKeepsOriginalOnFailure(t *testing.T) {
	provider := &scriptedProvider{err: fmt.Errorf("upstream unavailable")}
	refiner := NewRefiner(provider, testLogger())

	original := Mapping{
		Slide: llm.Slide{Type: llm.TypeContent, Title: "Original", Content: []string{"keep me"}},
		Info:  contentSlideInfo(0, 1),
	}

	out := refiner.RefineAll(context.Background(), []Mapping{original})
	require.Len(t, out, 1)
	assert.Equal(t, "Original", out[0].Slide.Title)
	assert.Equal(t, []string{"keep me"}, out[0].Slide.Content)
	assert.Equal(t, int64(refineAttempts), provider.calls.Load())
}

func TestRefineAllRetriesUntilMarkersPresent(t *testing.T) {
	// Two content areas need a separator marker; the first response lacks one.
	provider := &scriptedProvider{responses: []string{
		`{"title": "T", "content": ["only one line"]}`,
		`{"title": "T", "content": ["area one", "[PLACEHOLDER_2]", "area two"]}`,
	}}
	refiner := NewRefiner(provider, testLogger())

	mappings := []Mapping{{
		Slide: llm.Slide{Type: llm.TypeContent, Title: "Original", Content: []string{"a", "b"}},
		Info:  contentSlideInfo(0, 2),
	}}

	out := refiner.RefineAll(context.Background(), mappings)
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Slide.Content, "[PLACEHOLDER_2]")
	assert.Equal(t, int64(2), provider.calls.Load())
}

func TestValidRefinedContent(t *testing.T) {
	single := Mapping{Info: contentSlideInfo(0, 1)}
	assert.True(t, validRefinedContent(single))

	multi := Mapping{Info: contentSlideInfo(0, 3)}
	multi.Slide.Content = []string{"a", "[PLACEHOLDER_2]", "b", "[PLACEHOLDER_3]", "c"}
	assert.True(t, validRefinedContent(multi))

	multi.Slide.Content = []string{"a", "b"}
	assert.False(t, validRefinedContent(multi))

	// Enough items to split even without markers.
	multi.Slide.Content = []string{"a", "b", "c"}
	assert.True(t, validRefinedContent(multi))

	multi.Slide.Content = nil
	assert.False(t, validRefinedContent(multi))
}

func TestBuildRefinePrompt(t *testing.T) {
	m := Mapping{
		Slide: llm.Slide{Title: "Sales", Subtitle: "FY25", Content: []string{"one", "two"}},
		Info:  contentSlideInfo(0, 2),
	}

	prompt := buildRefinePrompt(m)
	assert.Contains(t, prompt, "CONTENT PLACEHOLDERS: 2 separate text areas")
	assert.Contains(t, prompt, "[TEXT AREA 1]")
	assert.Contains(t, prompt, "[TEXT AREA 2]")
	assert.Contains(t, prompt, "Max chars per line: 60")
	assert.Contains(t, prompt, "- one")
	assert.Contains(t, prompt, `"[PLACEHOLDER_X]" markers`)
}
