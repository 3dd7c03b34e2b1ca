package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"pptgen/internal/pkg/errors"
)

// Validation clamps applied to every slide regardless of what the model
// returned.
const (
	maxTitleChars    = 100
	maxSubtitleChars = 150
	maxBullets       = 6
	maxBulletChars   = 200
)

// ParseSlides extracts and validates a slide array from raw model output.
// Markdown code fences are stripped; malformed JSON gets one repair attempt
// before the caller falls back to chunking.
func ParseSlides(raw string) ([]Slide, error) {
	text := StripFences(raw)

	var slides []Slide
	if err := json.Unmarshal([]byte(text), &slides); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return nil, errors.Wrap(err, "llm.parse", "model response is not valid JSON")
		}
		if err := json.Unmarshal([]byte(repaired), &slides); err != nil {
			return nil, errors.Wrap(err, "llm.parse", "model response is not valid JSON after repair")
		}
	}

	if len(slides) == 0 {
		return nil, errors.New(errors.CodeProvider, "model returned an empty slide list")
	}

	out := make([]Slide, 0, len(slides))
	for _, s := range slides {
		out = append(out, validateSlide(s))
	}
	return out, nil
}

// StripFences removes a surrounding markdown code block, if any.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[3:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// validateSlide clamps lengths and normalizes unknown slide types.
func validateSlide(s Slide) Slide {
	v := Slide{
		Type:     s.Type,
		Title:    clamp(s.Title, maxTitleChars),
		Subtitle: clamp(s.Subtitle, maxSubtitleChars),
		Content:  []string{},
	}

	switch v.Type {
	case TypeTitle, TypeContent, TypeConclusion:
	default:
		v.Type = TypeContent
	}

	for _, item := range s.Content {
		if len(v.Content) >= maxBullets {
			break
		}
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		v.Content = append(v.Content, clamp(item, maxBulletChars))
	}

	return v
}

func clamp(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max]
	}
	return s
}

// FallbackSlides builds a basic deck from raw text when JSON parsing fails:
// a title slide, up to ten content slides of three sentences each, and a
// conclusion slide.
func FallbackSlides(text string) []Slide {
	sentences := strings.Split(text, ". ")

	var chunks []string
	var current []string
	for _, sentence := range sentences {
		current = append(current, sentence)
		if len(current) >= 3 {
			chunks = append(chunks, strings.Join(current, ". "))
			current = nil
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, ". "))
	}

	slides := []Slide{{
		Type:     TypeTitle,
		Title:    "Generated Presentation",
		Subtitle: "Converted from your text content",
		Content:  []string{},
	}}

	for i, chunk := range chunks {
		if i >= 10 {
			break
		}
		slides = append(slides, Slide{
			Type:    TypeContent,
			Title:   fmt.Sprintf("Topic %d", i+1),
			Content: []string{clamp(chunk, maxBulletChars)},
		})
	}

	slides = append(slides, Slide{
		Type:     TypeConclusion,
		Title:    "Summary",
		Subtitle: "Thank you",
		Content:  []string{"Key points covered in this presentation"},
	})

	return slides
}
