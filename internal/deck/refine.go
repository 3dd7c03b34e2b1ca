package deck

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"golang.org/x/sync/errgroup"

	"pptgen/internal/llm"
	"pptgen/internal/pkg/logger"
)

const (
	refineWorkers  = 5
	refineAttempts = 3
)

// Refiner rewrites slide content so it fits the capacities of the template
// slide each mapping targets. Slides are refined concurrently; a slide whose
// refinement keeps failing keeps its original content.
type Refiner struct {
	provider llm.Provider
	log      *logger.Logger
}

func NewRefiner(provider llm.Provider, log *logger.Logger) *Refiner {
	return &Refiner{provider: provider, log: log}
}

// RefineAll refines every mapping in place and returns the updated set.
func (r *Refiner) RefineAll(ctx context.Context, mappings []Mapping) []Mapping {
	out := make([]Mapping, len(mappings))
	copy(out, mappings)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refineWorkers)

	for i := range out {
		g.Go(func() error {
			refined, err := r.refineWithRetry(gctx, out[i])
			if err != nil {
				r.log.Warn("slide refinement failed, keeping original content",
					"template_index", out[i].TemplateIndex, "error", err)
				return nil
			}
			out[i] = refined
			return nil
		})
	}

	// Workers never return errors, so this cannot fail.
	_ = g.Wait()
	return out
}

func (r *Refiner) refineWithRetry(ctx context.Context, m Mapping) (Mapping, error) {
	var lastErr error
	for attempt := 1; attempt <= refineAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return m, err
		}
		refined, err := r.refineOne(ctx, m)
		if err != nil {
			lastErr = err
			continue
		}
		if validRefinedContent(refined) {
			return refined, nil
		}
		lastErr = fmt.Errorf("refined content is missing area markers")
	}
	return m, lastErr
}

func (r *Refiner) refineOne(ctx context.Context, m Mapping) (Mapping, error) {
	prompt := buildRefinePrompt(m)

	raw, err := r.provider.Complete(ctx, prompt)
	if err != nil {
		return m, err
	}

	text := llm.StripFences(raw)
	var refined struct {
		Title    string   `json:"title"`
		Subtitle string   `json:"subtitle"`
		Content  []string `json:"content"`
	}
	if err := json.Unmarshal([]byte(text), &refined); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return m, fmt.Errorf("parse refined slide: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &refined); err != nil {
			return m, fmt.Errorf("parse refined slide after repair: %w", err)
		}
	}

	if refined.Title != "" {
		m.Slide.Title = refined.Title
	}
	if refined.Subtitle != "" {
		m.Slide.Subtitle = refined.Subtitle
	}
	if len(refined.Content) > 0 {
		m.Slide.Content = refined.Content
	}
	return m, nil
}

// validRefinedContent checks that content aimed at a multi-area slide carries
// enough separator markers, or at least enough items to split.
func validRefinedContent(m Mapping) bool {
	areas := contentPlaceholderInfos(m.Info.Placeholders)
	if len(areas) <= 1 {
		return true
	}
	if len(m.Slide.Content) == 0 {
		return false
	}

	markers := 0
	for _, it := range m.Slide.Content {
		if strings.Contains(strings.ToUpper(it), "[PLACEHOLDER") {
			markers++
		}
	}
	if markers >= len(areas)-1 {
		return true
	}
	return markers > 0 || len(m.Slide.Content) >= len(areas)
}

func buildRefinePrompt(m Mapping) string {
	areas := contentPlaceholderInfos(m.Info.Placeholders)

	var b strings.Builder
	b.WriteString("You are reformatting presentation content to fit exact template requirements.\n\n")
	fmt.Fprintf(&b, "CURRENT SLIDE CONTENT:\n- Title: %s\n- Subtitle: %s\n- Content items: %d\n\n",
		m.Slide.Title, m.Slide.Subtitle, len(m.Slide.Content))
	b.WriteString("TEMPLATE REQUIREMENTS:\n")

	for _, ph := range m.Info.Placeholders {
		if isTitleType(ph.Type) && m.Info.HasTitle {
			fmt.Fprintf(&b, "- Title: Maximum %d characters\n", orDefault(ph.MaxCharsPerLine, 60))
			break
		}
	}
	for _, ph := range m.Info.Placeholders {
		if isSubtitleType(ph.Type) && m.Info.HasSubtitle {
			fmt.Fprintf(&b, "- Subtitle: Maximum %d characters\n", orDefault(ph.MaxCharsPerLine, 100))
			break
		}
	}

	if len(areas) > 0 {
		fmt.Fprintf(&b, "\nCONTENT PLACEHOLDERS: %d separate text areas\n", len(areas))
		for i, ph := range areas {
			format := ph.TextFormat
			if format == "" {
				format = FormatBulletList
			}
			fmt.Fprintf(&b, "\n[TEXT AREA %d]:\n", i+1)
			fmt.Fprintf(&b, "- Format: %s\n", format)
			fmt.Fprintf(&b, "- Capacity: %d lines\n", orDefault(ph.SuggestedLines, 5))
			fmt.Fprintf(&b, "- Max chars per line: %d\n", orDefault(ph.MaxCharsPerLine, 80))
		}
	}

	if len(m.Slide.Content) > 0 {
		b.WriteString("\n\nCURRENT CONTENT TO REFORMAT:\n")
		for _, it := range m.Slide.Content {
			fmt.Fprintf(&b, "- %s\n", it)
		}
	}

	fmt.Fprintf(&b, `

YOUR TASK:
1. Rewrite the content to fit EXACTLY within the template requirements
2. CRITICAL: You MUST generate content for ALL %d text areas
3. Each text area MUST have at least 1-2 items of content
4. Use the format specified for each placeholder (numbered, bullets, paragraph)
5. Ensure each line fits within character limits
6. For multiple text areas, use "[PLACEHOLDER_X]" markers to separate content

ABSOLUTE REQUIREMENT: Generate content for ALL %d text areas!
If you have limited source content, creatively expand it to fill all areas.
Each area should have relevant, meaningful content.

For multiple text areas, structure like:
{
  "title": "Short title here",
  "subtitle": "Brief subtitle if needed",
  "content": [
    "Content for text area 1 - line 1",
    "Content for text area 1 - line 2",
    "[PLACEHOLDER_2]",
    "Content for text area 2 - line 1",
    "Content for text area 2 - line 2",
    "[PLACEHOLDER_3]",
    "Content for text area 3 - line 1"
  ]
}

For single text area:
{
  "title": "Short title here",
  "subtitle": "Brief subtitle if needed",
  "content": [
    "Bullet point 1",
    "Bullet point 2",
    "Bullet point 3"
  ]
}

Return ONLY the JSON object, no other text.`, len(areas), len(areas))

	var hasNumbered, hasParagraph bool
	for _, ph := range areas {
		switch ph.TextFormat {
		case FormatNumberedList:
			hasNumbered = true
		case FormatParagraph:
			hasParagraph = true
		}
	}
	if hasNumbered {
		b.WriteString("\n\nFor numbered lists, start each item with '1. ', '2. ', etc.")
	}
	if hasParagraph {
		b.WriteString("\n\nFor paragraph format, write flowing text without bullet points.")
	}

	return b.String()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
