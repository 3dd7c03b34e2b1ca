package deck

import (
	"context"

	gopresentation "github.com/VantageDataChat/GoPPT"

	"pptgen/internal/llm"
	"pptgen/internal/pkg/errors"
	"pptgen/internal/pkg/logger"
)

// Result summarizes one completed generation run.
type Result struct {
	Slides     []llm.Slide
	SlideCount int
	MultiArea  bool
}

// Pipeline drives the whole generation flow: analyze the template, structure
// the text through the model, fit the content to the template, and save the
// finished deck.
type Pipeline struct {
	provider llm.Provider
	log      *logger.Logger
}

func NewPipeline(provider llm.Provider, log *logger.Logger) *Pipeline {
	return &Pipeline{provider: provider, log: log}
}

// Generate reads the template at templatePath, generates slides from text,
// and writes the result to outputPath. numSlides of 0 lets the model choose
// the slide count.
func (p *Pipeline) Generate(ctx context.Context, templatePath, outputPath, text, guidance string, numSlides int) (*Result, error) {
	pres, err := gopresentation.Open(templatePath)
	if err != nil {
		return nil, errors.Wrap(err, "deck.generate", "failed to open template")
	}
	defer func() { _ = pres.Close() }()

	info := Analyze(pres)
	p.log.Info("template analyzed",
		"slides", info.SlideCount,
		"layouts", info.LayoutCount,
		"max_content_areas", info.MaxContentAreas)

	slides, err := llm.GenerateSlides(ctx, p.provider, text, guidance, numSlides)
	if err != nil {
		return nil, err
	}
	slides = ensureTitleFirst(slides)

	multiArea := info.NeedsMultiArea()
	if multiArea {
		p.log.Info("template has multiple content areas, filling existing slides",
			"areas", info.MaxContentAreas)
		if err := p.fillTemplateSlides(ctx, pres, info, slides); err != nil {
			p.log.Warn("multi-area fill failed, rebuilding slides from layouts", "error", err)
			multiArea = false
		}
	}
	if !multiArea {
		gen := NewGenerator(pres, info)
		if err := gen.Build(slides); err != nil {
			return nil, errors.Wrap(err, "deck.generate", "failed to build slides")
		}
	}

	if err := pres.Save(outputPath); err != nil {
		return nil, errors.Wrap(err, "deck.generate", "failed to save presentation")
	}

	return &Result{
		Slides:     slides,
		SlideCount: pres.GetSlideCount(),
		MultiArea:  multiArea,
	}, nil
}

// fillTemplateSlides maps generated content onto the template's own slides,
// refines it to fit each slide's text areas, and drops the template slides
// that received no content.
func (p *Pipeline) fillTemplateSlides(ctx context.Context, pres *gopresentation.Presentation, info *TemplateInfo, slides []llm.Slide) error {
	mappings := MapToTemplate(slides, info)
	if len(mappings) == 0 {
		return errors.New(errors.CodeInternal, "no slides could be mapped to the template")
	}

	refiner := NewRefiner(p.provider, p.log)
	mappings = refiner.RefineAll(ctx, mappings)

	used := map[int]bool{}
	existing := pres.GetAllSlides()
	for _, m := range mappings {
		if m.TemplateIndex >= len(existing) {
			continue
		}
		slide := existing[m.TemplateIndex]
		ClearTemplateText(slide)
		ApplySlideContent(slide, m.Slide)
		used[m.TemplateIndex] = true
	}

	// Remove in reverse so indices stay valid.
	for i := len(existing) - 1; i >= 0; i-- {
		if !used[i] {
			if err := pres.RemoveSlideByIndex(i); err != nil {
				p.log.Warn("could not remove unused template slide", "index", i, "error", err)
			}
		}
	}

	FillEmptyPlaceholders(pres)
	return nil
}

// ensureTitleFirst prepends a title slide when the model did not produce one.
func ensureTitleFirst(slides []llm.Slide) []llm.Slide {
	if len(slides) > 0 && slides[0].Type == llm.TypeTitle {
		return slides
	}

	title := "Presentation"
	if len(slides) > 0 && slides[0].Title != "" {
		title = slides[0].Title
	}
	return append([]llm.Slide{{
		Type:     llm.TypeTitle,
		Title:    title,
		Subtitle: "Overview",
		Content:  []string{},
	}}, slides...)
}
