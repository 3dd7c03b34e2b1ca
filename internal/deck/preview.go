package deck

import (
	"strings"

	gopresentation "github.com/VantageDataChat/GoPPT"

	"pptgen/internal/pkg/errors"
)

// SlidePreview is one slide's extracted content for the preview endpoint.
type SlidePreview struct {
	SlideNumber int      `json:"slide_number"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Content     []string `json:"content"`
	LayoutName  string   `json:"layout_name"`
	SlideType   string   `json:"slide_type"`
}

// PreviewResult carries the preview of a generated deck.
type PreviewResult struct {
	TotalSlides int            `json:"total_slides"`
	Slides      []SlidePreview `json:"slides"`
}

// Preview reopens a generated deck and extracts per-slide text for display.
func Preview(path string) (*PreviewResult, error) {
	pres, err := gopresentation.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "deck.preview", "failed to open presentation")
	}
	defer func() { _ = pres.Close() }()

	slides := pres.GetAllSlides()
	result := &PreviewResult{TotalSlides: len(slides)}

	for i, slide := range slides {
		result.Slides = append(result.Slides, previewSlide(slide, i, len(slides)))
	}
	return result, nil
}

func previewSlide(slide *gopresentation.Slide, idx, total int) SlidePreview {
	sp := SlidePreview{
		SlideNumber: idx + 1,
		Content:     []string{},
		LayoutName:  slide.GetName(),
		SlideType:   "content",
	}
	if sp.LayoutName == "" {
		sp.LayoutName = "Unknown Layout"
	}

	layoutLower := strings.ToLower(sp.LayoutName)
	if strings.Contains(layoutLower, "title") && (strings.Contains(layoutLower, "only") || idx == 0) {
		sp.SlideType = "title"
	} else if idx == total-1 && (strings.Contains(layoutLower, "conclusion") || strings.Contains(layoutLower, "summary")) {
		sp.SlideType = "conclusion"
	}

	var titles, subtitles, contents []string
	for _, sh := range slide.GetShapes() {
		switch s := sh.(type) {
		case *gopresentation.PlaceholderShape:
			text := strings.TrimSpace(placeholderText(s))
			if text == "" {
				continue
			}
			switch {
			case isTitleType(s.GetPlaceholderType()):
				titles = append(titles, text)
			case isSubtitleType(s.GetPlaceholderType()):
				subtitles = append(subtitles, text)
			default:
				contents = append(contents, text)
			}
		case *gopresentation.RichTextShape:
			text := strings.TrimSpace(richTextOf(s))
			if text == "" {
				continue
			}
			if len(titles) == 0 && len(text) < 100 {
				titles = append(titles, text)
			} else {
				contents = append(contents, text)
			}
		}
	}

	if len(titles) > 0 {
		sp.Title = titles[0]
	}
	if len(subtitles) > 0 {
		sp.Subtitle = subtitles[0]
	}
	for _, block := range contents {
		if block == sp.Title || block == sp.Subtitle {
			continue
		}
		sp.Content = append(sp.Content, nonEmptyLines(block)...)
	}

	if sp.Title == "" && len(sp.Content) > 0 {
		sp.Title = sp.Content[0]
		sp.Content = sp.Content[1:]
	}
	return sp
}

func richTextOf(shape *gopresentation.RichTextShape) string {
	var lines []string
	for _, para := range shape.GetParagraphs() {
		var sb strings.Builder
		for _, el := range para.GetElements() {
			if run, ok := el.(*gopresentation.TextRun); ok {
				sb.WriteString(run.GetText())
			}
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}
