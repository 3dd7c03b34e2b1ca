package deck

import (
	"strings"

	gopresentation "github.com/VantageDataChat/GoPPT"

	"pptgen/internal/llm"
)

// Font sizes in points for freshly generated slides.
const (
	titleFontSize    = 44
	subtitleFontSize = 24
	bodyFontSize     = 18
)

// templateImage is an image harvested from the uploaded template for reuse.
type templateImage struct {
	data     []byte
	mimeType string
}

// Generator builds a presentation slide by slide, replacing whatever slides
// the template shipped with. Template layouts, dimensions, fonts, and images
// are reused; the text is entirely generated.
type Generator struct {
	pres   *gopresentation.Presentation
	info   *TemplateInfo
	images []templateImage
}

func NewGenerator(pres *gopresentation.Presentation, info *TemplateInfo) *Generator {
	return &Generator{
		pres:   pres,
		info:   info,
		images: harvestImages(pres),
	}
}

// Build replaces the template's slides with one slide per entry. New slides
// are appended first so the presentation is never left empty, then the
// original slides are removed from the front.
func (g *Generator) Build(slides []llm.Slide) error {
	original := g.pres.GetSlideCount()

	for _, s := range slides {
		g.buildSlide(s)
	}

	for i := original - 1; i >= 0; i-- {
		if err := g.pres.RemoveSlideByIndex(i); err != nil {
			return err
		}
	}
	return nil
}

var layoutPreferences = map[string][]string{
	llm.TypeTitle:      {"title", "Title Slide", "Title Only"},
	llm.TypeContent:    {"content", "Title and Content", "Two Content", "Content with Caption"},
	llm.TypeConclusion: {"title", "Title and Content", "Title Only"},
}

// layoutForType picks the template layout whose name best matches the slide
// type, falling back to the first layout.
func (g *Generator) layoutForType(slideType string) string {
	prefs, ok := layoutPreferences[slideType]
	if !ok {
		prefs = layoutPreferences[llm.TypeContent]
	}

	for _, pref := range prefs {
		for _, name := range g.info.LayoutNames {
			if strings.Contains(strings.ToLower(name), strings.ToLower(pref)) {
				return name
			}
		}
	}
	if len(g.info.LayoutNames) > 0 {
		return g.info.LayoutNames[0]
	}
	return ""
}

func (g *Generator) buildSlide(s llm.Slide) {
	var slide *gopresentation.Slide
	if name := g.layoutForType(s.Type); name != "" {
		if added, err := g.pres.AddSlideWithLayout(name); err == nil {
			slide = added
		}
	}
	if slide == nil {
		slide = g.pres.CreateSlide()
	}

	switch s.Type {
	case llm.TypeTitle:
		g.buildTitleSlide(slide, s)
	default:
		g.buildContentSlide(slide, s)
	}
}

func (g *Generator) buildTitleSlide(slide *gopresentation.Slide, s llm.Slide) {
	w := g.info.WidthInches
	font := g.info.DefaultFont()

	if s.Title != "" {
		ph := slide.CreatePlaceholderShape(gopresentation.PlaceholderCtrTitle)
		ph.SetPosition(gopresentation.Inch(0.5), gopresentation.Inch(1.5))
		ph.SetSize(gopresentation.Inch(w-1), gopresentation.Inch(1.5))
		g.addStyledText(&ph.RichTextShape, s.Title, titleFontSize, true, font, false)
	}

	if s.Subtitle != "" {
		ph := slide.CreatePlaceholderShape(gopresentation.PlaceholderSubTitle)
		ph.SetPosition(gopresentation.Inch(0.5), gopresentation.Inch(3.2))
		ph.SetSize(gopresentation.Inch(w-1), gopresentation.Inch(1))
		g.addStyledText(&ph.RichTextShape, s.Subtitle, subtitleFontSize, false, font, false)
	}

	// Re-place the first template image in the lower right corner.
	if len(g.images) > 0 {
		img := slide.CreateDrawingShape()
		img.SetImageData(g.images[0].data, g.images[0].mimeType)
		img.SetPosition(gopresentation.Inch(8), gopresentation.Inch(5))
		img.SetSize(gopresentation.Inch(2), gopresentation.Inch(1.5))
	}
}

func (g *Generator) buildContentSlide(slide *gopresentation.Slide, s llm.Slide) {
	w := g.info.WidthInches
	h := g.info.HeightInches
	font := g.info.DefaultFont()

	if s.Title != "" {
		ph := slide.CreatePlaceholderShape(gopresentation.PlaceholderTitle)
		ph.SetPosition(gopresentation.Inch(0.5), gopresentation.Inch(0.4))
		ph.SetSize(gopresentation.Inch(w-1), gopresentation.Inch(1.2))
		g.addStyledText(&ph.RichTextShape, s.Title, titleFontSize, true, font, false)
	}

	if len(s.Content) > 0 {
		ph := slide.CreatePlaceholderShape(gopresentation.PlaceholderBody)
		ph.SetPosition(gopresentation.Inch(0.5), gopresentation.Inch(1.8))
		ph.SetSize(gopresentation.Inch(w-1), gopresentation.Inch(h-2.5))

		first := true
		for _, item := range s.Content {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			var para *gopresentation.Paragraph
			if first {
				para = ph.GetActiveParagraph()
				first = false
			} else {
				para = ph.CreateParagraph()
			}
			run := para.CreateTextRun(item)
			styleRun(run, bodyFontSize, false, font)
			b := gopresentation.NewBullet()
			b.SetCharBullet("•")
			para.SetBullet(b)
		}
	}
}

// addStyledText replaces the shape's text with a single styled paragraph.
func (g *Generator) addStyledText(shape *gopresentation.RichTextShape, text string, size int, bold bool, fontName string, bullet bool) {
	para := shape.GetActiveParagraph()
	run := para.CreateTextRun(text)
	styleRun(run, size, bold, fontName)
	if bullet {
		b := gopresentation.NewBullet()
		b.SetCharBullet("•")
		para.SetBullet(b)
	}
}

func styleRun(run *gopresentation.TextRun, size int, bold bool, fontName string) {
	font := run.GetFont()
	font.Size = size
	font.Bold = bold
	font.Name = fontName
}

// harvestImages collects image data from the template's slides so generated
// decks can reuse the original artwork.
func harvestImages(p *gopresentation.Presentation) []templateImage {
	var images []templateImage
	for _, slide := range p.GetAllSlides() {
		for _, sh := range slide.GetShapes() {
			ds, ok := sh.(*gopresentation.DrawingShape)
			if !ok {
				continue
			}
			data := ds.GetImageData()
			if len(data) == 0 {
				continue
			}
			images = append(images, templateImage{data: data, mimeType: ds.GetMimeType()})
		}
	}
	return images
}
