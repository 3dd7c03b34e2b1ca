// Package deck turns structured slide content into a finished presentation
// built on top of an uploaded template. The template's own slides, layouts,
// fonts, and images are preserved wherever possible.
package deck

import (
	"strings"

	gopresentation "github.com/VantageDataChat/GoPPT"
)

// Content format labels shared by the analyzer, the mapper, and the refiner.
const (
	FormatNumberedList = "numbered_list"
	FormatBulletList   = "bullet_list"
	FormatParagraph    = "paragraph"
	FormatMixed        = "mixed_content"
)

// PlaceholderInfo describes one placeholder on a template slide, including a
// rough estimate of how much text it can hold.
type PlaceholderInfo struct {
	Type            gopresentation.PlaceholderType
	Index           int
	WidthInches     float64
	HeightInches    float64
	MaxCharsPerLine int
	SuggestedLines  int
	CurrentText     string
	TextFormat      string
}

// SlideInfo is the analysis of one existing template slide.
type SlideInfo struct {
	Index         int
	LayoutName    string
	Placeholders  []PlaceholderInfo
	HasTitle      bool
	HasSubtitle   bool
	HasContent    bool
	ContentFormat string
	SuggestedType string
}

// TemplateInfo is the full template analysis used to drive generation.
type TemplateInfo struct {
	Slides          []SlideInfo
	LayoutNames     []string
	SlideCount      int
	LayoutCount     int
	WidthInches     float64
	HeightInches    float64
	Fonts           []string
	MaxContentAreas int
}

// ContentSlides returns the analyses of slides that carry at least one
// content placeholder.
func (t *TemplateInfo) ContentSlides() []SlideInfo {
	var out []SlideInfo
	for _, s := range t.Slides {
		if s.HasContent {
			out = append(out, s)
		}
	}
	return out
}

// NeedsMultiArea reports whether any template slide carries more than two
// content areas, which requires per-area content distribution.
func (t *TemplateInfo) NeedsMultiArea() bool {
	return t.MaxContentAreas > 2
}

// DefaultFont returns the first font sampled from the template, or Calibri.
func (t *TemplateInfo) DefaultFont() string {
	if len(t.Fonts) > 0 {
		return t.Fonts[0]
	}
	return "Calibri"
}

// Analyze inspects a loaded presentation and estimates, per slide, which
// placeholders exist and how much text each can take. Capacity numbers are
// coarse character and line estimates derived from the placeholder geometry.
func Analyze(p *gopresentation.Presentation) *TemplateInfo {
	layout := p.GetLayout()
	info := &TemplateInfo{
		WidthInches:  gopresentation.EMUToInch(layout.CX),
		HeightInches: gopresentation.EMUToInch(layout.CY),
		SlideCount:   p.GetSlideCount(),
	}

	for _, l := range p.GetSlideLayouts() {
		info.LayoutNames = append(info.LayoutNames, l.Name)
	}
	info.LayoutCount = len(info.LayoutNames)

	fontSeen := map[string]bool{}
	slides := p.GetAllSlides()
	for idx, slide := range slides {
		si := analyzeSlide(slide, idx, len(slides), info.WidthInches, info.HeightInches)
		if n := len(contentPlaceholderInfos(si.Placeholders)); n > info.MaxContentAreas {
			info.MaxContentAreas = n
		}
		info.Slides = append(info.Slides, si)

		// Sample fonts from the first three slides only.
		if idx < 3 {
			sampleFonts(slide, fontSeen, &info.Fonts)
		}
	}

	return info
}

func analyzeSlide(slide *gopresentation.Slide, idx, total int, slideW, slideH float64) SlideInfo {
	si := SlideInfo{Index: idx, LayoutName: slide.GetName()}

	for _, ph := range slide.GetPlaceholders() {
		w := gopresentation.EMUToInch(ph.GetWidth())
		h := gopresentation.EMUToInch(ph.GetHeight())
		if w <= 0 {
			w = slideW
		}
		if h <= 0 {
			h = slideH / 4
		}

		pi := PlaceholderInfo{
			Type:         ph.GetPlaceholderType(),
			Index:        ph.GetPlaceholderIndex(),
			WidthInches:  w,
			HeightInches: h,
			CurrentText:  placeholderText(ph),
		}

		switch {
		case isTitleType(pi.Type):
			si.HasTitle = true
			pi.MaxCharsPerLine = int(w * 10)
			pi.SuggestedLines = 1
		case isSubtitleType(pi.Type):
			si.HasSubtitle = true
			pi.MaxCharsPerLine = int(w * 12)
			pi.SuggestedLines = 2
		case isContentType(pi.Type):
			si.HasContent = true
			pi.MaxCharsPerLine = int(w * 15)
			pi.SuggestedLines = int(h * 2.5)
		default:
			pi.MaxCharsPerLine = int(w * 12)
			pi.SuggestedLines = int(h * 2)
		}
		if pi.SuggestedLines < 1 {
			pi.SuggestedLines = 1
		}

		pi.TextFormat = analyzeTextFormat(pi.CurrentText)
		if pi.TextFormat != "" && isContentType(pi.Type) && si.ContentFormat == "" {
			si.ContentFormat = pi.TextFormat
		}

		si.Placeholders = append(si.Placeholders, pi)
	}

	si.SuggestedType = suggestSlideType(si, idx, total)
	return si
}

func suggestSlideType(si SlideInfo, idx, total int) string {
	switch {
	case idx == 0, si.HasTitle && si.HasSubtitle && !si.HasContent:
		return "title"
	case idx == total-1 && si.HasTitle:
		return "conclusion"
	default:
		return "content"
	}
}

func isTitleType(t gopresentation.PlaceholderType) bool {
	return t == gopresentation.PlaceholderTitle || t == gopresentation.PlaceholderCtrTitle
}

func isSubtitleType(t gopresentation.PlaceholderType) bool {
	return t == gopresentation.PlaceholderSubTitle
}

func isContentType(t gopresentation.PlaceholderType) bool {
	return t == gopresentation.PlaceholderBody
}

func contentPlaceholderInfos(phs []PlaceholderInfo) []PlaceholderInfo {
	var out []PlaceholderInfo
	for _, ph := range phs {
		if isContentType(ph.Type) {
			out = append(out, ph)
		}
	}
	return out
}

// analyzeTextFormat classifies the existing placeholder text so generated
// content can reuse the same list style.
func analyzeTextFormat(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	lines := nonEmptyLines(text)
	var numbered, bulleted, total, totalLen int
	for _, line := range lines {
		total++
		totalLen += len(line)
		switch {
		case numberedLineRe.MatchString(line):
			numbered++
		case startsWithBullet(line):
			bulleted++
		}
	}
	if total == 0 {
		return ""
	}

	avgLen := totalLen / total
	switch {
	case numbered > 0:
		return FormatNumberedList
	case bulleted > 0 || (total > 2 && avgLen < 100):
		return FormatBulletList
	case total <= 2 && avgLen > 100:
		return FormatParagraph
	default:
		return FormatMixed
	}
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// placeholderText joins the placeholder's paragraphs with newlines.
func placeholderText(ph *gopresentation.PlaceholderShape) string {
	var lines []string
	for _, para := range ph.GetParagraphs() {
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

func sampleFonts(slide *gopresentation.Slide, seen map[string]bool, fonts *[]string) {
	for _, sh := range slide.GetShapes() {
		var paras []*gopresentation.Paragraph
		switch s := sh.(type) {
		case *gopresentation.PlaceholderShape:
			paras = s.GetParagraphs()
		case *gopresentation.RichTextShape:
			paras = s.GetParagraphs()
		default:
			continue
		}
		for _, para := range paras {
			for _, el := range para.GetElements() {
				run, ok := el.(*gopresentation.TextRun)
				if !ok {
					continue
				}
				font := run.GetFont()
				if font == nil {
					continue
				}
				if name := font.Name; name != "" && !seen[name] {
					seen[name] = true
					*fonts = append(*fonts, name)
				}
			}
		}
	}
}
