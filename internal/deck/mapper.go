package deck

import (
	"sort"
	"strings"

	"pptgen/internal/llm"
)

// Mapping pairs one generated slide with the template slide chosen for it.
type Mapping struct {
	Slide         llm.Slide
	TemplateIndex int
	Info          SlideInfo
}

type aiFormat struct {
	slideType     string
	hasTitle      bool
	hasSubtitle   bool
	contentFormat string
	contentCount  int
	isTitle       bool
	isConclusion  bool
}

type templateFormat struct {
	slideType     string
	hasTitle      bool
	hasSubtitle   bool
	contentFormat string
	areaCount     int
	totalCapacity int
}

// MapToTemplate assigns generated slides to template slides. The title slide
// is matched first, content slides are matched by format affinity, and any
// leftovers are paired with unused template slides in order. The result is
// sorted by template position.
func MapToTemplate(slides []llm.Slide, tpl *TemplateInfo) []Mapping {
	if len(tpl.Slides) == 0 {
		var out []Mapping
		for i, s := range slides {
			out = append(out, Mapping{Slide: s, TemplateIndex: i})
		}
		return out
	}

	aiFormats := make([]aiFormat, len(slides))
	for i, s := range slides {
		aiFormats[i] = analyzeGenerated(s)
	}
	tplFormats := make([]templateFormat, len(tpl.Slides))
	for i, s := range tpl.Slides {
		tplFormats[i] = analyzeTarget(s)
	}

	var mappings []Mapping
	used := map[int]bool{}
	mappedAI := map[int]bool{}

	if len(slides) > 0 && slides[0].Type == llm.TypeTitle {
		if idx := findTitleSlide(tpl.Slides); idx >= 0 {
			mappings = append(mappings, Mapping{Slide: slides[0], TemplateIndex: idx, Info: tpl.Slides[idx]})
			used[idx] = true
			mappedAI[0] = true
		}
	}

	for i, s := range slides {
		if mappedAI[i] {
			continue
		}
		idx := bestFormatMatch(aiFormats[i], tplFormats, used)
		if idx < 0 {
			continue
		}
		mappings = append(mappings, Mapping{Slide: s, TemplateIndex: idx, Info: tpl.Slides[idx]})
		used[idx] = true
		mappedAI[i] = true
	}

	// Pair remaining generated slides with remaining template slides in order.
	var unusedTpl []int
	for i := range tpl.Slides {
		if !used[i] {
			unusedTpl = append(unusedTpl, i)
		}
	}
	next := 0
	for i, s := range slides {
		if mappedAI[i] || next >= len(unusedTpl) {
			continue
		}
		idx := unusedTpl[next]
		next++
		mappings = append(mappings, Mapping{Slide: s, TemplateIndex: idx, Info: tpl.Slides[idx]})
		used[idx] = true
		mappedAI[i] = true
	}

	sort.Slice(mappings, func(a, b int) bool {
		return mappings[a].TemplateIndex < mappings[b].TemplateIndex
	})
	return mappings
}

func analyzeGenerated(s llm.Slide) aiFormat {
	var count int
	for _, it := range s.Content {
		if strings.TrimSpace(it) != "" {
			count++
		}
	}
	return aiFormat{
		slideType:     s.Type,
		hasTitle:      s.Title != "",
		hasSubtitle:   s.Subtitle != "",
		contentFormat: DetectContentFormat(s.Content),
		contentCount:  count,
		isTitle:       s.Type == llm.TypeTitle,
		isConclusion:  s.Type == llm.TypeConclusion,
	}
}

func analyzeTarget(s SlideInfo) templateFormat {
	contentPhs := contentPlaceholderInfos(s.Placeholders)

	format := FormatBulletList
	capacity := 0
	for _, ph := range contentPhs {
		if ph.TextFormat != "" {
			format = ph.TextFormat
		}
		lines := ph.SuggestedLines
		if lines == 0 {
			lines = 5
		}
		capacity += lines
	}
	if s.ContentFormat != "" {
		format = s.ContentFormat
	}

	return templateFormat{
		slideType:     s.SuggestedType,
		hasTitle:      s.HasTitle,
		hasSubtitle:   s.HasSubtitle,
		contentFormat: format,
		areaCount:     len(contentPhs),
		totalCapacity: capacity,
	}
}

func findTitleSlide(slides []SlideInfo) int {
	for i, s := range slides {
		if s.SuggestedType == "title" {
			return i
		}
		if s.HasTitle && s.HasSubtitle && !s.HasContent {
			return i
		}
		if strings.Contains(strings.ToLower(s.LayoutName), "title") {
			return i
		}
	}
	for i, s := range slides {
		if s.HasTitle && s.HasSubtitle {
			return i
		}
	}
	if len(slides) > 0 {
		return 0
	}
	return -1
}

func bestFormatMatch(ai aiFormat, tpls []templateFormat, used map[int]bool) int {
	bestScore := -1
	bestIdx := -1

	for i, tf := range tpls {
		if used[i] {
			continue
		}

		score := 0
		if ai.contentFormat == tf.contentFormat {
			score += 10
		}
		if ai.slideType == tf.slideType {
			score += 5
		}
		if ai.isConclusion && i >= len(tpls)-3 {
			score += 8
		}
		if tf.totalCapacity >= ai.contentCount {
			score += 3
		}
		if ai.hasTitle == tf.hasTitle {
			score += 2
		}
		if ai.hasSubtitle == tf.hasSubtitle {
			score += 2
		}
		if tf.areaCount > 1 && ai.contentCount > 3 {
			score += 4
		}

		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	return bestIdx
}
