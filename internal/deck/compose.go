package deck

import (
	"strings"

	gopresentation "github.com/VantageDataChat/GoPPT"

	"pptgen/internal/llm"
)

// ParseContentGroups splits a content list into per-area groups using
// separator markers. With no markers present, lists longer than three items
// are split evenly.
func ParseContentGroups(content []string) [][]string {
	if len(content) == 0 {
		return [][]string{{}}
	}

	groups := [][]string{{}}
	cur := 0

	for _, item := range content {
		if item == "" {
			continue
		}
		upper := strings.ToUpper(item)

		switch {
		case strings.Contains(upper, "[PLACEHOLDER") ||
			strings.Contains(upper, "[NEXT_PLACEHOLDER") ||
			strings.Contains(upper, "[TEXT_AREA"):
			groups = append(groups, []string{})
			cur++
			// Text sharing a line with the marker belongs to the new group.
			if rest := stripMarkers(item); rest != "" {
				groups[cur] = append(groups[cur], rest)
			}
		case strings.TrimSpace(item) == "---" || strings.TrimSpace(item) == "###":
			groups = append(groups, []string{})
			cur++
		default:
			groups[cur] = append(groups[cur], item)
		}
	}

	var nonEmpty [][]string
	for _, g := range groups {
		if len(g) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}

	if len(nonEmpty) == 1 && len(content) > 3 {
		return autoSplitContent(content, 4)
	}
	if len(nonEmpty) == 0 {
		return [][]string{{}}
	}
	return nonEmpty
}

// autoSplitContent distributes items evenly across up to maxGroups groups,
// with earlier groups taking any remainder.
func autoSplitContent(items []string, maxGroups int) [][]string {
	var clean []string
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			clean = append(clean, it)
		}
	}
	if len(clean) == 0 {
		return [][]string{{}}
	}
	if maxGroups <= 1 {
		return [][]string{clean}
	}

	if len(clean) < maxGroups {
		groups := make([][]string, 0, len(clean))
		for _, it := range clean {
			groups = append(groups, []string{it})
		}
		return groups
	}

	perGroup := len(clean) / maxGroups
	remainder := len(clean) % maxGroups

	var groups [][]string
	start := 0
	for i := 0; i < maxGroups && start < len(clean); i++ {
		n := perGroup
		if i < remainder {
			n++
		}
		end := start + n
		if end > len(clean) {
			end = len(clean)
		}
		if end > start {
			groups = append(groups, clean[start:end])
		}
		start = end
	}
	return groups
}

// contentAreas returns the fillable content placeholders on a slide. The
// first title and first subtitle are excluded, as are static marker boxes.
func contentAreas(slide *gopresentation.Slide) []*gopresentation.PlaceholderShape {
	var out []*gopresentation.PlaceholderShape
	titleSeen := false
	subtitleSeen := false

	for _, ph := range slide.GetPlaceholders() {
		t := ph.GetPlaceholderType()
		if isTitleType(t) && !titleSeen {
			titleSeen = true
			continue
		}
		if isSubtitleType(t) && !subtitleSeen {
			subtitleSeen = true
			continue
		}
		if isStaticMarker(placeholderText(ph)) {
			continue
		}
		if isContentType(t) {
			out = append(out, ph)
		}
	}
	return out
}

// ApplySlideContent writes one generated slide into an existing template
// slide, distributing content across however many text areas it has.
func ApplySlideContent(slide *gopresentation.Slide, s llm.Slide) {
	if t := strings.TrimSpace(s.Title); t != "" && !strings.EqualFold(t, "none") {
		for _, ph := range slide.GetPlaceholders() {
			if isTitleType(ph.GetPlaceholderType()) {
				ph.SetText(t)
				break
			}
		}
	}

	if st := strings.TrimSpace(s.Subtitle); st != "" && !strings.EqualFold(st, "none") {
		for _, ph := range slide.GetPlaceholders() {
			if isSubtitleType(ph.GetPlaceholderType()) {
				ph.SetText(st)
				break
			}
		}
	}

	if len(s.Content) == 0 {
		return
	}

	groups := ParseContentGroups(s.Content)
	areas := contentAreas(slide)
	if len(areas) > 1 && len(groups) == 1 {
		groups = autoSplitContent(groups[0], len(areas))
	}
	distributeGroups(areas, groups)
}

func distributeGroups(areas []*gopresentation.PlaceholderShape, groups [][]string) {
	for i, area := range areas {
		if i >= len(groups) {
			area.Clear()
			continue
		}

		marker := ""
		if t := placeholderText(area); isStaticMarker(t) {
			marker = strings.TrimSpace(t)
		}

		area.ClearAll()
		wrote := false
		for _, item := range groups[i] {
			item = stripMarkers(item)
			if item == "" || item == "---" || item == "###" {
				continue
			}
			if marker != "" {
				item = marker + " " + item
			}
			para := area.CreateParagraph()
			para.CreateTextRun(item)
			wrote = true
		}
		if !wrote {
			area.Clear()
		}
	}
}

// ClearTemplateText wipes instructional placeholder text ("Click to add
// title" and the like) from a slide while preserving static list markers.
func ClearTemplateText(slide *gopresentation.Slide) {
	for _, ph := range slide.GetPlaceholders() {
		text := strings.TrimSpace(placeholderText(ph))
		if text == "" || isStaticMarker(text) {
			continue
		}
		lower := strings.ToLower(text)
		for _, keyword := range []string{"click", "add", "insert", "type", "placeholder", "text here"} {
			if strings.Contains(lower, keyword) {
				ph.Clear()
				break
			}
		}
	}
}

// FillEmptyPlaceholders writes a single space into placeholders left blank so
// PowerPoint does not render their prompt text.
func FillEmptyPlaceholders(p *gopresentation.Presentation) {
	for _, slide := range p.GetAllSlides() {
		for _, ph := range slide.GetPlaceholders() {
			if strings.TrimSpace(placeholderText(ph)) == "" {
				ph.SetText(" ")
			}
		}
	}
}
