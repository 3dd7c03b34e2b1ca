package deck

import (
	"regexp"
	"strings"
)

var (
	numberedLineRe = regexp.MustCompile(`^\d+[.)]\s`)

	// Markers that split one content list into per-area groups.
	placeholderMarkerRe = regexp.MustCompile(`(?i)\[PLACEHOLDER[_\s]*\d*\]`)
	nextPlaceholderRe   = regexp.MustCompile(`(?i)\[NEXT_PLACEHOLDER\]`)
	textAreaMarkerRe    = regexp.MustCompile(`(?i)\[TEXT_AREA[_\s]*\d*\]`)

	// Static decorations some templates use as list scaffolding, e.g. a box
	// holding just "01" or "•". These are preserved, never overwritten.
	staticMarkerRes = []*regexp.Regexp{
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`^\d+\.$`),
		regexp.MustCompile(`^[ivxlc]+$`),
		regexp.MustCompile(`^[a-zA-Z]\.$`),
		regexp.MustCompile(`^•$`),
		regexp.MustCompile(`^-$`),
		regexp.MustCompile(`^–$`),
		regexp.MustCompile(`^\d{2}$`),
	}
)

var bulletPrefixes = []string{"• ", "- ", "* ", "•", "-"}

func startsWithBullet(s string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// DetectContentFormat classifies a content list as numbered, bulleted, or
// paragraph text. Separator markers are ignored.
func DetectContentFormat(items []string) string {
	var norm []string
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" && !isSeparator(it) {
			norm = append(norm, it)
		}
	}
	if len(norm) == 0 {
		return FormatBulletList
	}

	if len(norm) == 1 && len(norm[0]) > 140 {
		return FormatParagraph
	}

	var numbered, bullets int
	for _, it := range norm {
		if numberedLineRe.MatchString(it) {
			numbered++
		}
		if startsWithBullet(it) {
			bullets++
		}
	}

	half := len(norm) / 2
	if half < 1 {
		half = 1
	}
	switch {
	case numbered >= half:
		return FormatNumberedList
	case bullets >= half:
		return FormatBulletList
	case len(norm) > 1:
		return FormatBulletList
	default:
		return FormatParagraph
	}
}

// HasSeparators reports whether any item is a placeholder separator marker.
func HasSeparators(items []string) bool {
	for _, it := range items {
		if isSeparator(it) {
			return true
		}
	}
	return false
}

func isSeparator(text string) bool {
	t := strings.ToUpper(text)
	for _, sep := range []string{"[NEXT_PLACEHOLDER]", "[PLACEHOLDER]", "[PLACEHOLDER_", "[TEXT_AREA]", "---", "###"} {
		if strings.Contains(t, sep) {
			return true
		}
	}
	return t == "|" || t == "||"
}

// stripMarkers removes every placeholder separator marker from text.
func stripMarkers(text string) string {
	text = placeholderMarkerRe.ReplaceAllString(text, "")
	text = nextPlaceholderRe.ReplaceAllString(text, "")
	text = textAreaMarkerRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func isStaticMarker(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, re := range staticMarkerRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
