package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectContentFormat(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{"empty", nil, FormatBulletList},
		{"numbered", []string{"1. First", "2. Second", "3. Third"}, FormatNumberedList},
		{"bulleted", []string{"• One", "• Two"}, FormatBulletList},
		{"plain lines", []string{"One thing", "Another thing"}, FormatBulletList},
		{"single long item", []string{string(make([]byte, 0)) +
			"This single item runs well past one hundred and forty characters because it is a full paragraph of explanatory text rather than a short bullet point."},
			FormatParagraph},
		{"short single item", []string{"Short"}, FormatParagraph},
		{"separators ignored", []string{"1. First", "[NEXT_PLACEHOLDER]", "2. Second"}, FormatNumberedList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectContentFormat(tt.items))
		})
	}
}

func TestHasSeparators(t *testing.T) {
	assert.True(t, HasSeparators([]string{"a", "[PLACEHOLDER_2]", "b"}))
	assert.True(t, HasSeparators([]string{"a", "---", "b"}))
	assert.False(t, HasSeparators([]string{"a", "b"}))
	assert.False(t, HasSeparators(nil))
}

func TestStripMarkers(t *testing.T) {
	assert.Equal(t, "Second area text", stripMarkers("[PLACEHOLDER_2] Second area text"))
	assert.Equal(t, "Plain", stripMarkers("Plain"))
	assert.Equal(t, "", stripMarkers("[NEXT_PLACEHOLDER]"))
	assert.Equal(t, "trailing", stripMarkers("[TEXT_AREA_3]trailing"))
}

func TestIsStaticMarker(t *testing.T) {
	for _, marker := range []string{"1", "2.", "iv", "a.", "•", "-", "–", "01"} {
		assert.True(t, isStaticMarker(marker), "expected %q to be a static marker", marker)
	}
	for _, text := range []string{"", "1 point", "first", "• item"} {
		assert.False(t, isStaticMarker(text), "expected %q not to be a static marker", text)
	}
}

func TestAnalyzeTextFormat(t *testing.T) {
	assert.Equal(t, "", analyzeTextFormat(""))
	assert.Equal(t, FormatNumberedList, analyzeTextFormat("1. First\n2. Second"))
	assert.Equal(t, FormatBulletList, analyzeTextFormat("• One\n• Two"))
	assert.Equal(t, FormatParagraph, analyzeTextFormat(
		"A single paragraph of more than one hundred characters of running prose that describes something in considerable detail for the reader."))
	assert.Equal(t, FormatMixed, analyzeTextFormat("Heading\nBody"))
}
