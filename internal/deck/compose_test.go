package deck

import (
	"testing"

	gopresentation "github.com/VantageDataChat/GoPPT"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pptgen/internal/llm"
)

func TestParseContentGroups(t *testing.T) {
	groups := ParseContentGroups([]string{
		"Area one line 1",
		"Area one line 2",
		"[PLACEHOLDER_2]",
		"Area two line 1",
		"---",
		"Area three line 1",
	})

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"Area one line 1", "Area one line 2"}, groups[0])
	assert.Equal(t, []string{"Area two line 1"}, groups[1])
	assert.Equal(t, []string{"Area three line 1"}, groups[2])
}

func TestParseContentGroupsMarkerWithText(t *testing.T) {
	groups := ParseContentGroups([]string{
		"First",
		"[PLACEHOLDER_2] Second area starts here",
	})

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"Second area starts here"}, groups[1])
}

func TestParseContentGroupsAutoSplits(t *testing.T) {
	// No separators plus more than three items triggers an even split.
	groups := ParseContentGroups([]string{"a", "b", "c", "d", "e", "f", "g", "h"})

	require.Len(t, groups, 4)
	for _, g := range groups {
		assert.Len(t, g, 2)
	}
}

func TestParseContentGroupsShortListStaysWhole(t *testing.T) {
	groups := ParseContentGroups([]string{"a", "b", "c"})
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"a", "b", "c"}, groups[0])
}

func TestAutoSplitContentFewerItemsThanGroups(t *testing.T) {
	groups := autoSplitContent([]string{"a", "b"}, 4)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"a"}, groups[0])
	assert.Equal(t, []string{"b"}, groups[1])
}

func buildTemplateSlide(t *testing.T) (*gopresentation.Presentation, *gopresentation.Slide) {
	t.Helper()
	p := gopresentation.New()
	slide := p.GetActiveSlide()

	title := slide.CreatePlaceholderShape(gopresentation.PlaceholderTitle)
	title.SetText("Click to add title")

	body := slide.CreatePlaceholderShape(gopresentation.PlaceholderBody)
	body.SetText("Click to add text")

	return p, slide
}

func TestApplySlideContent(t *testing.T) {
	_, slide := buildTemplateSlide(t)

	ApplySlideContent(slide, llm.Slide{
		Type:    llm.TypeContent,
		Title:   "Quarterly Results",
		Content: []string{"Revenue up", "Costs down"},
	})

	title := slide.GetPlaceholder(gopresentation.PlaceholderTitle)
	require.NotNil(t, title)
	assert.Equal(t, "Quarterly Results", placeholderText(title))

	body := slide.GetPlaceholder(gopresentation.PlaceholderBody)
	require.NotNil(t, body)
	assert.Equal(t, "Revenue up\nCosts down", placeholderText(body))
}

func TestApplySlideContentSkipsNoneTitle(t *testing.T) {
	_, slide := buildTemplateSlide(t)

	ApplySlideContent(slide, llm.Slide{Type: llm.TypeContent, Title: "None"})

	title := slide.GetPlaceholder(gopresentation.PlaceholderTitle)
	require.NotNil(t, title)
	assert.Equal(t, "Click to add title", placeholderText(title))
}

func TestClearTemplateText(t *testing.T) {
	_, slide := buildTemplateSlide(t)

	marker := slide.CreatePlaceholderShape(gopresentation.PlaceholderBody)
	marker.SetText("01")

	ClearTemplateText(slide)

	title := slide.GetPlaceholder(gopresentation.PlaceholderTitle)
	assert.Equal(t, "", placeholderText(title))
	assert.Equal(t, "01", placeholderText(marker), "static markers survive clearing")
}

func TestContentAreasSkipsTitleAndMarkers(t *testing.T) {
	p := gopresentation.New()
	slide := p.GetActiveSlide()

	slide.CreatePlaceholderShape(gopresentation.PlaceholderTitle).SetText("Title")
	slide.CreatePlaceholderShape(gopresentation.PlaceholderBody).SetText("left column")
	slide.CreatePlaceholderShape(gopresentation.PlaceholderBody).SetText("right column")
	slide.CreatePlaceholderShape(gopresentation.PlaceholderBody).SetText("2.")

	areas := contentAreas(slide)
	assert.Len(t, areas, 2)
}

func TestDistributeGroupsPreservesStaticMarker(t *testing.T) {
	p := gopresentation.New()
	slide := p.GetActiveSlide()

	numbered := slide.CreatePlaceholderShape(gopresentation.PlaceholderBody)
	numbered.SetText("1")

	// A bare static marker is skipped by contentAreas, so distribute directly.
	distributeGroups([]*gopresentation.PlaceholderShape{numbered}, [][]string{{"First step"}})
	assert.Equal(t, "1 First step", placeholderText(numbered))
}

func TestFillEmptyPlaceholders(t *testing.T) {
	p := gopresentation.New()
	slide := p.GetActiveSlide()
	ph := slide.CreatePlaceholderShape(gopresentation.PlaceholderBody)
	ph.Clear()

	FillEmptyPlaceholders(p)
	assert.Equal(t, " ", placeholderText(ph))
}
