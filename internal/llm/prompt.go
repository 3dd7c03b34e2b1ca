package llm

import (
	"fmt"
	"strings"
)

const slidesPromptHeader = `You are an expert presentation designer. Your task is to analyze the provided text and convert it into a structured PowerPoint presentation.

INSTRUCTIONS:
1. Break down the text into logical slides
2. Each slide should have a clear purpose and focused content
3. Create an appropriate number of slides (typically 5-15 depending on content length)
4. Include a title slide and conclusion slide
5. Use bullet points for easy reading
6. Keep slide content concise and engaging

OUTPUT FORMAT:
Return ONLY a valid JSON array with this exact structure:

[
    {
        "slide_type": "title",
        "title": "Main presentation title",
        "subtitle": "Brief subtitle or tagline",
        "content": []
    },
    {
        "slide_type": "content",
        "title": "Slide title",
        "subtitle": "",
        "content": [
            "First bullet point",
            "Second bullet point",
            "Third bullet point"
        ]
    },
    {
        "slide_type": "conclusion",
        "title": "Conclusion",
        "subtitle": "Summary or call to action",
        "content": [
            "Key takeaway 1",
            "Key takeaway 2"
        ]
    }
]

SLIDE TYPES:
- "title": Opening slide with main title and subtitle
- "content": Regular content slide with title and bullet points
- "conclusion": Final slide with summary or call to action

CONTENT GUIDELINES:
- Keep titles under 50 characters
- Limit bullet points to 3-6 per slide
- Each bullet point should be 1-2 lines maximum
- Use clear, action-oriented language
`

// buildSlidesPrompt assembles the structuring prompt. numSlides of 0 leaves
// the slide count to the model.
func buildSlidesPrompt(text, guidance string, numSlides int) string {
	var b strings.Builder
	b.WriteString(slidesPromptHeader)

	if numSlides > 0 {
		fmt.Fprintf(&b, "\nSLIDE COUNT: Produce exactly %d slides including the title and conclusion slides.\n", numSlides)
	}

	if guidance != "" {
		b.WriteString("\n\nADDITIONAL GUIDANCE: " + guidance + "\n")
		b.WriteString("Apply this guidance to the tone, structure, and focus of the presentation.\n")
	}

	b.WriteString("\n\nTEXT TO CONVERT:\n" + text + "\n\n")
	b.WriteString("Remember: Return ONLY the JSON array, no additional text or formatting.")

	return b.String()
}
