package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitleAndDescription(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantTitle string
		wantDesc  string
	}{
		{
			name:      "bold stripped",
			content:   "# Hello\n\nWorld is **great**.\n",
			wantTitle: "Hello",
			wantDesc:  "World is great.",
		},
		{
			name:      "no heading",
			content:   "Just some text\nwithout a title.\n",
			wantTitle: UntitledTitle,
			wantDesc:  NoDescription,
		},
		{
			name:      "title only",
			content:   "# Only a title\n",
			wantTitle: "Only a title",
			wantDesc:  NoDescription,
		},
		{
			name:      "italic and links",
			content:   "# Card\n\nA *collapsible* [Card](https://mui.com/card) component.",
			wantTitle: "Card",
			wantDesc:  "A collapsible Card component.",
		},
		{
			name:      "stops at next heading",
			content:   "# Button\n\nFirst line.\n## Parameters\nNot included.",
			wantTitle: "Button",
			wantDesc:  "First line.",
		},
		{
			name: "directives and fences skipped",
			content: "# Slider\n\n:::{note}\n```python\nimport panel_material_ui as pmui\n```\n" +
				".. image:: foo.png\n:: raw\nThe slider.",
			wantTitle: "Slider",
			wantDesc:  "import panel_material_ui as pmui The slider.",
		},
		{
			name:      "paragraphs joined across blank lines",
			content:   "# Tabs\n\nFirst paragraph.\n\nSecond paragraph.",
			wantTitle: "Tabs",
			wantDesc:  "First paragraph. Second paragraph.",
		},
		{
			name:      "leading content before title ignored",
			content:   "---\nmeta: x\n---\n# Theming\n\nCustomize colors.",
			wantTitle: "Theming",
			wantDesc:  "Customize colors.",
		},
		{
			name:      "h2 is not a title",
			content:   "## Section\n\ntext",
			wantTitle: UntitledTitle,
			wantDesc:  NoDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, desc := ExtractTitleAndDescription(tt.content)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestExtractTitleAndDescription_StopsAfterThreshold(t *testing.T) {
	line := strings.Repeat("x", 100)
	content := "# Long\n\n" + line + "\n" + line + "\n" + "third line never read"

	_, desc := ExtractTitleAndDescription(content)
	assert.NotContains(t, desc, "third")
}

func TestExtractTitleAndDescription_Truncation(t *testing.T) {
	content := "# Long\n\n" + strings.Repeat("word ", 80)

	_, desc := ExtractTitleAndDescription(content)
	assert.LessOrEqual(t, len(desc), 203)
	assert.Len(t, desc, 200)
	assert.True(t, strings.HasSuffix(desc, "..."))
}

func TestExtractTitleAndDescription_TruncatesRunes(t *testing.T) {
	content := "# Stars\n\n" + strings.Repeat("⭐", 250)

	_, desc := ExtractTitleAndDescription(content)
	assert.Equal(t, 200, len([]rune(desc)))
	assert.True(t, strings.HasSuffix(desc, "..."))
}
