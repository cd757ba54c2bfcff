package slack

import (
	"testing"

	"gotest.tools/assert"
)

type testCaseFormat struct {
	description string
	in          string
	expected    string
}

func TestFormatMarkdown(t *testing.T) {
	testCases := []testCaseFormat{
		{
			description: "h1 becomes uppercase bold",
			in:          "# Main Header",
			expected:    "*MAIN HEADER*",
		},
		{
			description: "h2 becomes bold",
			in:          "## Section Header",
			expected:    "*Section Header*",
		},
		{
			description: "h3 becomes bold",
			in:          "### Subsection",
			expected:    "*Subsection*",
		},
		{
			description: "link",
			in:          "Check [this link](https://example.com) for more info",
			expected:    "Check <https://example.com|this link> for more info",
		},
		{
			description: "multiple links in one line",
			in:          "See [link1](https://example1.com) and [link2](https://example2.com)",
			expected:    "See <https://example1.com|link1> and <https://example2.com|link2>",
		},
		{
			description: "double asterisk bold",
			in:          "This is **bold text** in markdown",
			expected:    "This is *bold text* in markdown",
		},
		{
			description: "double underscore bold",
			in:          "This is __bold text__ in markdown",
			expected:    "This is *bold text* in markdown",
		},
		{
			description: "italic with underscores",
			in:          "Fixed _critical bug_ today",
			expected:    "Fixed _critical bug_ today",
		},
		{
			description: "italic with asterisks",
			in:          "Supports *multiple languages* now",
			expected:    "Supports _multiple languages_ now",
		},
		{
			description: "list markers become bullets",
			in:          "- Item 1\n- Item 2\n* Item 3\n+ Item 4",
			expected:    "• Item 1\n• Item 2\n• Item 3\n• Item 4",
		},
		{
			description: "indented list keeps indentation",
			in:          "- Item 1\n  - Subitem 1\n  - Subitem 2",
			expected:    "• Item 1\n  • Subitem 1\n  • Subitem 2",
		},
		{
			description: "code block content untouched",
			in:          "```\n# This is not a header\n**not bold**\n[link](url)\n```",
			expected:    "```\n# This is not a header\n**not bold**\n[link](url)\n```",
		},
		{
			description: "code block with language untouched",
			in:          "```python\ndef hello():\n    print('Hello')\n```",
			expected:    "```python\ndef hello():\n    print('Hello')\n```",
		},
		{
			description: "block quotes untouched",
			in:          "> This is a quote\n> **even with markdown**",
			expected:    "> This is a quote\n> **even with markdown**",
		},
		{
			description: "bold wrapping a link",
			in:          "**Check [this](https://example.com)** for details",
			expected:    "*Check <https://example.com|this>* for details",
		},
		{
			description: "bold containing italic resolves inner first",
			in:          "**bold with _italic_ inside**",
			expected:    "*bold with _italic_ inside*",
		},
		{
			description: "asterisks inside expressions are not emphasis",
			in:          "The result of 2*3*4 is 24",
			expected:    "The result of 2*3*4 is 24",
		},
		{
			description: "underscores inside identifiers are not emphasis",
			in:          "Renamed snake_case_name to camelCase",
			expected:    "Renamed snake_case_name to camelCase",
		},
		{
			description: "markers hugging spaces are not emphasis",
			in:          "a * spaced * asterisk",
			expected:    "a * spaced * asterisk",
		},
		{
			description: "empty input",
			in:          "",
			expected:    "",
		},
	}

	for _, testCase := range testCases {
		assert.Equal(t, FormatMarkdown(testCase.in), testCase.expected, testCase.description)
	}
}

func TestFormatMarkdownReleaseNotes(t *testing.T) {
	in := "## Release v1.0.0\n\n- Added **new feature** with [documentation](https://example.com)\n- Fixed _critical bug_\n"
	expected := "*Release v1.0.0*\n\n• Added *new feature* with <https://example.com|documentation>\n• Fixed _critical bug_\n"

	assert.Equal(t, FormatMarkdown(in), expected)
}

func TestFormatMarkdownComplexDocument(t *testing.T) {
	in := `# Release v1.0.0

## What's New

- Added **new feature** for [users](https://example.com)
- Fixed bug in __authentication__
- Improved performance

## Installation

` + "```bash\npip install package\n```"

	expected := `*RELEASE V1.0.0*

*What's New*

` + "• Added *new feature* for <https://example.com|users>\n" +
		"• Fixed bug in *authentication*\n" +
		"• Improved performance\n" +
		"\n*Installation*\n\n" +
		"```bash\npip install package\n```"

	assert.Equal(t, FormatMarkdown(in), expected)
}

func TestFormatMarkdownDeterministic(t *testing.T) {
	in := "## Header\n\n- **bold** and [link](https://example.com)\n"
	assert.Equal(t, FormatMarkdown(in), FormatMarkdown(in))
}
