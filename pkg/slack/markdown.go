package slack

import "strings"

// FormatMarkdown converts GitHub-flavored release notes into Slack's mrkdwn
// dialect. Lines are processed by a small state machine so that content
// inside fenced code blocks and block quotes is never touched.
func FormatMarkdown(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	converted := make([]string, 0, len(lines))

	insideFence := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			insideFence = !insideFence
			converted = append(converted, line)
			continue
		}
		if insideFence || strings.HasPrefix(strings.TrimSpace(line), ">") {
			converted = append(converted, line)
			continue
		}

		converted = append(converted, convertLine(line))
	}

	return strings.Join(converted, "\n")
}

func convertLine(line string) string {
	if level, text, ok := parseHeading(line); ok {
		text = convertInline(text)
		if level == 1 {
			text = strings.ToUpper(text)
		}

		return "*" + text + "*"
	}

	if indent, text, ok := parseListItem(line); ok {
		return indent + "• " + convertInline(text)
	}

	return convertInline(line)
}

func parseHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}

	return level, strings.TrimSpace(line[level:]), true
}

func parseListItem(line string) (string, string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < 2 {
		return "", "", false
	}
	if trimmed[0] != '-' && trimmed[0] != '*' && trimmed[0] != '+' {
		return "", "", false
	}
	if trimmed[1] != ' ' {
		return "", "", false
	}

	indent := line[:len(line)-len(trimmed)]
	return indent, trimmed[2:], true
}

// convertInline rewrites links and emphasis in a single left-to-right pass.
// Inner content is converted before the outer marker is emitted, so nested
// emphasis resolves to non-overlapping Slack markers.
func convertInline(text string) string {
	result := &strings.Builder{}

	i := 0
	for i < len(text) {
		if text[i] == '[' {
			if label, url, next, ok := parseLink(text, i); ok {
				result.WriteString("<" + url + "|" + convertInline(label) + ">")
				i = next
				continue
			}
		}

		if strings.HasPrefix(text[i:], "**") || strings.HasPrefix(text[i:], "__") {
			marker := text[i : i+2]
			if end := strings.Index(text[i+2:], marker); end > 0 {
				result.WriteString("*" + convertInline(text[i+2:i+2+end]) + "*")
				i += 2 + end + 2
				continue
			}
		}

		if text[i] == '*' || text[i] == '_' {
			if end := strings.IndexByte(text[i+1:], text[i]); end > 0 {
				inner := text[i+1 : i+1+end]
				if isEmphasisSpan(text, i, i+1+end, inner) {
					result.WriteString("_" + convertInline(inner) + "_")
					i += 1 + end + 1
					continue
				}
			}
		}

		result.WriteByte(text[i])
		i++
	}

	return result.String()
}

// isEmphasisSpan reports whether the single marker pair at open/close marks
// emphasis rather than plain text like 2*3*4 or snake_case_name: the markers
// must sit on word boundaries and hug their content.
func isEmphasisSpan(text string, open, closing int, inner string) bool {
	if strings.HasPrefix(inner, " ") || strings.HasSuffix(inner, " ") {
		return false
	}
	if open > 0 && isWordByte(text[open-1]) {
		return false
	}
	if closing+1 < len(text) && isWordByte(text[closing+1]) {
		return false
	}

	return true
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func parseLink(text string, start int) (string, string, int, bool) {
	closeBracket := strings.IndexByte(text[start:], ']')
	if closeBracket < 0 {
		return "", "", 0, false
	}
	closeBracket += start
	if closeBracket+1 >= len(text) || text[closeBracket+1] != '(' {
		return "", "", 0, false
	}

	closeParen := strings.IndexByte(text[closeBracket+1:], ')')
	if closeParen < 0 {
		return "", "", 0, false
	}
	closeParen += closeBracket + 1

	label := text[start+1 : closeBracket]
	url := text[closeBracket+2 : closeParen]
	return label, url, closeParen + 1, true
}
