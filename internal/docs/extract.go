package docs

import (
	"regexp"
	"strings"
)

const (
	// UntitledTitle is used when a page has no H1 heading.
	UntitledTitle = "Untitled"
	// NoDescription is used when no prose follows the title.
	NoDescription = "No description available"

	descriptionTarget = 150
	descriptionMax    = 200
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
	linkPattern   = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)

	directivePrefixes = []string{":::", "```", "::", ".."}
)

// ExtractTitleAndDescription returns the first H1 heading of a markdown
// document and the prose that follows it, stripped of bold, italic and link
// markup. The description stops at the next heading or once it exceeds 150
// characters, and is cut to 200 characters with a trailing "...".
func ExtractTitleAndDescription(content string) (title, description string) {
	lines := strings.Split(strings.TrimSpace(content), "\n")

	titleLine := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			title = strings.TrimSpace(line[2:])
			titleLine = i
			break
		}
	}

	var collected []string
	if title != "" {
		length := 0
		for _, line := range lines[titleLine+1:] {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "#") {
				break
			}
			if isDirective(line) {
				continue
			}

			if len(collected) > 0 {
				length++
			}
			collected = append(collected, line)
			length += len([]rune(line))
			if length > descriptionTarget {
				break
			}
		}
	}

	if len(collected) > 0 {
		description = strings.Join(collected, " ")
		description = boldPattern.ReplaceAllString(description, "$1")
		description = italicPattern.ReplaceAllString(description, "$1")
		description = linkPattern.ReplaceAllString(description, "$1")

		if r := []rune(description); len(r) > descriptionMax {
			description = string(r[:descriptionMax-3]) + "..."
		}
	}

	if title == "" {
		title = UntitledTitle
	}
	if description == "" {
		description = NoDescription
	}
	return title, description
}

func isDirective(line string) bool {
	for _, p := range directivePrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
