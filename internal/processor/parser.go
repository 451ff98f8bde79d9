package processor

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/simplyjuanc/zk-rag-webapp/internal/logger"
)

// frontmatterDelimiter marks the start and end of a frontmatter block.
const frontmatterDelimiter = "---"

var (
	excessNewlines = regexp.MustCompile(`\n\s*\n\s*\n`)
	htmlComments   = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// parsedContent is the outcome of splitting a document into its
// frontmatter map and cleaned body.
type parsedContent struct {
	metadata map[string]any
	body     string
}

// parseMarkdown splits the leading frontmatter block from the body and
// cleans the body. A document without a recognisable frontmatter block
// (or with one that fails to parse) yields an empty metadata map and the
// full original text as body.
func parseMarkdown(content string) parsedContent {
	metadata, body, ok := splitFrontmatter(content)
	if !ok {
		metadata = map[string]any{}
		body = content
	}

	return parsedContent{
		metadata: metadata,
		body:     cleanContent(body),
	}
}

// splitFrontmatter extracts a YAML frontmatter block delimited by "---"
// lines at the very start of the document.
func splitFrontmatter(content string) (map[string]any, string, bool) {
	normalised := strings.ReplaceAll(content, "\r\n", "\n")

	if !strings.HasPrefix(normalised, frontmatterDelimiter+"\n") {
		return nil, "", false
	}

	rest := normalised[len(frontmatterDelimiter)+1:]
	end := findClosingDelimiter(rest)
	if end < 0 {
		return nil, "", false
	}

	block := rest[:end]
	body := rest[end:]
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	} else {
		body = ""
	}

	metadata := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &metadata); err != nil {
		logger.Warn("Could not parse frontmatter: %v", err)
		return nil, "", false
	}

	return metadata, body, true
}

// findClosingDelimiter locates the offset of the line that closes the
// frontmatter block, or -1.
func findClosingDelimiter(content string) int {
	offset := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == frontmatterDelimiter {
			return offset
		}
		offset += len(line) + 1
	}
	return -1
}

// cleanContent normalises a document body: 3+ consecutive newlines
// collapse to one blank line, HTML comment blocks are stripped, line
// endings become \n, and surrounding whitespace is trimmed.
func cleanContent(content string) string {
	content = excessNewlines.ReplaceAllString(content, "\n\n")
	content = htmlComments.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.TrimSpace(content)
}
