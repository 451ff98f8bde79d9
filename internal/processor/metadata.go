package processor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
)

// Inline metadata patterns. Some documents carry key-value metadata in
// the body rather than a frontmatter block; these patterns recover it.
// Inline values override frontmatter values for the same key.
var inlinePatterns = map[string]*regexp.Regexp{
	"created_on":   regexp.MustCompile(`(?im)^created_on: *(\d{4}-\d{2}-\d{2})`),
	"last_updated": regexp.MustCompile(`(?im)^last updated: *(\d{4}-\d{2}-\d{2})`),
	"author":       regexp.MustCompile(`(?im)^author: *\[?([^\]\n]+)\]?`),
	"category":     regexp.MustCompile(`(?im)^category: *\[?([^\]\n]+)\]?`),
	"type":         regexp.MustCompile(`(?im)^type: *\[?([^\]\n]+)\]?`),
	"source":       regexp.MustCompile(`(?im)^source: *([^\n]+)`),
}

// listKeys are the frontmatter keys normalised to lists. All scalar or
// list ambiguity for these keys resolves to a list of trimmed strings.
var listKeys = map[string]bool{
	"author":   true,
	"category": true,
	"type":     true,
	"tags":     true,
}

// normaliseMetadata merges inline-extracted metadata over the
// frontmatter map and coerces every value into the fixed
// FrontmatterMetadata shape. The same per-key policy applies regardless
// of whether a value came from the frontmatter block or an inline
// pattern.
func normaliseMetadata(metadata map[string]any, rawContent string) domain.FrontmatterMetadata {
	if metadata == nil {
		metadata = map[string]any{}
	}
	for key, value := range extractInlineMetadata(rawContent) {
		metadata[key] = value
	}

	return domain.FrontmatterMetadata{
		Title:       normaliseScalar(metadata["title"]),
		Author:      normaliseList(metadata["author"]),
		Category:    normaliseList(metadata["category"]),
		Type:        normaliseList(metadata["type"]),
		Tags:        normaliseList(metadata["tags"]),
		Source:      normaliseScalar(metadata["source"]),
		Description: normaliseScalar(metadata["description"]),
		CreatedOn:   normaliseScalar(metadata["created_on"]),
		LastUpdated: normaliseScalar(metadata["last_updated"]),
	}
}

// extractInlineMetadata recovers key-value metadata from the document
// text using the inline patterns.
func extractInlineMetadata(content string) map[string]any {
	metadata := map[string]any{}
	for key, pattern := range inlinePatterns {
		match := pattern.FindStringSubmatch(content)
		if match == nil {
			continue
		}
		metadata[key] = strings.TrimSpace(match[1])
	}
	return metadata
}

// normaliseList coerces a value to a list of trimmed strings. Only a
// bracketed string `[a, b]` splits on commas; a bare string becomes a
// single-element list, commas and all. List values have each element
// trimmed. Empty elements are dropped; an absent value stays absent
// (nil).
func normaliseList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(v)
		if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
			if s == "" {
				return []string{}
			}
			return []string{s}
		}
		s = strings.TrimPrefix(s, "[")
		s = strings.TrimSuffix(s, "]")
		var items []string
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if items == nil {
			items = []string{}
		}
		return items
	case []any:
		items := make([]string, 0, len(v))
		for _, elem := range v {
			if item := strings.TrimSpace(fmt.Sprint(elem)); item != "" {
				items = append(items, item)
			}
		}
		return items
	case []string:
		items := make([]string, 0, len(v))
		for _, elem := range v {
			if item := strings.TrimSpace(elem); item != "" {
				items = append(items, item)
			}
		}
		return items
	default:
		return []string{strings.TrimSpace(fmt.Sprint(v))}
	}
}

// normaliseScalar coerces a value to a trimmed string; absent values
// become "".
func normaliseScalar(value any) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}
