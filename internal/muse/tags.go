package muse

import "strings"

// maxTags caps how many derived tags a creation gets.
const maxTags = 5

// tagStopwords are filler words excluded from derived tags.
var tagStopwords = map[string]bool{
	"with": true, "and": true, "the": true, "this": true,
	"that": true, "make": true, "create": true, "generate": true,
}

// DeriveTags extracts up to maxTags searchable keywords from a prompt:
// lowercase words longer than three characters, minus filler words, in
// order of first appearance.
func DeriveTags(prompt string) []string {
	words := strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})

	var tags []string
	seen := map[string]bool{}
	for _, w := range words {
		if len(w) <= 3 || tagStopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		tags = append(tags, w)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}
