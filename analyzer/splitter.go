package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Mayur7685/SpecterAI/model"
)

// Splitter defaults; both are cost-control bounds, not correctness limits.
const (
	DefaultMaxSections = 10
	DefaultChunkSize   = 1000
)

// headingRe matches a line that looks like an all-caps section heading:
// a run of at least 11 uppercase letters and spaces, optionally preceded
// by a section number and period.
var headingRe = regexp.MustCompile(`(?m)^[ \t]*(?:\d+\.?[ \t]*)?[A-Z][A-Z \t]{10,}`)

var sentenceRe = regexp.MustCompile(`[.!?]+`)

// SplitIntoSections partitions a document into named sections at all-caps
// headings. When no headings are detected it falls back to fixed-size
// sentence chunks. The result is capped at maxSections.
func SplitIntoSections(document string, maxSections, chunkSize int) []model.Section {
	if maxSections <= 0 {
		maxSections = DefaultMaxSections
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var sections []model.Section

	for i, part := range splitAtHeadings(document) {
		trimmed := strings.TrimSpace(part)
		if len(trimmed) <= 50 {
			continue
		}

		lines := strings.Split(trimmed, "\n")
		title := strings.TrimSpace(lines[0])
		if title == "" {
			title = fmt.Sprintf("Section %d", i+1)
		}
		title = truncateRunes(title, 100)

		content := strings.TrimSpace(strings.Join(lines[1:], "\n"))
		if len(content) > 20 {
			sections = append(sections, model.Section{Name: title, Content: content})
		}
	}

	// No usable headings: fall back to fixed-size chunks.
	if len(sections) == 0 {
		for i, chunk := range chunkText(document, chunkSize) {
			sections = append(sections, model.Section{
				Name:    fmt.Sprintf("Section %d", i+1),
				Content: chunk,
			})
		}
	}

	if len(sections) > maxSections {
		sections = sections[:maxSections]
	}
	return sections
}

// splitAtHeadings cuts the document immediately before each heading match,
// keeping any preamble before the first heading as its own part.
func splitAtHeadings(document string) []string {
	var parts []string
	prev := 0
	for _, loc := range headingRe.FindAllStringIndex(document, -1) {
		if loc[0] > prev {
			parts = append(parts, document[prev:loc[0]])
		}
		prev = loc[0]
	}
	parts = append(parts, document[prev:])
	return parts
}

// truncateRunes caps s at n runes. Cutting on a byte offset could split a
// multi-byte rune and leak invalid UTF-8 into JSON responses.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// chunkText greedily accumulates sentences into chunks of at most maxLength
// characters. A document with no sentence terminators comes back as a
// single chunk.
func chunkText(text string, maxLength int) []string {
	var chunks []string
	current := ""

	for _, sentence := range sentenceRe.Split(text, -1) {
		if len(current)+len(sentence) > maxLength && len(current) > 0 {
			chunks = append(chunks, strings.TrimSpace(current))
			current = sentence
		} else {
			current += sentence + "."
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}
