// Package topics pulls key topic labels out of free text with a fixed,
// layered set of pattern heuristics. Results are deterministic for a given
// input and never depend on any external service.
package topics

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dtnitsch/learnmap/models"
)

// Topic label length bounds, exclusive.
const (
	minLabelLen = 3
	maxLabelLen = 40
)

// space matches any Unicode whitespace, including \v, NEL and the
// non-breaking spaces that RE2's \s leaves out.
const space = `\s\v\x1c-\x1f\x85\p{Z}`

var (
	// "Term: definition" glossary headers.
	colonHeaderPattern = regexp.MustCompile(`([A-Za-z0-9` + space + `]+):`)

	// Named concepts recognised regardless of surrounding structure.
	keywordPattern = regexp.MustCompile(`(?i)(Law of Inertia|Second Law|Third Law)`)

	// Title Case runs such as "Neural Networks" or "Big Data".
	capitalizedPattern = regexp.MustCompile(`[A-Z][a-z]+(?:[` + space + `][A-Z][a-z]+)*`)
)

// list is an insertion-ordered set of labels; the first occurrence wins.
type list struct {
	items []string
	seen  map[string]struct{}
}

func newList() *list {
	return &list{seen: make(map[string]struct{})}
}

func (l *list) add(label string) {
	if _, ok := l.seen[label]; ok {
		return
	}
	l.seen[label] = struct{}{}
	l.items = append(l.items, label)
}

func (l *list) len() int {
	return len(l.items)
}

// Extract returns between 1 and models.MaxTopics unique topics for text.
// Only the first models.MaxContentChars runes are scanned.
func Extract(text string) []string {
	text = models.Truncate(text, models.MaxContentChars)
	found := newList()

	for _, label := range ColonHeaders(text) {
		found.add(label)
	}
	for _, label := range Keywords(text) {
		found.add(label)
	}

	if found.len() == 0 {
		for _, label := range CapitalizedPhrases(text, models.MaxTopics) {
			found.add(label)
		}
	}

	if found.len() == 0 {
		return []string{models.FallbackTopic}
	}

	topics := found.items
	if len(topics) > models.MaxTopics {
		topics = topics[:models.MaxTopics]
	}
	return topics
}

// ColonHeaders returns trimmed "<label>:" prefixes in scan order, keeping
// only labels of acceptable length. Duplicates are preserved.
func ColonHeaders(text string) []string {
	var labels []string
	for _, m := range colonHeaderPattern.FindAllStringSubmatch(text, -1) {
		label := trimSpace(m[1])
		if validLength(label) {
			labels = append(labels, label)
		}
	}
	return labels
}

// Keywords returns every domain keyword occurrence, trimmed, as written in text.
func Keywords(text string) []string {
	var labels []string
	for _, m := range keywordPattern.FindAllString(text, -1) {
		labels = append(labels, trimSpace(m))
	}
	return labels
}

// CapitalizedPhrases returns up to limit distinct Title Case runs in the
// order they first appear. Runs outside the topic length bounds are skipped
// so the fallback obeys the same label rules as the primary heuristics.
func CapitalizedPhrases(text string, limit int) []string {
	found := newList()
	for _, m := range capitalizedPattern.FindAllString(text, -1) {
		if found.len() == limit {
			break
		}
		if validLength(m) {
			found.add(m)
		}
	}
	return found.items
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func validLength(label string) bool {
	n := utf8.RuneCountInString(label)
	return n > minLabelLen && n < maxLabelLen
}
