package models

import "strings"

// ContentType tags where a piece of content came from and how it must be
// reduced to plain text before analysis.
type ContentType string

const (
	ContentTypeText  ContentType = "text"  // Plain text, analysed as-is
	ContentTypeAudio ContentType = "audio" // Transcript produced upstream
	ContentTypeHTML  ContentType = "html"  // Raw HTML, readability-extracted
	ContentTypeURL   ContentType = "url"   // Page fetched, then treated as HTML
)

// ResolveContentType normalises a caller-supplied tag. Unknown or empty
// tags fall back to text.
func ResolveContentType(raw string) ContentType {
	switch ContentType(strings.ToLower(strings.TrimSpace(raw))) {
	case ContentTypeAudio:
		return ContentTypeAudio
	case ContentTypeHTML:
		return ContentTypeHTML
	case ContentTypeURL:
		return ContentTypeURL
	default:
		return ContentTypeText
	}
}

// NeedsExtraction reports whether the content must go through the HTML parser.
func (ct ContentType) NeedsExtraction() bool {
	return ct == ContentTypeHTML || ct == ContentTypeURL
}
