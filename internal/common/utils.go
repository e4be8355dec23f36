package common

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)
	urlPattern          = regexp.MustCompile(`^https?://[a-zA-Z0-9][-a-zA-Z0-9.]*[a-zA-Z0-9](:[0-9]+)?(/[^\s]*)?$`)
)

// ContentHash returns the hex SHA-256 of data.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, trailing punctuation and markdown link syntax.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// [text](url) -> url
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// ValidateURL sanitizes rawURL and checks it is a fetchable http(s) address.
func ValidateURL(rawURL string) (string, error) {
	cleaned := SanitizeURL(rawURL)
	if cleaned == "" {
		return "", fmt.Errorf("empty URL")
	}
	if strings.Contains(cleaned, " ") {
		return "", fmt.Errorf("URL %q contains spaces", cleaned)
	}
	if !urlPattern.MatchString(cleaned) {
		return "", fmt.Errorf("malformed URL %q", cleaned)
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("malformed URL %q: %w", cleaned, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" || strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
		return "", fmt.Errorf("invalid host in URL %q", cleaned)
	}

	return cleaned, nil
}
