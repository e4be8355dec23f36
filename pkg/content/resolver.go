// Package content reduces tagged input to the plain text the analysis
// pipeline consumes.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dtnitsch/learnmap/models"
	"github.com/dtnitsch/learnmap/pkg/parser"
)

// ErrUnresolvable marks input whose text could not be obtained. HTTP
// callers answer it with 422.
var ErrUnresolvable = errors.New("content could not be resolved to text")

// PageFetcher retrieves raw HTML for a URL.
type PageFetcher interface {
	GetHtmlBytes(ctx context.Context, rawURL string) ([]byte, error)
}

type Resolver struct {
	fetcher PageFetcher
	parser  *parser.Parser
}

// NewResolver builds a Resolver. A nil fetcher disables url content.
func NewResolver(f PageFetcher) *Resolver {
	return &Resolver{fetcher: f, parser: &parser.Parser{}}
}

// Resolve returns the text to analyse. text and audio pass through
// unchanged; html is reduced to readable text; url is fetched first.
func (r *Resolver) Resolve(ctx context.Context, in models.AnalysisInput) (string, error) {
	switch in.ContentType {
	case models.ContentTypeHTML:
		return r.fromHTML("", in.Text)
	case models.ContentTypeURL:
		if r.fetcher == nil {
			return "", fmt.Errorf("%w: url content is disabled", ErrUnresolvable)
		}
		pageURL := strings.TrimSpace(in.Text)
		body, err := r.fetcher.GetHtmlBytes(ctx, pageURL)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnresolvable, err)
		}
		return r.fromHTML(pageURL, string(body))
	default:
		return in.Text, nil
	}
}

func (r *Resolver) fromHTML(pageURL, html string) (string, error) {
	doc, err := r.parser.ExtractText(pageURL, html)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnresolvable, err)
	}
	return doc.Text, nil
}
