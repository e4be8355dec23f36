// Package summary produces the short summary of a learning map. Generation
// goes through an Ollama-compatible text-generation endpoint and degrades to
// a deterministic truncation of the input whenever that call fails.
package summary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"

	"github.com/dtnitsch/learnmap/models"
)

const (
	// FallbackChars is how much of the capped input a degraded summary keeps.
	FallbackChars = 200

	DefaultTimeout = 300 * time.Second

	promptTemplate = "Summarize this text in 2 sentences:\n\n%s"
)

var errEmptyResponse = errors.New("summarization endpoint returned no response text")

// Source says which branch produced a Summary.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Summary is the outcome of Generate. Cause is set only for fallback
// summaries and exists for logging; it is never an error to act on.
type Summary struct {
	Text   string
	Source Source
	Cause  error
}

// Degraded reports whether the summary is the local fallback.
func (s Summary) Degraded() bool {
	return s.Source == SourceFallback
}

// Config is the immutable endpoint configuration, resolved once at startup.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Generator issues one summarization request per call.
type Generator struct {
	client *ollama.Client
	model  string
}

// NewGenerator builds a Generator. The only failure is an unusable base URL.
func NewGenerator(cfg Config) (*Generator, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid summarization base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid summarization base URL %q: scheme and host are required", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Generator{
		client: ollama.NewClient(base, &http.Client{Timeout: timeout}),
		model:  cfg.Model,
	}, nil
}

// Generate summarizes text and never fails. Only the first
// models.MaxContentChars runes are considered.
func (g *Generator) Generate(ctx context.Context, text string) Summary {
	text = models.Truncate(text, models.MaxContentChars)

	out, err := g.request(ctx, text)
	if err != nil {
		return Fallback(text, err)
	}
	return Summary{Text: out, Source: SourceModel}
}

func (g *Generator) request(ctx context.Context, text string) (string, error) {
	stream := false
	req := &ollama.GenerateRequest{
		Model:  g.model,
		Prompt: fmt.Sprintf(promptTemplate, text),
		Stream: &stream,
	}

	var response strings.Builder
	err := g.client.Generate(ctx, req, func(gr ollama.GenerateResponse) error {
		response.WriteString(gr.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("summarization request failed: %w", err)
	}

	out := strings.TrimSpace(response.String())
	if out == "" {
		return "", errEmptyResponse
	}
	return out, nil
}

// Fallback builds the degraded summary: the first FallbackChars runes of the
// capped text.
func Fallback(text string, cause error) Summary {
	text = models.Truncate(text, models.MaxContentChars)
	return Summary{
		Text:   models.Truncate(text, FallbackChars),
		Source: SourceFallback,
		Cause:  cause,
	}
}
