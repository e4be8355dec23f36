// Package analysis runs the learning map pipeline: summary, key topics,
// topic tree and an optional language tag for one piece of text.
package analysis

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/dtnitsch/learnmap/internal/common"
	"github.com/dtnitsch/learnmap/models"
	"github.com/dtnitsch/learnmap/pkg/logger"
	"github.com/dtnitsch/learnmap/pkg/summary"
	"github.com/dtnitsch/learnmap/pkg/topics"
	"github.com/dtnitsch/learnmap/pkg/topictree"
)

// Summarizer produces a summary and never fails.
type Summarizer interface {
	Generate(ctx context.Context, text string) summary.Summary
}

// LanguageDetector returns an ISO 639-1 code, or "" when unsure.
type LanguageDetector interface {
	Detect(text string) string
}

// Report carries the result together with how it was produced.
type Report struct {
	Result        *models.AnalysisResult
	SummarySource summary.Source
	ContentHash   string // hex SHA-256 of the capped text
	ContentLength int    // runes in the capped text
	Duration      time.Duration
}

type Option func(*Analyzer)

// WithLanguageDetector tags every result with the detected language.
func WithLanguageDetector(d LanguageDetector) Option {
	return func(a *Analyzer) {
		a.detector = d
	}
}

// Analyzer is safe for concurrent use when its collaborators are.
type Analyzer struct {
	summarizer Summarizer
	detector   LanguageDetector
}

func New(s Summarizer, opts ...Option) *Analyzer {
	a := &Analyzer{summarizer: s}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze builds the learning map for text. It never returns an error;
// summarization failures yield the fallback summary.
func (a *Analyzer) Analyze(ctx context.Context, text string, contentType models.ContentType) *models.AnalysisResult {
	return a.Run(ctx, text, contentType).Result
}

// Run is Analyze with the bookkeeping callers need for logging and history.
func (a *Analyzer) Run(ctx context.Context, text string, contentType models.ContentType) Report {
	start := time.Now()
	text = models.Truncate(text, models.MaxContentChars)

	sum := a.summarizer.Generate(ctx, text)
	keyTopics := topics.Extract(text)

	result := &models.AnalysisResult{
		Summary:   sum.Text,
		Topics:    keyTopics,
		TopicTree: topictree.Build(keyTopics),
	}
	if a.detector != nil {
		result.Language = a.detector.Detect(text)
	}

	length := utf8.RuneCountInString(text)
	fields := logrus.Fields{
		"content_type":   contentType,
		"content_length": length,
		"summary_source": sum.Source,
		"topics":         len(keyTopics),
	}
	if sum.Degraded() {
		fields["error"] = sum.Cause
		logger.Log.WithFields(fields).Warn("summary degraded to fallback")
	} else {
		logger.Log.WithFields(fields).Debug("analysis complete")
	}

	return Report{
		Result:        result,
		SummarySource: sum.Source,
		ContentHash:   common.ContentHash([]byte(text)),
		ContentLength: length,
		Duration:      time.Since(start),
	}
}
