// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/dtnitsch/learnmap/models"
	"github.com/dtnitsch/learnmap/pkg/analysis"
	"github.com/dtnitsch/learnmap/pkg/content"
	"github.com/dtnitsch/learnmap/pkg/db"
	"github.com/dtnitsch/learnmap/pkg/logger"
	"github.com/dtnitsch/learnmap/pkg/pdf"
)

const (
	previewChars = 100

	// maxBodyBytes bounds request bodies read by the JSON handlers.
	maxBodyBytes = 10 << 20
)

var errTooShort = errors.New("extracted text is too short")

// HistoryStore persists completed analyses.
type HistoryStore interface {
	InsertAnalysis(a *db.Analysis) (int64, error)
	ListAnalyses(limit int) ([]db.Analysis, error)
	GetAnalysis(id int64) (*db.Analysis, error)
}

type Handler struct {
	analyzer *analysis.Analyzer
	resolver *content.Resolver
	history  HistoryStore
	limiter  *rate.Limiter
}

type HandlerOption func(*Handler)

// WithHistory records every successful analysis in store.
func WithHistory(store HistoryStore) HandlerOption {
	return func(h *Handler) {
		h.history = store
	}
}

// WithLimiter throttles /api/analyze. A nil limiter disables throttling.
func WithLimiter(l *rate.Limiter) HandlerOption {
	return func(h *Handler) {
		h.limiter = l
	}
}

func NewHandler(a *analysis.Analyzer, r *content.Resolver, opts ...HandlerOption) *Handler {
	h := &Handler{analyzer: a, resolver: r}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func errorBody(msg string) map[string]any {
	return map[string]any{"error": msg}
}

func (h *Handler) Health(ctx http.Context) error {
	return ctx.JSON(nethttp.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Backend running",
	})
}

func (h *Handler) Analyze(ctx http.Context) error {
	if h.limiter != nil && !h.limiter.Allow() {
		logger.Log.Warn("analyze request rate limited")
		return ctx.JSON(nethttp.StatusTooManyRequests, errorBody("Too many requests, please try again shortly"))
	}

	raw, err := readBody(ctx.Request())
	if err != nil {
		return ctx.JSON(nethttp.StatusBadRequest, errorBody("No JSON data provided"))
	}
	in, problem := decodeAnalyzeRequest(raw)
	if problem != nil {
		logger.Log.WithField("error", problem["error"]).Warn("rejected analyze request")
		return ctx.JSON(nethttp.StatusBadRequest, problem)
	}

	requestID := uuid.NewString()
	ctx.Response().Header().Set("X-Request-ID", requestID)
	log := logger.Log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"content_type": in.ContentType,
	})
	log.WithField("content_length", utf8.RuneCountInString(strings.TrimSpace(in.Text))).Info("analyzing content")

	run := ctx.Middleware(func(c context.Context, req any) (any, error) {
		return h.run(c, requestID, req.(models.AnalysisInput))
	})
	out, err := run(ctx, in)
	if err != nil {
		return h.analyzeError(ctx, log, err)
	}

	result := out.(*models.AnalysisResult)
	log.WithField("topics", len(result.Topics)).Info("analysis complete")
	return ctx.JSON(nethttp.StatusOK, result)
}

func (h *Handler) run(ctx context.Context, requestID string, in models.AnalysisInput) (*models.AnalysisResult, error) {
	text, err := h.resolver.Resolve(ctx, in)
	if err != nil {
		return nil, err
	}
	if in.ContentType.NeedsExtraction() {
		if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < models.MinContentChars {
			return nil, fmt.Errorf("%w: %d characters", errTooShort, n)
		}
	}

	report := h.analyzer.Run(ctx, text, in.ContentType)
	h.record(requestID, in.ContentType, report)
	return report.Result, nil
}

// record stores the analysis when history is enabled. Failures are logged only.
func (h *Handler) record(requestID string, ct models.ContentType, report analysis.Report) {
	if h.history == nil {
		return
	}
	_, err := h.history.InsertAnalysis(&db.Analysis{
		RequestID:     requestID,
		ContentType:   ct,
		ContentHash:   report.ContentHash,
		ContentLength: report.ContentLength,
		SummarySource: string(report.SummarySource),
		Result:        *report.Result,
	})
	if err != nil {
		logger.Log.WithError(err).WithField("request_id", requestID).Error("failed to record analysis")
	}
}

func (h *Handler) analyzeError(ctx http.Context, log *logrus.Entry, err error) error {
	log.WithError(err).Error("analysis failed")

	switch {
	case errors.Is(err, content.ErrUnresolvable):
		return ctx.JSON(nethttp.StatusUnprocessableEntity, map[string]any{
			"error":   "Could not extract text from content",
			"details": err.Error(),
		})
	case errors.Is(err, errTooShort):
		return ctx.JSON(nethttp.StatusUnprocessableEntity, map[string]any{
			"error":   fmt.Sprintf("Extracted text must be at least %d characters", models.MinContentChars),
			"details": err.Error(),
		})
	default:
		return ctx.JSON(nethttp.StatusInternalServerError, map[string]any{
			"error":   "Failed to analyze content",
			"details": err.Error(),
		})
	}
}

// decodeAnalyzeRequest validates {"content": string, "type": string}. A
// non-nil problem is the 400 response body.
func decodeAnalyzeRequest(raw []byte) (models.AnalysisInput, map[string]any) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return models.AnalysisInput{}, errorBody("No JSON data provided")
	}

	rawContent, ok := fields["content"]
	if !ok || isEmptyJSON(rawContent) {
		return models.AnalysisInput{}, errorBody("Content is required")
	}
	var text string
	if err := json.Unmarshal(rawContent, &text); err != nil {
		return models.AnalysisInput{}, errorBody("Content must be a string")
	}

	var typ string
	if rawType, ok := fields["type"]; ok {
		_ = json.Unmarshal(rawType, &typ)
	}
	ct := models.ResolveContentType(typ)

	trimmed := strings.TrimSpace(text)
	if n := utf8.RuneCountInString(trimmed); ct != models.ContentTypeURL && n < models.MinContentChars {
		return models.AnalysisInput{}, map[string]any{
			"error":           fmt.Sprintf("Content must be at least %d characters (received %d)", models.MinContentChars, n),
			"content_length":  n,
			"content_preview": models.Truncate(trimmed, previewChars),
		}
	}

	return models.AnalysisInput{Text: text, ContentType: ct}, nil
}

// isEmptyJSON reports values a caller would consider "no content".
func isEmptyJSON(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "null", `""`, "0", "false", "[]", "{}":
		return true
	}
	return false
}

func (h *Handler) GeneratePDF(ctx http.Context) error {
	raw, err := readBody(ctx.Request())
	if err != nil {
		return ctx.JSON(nethttp.StatusBadRequest, errorBody("No JSON data provided"))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return ctx.JSON(nethttp.StatusBadRequest, errorBody("No JSON data provided"))
	}
	_, hasSummary := fields["summary"]
	_, hasTree := fields["topicTree"]
	if !hasSummary && !hasTree {
		return ctx.JSON(nethttp.StatusBadRequest, errorBody("Missing required fields: summary or topicTree"))
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return ctx.JSON(nethttp.StatusBadRequest, errorBody("Invalid analysis data: "+err.Error()))
	}

	return h.writePDF(ctx, result)
}

func (h *Handler) writePDF(ctx http.Context, result models.AnalysisResult) error {
	var buf bytes.Buffer
	if err := pdf.Generate(&buf, result); err != nil {
		logger.Log.WithError(err).Error("failed to generate pdf")
		return ctx.JSON(nethttp.StatusInternalServerError, errorBody("Failed to generate PDF: "+err.Error()))
	}

	logger.Log.WithField("bytes", buf.Len()).Info("pdf generated")
	ctx.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdf.Filename))
	return ctx.Blob(nethttp.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handler) ListAnalyses(ctx http.Context) error {
	if h.history == nil {
		return ctx.JSON(nethttp.StatusNotFound, errorBody("History is disabled"))
	}

	limit := 0
	if v := ctx.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return ctx.JSON(nethttp.StatusBadRequest, errorBody("limit must be a non-negative integer"))
		}
		limit = n
	}

	analyses, err := h.history.ListAnalyses(limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list analyses")
		return ctx.JSON(nethttp.StatusInternalServerError, errorBody("Failed to list analyses"))
	}
	if analyses == nil {
		analyses = []db.Analysis{}
	}
	return ctx.JSON(nethttp.StatusOK, map[string]any{"analyses": analyses})
}

func (h *Handler) GetAnalysis(ctx http.Context) error {
	a, done, err := h.lookup(ctx)
	if done {
		return err
	}
	return ctx.JSON(nethttp.StatusOK, a)
}

func (h *Handler) AnalysisPDF(ctx http.Context) error {
	a, done, err := h.lookup(ctx)
	if done {
		return err
	}
	return h.writePDF(ctx, a.Result)
}

// lookup resolves the {id} path variable. When done is true the response has
// already been written and err is the write result.
func (h *Handler) lookup(ctx http.Context) (*db.Analysis, bool, error) {
	if h.history == nil {
		return nil, true, ctx.JSON(nethttp.StatusNotFound, errorBody("History is disabled"))
	}

	id, err := strconv.ParseInt(ctx.Vars().Get("id"), 10, 64)
	if err != nil {
		return nil, true, ctx.JSON(nethttp.StatusBadRequest, errorBody("id must be an integer"))
	}

	a, err := h.history.GetAnalysis(id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, true, ctx.JSON(nethttp.StatusNotFound, errorBody("Analysis not found"))
	}
	if err != nil {
		logger.Log.WithError(err).WithField("id", id).Error("failed to load analysis")
		return nil, true, ctx.JSON(nethttp.StatusInternalServerError, errorBody("Failed to load analysis"))
	}
	return a, false, nil
}

func readBody(r *nethttp.Request) ([]byte, error) {
	defer r.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	return raw, nil
}
