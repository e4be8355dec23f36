package analysis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/learnmap/internal/common"
	"github.com/dtnitsch/learnmap/models"
	"github.com/dtnitsch/learnmap/pkg/summary"
)

const physicsText = "Law of Inertia: objects at rest stay at rest. Second Law: force equals mass times acceleration."

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) Generate(ctx context.Context, text string) summary.Summary {
	args := m.Called(ctx, text)
	return args.Get(0).(summary.Summary)
}

type mockDetector struct {
	mock.Mock
}

func (m *mockDetector) Detect(text string) string {
	return m.Called(text).String(0)
}

func TestAnalyze(t *testing.T) {
	s := new(mockSummarizer)
	s.On("Generate", mock.Anything, physicsText).
		Return(summary.Summary{Text: "Objects resist change.", Source: summary.SourceModel})

	result := New(s).Analyze(context.Background(), physicsText, models.ContentTypeText)

	assert.Equal(t, "Objects resist change.", result.Summary)
	assert.Equal(t, []string{"Law of Inertia", "Second Law"}, result.Topics)
	require.Len(t, result.TopicTree, 1)
	assert.Equal(t, "Learning Topics", result.TopicTree[0].Label)
	assert.Equal(t, []models.TopicNode{
		{ID: "1-1", Label: "Law of Inertia"},
		{ID: "1-2", Label: "Second Law"},
	}, result.TopicTree[0].Children)
	assert.Empty(t, result.Language)
	s.AssertExpectations(t)
}

func TestAnalyze_StagesSeeCappedText(t *testing.T) {
	head := strings.Repeat("x ", models.MaxContentChars/2)
	text := head + "Gravity: pulls masses together."

	s := new(mockSummarizer)
	s.On("Generate", mock.Anything, head).Return(summary.Fallback(head, errors.New("down")))
	d := new(mockDetector)
	d.On("Detect", head).Return("en")

	report := New(s, WithLanguageDetector(d)).Run(context.Background(), text, models.ContentTypeText)

	assert.Equal(t, []string{models.FallbackTopic}, report.Result.Topics)
	assert.Equal(t, "en", report.Result.Language)
	assert.Equal(t, summary.SourceFallback, report.SummarySource)
	assert.Equal(t, models.MaxContentChars, report.ContentLength)
	assert.Equal(t, common.ContentHash([]byte(head)), report.ContentHash)
	s.AssertExpectations(t)
	d.AssertExpectations(t)
}

func TestAnalyze_UnreachableEndpointFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gen, err := summary.NewGenerator(summary.Config{BaseURL: url, Model: "phi", Timeout: time.Second})
	require.NoError(t, err)

	text := strings.Repeat("Neural Networks process Big Data efficiently. ", 10)
	report := New(gen).Run(context.Background(), text, models.ContentTypeText)

	assert.Equal(t, text[:200], report.Result.Summary)
	assert.Equal(t, summary.SourceFallback, report.SummarySource)
	assert.Equal(t, []string{"Neural Networks", "Big Data"}, report.Result.Topics)
}

func TestAnalyze_Idempotent(t *testing.T) {
	s := new(mockSummarizer)
	s.On("Generate", mock.Anything, mock.AnythingOfType("string")).
		Return(summary.Summary{Text: "same", Source: summary.SourceModel})
	a := New(s)

	first := a.Analyze(context.Background(), physicsText, models.ContentTypeAudio)
	second := a.Analyze(context.Background(), physicsText, models.ContentTypeAudio)

	assert.Equal(t, first, second)
	s.AssertNumberOfCalls(t, "Generate", 2)
}
