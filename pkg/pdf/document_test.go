package pdf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/learnmap/models"
	"github.com/dtnitsch/learnmap/pkg/topictree"
)

func TestGenerate(t *testing.T) {
	topics := []string{"Law of Inertia", "Second Law"}
	result := models.AnalysisResult{
		Summary:   "Objects resist change. Force equals mass times acceleration.",
		Topics:    topics,
		TopicTree: topictree.Build(topics),
	}

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, result))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, []byte("%%EOF")))
}

func TestGenerate_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, models.AnalysisResult{}))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGenerate_LongContentPaginates(t *testing.T) {
	var children []models.TopicNode
	for i := 0; i < 200; i++ {
		children = append(children, models.TopicNode{ID: "x", Label: "Repeated topic label"})
	}
	result := models.AnalysisResult{
		Summary:   "Résumé with non-ASCII text and naïve accents.",
		TopicTree: []models.TopicNode{{ID: "1", Label: "Learning Topics", Children: children}},
	}

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, result))
	assert.Contains(t, buf.String(), "/Count ")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestGenerate_WriteError(t *testing.T) {
	err := Generate(failingWriter{}, models.AnalysisResult{Summary: "x"})
	assert.ErrorContains(t, err, "failed to write pdf")
}
