package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/learnmap/models"
)

func sampleTree() []models.TopicNode {
	return []models.TopicNode{{
		ID:    "1",
		Label: "Learning Topics",
		Children: []models.TopicNode{
			{ID: "1-1", Label: "Law of Inertia", Children: []models.TopicNode{
				{ID: "1-1-1", Label: "Mass"},
			}},
			{ID: "1-2", Label: "Second Law"},
		},
	}}
}

func TestStyleFor(t *testing.T) {
	tests := []struct {
		depth int
		want  Style
	}{
		{0, Style{Weight: WeightStrong, Bullet: false, Indent: 0, FontSize: 14}},
		{1, Style{Weight: WeightMedium, Bullet: true, Indent: 30, FontSize: 12}},
		{2, Style{Weight: WeightLight, Bullet: true, Indent: 60, FontSize: 11}},
		{3, Style{Weight: WeightLight, Bullet: true, Indent: 80, FontSize: 11}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StyleFor(tt.depth), "depth %d", tt.depth)
	}
}

func TestWalk_PreOrder(t *testing.T) {
	type visit struct {
		id    string
		depth int
	}
	var got []visit

	err := Walk(sampleTree(), func(node models.TopicNode, depth int) error {
		got = append(got, visit{node.ID, depth})
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []visit{{"1", 0}, {"1-1", 1}, {"1-1-1", 2}, {"1-2", 1}}, got)
}

func TestWalk_StopsOnError(t *testing.T) {
	stop := errors.New("stop")
	var seen []string

	err := Walk(sampleTree(), func(node models.TopicNode, _ int) error {
		seen = append(seen, node.ID)
		if node.ID == "1-1" {
			return stop
		}
		return nil
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"1", "1-1"}, seen)
}

func TestLines(t *testing.T) {
	lines := Lines(sampleTree())

	require.Len(t, lines, 4)
	assert.Equal(t, Line{Depth: 0, Label: "Learning Topics", Style: StyleFor(0)}, lines[0])
	assert.Equal(t, "Mass", lines[2].Label)
	assert.Equal(t, WeightLight, lines[2].Style.Weight)
	assert.Empty(t, Lines(nil))
}

func TestMarkdown(t *testing.T) {
	result := models.AnalysisResult{
		Summary:   "Objects resist change.",
		Topics:    []string{"Law of Inertia", "Second Law"},
		TopicTree: sampleTree(),
		Language:  "en",
	}

	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, result))

	want := "# Learning Map Analysis\n\n" +
		"## Summary\n\nObjects resist change.\n\n" +
		"_Language: en_\n\n" +
		"## Key Topics\n\n- Law of Inertia\n- Second Law\n\n" +
		"## Topic Tree\n\n" +
		"**Learning Topics**\n\n" +
		"- Law of Inertia\n" +
		"  - _Mass_\n" +
		"- Second Law\n"
	assert.Equal(t, want, buf.String())
}

func TestMarkdown_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, models.AnalysisResult{}))

	assert.Equal(t, "# Learning Map Analysis\n\n## Summary\n\nNo summary available.\n\n", buf.String())
}

func TestMarkdown_EscapesInlineMetacharacters(t *testing.T) {
	result := models.AnalysisResult{
		Summary: "Use *args and snake_case names.",
		Topics:  []string{"C_Sharp", "[Links]"},
		TopicTree: []models.TopicNode{{
			ID:    "1",
			Label: "Learning *Topics*",
			Children: []models.TopicNode{
				{ID: "1-1", Label: "C_Sharp", Children: []models.TopicNode{
					{ID: "1-1-1", Label: "snake_case_names"},
				}},
			},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, result))

	want := "# Learning Map Analysis\n\n" +
		"## Summary\n\nUse \\*args and snake\\_case names.\n\n" +
		"## Key Topics\n\n- C\\_Sharp\n- \\[Links\\]\n\n" +
		"## Topic Tree\n\n" +
		"**Learning \\*Topics\\***\n\n" +
		"- C\\_Sharp\n" +
		"  - _snake\\_case\\_names_\n"
	assert.Equal(t, want, buf.String())
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Plain Topic", "Plain Topic"},
		{"a*b", `a\*b`},
		{"under_score", `under\_score`},
		{"back\\slash", `back\\slash`},
		{"`code`", "\\`code\\`"},
		{"<tag>", `\<tag>`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeMarkdown(tt.in), tt.in)
	}
}
