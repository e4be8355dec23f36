package topics

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/dtnitsch/learnmap/models"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "glossary headers then keywords",
			text: "Law of Inertia: objects at rest stay at rest. Second Law: force equals mass times acceleration.",
			want: []string{"Law of Inertia", "Second Law"},
		},
		{
			name: "keyword appended after colon headers",
			text: "Motion: things move. Every action has a reaction according to the Third Law of motion.",
			want: []string{"Motion", "Third Law"},
		},
		{
			name: "keywords kept as written",
			text: "the second law and the law of inertia are both taught early in physics courses",
			want: []string{"second law", "law of inertia"},
		},
		{
			name: "colon labels outside length bounds dropped",
			text: "A: x. Photosynthesis: y. This label is far too long to be a sensible topic: z",
			want: []string{"Photosynthesis"},
		},
		{
			name: "duplicate headers collapse to first",
			text: "Energy: can change form. Mass: resists motion. Energy: is conserved.",
			want: []string{"Energy", "Mass"},
		},
		{
			name: "capped at six",
			text: "Alpha one: a. Beta two: b. Gamma three: c. Delta four: d. Epsilon five: e. Zeta six: f. Eta seven: g. Theta eight: h.",
			want: []string{"Alpha one", "Beta two", "Gamma three", "Delta four", "Epsilon five", "Zeta six"},
		},
		{
			name: "colon headers spanning unicode whitespace",
			text: "Big\u00a0Data: lots of records. Cloud\vComputing: rented servers.",
			want: []string{"Big\u00a0Data", "Cloud\vComputing"},
		},
		{
			name: "colon header trimmed of non-breaking spaces",
			text: "\u00a0\u2003Photosynthesis\u00a0: light becomes sugar.",
			want: []string{"Photosynthesis"},
		},
		{
			name: "capitalized runs spanning unicode whitespace",
			text: "Big\u00a0Data drives Cloud\vComputing and Edge\u0085Devices.",
			want: []string{"Big\u00a0Data", "Cloud\vComputing", "Edge\u0085Devices"},
		},
		{
			name: "capitalized phrase fallback",
			text: "Neural Networks process Big Data efficiently.",
			want: []string{"Neural Networks", "Big Data"},
		},
		{
			name: "capitalized fallback keeps first-seen order",
			text: "Quantum Physics explains Atoms. Quantum Physics also explains Light Waves.",
			want: []string{"Quantum Physics", "Atoms", "Light Waves"},
		},
		{
			name: "capitalized fallback skips short words",
			text: "The cat sat. It ran.",
			want: []string{"Main Concept"},
		},
		{
			name: "nothing recognisable",
			text: "all lowercase words with no punctuation at all and nothing to find here",
			want: []string{"Main Concept"},
		},
		{
			name: "empty",
			text: "",
			want: []string{"Main Concept"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestExtract_CapitalizedFallbackLimit(t *testing.T) {
	text := "Apples and Bananas and Cherries and Dates and Elderberries and Figs and Grapes and Honeydew."
	assert.Equal(t,
		[]string{"Apples", "Bananas", "Cherries", "Dates", "Elderberries", "Figs"},
		Extract(text))
}

func TestExtract_IgnoresTextBeyondCap(t *testing.T) {
	head := strings.Repeat("x ", models.MaxContentChars/2)
	tail := "Gravity: pulls masses together."

	assert.Equal(t, []string{"Gravity"}, Extract(tail))
	assert.Equal(t, []string{models.FallbackTopic}, Extract(head+tail))
}

func TestExtract_Properties(t *testing.T) {
	vocab := []string{
		"Law of Inertia:", "second law", "THIRD LAW", "Topic:", "A:", "Big Data", "Neural Networks",
		"energy", "is", "the", "Momentum", "Vector Spaces:", "x", "Glossary Entry Number One:", ".",
		"\n", "Photosynthesis converts light", "Cell Biology", "Mitochondria:", "It",
	}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 300; i++ {
		words := make([]string, rng.Intn(60))
		for j := range words {
			words[j] = vocab[rng.Intn(len(vocab))]
		}
		text := strings.Join(words, " ")

		got := Extract(text)

		assert.GreaterOrEqual(t, len(got), 1, text)
		assert.LessOrEqual(t, len(got), models.MaxTopics, text)
		assert.Equal(t, got, Extract(text), "extraction must be deterministic")

		seen := make(map[string]bool)
		for _, topic := range got {
			assert.False(t, seen[topic], "duplicate topic %q in %v", topic, got)
			seen[topic] = true
			if topic == models.FallbackTopic {
				continue
			}
			n := utf8.RuneCountInString(strings.TrimSpace(topic))
			assert.True(t, n >= 4 && n <= 39, "topic %q has length %d", topic, n)
		}
	}
}

func TestColonHeaders(t *testing.T) {
	got := ColonHeaders("Energy: a. Energy: b. Ok: c.")
	assert.Equal(t, []string{"Energy", "Energy"}, got)
}

func TestKeywords(t *testing.T) {
	got := Keywords("Second Law, then the THIRD LAW, then second law again")
	assert.Equal(t, []string{"Second Law", "THIRD LAW", "second law"}, got)
}

func TestCapitalizedPhrases(t *testing.T) {
	got := CapitalizedPhrases("Big Data meets Big Data and Cloud Computing", 6)
	assert.Equal(t, []string{"Big Data", "Cloud Computing"}, got)

	assert.Empty(t, CapitalizedPhrases("Big Data", 0))
}
