package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_Detect(t *testing.T) {
	d, err := NewDetector([]string{"en", "es", "fr", "de"})
	require.NoError(t, err)

	tests := []struct {
		text string
		want string
	}{
		{"Objects at rest stay at rest unless acted upon by an external force.", "en"},
		{"Los objetos en reposo permanecen en reposo a menos que una fuerza externa actúe sobre ellos.", "es"},
		{"Les objets au repos restent au repos sauf si une force extérieure agit sur eux.", "fr"},
		{"Ein Körper verharrt im Zustand der Ruhe, solange keine äußere Kraft auf ihn wirkt.", "de"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, d.Detect(tt.text), tt.text)
	}
}

func TestNewDetector_Errors(t *testing.T) {
	_, err := NewDetector([]string{"en", "xx"})
	assert.ErrorContains(t, err, `unknown language code "xx"`)

	_, err = NewDetector([]string{"en", "EN", " "})
	assert.ErrorContains(t, err, "at least 2 languages")

	_, err = NewDetector(nil)
	assert.Error(t, err)
}
