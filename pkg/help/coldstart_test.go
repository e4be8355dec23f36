package help

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestColdstartYAMLParses(t *testing.T) {
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(ColdstartYAML), &doc))

	for _, key := range []string{"content_types", "output_formats", "commands", "http_api", "environment"} {
		assert.Contains(t, doc, key)
	}
	assert.Len(t, doc["content_types"], 4)
}
