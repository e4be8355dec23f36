package models

const (
	// MaxContentChars caps the text both the summary and topic stages see.
	MaxContentChars = 1200

	// MinContentChars is the shortest trimmed input the HTTP and CLI callers accept.
	MinContentChars = 50

	// FallbackTopic is emitted when no heuristic finds anything.
	FallbackTopic = "Main Concept"

	// MaxTopics bounds the key topic list.
	MaxTopics = 6
)

// AnalysisInput is the raw request handed to the pipeline.
type AnalysisInput struct {
	Text        string      `json:"content" yaml:"content"`
	ContentType ContentType `json:"type" yaml:"type"`
}

// TopicNode is one node of the topic tree.
type TopicNode struct {
	ID       string      `json:"id" yaml:"id"`
	Label    string      `json:"label" yaml:"label"`
	Children []TopicNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// AnalysisResult is the learning map returned for one piece of content.
// keyTopics is the wire name the front end and the PDF route expect.
type AnalysisResult struct {
	Summary   string      `json:"summary" yaml:"summary"`
	Topics    []string    `json:"keyTopics" yaml:"key_topics"`
	TopicTree []TopicNode `json:"topicTree" yaml:"topic_tree"`
	Language  string      `json:"language,omitempty" yaml:"language,omitempty"`
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
