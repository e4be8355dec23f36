package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/learnmap/models"
)

// markdownEscaper escapes inline metacharacters in user-supplied text.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
)

// EscapeMarkdown backslash-escapes inline Markdown metacharacters in s.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Markdown writes result as a Markdown document. The topic tree uses the
// same walk and styles as the PDF output: strong lines become bold text,
// bulleted lines become list items nested by depth.
func Markdown(w io.Writer, result models.AnalysisResult) error {
	var b strings.Builder

	b.WriteString("# Learning Map Analysis\n\n")

	b.WriteString("## Summary\n\n")
	summary := strings.TrimSpace(result.Summary)
	if summary == "" {
		summary = "No summary available."
	}
	b.WriteString(EscapeMarkdown(summary))
	b.WriteString("\n\n")

	if result.Language != "" {
		fmt.Fprintf(&b, "_Language: %s_\n\n", EscapeMarkdown(result.Language))
	}

	if len(result.Topics) > 0 {
		b.WriteString("## Key Topics\n\n")
		for _, topic := range result.Topics {
			fmt.Fprintf(&b, "- %s\n", EscapeMarkdown(topic))
		}
		b.WriteString("\n")
	}

	if len(result.TopicTree) > 0 {
		b.WriteString("## Topic Tree\n\n")
		for _, line := range Lines(result.TopicTree) {
			b.WriteString(markdownLine(line))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func markdownLine(line Line) string {
	label := EscapeMarkdown(line.Label)
	switch line.Style.Weight {
	case WeightStrong:
		label = "**" + label + "**"
	case WeightLight:
		label = "_" + label + "_"
	}

	if !line.Style.Bullet {
		return label + "\n\n"
	}
	return strings.Repeat("  ", line.Depth-1) + "- " + label + "\n"
}
