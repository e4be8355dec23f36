// Package pdf renders an analysis result as a single printable document.
package pdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/dtnitsch/learnmap/models"
	"github.com/dtnitsch/learnmap/pkg/render"
)

const (
	// Filename is the attachment name used when the document is served.
	Filename = "learning_map_analysis.pdf"

	Title = "Learning Map Analysis"

	margin      = 72.0
	fontFamily  = "Helvetica"
	noSummary   = "No summary available."
	bulletGlyph = "• "
)

type rgb struct{ r, g, b int }

var (
	colorTitle   = rgb{26, 26, 26}
	colorSection = rgb{44, 62, 80}
	colorTopic   = rgb{52, 73, 94}
	colorBody    = rgb{85, 85, 85}
)

// weightFont maps a render weight to a core font style and color.
var weightFont = map[render.Weight]struct {
	style string
	color rgb
}{
	render.WeightStrong: {"B", colorSection},
	render.WeightMedium: {"", colorTopic},
	render.WeightLight:  {"", colorBody},
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// Generate writes the PDF for result to w.
func Generate(w io.Writer, result models.AnalysisResult) error {
	d := newDocument()

	d.title(Title)

	d.section("Summary")
	summary := strings.TrimSpace(result.Summary)
	if summary == "" {
		summary = noSummary
	}
	d.paragraph(summary, 12, 16, colorBody)
	d.pdf.Ln(14)

	if len(result.Topics) > 0 {
		d.section("Key Topics")
		for _, topic := range result.Topics {
			d.indented(20, bulletGlyph+topic, "", 12, colorTopic)
			d.pdf.Ln(4)
		}
		d.pdf.Ln(10)
	}

	if len(result.TopicTree) > 0 {
		d.section("Topic Tree")
		err := render.Walk(result.TopicTree, func(node models.TopicNode, depth int) error {
			d.node(node.Label, render.StyleFor(depth))
			return d.pdf.Error()
		})
		if err != nil {
			return fmt.Errorf("failed to render topic tree: %w", err)
		}
	}

	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func newDocument() *document {
	p := fpdf.New("P", "pt", "Letter", "")
	p.SetMargins(margin, margin, margin)
	p.SetAutoPageBreak(true, margin)
	p.SetTitle(Title, true)
	p.SetCreator("learnmap", true)
	p.AddPage()

	return &document{
		pdf: p,
		tr:  p.UnicodeTranslatorFromDescriptor(""),
	}
}

func (d *document) title(text string) {
	d.pdf.SetFont(fontFamily, "B", 24)
	d.setColor(colorTitle)
	d.pdf.MultiCell(0, 28, d.tr(text), "", "C", false)
	d.pdf.Ln(30)
}

func (d *document) section(text string) {
	d.pdf.Ln(8)
	d.pdf.SetFont(fontFamily, "B", 18)
	d.setColor(colorSection)
	d.pdf.MultiCell(0, 22, d.tr(text), "", "L", false)
	d.pdf.Ln(12)
}

func (d *document) paragraph(text string, size, leading float64, c rgb) {
	d.pdf.SetFont(fontFamily, "", size)
	d.setColor(c)
	d.pdf.MultiCell(0, leading, d.tr(text), "", "L", false)
}

func (d *document) indented(indent float64, text, style string, size float64, c rgb) {
	d.pdf.SetFont(fontFamily, style, size)
	d.setColor(c)
	d.pdf.SetX(margin + indent)
	d.pdf.MultiCell(0, size*1.3, d.tr(text), "", "L", false)
}

func (d *document) node(label string, style render.Style) {
	font := weightFont[style.Weight]
	text := label
	if style.Bullet {
		text = bulletGlyph + label
	}

	if style.Weight == render.WeightStrong {
		d.pdf.Ln(10)
	} else {
		d.pdf.Ln(4)
	}
	d.indented(style.Indent, text, font.style, style.FontSize, font.color)
}

func (d *document) setColor(c rgb) {
	d.pdf.SetTextColor(c.r, c.g, c.b)
}
